// Package config loads munge settings from defaults, an optional config file,
// MUNGE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultExpression builds the DocBook rendering of the NixOS option docs
// from a nixpkgs checkout.
const DefaultExpression = `let docs = import ./nixos/doc/manual {
      pkgs = import <nixpkgs> {};
      revision = "master";
      nixpkgsRevision = "master";
    };
    in docs.options.docBookForMigration`

// DefaultImportExpression is used with --import; the migrated file is passed as `file`.
const DefaultImportExpression = `{ file }:
    let docs = import ./nixos/doc/manual {
      pkgs = import <nixpkgs> {};
      revision = "master";
      nixpkgsRevision = "master";
      extraSources = [ (builtins.dirOf file) ];
    };
    in docs.options.docBookForMigration`

// Config holds all runtime settings.
type Config struct {
	Parallel    int         `mapstructure:"parallel"`
	Import      bool        `mapstructure:"import"`
	Root        string      `mapstructure:"root"`
	FailuresDir string      `mapstructure:"failures_dir"`
	Marker      string      `mapstructure:"marker"`
	Reflink     bool        `mapstructure:"reflink"`
	Plain       bool        `mapstructure:"plain"`
	Build       BuildConfig `mapstructure:"build"`
	Log         LogConfig   `mapstructure:"log"`
}

// BuildConfig describes the external documentation build.
type BuildConfig struct {
	Command          string `mapstructure:"command"`
	Args             string `mapstructure:"args"`
	Expression       string `mapstructure:"expression"`
	ImportExpression string `mapstructure:"import_expression"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"parallel":     "parallel",
	"import":       "import",
	"root":         "root",
	"failures-dir": "failures_dir",
	"marker":       "marker",
	"reflink":      "reflink",
	"plain":        "plain",
	"log-level":    "log.level",
	"log-json":     "log.json",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("parallel", 16)
	v.SetDefault("import", false)
	v.SetDefault("root", ".")
	v.SetDefault("failures_dir", "munge-failures")
	v.SetDefault("marker", "lib.mdDoc")
	v.SetDefault("reflink", true)
	v.SetDefault("plain", false)
	v.SetDefault("build.command", "nix-build")
	v.SetDefault("build.args", "")
	v.SetDefault("build.expression", DefaultExpression)
	v.SetDefault("build.import_expression", DefaultImportExpression)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
}

// Load resolves the configuration. Precedence, highest first: flags that were
// set explicitly, MUNGE_* environment variables, the config file (configFile,
// or .munge.yaml in the working directory), built-in defaults.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".munge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("MUNGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Parallel <= 0 {
		return fmt.Errorf("parallel must be positive, got %d", c.Parallel)
	}

	if strings.TrimSpace(c.Build.Command) == "" {
		return errors.New("build.command must not be empty")
	}

	if strings.TrimSpace(c.Marker) == "" {
		return errors.New("marker must not be empty")
	}

	if c.FailuresDir == "" {
		return errors.New("failures_dir must not be empty")
	}

	return nil
}

// MarkerName is the bare function name of the marker, e.g. "mdDoc" for "lib.mdDoc".
func (c *Config) MarkerName() string {
	if i := strings.LastIndex(c.Marker, "."); i >= 0 {
		return c.Marker[i+1:]
	}

	return c.Marker
}
