package domain

import (
	"regexp"

	"github.com/mouse-blink/munge/internal/domain/rules"
	"github.com/mouse-blink/munge/internal/logger"
)

type normalizePattern struct {
	re   *regexp.Regexp
	repl string
}

// Applied in order. The chain only smooths over cosmetic reflow between two
// renderings of the same document.
var normalizePatterns = []normalizePattern{
	{rules.MustCompile(`(?m)[‘’]`), "'"},
	{rules.MustCompile(`(?m)[“”]`), `"`},
	{rules.MustCompile(`(?m)…`), "..."},
	{rules.MustCompile(`(?m)\n+`), "\n"},
	{rules.MustCompile(`(?m)\s+(<|>)`), "\n${1}"},
	{rules.MustCompile(`(?m)>\s+`), ">\n"},
	{rules.MustCompile(`(?m)\n?(?:</para>)?<programlisting([^>]*)>\n`), "</para><programlisting${1}>"},
	{rules.MustCompile(`(?m)^</programlisting>(?:\n?</para>)?(?:\n?<para>)?\n?`), "</programlisting><para>"},
	{rules.MustCompile(`(?m)\s*</para>\s*<para>\s*`), "\n</para><para>\n"},
	{rules.MustCompile(`(?m)\n<para>`), "<para>"},
	{rules.MustCompile(`(?m)</para>\n`), "</para>"},
	{rules.MustCompile(`(?m)<(citerefentry|/refentrytitle|/manvolnum)>\n`), "<${1}>"},
	{rules.MustCompile(`(?m)<link xlink:href="[^"]+">(<citerefentry>.*</citerefentry>)</link>`), "${1}"},
}

// maxNormalizePasses bounds the fixed-point iteration in Normalize. The
// default patterns settle within three passes on real build output; running
// out of passes is logged.
const maxNormalizePasses = 8

// Normalize canonicalizes a documentation build output so two outputs that
// differ only cosmetically compare equal. The pattern chain is repeated until
// the text stops changing, which makes Normalize idempotent.
func Normalize(raw string) string {
	return normalizeWith(raw, normalizePatterns, logger.GetDefault())
}

func normalizeWith(raw string, patterns []normalizePattern, log logger.Logger) string {
	out := raw

	for range maxNormalizePasses {
		next := normalizeOnce(out, patterns)
		if next == out {
			return out
		}

		out = next
	}

	log.Warn("normalization did not converge", "passes", maxNormalizePasses, "length", len(out))

	return out
}

func normalizeOnce(s string, patterns []normalizePattern) string {
	for _, p := range patterns {
		s = p.re.ReplaceAllString(s, p.repl)
	}

	return s
}
