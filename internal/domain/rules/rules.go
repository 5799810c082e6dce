// Package rules holds the ordered DocBook to Markdown rewrite rules applied to
// option descriptions. Rules run in list order over the whole chunk; later
// rules rely on earlier ones having already rewritten their elements.
package rules

import (
	"regexp"
	"strings"
)

// Rule rewrites every match of Pattern in a chunk.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	// Rewrite receives the submatches of one match (index 0 is the whole
	// match) and returns its replacement.
	Rewrite func(groups []string) string
}

// Apply replaces every non-overlapping match in s.
func (r Rule) Apply(s string) string {
	matches := r.Pattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder

	last := 0

	for _, loc := range matches {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}

		b.WriteString(s[last:loc[0]])
		b.WriteString(r.Rewrite(groups))
		last = loc[1]
	}

	b.WriteString(s[last:])

	return b.String()
}

// Chain is an ordered rule list.
type Chain []Rule

// Apply folds s through every rule in order.
func (c Chain) Apply(s string) string {
	for _, r := range c {
		s = r.Apply(s)
	}

	return s
}

// Names lists the rule names in application order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, r := range c {
		names[i] = r.Name
	}

	return names
}

var escaper = strings.NewReplacer("`", "\\`", "*", "\\*")

var entityDecoder = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

// Escape backslash-escapes backticks and asterisks, then decodes the
// &lt; &gt; &amp; entities.
func Escape(s string) string {
	return entityDecoder.Replace(escaper.Replace(s))
}

// Space matches any Unicode white space, including U+00A0 and the other Z
// category separators that `\s` alone leaves out.
const Space = `[\s\v\x{85}\p{Z}]`

// MustCompile compiles pattern after widening every `\s` to Space.
func MustCompile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(strings.ReplaceAll(pattern, `\s`, Space))
}

// New compiles pattern with multi-line and dot-all semantics.
func New(name, pattern string, rewrite func(groups []string) string) Rule {
	return Rule{
		Name:    name,
		Pattern: MustCompile(`(?ms)` + pattern),
		Rewrite: rewrite,
	}
}

// Code emits the first group as a backtick code span tagged with role. Only
// the angle bracket entities are decoded; nothing is escaped.
func Code(role string) func([]string) string {
	return func(g []string) string {
		body := strings.ReplaceAll(g[1], "&gt;", ">")
		body = strings.ReplaceAll(body, "&lt;", "<")

		return role + "`" + body + "`"
	}
}

// Surround expands template with ${N} references, escapes the expansion and
// wraps it between prefix and suffix.
func Surround(prefix, template, suffix string) func([]string) string {
	expand := Template(template)

	return func(g []string) string {
		return prefix + Escape(expand(g)) + suffix
	}
}

var groupRef = regexp.MustCompile(`\$\{(\d+)\}`)

// Template expands ${N} references to submatch N verbatim.
func Template(template string) func([]string) string {
	return func(g []string) string {
		return groupRef.ReplaceAllStringFunc(template, func(ref string) string {
			n := 0
			for _, c := range ref[2 : len(ref)-1] {
				n = n*10 + int(c-'0')
			}

			if n >= len(g) {
				return ""
			}

			return g[n]
		})
	}
}

func admonition(kind string) Rule {
	return New(kind,
		`^( *)<`+kind+`>(?:\s*<para>)?(.*?)(?:</para>\s*)?</`+kind+`>`,
		Template("${1}::: {."+kind+"}\n${1}${2}\n${1}:::"))
}

// Default returns the standard rule chain.
func Default() Chain {
	return Chain{
		New("literal", `<literal>([^`+"`"+`]*?)</literal>`, Code("")),
		New("filename", `<filename>([^`+"`"+`]*?)</filename>`, Code("{file}")),
		New("option", `<option>([^`+"`"+`]*?)</option>`, Code("{option}")),
		New("command", `<command>([^`+"`"+`]*?)</command>`, Code("{command}")),
		New("autolink", `<link\s*xlink:href=\s*"([^"]+)"\s*/>`, Surround("<", "${1}", ">")),
		New("link", `<link\s*xlink:href=\s*"([^"]+)">(.*?)</link>`, Surround("", "[${2}](${1})", "")),
		New("xref", `<xref\s*linkend="([^"]+)"\s*/>`, Surround("[](#", "${1}", ")")),
		New("xref-link", `<link linkend="(.+?)">(.*?)</link>`, Surround("", "[${2}](#${1})", "")),
		New("emphasis", `<emphasis>([^*]*?)</emphasis>`, Surround("*", "${1}", "*")),
		New("strong", `<emphasis role="strong">([^*]*?)</emphasis>`, Surround("**", "${1}", "**")),
		New("manpage",
			`<citerefentry>\s*<refentrytitle>\s*(.*?)\s*</refentrytitle>\s*<manvolnum>\s*(.*?)\s*</manvolnum>\s*</citerefentry>`,
			Template("{manpage}`${1}(${2})`")),
		New("programlisting-language", `<programlisting language="([^"]+)">`, Template("```${1}")),
		New("programlisting", `</?programlisting>`, Template("```")),
		New("varname", `<varname>([^*]*?)</varname>`, Template("{var}`${1}`")),
		New("envar", `<envar>([^*]*?)</envar>`, Template("{env}`${1}`")),
		admonition("note"),
		admonition("warning"),
		admonition("important"),
		New("paragraph", `(\n+)( *)</para>(\n *)?<para>(\n+)`, Template("\n\n")),
	}
}
