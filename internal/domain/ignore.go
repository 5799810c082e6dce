package domain

import (
	"strings"
	"unicode"

	m "github.com/mouse-blink/munge/internal/model"
	"github.com/mouse-blink/munge/internal/syntax"
)

const ignoreDirective = "munge:ignore"

type ignoreRule struct {
	all   bool
	kinds map[m.CandidateKind]struct{}
}

func (r ignoreRule) ignores(kind m.CandidateKind) bool {
	if r.all {
		return true
	}

	if len(r.kinds) == 0 {
		return false
	}

	_, ok := r.kinds[kind]

	return ok
}

func mergeIgnoreRule(dst *ignoreRule, src ignoreRule) {
	if src.all {
		dst.all = true
		dst.kinds = nil

		return
	}

	if dst.all || len(src.kinds) == 0 {
		return
	}

	if dst.kinds == nil {
		dst.kinds = make(map[m.CandidateKind]struct{}, len(src.kinds))
	}

	for kind := range src.kinds {
		dst.kinds[kind] = struct{}{}
	}
}

// parseIgnoreDirective recognizes `# munge:ignore` and `/* munge:ignore */`,
// optionally followed by a comma separated list of candidate kinds.
func parseIgnoreDirective(commentText string) (ignoreRule, bool) {
	s := strings.TrimSpace(commentText)
	if strings.HasPrefix(s, "#") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "#"))
	} else if strings.HasPrefix(s, "/*") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "/*"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "*/"))
	}

	if !strings.HasPrefix(s, ignoreDirective) {
		return ignoreRule{}, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(s, ignoreDirective))
	if rest == "" {
		return ignoreRule{all: true}, true
	}

	parts := strings.Split(rest, ",")
	rule := ignoreRule{kinds: make(map[m.CandidateKind]struct{}, len(parts))}

	for _, part := range parts {
		kind := strings.ToLower(strings.TrimSpace(part))
		if kind == "" {
			continue
		}

		rule.kinds[m.CandidateKind(kind)] = struct{}{}
	}

	if len(rule.kinds) == 0 {
		rule.all = true
		rule.kinds = nil
	}

	return rule, true
}

// ignoreIndex holds the directives of one file. A directive before the
// top-level expression covers the whole file; a trailing directive covers
// its own line and a directive alone on its line covers the next one.
type ignoreIndex struct {
	file ignoreRule
	line map[int]ignoreRule
}

func buildIgnoreIndex(tree *syntax.Tree) ignoreIndex {
	idx := ignoreIndex{line: make(map[int]ignoreRule)}

	exprStart := len(tree.Src())
	if first := tree.Root.FirstChild(); first != nil {
		exprStart = first.Start
	}

	for _, c := range tree.Comments {
		r, ok := parseIgnoreDirective(c.Text)
		if !ok {
			continue
		}

		if c.End <= exprStart {
			mergeIgnoreRule(&idx.file, r)
			continue
		}

		line := tree.Line(c.Start)
		if isLeadingComment(tree.Src(), c.Start) {
			line++
		}

		current := idx.line[line]
		mergeIgnoreRule(&current, r)
		idx.line[line] = current
	}

	return idx
}

func (idx ignoreIndex) ignores(tree *syntax.Tree, c m.Candidate) bool {
	if idx.file.ignores(c.Kind()) {
		return true
	}

	r, ok := idx.line[tree.Line(c.Span.Start)]

	return ok && r.ignores(c.Kind())
}

func isLeadingComment(content []byte, offset int) bool {
	if offset > len(content) {
		return false
	}

	start := offset
	for start > 0 && content[start-1] != '\n' {
		start--
	}

	for _, b := range content[start:offset] {
		if !unicode.IsSpace(rune(b)) {
			return false
		}
	}

	return true
}
