package domain

import (
	"sort"

	m "github.com/mouse-blink/munge/internal/model"
	"github.com/mouse-blink/munge/internal/syntax"
)

// DefaultOptionWrappers are the calls whose attribute set argument declares an option.
var DefaultOptionWrappers = []string{
	"mkOption",
	"mkNullOrBoolOption",
	"mkNullOrStrOption",
	"mkInternalOption",
	"mkNullableOption",
}

const (
	enableOptionCall  = "mkEnableOption"
	descriptionKey    = "description"
	defaultMarkerName = "mdDoc"
)

// Locator finds the spans of an unconverted file that are eligible for conversion.
type Locator interface {
	// Locate returns candidates ordered by descending start offset. Spans
	// never overlap.
	Locate(tree *syntax.Tree) []m.Candidate
}

type locator struct {
	wrappers map[string]struct{}
	marker   string
}

// NewLocator constructs a Locator. markerName is the bare function name of the
// migrated marker ("mdDoc"); it is matched both plain and as lib.<markerName>.
func NewLocator(markerName string) Locator {
	if markerName == "" {
		markerName = defaultMarkerName
	}

	wrappers := make(map[string]struct{}, len(DefaultOptionWrappers))
	for _, w := range DefaultOptionWrappers {
		wrappers[w] = struct{}{}
	}

	return &locator{wrappers: wrappers, marker: markerName}
}

type queued struct {
	node *syntax.Node
	// optionBody marks the argument of an option wrapper call.
	optionBody bool
}

func (l *locator) Locate(tree *syntax.Tree) []m.Candidate {
	if tree == nil || tree.Root == nil {
		return []m.Candidate{}
	}

	var found []m.Candidate

	queue := []queued{{node: tree.Root}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		n := item.node

		switch n.Kind {
		case syntax.KindApply:
			call, _ := syntax.AsApply(n)
			queue = append(queue,
				queued{node: call.Func()},
				queued{node: call.Arg(), optionBody: l.isWrapperCall(n)})

			if callName(n) == enableOptionCall && !l.isMarkedParen(call.Arg()) {
				arg := call.Arg()
				found = append(found, m.Candidate{
					Span:           m.Span{Start: arg.Start, End: arg.End},
					RequiresParens: true,
				})
			}

			continue
		case syntax.KindParen:
			if item.optionBody {
				paren, _ := syntax.AsParen(n)
				queue = append(queue, queued{node: paren.Inner(), optionBody: true})

				continue
			}
		case syntax.KindAttrSet:
			if item.optionBody {
				found = append(found, l.descriptions(n)...)
			}
		}

		for _, c := range n.Children {
			queue = append(queue, queued{node: c})
		}
	}

	return orderCandidates(filterIgnored(tree, found))
}

func (l *locator) descriptions(n *syntax.Node) []m.Candidate {
	set, _ := syntax.AsAttrSet(n)

	var found []m.Candidate

	for _, entry := range set.Entries() {
		key, ok := entry.Key().Single()
		if !ok || key != descriptionKey {
			continue
		}

		value := entry.Value()
		if callName(value) == l.marker {
			continue
		}

		found = append(found, m.Candidate{Span: m.Span{Start: value.Start, End: value.End}})
	}

	return found
}

func (l *locator) isWrapperCall(n *syntax.Node) bool {
	_, ok := l.wrappers[callName(n)]

	return ok
}

// isMarkedParen reports whether n is `(marker ...)`.
func (l *locator) isMarkedParen(n *syntax.Node) bool {
	paren, ok := syntax.AsParen(n)
	if !ok {
		return false
	}

	return callName(paren.Inner()) == l.marker
}

// callName returns f for a call `f x` or `lib.f x`, and "" otherwise.
func callName(n *syntax.Node) string {
	call, ok := syntax.AsApply(n)
	if !ok {
		return ""
	}

	if id, ok := syntax.AsIdent(call.Func()); ok {
		return id.Name()
	}

	sel, ok := syntax.AsSelect(call.Func())
	if !ok || sel.Default() != nil {
		return ""
	}

	set, ok := syntax.AsIdent(sel.Set())
	if !ok || set.Name() != "lib" {
		return ""
	}

	name, _ := sel.Path().Single()

	return name
}

func filterIgnored(tree *syntax.Tree, candidates []m.Candidate) []m.Candidate {
	if len(tree.Comments) == 0 {
		return candidates
	}

	idx := buildIgnoreIndex(tree)
	kept := candidates[:0]

	for _, c := range candidates {
		if !idx.ignores(tree, c) {
			kept = append(kept, c)
		}
	}

	return kept
}

// orderCandidates sorts by descending start and drops any span nested in an
// earlier-starting one, keeping the outermost.
func orderCandidates(candidates []m.Candidate) []m.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Span.Start != candidates[j].Span.Start {
			return candidates[i].Span.Start < candidates[j].Span.Start
		}

		return candidates[i].Span.Len() > candidates[j].Span.Len()
	})

	kept := make([]m.Candidate, 0, len(candidates))
	end := -1

	for _, c := range candidates {
		if c.Span.Start < end {
			continue
		}

		kept = append(kept, c)
		end = c.Span.End
	}

	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}

	return kept
}
