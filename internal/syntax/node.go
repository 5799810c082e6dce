// Package syntax parses Nix expressions into a generic tree of spanned nodes.
//
// Every node carries a kind tag, a byte range and its ordered children. The
// typed views in views.go give role-named access to the children of the node
// kinds that callers match on; everything else is walked generically.
package syntax

import (
	"sort"
	"strings"
)

// Kind tags a node.
type Kind int

// Node kinds.
const (
	KindRoot Kind = iota
	KindApply
	KindSelect
	KindIdent
	KindAttrSet
	KindKeyValue
	KindInherit
	KindAttrPath
	KindDynamic
	KindParen
	KindString
	KindLiteral
	KindList
	KindLambda
	KindPattern
	KindPatEntry
	KindLetIn
	KindWith
	KindAssert
	KindIfElse
	KindBinOp
	KindUnaryOp
	KindHasAttr
)

var kindNames = map[Kind]string{
	KindRoot:     "Root",
	KindApply:    "Apply",
	KindSelect:   "Select",
	KindIdent:    "Ident",
	KindAttrSet:  "AttrSet",
	KindKeyValue: "KeyValue",
	KindInherit:  "Inherit",
	KindAttrPath: "AttrPath",
	KindDynamic:  "Dynamic",
	KindParen:    "Paren",
	KindString:   "String",
	KindLiteral:  "Literal",
	KindList:     "List",
	KindLambda:   "Lambda",
	KindPattern:  "Pattern",
	KindPatEntry: "PatEntry",
	KindLetIn:    "LetIn",
	KindWith:     "With",
	KindAssert:   "Assert",
	KindIfElse:   "IfElse",
	KindBinOp:    "BinOp",
	KindUnaryOp:  "UnaryOp",
	KindHasAttr:  "HasAttr",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Unknown"
}

// Node is one element of the syntax tree.
type Node struct {
	Kind  Kind
	Start int
	End   int
	// Text holds the identifier name, the operator, the literal text or the
	// `rec` marker of an attribute set, depending on Kind.
	Text     string
	Children []*Node
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}

	return n.Children[0]
}

// Source returns the text the node spans in src.
func (n *Node) Source(src []byte) string {
	return string(src[n.Start:n.End])
}

func (n *Node) add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}

		n.Children = append(n.Children, c)
		if c.End > n.End {
			n.End = c.End
		}
	}

	return n
}

// Walk visits n and its descendants depth-first until fn returns false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Comment is a line (#) or block (/* */) comment.
type Comment struct {
	Start int
	End   int
	Text  string
}

// Tree is the parse result of one source file.
type Tree struct {
	Root     *Node
	Comments []Comment

	src   []byte
	lines []int
}

func newTree(src []byte, root *Node, comments []Comment) *Tree {
	lines := []int{0}

	for i, b := range src {
		if b == '\n' {
			lines = append(lines, i+1)
		}
	}

	return &Tree{Root: root, Comments: comments, src: src, lines: lines}
}

// Src returns the parsed text.
func (t *Tree) Src() []byte {
	return t.src
}

// Line returns the 1-based line number containing offset.
func (t *Tree) Line(offset int) int {
	return sort.Search(len(t.lines), func(i int) bool { return t.lines[i] > offset })
}

// Dump renders the tree as an indented outline, one node per line.
func (t *Tree) Dump() string {
	var sb strings.Builder

	var dump func(n *Node, depth int)
	dump = func(n *Node, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.Kind.String())

		if n.Text != "" {
			sb.WriteString(" ")
			sb.WriteString(n.Text)
		}

		sb.WriteString("\n")

		for _, c := range n.Children {
			dump(c, depth+1)
		}
	}
	dump(t.Root, 0)

	return sb.String()
}
