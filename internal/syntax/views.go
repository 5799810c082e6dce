package syntax

import "strings"

// Apply is a function application `fn arg`.
type Apply struct{ *Node }

// AsApply returns an Apply view when n is a function application.
func AsApply(n *Node) (Apply, bool) {
	if n == nil || n.Kind != KindApply {
		return Apply{}, false
	}

	return Apply{n}, true
}

// Func is the applied function.
func (a Apply) Func() *Node { return a.Children[0] }

// Arg is the single argument.
func (a Apply) Arg() *Node { return a.Children[1] }

// Select is an attribute selection `set.a.b or default`.
type Select struct{ *Node }

// AsSelect returns a Select view when n is an attribute selection.
func AsSelect(n *Node) (Select, bool) {
	if n == nil || n.Kind != KindSelect {
		return Select{}, false
	}

	return Select{n}, true
}

// Set is the expression being selected from.
func (s Select) Set() *Node { return s.Children[0] }

// Path is the selected attribute path.
func (s Select) Path() AttrPath { return AttrPath{s.Children[1]} }

// Default is the `or` fallback, nil when absent.
func (s Select) Default() *Node {
	if len(s.Children) < 3 {
		return nil
	}

	return s.Children[2]
}

// Ident is an identifier reference.
type Ident struct{ *Node }

// AsIdent returns an Ident view when n is an identifier.
func AsIdent(n *Node) (Ident, bool) {
	if n == nil || n.Kind != KindIdent {
		return Ident{}, false
	}

	return Ident{n}, true
}

// Name is the identifier text.
func (i Ident) Name() string { return i.Text }

// AttrSet is `{ ... }` or `rec { ... }`.
type AttrSet struct{ *Node }

// AsAttrSet returns an AttrSet view when n is an attribute set.
func AsAttrSet(n *Node) (AttrSet, bool) {
	if n == nil || n.Kind != KindAttrSet {
		return AttrSet{}, false
	}

	return AttrSet{n}, true
}

// Rec reports whether the set is recursive.
func (s AttrSet) Rec() bool { return s.Text == "rec" }

// Entries returns the key-value bindings, skipping inherits.
func (s AttrSet) Entries() []KeyValue {
	entries := make([]KeyValue, 0, len(s.Children))

	for _, c := range s.Children {
		if kv, ok := AsKeyValue(c); ok {
			entries = append(entries, kv)
		}
	}

	return entries
}

// KeyValue is a binding `a.b = value;`.
type KeyValue struct{ *Node }

// AsKeyValue returns a KeyValue view when n is a binding.
func AsKeyValue(n *Node) (KeyValue, bool) {
	if n == nil || n.Kind != KindKeyValue {
		return KeyValue{}, false
	}

	return KeyValue{n}, true
}

// Key is the bound attribute path.
func (kv KeyValue) Key() AttrPath { return AttrPath{kv.Children[0]} }

// Value is the bound expression.
func (kv KeyValue) Value() *Node { return kv.Children[1] }

// AttrPath is a dotted sequence of attribute names.
type AttrPath struct{ *Node }

// Segments returns the path components.
func (p AttrPath) Segments() []*Node { return p.Children }

// String joins the components with dots. Non-identifier components render
// as "?"; nothing is escaped since only single-identifier paths get compared.
func (p AttrPath) String() string {
	parts := make([]string, 0, len(p.Children))

	for _, seg := range p.Children {
		if seg.Kind == KindIdent {
			parts = append(parts, seg.Text)
			continue
		}

		parts = append(parts, "?")
	}

	return strings.Join(parts, ".")
}

// Single returns the identifier name when the path has exactly one identifier component.
func (p AttrPath) Single() (string, bool) {
	if len(p.Children) != 1 || p.Children[0].Kind != KindIdent {
		return "", false
	}

	return p.Children[0].Text, true
}

// Paren is a parenthesized expression.
type Paren struct{ *Node }

// AsParen returns a Paren view when n is parenthesized.
func AsParen(n *Node) (Paren, bool) {
	if n == nil || n.Kind != KindParen {
		return Paren{}, false
	}

	return Paren{n}, true
}

// Inner is the wrapped expression.
func (p Paren) Inner() *Node { return p.Children[0] }
