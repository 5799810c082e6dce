package syntax

import (
	"errors"
	"fmt"
)

// Error is a parse failure with its position.
type Error struct {
	Line   int
	Column int
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Parse parses a complete Nix file.
func Parse(src []byte) (tree *Tree, err error) {
	p := &parser{lex: &lexer{src: src}}

	defer func() {
		if r := recover(); r != nil {
			bail, ok := r.(bailout)
			if !ok {
				panic(r)
			}

			tree, err = nil, bail.err
		}
	}()

	root := &Node{Kind: KindRoot, Start: 0, End: len(src)}
	root.add(p.parseExpr())

	if tok := p.peek(); tok.kind != tEOF {
		p.failAt(tok.start, "unexpected %q after expression", tok.text)
	}

	root.End = len(src)

	return newTree(src, root, p.lex.comments), nil
}

// bailout carries a parse error up the recursive descent.
type bailout struct{ err error }

type parser struct {
	lex    *lexer
	peeked *token
}

func (p *parser) fail(err error) {
	panic(bailout{err: err})
}

func (p *parser) failAt(offset int, format string, args ...any) {
	p.fail(p.lex.errorf(offset, format, args...))
}

func (p *parser) peek() token {
	if p.peeked == nil {
		tok, err := p.lex.next()
		if err != nil {
			p.fail(err)
		}

		p.peeked = &tok
	}

	return *p.peeked
}

// peekSecond returns the token after the next one without consuming either.
func (p *parser) peekSecond() token {
	p.peek()
	state := p.lex.save()

	tok, err := p.lex.next()
	p.lex.restore(state)

	if err != nil {
		return token{kind: tEOF, start: state.pos, end: state.pos}
	}

	return tok
}

func (p *parser) advance() token {
	tok := p.peek()
	p.peeked = nil

	return tok
}

func (p *parser) expect(kind tokenKind, what string) token {
	tok := p.peek()
	if tok.kind != kind {
		if tok.kind == tEOF {
			p.failAt(tok.start, "expected %s, got end of input", what)
		}

		p.failAt(tok.start, "expected %s, got %q", what, tok.text)
	}

	return p.advance()
}

func (p *parser) parseExpr() *Node {
	tok := p.peek()

	switch tok.kind {
	case tLet:
		return p.parseLet()
	case tWith:
		return p.parseKeywordBody(KindWith)
	case tAssert:
		return p.parseKeywordBody(KindAssert)
	case tIf:
		return p.parseIf()
	case tIdent:
		switch p.peekSecond().kind {
		case tColon:
			param := p.parseIdent()
			p.advance()

			return p.lambda(param)
		case tAt:
			name := p.parseIdent()
			p.advance()
			pattern := p.parsePattern()
			pattern.Text = name.Text
			pattern.Start = name.Start
			p.expect(tColon, "':' after pattern")

			return p.lambda(pattern)
		}
	case tLBrace:
		if p.looksLikePattern() {
			pattern := p.parsePattern()

			if p.peek().kind == tAt {
				p.advance()
				name := p.parseIdent()
				pattern.Text = name.Text
				pattern.End = name.End
			}

			p.expect(tColon, "':' after pattern")

			return p.lambda(pattern)
		}
	}

	return p.parseBinary(0)
}

func (p *parser) lambda(param *Node) *Node {
	body := p.parseExpr()

	return (&Node{Kind: KindLambda, Start: param.Start, End: body.End}).add(param, body)
}

func (p *parser) parseIdent() *Node {
	tok := p.expect(tIdent, "identifier")

	return &Node{Kind: KindIdent, Start: tok.start, End: tok.end, Text: tok.text}
}

func (p *parser) parseLet() *Node {
	start := p.advance().start
	node := &Node{Kind: KindLetIn, Start: start}

	p.parseBindings(node, tIn)
	p.expect(tIn, "'in'")

	return node.add(p.parseExpr())
}

// parseKeywordBody handles `with e; body` and `assert e; body`.
func (p *parser) parseKeywordBody(kind Kind) *Node {
	start := p.advance().start
	node := &Node{Kind: kind, Start: start}
	node.add(p.parseExpr())
	p.expect(tSemi, "';'")

	return node.add(p.parseExpr())
}

func (p *parser) parseIf() *Node {
	start := p.advance().start
	node := &Node{Kind: KindIfElse, Start: start}
	node.add(p.parseExpr())
	p.expect(tThen, "'then'")
	node.add(p.parseExpr())
	p.expect(tElse, "'else'")

	return node.add(p.parseExpr())
}

// looksLikePattern decides whether the `{` at the cursor opens lambda formals
// rather than an attribute set.
func (p *parser) looksLikePattern() bool {
	p.peek()
	state := p.lex.save()

	defer p.lex.restore(state)

	first, err := p.lex.next()
	if err != nil {
		return false
	}

	switch first.kind {
	case tEllipsis:
		return true
	case tRBrace:
		after, err := p.lex.next()
		return err == nil && (after.kind == tColon || after.kind == tAt)
	case tIdent:
		second, err := p.lex.next()
		if err != nil {
			return false
		}

		switch second.kind {
		case tComma, tQuestion:
			return true
		case tRBrace:
			after, err := p.lex.next()
			return err == nil && (after.kind == tColon || after.kind == tAt)
		}
	}

	return false
}

func (p *parser) parsePattern() *Node {
	open := p.expect(tLBrace, "'{'")
	node := &Node{Kind: KindPattern, Start: open.start}

	for p.peek().kind != tRBrace {
		if p.peek().kind == tEllipsis {
			tok := p.advance()
			node.add(&Node{Kind: KindPatEntry, Start: tok.start, End: tok.end, Text: "..."})
		} else {
			name := p.parseIdent()
			entry := &Node{Kind: KindPatEntry, Start: name.Start, End: name.End, Text: name.Text}

			if p.peek().kind == tQuestion {
				p.advance()
				entry.add(p.parseExpr())
			}

			node.add(entry)
		}

		if p.peek().kind != tComma {
			break
		}

		p.advance()
	}

	closing := p.expect(tRBrace, "'}'")
	node.End = closing.end

	return node
}

type opInfo struct {
	power int
	right bool
}

// Binding powers, loosest first; `!` sits between `//` and `+`.
var infixOps = map[tokenKind]opInfo{
	tPipeLeft:  {1, true},
	tPipeRight: {1, false},
	tImpl:      {2, true},
	tOr:        {3, false},
	tAnd:       {4, false},
	tEq:        {5, false},
	tNeq:       {5, false},
	tLt:        {6, false},
	tGt:        {6, false},
	tLe:        {6, false},
	tGe:        {6, false},
	tUpdate:    {7, true},
	tPlus:      {9, false},
	tMinus:     {9, false},
	tStar:      {10, false},
	tSlash:     {10, false},
	tConcat:    {11, true},
	tQuestion:  {12, false},
}

const notOperandPower = 9

func (p *parser) parseBinary(minPower int) *Node {
	var lhs *Node

	if tok := p.peek(); tok.kind == tNot {
		p.advance()
		operand := p.parseBinary(notOperandPower)
		lhs = (&Node{Kind: KindUnaryOp, Start: tok.start, Text: "!"}).add(operand)
	} else {
		lhs = p.parseNegation()
	}

	for {
		tok := p.peek()

		info, ok := infixOps[tok.kind]
		if !ok || info.power < minPower {
			return lhs
		}

		p.advance()

		if tok.kind == tQuestion {
			path := p.parseAttrPath()
			lhs = (&Node{Kind: KindHasAttr, Start: lhs.Start}).add(lhs, path)

			continue
		}

		next := info.power + 1
		if info.right {
			next = info.power
		}

		rhs := p.parseBinary(next)
		lhs = (&Node{Kind: KindBinOp, Start: lhs.Start, Text: tok.text}).add(lhs, rhs)
	}
}

func (p *parser) parseNegation() *Node {
	if tok := p.peek(); tok.kind == tMinus {
		p.advance()
		operand := p.parseNegation()

		return (&Node{Kind: KindUnaryOp, Start: tok.start, Text: "-"}).add(operand)
	}

	return p.parseApplication()
}

func (p *parser) parseApplication() *Node {
	fn := p.parseSelect()

	for startsOperand(p.peek().kind) {
		arg := p.parseSelect()
		fn = (&Node{Kind: KindApply, Start: fn.Start}).add(fn, arg)
	}

	return fn
}

func startsOperand(kind tokenKind) bool {
	switch kind {
	case tIdent, tInt, tFloat, tPath, tPathHead, tSearchPath, tURI, tStringOpen, tIndStringOpen,
		tLBrace, tLBrack, tLParen, tRec:
		return true
	}

	return false
}

func (p *parser) parseSelect() *Node {
	expr := p.parsePrimary()

	if p.peek().kind != tDot {
		return expr
	}

	p.advance()
	node := (&Node{Kind: KindSelect, Start: expr.Start}).add(expr, p.parseAttrPath())

	if p.peek().kind == tOrKw {
		p.advance()
		node.add(p.parseSelect())
	}

	return node
}

func (p *parser) parseAttrPath() *Node {
	path := &Node{Kind: KindAttrPath, Start: p.peek().start}
	path.End = path.Start
	path.add(p.parseAttrName())

	for p.peek().kind == tDot {
		p.advance()
		path.add(p.parseAttrName())
	}

	return path
}

func (p *parser) parseAttrName() *Node {
	tok := p.peek()

	switch tok.kind {
	case tIdent, tOrKw:
		p.advance()
		return &Node{Kind: KindIdent, Start: tok.start, End: tok.end, Text: tok.text}
	case tStringOpen:
		return p.parseString()
	case tDollarBrace:
		return p.parseDynamic()
	}

	p.failAt(tok.start, "expected attribute name, got %q", tok.text)

	return nil
}

func (p *parser) parseDynamic() *Node {
	open := p.expect(tDollarBrace, "'${'")
	node := (&Node{Kind: KindDynamic, Start: open.start}).add(p.parseExpr())
	node.End = p.expect(tRBrace, "'}'").end

	return node
}

func (p *parser) parsePrimary() *Node {
	tok := p.peek()

	switch tok.kind {
	case tIdent:
		return p.parseIdent()
	case tInt, tFloat, tPath, tSearchPath, tURI:
		p.advance()
		return &Node{Kind: KindLiteral, Start: tok.start, End: tok.end, Text: tok.text}
	case tPathHead:
		return p.parseInterpolatedPath()
	case tStringOpen, tIndStringOpen:
		return p.parseString()
	case tLParen:
		p.advance()
		node := (&Node{Kind: KindParen, Start: tok.start}).add(p.parseExpr())
		node.End = p.expect(tRParen, "')'").end

		return node
	case tLBrack:
		p.advance()
		node := &Node{Kind: KindList, Start: tok.start}

		for p.peek().kind != tRBrack {
			if !startsOperand(p.peek().kind) {
				p.failAt(p.peek().start, "unexpected %q in list", p.peek().text)
			}

			node.add(p.parseSelect())
		}

		node.End = p.advance().end

		return node
	case tRec:
		p.advance()
		set := p.parseAttrSet()
		set.Start = tok.start
		set.Text = "rec"

		return set
	case tLBrace:
		return p.parseAttrSet()
	case tEOF:
		p.failAt(tok.start, "unexpected end of input")
	}

	p.failAt(tok.start, "unexpected %q", tok.text)

	return nil
}

func (p *parser) parseAttrSet() *Node {
	open := p.expect(tLBrace, "'{'")
	node := &Node{Kind: KindAttrSet, Start: open.start}

	p.parseBindings(node, tRBrace)
	node.End = p.expect(tRBrace, "'}'").end

	return node
}

func (p *parser) parseBindings(parent *Node, end tokenKind) {
	for {
		tok := p.peek()
		if tok.kind == end || tok.kind == tEOF {
			return
		}

		if tok.kind == tInherit {
			parent.add(p.parseInherit())
			continue
		}

		path := p.parseAttrPath()
		p.expect(tAssign, "'='")
		value := p.parseExpr()
		semi := p.expect(tSemi, "';'")

		kv := (&Node{Kind: KindKeyValue, Start: path.Start}).add(path, value)
		kv.End = semi.end
		parent.add(kv)
	}
}

func (p *parser) parseInherit() *Node {
	start := p.advance().start
	node := &Node{Kind: KindInherit, Start: start}

	if p.peek().kind == tLParen {
		open := p.advance()
		from := (&Node{Kind: KindParen, Start: open.start}).add(p.parseExpr())
		from.End = p.expect(tRParen, "')'").end
		node.add(from)
	}

	for p.peek().kind != tSemi {
		node.add(p.parseAttrName())
	}

	node.End = p.advance().end

	return node
}

// parseString reads a "..." or ''...'' string straight from the source,
// recursing into the parser for each ${...} interpolation.
func (p *parser) parseString() *Node {
	open := p.advance()
	indented := open.kind == tIndStringOpen
	node := &Node{Kind: KindString, Start: open.start}
	src := p.lex.src

	for {
		i := p.lex.pos
		if i >= len(src) {
			p.failAt(open.start, "unterminated string")
		}

		switch {
		case !indented && src[i] == '"':
			p.lex.pos = i + 1
			node.End = p.lex.pos

			return node
		case !indented && src[i] == '\\':
			p.lex.pos = i + 2
		case indented && hasPrefixAt(src, i, "'''"):
			p.lex.pos = i + 3
		case indented && hasPrefixAt(src, i, "''$"):
			p.lex.pos = i + 3
		case indented && hasPrefixAt(src, i, "''\\"):
			p.lex.pos = i + 4
		case indented && hasPrefixAt(src, i, "''"):
			p.lex.pos = i + 2
			node.End = p.lex.pos

			return node
		case hasPrefixAt(src, i, "$${"):
			p.lex.pos = i + 3
		case hasPrefixAt(src, i, "${"):
			node.add(p.parseDynamic())
		default:
			p.lex.pos = i + 1
		}
	}
}

// parseInterpolatedPath reads the rest of a path whose head was lexed as
// tPathHead. The result is a Literal whose children are the ${...} parts.
func (p *parser) parseInterpolatedPath() *Node {
	head := p.advance()
	node := &Node{Kind: KindLiteral, Start: head.start}
	src := p.lex.src

	for {
		i := p.lex.pos

		switch {
		case hasPrefixAt(src, i, "${"):
			node.add(p.parseDynamic())
		case i < len(src) && isPathChar(src[i]):
			p.lex.pos = i + 1
		case i+1 < len(src) && src[i] == '/' && (isPathChar(src[i+1]) || hasPrefixAt(src, i+1, "${")):
			p.lex.pos = i + 1
		default:
			node.End = i
			node.Text = string(src[node.Start:node.End])

			return node
		}
	}
}

// IsParseError reports whether err came from Parse.
func IsParseError(err error) bool {
	var perr *Error

	return errors.As(err, &perr)
}
