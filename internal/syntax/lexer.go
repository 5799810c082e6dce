package syntax

import "fmt"

type tokenKind int

const (
	tEOF tokenKind = iota
	tIdent
	tInt
	tFloat
	tPath
	tPathHead // literal head of a path continuing with ${
	tSearchPath
	tURI
	tStringOpen    // "
	tIndStringOpen // ''
	tDollarBrace   // ${
	tLBrace
	tRBrace
	tLBrack
	tRBrack
	tLParen
	tRParen
	tSemi
	tColon
	tComma
	tDot
	tEllipsis
	tAssign
	tQuestion
	tAt
	tEq
	tNeq
	tLt
	tGt
	tLe
	tGe
	tAnd
	tOr
	tImpl
	tUpdate
	tConcat
	tPlus
	tMinus
	tStar
	tSlash
	tNot
	tPipeRight
	tPipeLeft

	tIf
	tThen
	tElse
	tAssert
	tWith
	tLet
	tIn
	tRec
	tInherit
	tOrKw
)

var keywords = map[string]tokenKind{
	"if":      tIf,
	"then":    tThen,
	"else":    tElse,
	"assert":  tAssert,
	"with":    tWith,
	"let":     tLet,
	"in":      tIn,
	"rec":     tRec,
	"inherit": tInherit,
	"or":      tOrKw,
}

// Longest operators first.
var operators = []struct {
	text string
	kind tokenKind
}{
	{"...", tEllipsis},
	{"${", tDollarBrace},
	{"->", tImpl},
	{"==", tEq},
	{"!=", tNeq},
	{"<=", tLe},
	{">=", tGe},
	{"&&", tAnd},
	{"||", tOr},
	{"//", tUpdate},
	{"++", tConcat},
	{"|>", tPipeRight},
	{"<|", tPipeLeft},
	{"{", tLBrace},
	{"}", tRBrace},
	{"[", tLBrack},
	{"]", tRBrack},
	{"(", tLParen},
	{")", tRParen},
	{";", tSemi},
	{":", tColon},
	{",", tComma},
	{".", tDot},
	{"=", tAssign},
	{"?", tQuestion},
	{"@", tAt},
	{"<", tLt},
	{">", tGt},
	{"+", tPlus},
	{"-", tMinus},
	{"*", tStar},
	{"/", tSlash},
	{"!", tNot},
}

type token struct {
	kind  tokenKind
	start int
	end   int
	text  string
}

// lexer produces tokens on demand. String bodies are not tokenized here: the
// parser reads them directly from src, switching back to the lexer for
// interpolated expressions.
type lexer struct {
	src      []byte
	pos      int
	comments []Comment
}

type lexState struct {
	pos      int
	comments int
}

func (l *lexer) save() lexState {
	return lexState{pos: l.pos, comments: len(l.comments)}
}

func (l *lexer) restore(s lexState) {
	l.pos = s.pos
	l.comments = l.comments[:s.comments]
}

func (l *lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}

	return l.src[l.pos+offset]
}

func (l *lexer) skipTrivia() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '#':
			start := l.pos
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}

			l.comments = append(l.comments, Comment{Start: start, End: l.pos, Text: string(l.src[start:l.pos])})
		case c == '/' && l.peekByte(1) == '*':
			start := l.pos
			l.pos += 2

			for {
				if l.pos+1 >= len(l.src) {
					return l.errorf(start, "unterminated block comment")
				}

				if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
					l.pos += 2
					break
				}

				l.pos++
			}

			l.comments = append(l.comments, Comment{Start: start, End: l.pos, Text: string(l.src[start:l.pos])})
		default:
			return nil
		}
	}

	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipTrivia(); err != nil {
		return token{}, err
	}

	start := l.pos
	if start >= len(l.src) {
		return token{kind: tEOF, start: start, end: start}, nil
	}

	c := l.src[start]

	if end, ok := l.scanPathHead(start); ok {
		return l.emit(tPathHead, start, end), nil
	}

	if end, ok := l.scanPath(start); ok {
		return l.emit(tPath, start, end), nil
	}

	if isIdentStart(c) {
		if end, ok := l.scanURI(start); ok {
			return l.emit(tURI, start, end), nil
		}

		end := start + 1
		for end < len(l.src) && isIdentChar(l.src[end]) {
			end++
		}

		tok := l.emit(tIdent, start, end)
		if kw, ok := keywords[tok.text]; ok {
			tok.kind = kw
		}

		return tok, nil
	}

	if isDigit(c) {
		return l.scanNumber(start), nil
	}

	if c == '"' {
		return l.emit(tStringOpen, start, start+1), nil
	}

	if c == '\'' && l.peekByte(1) == '\'' {
		return l.emit(tIndStringOpen, start, start+2), nil
	}

	if c == '<' {
		if end, ok := l.scanSearchPath(start); ok {
			return l.emit(tSearchPath, start, end), nil
		}
	}

	for _, op := range operators {
		if hasPrefixAt(l.src, start, op.text) {
			return l.emit(op.kind, start, start+len(op.text)), nil
		}
	}

	return token{}, l.errorf(start, "unexpected character %q", c)
}

func (l *lexer) emit(kind tokenKind, start, end int) token {
	l.pos = end

	return token{kind: kind, start: start, end: end, text: string(l.src[start:end])}
}

// scanPath matches `~/a/b`, `/a/b`, `./a`, `a/b` and similar path literals.
func (l *lexer) scanPath(start int) (int, bool) {
	i := start

	if l.src[i] == '~' {
		if i+1 >= len(l.src) || l.src[i+1] != '/' {
			return 0, false
		}

		i++
	} else {
		for i < len(l.src) && isPathChar(l.src[i]) {
			i++
		}
	}

	segments := 0

	for i+1 < len(l.src) && l.src[i] == '/' && isPathChar(l.src[i+1]) {
		i++
		for i < len(l.src) && isPathChar(l.src[i]) {
			i++
		}

		segments++
	}

	if segments == 0 {
		return 0, false
	}

	return i, true
}

// scanPathHead matches the part of a path before its first interpolation:
// `./` in `./${x}.nix`, `a/b` in `a/b${x}`, `~/` in `~/${x}`. The head must
// contain a slash and be directly followed by `${`.
func (l *lexer) scanPathHead(start int) (int, bool) {
	i := start
	slash := false

	if hasPrefixAt(l.src, i, "~/") {
		i += 2
		slash = true
	}

	for i < len(l.src) {
		c := l.src[i]

		switch {
		case isPathChar(c):
			i++
		case c == '/' && (i+1 < len(l.src) && isPathChar(l.src[i+1]) || hasPrefixAt(l.src, i+1, "${")):
			i++
			slash = true
		default:
			return i, slash && hasPrefixAt(l.src, i, "${")
		}
	}

	return 0, false
}

func (l *lexer) scanSearchPath(start int) (int, bool) {
	i := start + 1
	begin := i

	for i < len(l.src) && (isPathChar(l.src[i]) || l.src[i] == '/') {
		i++
	}

	if i == begin || i >= len(l.src) || l.src[i] != '>' {
		return 0, false
	}

	return i + 1, true
}

func (l *lexer) scanURI(start int) (int, bool) {
	i := start + 1

	for i < len(l.src) && isSchemeChar(l.src[i]) {
		i++
	}

	if i >= len(l.src) || l.src[i] != ':' {
		return 0, false
	}

	i++
	begin := i

	for i < len(l.src) && isURIChar(l.src[i]) {
		i++
	}

	if i == begin {
		return 0, false
	}

	return i, true
}

func (l *lexer) scanNumber(start int) token {
	i := start
	for i < len(l.src) && isDigit(l.src[i]) {
		i++
	}

	kind := tInt

	if i+1 < len(l.src) && l.src[i] == '.' && isDigit(l.src[i+1]) {
		kind = tFloat
		i++

		for i < len(l.src) && isDigit(l.src[i]) {
			i++
		}
	}

	if i < len(l.src) && (l.src[i] == 'e' || l.src[i] == 'E') {
		j := i + 1
		if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
			j++
		}

		if j < len(l.src) && isDigit(l.src[j]) {
			kind = tFloat
			i = j

			for i < len(l.src) && isDigit(l.src[i]) {
				i++
			}
		}
	}

	return l.emit(kind, start, i)
}

func (l *lexer) errorf(offset int, format string, args ...any) error {
	line, col := 1, 1

	for i := 0; i < offset && i < len(l.src); i++ {
		if l.src[i] == '\n' {
			line++
			col = 1

			continue
		}

		col++
	}

	return &Error{Line: line, Column: col, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func hasPrefixAt(src []byte, at int, prefix string) bool {
	if at+len(prefix) > len(src) {
		return false
	}

	return string(src[at:at+len(prefix)]) == prefix
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isIdentStart(c byte) bool { return isAlpha(c) || c == '_' }

func isIdentChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == '\'' || c == '-'
}

func isPathChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '.' || c == '_' || c == '-' || c == '+'
}

func isSchemeChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '+' || c == '-' || c == '.'
}

func isURIChar(c byte) bool {
	if isAlpha(c) || isDigit(c) {
		return true
	}

	switch c {
	case '%', '/', '?', ':', '@', '&', '=', '+', '$', ',', '-', '_', '.', '!', '~', '*', '\'':
		return true
	}

	return false
}
