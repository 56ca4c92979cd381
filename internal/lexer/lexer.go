package lexer

import (
	"strings"

	"github.com/relanote-lang/relanote/internal/diag"
)

// Lex converts source bytes into a finite token stream terminated by an EOF
// token, plus any diagnostics raised along the way. Lexing never aborts: an
// invalid character or unterminated string becomes a synthetic Error token
// with the offending span, and scanning continues from the next byte. Lex is
// restartable — identical input always yields an identical token stream.
func Lex(src string) ([]Token, []diag.Diagnostic) {
	l := &lexer{src: src}
	var toks []Token
	for {
		tok := l.next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks, l.bag.Items()
}

type lexer struct {
	src string
	pos int
	bag diag.Bag
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(off int) byte {
	p := l.pos + off
	if p >= len(l.src) {
		return 0
	}
	return l.src[p]
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	return c
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool      { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' }
func isAlphaNum(c byte) bool   { return isAlpha(c) || isDigit(c) }
func isIdentStart(c byte) bool { return isAlpha(c) }
func isIdentCont(c byte) bool  { return isAlphaNum(c) }

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.pos++
		case c == ';':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) next() Token {
	l.skipTrivia()
	start := l.pos
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Span: diag.Span{Start: start, End: start}}
	}

	c := l.peek()
	switch {
	case c == '<':
		if tok, ok := l.tryScanDegree(); ok {
			return tok
		}
	case isIdentStart(c):
		return l.scanWord()
	case isDigit(c):
		return l.scanNumber()
	case c == '"':
		return l.scanString()
	}
	return l.scanOperator()
}

// tryScanDegree attempts to lex "<" int ">" as one DegreeLit token. On
// failure it leaves l.pos unchanged so the caller falls back to operator
// scanning (so "<" alone still lexes as Lt).
func (l *lexer) tryScanDegree() (Token, bool) {
	start := l.pos
	p := l.pos + 1
	if p < len(l.src) && l.src[p] == '-' {
		p++
	}
	digitsStart := p
	for p < len(l.src) && isDigit(l.src[p]) {
		p++
	}
	if p == digitsStart {
		return Token{}, false
	}
	if p >= len(l.src) || l.src[p] != '>' {
		return Token{}, false
	}
	p++
	text := l.src[start:p]
	l.pos = p
	return Token{Kind: DegreeLit, Text: text, Span: diag.Span{Start: start, End: p}}, true
}

var intervalQuality = map[byte]bool{'P': true, 'M': true, 'm': true, 'A': true, 'd': true}
var pitchLetter = map[byte]bool{'C': true, 'D': true, 'E': true, 'F': true, 'G': true, 'A': true, 'B': true}

func (l *lexer) scanWord() Token {
	start := l.pos

	if tok, ok := l.tryScanInterval(start); ok {
		return tok
	}
	if tok, ok := l.tryScanPitch(start); ok {
		return tok
	}

	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	span := diag.Span{Start: start, End: l.pos}
	if text == "R" {
		return Token{Kind: IntervalLit, Text: text, Span: span}
	}
	if kw, ok := keywords[text]; ok {
		return Token{Kind: kw, Text: text, Span: span}
	}
	return Token{Kind: Ident, Text: text, Span: span}
}

// tryScanInterval matches `[PMmAd][1-9][0-9]?[+-]*` at start, only
// succeeding if the match is not itself a prefix of a longer identifier
// word (maximal munch would otherwise make "Minor" lex as "M" + "inor").
// Quality letters take priority over the Pitch pattern on the sole
// ambiguous letter 'A' (Augmented vs. the pitch A).
func (l *lexer) tryScanInterval(start int) (Token, bool) {
	c := l.src[start]
	if !intervalQuality[c] {
		return Token{}, false
	}
	p := start + 1
	if p >= len(l.src) || l.src[p] < '1' || l.src[p] > '9' {
		return Token{}, false
	}
	p++
	if p < len(l.src) && isDigit(l.src[p]) {
		p++
	}
	for p < len(l.src) && (l.src[p] == '+' || l.src[p] == '-') {
		p++
	}
	if p < len(l.src) && isIdentCont(l.src[p]) {
		// word continues past the interval-shaped prefix: not an interval.
		return Token{}, false
	}
	text := l.src[start:p]
	l.pos = p
	return Token{Kind: IntervalLit, Text: text, Span: diag.Span{Start: start, End: p}}, true
}

// tryScanPitch matches `[CDEFGAB][#b]?[0-9]` at start.
func (l *lexer) tryScanPitch(start int) (Token, bool) {
	c := l.src[start]
	if !pitchLetter[c] {
		return Token{}, false
	}
	p := start + 1
	if p < len(l.src) && (l.src[p] == '#' || l.src[p] == 'b') {
		p++
	}
	if p >= len(l.src) || !isDigit(l.src[p]) {
		return Token{}, false
	}
	p++
	if p < len(l.src) && isIdentCont(l.src[p]) {
		return Token{}, false
	}
	text := l.src[start:p]
	l.pos = p
	return Token{Kind: PitchLit, Text: text, Span: diag.Span{Start: start, End: p}}, true
}

func (l *lexer) scanNumber() Token {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.pos++ // consume '.'
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			save := l.pos
			p := l.pos + 1
			if p < len(l.src) && (l.src[p] == '+' || l.src[p] == '-') {
				p++
			}
			if p < len(l.src) && isDigit(l.src[p]) {
				l.pos = p
				for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
					l.pos++
				}
			} else {
				l.pos = save
			}
		}
	}
	text := l.src[start:l.pos]
	span := diag.Span{Start: start, End: l.pos}
	if isFloat {
		return Token{Kind: FloatLit, Text: text, Span: span}
	}
	return Token{Kind: IntLit, Text: text, Span: span}
}

var simpleEscapes = map[byte]byte{
	'\\': '\\', '"': '"', 'n': '\n', 't': '\t', 'r': '\r', '0': 0,
}

func (l *lexer) scanString() Token {
	start := l.pos
	l.advance() // opening quote
	var sb strings.Builder
	closed := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '"' {
			l.pos++
			closed = true
			break
		}
		if c == '\n' {
			break // unterminated: newline inside string literal
		}
		if c == '\\' {
			l.pos++
			if l.pos >= len(l.src) {
				break
			}
			esc := l.src[l.pos]
			if r, ok := simpleEscapes[esc]; ok {
				sb.WriteByte(r)
				l.pos++
				continue
			}
			if esc == 'x' && l.pos+2 < len(l.src) && isHex(l.src[l.pos+1]) && isHex(l.src[l.pos+2]) {
				v := hexVal(l.src[l.pos+1])*16 + hexVal(l.src[l.pos+2])
				sb.WriteByte(byte(v))
				l.pos += 3
				continue
			}
			if esc == 'u' && l.pos+4 < len(l.src) && isHex4(l.src[l.pos+1:l.pos+5]) {
				v := 0
				for i := 1; i <= 4; i++ {
					v = v*16 + hexVal(l.src[l.pos+i])
				}
				sb.WriteRune(rune(v))
				l.pos += 5
				continue
			}
			span := diag.Span{Start: l.pos - 1, End: l.pos + 1}
			l.bag.Errorf(diag.KindLexError, span, "invalid escape sequence '\\%c'", esc)
			l.pos++
			continue
		}
		sb.WriteByte(c)
		l.pos++
	}
	span := diag.Span{Start: start, End: l.pos}
	if !closed {
		l.bag.Errorf(diag.KindLexError, span, "unterminated string literal")
		return Token{Kind: Error, Text: sb.String(), Span: span}
	}
	return Token{Kind: StringLit, Text: sb.String(), Span: span}
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isHex4(s string) bool {
	for i := 0; i < 4; i++ {
		if !isHex(s[i]) {
			return false
		}
	}
	return true
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

type opRule struct {
	text string
	kind Kind
}

// ordered longest-match-first
var operators = []opRule{
	{"|>", Pipe2}, {">>", Compose}, {"++", Concat}, {"->", Arrow}, {"=>", FatArrow},
	{"::", ColonColon}, {"==", EqEq}, {"!=", NotEq}, {"<=", LtEq}, {">=", GtEq},
	{"<", Lt}, {">", Gt}, {"=", Eq}, {"+", Plus}, {"-", Minus}, {"*", Star}, {"/", Slash},
	{"|", Bar}, {",", Comma}, {".", Dot}, {"[", LBracket}, {"]", RBracket},
	{"{", LBrace}, {"}", RBrace}, {"(", LParen}, {")", RParen}, {":", Colon},
	{";", Semicolon}, {"\\", Backslash}, {"~", Tilde}, {"^", Caret}, {"'", Star2},
}

func (l *lexer) scanOperator() Token {
	start := l.pos
	for _, op := range operators {
		if strings.HasPrefix(l.src[l.pos:], op.text) {
			l.pos += len(op.text)
			return Token{Kind: op.kind, Text: op.text, Span: diag.Span{Start: start, End: l.pos}}
		}
	}
	l.pos++
	span := diag.Span{Start: start, End: l.pos}
	l.bag.Errorf(diag.KindLexError, span, "unexpected character %q", l.src[start:l.pos])
	return Token{Kind: Error, Text: l.src[start:l.pos], Span: span}
}
