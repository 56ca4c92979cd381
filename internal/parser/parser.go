// Package parser implements relanote's recursive-descent, Pratt-precedence
// parser (spec.md §4.2). It never aborts on a malformed top-level item: a
// parse error is recorded and the parser skips forward to the next token
// that can start a recognised top-level item, so later declarations in the
// same file still get parsed.
package parser

import (
	"strconv"
	"strings"

	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/relanote-lang/relanote/internal/lexer"
)

// parseError is an internal control-flow sentinel used to unwind out of a
// partially-parsed top-level item back to the recovery loop in Parse. It
// never escapes this package.
type parseError struct{}

type parser struct {
	toks []lexer.Token
	pos  int
	bag  diag.Bag
}

// Parse converts a token stream into a File plus accumulated diagnostics.
func Parse(toks []lexer.Token) (*ast.File, []diag.Diagnostic) {
	p := &parser{toks: toks}
	file := p.parseFile()
	return file, p.bag.Items()
}

func (p *parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *parser) curKind() lexer.Kind { return p.toks[p.pos].Kind }

func (p *parser) at(k lexer.Kind) bool { return p.curKind() == k }

func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) match(k lexer.Kind) (lexer.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *parser) fail(span diag.Span, format string, args ...any) {
	p.bag.Errorf(diag.KindParseError, span, format, args...)
	panic(parseError{})
}

func (p *parser) expect(k lexer.Kind, what string) lexer.Token {
	if p.at(k) {
		return p.advance()
	}
	p.fail(p.cur().Span, "expected %s but found %q", what, p.cur().Text)
	return lexer.Token{}
}

// softKeywords are reserved words (spec.md §4.1) that the current grammar
// gives no dedicated production to; they remain valid as plain names
// wherever an identifier is expected, the same "reserved but not yet
// special" treatment spec.md §3's design notes describe for `export`.
var softKeywords = map[lexer.Kind]bool{
	lexer.KwKey: true,
}

func (p *parser) expectIdent() string {
	if softKeywords[p.curKind()] {
		return p.advance().Text
	}
	t := p.expect(lexer.Ident, "an identifier")
	return t.Text
}

var topLevelStarts = map[lexer.Kind]bool{
	lexer.KwMod: true, lexer.KwUse: true, lexer.KwLet: true, lexer.KwScale: true,
	lexer.KwChord: true, lexer.KwSynth: true, lexer.KwSet: true,
}

func canStartExpr(k lexer.Kind) bool {
	switch k {
	case lexer.Ident, lexer.IntLit, lexer.FloatLit, lexer.StringLit, lexer.IntervalLit,
		lexer.PitchLit, lexer.DegreeLit, lexer.KwTrue, lexer.KwFalse, lexer.KwLet,
		lexer.KwIf, lexer.KwMatch, lexer.KwNot, lexer.KwLayer, lexer.LParen, lexer.LBracket,
		lexer.LBrace, lexer.Backslash, lexer.Bar, lexer.Tilde, lexer.Minus:
		return true
	}
	return false
}

func (p *parser) parseFile() *ast.File {
	var items []ast.Item
	startSpan := p.cur().Span
	for !p.at(lexer.EOF) {
		item, ok := p.parseItemRecovering()
		if ok {
			items = append(items, item)
		}
	}
	end := p.cur().Span
	return &ast.File{Items: items, Span: diag.Join(startSpan, end)}
}

// parseItemRecovering parses one item; on internal parse error it skips
// tokens until the next recognised top-level keyword or EOF and reports no
// item for this attempt, letting the caller continue with later items.
func (p *parser) parseItemRecovering() (item ast.Item, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(parseError); !isParseErr {
				panic(r)
			}
			ok = false
			for !p.at(lexer.EOF) && !topLevelStarts[p.curKind()] && !canStartExpr(p.curKind()) {
				p.advance()
			}
			// If recovery landed on a token that can only start an
			// expression (not a keyword), treat the rest as unparsable
			// for this item and also skip past it to avoid looping.
			if !p.at(lexer.EOF) && !topLevelStarts[p.curKind()] {
				p.advance()
			}
		}
	}()
	return p.parseItem(), true
}

func (p *parser) parseItem() ast.Item {
	switch p.curKind() {
	case lexer.KwMod:
		return p.parseModDecl()
	case lexer.KwUse:
		return p.parseUseDecl()
	case lexer.KwLet:
		return p.parseLetDecl()
	case lexer.KwScale:
		return p.parseScaleDecl()
	case lexer.KwChord:
		return p.parseChordDecl()
	case lexer.KwSynth:
		return p.parseSynthDecl()
	case lexer.KwSet:
		return p.parseSetDecl()
	default:
		if canStartExpr(p.curKind()) {
			start := p.cur().Span
			e := p.parseExpr()
			return &ast.ExprItem{Value: e, Span: diag.Join(start, e.ExprSpan())}
		}
		p.fail(p.cur().Span, "unexpected token %q at top level", p.cur().Text)
		return nil
	}
}

func (p *parser) parseModDecl() ast.Item {
	start := p.expect(lexer.KwMod, "'mod'").Span
	name := p.expectIdent()
	return &ast.ModDecl{Name: name, Span: diag.Join(start, p.toks[p.pos-1].Span)}
}

func (p *parser) parseUseDecl() ast.Item {
	start := p.expect(lexer.KwUse, "'use'").Span
	var path []string
	first := p.expectIdent()
	path = append(path, first)
	decl := &ast.UseDecl{Kind: ast.UseSimple}
	for {
		if _, ok := p.match(lexer.ColonColon); !ok {
			break
		}
		if _, ok := p.match(lexer.Star); ok {
			decl.Kind = ast.UseGlob
			break
		}
		if _, ok := p.match(lexer.LBrace); ok {
			decl.Kind = ast.UseGroup
			for !p.at(lexer.RBrace) {
				name := p.expectIdent()
				alias := ""
				if _, ok := p.match(lexer.KwAs); ok {
					alias = p.expectIdent()
				}
				decl.Items = append(decl.Items, ast.UseItem{Name: name, Alias: alias})
				if _, ok := p.match(lexer.Comma); !ok {
					break
				}
			}
			p.expect(lexer.RBrace, "'}'")
			break
		}
		seg := p.expectIdent()
		path = append(path, seg)
	}
	decl.Path = path
	if decl.Kind == ast.UseSimple {
		decl.Items = []ast.UseItem{{Name: path[len(path)-1]}}
	}
	decl.Span = diag.Join(start, p.toks[p.pos-1].Span)
	return decl
}

func (p *parser) parsePattern() ast.Pattern {
	start := p.cur().Span
	if p.at(lexer.LParen) {
		p.advance()
		var elems []ast.Pattern
		for !p.at(lexer.RParen) {
			elems = append(elems, p.parsePattern())
			if _, ok := p.match(lexer.Comma); !ok {
				break
			}
		}
		end := p.expect(lexer.RParen, "')'").Span
		return &ast.TuplePattern{Elems: elems, Span: diag.Join(start, end)}
	}
	if p.at(lexer.Ident) {
		name := p.advance().Text
		if name == "_" {
			return &ast.WildcardPattern{Span: start}
		}
		return &ast.IdentPattern{Name: name, Span: start}
	}
	p.fail(start, "expected a pattern but found %q", p.cur().Text)
	return nil
}

func (p *parser) parseLetDecl() ast.Item {
	start := p.expect(lexer.KwLet, "'let'").Span
	pat := p.parsePattern()
	p.expect(lexer.Eq, "'='")
	val := p.parseExpr()
	return &ast.LetDecl{Pattern: pat, Value: val, Span: diag.Join(start, val.ExprSpan())}
}

func (p *parser) parseExprCommaList(closer lexer.Kind) []ast.Expr {
	var out []ast.Expr
	for !p.at(closer) {
		out = append(out, p.parseExpr())
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	return out
}

func (p *parser) parseScaleDecl() ast.Item {
	start := p.expect(lexer.KwScale, "'scale'").Span
	name := p.expectIdent()
	p.expect(lexer.Eq, "'='")
	p.expect(lexer.LBrace, "'{'")
	intervals := p.parseExprCommaList(lexer.RBrace)
	end := p.expect(lexer.RBrace, "'}'").Span
	return &ast.ScaleDecl{Name: name, Intervals: intervals, Span: diag.Join(start, end)}
}

func (p *parser) parseChordDecl() ast.Item {
	start := p.expect(lexer.KwChord, "'chord'").Span
	name := p.expectIdent()
	p.expect(lexer.Eq, "'='")
	p.expect(lexer.LBracket, "'['")
	intervals := p.parseExprCommaList(lexer.RBracket)
	end := p.expect(lexer.RBracket, "']'").Span
	return &ast.ChordDecl{Name: name, Intervals: intervals, Span: diag.Join(start, end)}
}

func (p *parser) parseSynthDecl() ast.Item {
	start := p.expect(lexer.KwSynth, "'synth'").Span
	name := p.expectIdent()
	p.expect(lexer.Eq, "'='")
	p.expect(lexer.LBrace, "'{'")
	var fields []ast.SynthField
	for !p.at(lexer.RBrace) {
		fname := p.expectIdent()
		p.expect(lexer.Colon, "':'")
		fval := p.parseExpr()
		fields = append(fields, ast.SynthField{Name: fname, Value: fval})
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	end := p.expect(lexer.RBrace, "'}'").Span
	return &ast.SynthDecl{Name: name, Fields: fields, Span: diag.Join(start, end)}
}

func (p *parser) parseSetDecl() ast.Item {
	start := p.expect(lexer.KwSet, "'set'").Span
	name := p.expectIdent()
	p.expect(lexer.Eq, "'='")
	val := p.parseExpr()
	return &ast.SetDecl{Name: name, Value: val, Span: diag.Join(start, val.ExprSpan())}
}

// ---- expressions -----------------------------------------------------

func (p *parser) parseExpr() ast.Expr {
	switch p.curKind() {
	case lexer.KwLet:
		return p.parseLetExpr()
	case lexer.KwIf:
		return p.parseIfExpr()
	case lexer.KwMatch:
		return p.parseMatchExpr()
	default:
		return p.parsePipe()
	}
}

func (p *parser) parseLetExpr() ast.Expr {
	start := p.expect(lexer.KwLet, "'let'").Span
	pat := p.parsePattern()
	p.expect(lexer.Eq, "'='")
	val := p.parsePipe()
	p.expect(lexer.KwIn, "'in'")
	body := p.parseExpr()
	return &ast.LetExpr{Pattern: pat, Value: val, Body: body, Span: diag.Join(start, body.ExprSpan())}
}

func (p *parser) parseIfExpr() ast.Expr {
	start := p.expect(lexer.KwIf, "'if'").Span
	cond := p.parsePipe()
	p.expect(lexer.KwThen, "'then'")
	then := p.parseExpr()
	p.expect(lexer.KwElse, "'else'")
	els := p.parseExpr()
	return &ast.IfExpr{Cond: cond, Then: then, Else: els, Span: diag.Join(start, els.ExprSpan())}
}

func (p *parser) parseMatchExpr() ast.Expr {
	start := p.expect(lexer.KwMatch, "'match'").Span
	scrut := p.parsePipe()
	p.expect(lexer.KwWith, "'with'")
	var arms []ast.MatchArm
	for p.at(lexer.Bar) {
		p.advance()
		pat := p.parseMatchPattern()
		p.expect(lexer.Arrow, "'->'")
		body := p.parsePipe()
		arms = append(arms, ast.MatchArm{Pattern: pat, Body: body})
	}
	if len(arms) == 0 {
		p.fail(p.cur().Span, "match must have at least one arm")
	}
	end := arms[len(arms)-1].Body.ExprSpan()
	return &ast.MatchExpr{Scrutinee: scrut, Arms: arms, Span: diag.Join(start, end)}
}

func (p *parser) parseMatchPattern() ast.Pattern {
	start := p.cur().Span
	switch p.curKind() {
	case lexer.Ident:
		name := p.advance().Text
		if name == "_" {
			return &ast.WildcardPattern{Span: start}
		}
		return &ast.IdentPattern{Name: name, Span: start}
	case lexer.IntLit:
		t := p.advance()
		n, _ := strconv.ParseInt(t.Text, 10, 64)
		return &ast.LitPattern{Value: &ast.IntLitExpr{Value: n, Span: t.Span}, Span: t.Span}
	case lexer.FloatLit:
		t := p.advance()
		f, _ := strconv.ParseFloat(t.Text, 64)
		return &ast.LitPattern{Value: &ast.FloatLitExpr{Value: f, Span: t.Span}, Span: t.Span}
	case lexer.StringLit:
		t := p.advance()
		return &ast.LitPattern{Value: &ast.StringLitExpr{Value: t.Text, Span: t.Span}, Span: t.Span}
	case lexer.KwTrue, lexer.KwFalse:
		t := p.advance()
		return &ast.LitPattern{Value: &ast.BoolLitExpr{Value: t.Kind == lexer.KwTrue, Span: t.Span}, Span: t.Span}
	case lexer.LParen:
		p.advance()
		if _, ok := p.match(lexer.RParen); ok {
			return &ast.UnitPattern{Span: diag.Join(start, p.toks[p.pos-1].Span)}
		}
		var elems []ast.Pattern
		elems = append(elems, p.parseMatchPattern())
		for {
			if _, ok := p.match(lexer.Comma); !ok {
				break
			}
			elems = append(elems, p.parseMatchPattern())
		}
		end := p.expect(lexer.RParen, "')'").Span
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TuplePattern{Elems: elems, Span: diag.Join(start, end)}
	}
	p.fail(start, "expected a pattern but found %q", p.cur().Text)
	return nil
}

func (p *parser) parsePipe() ast.Expr {
	left := p.parseCompose()
	for {
		start, ok := p.match(lexer.Pipe2)
		if !ok {
			return left
		}
		right := p.parseCompose()
		left = &ast.PipeExpr{Left: left, Right: right, Span: diag.Join(left.ExprSpan(), right.ExprSpan())}
		_ = start
	}
}

func (p *parser) parseCompose() ast.Expr {
	left := p.parseOr()
	if _, ok := p.match(lexer.Compose); ok {
		right := p.parseCompose()
		return &ast.ComposeExpr{Left: left, Right: right, Span: diag.Join(left.ExprSpan(), right.ExprSpan())}
	}
	return left
}

func (p *parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for {
		if _, ok := p.match(lexer.KwOr); !ok {
			return left
		}
		right := p.parseAnd()
		left = &ast.BinaryExpr{Op: ast.OpOr, Left: left, Right: right, Span: diag.Join(left.ExprSpan(), right.ExprSpan())}
	}
}

func (p *parser) parseAnd() ast.Expr {
	left := p.parseNot()
	for {
		if _, ok := p.match(lexer.KwAnd); !ok {
			return left
		}
		right := p.parseNot()
		left = &ast.BinaryExpr{Op: ast.OpAnd, Left: left, Right: right, Span: diag.Join(left.ExprSpan(), right.ExprSpan())}
	}
}

func (p *parser) parseNot() ast.Expr {
	if start, ok := p.match(lexer.KwNot); ok {
		inner := p.parseNot()
		return &ast.UnaryExpr{Op: ast.OpNot, Expr: inner, Span: diag.Join(start.Span, inner.ExprSpan())}
	}
	return p.parseCompare()
}

var compareOps = map[lexer.Kind]ast.BinOp{
	lexer.EqEq: ast.OpEq, lexer.NotEq: ast.OpNotEq, lexer.Lt: ast.OpLt,
	lexer.Gt: ast.OpGt, lexer.LtEq: ast.OpLtEq, lexer.GtEq: ast.OpGtEq,
}

func (p *parser) parseCompare() ast.Expr {
	left := p.parseConcat()
	if op, ok := compareOps[p.curKind()]; ok {
		p.advance()
		right := p.parseConcat()
		return &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: diag.Join(left.ExprSpan(), right.ExprSpan())}
	}
	return left
}

func (p *parser) parseConcat() ast.Expr {
	left := p.parseAdditive()
	if _, ok := p.match(lexer.Concat); ok {
		right := p.parseConcat()
		return &ast.BinaryExpr{Op: ast.OpConcat, Left: left, Right: right, Span: diag.Join(left.ExprSpan(), right.ExprSpan())}
	}
	return left
}

func (p *parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		var op ast.BinOp
		switch p.curKind() {
		case lexer.Plus:
			op = ast.OpAdd
		case lexer.Minus:
			op = ast.OpSub
		default:
			return left
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: diag.Join(left.ExprSpan(), right.ExprSpan())}
	}
}

func (p *parser) parseMultiplicative() ast.Expr {
	left := p.parseUnaryMinus()
	for {
		var op ast.BinOp
		switch p.curKind() {
		case lexer.Star:
			op = ast.OpMul
		case lexer.Slash:
			op = ast.OpDiv
		default:
			return left
		}
		p.advance()
		right := p.parseUnaryMinus()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: diag.Join(left.ExprSpan(), right.ExprSpan())}
	}
}

func (p *parser) parseUnaryMinus() ast.Expr {
	if start, ok := p.match(lexer.Minus); ok {
		inner := p.parseUnaryMinus()
		return &ast.UnaryExpr{Op: ast.OpNeg, Expr: inner, Span: diag.Join(start.Span, inner.ExprSpan())}
	}
	return p.parseApplication()
}

func (p *parser) parseApplication() ast.Expr {
	left := p.parsePostfix()
	for canStartAtom(p.curKind()) {
		if p.at(lexer.Bar) {
			// A `|` that reaches `->` before another `|` outside brackets
			// opens the next match arm, not a block argument.
			depth, i := 0, p.pos+1
			for ; i < len(p.toks)-1 && (depth > 0 || (p.toks[i].Kind != lexer.Arrow && p.toks[i].Kind != lexer.Bar)); i++ {
				switch p.toks[i].Kind {
				case lexer.LParen, lexer.LBracket, lexer.LBrace:
					depth++
				case lexer.RParen, lexer.RBracket, lexer.RBrace:
					depth--
				}
			}
			if p.toks[i].Kind == lexer.Arrow {
				break
			}
		}
		arg := p.parsePostfix()
		left = &ast.ApplyExpr{Fn: left, Arg: arg, Span: diag.Join(left.ExprSpan(), arg.ExprSpan())}
	}
	return left
}

func canStartAtom(k lexer.Kind) bool {
	switch k {
	case lexer.Ident, lexer.IntLit, lexer.FloatLit, lexer.StringLit, lexer.IntervalLit,
		lexer.PitchLit, lexer.DegreeLit, lexer.KwTrue, lexer.KwFalse, lexer.LParen,
		lexer.LBracket, lexer.LBrace, lexer.Backslash, lexer.Bar, lexer.Tilde:
		return true
	}
	return false
}

func (p *parser) parsePostfix() ast.Expr {
	left := p.parseAtom()
	for {
		if _, ok := p.match(lexer.Dot); ok {
			name := p.expectIdent()
			left = &ast.FieldAccessExpr{Target: left, Field: name, Span: diag.Join(left.ExprSpan(), p.toks[p.pos-1].Span)}
			continue
		}
		return left
	}
}

func (p *parser) parseAtom() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case lexer.IntLit:
		p.advance()
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			p.bag.Errorf(diag.KindParseError, t.Span, "invalid integer literal %q", t.Text)
		}
		return &ast.IntLitExpr{Value: n, Span: t.Span}
	case lexer.FloatLit:
		p.advance()
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			p.bag.Errorf(diag.KindParseError, t.Span, "invalid float literal %q", t.Text)
		}
		return &ast.FloatLitExpr{Value: f, Span: t.Span}
	case lexer.StringLit:
		p.advance()
		return &ast.StringLitExpr{Value: t.Text, Span: t.Span}
	case lexer.KwTrue, lexer.KwFalse:
		p.advance()
		return &ast.BoolLitExpr{Value: t.Kind == lexer.KwTrue, Span: t.Span}
	case lexer.IntervalLit:
		p.advance()
		return &ast.IntervalLitExpr{Text: t.Text, Span: t.Span}
	case lexer.PitchLit:
		p.advance()
		return &ast.PitchLitExpr{Text: t.Text, Span: t.Span}
	case lexer.DegreeLit:
		p.advance()
		return &ast.DegreeExpr{N: parseDegreeText(t.Text), Span: t.Span}
	case lexer.Tilde:
		p.advance()
		return &ast.RestExpr{Span: t.Span}
	case lexer.Ident, lexer.KwLayer:
		p.advance()
		return &ast.IdentExpr{Name: t.Text, Span: t.Span}
	case lexer.LParen:
		p.advance()
		inner := p.parseExpr()
		end := p.expect(lexer.RParen, "')'").Span
		return withSpan(inner, diag.Join(t.Span, end))
	case lexer.LBracket:
		p.advance()
		elems := p.parseExprCommaList(lexer.RBracket)
		end := p.expect(lexer.RBracket, "']'").Span
		return &ast.ArrayLitExpr{Elems: elems, Span: diag.Join(t.Span, end)}
	case lexer.LBrace:
		return p.parseRecordLit()
	case lexer.Backslash:
		return p.parseLambda()
	case lexer.Bar:
		return p.parseBlock()
	}
	p.fail(t.Span, "unexpected token %q in expression", t.Text)
	return nil
}

// withSpan returns e with its span widened to cover an enclosing pair of
// parens, without mutating the shared node (parens should not change a
// literal atom's reported identity beyond its span).
func withSpan(e ast.Expr, span diag.Span) ast.Expr {
	switch n := e.(type) {
	case *ast.IdentExpr:
		cp := *n
		cp.Span = span
		return &cp
	default:
		return e
	}
}

func (p *parser) parseRecordLit() ast.Expr {
	start := p.expect(lexer.LBrace, "'{'").Span
	var fields []ast.RecordField
	for !p.at(lexer.RBrace) {
		name := p.expectIdent()
		p.expect(lexer.Colon, "':'")
		val := p.parseExpr()
		fields = append(fields, ast.RecordField{Name: name, Value: val})
		if _, ok := p.match(lexer.Comma); !ok {
			break
		}
	}
	end := p.expect(lexer.RBrace, "'}'").Span
	return &ast.RecordLitExpr{Fields: fields, Span: diag.Join(start, end)}
}

func (p *parser) parseLambda() ast.Expr {
	start := p.expect(lexer.Backslash, "'\\'").Span
	var params []string
	for p.at(lexer.Ident) {
		params = append(params, p.advance().Text)
	}
	if len(params) == 0 {
		p.fail(p.cur().Span, "lambda requires at least one parameter")
	}
	p.expect(lexer.Arrow, "'->'")
	body := p.parseExpr()
	return &ast.LambdaExpr{Params: params, Body: body, Span: diag.Join(start, body.ExprSpan())}
}

func (p *parser) parseBlock() ast.Expr {
	start := p.expect(lexer.Bar, "'|'").Span
	var slots []ast.Slot
	for !p.at(lexer.Bar) {
		slots = append(slots, p.parseSlot())
	}
	end := p.expect(lexer.Bar, "'|'").Span
	block := &ast.BlockExpr{Slots: slots, Span: diag.Join(start, end)}
	if _, ok := p.match(lexer.Colon); ok {
		n := p.parseUnaryMinus()
		block.TotalBeats = n
		block.Span = diag.Join(start, n.ExprSpan())
	}
	return block
}

func (p *parser) parseSlot() ast.Slot {
	start := p.cur().Span
	var value ast.Expr
	switch p.curKind() {
	case lexer.LBrace:
		value = p.parseTuplet()
	case lexer.LBracket:
		p.advance()
		elems := p.parseExprCommaList(lexer.RBracket)
		end := p.expect(lexer.RBracket, "']'").Span
		value = &ast.ChordLitExpr{Elems: elems, Span: diag.Join(start, end)}
	case lexer.Tilde:
		p.advance()
		value = &ast.RestExpr{Span: start}
	default:
		value = p.parsePostfix()
	}

	weight := 1
	artic := ast.ArticNone
	if _, ok := p.match(lexer.Colon); ok {
		t := p.expect(lexer.IntLit, "a slot weight")
		n, _ := strconv.ParseInt(t.Text, 10, 64)
		weight = int(n)
	}
	switch p.curKind() {
	case lexer.Caret:
		p.advance()
		artic = ast.ArticAccent
	case lexer.Star, lexer.Star2:
		p.advance()
		artic = ast.ArticStaccato
	case lexer.Tilde:
		p.advance()
		artic = ast.ArticLegato
	}
	end := p.toks[p.pos-1].Span
	return ast.Slot{Value: value, Weight: weight, Articulation: artic, Span: diag.Join(start, end)}
}

func (p *parser) parseTuplet() ast.Expr {
	start := p.expect(lexer.LBrace, "'{'").Span
	var slots []ast.Slot
	for !p.at(lexer.RBrace) {
		slots = append(slots, p.parseSlot())
	}
	p.expect(lexer.RBrace, "'}'")
	p.expect(lexer.Colon, "':' with a tuplet beat count")
	beats := p.parseUnaryMinus()
	return &ast.TupletExpr{Slots: slots, Beats: beats, Span: diag.Join(start, beats.ExprSpan())}
}

func parseDegreeText(text string) int {
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "<"), ">")
	n, _ := strconv.Atoi(inner)
	return n
}
