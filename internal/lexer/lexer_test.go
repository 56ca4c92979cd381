package lexer

import (
	"testing"

	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks, diags := Lex("let x = scale in")
	require.Empty(t, diags)
	assert.Equal(t, []Kind{KwLet, Ident, Eq, KwScale, KwIn, EOF}, kinds(toks))
}

func TestLexIntervalsAndR(t *testing.T) {
	toks, diags := Lex("R P5 M3 m3 A4 d5 M3+ m7--")
	require.Empty(t, diags)
	assert.Equal(t, []Kind{
		IntervalLit, IntervalLit, IntervalLit, IntervalLit, IntervalLit,
		IntervalLit, IntervalLit, IntervalLit, EOF,
	}, kinds(toks))
	assert.Equal(t, "M3+", toks[6].Text)
	assert.Equal(t, "m7--", toks[7].Text)
}

func TestLexIntervalDoesNotSwallowLongerIdent(t *testing.T) {
	toks, diags := Lex("Major")
	require.Empty(t, diags)
	require.Len(t, toks, 2)
	assert.Equal(t, Ident, toks[0].Kind)
	assert.Equal(t, "Major", toks[0].Text)
}

func TestLexPitch(t *testing.T) {
	toks, diags := Lex("C4 F#3 Bb0")
	require.Empty(t, diags)
	assert.Equal(t, []Kind{PitchLit, PitchLit, PitchLit, EOF}, kinds(toks))
}

func TestLexAmbiguousALetterPrefersInterval(t *testing.T) {
	// 'A4' matches both the interval pattern (Augmented 4th) and the pitch
	// pattern (pitch class A, octave 4); the interval category wins.
	toks, diags := Lex("A4")
	require.Empty(t, diags)
	require.Len(t, toks, 2)
	assert.Equal(t, IntervalLit, toks[0].Kind)
}

func TestLexDegree(t *testing.T) {
	toks, diags := Lex("<1> <15> <-3>")
	require.Empty(t, diags)
	assert.Equal(t, []Kind{DegreeLit, DegreeLit, DegreeLit, EOF}, kinds(toks))
	assert.Equal(t, "<-3>", toks[2].Text)
}

func TestLexLtIsNotConfusedWithDegree(t *testing.T) {
	toks, diags := Lex("x < y")
	require.Empty(t, diags)
	assert.Equal(t, []Kind{Ident, Lt, Ident, EOF}, kinds(toks))
}

func TestLexNumbers(t *testing.T) {
	toks, diags := Lex("1 2.5 3.0e2 3.0E-2")
	require.Empty(t, diags)
	assert.Equal(t, []Kind{IntLit, FloatLit, FloatLit, FloatLit, EOF}, kinds(toks))
}

func TestLexString(t *testing.T) {
	toks, diags := Lex(`"hi\nthere\x41B"`)
	require.Empty(t, diags)
	require.Len(t, toks, 2)
	assert.Equal(t, "hi\nthereAB", toks[0].Text)
}

func TestLexUnterminatedStringRecovers(t *testing.T) {
	toks, diags := Lex(`"oops
let x = 1`)
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.KindLexError, diags[0].Kind)
	// lexing continues past the error token
	assert.Contains(t, kinds(toks), KwLet)
}

func TestLexCommentsAndWhitespaceSkipped(t *testing.T) {
	toks, diags := Lex("; a comment\nlet x = 1 ; trailing\n")
	require.Empty(t, diags)
	assert.Equal(t, []Kind{KwLet, Ident, Eq, IntLit, EOF}, kinds(toks))
}

func TestLexOperators(t *testing.T) {
	toks, diags := Lex("|> >> ++ -> => :: == != <= >= | , . [ ] { } ( ) : \\ ~ ^ ' ; comment")
	require.Empty(t, diags)
	want := []Kind{
		Pipe2, Compose, Concat, Arrow, FatArrow, ColonColon, EqEq, NotEq, LtEq, GtEq,
		Bar, Comma, Dot, LBracket, RBracket, LBrace, RBrace, LParen, RParen, Colon,
		Backslash, Tilde, Caret, Star2, EOF,
	}
	assert.Equal(t, want, kinds(toks))
}

func TestLexInvalidCharacterRecovers(t *testing.T) {
	toks, diags := Lex("let x = @ 1")
	require.NotEmpty(t, diags)
	assert.Contains(t, kinds(toks), Error)
	assert.Contains(t, kinds(toks), IntLit)
}

func TestLexRestartableSameInput(t *testing.T) {
	src := "scale Major = { R, M2, M3 }"
	toks1, _ := Lex(src)
	toks2, _ := Lex(src)
	assert.Equal(t, toks1, toks2)
}
