package lexer

import "github.com/relanote-lang/relanote/internal/diag"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota
	Error

	// literals
	Ident
	IntLit
	FloatLit
	StringLit
	IntervalLit // R, M3, d5-, A4++, ...
	PitchLit    // C4, F#3, Bb0, ...
	DegreeLit   // <n>

	// keywords
	KwLet
	KwIn
	KwIf
	KwThen
	KwElse
	KwMatch
	KwWith
	KwScale
	KwChord
	KwSection
	KwLayer
	KwPart
	KwEnv
	KwSynth
	KwSet
	KwImport
	KwExport
	KwFrom
	KwAs
	KwMod
	KwUse
	KwRender
	KwContext
	KwKey
	KwTrue
	KwFalse
	KwAnd
	KwOr
	KwNot

	// operators & punctuation
	Pipe2     // |>
	Compose   // >>
	Concat    // ++
	Arrow     // ->
	FatArrow  // =>
	ColonColon
	EqEq
	NotEq
	LtEq
	GtEq
	Lt
	Gt
	Eq
	Plus
	Minus
	Star
	Slash
	Bar // |
	Comma
	Dot
	LBracket
	RBracket
	LBrace
	RBrace
	LParen
	RParen
	Colon
	Semicolon
	Backslash
	Tilde

	// articulation/weight postfix markers lexed as their own punctuation
	Caret     // ^ accent
	Star2     // ' staccato (apostrophe form)
)

var keywords = map[string]Kind{
	"let":     KwLet,
	"in":      KwIn,
	"if":      KwIf,
	"then":    KwThen,
	"else":    KwElse,
	"match":   KwMatch,
	"with":    KwWith,
	"scale":   KwScale,
	"chord":   KwChord,
	"section": KwSection,
	"layer":   KwLayer,
	"part":    KwPart,
	"env":     KwEnv,
	"synth":   KwSynth,
	"set":     KwSet,
	"import":  KwImport,
	"export":  KwExport,
	"from":    KwFrom,
	"as":      KwAs,
	"mod":     KwMod,
	"use":     KwUse,
	"render":  KwRender,
	"context": KwContext,
	"key":     KwKey,
	"true":    KwTrue,
	"false":   KwFalse,
	"and":     KwAnd,
	"or":      KwOr,
	"not":     KwNot,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

var kindNames = map[Kind]string{
	EOF: "EOF", Error: "ERROR", Ident: "IDENT", IntLit: "INT", FloatLit: "FLOAT",
	StringLit: "STRING", IntervalLit: "INTERVAL", PitchLit: "PITCH", DegreeLit: "DEGREE",
	Pipe2: "|>", Compose: ">>", Concat: "++", Arrow: "->", FatArrow: "=>",
	ColonColon: "::", EqEq: "==", NotEq: "!=", LtEq: "<=", GtEq: ">=",
	Lt: "<", Gt: ">", Eq: "=", Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Bar: "|", Comma: ",", Dot: ".", LBracket: "[", RBracket: "]",
	LBrace: "{", RBrace: "}", LParen: "(", RParen: ")", Colon: ":",
	Semicolon: ";", Backslash: "\\", Tilde: "~", Caret: "^", Star2: "'",
}

// Token is one lexeme plus its source span.
type Token struct {
	Kind Kind
	Text string
	Span diag.Span
}
