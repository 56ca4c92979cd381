package resolver

import "github.com/relanote-lang/relanote/internal/diag"

// SymbolKind classifies what a Symbol denotes.
type SymbolKind int

const (
	SymLet SymbolKind = iota
	SymParam
	SymScale
	SymChord
	SymSynth
	SymBuiltin
	SymUnresolved
)

// Symbol is the globally-unique identity the resolver assigns to every
// let-binding, scale, chord, synth, module-level import, and lambda
// parameter. Symbol ids are never reused within one compilation.
type Symbol struct {
	ID         int
	Name       string
	Module     string // module-qualified owner, "" for prelude/builtins
	Kind       SymbolKind
	DefSpan    diag.Span
}

// QualifiedName returns "module::name", or bare "name" for prelude symbols.
func (s *Symbol) QualifiedName() string {
	if s.Module == "" {
		return s.Name
	}
	return s.Module + "::" + s.Name
}
