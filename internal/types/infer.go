package types

import (
	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/relanote-lang/relanote/internal/resolver"
)

// Info is the types stage's output: a concrete Type for every expression
// node inference assigned one to, keyed by node identity (AST nodes are
// always pointers, so this is a stable map key). Nodes that were never
// reached because an earlier stage already failed are simply absent.
type Info struct {
	ExprTypes map[ast.Expr]*Type
}

// TypeOf looks up the inferred type of e, returning ErrorType() if e was
// never visited (e.g. inside a module that failed to resolve).
func (i *Info) TypeOf(e ast.Expr) *Type {
	if t, ok := i.ExprTypes[e]; ok {
		return t
	}
	return ErrorType()
}

type inferer struct {
	sub *subst
	env map[int]*Scheme
	bag *diag.Bag
	res *resolver.Result
	info *Info
}

// Infer runs Hindley-Milner inference over every module in res. It first
// gives every top-level let/set binding a placeholder type variable
// (supporting forward and mutually-recursive top-level references, and
// cross-module references via `use`), then infers each module's items in
// declaration order, generalising a let/set binding into a polymorphic
// Scheme immediately after its own right-hand side is inferred (only when
// that right-hand side is a syntactic value, per spec.md §4.4). A reference
// to a binding that appears earlier in its module's source sees the
// generalised, polymorphic scheme; a reference that appears before the
// binding's own declaration line sees (and monomorphically constrains) the
// placeholder instead. This is a simplification of full
// mutually-recursive let-rec generalisation.
func Infer(res *resolver.Result) (*Info, []diag.Diagnostic) {
	inf := &inferer{
		sub:  newSubst(),
		env:  make(map[int]*Scheme),
		bag:  diag.NewBag(),
		res:  res,
		info: &Info{ExprTypes: make(map[ast.Expr]*Type)},
	}
	modules := inf.allModules()
	for _, m := range modules {
		inf.seedTopLevel(m)
	}
	for _, m := range modules {
		inf.inferModule(m)
	}
	return inf.info, inf.bag.Items()
}

func (inf *inferer) allModules() []*resolver.Module {
	var out []*resolver.Module
	out = append(out, inf.res.Root)
	for path, m := range inf.res.Modules {
		if path != "" {
			out = append(out, m)
		}
	}
	return out
}

// seedTopLevel assigns a fresh, unconstrained placeholder type to every
// let/set binding and a fixed musical type to every scale/chord/synth
// binding, before any expression in any module is inferred.
func (inf *inferer) seedTopLevel(m *resolver.Module) {
	for _, item := range m.File.Items {
		switch decl := item.(type) {
		case *ast.LetDecl:
			if ip, ok := decl.Pattern.(*ast.IdentPattern); ok {
				if sym, ok := m.Symbols[ip.Name]; ok {
					inf.env[sym.ID] = monoScheme(inf.sub.fresh())
				}
			}
		case *ast.SetDecl:
			if sym, ok := m.Symbols[decl.Name]; ok {
				inf.env[sym.ID] = monoScheme(inf.sub.fresh())
			}
		case *ast.ScaleDecl:
			if sym, ok := m.Symbols[decl.Name]; ok {
				inf.env[sym.ID] = monoScheme(TCon(Scale))
			}
		case *ast.ChordDecl:
			if sym, ok := m.Symbols[decl.Name]; ok {
				inf.env[sym.ID] = monoScheme(TCon(Chord))
			}
		case *ast.SynthDecl:
			if sym, ok := m.Symbols[decl.Name]; ok {
				inf.env[sym.ID] = monoScheme(TCon(Synth))
			}
		}
	}
}

func (inf *inferer) inferModule(m *resolver.Module) {
	for _, item := range m.File.Items {
		inf.inferItem(item, m)
	}
}

func (inf *inferer) inferItem(item ast.Item, m *resolver.Module) {
	switch decl := item.(type) {
	case *ast.LetDecl:
		t := inf.infer(decl.Value)
		if ip, ok := decl.Pattern.(*ast.IdentPattern); ok {
			if sym, ok := m.Symbols[ip.Name]; ok {
				inf.unify(decl.Span, inf.env[sym.ID].Type, t)
				inf.finalizeTopLevel(sym.ID, decl.Value)
			}
		}
	case *ast.SetDecl:
		t := inf.infer(decl.Value)
		if sym, ok := m.Symbols[decl.Name]; ok {
			inf.unify(decl.Span, inf.env[sym.ID].Type, t)
			inf.finalizeTopLevel(sym.ID, decl.Value)
		}
	case *ast.ScaleDecl:
		for _, e := range decl.Intervals {
			inf.unify(e.ExprSpan(), TCon(Interval), inf.infer(e))
		}
	case *ast.ChordDecl:
		for _, e := range decl.Intervals {
			inf.unify(e.ExprSpan(), TCon(Interval), inf.infer(e))
		}
	case *ast.SynthDecl:
		for _, f := range decl.Fields {
			inf.inferSynthField(f.Name, f.Value)
		}
	case *ast.ExprItem:
		inf.infer(decl.Value)
	}
}

// finalizeTopLevel replaces a let/set binding's monomorphic placeholder with
// a generalised Scheme immediately after its own right-hand side has been
// inferred and unified, but only when that right-hand side is a syntactic
// value (spec.md §4.4's value restriction substitute).
func (inf *inferer) finalizeTopLevel(symID int, value ast.Expr) {
	final := inf.sub.apply(inf.env[symID].Type)
	if isSyntacticValue(value) {
		inf.env[symID] = generalize(final, inf.envFreeVars())
	} else {
		inf.env[symID] = monoScheme(final)
	}
}

func (inf *inferer) envFreeVars() map[int]bool {
	free := make(map[int]bool)
	for _, sc := range inf.env {
		freeVars(sc.Type, free)
	}
	return free
}

func isSyntacticValue(e ast.Expr) bool {
	switch e.(type) {
	case *ast.LambdaExpr, *ast.IntLitExpr, *ast.FloatLitExpr, *ast.StringLitExpr,
		*ast.BoolLitExpr, *ast.IntervalLitExpr, *ast.PitchLitExpr, *ast.BlockExpr,
		*ast.TupletExpr, *ast.ChordLitExpr, *ast.RecordLitExpr:
		return true
	default:
		return false
	}
}

func (inf *inferer) unify(span diag.Span, a, b *Type) {
	if err := inf.sub.unify(a, b); err != nil {
		inf.bag.Errorf(diag.KindTypeError, span, "%s", unifyMessage(inf.sub, a, b, err))
	}
}

func unifyMessage(s *subst, a, b *Type, err error) string {
	return "type mismatch: expected " + s.apply(a).String() + " but found " + s.apply(b).String()
}

func (inf *inferer) record(e ast.Expr, t *Type) *Type {
	inf.info.ExprTypes[e] = t
	return t
}
