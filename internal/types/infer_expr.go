package types

import (
	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/relanote-lang/relanote/internal/resolver"
)

// synthFloatFields are the synth record fields spec.md §3 describes in the
// evaluator's normalized 0.0-1.0 (or otherwise bounded) float range. Any
// other field name is a TypeError: unknown record field.
var synthFloatFields = map[string]bool{
	"attack": true, "decay": true, "sustain": true, "release": true,
	"cutoff": true, "resonance": true, "detune": true,
	"volume": true, "pan": true, "reverb": true,
}

func (inf *inferer) inferSynthField(name string, value ast.Expr) {
	if name == "oscillators" {
		inf.infer(value) // element shape not constrained further
		return
	}
	if !synthFloatFields[name] {
		inf.bag.Errorf(diag.KindTypeError, value.ExprSpan(), "unknown record field %q", name)
		inf.infer(value)
		return
	}
	inf.unify(value.ExprSpan(), TCon(Float), inf.infer(value))
}

// infer walks e, generating and solving unification constraints as it
// goes, and returns e's type (after applying the current substitution).
// Every node visited is recorded into inf.info for later lookup.
func (inf *inferer) infer(e ast.Expr) *Type {
	switch n := e.(type) {
	case *ast.IdentExpr:
		return inf.record(e, inf.inferIdent(n))
	case *ast.IntLitExpr:
		return inf.record(e, TCon(Int))
	case *ast.FloatLitExpr:
		return inf.record(e, TCon(Float))
	case *ast.StringLitExpr:
		return inf.record(e, TCon(String))
	case *ast.BoolLitExpr:
		return inf.record(e, TCon(Bool))
	case *ast.IntervalLitExpr:
		return inf.record(e, TCon(Interval))
	case *ast.PitchLitExpr:
		return inf.record(e, TCon(Pitch))
	case *ast.DegreeExpr:
		return inf.record(e, TCon(Interval))
	case *ast.RestExpr:
		return inf.record(e, TCon(Interval)) // silence has no distinct type; unifies freely in slot position
	case *ast.ArrayLitExpr:
		elem := inf.sub.fresh()
		for _, el := range n.Elems {
			inf.unify(el.ExprSpan(), elem, inf.infer(el))
		}
		return inf.record(e, TArray(elem))
	case *ast.ChordLitExpr:
		for _, el := range n.Elems {
			inf.unify(el.ExprSpan(), TCon(Interval), inf.infer(el))
		}
		return inf.record(e, TCon(Chord))
	case *ast.RecordLitExpr:
		for _, f := range n.Fields {
			inf.inferSynthField(f.Name, f.Value)
		}
		return inf.record(e, TCon(Synth))
	case *ast.LambdaExpr:
		return inf.record(e, inf.inferLambda(n))
	case *ast.ApplyExpr:
		return inf.record(e, inf.inferApply(n))
	case *ast.BinaryExpr:
		return inf.record(e, inf.inferBinary(n))
	case *ast.UnaryExpr:
		return inf.record(e, inf.inferUnary(n))
	case *ast.PipeExpr:
		// x |> f  ==  f x
		return inf.record(e, inf.applyTypes(n.Span, inf.infer(n.Right), inf.infer(n.Left)))
	case *ast.ComposeExpr:
		return inf.record(e, inf.inferCompose(n))
	case *ast.LetExpr:
		return inf.record(e, inf.inferLet(n))
	case *ast.IfExpr:
		return inf.record(e, inf.inferIf(n))
	case *ast.MatchExpr:
		return inf.record(e, inf.inferMatch(n))
	case *ast.FieldAccessExpr:
		inf.infer(n.Target) // field layout is not tracked per-type; accept any
		return inf.record(e, inf.sub.fresh())
	case *ast.BlockExpr:
		return inf.record(e, inf.inferBlock(n))
	case *ast.TupletExpr:
		return inf.record(e, inf.inferBlock(&ast.BlockExpr{Slots: n.Slots, TotalBeats: n.Beats, Span: n.Span}))
	case *ast.DurationExpr:
		inf.unify(n.N.ExprSpan(), TCon(Int), inf.infer(n.N))
		return inf.record(e, inf.infer(n.Target))
	}
	return ErrorType()
}

func (inf *inferer) inferIdent(n *ast.IdentExpr) *Type {
	sym, ok := inf.res.Refs[n]
	if !ok || sym == nil {
		return ErrorType() // already reported by the resolver
	}
	if sc, ok := inf.env[sym.ID]; ok {
		return inf.sub.instantiate(sc)
	}
	// Prelude scale/chord/synth names are seeded into the resolver's base
	// scope (resolver.baseScope) without a matching seedTopLevel entry,
	// since they belong to no user module; give them their fixed type the
	// first time a reference is actually typed.
	switch sym.Kind {
	case resolver.SymScale:
		inf.env[sym.ID] = monoScheme(TCon(Scale))
		return TCon(Scale)
	case resolver.SymChord:
		inf.env[sym.ID] = monoScheme(TCon(Chord))
		return TCon(Chord)
	case resolver.SymSynth:
		inf.env[sym.ID] = monoScheme(TCon(Synth))
		return TCon(Synth)
	}
	if sc, ok := builtinScheme(inf.sub, sym.Name); ok {
		inf.env[sym.ID] = sc
		return inf.sub.instantiate(sc)
	}
	// A binding whose scheme was never seeded (builtin identifier that is
	// not in the builtin table, or a scope/ordering gap): give it a fresh
	// variable rather than cascading spurious mismatches.
	t := inf.sub.fresh()
	inf.env[sym.ID] = monoScheme(t)
	return t
}

func (inf *inferer) inferLambda(n *ast.LambdaExpr) *Type {
	syms := inf.res.ParamSyms[n]
	paramTypes := make([]*Type, len(n.Params))
	for i := range n.Params {
		t := inf.sub.fresh()
		paramTypes[i] = t
		if i < len(syms) {
			inf.env[syms[i].ID] = monoScheme(t)
		}
	}
	bodyT := inf.infer(n.Body)
	// The parameters go out of scope with the body; dropping them keeps
	// their type variables from blocking an enclosing let's generalisation.
	for _, s := range syms {
		delete(inf.env, s.ID)
	}
	result := bodyT
	for i := len(paramTypes) - 1; i >= 0; i-- {
		result = TFunc(paramTypes[i], result)
	}
	return result
}

func (inf *inferer) inferApply(n *ast.ApplyExpr) *Type {
	fnT := inf.infer(n.Fn)
	argT := inf.infer(n.Arg)
	return inf.applyTypes(n.Span, fnT, argT)
}

func (inf *inferer) applyTypes(span diag.Span, fnT, argT *Type) *Type {
	fnT = inf.sub.apply(fnT)
	if fnT.IsError() {
		return ErrorType()
	}
	if fnT.Kind != KFunc {
		ret := inf.sub.fresh()
		inf.unify(span, fnT, TFunc(argT, ret))
		return ret
	}
	inf.unify(span, fnT.Param, argT)
	return inf.sub.apply(fnT.Ret)
}

func (inf *inferer) inferCompose(n *ast.ComposeExpr) *Type {
	// f >> g  ==  \x -> g (f x)
	a, b, c := inf.sub.fresh(), inf.sub.fresh(), inf.sub.fresh()
	inf.unify(n.Span, TFunc(a, b), inf.infer(n.Left))
	inf.unify(n.Span, TFunc(b, c), inf.infer(n.Right))
	return TFunc(a, c)
}

func (inf *inferer) inferBinary(n *ast.BinaryExpr) *Type {
	l := inf.infer(n.Left)
	r := inf.infer(n.Right)
	switch n.Op {
	case ast.OpOr, ast.OpAnd:
		inf.unify(n.Span, TCon(Bool), l)
		inf.unify(n.Span, TCon(Bool), r)
		return TCon(Bool)
	case ast.OpEq, ast.OpNotEq, ast.OpLt, ast.OpGt, ast.OpLtEq, ast.OpGtEq:
		inf.unify(n.Span, l, r)
		return TCon(Bool)
	case ast.OpConcat:
		inf.unify(n.Span, l, r)
		return inf.sub.apply(l)
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		lt := inf.sub.apply(l)
		switch {
		case lt.Kind == KCon && (lt.Con == Int || lt.Con == Float || lt.Con == Interval):
			inf.unify(n.Span, lt, r)
			return lt
		default:
			inf.unify(n.Span, l, r)
			return inf.sub.apply(l)
		}
	}
	return ErrorType()
}

func (inf *inferer) inferUnary(n *ast.UnaryExpr) *Type {
	t := inf.infer(n.Expr)
	switch n.Op {
	case ast.OpNot:
		inf.unify(n.Span, TCon(Bool), t)
		return TCon(Bool)
	case ast.OpNeg:
		return t
	}
	return ErrorType()
}

func (inf *inferer) inferLet(n *ast.LetExpr) *Type {
	valT := inf.infer(n.Value)
	envFree := inf.envFreeVars()
	inf.bindPatternTypes(n.Pattern, valT, envFree, isSyntacticValue(n.Value))
	return inf.infer(n.Body)
}

// bindPatternTypes seeds env for every Symbol the resolver attached to
// pattern (via ParamSyms-style PatternSyms), generalising only when the
// bound value was itself a syntactic value.
func (inf *inferer) bindPatternTypes(pattern ast.Pattern, t *Type, envFree map[int]bool, generalizeOK bool) {
	syms := inf.res.PatternSyms[pattern]
	leaves := patternLeafTypes(pattern, t)
	for i, sym := range syms {
		if i >= len(leaves) {
			break
		}
		final := inf.sub.apply(leaves[i])
		if generalizeOK {
			inf.env[sym.ID] = generalize(final, envFree)
		} else {
			inf.env[sym.ID] = monoScheme(final)
		}
	}
}

// patternLeafTypes walks pattern in the same left-to-right order bindPattern
// used to build PatternSyms, pairing each IdentPattern leaf with its slice
// of t (t itself for a bare identifier, or the matching tuple element).
func patternLeafTypes(p ast.Pattern, t *Type) []*Type {
	switch pat := p.(type) {
	case *ast.IdentPattern:
		return []*Type{t}
	case *ast.TuplePattern:
		var out []*Type
		for i, elem := range pat.Elems {
			var elemT *Type
			if t.Kind == KTuple && i < len(t.Elems) {
				elemT = t.Elems[i]
			} else {
				elemT = ErrorType()
			}
			out = append(out, patternLeafTypes(elem, elemT)...)
		}
		return out
	default:
		return nil
	}
}

func (inf *inferer) inferIf(n *ast.IfExpr) *Type {
	inf.unify(n.Cond.ExprSpan(), TCon(Bool), inf.infer(n.Cond))
	thenT := inf.infer(n.Then)
	elseT := inf.infer(n.Else)
	inf.unify(n.Span, thenT, elseT)
	return inf.sub.apply(thenT)
}

func (inf *inferer) inferMatch(n *ast.MatchExpr) *Type {
	scrutT := inf.infer(n.Scrutinee)
	result := inf.sub.fresh()
	for _, arm := range n.Arms {
		inf.bindPatternTypes(arm.Pattern, scrutT, nil, false)
		armT := inf.infer(arm.Body)
		inf.unify(n.Span, result, armT)
	}
	return inf.sub.apply(result)
}

// inferBlock type-checks a block's slots. Each slot must be a Rest (no
// constraint), an Interval (a Note), a Chord literal, or a nested Block
// (Tuplet); the block itself always has type Block regardless of its
// slot contents, matching spec.md §3's Slot union.
func (inf *inferer) inferBlock(n *ast.BlockExpr) *Type {
	if n.TotalBeats != nil {
		inf.unify(n.TotalBeats.ExprSpan(), TCon(Int), inf.infer(n.TotalBeats))
	}
	for _, slot := range n.Slots {
		if _, ok := slot.Value.(*ast.RestExpr); ok {
			inf.infer(slot.Value)
			continue
		}
		t := inf.sub.apply(inf.infer(slot.Value))
		if t.Kind == KCon && (t.Con == Chord || t.Con == Block) {
			continue
		}
		inf.unify(slot.Value.ExprSpan(), TCon(Interval), t)
	}
	return TCon(Block)
}
