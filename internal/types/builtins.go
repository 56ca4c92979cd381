package types

// builtinScheme builds the Scheme for a builtin function name using s to
// mint the type variables a polymorphic signature needs. Monomorphic
// musical transforms (transpose, swing, ...) simply never call s.fresh.
func builtinScheme(s *subst, name string) (*Scheme, bool) {
	switch name {
	// general sequence combinators, polymorphic over element type(s).
	case "map":
		a, b := s.fresh(), s.fresh()
		t := TFuncN(TArray(b), TFunc(a, b), TArray(a))
		return generalizeFree(t, a, b), true
	case "filter":
		a := s.fresh()
		t := TFuncN(TArray(a), TFunc(a, TCon(Bool)), TArray(a))
		return generalizeFree(t, a), true
	case "foldl":
		a, b := s.fresh(), s.fresh()
		accFn := TFunc(b, TFunc(a, b))
		t := TFuncN(b, accFn, b, TArray(a))
		return generalizeFree(t, a, b), true
	case "foldr":
		a, b := s.fresh(), s.fresh()
		t := TFuncN(b, TFunc(a, TFunc(b, b)), b, TArray(a))
		return generalizeFree(t, a, b), true
	case "flatMap":
		a, b := s.fresh(), s.fresh()
		t := TFuncN(TArray(b), TFunc(a, TArray(b)), TArray(a))
		return generalizeFree(t, a, b), true
	case "find":
		a := s.fresh()
		t := TFuncN(TOption(a), TFunc(a, TCon(Bool)), TArray(a))
		return generalizeFree(t, a), true
	case "any", "all":
		a := s.fresh()
		t := TFuncN(TCon(Bool), TFunc(a, TCon(Bool)), TArray(a))
		return generalizeFree(t, a), true
	case "zip":
		a, b := s.fresh(), s.fresh()
		t := TFuncN(TArray(TTuple(a, b)), TArray(a), TArray(b))
		return generalizeFree(t, a, b), true
	case "take", "drop":
		a := s.fresh()
		t := TFuncN(TArray(a), TCon(Int), TArray(a))
		return generalizeFree(t, a), true
	case "concat":
		a := s.fresh()
		t := TFuncN(TArray(a), TArray(a), TArray(a))
		return generalizeFree(t, a), true
	case "len":
		a := s.fresh()
		t := TFuncN(TCon(Int), TArray(a))
		return generalizeFree(t, a), true
	case "reverse":
		// Overloaded over Array<a> and Block at the evaluator layer; the
		// type checker picks the monomorphic Block signature since every
		// musical transform in spec.md §4.6 operates on blocks. Block is an
		// opaque Con that does not unify with Array<a>, so reversing an
		// Array is reported as a TypeError.
		t := TFuncN(TCon(Block), TCon(Block))
		return monoScheme(t), true

	// musical transforms: Block -> Block (plus a scalar argument).
	case "repeat":
		return monoScheme(TFuncN(TCon(Block), TCon(Int), TCon(Block))), true
	case "transpose":
		return monoScheme(TFuncN(TCon(Block), TCon(Interval), TCon(Block))), true
	case "swing":
		return monoScheme(TFuncN(TCon(Block), TCon(Float), TCon(Block))), true
	case "double_time", "half_time", "invert", "retrograde":
		return monoScheme(TFuncN(TCon(Block), TCon(Block))), true
	case "rotate":
		return monoScheme(TFuncN(TCon(Block), TCon(Int), TCon(Block))), true
	case "stretch", "compress":
		return monoScheme(TFuncN(TCon(Block), TCon(Float), TCon(Block))), true
	case "quantize":
		return monoScheme(TFuncN(TCon(Block), TCon(Int), TCon(Block))), true

	// effect/voicing builtins: (params..., Block) -> Part. Each promotes a
	// bare Block to a Part carrying the named metadata, per spec.md §4.6.
	case "voice":
		return monoScheme(TFuncN(TCon(Part), TCon(Synth), TCon(Block))), true
	case "volume", "pan", "reverb", "cutoff", "resonance", "detune":
		return monoScheme(TFuncN(TCon(Part), TCon(Float), TCon(Block))), true
	case "adsr":
		t := TFuncN(TCon(Part), TCon(Float), TCon(Float), TCon(Float), TCon(Float), TCon(Block))
		return monoScheme(t), true
	case "layer":
		// A layer is parts sounding in parallel from t=0; the result is
		// still a playable Part, matching the Value sum type's lack of a
		// distinct Layer variant (spec.md §3).
		t := TFuncN(TCon(Part), TArray(TCon(Part)))
		return monoScheme(t), true
	}
	return nil, false
}

// generalizeFree quantifies exactly the given fresh variables: since they
// were just minted for this one builtin instantiation, they cannot appear
// free anywhere in the ambient environment, so Scheme.Vars is just their IDs.
func generalizeFree(t *Type, vars ...*Type) *Scheme {
	ids := make([]int, len(vars))
	for i, v := range vars {
		ids[i] = v.ID
	}
	return &Scheme{Vars: ids, Type: t}
}
