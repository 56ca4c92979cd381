package eval

import (
	"fmt"

	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/musictheory"
	"github.com/relanote-lang/relanote/internal/resolver"
)

// evalExpr is the tree-walking core: every ast.Expr variant evaluates to a
// Value here, threading the lexical Env (Symbol id -> Value, spec.md §9's
// "closures capture the environment at lambda construction") and the
// currently-visible scale context (spec.md §9: "scale context is threaded
// through evaluation rather than attached to nodes").
func (ev *evaluator) evalExpr(e ast.Expr, env *Env, scale *Scale) (Value, error) {
	switch n := e.(type) {
	case *ast.IdentExpr:
		return ev.evalIdent(n, env)
	case *ast.IntLitExpr:
		return IntValue(n.Value), nil
	case *ast.FloatLitExpr:
		return FloatValue(n.Value), nil
	case *ast.StringLitExpr:
		return StringValue(n.Value), nil
	case *ast.BoolLitExpr:
		return BoolValue(n.Value), nil
	case *ast.IntervalLitExpr:
		iv, err := musictheory.ParseInterval(n.Text)
		if err != nil {
			return Value{}, err
		}
		return IntervalValue(iv), nil
	case *ast.PitchLitExpr:
		midi, err := musictheory.ParsePitch(n.Text)
		if err != nil {
			return Value{}, err
		}
		return PitchValue(midi, 0), nil
	case *ast.DegreeExpr:
		iv, err := resolveDegree(n.N, scale)
		if err != nil {
			return Value{}, err
		}
		return IntervalValue(iv), nil
	case *ast.RestExpr:
		// A Rest used outside slot position carries no distinct value;
		// inference gives it type Interval, so the silent interval R is
		// the nearest faithful representation.
		return IntervalValue(musictheory.Interval{}), nil
	case *ast.ArrayLitExpr:
		elems := make([]Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := ev.evalExpr(el, env, scale)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return ArrayValue(elems), nil
	case *ast.ChordLitExpr:
		ivs, err := ev.evalIntervalsIn(n.Elems, env, scale)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KChord, Chord: Chord{Intervals: ivs}}, nil
	case *ast.RecordLitExpr:
		return ev.evalRecordLit(n, env, scale)
	case *ast.LambdaExpr:
		return ev.evalLambda(n, env, scale), nil
	case *ast.ApplyExpr:
		return ev.evalApply(n, env, scale)
	case *ast.BinaryExpr:
		return ev.evalBinary(n, env, scale)
	case *ast.UnaryExpr:
		return ev.evalUnary(n, env, scale)
	case *ast.PipeExpr:
		return ev.evalPipe(n, env, scale)
	case *ast.ComposeExpr:
		return ev.evalCompose(n, env, scale), nil
	case *ast.LetExpr:
		return ev.evalLet(n, env, scale)
	case *ast.IfExpr:
		return ev.evalIf(n, env, scale)
	case *ast.MatchExpr:
		return ev.evalMatch(n, env, scale)
	case *ast.FieldAccessExpr:
		return ev.evalFieldAccess(n, env, scale)
	case *ast.BlockExpr:
		b, err := ev.evalBlockLike(n.Slots, n.TotalBeats, env, scale)
		if err != nil {
			return Value{}, err
		}
		return BlockValue(b), nil
	case *ast.TupletExpr:
		b, err := ev.evalBlockLike(n.Slots, n.Beats, env, scale)
		if err != nil {
			return Value{}, err
		}
		return BlockValue(b), nil
	case *ast.DurationExpr:
		return ev.evalDuration(n, env, scale)
	}
	return Value{}, fmt.Errorf("eval: unsupported expression node %T", e)
}

func (ev *evaluator) evalIdent(n *ast.IdentExpr, env *Env) (Value, error) {
	sym, ok := ev.res.Refs[n]
	if !ok || sym == nil {
		return Value{}, fmt.Errorf("unresolved identifier %q", n.Name)
	}
	if v, ok := env.Get(sym.ID); ok {
		return v, nil
	}
	if v, ok := ev.global.Get(sym.ID); ok {
		return v, nil
	}
	if sym.Kind == resolver.SymBuiltin {
		if v, ok := ev.lookupBuiltin(sym); ok {
			ev.global.Bind(sym.ID, v)
			return v, nil
		}
	}
	if v, ok := ev.lookupPreludeName(sym); ok {
		ev.global.Bind(sym.ID, v)
		return v, nil
	}
	return Value{}, fmt.Errorf("name %q has no bound value", n.Name)
}

func (ev *evaluator) evalIntervalsIn(exprs []ast.Expr, env *Env, scale *Scale) ([]musictheory.Interval, error) {
	out := make([]musictheory.Interval, len(exprs))
	for i, e := range exprs {
		v, err := ev.evalExpr(e, env, scale)
		if err != nil {
			return nil, err
		}
		if v.Kind != KInterval {
			return nil, fmt.Errorf("expected an interval, found %s", v.Kind)
		}
		out[i] = v.Interval
	}
	return out, nil
}

// evalRecordLit builds an inline `{ field: expr, ... }` literal (spec.md
// §4.2's atom form used for a synth value built inline, e.g. a `voice`
// argument) into a Synth, reusing the same field semantics as a top-level
// `synth` declaration.
func (ev *evaluator) evalRecordLit(n *ast.RecordLitExpr, env *Env, scale *Scale) (Value, error) {
	s := &Synth{}
	for _, f := range n.Fields {
		if f.Name == "oscillators" {
			continue
		}
		v, err := ev.evalExpr(f.Value, env, scale)
		if err != nil {
			return Value{}, err
		}
		applySynthField(s, f.Name, toFloat(v))
	}
	return Value{Kind: KSynth, Synth: s}, nil
}

func applySynthField(s *Synth, name string, fv float64) {
	switch name {
	case "attack":
		s.Envelope.AttackS = fv
	case "decay":
		s.Envelope.DecayS = fv
	case "sustain":
		s.Envelope.Sustain = fv
	case "release":
		s.Envelope.ReleaseS = fv
	case "cutoff":
		if s.Filter == nil {
			s.Filter = &Filter{Kind: "lowpass"}
		}
		s.Filter.CutoffHz = fv
	case "resonance":
		if s.Filter == nil {
			s.Filter = &Filter{Kind: "lowpass"}
		}
		s.Filter.Resonance = fv
	case "detune":
		s.DetuneCents = int(fv)
	}
}

// evalLambda builds a closure capturing env and the scale context lexically
// in effect where the lambda literal appears (spec.md §9: "closures
// capture the environment at lambda construction").
func (ev *evaluator) evalLambda(n *ast.LambdaExpr, env *Env, scale *Scale) Value {
	syms := ev.res.ParamSyms[n]
	fn := &Function{
		Arity: len(n.Params),
		Call: func(args []Value) (Value, error) {
			child := env.Child()
			for i, sym := range syms {
				if i < len(args) {
					child.Bind(sym.ID, args[i])
				}
			}
			return ev.evalExpr(n.Body, child, scale)
		},
	}
	return FunctionValue(fn)
}

func (ev *evaluator) evalApply(n *ast.ApplyExpr, env *Env, scale *Scale) (Value, error) {
	fnv, err := ev.evalExpr(n.Fn, env, scale)
	if err != nil {
		return Value{}, err
	}
	argv, err := ev.evalExpr(n.Arg, env, scale)
	if err != nil {
		return Value{}, err
	}
	if fnv.Kind != KFunction {
		return Value{}, fmt.Errorf("cannot apply a non-function value of kind %s", fnv.Kind)
	}
	ev.callDepth++
	defer func() { ev.callDepth-- }()
	if ev.callDepth > MaxCallDepth {
		return Value{}, fmt.Errorf("call stack depth exceeded %d (recursion without a base case?)", MaxCallDepth)
	}
	return fnv.Fn.Apply(argv)
}

func (ev *evaluator) evalBinary(n *ast.BinaryExpr, env *Env, scale *Scale) (Value, error) {
	l, err := ev.evalExpr(n.Left, env, scale)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case ast.OpOr:
		if l.Kind == KBool && l.Bool {
			return BoolValue(true), nil
		}
		r, err := ev.evalExpr(n.Right, env, scale)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(l.Bool || r.Bool), nil
	case ast.OpAnd:
		if l.Kind == KBool && !l.Bool {
			return BoolValue(false), nil
		}
		r, err := ev.evalExpr(n.Right, env, scale)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(l.Bool && r.Bool), nil
	}
	r, err := ev.evalExpr(n.Right, env, scale)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case ast.OpEq:
		return BoolValue(valuesEqual(l, r)), nil
	case ast.OpNotEq:
		return BoolValue(!valuesEqual(l, r)), nil
	case ast.OpLt, ast.OpGt, ast.OpLtEq, ast.OpGtEq:
		return compareValues(n.Op, l, r)
	case ast.OpConcat:
		return concatValues(l, r)
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		return arithValues(n.Op, l, r)
	}
	return Value{}, fmt.Errorf("eval: unsupported binary operator")
}

func numericCents(v Value) (int, bool) {
	if v.Kind == KInterval {
		return v.Interval.Cents, true
	}
	return 0, false
}

func arithValues(op ast.BinOp, l, r Value) (Value, error) {
	if iv, ok := numericCents(l); ok {
		if rv, ok2 := numericCents(r); ok2 {
			return arithInterval(op, iv, rv)
		}
		return Value{}, fmt.Errorf("interval arithmetic requires two intervals")
	}
	if l.Kind == KFloat || r.Kind == KFloat {
		lf, rf := toFloat(l), toFloat(r)
		switch op {
		case ast.OpAdd:
			return FloatValue(lf + rf), nil
		case ast.OpSub:
			return FloatValue(lf - rf), nil
		case ast.OpMul:
			return FloatValue(lf * rf), nil
		case ast.OpDiv:
			if rf == 0 {
				return Value{}, fmt.Errorf("division by zero")
			}
			return FloatValue(lf / rf), nil
		}
	}
	if l.Kind == KInt && r.Kind == KInt {
		switch op {
		case ast.OpAdd:
			return IntValue(l.Int + r.Int), nil
		case ast.OpSub:
			return IntValue(l.Int - r.Int), nil
		case ast.OpMul:
			return IntValue(l.Int * r.Int), nil
		case ast.OpDiv:
			if r.Int == 0 {
				return Value{}, fmt.Errorf("division by zero")
			}
			return IntValue(l.Int / r.Int), nil
		}
	}
	return Value{}, fmt.Errorf("arithmetic operator not defined for %s and %s", l.Kind, r.Kind)
}

func arithInterval(op ast.BinOp, l, r int) (Value, error) {
	switch op {
	case ast.OpAdd:
		return IntervalValue(musictheory.Interval{Cents: l + r}), nil
	case ast.OpSub:
		return IntervalValue(musictheory.Interval{Cents: l - r}), nil
	}
	return Value{}, fmt.Errorf("interval arithmetic only supports + and -")
}

func compareValues(op ast.BinOp, l, r Value) (Value, error) {
	var lf, rf float64
	switch {
	case l.Kind == KInt && r.Kind == KInt:
		lf, rf = float64(l.Int), float64(r.Int)
	case l.Kind == KInterval && r.Kind == KInterval:
		lf, rf = float64(l.Interval.Cents), float64(r.Interval.Cents)
	default:
		lf, rf = toFloat(l), toFloat(r)
	}
	switch op {
	case ast.OpLt:
		return BoolValue(lf < rf), nil
	case ast.OpGt:
		return BoolValue(lf > rf), nil
	case ast.OpLtEq:
		return BoolValue(lf <= rf), nil
	case ast.OpGtEq:
		return BoolValue(lf >= rf), nil
	}
	return Value{}, fmt.Errorf("eval: unsupported comparison")
}

// valuesEqual implements spec.md §4.4's structural `==`: primitives by
// value, intervals and pitches by cents (enharmonic equivalents compare
// equal), strings/bools/units trivially, arrays/tuples element-wise.
func valuesEqual(l, r Value) bool {
	if l.Kind != r.Kind {
		return false
	}
	switch l.Kind {
	case KUnit:
		return true
	case KBool:
		return l.Bool == r.Bool
	case KInt:
		return l.Int == r.Int
	case KFloat:
		return l.Float == r.Float
	case KString:
		return l.Str == r.Str
	case KInterval:
		return l.Interval.Cents == r.Interval.Cents
	case KPitch:
		return l.Pitch.MIDI == r.Pitch.MIDI && l.Pitch.Cents == r.Pitch.Cents
	case KArray, KTuple:
		if len(l.Elems) != len(r.Elems) {
			return false
		}
		for i := range l.Elems {
			if !valuesEqual(l.Elems[i], r.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// concatValues implements `++` (spec.md §4.4/§4.6): Array<t> concatenation,
// and the rhythm-preserving Block/Part concatenation described in §4.6 and
// tested by invariants 8-9 in §8.
func concatValues(l, r Value) (Value, error) {
	switch l.Kind {
	case KArray:
		if r.Kind != KArray {
			return Value{}, fmt.Errorf("++ requires two arrays")
		}
		out := make([]Value, 0, len(l.Elems)+len(r.Elems))
		out = append(out, l.Elems...)
		out = append(out, r.Elems...)
		return ArrayValue(out), nil
	case KBlock:
		rb, ok := asBlock(r)
		if !ok {
			return Value{}, fmt.Errorf("++ requires two blocks")
		}
		return BlockValue(concatBlocks(l.Block, rb)), nil
	case KPart:
		rp, ok := asPart(r)
		if !ok {
			return Value{}, fmt.Errorf("++ requires two parts")
		}
		lp, _ := asPart(l)
		return PartValue(concatParts(lp, rp)), nil
	case KString:
		if r.Kind != KString {
			return Value{}, fmt.Errorf("++ requires two strings")
		}
		return StringValue(l.Str + r.Str), nil
	}
	if lp, ok := asPart(l); ok {
		rp, ok := asPart(r)
		if !ok {
			return Value{}, fmt.Errorf("++ requires two parts or blocks")
		}
		return PartValue(concatParts(lp, rp)), nil
	}
	return Value{}, fmt.Errorf("++ not defined for %s", l.Kind)
}

func asBlock(v Value) (*Block, bool) {
	if v.Kind == KBlock {
		return v.Block, true
	}
	return nil, false
}

func (ev *evaluator) evalUnary(n *ast.UnaryExpr, env *Env, scale *Scale) (Value, error) {
	v, err := ev.evalExpr(n.Expr, env, scale)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case ast.OpNot:
		return BoolValue(!v.Bool), nil
	case ast.OpNeg:
		switch v.Kind {
		case KInt:
			return IntValue(-v.Int), nil
		case KFloat:
			return FloatValue(-v.Float), nil
		case KInterval:
			return IntervalValue(musictheory.Interval{Cents: -v.Interval.Cents}), nil
		}
	}
	return Value{}, fmt.Errorf("unary operator not defined for %s", v.Kind)
}

// evalPipe implements `x |> f` as `f x` (spec.md §4.6).
func (ev *evaluator) evalPipe(n *ast.PipeExpr, env *Env, scale *Scale) (Value, error) {
	lv, err := ev.evalExpr(n.Left, env, scale)
	if err != nil {
		return Value{}, err
	}
	fv, err := ev.evalExpr(n.Right, env, scale)
	if err != nil {
		return Value{}, err
	}
	if fv.Kind != KFunction {
		return Value{}, fmt.Errorf("|> requires a function on the right")
	}
	return fv.Fn.Apply(lv)
}

// evalCompose implements `f >> g` as `\x -> g (f x)` (spec.md §4.6),
// returning a new Function value rather than evaluating anything yet.
func (ev *evaluator) evalCompose(n *ast.ComposeExpr, env *Env, scale *Scale) Value {
	fn := &Function{
		Arity: 1,
		Call: func(args []Value) (Value, error) {
			fv, err := ev.evalExpr(n.Left, env, scale)
			if err != nil {
				return Value{}, err
			}
			if fv.Kind != KFunction {
				return Value{}, fmt.Errorf(">> requires functions on both sides")
			}
			mid, err := fv.Fn.Apply(args[0])
			if err != nil {
				return Value{}, err
			}
			gv, err := ev.evalExpr(n.Right, env, scale)
			if err != nil {
				return Value{}, err
			}
			if gv.Kind != KFunction {
				return Value{}, fmt.Errorf(">> requires functions on both sides")
			}
			return gv.Fn.Apply(mid)
		},
	}
	return FunctionValue(fn)
}

func (ev *evaluator) evalLet(n *ast.LetExpr, env *Env, scale *Scale) (Value, error) {
	v, err := ev.evalExpr(n.Value, env, scale)
	if err != nil {
		return Value{}, err
	}
	child := env.Child()
	ev.bindPattern(n.Pattern, v, child)
	return ev.evalExpr(n.Body, child, scale)
}

// bindPattern binds every leaf a pattern introduces (spec.md §4.2's
// `let <pattern> = <expr>`) against the exact Symbol identities the
// resolver attached to this pattern node.
func (ev *evaluator) bindPattern(pattern ast.Pattern, v Value, env *Env) {
	syms := ev.res.PatternSyms[pattern]
	leaves := patternLeaves(pattern, v)
	for i, sym := range syms {
		if i < len(leaves) {
			env.Bind(sym.ID, leaves[i])
		}
	}
}

func patternLeaves(p ast.Pattern, v Value) []Value {
	switch pat := p.(type) {
	case *ast.IdentPattern:
		return []Value{v}
	case *ast.TuplePattern:
		var out []Value
		for i, elem := range pat.Elems {
			var ev Value
			if v.Kind == KTuple && i < len(v.Elems) {
				ev = v.Elems[i]
			}
			out = append(out, patternLeaves(elem, ev)...)
		}
		return out
	default:
		return nil
	}
}

// patternMatches reports whether v structurally matches pattern, per
// spec.md §4.2's match-arm patterns.
func patternMatches(p ast.Pattern, v Value) bool {
	switch pat := p.(type) {
	case *ast.WildcardPattern, *ast.IdentPattern:
		return true
	case *ast.UnitPattern:
		return v.Kind == KUnit
	case *ast.LitPattern:
		return litPatternMatches(pat.Value, v)
	case *ast.TuplePattern:
		if v.Kind != KTuple || len(v.Elems) != len(pat.Elems) {
			return false
		}
		for i, elem := range pat.Elems {
			if !patternMatches(elem, v.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func litPatternMatches(lit ast.Expr, v Value) bool {
	switch l := lit.(type) {
	case *ast.IntLitExpr:
		return v.Kind == KInt && v.Int == l.Value
	case *ast.FloatLitExpr:
		return v.Kind == KFloat && v.Float == l.Value
	case *ast.StringLitExpr:
		return v.Kind == KString && v.Str == l.Value
	case *ast.BoolLitExpr:
		return v.Kind == KBool && v.Bool == l.Value
	}
	return false
}

func (ev *evaluator) evalIf(n *ast.IfExpr, env *Env, scale *Scale) (Value, error) {
	c, err := ev.evalExpr(n.Cond, env, scale)
	if err != nil {
		return Value{}, err
	}
	if c.Bool {
		return ev.evalExpr(n.Then, env, scale)
	}
	return ev.evalExpr(n.Else, env, scale)
}

// evalMatch implements spec.md §4.2's `match ... with | p -> e | ...`,
// trying each arm's pattern in source order (spec.md §7: an exhausted
// match aborts the expression to Unit with an EvalError diagnostic,
// rather than panicking).
func (ev *evaluator) evalMatch(n *ast.MatchExpr, env *Env, scale *Scale) (Value, error) {
	scrut, err := ev.evalExpr(n.Scrutinee, env, scale)
	if err != nil {
		return Value{}, err
	}
	for _, arm := range n.Arms {
		if !patternMatches(arm.Pattern, scrut) {
			continue
		}
		child := env.Child()
		ev.bindPattern(arm.Pattern, scrut, child)
		return ev.evalExpr(arm.Body, child, scale)
	}
	return Value{}, fmt.Errorf("pattern-match failure: no arm matched")
}

// evalFieldAccess implements postfix `.field` (spec.md §4.2) over the
// handful of record-shaped Values the language exposes fields on: Synth
// (envelope/filter/detune fields), Pitch, Interval, and Performance.
func (ev *evaluator) evalFieldAccess(n *ast.FieldAccessExpr, env *Env, scale *Scale) (Value, error) {
	v, err := ev.evalExpr(n.Target, env, scale)
	if err != nil {
		return Value{}, err
	}
	switch v.Kind {
	case KSynth:
		switch n.Field {
		case "attack":
			return FloatValue(v.Synth.Envelope.AttackS), nil
		case "decay":
			return FloatValue(v.Synth.Envelope.DecayS), nil
		case "sustain":
			return FloatValue(v.Synth.Envelope.Sustain), nil
		case "release":
			return FloatValue(v.Synth.Envelope.ReleaseS), nil
		case "detune":
			return IntValue(int64(v.Synth.DetuneCents)), nil
		case "name":
			return StringValue(v.Synth.Name), nil
		case "cutoff":
			if v.Synth.Filter != nil {
				return FloatValue(v.Synth.Filter.CutoffHz), nil
			}
			return FloatValue(0), nil
		case "resonance":
			if v.Synth.Filter != nil {
				return FloatValue(v.Synth.Filter.Resonance), nil
			}
			return FloatValue(0), nil
		}
	case KPitch:
		switch n.Field {
		case "midi":
			return IntValue(int64(v.Pitch.MIDI)), nil
		case "cents":
			return IntValue(int64(v.Pitch.Cents)), nil
		}
	case KInterval:
		if n.Field == "cents" {
			return IntValue(int64(v.Interval.Cents)), nil
		}
	case KPerformance:
		switch n.Field {
		case "tempo":
			return FloatValue(v.Perf.TempoBPM), nil
		case "total_beats":
			f, _ := v.Perf.TotalBeats.Float64()
			return FloatValue(f), nil
		}
	}
	return Value{}, fmt.Errorf("unknown field %q on %s", n.Field, v.Kind)
}

// evalDuration implements the postfix `:n` duration node (the parser never
// produces one) by rescaling a Block's total beats to n,
// proportionally stretching every slot, the same mechanism `stretch` uses.
func (ev *evaluator) evalDuration(n *ast.DurationExpr, env *Env, scale *Scale) (Value, error) {
	tv, err := ev.evalExpr(n.Target, env, scale)
	if err != nil {
		return Value{}, err
	}
	nv, err := ev.evalExpr(n.N, env, scale)
	if err != nil {
		return Value{}, err
	}
	b, ok := asBlock(tv)
	if !ok {
		return tv, nil
	}
	target := ratInt(nv.Int)
	if b.TotalBeats.Sign() == 0 {
		return BlockValue(b), nil
	}
	factor := new(Rat).Quo(target, b.TotalBeats)
	return BlockValue(scaleTime(factor, b)), nil
}

// evalBlockLike builds a Block from a Slot sequence and an optional
// explicit total-beats expression (nil defaults to 1 beat, per spec.md
// §3), shared by both `| ... |` blocks and `{ ... }:n` tuplets.
func (ev *evaluator) evalBlockLike(slots []ast.Slot, totalExpr ast.Expr, env *Env, scale *Scale) (*Block, error) {
	total := ratInt(1)
	if totalExpr != nil {
		tv, err := ev.evalExpr(totalExpr, env, scale)
		if err != nil {
			return nil, err
		}
		total = ratFromValue(tv)
	}

	kinds := make([]SlotKind, len(slots))
	intervals := make([]musictheory.Interval, len(slots))
	chords := make([][]musictheory.Interval, len(slots))
	nested := make([]*Block, len(slots))
	artics := make([]ast.Articulation, len(slots))
	weights := make([]int, len(slots))

	for i, slot := range slots {
		w := slot.Weight
		if w <= 0 {
			w = 1
		}
		weights[i] = w
		artics[i] = slot.Articulation
		switch sv := slot.Value.(type) {
		case *ast.RestExpr:
			kinds[i] = SlotRest
		case *ast.ChordLitExpr:
			ivs, err := ev.evalIntervalsIn(sv.Elems, env, scale)
			if err != nil {
				return nil, err
			}
			kinds[i] = SlotChord
			chords[i] = ivs
		case *ast.TupletExpr:
			nb, err := ev.evalBlockLike(sv.Slots, sv.Beats, env, scale)
			if err != nil {
				return nil, err
			}
			kinds[i] = SlotNested
			nested[i] = nb
		default:
			v, err := ev.evalExpr(slot.Value, env, scale)
			if err != nil {
				return nil, err
			}
			switch v.Kind {
			case KInterval:
				kinds[i] = SlotNote
				intervals[i] = v.Interval
			case KChord:
				kinds[i] = SlotChord
				chords[i] = v.Chord.Intervals
			case KBlock:
				kinds[i] = SlotNested
				nested[i] = v.Block
			default:
				return nil, fmt.Errorf("slot value must be an interval, chord, or nested block, found %s", v.Kind)
			}
		}
	}
	return newWeightedBlock(kinds, intervals, chords, nested, artics, weights, total), nil
}

// resolveDegree implements spec.md §4.6's scale-degree contract:
// `intervals[(n-1) mod len] + octave_shift*P8`.
func resolveDegree(n int, scale *Scale) (musictheory.Interval, error) {
	if scale == nil || len(scale.Intervals) == 0 {
		return musictheory.Interval{}, fmt.Errorf("scale degree <%d> referenced with no scale in context", n)
	}
	length := len(scale.Intervals)
	idx := ((n - 1) % length)
	octaveShift := (n - 1) / length
	if idx < 0 {
		idx += length
		octaveShift--
	}
	base := scale.Intervals[idx]
	return musictheory.Interval{Cents: base.Cents + octaveShift*1200}, nil
}

func ratFromValue(v Value) *Rat {
	switch v.Kind {
	case KInt:
		return ratInt(v.Int)
	case KFloat:
		return floatToRat(v.Float)
	}
	return ratInt(1)
}

