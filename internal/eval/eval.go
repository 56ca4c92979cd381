package eval

import (
	"fmt"

	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/relanote-lang/relanote/internal/musictheory"
	"github.com/relanote-lang/relanote/internal/prelude"
	"github.com/relanote-lang/relanote/internal/resolver"
)

// MaxCallDepth bounds recursion without a base case (spec.md §4.6); an
// EvalError diagnostic is emitted and the offending expression evaluates
// to Unit rather than the host process's stack actually overflowing.
const MaxCallDepth = 4096

// Options carries process-wide context a compilation can override via
// `set tempo`/`set key` (spec.md §4.5's "set tempo defaults to 120; set
// key defaults to MIDI 60").
type Options struct {
	TempoBPM      float64
	KeyMIDI       int
	TimeSigNum    int
	TimeSigDen    int
}

// DefaultOptions returns the prelude's documented defaults.
func DefaultOptions() Options {
	return Options{TempoBPM: 120, KeyMIDI: 60, TimeSigNum: 4, TimeSigDen: 4}
}

// Result is Eval's output: the value of the program's last bare
// expression (spec.md §4.2's "only the last bare expression ... is
// returned") and the process options as left by any `set` items. The
// accumulated diagnostics are Eval's second return value.
type Result struct {
	Value   Value
	Options Options
}

// evaluator walks res's modules, evaluating every top-level item in
// declaration order and threading a mutable scale context the way
// spec.md §9 describes ("a bound scale name in scope ... is the
// default"). It has no dependency on the types package: by the time Eval
// runs, inference has already rejected inputs it cannot safely execute,
// so runtime failures here are limited to the EvalError taxonomy
// (spec.md §7), never a type confusion.
type evaluator struct {
	res       *resolver.Result
	bag       *diag.Bag
	global    *Env
	opts      Options
	callDepth int
}

// Eval evaluates every module reachable from res.Root, in the same
// declaration order the resolver and types stages use, and returns the
// value of the program's final bare expression.
func Eval(res *resolver.Result) (*Result, []diag.Diagnostic) {
	ev := &evaluator{
		res:    res,
		bag:    diag.NewBag(),
		global: NewEnv(nil),
		opts:   DefaultOptions(),
	}
	var last Value
	var scale *Scale
	for _, m := range ev.allModules(res) {
		v, s := ev.evalModule(m, scale)
		scale = s
		if m == res.Root {
			last = v
		}
	}
	return &Result{Value: last, Options: ev.opts}, ev.bag.Items()
}

func (ev *evaluator) allModules(res *resolver.Result) []*resolver.Module {
	var out []*resolver.Module
	out = append(out, res.Root)
	for path, m := range res.Modules {
		if path != "" {
			out = append(out, m)
		}
	}
	return out
}

// evalModule evaluates every item in m in source order, returning the
// value of the last ExprItem (Unit if none) and the scale context left in
// effect at the end of the module, so a later module (or the caller, for
// the root) can continue from it.
func (ev *evaluator) evalModule(m *resolver.Module, scale *Scale) (Value, *Scale) {
	last := UnitValue()
	for _, item := range m.File.Items {
		switch decl := item.(type) {
		case *ast.LetDecl:
			ip, ok := decl.Pattern.(*ast.IdentPattern)
			if !ok {
				// Destructuring top-level let: bind every leaf, values
				// unused beyond scope seeding since nothing else in the
				// grammar re-enters top level after this.
				v, err := ev.evalExpr(decl.Value, ev.global, scale)
				if err != nil {
					ev.reportEvalError(decl.Span, err)
					continue
				}
				ev.bindPattern(decl.Pattern, v, ev.global)
				continue
			}
			if sym, ok := m.Symbols[ip.Name]; ok {
				v, err := ev.evalExpr(decl.Value, ev.global, scale)
				if err != nil {
					ev.reportEvalError(decl.Span, err)
					v = UnitValue()
				}
				ev.global.Bind(sym.ID, v)
			}
		case *ast.SetDecl:
			v, err := ev.evalExpr(decl.Value, ev.global, scale)
			if err != nil {
				ev.reportEvalError(decl.Span, err)
				continue
			}
			ev.applySet(decl.Name, v)
			if sym, ok := m.Symbols[decl.Name]; ok {
				ev.global.Bind(sym.ID, v)
			}
		case *ast.ScaleDecl:
			sc, err := ev.evalScaleDecl(decl, scale)
			if err != nil {
				ev.reportEvalError(decl.Span, err)
				continue
			}
			if sym, ok := m.Symbols[decl.Name]; ok {
				ev.global.Bind(sym.ID, Value{Kind: KScale, Scale: *sc})
			}
			scale = sc
		case *ast.ChordDecl:
			intervals, err := ev.evalIntervalList(decl.Intervals, scale)
			if err != nil {
				ev.reportEvalError(decl.Span, err)
				continue
			}
			if sym, ok := m.Symbols[decl.Name]; ok {
				ev.global.Bind(sym.ID, Value{Kind: KChord, Chord: Chord{Name: decl.Name, Intervals: intervals}})
			}
		case *ast.SynthDecl:
			s, err := ev.evalSynthDecl(decl, scale)
			if err != nil {
				ev.reportEvalError(decl.Span, err)
				continue
			}
			if sym, ok := m.Symbols[decl.Name]; ok {
				ev.global.Bind(sym.ID, Value{Kind: KSynth, Synth: s})
			}
		case *ast.ExprItem:
			v, err := ev.evalExpr(decl.Value, ev.global, scale)
			if err != nil {
				ev.reportEvalError(decl.Span, err)
				v = UnitValue()
			}
			last = v
		}
	}
	return last, scale
}

func (ev *evaluator) reportEvalError(span diag.Span, err error) {
	ev.bag.Errorf(diag.KindEvalError, span, "%s", err.Error())
}

func (ev *evaluator) applySet(name string, v Value) {
	switch name {
	case "tempo":
		if v.Kind == KFloat {
			ev.opts.TempoBPM = v.Float
		} else if v.Kind == KInt {
			ev.opts.TempoBPM = float64(v.Int)
		}
	case "key":
		if v.Kind == KPitch {
			ev.opts.KeyMIDI = v.Pitch.MIDI
		} else if v.Kind == KInt {
			ev.opts.KeyMIDI = int(v.Int)
		}
	}
}

func (ev *evaluator) evalScaleDecl(decl *ast.ScaleDecl, scale *Scale) (*Scale, error) {
	intervals, err := ev.evalIntervalList(decl.Intervals, scale)
	if err != nil {
		return nil, err
	}
	return &Scale{Name: decl.Name, Intervals: intervals}, nil
}

func (ev *evaluator) evalIntervalList(exprs []ast.Expr, scale *Scale) ([]musictheory.Interval, error) {
	out := make([]musictheory.Interval, len(exprs))
	for i, e := range exprs {
		v, err := ev.evalExpr(e, ev.global, scale)
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

func (ev *evaluator) evalSynthDecl(decl *ast.SynthDecl, scale *Scale) (*Synth, error) {
	s := &Synth{Name: decl.Name}
	for _, f := range decl.Fields {
		if f.Name == "oscillators" {
			continue // oscillator lists are not evaluated; the field is skipped
		}
		v, err := ev.evalExpr(f.Value, ev.global, scale)
		if err != nil {
			return nil, err
		}
		fv := toFloat(v)
		switch f.Name {
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
	return s, nil
}

func toFloat(v Value) float64 {
	switch v.Kind {
	case KFloat:
		return v.Float
	case KInt:
		return float64(v.Int)
	}
	return 0
}

// lookupPreludeName resolves a SymScale/SymChord/SymSynth reference whose
// module is "" (i.e. it came from resolver.baseScope, not a user decl) to
// its prelude data the first time it is referenced, then caches the Value
// in env exactly like types.inferIdent caches a builtin's Scheme.
func (ev *evaluator) lookupPreludeName(sym *resolver.Symbol) (Value, bool) {
	switch sym.Kind {
	case resolver.SymScale:
		if sc, ok := prelude.Scales[sym.Name]; ok {
			return Value{Kind: KScale, Scale: Scale{Name: sc.Name, Intervals: sc.Intervals}}, true
		}
	case resolver.SymChord:
		if c, ok := prelude.Chords[sym.Name]; ok {
			return Value{Kind: KChord, Chord: Chord{Name: c.Name, Intervals: c.Intervals}}, true
		}
	case resolver.SymSynth:
		if preset, ok := prelude.Synths[sym.Name]; ok {
			return Value{Kind: KSynth, Synth: synthFromPreset(preset)}, true
		}
	}
	return Value{}, false
}

func synthFromPreset(p prelude.SynthPreset) *Synth {
	s := &Synth{
		Name: p.Name,
		Envelope: ADSR{
			AttackS: p.Fields["attack"], DecayS: p.Fields["decay"],
			Sustain: p.Fields["sustain"], ReleaseS: p.Fields["release"],
		},
		DetuneCents: int(p.Fields["detune"]),
		Category:    p.Category,
	}
	if cutoff, ok := p.Fields["cutoff"]; ok {
		s.Filter = &Filter{Kind: "lowpass", CutoffHz: cutoff * 20000, Resonance: p.Fields["resonance"]}
	}
	return s
}
