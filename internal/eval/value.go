// Package eval walks a resolved, typed relanote tree and produces a Value,
// the evaluator's sole runtime representation (spec.md §3). It depends on
// prelude for builtin data and musictheory for interval/pitch arithmetic,
// but never on the types package: by the time eval runs, inference has
// already rejected anything it cannot safely execute.
package eval

import (
	"fmt"
	"math/big"

	"github.com/relanote-lang/relanote/internal/musictheory"
)

// Kind tags which field of a Value is live, the same closed-sum-type
// convention internal/types.Type uses for Con/Kind.
type Kind int

const (
	KUnit Kind = iota
	KBool
	KInt
	KFloat
	KString
	KInterval
	KPitch
	KScale
	KChord
	KBlock
	KPart
	KSection
	KPerformance
	KSynth
	KArray
	KTuple
	KFunction
)

func (k Kind) String() string {
	switch k {
	case KUnit:
		return "Unit"
	case KBool:
		return "Bool"
	case KInt:
		return "Int"
	case KFloat:
		return "Float"
	case KString:
		return "String"
	case KInterval:
		return "Interval"
	case KPitch:
		return "Pitch"
	case KScale:
		return "Scale"
	case KChord:
		return "Chord"
	case KBlock:
		return "Block"
	case KPart:
		return "Part"
	case KSection:
		return "Section"
	case KPerformance:
		return "Performance"
	case KSynth:
		return "Synth"
	case KArray:
		return "Array"
	case KTuple:
		return "Tuple"
	case KFunction:
		return "Function"
	}
	return "?"
}

// Value is the tagged union every expression evaluates to. Only the field
// matching Kind is meaningful; the rest are zero. A single struct (rather
// than an interface per variant) keeps Array/Tuple element slices, pattern
// matching in transforms.go, and equality checks straightforward, mirroring
// how the teacher's PhraseColumn/ChordType enums favor one flat type over a
// family of interfaces for closed, small sum types.
type Value struct {
	Kind Kind

	Bool     bool
	Int      int64
	Float    float64
	Str      string
	Interval musictheory.Interval
	Pitch    Pitch
	Scale    Scale
	Chord    Chord
	Block    *Block
	Part     *Part
	Section  *Section
	Perf     *Performance
	Synth    *Synth
	Elems    []Value // Array or Tuple
	Fn       *Function
}

// Pitch is an absolute pitch: a MIDI note plus a microtonal offset in cents
// (spec.md §3's "MIDI note number plus optional cents offset").
type Pitch struct {
	MIDI  int
	Cents int
}

// Scale is an ordered interval set bound to a name, the runtime counterpart
// of prelude.Scale / ast.ScaleDecl.
type Scale struct {
	Name      string
	Intervals []musictheory.Interval
}

// Chord is an ordered simultaneous interval set.
type Chord struct {
	Name      string
	Intervals []musictheory.Interval
}

// Oscillator, ADSR, and Filter mirror spec.md §3's Synth definition fields.
type Oscillator struct {
	Waveform     string
	PulseDuty    float64
	Mix          float64
	OctaveOffset int
	DetuneCents  int
}

type ADSR struct {
	AttackS  float64
	DecayS   float64
	Sustain  float64
	ReleaseS float64
}

type Filter struct {
	Kind      string
	CutoffHz  float64
	Resonance float64
}

type PitchEnvelope struct {
	StartHz     float64
	EndHz       float64
	TimeSeconds float64
}

// Synth is a complete synth definition, either from a `synth` declaration,
// a prelude preset, or an effect chain's accumulated defaults.
type Synth struct {
	Name         string
	Oscillators  []Oscillator
	Envelope     ADSR
	Filter       *Filter
	DetuneCents  int
	PitchEnv     *PitchEnvelope
	Category     string // prelude preset category ("drums", "chiptune", or ""); "" for a `synth` decl; the renderer's channel-10 rule checks for "drums"
}

// UnitValue, BoolValue, ... are small constructors used throughout eval to
// avoid repeating `Value{Kind: K..., Field: x}` at every call site.
func UnitValue() Value                { return Value{Kind: KUnit} }
func BoolValue(b bool) Value          { return Value{Kind: KBool, Bool: b} }
func IntValue(n int64) Value          { return Value{Kind: KInt, Int: n} }
func FloatValue(f float64) Value      { return Value{Kind: KFloat, Float: f} }
func StringValue(s string) Value      { return Value{Kind: KString, Str: s} }
func IntervalValue(i musictheory.Interval) Value {
	return Value{Kind: KInterval, Interval: i}
}
func PitchValue(midi, cents int) Value {
	return Value{Kind: KPitch, Pitch: Pitch{MIDI: midi, Cents: cents}}
}
func ArrayValue(elems []Value) Value { return Value{Kind: KArray, Elems: elems} }
func TupleValue(elems []Value) Value { return Value{Kind: KTuple, Elems: elems} }
func BlockValue(b *Block) Value      { return Value{Kind: KBlock, Block: b} }
func PartValue(p *Part) Value        { return Value{Kind: KPart, Part: p} }
func FunctionValue(fn *Function) Value { return Value{Kind: KFunction, Fn: fn} }

// Function is a curried callable: either a user closure over a lambda body
// or a builtin. Partial application produces a new Function with Applied
// extended, the same "wrap remaining arity in a new closure" design
// spec.md §9 calls out explicitly.
type Function struct {
	Arity   int
	Applied []Value
	Name    string // builtin name, or "" for a user lambda
	Call    func(args []Value) (Value, error)
}

// Apply supplies one more argument, either invoking Call once Arity
// arguments have accumulated or returning a new partially-applied Function.
func (fn *Function) Apply(arg Value) (Value, error) {
	args := make([]Value, len(fn.Applied)+1)
	copy(args, fn.Applied)
	args[len(fn.Applied)] = arg
	if len(args) >= fn.Arity {
		return fn.Call(args)
	}
	return FunctionValue(&Function{
		Arity: fn.Arity, Applied: args, Name: fn.Name, Call: fn.Call,
	}), nil
}

// Rat is the exact-rational beat arithmetic spec.md §8 invariant 5 requires
// ("Σ slot_duration ≡ T exact rational equality"); every Block/Part
// duration and NoteEvent start/length is computed in Rat and only converted
// to float64 at the render/host JSON boundary (render/midi.go, host/host.go).
type Rat = big.Rat

func ratInt(n int64) *Rat        { return big.NewRat(n, 1) }
func newRat(num, den int64) *Rat { return big.NewRat(num, den) }

func ratString(r *Rat) string {
	f, _ := r.Float64()
	return fmt.Sprintf("%v", f)
}
