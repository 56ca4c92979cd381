package eval

// Part is a Block annotated with performance metadata (spec.md §3): an
// optional instrument label, the synth it sounds through, and the effect
// fields the `voice`/`volume`/`pan`/`reverb`/`cutoff`/`resonance`/`detune`/
// `adsr` builtins set. Every field beyond Block is a pointer so "not yet
// set by any effect" is distinguishable from "explicitly set to zero",
// matching spec.md §4.6's "defaulted fields" language for promotion.
type Part struct {
	Label     string
	Block     *Block // leaf case: a concrete, playable rhythm
	Synth     *Synth
	Velocity  *int     // 0-127; nil means the spec.md §8 S1 default of 96
	Pan       *float64 // -1.0..1.0
	Reverb    *float64 // 0.0..1.0
	Cutoff    *float64 // Hz
	Resonance *float64 // 0.0..1.0
	Detune    *int     // cents
	Envelope  *ADSR    // set by the `adsr` effect, overriding Synth's own envelope at render time

	// Layered and Sequence are the two composite cases a Part can also be:
	// `layer [...]` produces Layered (every sub-part starts at the same
	// offset); `++` between two non-Block Parts produces Sequence (each
	// sub-part starts where the previous one ends). At most one of
	// Block/Layered/Sequence is non-nil for any given Part. This is how a
	// single Part type covers spec.md §3's Value sum type, which has no
	// separate Layer variant.
	Layered  []*Part
	Sequence []*Part
}

// clone returns a shallow copy of p with its own pointer fields, so an
// effect builtin can set one field without mutating a value another
// closure still references (Values are meant to behave as immutable data,
// per spec.md §9's "value, not reference ownership").
func (p *Part) clone() *Part {
	cp := *p
	return &cp
}

// promoteBlock wraps a bare Block into a Part with no effects set yet, the
// "applying to a Block promotes it to a Part with defaulted fields" step
// every effect builtin performs before setting its own field.
func promoteBlock(b *Block) *Part {
	return &Part{Block: b}
}

// asPart accepts either a Block or a Part value and returns a Part,
// promoting a bare Block the way spec.md §4.6 describes every effect
// builtin doing implicitly.
func asPart(v Value) (*Part, bool) {
	switch v.Kind {
	case KPart:
		return v.Part, true
	case KBlock:
		return promoteBlock(v.Block), true
	}
	return nil, false
}

// concatParts implements `++` for two Part values: sequential playback.
// Nested Sequences are flattened into one list so repeated `++` stays a
// flat chain instead of growing a deep tree, keeping associativity
// (spec.md §8 invariant 8) a matter of slice-append associativity.
func concatParts(a, b *Part) *Part {
	var seq []*Part
	if a.Sequence != nil {
		seq = append(seq, a.Sequence...)
	} else {
		seq = append(seq, a)
	}
	if b.Sequence != nil {
		seq = append(seq, b.Sequence...)
	} else {
		seq = append(seq, b)
	}
	return &Part{Sequence: seq}
}

// duration reports the exact beat span a Part occupies: a leaf's own
// block total, the longest Layered sub-part, or the sum of a Sequence.
func (p *Part) duration() *Rat {
	switch {
	case p.Block != nil:
		return p.Block.TotalBeats
	case p.Layered != nil:
		max := new(Rat)
		for _, sub := range p.Layered {
			if d := sub.duration(); d.Cmp(max) > 0 {
				max = d
			}
		}
		return max
	case p.Sequence != nil:
		total := new(Rat)
		for _, sub := range p.Sequence {
			total.Add(total, sub.duration())
		}
		return total
	}
	return new(Rat)
}

// Section is a named group of parts sharing context (spec.md §3); relanote
// has no dedicated section-construction syntax in this revision (no
// grammar production binds the `section` keyword), and no code path
// constructs a Section value; the type is inert plumbing kept for parity
// with the data model.
type Section struct {
	Name  string
	Parts []*Part
}

// NoteEvent is one sounding event in a Performance. StartBeat and
// DurationBeats are exact rationals (see value.go's Rat doc comment);
// Velocity and the MIDI fields are already resolved to their final values.
type NoteEvent struct {
	PitchMIDI        int
	PitchCentsOffset int
	StartBeat        *Rat
	DurationBeats    *Rat
	Velocity         int
	Synth            *Synth
}

// Performance is the evaluator's terminal value (spec.md §3): a flattened,
// time-ordered list of NoteEvents plus process-wide tempo/meter context.
type Performance struct {
	Notes         []NoteEvent
	TempoBPM      float64
	TimeSigNum    int
	TimeSigDen    int
	TotalBeats    *Rat
}
