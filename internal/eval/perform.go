package eval

import "github.com/relanote-lang/relanote/internal/ast"

// DefaultVelocity is spec.md §8 scenario S1's documented default note
// velocity for a Part with no `volume` effect applied.
const DefaultVelocity = 96

// flattener walks a Value tree (Block/Part/Layer/Sequence) and appends the
// absolute NoteEvents it denotes, threading the key (root MIDI pitch). This
// is spec.md §4.6's "Final performance assembly" step, kept in the eval
// package because Performance/NoteEvent are defined here and the renderer
// has no reason to know about Parts, Blocks, or scale degrees at all — it
// only ever sees a flat NoteEvent list.
type flattener struct {
	keyMIDI int
	notes   []NoteEvent
}

// BuildPerformance flattens v (spec.md §4.6's "If it is a Block, Part,
// Section, Layer, or concatenation thereof") into a Performance using the
// process Options left in effect (tempo/key/time signature). Any other
// value kind yields an empty performance; the caller (the host facade) is
// responsible for the accompanying informational diagnostic spec.md §4.6
// requires.
func BuildPerformance(v Value, opts Options) *Performance {
	perf := &Performance{
		TempoBPM:   opts.TempoBPM,
		TimeSigNum: opts.TimeSigNum,
		TimeSigDen: opts.TimeSigDen,
		TotalBeats: new(Rat),
	}
	p, ok := asPart(v)
	if !ok {
		return perf
	}
	fl := &flattener{keyMIDI: opts.KeyMIDI}
	fl.emitPart(p, new(Rat))
	perf.Notes = fl.notes
	perf.TotalBeats = p.duration()
	return perf
}

func (fl *flattener) emitPart(p *Part, start *Rat) {
	switch {
	case p.Block != nil:
		fl.emitBlock(p, p.Block, start)
	case p.Layered != nil:
		for _, sub := range p.Layered {
			fl.emitPart(sub, new(Rat).Set(start))
		}
	case p.Sequence != nil:
		cursor := new(Rat).Set(start)
		for _, sub := range p.Sequence {
			fl.emitPart(sub, new(Rat).Set(cursor))
			cursor.Add(cursor, sub.duration())
		}
	}
}

func (fl *flattener) emitBlock(p *Part, b *Block, start *Rat) {
	cursor := new(Rat).Set(start)
	for _, slot := range b.Slots {
		dur := slot.Duration
		switch slot.Kind {
		case SlotRest:
			// silence: no NoteEvent, duration still consumes time.
		case SlotNote:
			fl.emitNote(p, slot.Interval.Cents, cursor, dur, slot.Articulation)
		case SlotChord:
			for _, iv := range slot.ChordNotes {
				fl.emitNote(p, iv.Cents, cursor, dur, slot.Articulation)
			}
		case SlotNested:
			// The nested tuplet's own `:n` sets its children's internal
			// budget, but its span within this container is the weight-
			// derived `dur` the container just computed (block.go's
			// newWeightedBlock doc comment). Rescale the nested slots'
			// internal durations onto that allotted span before recursing.
			nested := slot.Nested
			if nested.TotalBeats.Sign() != 0 {
				factor := new(Rat).Quo(dur, nested.TotalBeats)
				nested = scaleTime(factor, nested)
			}
			fl.emitBlock(p, nested, cursor)
		}
		cursor = new(Rat).Add(cursor, dur)
	}
}

// emitNote resolves one sounding pitch (interval cents relative to the
// part's key) into a NoteEvent. Accent/staccato/legato are simplified:
// accent raises velocity by 20, staccato halves the sounding duration,
// legato leaves both as-is (overlap/tie
// semantics are a rendering concern outside spec.md's explicit contracts).
func (fl *flattener) emitNote(p *Part, cents int, start, dur *Rat, artic ast.Articulation) {
	semis := cents / 100
	residual := cents - semis*100
	midi := fl.keyMIDI + semis
	if midi < 0 {
		midi = 0
	}
	if midi > 127 {
		midi = 127
	}

	velocity := DefaultVelocity
	if p.Velocity != nil {
		velocity = *p.Velocity
	}
	noteDur := dur
	switch artic {
	case ast.ArticAccent:
		velocity += 20
	case ast.ArticStaccato:
		noteDur = new(Rat).Mul(dur, newRat(1, 2))
	}
	if velocity > 127 {
		velocity = 127
	}
	if velocity < 0 {
		velocity = 0
	}

	fl.notes = append(fl.notes, NoteEvent{
		PitchMIDI:        midi,
		PitchCentsOffset: residual,
		StartBeat:        new(Rat).Set(start),
		DurationBeats:    noteDur,
		Velocity:         velocity,
		Synth:            p.Synth,
	})
}
