// Package render turns a flattened eval.Performance into the two outputs
// spec.md §4.8 names: a Standard MIDI File byte stream and a structural
// playback-data record for an external audio host, plus the OSCBroadcaster
// domain-stack addition (SPEC_FULL.md §3) that streams the latter live.
package render

import (
	"bytes"
	"math"
	"math/big"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/relanote-lang/relanote/internal/eval"
)

// TicksPerQuarter is spec.md §4.8's fixed SMF division: 480 ticks per
// quarter note, with one beat of a Performance equal to one quarter note.
const TicksPerQuarter = 480

// drumChannel and meta CC numbers mirror spec.md §4.8's wire format exactly.
const (
	melodicChannel = 0
	drumChannel    = 9

	ccCutoff    = 74
	ccResonance = 71
	ccAttack    = 73
	ccDecay     = 75
	ccRelease   = 72
	ccDetune    = 1
)

type timedEvent struct {
	tick uint32
	msg  smf.Message
}

// MIDI renders perf to SMF-1 bytes. Notes are grouped into one track per
// unique *eval.Synth identity (nil included, for notes with no synth
// attached) plus a leading tempo/meta track, matching spec.md §4.8's "one
// track per unique part identity plus a tempo/meta track". An empty
// Performance still yields a well-formed file containing only the tempo
// track, per the RenderError policy in spec.md §7.
func MIDI(perf *eval.Performance, bag *diag.Bag) []byte {
	if perf == nil || len(perf.Notes) == 0 {
		bag.Infof(diag.KindRenderError, diag.Span{}, "empty performance: rendering tempo-only MIDI")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var metaTrack smf.Track
	metaTrack.Add(0, smf.MetaTempo(tempoOrDefault(perf)))
	num, den := timeSigOrDefault(perf)
	metaTrack.Add(0, smf.MetaMeter(num, den))
	metaTrack.Close(0)
	_ = s.Add(metaTrack)

	for _, group := range groupBySynth(perf) {
		track := buildTrack(group)
		_ = s.Add(track)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		bag.Errorf(diag.KindRenderError, diag.Span{}, "writing SMF bytes: %v", err)
		return nil
	}
	return buf.Bytes()
}

type synthGroup struct {
	synth   *eval.Synth
	channel uint8
	notes   []eval.NoteEvent
}

// groupBySynth partitions perf's flat NoteEvent list by Synth identity,
// preserving first-seen order so track order is deterministic across runs
// of the same source.
func groupBySynth(perf *eval.Performance) []*synthGroup {
	if perf == nil {
		return nil
	}
	index := map[*eval.Synth]*synthGroup{}
	var order []*synthGroup
	for _, n := range perf.Notes {
		g, ok := index[n.Synth]
		if !ok {
			ch := uint8(melodicChannel)
			if n.Synth != nil && n.Synth.Category == "drums" {
				ch = drumChannel
			}
			g = &synthGroup{synth: n.Synth, channel: ch}
			index[n.Synth] = g
			order = append(order, g)
		}
		g.notes = append(g.notes, n)
	}
	return order
}

func buildTrack(g *synthGroup) smf.Track {
	events := make([]timedEvent, 0, len(g.notes)*2+4)

	events = append(events, synthCCEvents(g.synth, g.channel, 0)...)

	for _, n := range g.notes {
		startTick := beatsToTicks(n.StartBeat)
		endTick := beatsToTicks(addRat(n.StartBeat, n.DurationBeats))
		velocity := clampByte(n.Velocity)
		pitch := clampByte(n.PitchMIDI)

		if n.PitchCentsOffset != 0 {
			events = append(events, timedEvent{startTick, smf.Message(pitchBendBytes(g.channel, n.PitchCentsOffset))})
		}
		events = append(events, timedEvent{startTick, midi.NoteOn(g.channel, pitch, velocity)})
		events = append(events, timedEvent{endTick, midi.NoteOff(g.channel, pitch)})
		if n.PitchCentsOffset != 0 {
			events = append(events, timedEvent{endTick, smf.Message(pitchBendBytes(g.channel, 0))})
		}
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].tick < events[j].tick })

	var track smf.Track
	var prev uint32
	for _, ev := range events {
		delta := ev.tick - prev
		track.Add(delta, ev.msg)
		prev = ev.tick
	}
	track.Close(0)
	return track
}

// synthCCEvents emits the optional "synth CC mapping" spec.md §4.8 names:
// cutoff and resonance CCs only when the Synth has a Filter, and attack,
// decay, release and detune CCs always, zero-valued fields included.
func synthCCEvents(s *eval.Synth, ch uint8, tick uint32) []timedEvent {
	if s == nil {
		return nil
	}
	var out []timedEvent
	if s.Filter != nil {
		out = append(out, timedEvent{tick, midi.ControlChange(ch, ccCutoff, unitToCC(s.Filter.CutoffHz/20000))})
		out = append(out, timedEvent{tick, midi.ControlChange(ch, ccResonance, unitToCC(s.Filter.Resonance))})
	}
	out = append(out, timedEvent{tick, midi.ControlChange(ch, ccAttack, unitToCC(s.Envelope.AttackS))})
	out = append(out, timedEvent{tick, midi.ControlChange(ch, ccDecay, unitToCC(s.Envelope.DecayS))})
	out = append(out, timedEvent{tick, midi.ControlChange(ch, ccRelease, unitToCC(s.Envelope.ReleaseS))})
	out = append(out, timedEvent{tick, midi.ControlChange(ch, ccDetune, detuneToCC(s.DetuneCents))})
	return out
}

func unitToCC(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(math.Round(v * 127))
}

func detuneToCC(cents int) uint8 {
	// Detune is unbounded in principle; fold ±50 cents onto the 0-127 CC
	// range, clamping beyond that the way unitToCC clamps a 0..1 field.
	v := float64(cents)/100.0 + 0.5
	return unitToCC(v)
}

// pitchBendBytes implements spec.md §4.8's "0x2000 + round(cents/200 ×
// 0x2000)" pitch-bend formula as a raw 3-byte channel message, following
// the corpus's own preference for hand-built meta/CC byte sequences
// (e.g. synthtribe2midi's tempo/time-signature smf.Message literals) over a
// library helper whose exact signature isn't present anywhere in the pack.
func pitchBendBytes(ch uint8, cents int) []byte {
	value := 0x2000 + int(math.Round(float64(cents)/200.0*0x2000))
	if value < 0 {
		value = 0
	}
	if value > 0x3FFF {
		value = 0x3FFF
	}
	lsb := byte(value & 0x7F)
	msb := byte((value >> 7) & 0x7F)
	return []byte{0xE0 | ch, lsb, msb}
}

func beatsToTicks(beats *eval.Rat) uint32 {
	f, _ := new(eval.Rat).Mul(beats, big.NewRat(TicksPerQuarter, 1)).Float64()
	t := math.Round(f)
	if t < 0 {
		t = 0
	}
	return uint32(t)
}

func addRat(a, b *eval.Rat) *eval.Rat {
	return new(eval.Rat).Add(a, b)
}

func clampByte(n int) uint8 {
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}

func tempoOrDefault(perf *eval.Performance) float64 {
	if perf != nil && perf.TempoBPM > 0 {
		return perf.TempoBPM
	}
	return 120
}

func timeSigOrDefault(perf *eval.Performance) (num, den uint8) {
	if perf != nil && perf.TimeSigNum > 0 && perf.TimeSigDen > 0 {
		return uint8(perf.TimeSigNum), uint8(perf.TimeSigDen)
	}
	return 4, 4
}
