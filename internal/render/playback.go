package render

import "github.com/relanote-lang/relanote/internal/eval"

// PlaybackData is spec.md §4.8's structural playback-data record: beats as
// floating point, pitch flattened to the nearest semitone with a separate
// cents_offset field carried only when non-zero.
type PlaybackData struct {
	Notes      []PlaybackNote `json:"notes"`
	Tempo      float64        `json:"tempo"`
	TotalBeats float64        `json:"total_beats"`
	TimeSigNum int            `json:"time_signature_num"`
	TimeSigDen int            `json:"time_signature_den"`
}

type PlaybackNote struct {
	Pitch       int           `json:"pitch"`
	CentsOffset int           `json:"cents_offset,omitempty"`
	Start       float64       `json:"start"`
	Duration    float64       `json:"duration"`
	Velocity    int           `json:"velocity"`
	Synth       *PlaybackSynth `json:"synth,omitempty"`
}

type PlaybackSynth struct {
	Name         string              `json:"name"`
	Oscillators  []PlaybackOscillator `json:"oscillators,omitempty"`
	Envelope     PlaybackEnvelope    `json:"envelope"`
	Filter       *PlaybackFilter     `json:"filter,omitempty"`
	DetuneCents  int                 `json:"detune_cents"`
	PitchEnv     *PlaybackPitchEnv   `json:"pitch_envelope,omitempty"`
}

type PlaybackOscillator struct {
	Waveform     string  `json:"waveform"`
	PulseDuty    float64 `json:"pulse_duty,omitempty"`
	Mix          float64 `json:"mix"`
	OctaveOffset int     `json:"octave_offset,omitempty"`
	DetuneCents  int     `json:"detune_cents,omitempty"`
}

type PlaybackEnvelope struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

type PlaybackFilter struct {
	Kind      string  `json:"kind"`
	CutoffHz  float64 `json:"cutoff_hz"`
	Resonance float64 `json:"resonance"`
}

type PlaybackPitchEnv struct {
	StartHz     float64 `json:"start_hz"`
	EndHz       float64 `json:"end_hz"`
	TimeSeconds float64 `json:"time_seconds"`
}

// Playback converts perf into the structural record the host facade's
// playback_data operation (spec.md §6) returns to an embedding host.
func Playback(perf *eval.Performance) PlaybackData {
	if perf == nil {
		return PlaybackData{}
	}
	data := PlaybackData{
		Tempo:      perf.TempoBPM,
		TimeSigNum: perf.TimeSigNum,
		TimeSigDen: perf.TimeSigDen,
	}
	data.TotalBeats, _ = perf.TotalBeats.Float64()
	for _, n := range perf.Notes {
		start, _ := n.StartBeat.Float64()
		dur, _ := n.DurationBeats.Float64()
		note := PlaybackNote{
			Pitch:       n.PitchMIDI,
			CentsOffset: n.PitchCentsOffset,
			Start:       start,
			Duration:    dur,
			Velocity:    n.Velocity,
		}
		if n.Synth != nil {
			note.Synth = playbackSynth(n.Synth)
		}
		data.Notes = append(data.Notes, note)
	}
	return data
}

func playbackSynth(s *eval.Synth) *PlaybackSynth {
	out := &PlaybackSynth{
		Name: s.Name,
		Envelope: PlaybackEnvelope{
			Attack: s.Envelope.AttackS, Decay: s.Envelope.DecayS,
			Sustain: s.Envelope.Sustain, Release: s.Envelope.ReleaseS,
		},
		DetuneCents: s.DetuneCents,
	}
	for _, o := range s.Oscillators {
		out.Oscillators = append(out.Oscillators, PlaybackOscillator{
			Waveform: o.Waveform, PulseDuty: o.PulseDuty, Mix: o.Mix,
			OctaveOffset: o.OctaveOffset, DetuneCents: o.DetuneCents,
		})
	}
	if s.Filter != nil {
		out.Filter = &PlaybackFilter{Kind: s.Filter.Kind, CutoffHz: s.Filter.CutoffHz, Resonance: s.Filter.Resonance}
	}
	if s.PitchEnv != nil {
		out.PitchEnv = &PlaybackPitchEnv{StartHz: s.PitchEnv.StartHz, EndHz: s.PitchEnv.EndHz, TimeSeconds: s.PitchEnv.TimeSeconds}
	}
	return out
}
