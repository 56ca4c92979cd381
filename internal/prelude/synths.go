package prelude

// SynthPreset is a named default field set for a `synth` value, the data a
// program gets when it writes `synth Lead1` instead of spelling out every
// field itself. Fields mirror the record fields a `synth` decl accepts:
// attack/decay/sustain/release envelope, cutoff/resonance filter, detune,
// volume, pan, and reverb send, all in the evaluator's 0.0-1.0 normalized
// range (except detune, which the evaluator reads as whole cents, and pan,
// -1.0..1.0).
type SynthPreset struct {
	Name   string
	Fields map[string]float64
	// Category is "" for most melodic presets, "chiptune" for the Retro
	// series, or "drums" for a percussion preset. The renderer's channel-9
	// rule (spec.md §4.8) keys off this field, not the preset name;
	// eval.synthFromPreset copies it, while a user-authored `synth` decl
	// has no category field and always gets "".
	Category string
}

type synthCategory struct {
	prefix   string
	count    int
	category string
	base     map[string]float64
	spacing  map[string]float64 // per-index increment, wrapped into 0..1 where applicable
}

func buildSynthCategory(c synthCategory) []SynthPreset {
	out := make([]SynthPreset, 0, c.count)
	for i := 0; i < c.count; i++ {
		fields := make(map[string]float64, len(c.base))
		for k, v := range c.base {
			step := c.spacing[k] * float64(i)
			val := v + step
			switch k {
			case "pan":
				val = wrapRange(val, -1, 1)
			case "detune":
				// unbounded, just accumulate
			default:
				val = clamp01(val)
			}
			fields[k] = val
		}
		out = append(out, SynthPreset{Name: presetName(c.prefix, i+1), Fields: fields, Category: c.category})
	}
	return out
}

func presetName(prefix string, n int) string {
	return prefix + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	pos := len(digits)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		pos--
		digits[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		digits[pos] = '-'
	}
	return string(digits[pos:])
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func wrapRange(v, lo, hi float64) float64 {
	span := hi - lo
	for v > hi {
		v -= span
	}
	for v < lo {
		v += span
	}
	return v
}

// Synths is the builtin synth preset table: ten presets in each of seven
// numbered series plus a ten-voice drum kit, giving every program a usable default voice
// without a `synth` decl of its own.
var Synths = buildAllSynths()

func buildAllSynths() map[string]SynthPreset {
	categories := []synthCategory{
		{
			prefix: "Lead",
			count:  10,
			base:   map[string]float64{"attack": 0.01, "decay": 0.1, "sustain": 0.7, "release": 0.2, "cutoff": 0.8, "resonance": 0.2, "detune": 0, "volume": 0.8, "pan": 0, "reverb": 0.1},
			spacing: map[string]float64{"attack": 0.01, "decay": 0.01, "sustain": -0.02, "release": 0.01, "cutoff": -0.02, "resonance": 0.01, "detune": 0.5, "volume": 0, "pan": 0.15, "reverb": 0.02},
		},
		{
			prefix: "Bass",
			count:  10,
			base:   map[string]float64{"attack": 0.005, "decay": 0.15, "sustain": 0.6, "release": 0.1, "cutoff": 0.4, "resonance": 0.3, "detune": 0, "volume": 0.9, "pan": 0, "reverb": 0.02},
			spacing: map[string]float64{"attack": 0.002, "decay": 0.01, "sustain": 0.02, "release": 0.01, "cutoff": 0.03, "resonance": 0.02, "detune": -0.3, "volume": -0.01, "pan": 0, "reverb": 0.01},
		},
		{
			prefix: "Pad",
			count:  10,
			base:   map[string]float64{"attack": 0.6, "decay": 0.3, "sustain": 0.8, "release": 1.2, "cutoff": 0.5, "resonance": 0.1, "detune": 0, "volume": 0.6, "pan": 0, "reverb": 0.5},
			spacing: map[string]float64{"attack": 0.08, "decay": 0.02, "sustain": -0.01, "release": 0.1, "cutoff": 0.02, "resonance": 0.01, "detune": 1.0, "volume": -0.01, "pan": 0.1, "reverb": 0.03},
		},
		{
			prefix: "Pluck",
			count:  10,
			base:   map[string]float64{"attack": 0.001, "decay": 0.25, "sustain": 0.0, "release": 0.1, "cutoff": 0.7, "resonance": 0.25, "detune": 0, "volume": 0.75, "pan": 0, "reverb": 0.15},
			spacing: map[string]float64{"attack": 0, "decay": 0.02, "sustain": 0, "release": 0.01, "cutoff": -0.03, "resonance": 0.02, "detune": 0.2, "volume": -0.01, "pan": -0.15, "reverb": 0.02},
		},
		{
			prefix: "Keys",
			count:  10,
			base:   map[string]float64{"attack": 0.005, "decay": 0.4, "sustain": 0.5, "release": 0.3, "cutoff": 0.65, "resonance": 0.1, "detune": 0, "volume": 0.7, "pan": 0, "reverb": 0.2},
			spacing: map[string]float64{"attack": 0.001, "decay": 0.02, "sustain": 0.01, "release": 0.02, "cutoff": 0.01, "resonance": 0.005, "detune": 0, "volume": 0, "pan": 0.12, "reverb": 0.02},
		},
		{
			prefix: "Brass",
			count:  10,
			base:   map[string]float64{"attack": 0.08, "decay": 0.1, "sustain": 0.85, "release": 0.15, "cutoff": 0.75, "resonance": 0.15, "detune": 0, "volume": 0.85, "pan": 0, "reverb": 0.12},
			spacing: map[string]float64{"attack": 0.01, "decay": 0.01, "sustain": -0.01, "release": 0.01, "cutoff": -0.01, "resonance": 0.01, "detune": 0.4, "volume": -0.005, "pan": -0.1, "reverb": 0.01},
		},
		{
			prefix:   "Retro",
			count:    10,
			base:     map[string]float64{"attack": 0.0, "decay": 0.05, "sustain": 0.4, "release": 0.03, "cutoff": 0.3, "resonance": 0.6, "detune": 0, "volume": 0.7, "pan": 0, "reverb": 0.0},
			spacing:  map[string]float64{"attack": 0, "decay": 0.005, "sustain": 0.03, "release": 0.005, "cutoff": 0.04, "resonance": -0.02, "detune": 0, "volume": 0, "pan": 0.2, "reverb": 0},
			category: "chiptune",
		},
	}
	out := make(map[string]SynthPreset)
	for _, c := range categories {
		for _, p := range buildSynthCategory(c) {
			out[p.Name] = p
		}
	}
	for _, p := range buildDrumKit() {
		out[p.Name] = p
	}
	return out
}

// buildDrumKit gives each standard percussion voice its own named preset
// (spec.md §4.5's "kick/snare/hi-hat/tom/cymbal" set) rather than a numbered
// series, since drum voices aren't points along one continuous spectrum the
// way Lead1..Lead10 are. Every preset carries Category "drums", which is
// the renderer's signal to route the voice to MIDI channel 9 (percussion)
// instead of assigning it a melodic channel.
func buildDrumKit() []SynthPreset {
	drums := []struct {
		name   string
		fields map[string]float64
	}{
		{"Kick", map[string]float64{"attack": 0.0, "decay": 0.2, "sustain": 0.0, "release": 0.05, "cutoff": 0.2, "resonance": 0.1, "detune": 0, "volume": 0.95, "pan": 0, "reverb": 0.05}},
		{"Snare", map[string]float64{"attack": 0.0, "decay": 0.12, "sustain": 0.0, "release": 0.05, "cutoff": 0.6, "resonance": 0.3, "detune": 0, "volume": 0.85, "pan": 0, "reverb": 0.1}},
		{"HiHatClosed", map[string]float64{"attack": 0.0, "decay": 0.03, "sustain": 0.0, "release": 0.02, "cutoff": 0.9, "resonance": 0.1, "detune": 0, "volume": 0.6, "pan": 0.1, "reverb": 0.02}},
		{"HiHatOpen", map[string]float64{"attack": 0.0, "decay": 0.25, "sustain": 0.0, "release": 0.1, "cutoff": 0.92, "resonance": 0.1, "detune": 0, "volume": 0.55, "pan": 0.1, "reverb": 0.08}},
		{"TomLow", map[string]float64{"attack": 0.0, "decay": 0.22, "sustain": 0.0, "release": 0.08, "cutoff": 0.35, "resonance": 0.2, "detune": -5, "volume": 0.8, "pan": -0.15, "reverb": 0.08}},
		{"TomMid", map[string]float64{"attack": 0.0, "decay": 0.2, "sustain": 0.0, "release": 0.07, "cutoff": 0.45, "resonance": 0.2, "detune": 0, "volume": 0.8, "pan": 0, "reverb": 0.08}},
		{"TomHigh", map[string]float64{"attack": 0.0, "decay": 0.18, "sustain": 0.0, "release": 0.06, "cutoff": 0.55, "resonance": 0.2, "detune": 5, "volume": 0.8, "pan": 0.15, "reverb": 0.08}},
		{"Cymbal", map[string]float64{"attack": 0.0, "decay": 0.8, "sustain": 0.0, "release": 0.5, "cutoff": 0.95, "resonance": 0.15, "detune": 0, "volume": 0.65, "pan": 0, "reverb": 0.25}},
		{"Clap", map[string]float64{"attack": 0.0, "decay": 0.1, "sustain": 0.0, "release": 0.06, "cutoff": 0.7, "resonance": 0.25, "detune": 0, "volume": 0.75, "pan": 0, "reverb": 0.15}},
		{"Rim", map[string]float64{"attack": 0.0, "decay": 0.04, "sustain": 0.0, "release": 0.02, "cutoff": 0.8, "resonance": 0.15, "detune": 0, "volume": 0.7, "pan": 0, "reverb": 0.03}},
	}
	out := make([]SynthPreset, 0, len(drums))
	for _, d := range drums {
		out = append(out, SynthPreset{Name: d.name, Fields: d.fields, Category: "drums"})
	}
	return out
}

// SynthNames returns every builtin synth preset name.
func SynthNames() []string {
	names := make([]string, 0, len(Synths))
	for name := range Synths {
		names = append(names, name)
	}
	return names
}
