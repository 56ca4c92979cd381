package eval

import (
	"fmt"
	"math"
)

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// effectVoice implements `voice synth block` (spec.md §4.6): attaches a
// Synth to a Part, promoting a bare Block first.
func effectVoice(args []Value) (Value, error) {
	if args[0].Kind != KSynth {
		return Value{}, fmt.Errorf("voice: expected a Synth as the first argument")
	}
	p, ok := asPart(args[1])
	if !ok {
		return Value{}, fmt.Errorf("voice: expected a Block or Part")
	}
	np := p.clone()
	np.Synth = args[0].Synth
	return PartValue(np), nil
}

// effectFloatField implements the single-float effects (volume, pan,
// reverb, cutoff, resonance, detune), each of which sets exactly one Part
// field and otherwise passes the Part through unchanged.
func effectFloatField(name string, args []Value) (Value, error) {
	f := args[0].Float
	p, ok := asPart(args[1])
	if !ok {
		return Value{}, fmt.Errorf("%s: expected a Block or Part", name)
	}
	np := p.clone()
	switch name {
	case "volume":
		v := int(math.Round(clampF(f, 0, 1) * 127))
		np.Velocity = &v
	case "pan":
		v := clampF(f, -1, 1)
		np.Pan = &v
	case "reverb":
		v := clampF(f, 0, 1)
		np.Reverb = &v
	case "cutoff":
		v := f
		np.Cutoff = &v
	case "resonance":
		v := clampF(f, 0, 1)
		np.Resonance = &v
	case "detune":
		v := int(math.Round(f))
		np.Detune = &v
	}
	return PartValue(np), nil
}

// effectADSR implements `adsr a d s r block`, overriding whatever envelope
// the Part's Synth (if any) would otherwise contribute at render time.
func effectADSR(args []Value) (Value, error) {
	p, ok := asPart(args[4])
	if !ok {
		return Value{}, fmt.Errorf("adsr: expected a Block or Part")
	}
	np := p.clone()
	np.Envelope = &ADSR{
		AttackS: args[0].Float, DecayS: args[1].Float,
		Sustain: clampF(args[2].Float, 0, 1), ReleaseS: args[3].Float,
	}
	return PartValue(np), nil
}

// effectLayer implements `layer [part1, ..., partn]`, a parallel
// composition starting every sub-part at the same offset (spec.md §4.6).
func effectLayer(args []Value) (Value, error) {
	if args[0].Kind != KArray {
		return Value{}, fmt.Errorf("layer: expected an Array<Part>")
	}
	parts := make([]*Part, len(args[0].Elems))
	for i, el := range args[0].Elems {
		p, ok := asPart(el)
		if !ok {
			return Value{}, fmt.Errorf("layer: element %d is not a Block or Part", i)
		}
		parts[i] = p
	}
	return PartValue(&Part{Layered: parts}), nil
}
