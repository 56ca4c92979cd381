package host

import (
	"github.com/relanote-lang/relanote/internal/eval"
	"github.com/relanote-lang/relanote/internal/musictheory"
)

// valueToJSON converts an eval.Value into a plain any tree jsoniter can
// marshal directly, the same flattening PlaybackData performs on
// Performance/Synth but generalised over every eval.Kind the `evaluate`
// operation might return (spec.md §3's closed value set).
func valueToJSON(v eval.Value) any {
	switch v.Kind {
	case eval.KUnit:
		return nil
	case eval.KBool:
		return v.Bool
	case eval.KInt:
		return v.Int
	case eval.KFloat:
		return v.Float
	case eval.KString:
		return v.Str
	case eval.KInterval:
		return map[string]any{"kind": "interval", "cents": v.Interval.Cents}
	case eval.KPitch:
		return map[string]any{"kind": "pitch", "midi": v.Pitch.MIDI, "cents": v.Pitch.Cents}
	case eval.KScale:
		return map[string]any{"kind": "scale", "name": v.Scale.Name, "intervals": intervalCents(v.Scale.Intervals)}
	case eval.KChord:
		return map[string]any{"kind": "chord", "name": v.Chord.Name, "intervals": intervalCents(v.Chord.Intervals)}
	case eval.KSynth:
		if v.Synth == nil {
			return nil
		}
		return map[string]any{"kind": "synth", "name": v.Synth.Name, "category": v.Synth.Category}
	case eval.KArray, eval.KTuple:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = valueToJSON(e)
		}
		return out
	case eval.KFunction:
		return map[string]any{"kind": "function"}
	case eval.KBlock, eval.KPart, eval.KSection, eval.KPerformance:
		// Performances are returned through render.Playback, not evaluate;
		// a bare Block/Part/Section reaching here is surfaced as its kind
		// name only, since it has no flat JSON shape of its own.
		return map[string]any{"kind": v.Kind.String()}
	}
	return nil
}

func intervalCents(ivs []musictheory.Interval) []int {
	out := make([]int, len(ivs))
	for i, iv := range ivs {
		out[i] = iv.Cents
	}
	return out
}
