// Package prelude holds the immutable built-in data every relanote
// compilation starts from: scales, chords, synth presets, and the builtin
// function table. It depends only on musictheory, never on eval's Value
// type, so that both the resolver (which needs only names, to seed scope)
// and the evaluator (which needs values) can import it without a cycle.
package prelude

import "github.com/relanote-lang/relanote/internal/musictheory"

// Scale is a named, ordered set of intervals from the root, following the
// shape of the teacher's modulation.Scale but expressed as quality-degree
// Intervals rather than raw MIDI offsets, since relanote scales are spelled
// data, not octave-wrapped pitch-class sets.
type Scale struct {
	Name      string
	Intervals []musictheory.Interval
}

func ivs(texts ...string) []musictheory.Interval {
	out := make([]musictheory.Interval, len(texts))
	for i, t := range texts {
		out[i] = musictheory.MustInterval(t)
	}
	return out
}

// Scales is the builtin scale table, keyed by the identifier every module's
// base scope binds it to when a program does not shadow it.
var Scales = map[string]Scale{
	"Major":            {"Major", ivs("R", "M2", "M3", "P4", "P5", "M6", "M7")},
	"Minor":            {"Minor", ivs("R", "M2", "m3", "P4", "P5", "m6", "m7")},
	"HarmonicMinor":    {"HarmonicMinor", ivs("R", "M2", "m3", "P4", "P5", "m6", "M7")},
	"MelodicMinor":     {"MelodicMinor", ivs("R", "M2", "m3", "P4", "P5", "M6", "M7")},
	"Dorian":           {"Dorian", ivs("R", "M2", "m3", "P4", "P5", "M6", "m7")},
	"Phrygian":         {"Phrygian", ivs("R", "m2", "m3", "P4", "P5", "m6", "m7")},
	"Lydian":           {"Lydian", ivs("R", "M2", "M3", "A4", "P5", "M6", "M7")},
	"Mixolydian":       {"Mixolydian", ivs("R", "M2", "M3", "P4", "P5", "M6", "m7")},
	"Locrian":          {"Locrian", ivs("R", "m2", "m3", "P4", "d5", "m6", "m7")},
	"MajorPentatonic":  {"MajorPentatonic", ivs("R", "M2", "M3", "P5", "M6")},
	"MinorPentatonic":  {"MinorPentatonic", ivs("R", "m3", "P4", "P5", "m7")},
	"Blues":            {"Blues", ivs("R", "m3", "P4", "A4", "P5", "m7")},
	"Chromatic":        {"Chromatic", ivs("R", "m2", "M2", "m3", "M3", "P4", "A4", "P5", "m6", "M6", "m7", "M7")},
	"WholeTone":        {"WholeTone", ivs("R", "M2", "M3", "A4", "A5", "A6")},
	"Diminished":       {"Diminished", ivs("R", "M2", "m3", "P4", "d5", "m6", "M6", "M7")},
	"DiminishedHalf":   {"DiminishedHalf", ivs("R", "m2", "m3", "M3", "A4", "P5", "M6", "m7")},
	"LydianDominant":   {"LydianDominant", ivs("R", "M2", "M3", "A4", "P5", "M6", "m7")},
	"Altered":          {"Altered", ivs("R", "m2", "m3", "M3", "d5", "m6", "m7")},
	"HarmonicMajor":    {"HarmonicMajor", ivs("R", "M2", "M3", "P4", "P5", "m6", "M7")},
	"MessiaenMode1":    {"MessiaenMode1", ivs("R", "M2", "M3", "A4", "A5", "A6")},
	"MessiaenMode2":    {"MessiaenMode2", ivs("R", "m2", "m3", "M3", "A4", "P5", "M6", "m7")},
	"MessiaenMode3":    {"MessiaenMode3", ivs("R", "M2", "m3", "M3", "A4", "P5", "M6", "m7", "M7")},
	"LocrianNatural6":  {"LocrianNatural6", ivs("R", "m2", "m3", "P4", "d5", "M6", "m7")},
	"IonianSharp5":     {"IonianSharp5", ivs("R", "M2", "M3", "P4", "A5", "M6", "M7")},
	"DorianSharp4":     {"DorianSharp4", ivs("R", "M2", "m3", "A4", "P5", "M6", "m7")},
	"PhrygianDominant": {"PhrygianDominant", ivs("R", "m2", "M3", "P4", "P5", "m6", "m7")},
	"LydianSharp2":     {"LydianSharp2", ivs("R", "A2", "M3", "A4", "P5", "M6", "M7")},
	"SuperLocrian":     {"SuperLocrian", ivs("R", "m2", "m3", "M3", "d5", "m6", "m7")},
}

// ScaleNames returns every builtin scale name, used by the resolver to seed
// each module's base lexical scope and by the host facade's completions.
func ScaleNames() []string {
	names := make([]string, 0, len(Scales))
	for name := range Scales {
		names = append(names, name)
	}
	return names
}
