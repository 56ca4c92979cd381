package prelude

import "github.com/relanote-lang/relanote/internal/musictheory"

// Chord is a named, ordered set of intervals stacked from the root, the
// chord-decl analogue of Scale.
type Chord struct {
	Name      string
	Intervals []musictheory.Interval
}

// Chords is the builtin chord-quality table, covering the triads, sevenths,
// extensions, and altered/suspended qualities spec.md's chord-decl grammar
// expects every program to have available without an explicit `chord` decl.
var Chords = map[string]Chord{
	"Maj":      {"Maj", ivs("R", "M3", "P5")},
	"Min":      {"Min", ivs("R", "m3", "P5")},
	"Dim":      {"Dim", ivs("R", "m3", "d5")},
	"Aug":      {"Aug", ivs("R", "M3", "A5")},
	"Sus2":     {"Sus2", ivs("R", "M2", "P5")},
	"Sus4":     {"Sus4", ivs("R", "P4", "P5")},
	"Maj7":     {"Maj7", ivs("R", "M3", "P5", "M7")},
	"Min7":     {"Min7", ivs("R", "m3", "P5", "m7")},
	"Dom7":     {"Dom7", ivs("R", "M3", "P5", "m7")},
	"Dim7":     {"Dim7", ivs("R", "m3", "d5", "M6")},
	"HalfDim7": {"HalfDim7", ivs("R", "m3", "d5", "m7")},
	"MinMaj7":  {"MinMaj7", ivs("R", "m3", "P5", "M7")},
	"AugMaj7":  {"AugMaj7", ivs("R", "M3", "A5", "M7")},
	"Aug7":     {"Aug7", ivs("R", "M3", "A5", "m7")},
	"Maj6":     {"Maj6", ivs("R", "M3", "P5", "M6")},
	"Min6":     {"Min6", ivs("R", "m3", "P5", "M6")},
	"Maj9":     {"Maj9", ivs("R", "M3", "P5", "M7", "M9")},
	"Min9":     {"Min9", ivs("R", "m3", "P5", "m7", "M9")},
	"Dom9":     {"Dom9", ivs("R", "M3", "P5", "m7", "M9")},
	"Dom7b9":   {"Dom7b9", ivs("R", "M3", "P5", "m7", "m9")},
	"Dom7s9":   {"Dom7s9", ivs("R", "M3", "P5", "m7", "A9")},
	"Maj11":    {"Maj11", ivs("R", "M3", "P5", "M7", "M9", "P11")},
	"Min11":    {"Min11", ivs("R", "m3", "P5", "m7", "M9", "P11")},
	"Dom11":    {"Dom11", ivs("R", "M3", "P5", "m7", "M9", "P11")},
	"Dom13":    {"Dom13", ivs("R", "M3", "P5", "m7", "M9", "P11", "M13")},
	"Maj13":    {"Maj13", ivs("R", "M3", "P5", "M7", "M9", "P11", "M13")},
	"Min13":    {"Min13", ivs("R", "m3", "P5", "m7", "M9", "P11", "M13")},
	"Dom7s5":   {"Dom7s5", ivs("R", "M3", "A5", "m7")},
	"Dom7b5":   {"Dom7b5", ivs("R", "M3", "d5", "m7")},
	"Add9":     {"Add9", ivs("R", "M3", "P5", "M9")},
	"MinAdd9":  {"MinAdd9", ivs("R", "m3", "P5", "M9")},
	"Power":    {"Power", ivs("R", "P5")},
}

// ChordNames returns every builtin chord name, used by the resolver to seed
// each module's base lexical scope and by the host facade's completions.
func ChordNames() []string {
	names := make([]string, 0, len(Chords))
	for name := range Chords {
		names = append(names, name)
	}
	return names
}
