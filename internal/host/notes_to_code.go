package host

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relanote-lang/relanote/internal/prelude"
)

// InputNote is one entry of operation `notes_to_code`'s `notes_json`
// argument: the piano-roll's per-note record (spec.md §6), trimmed to the
// fields canonicalization actually needs.
type InputNote struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// NotesToCode turns a piano-roll's flat note list back into relanote
// source, spec.md §6's `notes_to_code` operation and spec.md §9's
// documented open question.
//
// Canonicalization rule chosen here (see DESIGN.md): pitches are expressed
// as scale degrees against the Major scale rooted at keyPitch (defaulting
// to MIDI 60) rather than absolute PitchLit tokens, since relanote's own
// idiom is relative-interval composition, not absolute pitch; notes
// sharing an identical start time are grouped into one chord-literal slot;
// duration is quantized to the nearest multiple of a sixteenth note and
// expressed as a slot weight relative to that grid, which keeps the
// output a single flat block rather than nested tuplets (tuplet inference
// from arbitrary durations is not attempted). A note whose pitch does not
// land exactly on a Major-scale degree from keyPitch falls back to an
// absolute PitchLit so the round trip never silently mistunes a note.
func NotesToCode(notes []InputNote, synthName string, keyPitch int) string {
	if keyPitch == 0 {
		keyPitch = 60
	}
	var b strings.Builder
	fmt.Fprintf(&b, "set key %s\n", pitchLitText(keyPitch))
	if synthName != "" {
		fmt.Fprintf(&b, "synth lead = %s\n", synthName)
	}

	groups := groupByStart(notes)
	slots := make([]string, len(groups))
	const sixteenth = 0.25
	for i, g := range groups {
		weight := int((g.duration / sixteenth) + 0.5)
		if weight < 1 {
			weight = 1
		}
		text := slotPitchText(g.pitches, keyPitch)
		if weight != 1 {
			text += fmt.Sprintf(":%d", weight)
		}
		slots[i] = text
	}

	b.WriteString("| ")
	b.WriteString(strings.Join(slots, " "))
	b.WriteString(" |\n")
	return b.String()
}

type noteGroup struct {
	start    float64
	duration float64
	pitches  []int
}

func groupByStart(notes []InputNote) []noteGroup {
	byStart := map[float64]*noteGroup{}
	var order []float64
	for _, n := range notes {
		g, ok := byStart[n.Start]
		if !ok {
			g = &noteGroup{start: n.Start, duration: n.Duration}
			byStart[n.Start] = g
			order = append(order, n.Start)
		}
		g.pitches = append(g.pitches, n.Pitch)
		if n.Duration > g.duration {
			g.duration = n.Duration
		}
	}
	sort.Float64s(order)
	out := make([]noteGroup, len(order))
	for i, s := range order {
		out[i] = *byStart[s]
	}
	return out
}

func slotPitchText(pitches []int, keyPitch int) string {
	if len(pitches) == 1 {
		return degreeOrPitchText(pitches[0], keyPitch)
	}
	sort.Ints(pitches)
	parts := make([]string, len(pitches))
	for i, p := range pitches {
		parts[i] = degreeOrPitchText(p, keyPitch)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// degreeOrPitchText maps pitch-keyPitch (in cents) onto a Major-scale
// degree when it lands exactly on one, else falls back to an absolute
// PitchLit so no note is ever misrepresented.
func degreeOrPitchText(pitch, keyPitch int) string {
	cents := (pitch - keyPitch) * 100
	octave := 0
	for cents < 0 {
		cents += 1200
		octave--
	}
	for cents >= 1200 {
		cents -= 1200
		octave++
	}
	major := prelude.Scales["Major"]
	for i, iv := range major.Intervals {
		if iv.Cents == cents {
			n := i + 1 + octave*len(major.Intervals)
			return fmt.Sprintf("<%d>", n)
		}
	}
	return pitchLitText(pitch)
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func pitchLitText(midi int) string {
	octave := midi/12 - 1
	name := noteNames[((midi%12)+12)%12]
	return fmt.Sprintf("%s%d", name, octave)
}
