package musictheory

import (
	"fmt"
	"strconv"
)

var letterSemitone = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

var semitoneLetter = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// ParsePitch converts a surface absolute-pitch literal such as "C4", "F#5",
// or "Bb3" into a MIDI note number. Octave numbering follows scientific
// pitch notation with middle C (MIDI 60) as C4, matching the convention
// gitlab.com/gomidi/midi/v2 callers expect.
func ParsePitch(text string) (int, error) {
	if len(text) < 2 {
		return 0, fmt.Errorf("musictheory: malformed pitch %q", text)
	}
	letter := text[0]
	base, ok := letterSemitone[letter]
	if !ok {
		return 0, fmt.Errorf("musictheory: unknown pitch letter %q", string(letter))
	}
	rest := text[1:]
	accidental := 0
	if len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		if rest[0] == '#' {
			accidental = 1
		} else {
			accidental = -1
		}
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("musictheory: bad pitch octave in %q: %w", text, err)
	}
	return (octave+1)*12 + base + accidental, nil
}

// MustPitch is ParsePitch for prelude data tables built from Go literals.
func MustPitch(text string) int {
	n, err := ParsePitch(text)
	if err != nil {
		panic(err)
	}
	return n
}

// PitchName renders a MIDI note number back to scientific pitch notation
// using sharps, e.g. 61 -> "C#4".
func PitchName(midi int) string {
	if midi < 0 {
		midi = 0
	}
	octave := midi/12 - 1
	class := midi % 12
	return fmt.Sprintf("%s%d", semitoneLetter[class], octave)
}

// TransposePitch adds a semitone offset, clamping to the valid MIDI range.
func TransposePitch(midi, semitones int) int {
	n := midi + semitones
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return n
}
