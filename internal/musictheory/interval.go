// Package musictheory turns the surface text of interval and pitch literals
// into integer semitone/cent values, and back again. It has no dependency on
// any other relanote package so that eval, prelude, and render can all import
// it without risk of a cycle.
package musictheory

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is a quality-adjusted diatonic interval, stored as signed cents
// (100ths of a semitone) so that microtonal modifiers (`+`/`-`) compose
// exactly. A plain interval with no modifiers is always a multiple of 100.
type Interval struct {
	Cents int
}

// Semitones reports the whole-semitone count, truncating any residual
// microtonal offset toward zero. Used wherever a component needs a coarse
// pitch-class rather than exact tuning (e.g. MIDI rendering).
func (i Interval) Semitones() int {
	return i.Cents / 100
}

// diatonicClass describes the unqualified size of a diatonic step.
type diatonicClass struct {
	perfect bool // true for unison/4th/5th/8ve-equivalent classes
	base    int  // semitone count of the Perfect (or Major) form within an octave
}

// classes[d] is indexed by degree-within-octave, 1..7 (degree 8 wraps to 1
// with an added octave).
var classes = map[int]diatonicClass{
	1: {perfect: true, base: 0},
	2: {perfect: false, base: 2},
	3: {perfect: false, base: 4},
	4: {perfect: true, base: 5},
	5: {perfect: true, base: 7},
	6: {perfect: false, base: 9},
	7: {perfect: false, base: 11},
}

// ParseInterval converts surface text such as "M3", "P5", "A4+", "d5--", or
// the bare rest alias "R" into an Interval. It assumes the lexer has already
// validated the token's gross shape; ParseInterval re-derives the pieces
// rather than trusting a cached parse so that prelude data (Go literals, not
// lexed text) can call it directly too.
func ParseInterval(text string) (Interval, error) {
	if text == "R" {
		return Interval{Cents: 0}, nil
	}
	if len(text) < 2 {
		return Interval{}, fmt.Errorf("musictheory: malformed interval %q", text)
	}
	quality := text[0]
	rest := text[1:]
	digitEnd := 0
	for digitEnd < len(rest) && rest[digitEnd] >= '0' && rest[digitEnd] <= '9' {
		digitEnd++
	}
	if digitEnd == 0 {
		return Interval{}, fmt.Errorf("musictheory: interval %q has no degree", text)
	}
	degree, err := strconv.Atoi(rest[:digitEnd])
	if err != nil {
		return Interval{}, fmt.Errorf("musictheory: bad interval degree in %q: %w", text, err)
	}
	mods := rest[digitEnd:]

	octave := (degree - 1) / 7
	class, ok := classes[((degree-1)%7)+1]
	if !ok {
		return Interval{}, fmt.Errorf("musictheory: unreachable degree class for %q", text)
	}

	var semis int
	switch quality {
	case 'P':
		if !class.perfect {
			return Interval{}, fmt.Errorf("musictheory: degree %d has no perfect form", degree)
		}
		semis = class.base
	case 'M':
		if class.perfect {
			return Interval{}, fmt.Errorf("musictheory: degree %d has no major form", degree)
		}
		semis = class.base
	case 'm':
		if class.perfect {
			return Interval{}, fmt.Errorf("musictheory: degree %d has no minor form", degree)
		}
		semis = class.base - 1
	case 'A':
		semis = class.base + 1
	case 'd':
		if class.perfect {
			semis = class.base - 1
		} else {
			semis = class.base - 2
		}
	default:
		return Interval{}, fmt.Errorf("musictheory: unknown interval quality %q", string(quality))
	}
	semis += octave * 12

	cents := semis * 100
	for _, m := range mods {
		switch m {
		case '+':
			cents++
		case '-':
			cents--
		default:
			return Interval{}, fmt.Errorf("musictheory: unknown interval modifier %q in %q", string(m), text)
		}
	}
	return Interval{Cents: cents}, nil
}

// MustInterval is ParseInterval for use with compile-time-known literals in
// prelude data tables, panicking on malformed input rather than threading an
// error through every table initializer.
func MustInterval(text string) Interval {
	iv, err := ParseInterval(text)
	if err != nil {
		panic(err)
	}
	return iv
}

// CanonicalIntervalText renders the simplest quality-plus-degree text for a
// whole-semitone interval: "P"/"M"/"m" for every offset except the tritone,
// which is spelled "A4"; a diminished spelling is never produced.
func CanonicalIntervalText(semitones int) string {
	if semitones == 0 {
		return "R"
	}
	octave := semitones / 12
	rem := semitones % 12
	if rem < 0 {
		rem += 12
		octave--
	}
	quality, base := qualityForSemitone(rem)
	degree := base + octave*7
	return fmt.Sprintf("%s%d", quality, degree)
}

// qualityForSemitone maps a 0..11 semitone offset to its most natural
// diatonic spelling (major scale degree), returning the quality letter and
// the degree (1-7) within one octave.
func qualityForSemitone(rem int) (string, int) {
	switch rem {
	case 0:
		return "P", 1
	case 1:
		return "m", 2
	case 2:
		return "M", 2
	case 3:
		return "m", 3
	case 4:
		return "M", 3
	case 5:
		return "P", 4
	case 6:
		return "A", 4
	case 7:
		return "P", 5
	case 8:
		return "m", 6
	case 9:
		return "M", 6
	case 10:
		return "m", 7
	case 11:
		return "M", 7
	}
	return "P", 1
}

// IsIntervalText reports whether text looks like interval surface syntax,
// used by callers that accept either an interval or a pitch.
func IsIntervalText(text string) bool {
	if text == "R" {
		return true
	}
	if len(text) < 2 {
		return false
	}
	return strings.ContainsRune("PMmAd", rune(text[0])) && text[1] >= '0' && text[1] <= '9'
}
