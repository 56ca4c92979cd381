package prelude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorScaleIsSevenIntervalsFromRoot(t *testing.T) {
	major, ok := Scales["Major"]
	require.True(t, ok)
	require.Len(t, major.Intervals, 7)
	assert.Equal(t, 0, major.Intervals[0].Cents)
	assert.Equal(t, 400, major.Intervals[2].Cents, "M3 should be 4 semitones")
}

func TestMinorPentatonicOmitsFourthAndSeventh(t *testing.T) {
	scale, ok := Scales["MinorPentatonic"]
	require.True(t, ok)
	assert.Len(t, scale.Intervals, 5)
}

func TestChordTablesCoverTriadsAndSevenths(t *testing.T) {
	for _, name := range []string{"Maj", "Min", "Dim", "Aug", "Maj7", "Min7", "Dom7", "Dim7"} {
		_, ok := Chords[name]
		assert.True(t, ok, "missing chord %s", name)
	}
}

func TestSynthPresetsCoverAllCategories(t *testing.T) {
	for _, prefix := range []string{"Lead", "Bass", "Pad", "Pluck", "Keys", "Brass"} {
		_, ok := Synths[prefix+"1"]
		assert.True(t, ok, "missing preset %s1", prefix)
	}
	assert.GreaterOrEqual(t, len(Synths), 60)
}

func TestSynthFieldsStayInRange(t *testing.T) {
	for name, preset := range Synths {
		for field, v := range preset.Fields {
			if field == "pan" {
				assert.GreaterOrEqual(t, v, -1.0, "%s.%s", name, field)
				assert.LessOrEqual(t, v, 1.0, "%s.%s", name, field)
			} else if field != "detune" {
				assert.GreaterOrEqual(t, v, 0.0, "%s.%s", name, field)
				assert.LessOrEqual(t, v, 1.0, "%s.%s", name, field)
			}
		}
	}
}

func TestBuiltinArityLookup(t *testing.T) {
	arity, ok := BuiltinArity("foldl")
	require.True(t, ok)
	assert.Equal(t, 3, arity)

	_, ok = BuiltinArity("not_a_builtin")
	assert.False(t, ok)
}

func TestBuiltinNamesIncludeMusicTransforms(t *testing.T) {
	names := BuiltinNames()
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	for _, want := range []string{"transpose", "swing", "invert", "retrograde", "voice", "adsr", "layer"} {
		assert.True(t, set[want], "missing builtin %s", want)
	}
}
