package musictheory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntervalBasics(t *testing.T) {
	cases := map[string]int{
		"R":  0,
		"P1": 0,
		"M2": 200,
		"M3": 400,
		"P4": 500,
		"P5": 700,
		"M6": 900,
		"M7": 1100,
		"P8": 1200,
	}
	for text, want := range cases {
		iv, err := ParseInterval(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, iv.Cents, text)
	}
}

func TestAugmentedFourthEqualsDiminishedFifth(t *testing.T) {
	a4, err := ParseInterval("A4")
	require.NoError(t, err)
	d5, err := ParseInterval("d5")
	require.NoError(t, err)
	assert.Equal(t, a4.Cents, d5.Cents)
}

func TestIntervalMicrotonalModifiers(t *testing.T) {
	iv, err := ParseInterval("M3+")
	require.NoError(t, err)
	assert.Equal(t, 401, iv.Cents)

	iv2, err := ParseInterval("M3--")
	require.NoError(t, err)
	assert.Equal(t, 398, iv2.Cents)
}

func TestIntervalBeyondOctave(t *testing.T) {
	iv, err := ParseInterval("M9")
	require.NoError(t, err)
	assert.Equal(t, 1400, iv.Cents)
}

func TestParseIntervalRejectsImpossibleQuality(t *testing.T) {
	_, err := ParseInterval("M4")
	assert.Error(t, err)
	_, err = ParseInterval("P3")
	assert.Error(t, err)
}

func TestCanonicalIntervalTextRoundTrips(t *testing.T) {
	assert.Equal(t, "R", CanonicalIntervalText(0))
	assert.Equal(t, "M3", CanonicalIntervalText(4))
	assert.Equal(t, "P5", CanonicalIntervalText(7))
}

func TestIsIntervalText(t *testing.T) {
	assert.True(t, IsIntervalText("R"))
	assert.True(t, IsIntervalText("M3"))
	assert.False(t, IsIntervalText("C4"))
	assert.False(t, IsIntervalText("x"))
}
