package musictheory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePitchMiddleC(t *testing.T) {
	n, err := ParsePitch("C4")
	require.NoError(t, err)
	assert.Equal(t, 60, n)
}

func TestParsePitchAccidentals(t *testing.T) {
	n, err := ParsePitch("F#5")
	require.NoError(t, err)
	assert.Equal(t, 78, n)

	n, err = ParsePitch("Bb3")
	require.NoError(t, err)
	assert.Equal(t, 58, n)
}

func TestPitchNameRoundTrip(t *testing.T) {
	assert.Equal(t, "C4", PitchName(60))
	assert.Equal(t, "C#4", PitchName(61))
}

func TestTransposePitchClamps(t *testing.T) {
	assert.Equal(t, 0, TransposePitch(5, -20))
	assert.Equal(t, 127, TransposePitch(120, 50))
}
