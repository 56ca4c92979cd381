package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioS1TrivialMajorTriad is spec.md §8 scenario S1: key default
// C4, tempo 120, a plain major triad built from scale degrees.
func TestScenarioS1TrivialMajorTriad(t *testing.T) {
	src := "scale Major = { R, M2, M3, P4, P5, M6, M7 }\n| <1> <3> <5> |\n"
	res := PlaybackData(src)
	require.True(t, res.Success)
	require.Len(t, res.Notes, 3)

	wantStarts := []float64{0, 1.0 / 3, 2.0 / 3}
	wantPitches := []int{60, 64, 67}
	for i, n := range res.Notes {
		assert.InDelta(t, wantStarts[i], n.Start, 1e-9)
		assert.InDelta(t, 1.0/3, n.Duration, 1e-9)
		assert.Equal(t, wantPitches[i], n.Pitch)
		assert.Equal(t, 96, n.Velocity)
	}
}

// TestScenarioS2RelativeRhythm is spec.md §8 scenario S2: an explicit
// `:2` beat count spread evenly across 8 equal-weight slots.
func TestScenarioS2RelativeRhythm(t *testing.T) {
	src := "scale Major = { R, M2, M3, P4, P5, M6, M7 }\n| <1> <1> <1> <1> <1> <1> <1> <1> |:2\n"
	res := PlaybackData(src)
	require.True(t, res.Success)
	require.Len(t, res.Notes, 8)
	assert.InDelta(t, 2.0, res.TotalBeats, 1e-9)
	for k, n := range res.Notes {
		assert.InDelta(t, float64(k)*0.25, n.Start, 1e-9)
		assert.InDelta(t, 0.25, n.Duration, 1e-9)
	}
}

// TestScenarioS3ConcatPreservesRhythm is spec.md §8 scenario S3: `++`
// concatenates two blocks of different internal rhythm without
// renormalizing either side's slot durations.
func TestScenarioS3ConcatPreservesRhythm(t *testing.T) {
	src := `scale Major = { R, M2, M3, P4, P5, M6, M7 }
let fast = | <1> <2> <3> <4> <5> <4> <3> <2> |
let slow = | <1> <5> |
fast ++ slow
`
	res := PlaybackData(src)
	require.True(t, res.Success)
	require.Len(t, res.Notes, 10)
	assert.InDelta(t, 2.0, res.TotalBeats, 1e-9)
	for i := 0; i < 8; i++ {
		assert.InDelta(t, float64(i)*0.125, res.Notes[i].Start, 1e-9)
		assert.InDelta(t, 0.125, res.Notes[i].Duration, 1e-9)
	}
	for i := 8; i < 10; i++ {
		assert.InDelta(t, 0.5, res.Notes[i].Duration, 1e-9)
	}
	assert.InDelta(t, 1.0, res.Notes[8].Start, 1e-9)
	assert.InDelta(t, 1.5, res.Notes[9].Start, 1e-9)
}

// TestScenarioS4TransposeUpAFifth is spec.md §8 scenario S4: `|> transpose
// P5` shifts a single scale-degree note up seven semitones.
func TestScenarioS4TransposeUpAFifth(t *testing.T) {
	src := "scale Major = { R, M2, M3, P4, P5, M6, M7 }\n| <1> | |> transpose P5\n"
	res := PlaybackData(src)
	require.True(t, res.Success)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, 67, res.Notes[0].Pitch)
}

// TestScenarioS6TypeErrorSurfacedWithoutCrash is spec.md §8 scenario S6:
// adding a Block to an Int must surface exactly one TypeError diagnostic
// rather than panicking anywhere in the pipeline.
func TestScenarioS6TypeErrorSurfacedWithoutCrash(t *testing.T) {
	src := "let bad = | <1> <2> | + 3\n"
	res := Analyze(src)
	assert.False(t, res.Success)
	require.NotEmpty(t, res.Diagnostics)
	found := false
	for _, d := range res.Diagnostics {
		if d.Kind == "TypeError" {
			found = true
		}
	}
	assert.True(t, found, "expected a TypeError diagnostic, got %+v", res.Diagnostics)
}
