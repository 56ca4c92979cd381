package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCleanSourceSucceeds(t *testing.T) {
	res := Analyze("let x = 1 + 2")
	assert.True(t, res.Success)
	assert.Empty(t, res.Diagnostics)
}

func TestAnalyzeReportsTypeError(t *testing.T) {
	res := Analyze("let x = 1 + true")
	assert.False(t, res.Success)
	require.NotEmpty(t, res.Diagnostics)
}

func TestEvaluateReturnsFinalExpression(t *testing.T) {
	res := Evaluate("1 + 2")
	assert.True(t, res.Success)
	assert.EqualValues(t, 3, res.Value)
}

func TestFormatRoundTripsSimpleLet(t *testing.T) {
	res := Format("let   x=1")
	assert.True(t, res.Success)
	assert.Equal(t, "let x = 1\n", res.Formatted)
}

func TestFormatReportsParseError(t *testing.T) {
	res := Format("let x =")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestTokensCoversSource(t *testing.T) {
	toks := Tokens("let x = 1")
	assert.NotEmpty(t, toks)
	assert.Equal(t, 0, toks[0].Start)
}

func TestRenderMIDIProducesBytes(t *testing.T) {
	res := RenderMIDI("scale Major = { R, M2, M3, P4, P5, M6, M7 }\n| <1> <3> <5> |")
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.MIDIData)
	assert.Equal(t, "MThd", string(res.MIDIData[:4]))
}

func TestPlaybackDataReportsNotes(t *testing.T) {
	res := PlaybackData("scale Major = { R, M2, M3, P4, P5, M6, M7 }\n| <1> <3> <5> |")
	assert.True(t, res.Success)
	assert.Len(t, res.Notes, 3)
	assert.Equal(t, 120.0, res.Tempo)
}

func TestCompletionsIncludesScalesAndBuiltins(t *testing.T) {
	list := Completions()
	var hasMajor, hasMap bool
	for _, c := range list {
		if c.Label == "Major" && c.Kind == "scale" {
			hasMajor = true
		}
		if c.Label == "map" && c.Kind == "function" {
			hasMap = true
		}
	}
	assert.True(t, hasMajor)
	assert.True(t, hasMap)
}

func TestHoverFindsIdentifier(t *testing.T) {
	res := Hover("let x = 1", 4)
	assert.True(t, res.Found)
	assert.Equal(t, "x", res.Content[:1])
}

func TestNotesToCodeGroupsChordsAndDegrees(t *testing.T) {
	code := NotesToCode([]InputNote{
		{Pitch: 60, Start: 0, Duration: 1},
		{Pitch: 64, Start: 0, Duration: 1},
		{Pitch: 67, Start: 1, Duration: 1},
	}, "Lead1", 60)
	assert.Contains(t, code, "set key C4")
	assert.Contains(t, code, "synth lead = Lead1")
	assert.Contains(t, code, "[<1>, <3>]")
	assert.Contains(t, code, "<5>")
}
