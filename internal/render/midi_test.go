package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/relanote-lang/relanote/internal/eval"
	"github.com/relanote-lang/relanote/internal/lexer"
	"github.com/relanote-lang/relanote/internal/parser"
	"github.com/relanote-lang/relanote/internal/resolver"
	"github.com/relanote-lang/relanote/internal/types"
)

func compile(t *testing.T, src string) *eval.Performance {
	t.Helper()
	toks, lexDiags := lexer.Lex(src)
	require.Empty(t, lexDiags)
	file, parseDiags := parser.Parse(toks)
	require.Empty(t, parseDiags)
	res, resolveDiags := resolver.Resolve(file, resolver.StubFileProvider{})
	require.Empty(t, resolveDiags)
	_, typeDiags := types.Infer(res)
	require.Empty(t, typeDiags)
	result, evalDiags := eval.Eval(res)
	require.Empty(t, evalDiags)
	return eval.BuildPerformance(result.Value, result.Options)
}

// TestScenarioS5MIDIHeaderBytes is spec.md §8 scenario S5: the first 14
// bytes of S1's rendered MIDI file must be the literal MThd header with
// format 1, 2 tracks (one meta track plus one note track, since S1 attaches
// no synth), and division 480.
func TestScenarioS5MIDIHeaderBytes(t *testing.T) {
	src := "scale Major = { R, M2, M3, P4, P5, M6, M7 }\n| <1> <3> <5> |\n"
	perf := compile(t, src)
	bag := diag.NewBag()
	data := MIDI(perf, bag)
	require.False(t, bag.HasErrors())
	require.GreaterOrEqual(t, len(data), 14)

	want := []byte{0x4D, 0x54, 0x68, 0x64, 0x00, 0x00, 0x00, 0x06, 0x00, 0x01, 0x00, 0x02, 0x01, 0xE0}
	assert.Equal(t, want, data[:14])
}

// TestMIDIEmptyPerformanceRendersTempoTrackOnly covers spec.md §7's
// RenderError recovery policy: an empty Performance still yields a
// well-formed SMF file, not a render abort.
func TestMIDIEmptyPerformanceRendersTempoTrackOnly(t *testing.T) {
	perf := &eval.Performance{TotalBeats: new(eval.Rat), TempoBPM: 120, TimeSigNum: 4, TimeSigDen: 4}
	bag := diag.NewBag()
	data := MIDI(perf, bag)
	assert.NotEmpty(t, data)
	assert.True(t, bag.HasErrors() == false)
	found := false
	for _, d := range bag.Items() {
		if d.Kind == diag.KindRenderError && d.Severity == diag.SeverityInfo {
			found = true
		}
	}
	assert.True(t, found, "expected an info-severity RenderError diagnostic for an empty performance")
}
