package host

import (
	"os"
	"path/filepath"

	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/relanote-lang/relanote/internal/eval"
	"github.com/relanote-lang/relanote/internal/render"
	"github.com/relanote-lang/relanote/internal/resolver"
)

// fileProviderFor builds the OSFileProvider spec.md §4.3 describes for a
// `mod` declaration in path: siblings of path resolve relative to its
// directory, exactly as "mod foo in .../dir/current.rela resolves to
// .../dir/foo.rela or .../dir/foo/mod.rela" requires. Every exported
// function above this file uses StubFileProvider instead, for embeddings
// with no filesystem; the CLI (main.go) is the one caller that needs real
// `mod` resolution, so it goes through the *File variants here.
func fileProviderFor(path string) resolver.OSFileProvider {
	return resolver.OSFileProvider{Root: filepath.Dir(path)}
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// AnalyzeFile is Analyze, but resolves `mod` declarations against path's
// directory instead of reporting every module as missing.
func AnalyzeFile(path string) (AnalyzeResult, error) {
	source, err := readSource(path)
	if err != nil {
		return AnalyzeResult{}, err
	}
	p := runPipelineWithProvider(source, fileProviderFor(path))
	return AnalyzeResult{Diagnostics: toDTOs(p.diags), Success: !hasErrors(p.diags)}, nil
}

// EvaluateFile is Evaluate, but resolves `mod` declarations against path's
// directory.
func EvaluateFile(path string) (EvaluateResult, error) {
	source, err := readSource(path)
	if err != nil {
		return EvaluateResult{}, err
	}
	p := runPipelineWithProvider(source, fileProviderFor(path))
	if hasErrors(p.diags) {
		return EvaluateResult{Diagnostics: toDTOs(p.diags), Success: false}, nil
	}
	result, evalDiags := eval.Eval(p.res)
	all := append(append([]diag.Diagnostic{}, p.diags...), evalDiags...)
	return EvaluateResult{
		Value:       valueToJSON(result.Value),
		Diagnostics: toDTOs(all),
		Success:     !hasErrors(all),
	}, nil
}

// compileFile runs the pipeline and evaluator against path's source with
// real `mod` resolution, the shared prefix RenderMIDIFile and
// PlaybackDataFile both need before handing off to the renderer.
func compileFile(path string) (*eval.Performance, []diag.Diagnostic, error) {
	source, err := readSource(path)
	if err != nil {
		return nil, nil, err
	}
	p := runPipelineWithProvider(source, fileProviderFor(path))
	if hasErrors(p.diags) {
		return nil, p.diags, nil
	}
	result, evalDiags := eval.Eval(p.res)
	if hasErrors(evalDiags) {
		return nil, evalDiags, nil
	}
	return eval.BuildPerformance(result.Value, result.Options), append(p.diags, evalDiags...), nil
}

// RenderMIDIFile is RenderMIDI, but resolves `mod` declarations against
// path's directory.
func RenderMIDIFile(path string) (RenderMIDIResult, error) {
	perf, diags, err := compileFile(path)
	if err != nil {
		return RenderMIDIResult{}, err
	}
	if hasErrors(diags) {
		return RenderMIDIResult{Success: false, Error: firstErrorMessage(diags)}, nil
	}
	bag := diag.NewBag()
	data := render.MIDI(perf, bag)
	if hasErrors(bag.Items()) {
		return RenderMIDIResult{Success: false, Error: firstErrorMessage(bag.Items())}, nil
	}
	return RenderMIDIResult{Success: true, MIDIData: data}, nil
}

// PlaybackDataFile is PlaybackData, but resolves `mod` declarations
// against path's directory.
func PlaybackDataFile(path string) (PlaybackDataResult, error) {
	perf, diags, err := compileFile(path)
	if err != nil {
		return PlaybackDataResult{}, err
	}
	if hasErrors(diags) {
		return PlaybackDataResult{Success: false, Error: firstErrorMessage(diags)}, nil
	}
	return PlaybackDataResult{PlaybackData: render.Playback(perf), Success: true}, nil
}

// FormatFile is Format, reading source from path. format.File operates on
// an already-parsed *ast.File and has no `mod` dependency, so no provider
// plumbing is needed here.
func FormatFile(path string) (FormatResult, error) {
	source, err := readSource(path)
	if err != nil {
		return FormatResult{}, err
	}
	return Format(source), nil
}

// TokensFile is Tokens, reading source from path.
func TokensFile(path string) ([]TokenDTO, error) {
	source, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return Tokens(source), nil
}
