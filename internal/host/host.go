// Package host is the embedding-facing facade spec.md §6 names: a thin
// layer over lexer/parser/resolver/types/eval/render/format that takes
// raw source text in and returns plain, JSON-marshalable structs out,
// hiding the pipeline's internal types from any caller (CLI, LSP server,
// browser playground) that only wants a source string to turn into a
// value, a MIDI file, or a diagnostic list. It mirrors the teacher's
// internal/storage package's habit of keeping one jsoniter codec
// configured once for the whole package rather than spreading
// encoding/json calls across call sites.
package host

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/relanote-lang/relanote/internal/eval"
	"github.com/relanote-lang/relanote/internal/lexer"
	"github.com/relanote-lang/relanote/internal/parser"
	"github.com/relanote-lang/relanote/internal/render"
	"github.com/relanote-lang/relanote/internal/resolver"
	"github.com/relanote-lang/relanote/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DiagnosticDTO is the wire shape of a diag.Diagnostic, flattening Severity
// and Kind to strings so a non-Go caller (the LSP transport, the browser
// playground) never needs to know the Go type's numeric encoding.
type DiagnosticDTO struct {
	Severity string `json:"severity"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

func toDTO(d diag.Diagnostic) DiagnosticDTO {
	return DiagnosticDTO{
		Severity: d.Severity.String(),
		Kind:     string(d.Kind),
		Message:  d.Message,
		Start:    d.Span.Start,
		End:      d.Span.End,
	}
}

func toDTOs(diags []diag.Diagnostic) []DiagnosticDTO {
	out := make([]DiagnosticDTO, len(diags))
	for i, d := range diags {
		out[i] = toDTO(d)
	}
	return out
}

// pipeline runs every stage through type inference and collects every
// stage's diagnostics in source order, the one traversal every other
// facade operation below builds on.
type pipeline struct {
	file  *ast.File
	res   *resolver.Result
	info  *types.Info
	diags []diag.Diagnostic
}

// runPipeline analyzes source with a StubFileProvider (spec.md §4.3's
// "embedded use" case — every `mod` reports NotFound), which is what every
// embedding without a filesystem (the browser playground's core instance,
// and every exported function in this file) needs. CLI callers that want
// real `mod foo` resolution against files on disk use the *File variants
// below, which build an OSFileProvider instead.
func runPipeline(source string) *pipeline {
	return runPipelineWithProvider(source, resolver.StubFileProvider{})
}

func runPipelineWithProvider(source string, provider resolver.FileProvider) *pipeline {
	bag := diag.NewBag()

	toks, lexDiags := lexer.Lex(source)
	bag.Extend(lexDiags)

	file, parseDiags := parser.Parse(toks)
	bag.Extend(parseDiags)

	res, resolveDiags := resolver.Resolve(file, provider)
	bag.Extend(resolveDiags)

	info, typeDiags := types.Infer(res)
	bag.Extend(typeDiags)

	return &pipeline{file: file, res: res, info: info, diags: bag.Items()}
}

// AnalyzeResult is operation `analyze`'s output.
type AnalyzeResult struct {
	Diagnostics []DiagnosticDTO `json:"diagnostics"`
	Success     bool            `json:"success"`
}

// Analyze runs the pipeline through type inference without evaluating,
// spec.md §6's `analyze` operation — used by `relanote check` and as the
// LSP's diagnostics source.
func Analyze(source string) AnalyzeResult {
	p := runPipeline(source)
	return AnalyzeResult{Diagnostics: toDTOs(p.diags), Success: !hasErrors(p.diags)}
}

func hasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

// EvaluateResult is operation `evaluate`'s output: the program's final
// value rendered as a JSON-safe tree (see value.go) alongside diagnostics.
type EvaluateResult struct {
	Value       any             `json:"value"`
	Diagnostics []DiagnosticDTO `json:"diagnostics"`
	Success     bool            `json:"success"`
}

// Evaluate runs the full pipeline (through the evaluator) and returns the
// program's final bare-expression value, spec.md §6's `evaluate` operation.
func Evaluate(source string) EvaluateResult {
	p := runPipeline(source)
	if hasErrors(p.diags) {
		return EvaluateResult{Diagnostics: toDTOs(p.diags), Success: false}
	}
	result, evalDiags := eval.Eval(p.res)
	all := append(append([]diag.Diagnostic{}, p.diags...), evalDiags...)
	return EvaluateResult{
		Value:       valueToJSON(result.Value),
		Diagnostics: toDTOs(all),
		Success:     !hasErrors(all),
	}
}

// RenderMIDIResult is operation `render_midi`'s output.
type RenderMIDIResult struct {
	Success  bool   `json:"success"`
	MIDIData []byte `json:"midi_data,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RenderMIDI compiles source all the way to SMF-1 bytes, spec.md §6's
// `render_midi` operation. An error-severity diagnostic anywhere in the
// pipeline aborts before evaluation and is surfaced as Error rather than
// attempting a best-effort render of a program that failed to type-check.
func RenderMIDI(source string) RenderMIDIResult {
	p := runPipeline(source)
	if hasErrors(p.diags) {
		return RenderMIDIResult{Success: false, Error: firstErrorMessage(p.diags)}
	}
	result, evalDiags := eval.Eval(p.res)
	if hasErrors(evalDiags) {
		return RenderMIDIResult{Success: false, Error: firstErrorMessage(evalDiags)}
	}
	perf := eval.BuildPerformance(result.Value, result.Options)
	bag := diag.NewBag()
	data := render.MIDI(perf, bag)
	if hasErrors(bag.Items()) {
		return RenderMIDIResult{Success: false, Error: firstErrorMessage(bag.Items())}
	}
	return RenderMIDIResult{Success: true, MIDIData: data}
}

func firstErrorMessage(diags []diag.Diagnostic) string {
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			return d.Message
		}
	}
	return ""
}

// PlaybackDataResult is operation `playback_data`'s output.
type PlaybackDataResult struct {
	render.PlaybackData
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PlaybackData compiles and flattens source into the structural
// note/tempo/meter record an external audio host consumes directly,
// spec.md §6's `playback_data` operation.
func PlaybackData(source string) PlaybackDataResult {
	p := runPipeline(source)
	if hasErrors(p.diags) {
		return PlaybackDataResult{Success: false, Error: firstErrorMessage(p.diags)}
	}
	result, evalDiags := eval.Eval(p.res)
	if hasErrors(evalDiags) {
		return PlaybackDataResult{Success: false, Error: firstErrorMessage(evalDiags)}
	}
	perf := eval.BuildPerformance(result.Value, result.Options)
	return PlaybackDataResult{PlaybackData: render.Playback(perf), Success: true}
}

// MarshalJSON returns the canonical JSON encoding for v, used by every CLI
// subcommand and LSP handler that needs to serialize a facade result —
// kept in one place so every caller gets the same jsoniter configuration.
func MarshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// UnmarshalJSON decodes data into v using the same jsoniter configuration
// MarshalJSON encodes with, for callers (the `lsp` stdio command) that
// need to read structured requests back in.
func UnmarshalJSON(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
