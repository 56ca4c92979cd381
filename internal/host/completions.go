package host

import (
	"fmt"
	"strings"

	"github.com/relanote-lang/relanote/internal/prelude"
)

// completionList assembles one CompletionDTO per prelude scale, chord,
// synth preset, and builtin function name, each with an insert template
// shaped for that kind: a bare name for scales/chords/synths (used as a
// scale-degree context or a `synth` binding), and for builtins the name
// followed by one space-separated `$n` placeholder per argument (arity
// taken from prelude.BuiltinArity).
func completionList() []CompletionDTO {
	var out []CompletionDTO
	for _, name := range prelude.ScaleNames() {
		out = append(out, CompletionDTO{Label: name, Kind: "scale", Template: name})
	}
	for _, name := range prelude.ChordNames() {
		out = append(out, CompletionDTO{Label: name, Kind: "chord", Template: name})
	}
	for _, name := range prelude.SynthNames() {
		out = append(out, CompletionDTO{Label: name, Kind: "synth", Template: name})
	}
	for _, name := range prelude.BuiltinNames() {
		arity, _ := prelude.BuiltinArity(name)
		out = append(out, CompletionDTO{Label: name, Kind: "function", Template: builtinTemplate(name, arity)})
	}
	return out
}

func builtinTemplate(name string, arity int) string {
	if arity == 0 {
		return name
	}
	args := make([]string, arity)
	for i := range args {
		args[i] = fmt.Sprintf("$%d", i+1)
	}
	return name + " " + strings.Join(args, " ")
}
