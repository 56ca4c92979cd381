package format

import (
	"testing"

	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/lexer"
	"github.com/relanote-lang/relanote/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	toks, lexDiags := lexer.Lex(src)
	require.Empty(t, lexDiags)
	file, parseDiags := parser.Parse(toks)
	require.Empty(t, parseDiags)
	return file
}

// roundTrip re-parses formatted output and asserts it reformats to the
// same text, the idempotency contract (spec.md §4.7) and a practical proxy
// for parse-preservation (equal formatted text from equal trees implies
// equal trees, given Format is a pure function of the tree).
func roundTrip(t *testing.T, src string) string {
	t.Helper()
	out := File(mustParse(t, src))
	reparsed := mustParse(t, out)
	out2 := File(reparsed)
	assert.Equal(t, out, out2, "format must be idempotent")
	return out
}

func TestFormatLetDecl(t *testing.T) {
	out := roundTrip(t, "let x = 1")
	assert.Equal(t, "let x = 1\n", out)
}

func TestFormatScaleAndBlock(t *testing.T) {
	out := roundTrip(t, "scale Major = { R, M2, M3, P4, P5, M6, M7 }\n| <1> <3> <5> |")
	assert.Contains(t, out, "scale Major = { R, M2, M3, P4, P5, M6, M7 }")
	assert.Contains(t, out, "| <1> <3> <5> |")
}

func TestFormatBlockTotalBeats(t *testing.T) {
	out := roundTrip(t, "| <1> <1> |:2")
	assert.Contains(t, out, "| <1> <1> |:2")
}

func TestFormatPipeAndTransform(t *testing.T) {
	out := roundTrip(t, "| <1> | |> transpose P5")
	assert.Contains(t, out, "|> transpose P5")
}

func TestFormatSlotWeightAndArticulation(t *testing.T) {
	out := roundTrip(t, "| <1>:2^ <2>' ~ |")
	assert.Contains(t, out, "<1>:2^")
	assert.Contains(t, out, "<2>'")
}

func TestFormatBinaryPrecedencePreserved(t *testing.T) {
	src := "let x = (1 + 2) * 3"
	out1 := File(mustParse(t, src))
	out2 := File(mustParse(t, out1))
	assert.Equal(t, out1, out2)
	assert.Contains(t, out1, "(1 + 2) * 3")
}

func TestFormatLambdaInApplicationNeedsParens(t *testing.T) {
	src := "(\\x -> x) 1"
	out := roundTrip(t, src)
	assert.Contains(t, out, "(\\x -> x) 1")
}

func TestFormatMatchExpr(t *testing.T) {
	out := roundTrip(t, "match x with | 0 -> 1 | _ -> 2")
	assert.Contains(t, out, "match x with | 0 -> 1 | _ -> 2")
}

func TestFormatUseDecl(t *testing.T) {
	out := roundTrip(t, "use a::b\nuse a::*\nuse a::{b, c as d}")
	assert.Contains(t, out, "use a::b")
	assert.Contains(t, out, "use a::*")
	assert.Contains(t, out, "use a::{b, c as d}")
}
