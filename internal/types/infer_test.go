package types

import (
	"testing"

	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/lexer"
	"github.com/relanote-lang/relanote/internal/parser"
	"github.com/relanote-lang/relanote/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveSrc(t *testing.T, src string) *resolver.Result {
	t.Helper()
	toks, lexDiags := lexer.Lex(src)
	require.Empty(t, lexDiags)
	file, parseDiags := parser.Parse(toks)
	require.Empty(t, parseDiags)
	res, resolveDiags := resolver.Resolve(file, resolver.StubFileProvider{})
	require.Empty(t, resolveDiags)
	return res
}

func TestInferLiteralsAndArithmetic(t *testing.T) {
	res := resolveSrc(t, "let x = 1 + 2\nlet y = 1.5 * 2.0")
	_, diags := Infer(res)
	assert.Empty(t, diags)
}

func TestInferMixedIntFloatIsATypeError(t *testing.T) {
	res := resolveSrc(t, "let bad = 1 + 2.0")
	_, diags := Infer(res)
	require.Len(t, diags, 1)
	assert.Equal(t, "TypeError", string(diags[0].Kind))
}

// S6: a block typed as Block cannot be added to an Int without a TypeError,
// and no other stage panics.
func TestInferBlockPlusIntIsTypeError(t *testing.T) {
	res := resolveSrc(t, "let bad = | <1> <2> | + 3")
	_, diags := Infer(res)
	require.Len(t, diags, 1)
	assert.Equal(t, "TypeError", string(diags[0].Kind))
}

func TestInferLetGeneralizesPolymorphicIdentity(t *testing.T) {
	res := resolveSrc(t, "let id = \\x -> x\nlet a = id 1\nlet b = id true")
	_, diags := Infer(res)
	assert.Empty(t, diags)
}

func TestInferMapOverArrayOfInts(t *testing.T) {
	res := resolveSrc(t, "let doubled = map (\\x -> x * 2) [1, 2, 3]")
	info, diags := Infer(res)
	assert.Empty(t, diags)
	file := res.Root.File
	letDecl := file.Items[0].(*ast.LetDecl)
	app := letDecl.Value
	ty := info.TypeOf(app)
	assert.Equal(t, "Array<Int>", ty.String())
}

func TestInferTransposeRequiresIntervalArgument(t *testing.T) {
	res := resolveSrc(t, `let bad = transpose 5 (| <1> |)`)
	_, diags := Infer(res)
	require.Len(t, diags, 1)
}

func TestInferScaleDeclRequiresIntervalElements(t *testing.T) {
	res := resolveSrc(t, "scale Bad = { R, 3, M3 }")
	_, diags := Infer(res)
	require.Len(t, diags, 1)
}
