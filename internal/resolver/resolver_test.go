package resolver

import (
	"testing"

	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/lexer"
	"github.com/relanote-lang/relanote/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) *ast.File {
	toks, lexDiags := lexer.Lex(src)
	require.Empty(t, lexDiags)
	file, parseDiags := parser.Parse(toks)
	require.Empty(t, parseDiags)
	return file
}

func TestResolveBuiltinAndScaleNamesInBaseScope(t *testing.T) {
	file := parseSrc(t, "let x = Major\nlet y = transpose")
	result, diags := Resolve(file, StubFileProvider{})
	assert.Empty(t, diags)
	require.Len(t, result.Root.Symbols, 2)
}

func TestResolveUnresolvedIdentifierReported(t *testing.T) {
	file := parseSrc(t, "let x = totallyUnknownName")
	_, diags := Resolve(file, StubFileProvider{})
	require.Len(t, diags, 1)
	assert.Equal(t, "UnresolvedIdentifier", string(diags[0].Kind))
}

func TestResolveDuplicateTopLevelNameReported(t *testing.T) {
	file := parseSrc(t, "let x = 1\nlet x = 2")
	_, diags := Resolve(file, StubFileProvider{})
	require.Len(t, diags, 1)
	assert.Equal(t, "DuplicateName", string(diags[0].Kind))
}

func TestResolveMissingModuleReported(t *testing.T) {
	file := parseSrc(t, "mod helpers\nlet x = 1")
	_, diags := Resolve(file, StubFileProvider{})
	require.Len(t, diags, 1)
	assert.Equal(t, "ModuleNotFound", string(diags[0].Kind))
}

type mapProvider map[string]string

func (p mapProvider) Load(path string) (string, bool) {
	src, ok := p[path]
	return src, ok
}

func TestResolveCircularModuleDetected(t *testing.T) {
	provider := mapProvider{
		"a": "mod b\nlet x = 1",
		"b": "mod a\nlet y = 2",
	}
	file := parseSrc(t, "mod a\nlet z = 1")
	_, diags := Resolve(file, provider)
	found := false
	for _, d := range diags {
		if string(d.Kind) == "CircularModule" {
			found = true
		}
	}
	assert.True(t, found, "expected a CircularModule diagnostic, got %v", diags)
}

func TestResolveLambdaParamsShadowOuterScope(t *testing.T) {
	file := parseSrc(t, "let f = \\x -> x")
	_, diags := Resolve(file, StubFileProvider{})
	assert.Empty(t, diags)
}

func TestResolveUseSimpleBindsSingleMember(t *testing.T) {
	provider := mapProvider{
		"helpers": "let double = 2",
	}
	file := parseSrc(t, "mod helpers\nuse helpers::double\nlet x = double")
	_, diags := Resolve(file, provider)
	assert.Empty(t, diags)
}

func TestResolveUseGlobBindsAllMembers(t *testing.T) {
	provider := mapProvider{
		"helpers": "let a = 1\nlet b = 2",
	}
	file := parseSrc(t, "mod helpers\nuse helpers::*\nlet x = a\nlet y = b")
	_, diags := Resolve(file, provider)
	assert.Empty(t, diags)
}

func TestResolveUseGroupWithAlias(t *testing.T) {
	provider := mapProvider{
		"helpers": "let a = 1\nlet b = 2",
	}
	file := parseSrc(t, "mod helpers\nuse helpers::{a, b as renamed}\nlet x = a\nlet y = renamed")
	_, diags := Resolve(file, provider)
	assert.Empty(t, diags)
}

func TestResolveRefsMapPopulatedForEveryIdent(t *testing.T) {
	file := parseSrc(t, "let x = Major")
	result, diags := Resolve(file, StubFileProvider{})
	require.Empty(t, diags)
	letDecl := file.Items[0].(*ast.LetDecl)
	ident := letDecl.Value.(*ast.IdentExpr)
	sym, ok := result.Refs[ident]
	require.True(t, ok)
	require.NotNil(t, sym)
	assert.Equal(t, "Major", sym.Name)
}
