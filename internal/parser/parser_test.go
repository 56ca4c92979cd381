package parser

import (
	"testing"

	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) *ast.File {
	toks, lexDiags := lexer.Lex(src)
	require.Empty(t, lexDiags)
	file, diags := Parse(toks)
	require.Empty(t, diags, "unexpected parse diagnostics: %v", diags)
	return file
}

func TestParseScaleDeclAndBlock(t *testing.T) {
	file := parseSrc(t, "scale Major = { R, M2, M3, P4, P5, M6, M7 }\n| <1> <3> <5> |")
	require.Len(t, file.Items, 2)

	scale, ok := file.Items[0].(*ast.ScaleDecl)
	require.True(t, ok)
	assert.Equal(t, "Major", scale.Name)
	assert.Len(t, scale.Intervals, 7)

	exprItem, ok := file.Items[1].(*ast.ExprItem)
	require.True(t, ok)
	block, ok := exprItem.Value.(*ast.BlockExpr)
	require.True(t, ok)
	require.Len(t, block.Slots, 3)
	for _, s := range block.Slots {
		_, isDegree := s.Value.(*ast.DegreeExpr)
		assert.True(t, isDegree)
		assert.Equal(t, 1, s.Weight)
	}
}

func TestParseBlockWithDurationSuffix(t *testing.T) {
	file := parseSrc(t, "| <1> <1> |:2")
	block := file.Items[0].(*ast.ExprItem).Value.(*ast.BlockExpr)
	require.NotNil(t, block.TotalBeats)
	lit, ok := block.TotalBeats.(*ast.IntLitExpr)
	require.True(t, ok)
	assert.Equal(t, int64(2), lit.Value)
}

func TestParseTransposePipe(t *testing.T) {
	file := parseSrc(t, "| <1> | |> transpose P5")
	pipe, ok := file.Items[0].(*ast.ExprItem).Value.(*ast.PipeExpr)
	require.True(t, ok)
	_, leftIsBlock := pipe.Left.(*ast.BlockExpr)
	assert.True(t, leftIsBlock)
	apply, ok := pipe.Right.(*ast.ApplyExpr)
	require.True(t, ok)
	fn, ok := apply.Fn.(*ast.IdentExpr)
	require.True(t, ok)
	assert.Equal(t, "transpose", fn.Name)
	_, argIsInterval := apply.Arg.(*ast.IntervalLitExpr)
	assert.True(t, argIsInterval)
}

func TestParseLetInAndConcat(t *testing.T) {
	file := parseSrc(t, "let fast = | <1> <2> |\nlet slow = | <1> |\nfast ++ slow")
	require.Len(t, file.Items, 3)
	concat, ok := file.Items[2].(*ast.ExprItem).Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpConcat, concat.Op)
}

func TestParseChordSlotAndTuplet(t *testing.T) {
	file := parseSrc(t, "| [R, M3, P5] {<1> <2>}:1 |")
	block := file.Items[0].(*ast.ExprItem).Value.(*ast.BlockExpr)
	require.Len(t, block.Slots, 2)
	_, isChord := block.Slots[0].Value.(*ast.ChordLitExpr)
	assert.True(t, isChord)
	tup, isTuplet := block.Slots[1].Value.(*ast.TupletExpr)
	require.True(t, isTuplet)
	assert.Len(t, tup.Slots, 2)
}

func TestParseWeightAndArticulation(t *testing.T) {
	file := parseSrc(t, "| <1>:2^ <2>' ~ |")
	block := file.Items[0].(*ast.ExprItem).Value.(*ast.BlockExpr)
	require.Len(t, block.Slots, 3)
	assert.Equal(t, 2, block.Slots[0].Weight)
	assert.Equal(t, ast.ArticAccent, block.Slots[0].Articulation)
	assert.Equal(t, ast.ArticStaccato, block.Slots[1].Articulation)
	_, isRest := block.Slots[2].Value.(*ast.RestExpr)
	assert.True(t, isRest)
}

func TestParseUseForms(t *testing.T) {
	file := parseSrc(t, "use a::b\nuse a::*\nuse a::{b, c as d}")
	simple := file.Items[0].(*ast.UseDecl)
	assert.Equal(t, ast.UseSimple, simple.Kind)
	assert.Equal(t, []string{"a", "b"}, simple.Path)

	glob := file.Items[1].(*ast.UseDecl)
	assert.Equal(t, ast.UseGlob, glob.Kind)

	group := file.Items[2].(*ast.UseDecl)
	assert.Equal(t, ast.UseGroup, group.Kind)
	require.Len(t, group.Items, 2)
	assert.Equal(t, "d", group.Items[1].Alias)
}

func TestParseRecoversFromBadTopLevelItem(t *testing.T) {
	toks, _ := lexer.Lex("let bad = @\nlet good = 1")
	file, diags := Parse(toks)
	require.NotEmpty(t, diags)
	found := false
	for _, item := range file.Items {
		if ld, ok := item.(*ast.LetDecl); ok {
			if ip, ok := ld.Pattern.(*ast.IdentPattern); ok && ip.Name == "good" {
				found = true
			}
		}
	}
	assert.True(t, found, "parser should recover and still find the later 'let good' item")
}

func TestParseMatchExpr(t *testing.T) {
	file := parseSrc(t, "match x with | 0 -> 1 | _ -> 2")
	m := file.Items[0].(*ast.ExprItem).Value.(*ast.MatchExpr)
	require.Len(t, m.Arms, 2)
}

func TestSpansNestWithinParent(t *testing.T) {
	file := parseSrc(t, "| <1> <3> <5> |")
	block := file.Items[0].(*ast.ExprItem).Value.(*ast.BlockExpr)
	for _, s := range block.Slots {
		assert.True(t, block.Span.Contains(s.Span), "slot span must lie within block span")
	}
}
