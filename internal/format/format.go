// Package format implements spec.md §4.7's pretty-printer: AST back to
// canonical source text, 2-space indent, idempotent and parse-preserving.
// It has no dependency on resolver/types/eval — formatting only ever needs
// the parsed tree, mirroring the teacher's preference for small packages
// with a narrow, single-purpose dependency footprint (e.g. internal/ticks
// depending on nothing but internal/config).
package format

import (
	"strconv"
	"strings"

	"github.com/relanote-lang/relanote/internal/ast"
)

const indentUnit = "  "

// wrapWidth is spec.md §4.7's "lines wrap at 100 columns where a natural
// break point exists" threshold.
const wrapWidth = 100

// File formats a complete parsed file: one item per line (blank line
// between items), canonical expression text for each.
func File(f *ast.File) string {
	var b strings.Builder
	for i, item := range f.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(wrap(formatItem(item), 0))
		b.WriteString("\n")
	}
	return b.String()
}

func formatItem(item ast.Item) string {
	switch n := item.(type) {
	case *ast.ModDecl:
		return "mod " + n.Name
	case *ast.UseDecl:
		return formatUseDecl(n)
	case *ast.LetDecl:
		return "let " + formatPattern(n.Pattern) + " = " + formatExpr(n.Value, precTop)
	case *ast.ScaleDecl:
		return "scale " + n.Name + " = " + formatIntervalSet(n.Intervals)
	case *ast.ChordDecl:
		return "chord " + n.Name + " = [" + joinExprs(n.Intervals) + "]"
	case *ast.SynthDecl:
		return "synth " + n.Name + " = " + formatSynthFields(n.Fields)
	case *ast.SetDecl:
		return "set " + n.Name + " = " + formatExpr(n.Value, precTop)
	case *ast.ExprItem:
		return formatExpr(n.Value, precTop)
	}
	return ""
}

func formatUseDecl(n *ast.UseDecl) string {
	path := strings.Join(n.Path, "::")
	switch n.Kind {
	case ast.UseGlob:
		return "use " + path + "::*"
	case ast.UseGroup:
		parts := make([]string, len(n.Items))
		for i, it := range n.Items {
			parts[i] = it.Name
			if it.Alias != "" {
				parts[i] += " as " + it.Alias
			}
		}
		return "use " + path + "::{" + strings.Join(parts, ", ") + "}"
	default:
		if len(n.Items) == 1 && n.Items[0].Alias != "" {
			return "use " + path + " as " + n.Items[0].Alias
		}
		return "use " + path
	}
}

func formatIntervalSet(exprs []ast.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = formatExpr(e, precTop)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func formatSynthFields(fields []ast.SynthField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Name + ": " + formatExpr(f.Value, precTop)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func formatPattern(p ast.Pattern) string {
	switch n := p.(type) {
	case *ast.WildcardPattern:
		return "_"
	case *ast.IdentPattern:
		return n.Name
	case *ast.UnitPattern:
		return "()"
	case *ast.LitPattern:
		return formatExpr(n.Value, precTop)
	case *ast.TuplePattern:
		parts := make([]string, len(n.Elems))
		for i, e := range n.Elems {
			parts[i] = formatPattern(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return ""
}

// Precedence levels mirror the parser's recursive-descent chain
// (internal/parser's parsePipe..parseAtom), lowest first, so the printer
// parenthesizes a child exactly when re-parsing it bare would not recover
// the same tree shape.
const (
	precTop = iota
	precPipe
	precCompose
	precOr
	precAnd
	precNot
	precCompare
	precConcat
	precAdditive
	precMultiplicative
	precUnary
	precApplication
	precAtom
)

func formatExpr(e ast.Expr, minPrec int) string {
	text, prec := formatExprPrec(e)
	if prec < minPrec {
		return "(" + text + ")"
	}
	return text
}

// formatExprPrec returns e's canonical text alongside the precedence level
// it binds at, so the caller can decide whether parens are needed.
func formatExprPrec(e ast.Expr) (string, int) {
	switch n := e.(type) {
	case *ast.IdentExpr:
		return n.Name, precAtom
	case *ast.IntLitExpr:
		return strconv.FormatInt(n.Value, 10), precAtom
	case *ast.FloatLitExpr:
		return strconv.FormatFloat(n.Value, 'g', -1, 64), precAtom
	case *ast.StringLitExpr:
		return strconv.Quote(n.Value), precAtom
	case *ast.BoolLitExpr:
		if n.Value {
			return "true", precAtom
		}
		return "false", precAtom
	case *ast.IntervalLitExpr:
		return n.Text, precAtom
	case *ast.PitchLitExpr:
		return n.Text, precAtom
	case *ast.DegreeExpr:
		return "<" + strconv.Itoa(n.N) + ">", precAtom
	case *ast.RestExpr:
		return "~", precAtom
	case *ast.ArrayLitExpr:
		return "[" + joinExprs(n.Elems) + "]", precAtom
	case *ast.ChordLitExpr:
		return "[" + joinExprs(n.Elems) + "]", precAtom
	case *ast.RecordLitExpr:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = f.Name + ": " + formatExpr(f.Value, precTop)
		}
		return "{ " + strings.Join(parts, ", ") + " }", precAtom
	case *ast.LambdaExpr:
		// A lambda's body is parsed greedily (parser.parseLambda calls
		// parseExpr), so anywhere but the tail of an enclosing expression
		// it needs parens to keep a following argument from being
		// swallowed into the body; rate it at precTop like Let/If/Match.
		return "\\" + strings.Join(n.Params, " ") + " -> " + formatExpr(n.Body, precTop), precTop
	case *ast.ApplyExpr:
		fn := formatExpr(n.Fn, precApplication)
		arg := formatExpr(n.Arg, precAtom)
		return fn + " " + arg, precApplication
	case *ast.BinaryExpr:
		return formatBinary(n)
	case *ast.UnaryExpr:
		switch n.Op {
		case ast.OpNot:
			return "not " + formatExpr(n.Expr, precNot), precNot
		case ast.OpNeg:
			return "-" + formatExpr(n.Expr, precUnary), precUnary
		}
	case *ast.PipeExpr:
		return formatExpr(n.Left, precPipe) + " |> " + formatExpr(n.Right, precCompose), precPipe
	case *ast.ComposeExpr:
		return formatExpr(n.Left, precOr) + " >> " + formatExpr(n.Right, precCompose), precCompose
	case *ast.LetExpr:
		return "let " + formatPattern(n.Pattern) + " = " + formatExpr(n.Value, precPipe) +
			" in " + formatExpr(n.Body, precTop), precTop
	case *ast.IfExpr:
		return "if " + formatExpr(n.Cond, precPipe) + " then " + formatExpr(n.Then, precTop) +
			" else " + formatExpr(n.Else, precTop), precTop
	case *ast.MatchExpr:
		return formatMatch(n), precTop
	case *ast.FieldAccessExpr:
		return formatExpr(n.Target, precApplication) + "." + n.Field, precApplication
	case *ast.BlockExpr:
		return formatBlock(n), precAtom
	case *ast.TupletExpr:
		return formatTuplet(n), precAtom
	case *ast.DurationExpr:
		return formatExpr(n.Target, precAtom) + ":" + formatExpr(n.N, precAtom), precAtom
	}
	return "", precAtom
}

func joinExprs(exprs []ast.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = formatExpr(e, precTop)
	}
	return strings.Join(parts, ", ")
}

var binOpText = map[ast.BinOp]string{
	ast.OpOr: "or", ast.OpAnd: "and", ast.OpEq: "==", ast.OpNotEq: "!=",
	ast.OpLt: "<", ast.OpGt: ">", ast.OpLtEq: "<=", ast.OpGtEq: ">=",
	ast.OpConcat: "++", ast.OpAdd: "+", ast.OpSub: "-", ast.OpMul: "*", ast.OpDiv: "/",
}

var binOpPrec = map[ast.BinOp]int{
	ast.OpOr: precOr, ast.OpAnd: precAnd,
	ast.OpEq: precCompare, ast.OpNotEq: precCompare, ast.OpLt: precCompare,
	ast.OpGt: precCompare, ast.OpLtEq: precCompare, ast.OpGtEq: precCompare,
	ast.OpConcat: precConcat, ast.OpAdd: precAdditive, ast.OpSub: precAdditive,
	ast.OpMul: precMultiplicative, ast.OpDiv: precMultiplicative,
}

// rightAssoc holds the one binary operator (`++`) whose grammar production
// recurses on the right (parser.parseConcat), so its right operand may
// repeat the same precedence level without needing parens.
var rightAssoc = map[ast.BinOp]bool{ast.OpConcat: true}

func formatBinary(n *ast.BinaryExpr) (string, int) {
	prec := binOpPrec[n.Op]
	text := binOpText[n.Op]
	leftMin, rightMin := prec, prec+1
	if rightAssoc[n.Op] {
		leftMin, rightMin = prec+1, prec
	}
	left := formatExpr(n.Left, leftMin)
	right := formatExpr(n.Right, rightMin)
	return left + " " + text + " " + right, prec
}

func formatMatch(n *ast.MatchExpr) string {
	var b strings.Builder
	b.WriteString("match ")
	b.WriteString(formatExpr(n.Scrutinee, precPipe))
	b.WriteString(" with")
	for _, arm := range n.Arms {
		b.WriteString(" | ")
		b.WriteString(formatPattern(arm.Pattern))
		b.WriteString(" -> ")
		b.WriteString(formatExpr(arm.Body, precPipe))
	}
	return b.String()
}

func formatBlock(n *ast.BlockExpr) string {
	s := "| " + formatSlots(n.Slots) + " |"
	if n.TotalBeats != nil {
		s += ":" + formatExpr(n.TotalBeats, precAtom)
	}
	return s
}

func formatTuplet(n *ast.TupletExpr) string {
	return "{ " + formatSlots(n.Slots) + " }:" + formatExpr(n.Beats, precAtom)
}

func formatSlots(slots []ast.Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = formatSlot(s)
	}
	return strings.Join(parts, " ")
}

func formatSlot(s ast.Slot) string {
	text := formatExpr(s.Value, precAtom)
	if s.Weight != 1 {
		text += ":" + strconv.Itoa(s.Weight)
	}
	switch s.Articulation {
	case ast.ArticAccent:
		text += "^"
	case ast.ArticStaccato:
		text += "'"
	case ast.ArticLegato:
		text += "~"
	}
	return text
}

// wrap breaks text at the last pipe/compose-level operator boundary before
// column wrapWidth, indenting the continuation one level deeper. File
// applies it to every item; at most one break is made per item, and text
// with no such boundary before the column stays on one line.
func wrap(text string, indent int) string {
	if len(text) <= wrapWidth {
		return text
	}
	for _, sep := range []string{" |> ", " >> "} {
		if idx := strings.LastIndex(text[:wrapWidth], sep); idx > 0 {
			pad := strings.Repeat(indentUnit, indent+1)
			return text[:idx+len(sep)-1] + "\n" + pad + strings.TrimLeft(text[idx+len(sep):], " ")
		}
	}
	return text
}
