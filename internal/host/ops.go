package host

import (
	"github.com/relanote-lang/relanote/internal/ast"
	"github.com/relanote-lang/relanote/internal/diag"
	"github.com/relanote-lang/relanote/internal/format"
	"github.com/relanote-lang/relanote/internal/lexer"
	"github.com/relanote-lang/relanote/internal/parser"
)

// FormatResult is operation `format`'s output.
type FormatResult struct {
	Formatted string `json:"formatted"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// Format re-prints source in canonical style, spec.md §6's `format`
// operation. A lex or parse error aborts with no partial output, since
// the formatter has no defined behavior for a tree the parser could not
// fully recover (spec.md §4.7 assumes a complete, parsed File).
func Format(source string) FormatResult {
	toks, lexDiags := lexer.Lex(source)
	if hasErrors(lexDiags) {
		return FormatResult{Success: false, Error: firstErrorMessage(lexDiags)}
	}
	file, parseDiags := parser.Parse(toks)
	if hasErrors(parseDiags) {
		return FormatResult{Success: false, Error: firstErrorMessage(parseDiags)}
	}
	return FormatResult{Formatted: format.File(file), Success: true}
}

// TokenDTO is one lexical token's wire shape for operation `tokens`, used
// by an LSP client for semantic highlighting.
type TokenDTO struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  string `json:"kind"`
}

// Tokens lexes source and returns every token's span and kind, spec.md
// §6's `tokens` operation. The EOF sentinel token is omitted since it
// carries no source span a highlighter would ever draw.
func Tokens(source string) []TokenDTO {
	toks, _ := lexer.Lex(source)
	out := make([]TokenDTO, 0, len(toks))
	for _, t := range toks {
		if t.Kind == lexer.EOF {
			continue
		}
		out = append(out, TokenDTO{Start: t.Span.Start, End: t.Span.End, Kind: t.Kind.String()})
	}
	return out
}

// HoverResult is operation `hover`'s output.
type HoverResult struct {
	Found   bool   `json:"found"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Content string `json:"content"`
}

// Hover locates the token containing byteOffset and, for an identifier,
// reports its resolved kind and (if inferred) type as hover content,
// spec.md §6's `hover` operation backing the LSP's textDocument/hover.
func Hover(source string, byteOffset int) HoverResult {
	toks, _ := lexer.Lex(source)
	var tok *lexer.Token
	for i := range toks {
		t := &toks[i]
		if t.Span.Start <= byteOffset && byteOffset < t.Span.End {
			tok = t
			break
		}
	}
	if tok == nil {
		return HoverResult{Found: false}
	}

	p := runPipeline(source)
	content := tok.Kind.String() + " " + tok.Text
	if tok.Kind == lexer.Ident {
		if t := identTypeAt(p, tok.Span); t != "" {
			content = tok.Text + " : " + t
		}
	}
	return HoverResult{Found: true, Start: tok.Span.Start, End: tok.Span.End, Content: content}
}

func identTypeAt(p *pipeline, span diag.Span) string {
	for e, t := range p.info.ExprTypes {
		if e.ExprSpan() == span {
			return t.String()
		}
	}
	// A top-level `let` name is a pattern, not an expression; report the
	// type inferred for its right-hand side.
	for _, item := range p.file.Items {
		if ld, ok := item.(*ast.LetDecl); ok {
			if ip, ok := ld.Pattern.(*ast.IdentPattern); ok && ip.Span == span {
				if t, ok := p.info.ExprTypes[ld.Value]; ok {
					return t.String()
				}
			}
		}
	}
	return ""
}

// CompletionDTO is one completion candidate's wire shape for operation
// `completions`.
type CompletionDTO struct {
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Template string `json:"insert_template"`
}

// Completions returns every prelude-level identifier the editor can offer
// without analyzing any particular document, spec.md §6's `completions`
// operation — "static prelude identifier list with kind + insert template".
func Completions() []CompletionDTO {
	return completionList()
}
