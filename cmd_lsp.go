package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/relanote-lang/relanote/internal/host"
)

// lspCmd implements `relanote lsp` (spec.md §6): a server over stdio. The
// LSP wire protocol itself (headers, JSON-RPC framing) is named in
// spec.md as out of scope for the core and is not reimplemented here;
// this command exercises the two queries spec.md §6 says the LSP surface
// is built from — completions and hover — plus analyze, over a minimal
// line-delimited request protocol, the simplest stdio framing that still
// lets a real LSP transport (the out-of-scope collaborator) sit in front
// of this process and translate textDocument/completion and
// textDocument/hover into these two requests.
//
// Request lines (one JSON object per line):
//
//	{"op":"completions"}
//	{"op":"hover","source":"...","offset":12}
//	{"op":"analyze","source":"..."}
//
// Each produces one JSON response line.
func lspCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run a stdio query server backing an LSP transport's completions/hover/diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			runLSPLoop(os.Stdin, os.Stdout)
			return nil
		},
	}
}

type lspRequest struct {
	Op     string `json:"op"`
	Source string `json:"source"`
	Offset int    `json:"offset"`
}

func runLSPLoop(in *os.File, out *os.File) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	writer := bufio.NewWriter(out)
	defer writer.Flush()

	log.Println("[LSP] stdio query server ready")
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req lspRequest
		if err := host.UnmarshalJSON(line, &req); err != nil {
			writeLSPResponse(writer, map[string]any{"error": err.Error()})
			continue
		}
		writeLSPResponse(writer, dispatchLSP(req))
		writer.Flush()
	}
}

func dispatchLSP(req lspRequest) any {
	switch req.Op {
	case "completions":
		return host.Completions()
	case "hover":
		return host.Hover(req.Source, req.Offset)
	case "analyze":
		return host.Analyze(req.Source)
	default:
		return map[string]any{"error": fmt.Sprintf("unknown op %q", req.Op)}
	}
}

func writeLSPResponse(w *bufio.Writer, v any) {
	data, err := host.MarshalJSON(v)
	if err != nil {
		log.Printf("[LSP] failed to marshal response: %v", err)
		return
	}
	w.Write(data)
	w.WriteByte('\n')
}
