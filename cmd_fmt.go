package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/relanote-lang/relanote/internal/host"
)

// fmtCmd implements `relanote fmt <file>` (spec.md §6): canonicalize
// formatting in-place.
func fmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <file>",
		Short: "Format a relanote program in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := host.FormatFile(args[0])
			if err != nil {
				return ioError(err)
			}
			if !res.Success {
				return diagnosedError(res.Error)
			}
			if err := os.WriteFile(args[0], []byte(res.Formatted), 0o644); err != nil {
				return ioError(err)
			}
			return nil
		},
	}
}
