package main

import (
	"github.com/spf13/cobra"

	"github.com/relanote-lang/relanote/internal/host"
)

// checkCmd implements `relanote check <file>` (spec.md §6): analyze only,
// through type inference, without evaluating.
func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Analyze a relanote program without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := host.AnalyzeFile(args[0])
			if err != nil {
				return ioError(err)
			}
			printDiagnostics(res.Diagnostics)
			cmd.Println(summaryBar(res.Diagnostics))
			if !res.Success {
				return diagnosedError("analysis reported one or more errors")
			}
			return nil
		},
	}
}
