package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relanote-lang/relanote/internal/host"
)

// runCmd implements `relanote run <file>` (spec.md §6): evaluate and print
// the resulting value as JSON, the same jsoniter codec the host facade
// uses for every other structured output.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Evaluate a relanote program and print its resulting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := host.EvaluateFile(args[0])
			if err != nil {
				return ioError(err)
			}
			printDiagnostics(res.Diagnostics)
			data, err := host.MarshalJSON(res.Value)
			if err != nil {
				return ioError(err)
			}
			fmt.Println(string(data))
			fmt.Println(summaryBar(res.Diagnostics))
			if !res.Success {
				return diagnosedError("evaluation reported one or more errors")
			}
			return nil
		},
	}
	return cmd
}
