package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relanote-lang/relanote/internal/host"
)

// tokensCmd implements the `tokens` host-facade operation (spec.md §6) as
// a CLI surface not named in the spec's CLI table but useful for debugging
// the lexer directly, in the same vein as the teacher shipping `-debug`
// diagnostics the spec never names.
func tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the lexical token stream for a relanote program as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toks, err := host.TokensFile(args[0])
			if err != nil {
				return ioError(err)
			}
			data, err := host.MarshalJSON(toks)
			if err != nil {
				return ioError(err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
