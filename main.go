// Command relanote is the CLI surface spec.md §6 names as an external
// collaborator of the core: run/render/check/fmt/lsp/tokens/watch, each a
// thin wrapper over internal/host's facade, in the same spirit the teacher
// repository's main.go is a thin wrapper over its own internal/ engine.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// cliError carries the CLI exit code spec.md §6 specifies (1 for a
// diagnosed error, 2 for I/O failure) through cobra's plain error return,
// since cobra itself has no notion of distinct failure codes.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func diagnosedError(msg string) error {
	return &cliError{code: 1, err: fmt.Errorf("%s", msg)}
}

func ioError(err error) error {
	return &cliError{code: 2, err: fmt.Errorf("io error: %w", err)}
}

func exitCodeFor(err error) int {
	var ce *cliError
	if ok := asCliError(err, &ce); ok {
		return ce.code
	}
	return 1
}

func asCliError(err error, target **cliError) bool {
	if ce, ok := err.(*cliError); ok {
		*target = ce
		return true
	}
	return false
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "relanote",
		Short:         "Relanote: a relative-pitch musical DSL compiler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		runCmd(),
		renderCmd(),
		checkCmd(),
		fmtCmd(),
		tokensCmd(),
		lspCmd(),
		watchCmd(),
	)
	return root
}
