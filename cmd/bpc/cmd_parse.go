package main

import (
	"fmt"
	"os"

	"github.com/bpclang/bpc/diag"
	"github.com/bpclang/bpc/language"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .blp file and dump the tree and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			result := language.Analyze(data, nil)
			if result.Root != nil {
				fmt.Print(result.Root.Group.String())
			}
			printDiagnostics(args[0], result.Errors)
			printDiagnostics(args[0], result.Warnings)
			return nil
		},
	}
}

func printDiagnostics(file string, diagnostics []*diag.Diagnostic) {
	for _, d := range diagnostics {
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n",
			file, d.Span.Start.Line, d.Span.Start.Column, d.Severity, d.Message)
		for _, action := range d.Actions {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", action.Label)
		}
	}
}
