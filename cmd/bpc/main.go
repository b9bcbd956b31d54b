package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "bpc",
		Short: "A blueprint UI language compiler and language server",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
