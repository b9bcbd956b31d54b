package main

import (
	"github.com/bpclang/bpc/gir"
	"github.com/bpclang/bpc/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The type catalog is loaded by the host environment; an
			// empty repository disables catalog-dependent validation.
			server := lsp.NewServer(version, gir.NewRepository())
			return server.RunStdio()
		},
	}
}
