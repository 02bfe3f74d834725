package main

import (
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-events/internal/lsp"
)

func newLSPCmd(flags *readerFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server that reports CSV parse errors as diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options("")
			if err != nil {
				return err
			}
			log.Noticef("starting language server %s", version)
			return lsp.NewServer(version, opts).RunStdio()
		},
	}
}
