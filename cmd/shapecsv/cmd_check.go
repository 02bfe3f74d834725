package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-events/pkg/csv"
)

func newCheckCmd(flags *readerFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Report the first parse error of each CSV file",
		Long: `Parses each file and prints "ok" or the first error as file:line:column.
Use "-" to read standard input. Exits non-zero if any file is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				ok, err := checkFile(cmd, flags, path)
				if err != nil {
					return err
				}
				if !ok {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}

// checkFile validates one file and prints its result. The error return is
// reserved for failures to read or configure, not for invalid CSV.
func checkFile(cmd *cobra.Command, flags *readerFlags, path string) (bool, error) {
	opts, err := flags.options(path)
	if err != nil {
		return false, err
	}
	doc, release, err := readInput(cmd, path)
	if err != nil {
		return false, err
	}
	defer release()

	out := cmd.OutOrStdout()
	err = csv.ValidateWithOptions(doc, opts)

	var perr *csv.Error
	switch {
	case err == nil:
		log.Infof("%s: valid (%d bytes)", path, len(doc))
		fmt.Fprintf(out, "%s: ok\n", path)
		return true, nil
	case errors.As(err, &perr):
		line, column := csv.Locate(doc, perr.Offset)
		log.Debugf("%s: kind=%d line=%d column=%d text=%q", path, perr.Code(), perr.Line, perr.Column, perr.Text)
		fmt.Fprintf(out, "%s:%d:%d: %s: %v\n", path, line, column, perr.Kind, perr.Err)
		return false, nil
	default:
		return false, err
	}
}
