package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-events/pkg/csv"
)

func newTableCmd(flags *readerFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "table <file>",
		Short: "Load a CSV file into an Arrow table and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			opts, err := flags.options(path)
			if err != nil {
				return err
			}
			doc, release, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			defer release()

			tbl, err := csv.ParseArrowTable(doc, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			defer tbl.Release()

			log.Infof("%s: %d rows, %d columns", path, tbl.NumRows(), tbl.NumCols())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			cols := int(tbl.NumCols())
			for i := 0; i < cols; i++ {
				if i > 0 {
					fmt.Fprint(w, "\t")
				}
				fmt.Fprint(w, tbl.Schema().Field(i).Name)
			}
			fmt.Fprintln(w)

			rows := int(tbl.NumRows())
			if limit >= 0 && rows > limit {
				rows = limit
			}
			for r := 0; r < rows; r++ {
				for i := 0; i < cols; i++ {
					if i > 0 {
						fmt.Fprint(w, "\t")
					}
					col := tbl.Column(i).Data().Chunk(0).(*array.String)
					fmt.Fprint(w, col.Value(r))
				}
				fmt.Fprintln(w)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "(%d rows)\n", tbl.NumRows())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum rows to print (-1 for all)")

	return cmd
}
