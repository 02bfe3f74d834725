package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-events/internal/mmapfile"
)

// readInput loads path, or stdin when path is "-". Files are memory-mapped;
// call release once the document is no longer needed.
func readInput(cmd *cobra.Command, path string) (doc string, release func(), err error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return string(data), func() {}, nil
	}

	f, err := mmapfile.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	log.Debugf("%s: mapped %d bytes", path, f.Len())
	return f.Text(), func() {
		if err := f.Close(); err != nil {
			log.Warningf("%s: %v", path, err)
		}
	}, nil
}
