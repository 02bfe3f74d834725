package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"

	"github.com/shapestone/shape-csv-events/pkg/csv"
)

// readerFlags holds the parsing flags shared by every subcommand.
type readerFlags struct {
	header  bool
	columns int
	comma   string
	quote   string
}

func (f *readerFlags) register(fs *pflag.FlagSet) {
	fs.BoolVarP(&f.header, "header", "H", false, "treat the first line as column names")
	fs.IntVarP(&f.columns, "columns", "c", 0, "required fields per line (0 infers from the header or first line)")
	fs.StringVarP(&f.comma, "comma", "d", "", `field delimiter, a single character or "tab" (default "," or tab for .tsv files)`)
	fs.StringVarP(&f.quote, "quote", "q", `"`, "quote character")
}

// options builds reader options for the file at path. Files ending in .tsv
// default to a tab delimiter unless --comma is given.
func (f *readerFlags) options(path string) (csv.ReaderOptions, error) {
	opts := csv.DefaultReaderOptions()
	opts.ExpectHeader = f.header
	opts.ExpectedColumns = f.columns

	switch {
	case f.comma != "":
		r, err := parseRune("comma", f.comma)
		if err != nil {
			return opts, err
		}
		opts.Comma = r
	case strings.EqualFold(filepath.Ext(path), ".tsv"):
		opts.Comma = '\t'
	}

	r, err := parseRune("quote", f.quote)
	if err != nil {
		return opts, err
	}
	opts.Quote = r

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseRune(name, value string) (rune, error) {
	switch value {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("--%s must be a single character, got %q", name, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}
