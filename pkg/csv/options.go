package csv

import (
	"unicode/utf8"

	"github.com/shapestone/shape-csv-events/internal/parser"
)

// ReaderOptions configures CSV parsing behavior.
type ReaderOptions struct {
	// Comma is the field delimiter.
	// It must be a valid rune and not \r, \n, or the Unicode replacement character (0xFFFD).
	// Default: ','
	Comma rune

	// Quote is the quote character. Same restrictions as Comma, and it must differ from Comma.
	// Default: '"'
	Quote rune

	// ExpectedColumns is the required number of fields per line.
	// If positive, every line (and the header, if any) must have exactly this many fields.
	// If 0, the header row, or else the first data row, determines the count.
	// Default: 0
	ExpectedColumns int

	// ExpectHeader treats the first line as column names instead of data.
	// Default: false
	ExpectHeader bool
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Comma:           ',',
		Quote:           '"',
		ExpectedColumns: 0,
		ExpectHeader:    false,
	}
}

// validDelim reports whether r is a valid field delimiter or quote character.
func validDelim(r rune) bool {
	return r != 0 && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Validate checks if the options are valid.
func (o ReaderOptions) Validate() error {
	if !validDelim(o.Comma) {
		return &OptionsError{Field: "Comma", Message: "invalid delimiter"}
	}
	if !validDelim(o.Quote) {
		return &OptionsError{Field: "Quote", Message: "invalid quote character"}
	}
	if o.Quote == o.Comma {
		return &OptionsError{Field: "Quote", Message: "quote character same as delimiter"}
	}
	if o.ExpectedColumns < 0 {
		return &OptionsError{Field: "ExpectedColumns", Message: "must not be negative"}
	}
	return nil
}

func (o ReaderOptions) parserOptions() parser.Options {
	return parser.Options{
		Comma:           o.Comma,
		Quote:           o.Quote,
		ExpectedColumns: o.ExpectedColumns,
		ExpectHeader:    o.ExpectHeader,
	}
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}
