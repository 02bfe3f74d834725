package csv

import (
	"github.com/shapestone/shape-csv-events/internal/parser"
)

// Domain names the error namespace shared by every Kind.
const Domain = parser.Domain

// Kind classifies a parse failure. The numeric values are stable error codes:
// NoData=1, BadFormat=2, BadHeader=3.
type Kind = parser.Kind

const (
	KindNoData    = parser.KindNoData
	KindBadFormat = parser.KindBadFormat
	KindBadHeader = parser.KindBadHeader
)

// Error is a classified parse failure carrying line, column, byte offset and
// the raw text of the offending line.
type Error = parser.Error

// Kind-level sentinels, matched by errors.Is against any *Error of that Kind.
var (
	ErrNoData    = parser.ErrNoData
	ErrBadFormat = parser.ErrBadFormat
	ErrBadHeader = parser.ErrBadHeader
)

// Specific causes.
var (
	// ErrEmptyHeader means a header was expected but the first line is blank.
	ErrEmptyHeader = parser.ErrEmptyHeader
	// ErrHeaderFieldCount means the header width differs from the configured column count.
	ErrHeaderFieldCount = parser.ErrHeaderFieldCount
	// ErrUnterminatedQuote means the document ended inside a quoted field.
	ErrUnterminatedQuote = parser.ErrUnterminatedQuote
	// ErrStrayCharacter means a character other than a delimiter or terminator followed a closing quote.
	ErrStrayCharacter = parser.ErrStrayCharacter
	// ErrFieldCount means a line has the wrong number of fields.
	ErrFieldCount = parser.ErrFieldCount
	// ErrInvalidUTF8 means the document contains a byte sequence that is not UTF-8.
	ErrInvalidUTF8 = parser.ErrInvalidUTF8
)

var (
	// ErrParserReused is returned when Parse is called again without Reset.
	ErrParserReused = parser.ErrParserReused
	// ErrStop may be returned by an Observer to halt parsing.
	ErrStop = parser.ErrStop
)
