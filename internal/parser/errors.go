package parser

import (
	"errors"
	"fmt"
)

// Domain names the error namespace shared by every Kind.
const Domain = "CSVParser"

// Kind classifies a parse failure. The numeric values are stable error codes.
type Kind int

const (
	// KindNoData means the document was empty before scanning began.
	KindNoData Kind = 1
	// KindBadFormat covers malformed quoting, invalid UTF-8 and column-count
	// mismatches, including a header row of the wrong width.
	KindBadFormat Kind = 2
	// KindBadHeader means a header row was expected but is missing or empty.
	KindBadHeader Kind = 3
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNoData:
		return "no data"
	case KindBadFormat:
		return "bad format"
	case KindBadHeader:
		return "bad header"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Code returns the integer error code of the Kind.
func (k Kind) Code() int {
	return int(k)
}

// Kind-level sentinels. errors.Is matches an *Error against the sentinel of its Kind.
var (
	ErrNoData    = errors.New("no data")
	ErrBadFormat = errors.New("bad format")
	ErrBadHeader = errors.New("bad header")
)

// Causes carried in Error.Err.
var (
	ErrEmptyHeader       = errors.New("header line is empty")
	ErrHeaderFieldCount  = errors.New("header does not match expected column count")
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
	ErrStrayCharacter    = errors.New("extraneous character after closing quote")
	ErrFieldCount        = errors.New("wrong number of fields")
	ErrInvalidUTF8       = errors.New("invalid UTF-8")
)

var (
	// ErrParserReused is returned when Parse is called again on a used Parser.
	ErrParserReused = errors.New("parser already used; call Reset before parsing again")

	// ErrStop may be returned by an Observer to halt parsing.
	ErrStop = errors.New("parsing stopped by observer")
)

// Error is a classified parse failure with the position it was detected at.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Line is the 0-based line number, counting only non-header lines.
	Line int
	// Column is the 0-based character column within the line.
	Column int
	// Offset is the byte offset in the document where the failure was detected.
	Offset int
	// Header reports whether the failure happened on the header row.
	Header bool
	// Text is the raw text of the offending line, without its terminator.
	Text string
	// Err is the underlying cause.
	Err error
}

// Error returns a formatted error message with position information.
func (e *Error) Error() string {
	if e.Kind == KindNoData {
		return fmt.Sprintf("csv: %v", e.Err)
	}
	if e.Header {
		return fmt.Sprintf("csv: %s on header line, column %d: %v", e.Kind, e.Column, e.Err)
	}
	return fmt.Sprintf("csv: %s on line %d, column %d: %v", e.Kind, e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNoData:
		return e.Kind == KindNoData
	case ErrBadFormat:
		return e.Kind == KindBadFormat
	case ErrBadHeader:
		return e.Kind == KindBadHeader
	}
	return false
}

// Code returns the integer error code of the Kind.
func (e *Error) Code() int {
	return e.Kind.Code()
}
