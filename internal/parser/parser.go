// Package parser implements the event-driven CSV scanning state machine.
//
// The parser pulls character-level tokens from the CSV tokenizer and moves
// through these states:
//
//	LineStart -> FieldStart -> Unquoted | Quoted
//	Quoted -> QuoteCheck -> Quoted (escaped quote) | FieldEnd
//	Unquoted | FieldEnd -> FieldStart (delimiter) | LineStart (terminator)
//
// Completed structural units are reported to an Observer as they are seen.
package parser

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-csv-events/internal/tokenizer"
)

type state int

const (
	stateLineStart state = iota
	stateFieldStart
	stateUnquoted
	stateQuoted
	stateQuoteCheck
	stateFieldEnd
)

// Options configures the parser behavior.
type Options struct {
	// Comma is the field delimiter. Default: ','
	Comma rune
	// Quote is the quote character. Default: '"'
	Quote rune
	// ExpectedColumns is the required number of fields per line.
	// 0 lets the header row, or else the first data row, decide.
	ExpectedColumns int
	// ExpectHeader treats the first line as column names.
	ExpectHeader bool
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	return Options{
		Comma: ',',
		Quote: '"',
	}
}

// Parser scans one in-memory CSV document and reports events to an Observer.
// A Parser is single use: Parse may run once unless Reset is called.
type Parser struct {
	input    string
	opts     Options
	observer Observer

	tokenizer *shapetokenizer.Tokenizer
	valid     int
	state     state
	started   bool
	err       *Error

	expectedFields int
	headerPending  bool
	header         []string
	columnNames    []string
	fieldCount     int

	lineNumber   int
	columnNumber int
	offset       int
	line         strings.Builder
	value        strings.Builder
}

// NewParser creates a parser for input. A nil observer discards all events.
func NewParser(input string, opts Options, observer Observer) *Parser {
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}
	if observer == nil {
		observer = BaseObserver{}
	}
	return &Parser{
		input:    input,
		opts:     opts,
		observer: observer,
	}
}

// Reset clears all scan state so the document can be parsed again.
func (p *Parser) Reset() {
	p.tokenizer = nil
	p.valid = 0
	p.state = stateLineStart
	p.started = false
	p.err = nil
	p.expectedFields = 0
	p.headerPending = false
	p.header = nil
	p.columnNames = nil
	p.fieldCount = 0
	p.lineNumber = 0
	p.columnNumber = 0
	p.offset = 0
	p.line.Reset()
	p.value.Reset()
}

// Parse scans the whole document.
//
// It returns nil on success, the *Error that was reported to the observer's
// ParseError on a parse failure, a wrapped observer error if an observer
// callback failed, or ctx.Err() if ctx was cancelled between lines.
func (p *Parser) Parse(ctx context.Context) error {
	if p.started {
		return ErrParserReused
	}
	p.started = true

	if p.input == "" {
		return p.fail(KindNoData, ErrNoData)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// The tokenizer decodes runes, so only the valid UTF-8 prefix is handed to
	// it. Offsets then stay exact byte positions into input.
	p.valid = validPrefix(p.input)
	tok := tokenizer.NewTokenizerWithStreamAndOptions(
		shapetokenizer.NewStream(p.input[:p.valid]),
		tokenizer.Options{Comma: p.opts.Comma, Quote: p.opts.Quote},
	)
	p.tokenizer = &tok
	p.expectedFields = p.opts.ExpectedColumns
	p.headerPending = p.opts.ExpectHeader

	if err := p.observer.StartDocument(); err != nil {
		return observerFailure(err)
	}

	for {
		token, ok := p.tokenizer.NextToken()
		if !ok {
			break
		}
		if err := p.step(ctx, token); err != nil {
			return err
		}
	}

	if err := p.finish(ctx); err != nil {
		return err
	}

	if err := p.observer.EndDocument(); err != nil {
		return observerFailure(err)
	}
	return nil
}

// step advances the state machine by one token.
func (p *Parser) step(ctx context.Context, token *shapetokenizer.Token) error {
	kind := token.Kind()
	text := token.ValueString()

	switch p.state {
	case stateLineStart:
		if kind == tokenizer.TokenNewline {
			return p.blankLine(text)
		}
		if err := p.beginLine(); err != nil {
			return err
		}
		p.state = stateFieldStart
		return p.step(ctx, token)

	case stateFieldStart:
		switch kind {
		case tokenizer.TokenQuote:
			p.consume(text)
			p.state = stateQuoted
		case tokenizer.TokenComma:
			p.consume(text)
			return p.endField()
		case tokenizer.TokenNewline:
			if err := p.endField(); err != nil {
				return err
			}
			return p.endLine(ctx, text)
		default:
			p.consume(text)
			p.value.WriteString(text)
			p.state = stateUnquoted
		}

	case stateUnquoted:
		switch kind {
		case tokenizer.TokenComma:
			p.consume(text)
			p.state = stateFieldStart
			return p.endField()
		case tokenizer.TokenNewline:
			if err := p.endField(); err != nil {
				return err
			}
			return p.endLine(ctx, text)
		default:
			// A quote after the first character of an unquoted field is literal.
			p.consume(text)
			p.value.WriteString(text)
		}

	case stateQuoted:
		p.consume(text)
		if kind == tokenizer.TokenQuote {
			p.state = stateQuoteCheck
			return nil
		}
		p.value.WriteString(text)

	case stateQuoteCheck:
		if kind == tokenizer.TokenQuote {
			p.consume(text)
			p.value.WriteString(text)
			p.state = stateQuoted
			return nil
		}
		p.state = stateFieldEnd
		return p.step(ctx, token)

	case stateFieldEnd:
		switch kind {
		case tokenizer.TokenComma:
			p.consume(text)
			p.state = stateFieldStart
			return p.endField()
		case tokenizer.TokenNewline:
			if err := p.endField(); err != nil {
				return err
			}
			return p.endLine(ctx, text)
		default:
			return p.fail(KindBadFormat, ErrStrayCharacter)
		}
	}

	return nil
}

// finish handles end of input in whatever state the scan stopped in.
func (p *Parser) finish(ctx context.Context) error {
	if p.valid < len(p.input) {
		if p.state == stateLineStart {
			p.line.Reset()
			p.columnNumber = 0
		}
		return p.fail(KindBadFormat, ErrInvalidUTF8)
	}

	switch p.state {
	case stateLineStart:
		if p.headerPending {
			return p.fail(KindBadHeader, ErrEmptyHeader)
		}
		return nil
	case stateQuoted:
		return p.fail(KindBadFormat, ErrUnterminatedQuote)
	default:
		if err := p.endField(); err != nil {
			return err
		}
		return p.endLine(ctx, "")
	}
}

// consume records text as part of the current line.
func (p *Parser) consume(text string) {
	p.line.WriteString(text)
	p.columnNumber += utf8.RuneCountInString(text)
	p.offset += len(text)
}

func (p *Parser) beginLine() error {
	p.line.Reset()
	p.columnNumber = 0
	p.fieldCount = 0
	if p.headerPending {
		return nil
	}
	if err := p.observer.StartLine(); err != nil {
		return observerFailure(err)
	}
	return nil
}

// blankLine handles a terminator seen before any character of a line.
// Blank lines produce no events but still count toward the line number.
func (p *Parser) blankLine(terminator string) error {
	p.line.Reset()
	p.columnNumber = 0
	if p.headerPending {
		return p.fail(KindBadHeader, ErrEmptyHeader)
	}
	p.offset += len(terminator)
	p.lineNumber++
	return nil
}

func (p *Parser) endField() error {
	v := p.value.String()
	p.value.Reset()
	p.fieldCount++

	if p.headerPending {
		p.header = append(p.header, v)
		return nil
	}
	if err := p.observer.Value(v); err != nil {
		return observerFailure(err)
	}
	return nil
}

// endLine completes the current line. terminator is empty at end of input.
func (p *Parser) endLine(ctx context.Context, terminator string) error {
	wasHeader := p.headerPending

	if wasHeader {
		if p.opts.ExpectedColumns > 0 && p.fieldCount != p.opts.ExpectedColumns {
			return p.fail(KindBadFormat, fmt.Errorf("%w: got %d, expected %d",
				ErrHeaderFieldCount, p.fieldCount, p.opts.ExpectedColumns))
		}
		p.columnNames = p.header
		p.header = nil
		p.expectedFields = p.fieldCount
		p.headerPending = false
	} else {
		if p.expectedFields == 0 {
			p.expectedFields = p.fieldCount
		} else if p.fieldCount != p.expectedFields {
			return p.fail(KindBadFormat, fmt.Errorf("%w: got %d, expected %d",
				ErrFieldCount, p.fieldCount, p.expectedFields))
		}
		if err := p.observer.EndLine(); err != nil {
			return observerFailure(err)
		}
	}

	p.state = stateLineStart
	if terminator != "" {
		p.offset += len(terminator)
		if !wasHeader {
			p.lineNumber++
		}
	}

	return ctx.Err()
}

// fail records a classified error, reports it to the observer and returns it.
func (p *Parser) fail(kind Kind, cause error) error {
	// Complete the raw line so diagnostics see all of it, not just the scanned prefix.
	if p.offset < len(p.input) {
		rest := p.input[p.offset:]
		if i := strings.IndexAny(rest, "\r\n"); i >= 0 {
			rest = rest[:i]
		}
		p.line.WriteString(rest)
	}

	p.err = &Error{
		Kind:   kind,
		Line:   p.lineNumber,
		Column: p.columnNumber,
		Offset: p.offset,
		Header: p.headerPending,
		Text:   p.line.String(),
		Err:    cause,
	}
	p.observer.ParseError(p.err)
	return p.err
}

// validPrefix returns the length of the longest prefix of s that is valid UTF-8.
func validPrefix(s string) int {
	if utf8.ValidString(s) {
		return len(s)
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(s)
}

func observerFailure(err error) error {
	return fmt.Errorf("parser: observer: %w", err)
}

// ColumnNames returns the header values, or nil if no header was read.
func (p *Parser) ColumnNames() []string {
	if p.columnNames == nil {
		return nil
	}
	names := make([]string, len(p.columnNames))
	copy(names, p.columnNames)
	return names
}

// Line returns the raw text of the current (or last) line without its terminator.
func (p *Parser) Line() string {
	return p.line.String()
}

// LineNumber returns the 0-based number of the current line, counting only
// non-header lines.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// ColumnNumber returns the 0-based character column within the current line.
func (p *Parser) ColumnNumber() int {
	return p.columnNumber
}

// Offset returns the byte offset of the scan cursor.
func (p *Parser) Offset() int {
	return p.offset
}

// Err returns the parse error reported by the last Parse, if any.
func (p *Parser) Err() *Error {
	return p.err
}
