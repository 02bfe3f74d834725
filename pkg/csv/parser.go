package csv

import (
	"context"

	"github.com/shapestone/shape-csv-events/internal/parser"
)

// Parser is an event-driven parser for one in-memory CSV document.
//
// Configure it with the Set methods, register an Observer and call Parse.
// Configuration is frozen once Parse has been called; Set calls made after
// that are ignored until Reset.
//
//	p := csv.NewParser("name,age\nAlice,30").
//	    SetExpectingColumnsHeader(true).
//	    SetObserver(obs)
//	if err := p.Parse(); err != nil {
//	    // err is a *csv.Error, or a wrapped Observer error
//	}
//	names := p.ColumnNames() // ["name" "age"]
//
// A Parser is not safe for concurrent use.
type Parser struct {
	document string
	opts     ReaderOptions
	observer Observer
	engine   *parser.Parser
}

// NewParser creates a Parser for document with default options.
func NewParser(document string) *Parser {
	return &Parser{
		document: document,
		opts:     DefaultReaderOptions(),
	}
}

// NewParserWithOptions creates a Parser for document with custom options.
func NewParserWithOptions(document string, opts ReaderOptions) *Parser {
	return &Parser{
		document: document,
		opts:     opts,
	}
}

// SetExpectedColumnsCount sets the required number of fields per line.
// 0 lets the header row, or else the first data row, decide.
func (p *Parser) SetExpectedColumnsCount(n int) *Parser {
	if p.engine == nil {
		p.opts.ExpectedColumns = n
	}
	return p
}

// SetExpectingColumnsHeader sets whether the first line holds column names.
func (p *Parser) SetExpectingColumnsHeader(expecting bool) *Parser {
	if p.engine == nil {
		p.opts.ExpectHeader = expecting
	}
	return p
}

// SetDelimiter sets the field delimiter.
func (p *Parser) SetDelimiter(comma rune) *Parser {
	if p.engine == nil {
		p.opts.Comma = comma
	}
	return p
}

// SetQuote sets the quote character.
func (p *Parser) SetQuote(quote rune) *Parser {
	if p.engine == nil {
		p.opts.Quote = quote
	}
	return p
}

// SetObserver registers the Observer that receives parse events.
func (p *Parser) SetObserver(observer Observer) *Parser {
	if p.engine == nil {
		p.observer = observer
	}
	return p
}

// Options returns the current configuration.
func (p *Parser) Options() ReaderOptions {
	return p.opts
}

// Parse scans the document, reporting events to the registered Observer.
func (p *Parser) Parse() error {
	return p.ParseContext(context.Background())
}

// ParseContext is like Parse but stops between lines once ctx is done.
func (p *Parser) ParseContext(ctx context.Context) error {
	if p.engine != nil {
		return ErrParserReused
	}
	if err := p.opts.Validate(); err != nil {
		return err
	}
	p.engine = parser.NewParser(p.document, p.opts.parserOptions(), p.observer)
	return p.engine.Parse(ctx)
}

// Reset discards all parse state so the Parser can be reconfigured and run again.
func (p *Parser) Reset() {
	p.engine = nil
}

// ColumnNames returns the header values, or nil if no header was read.
func (p *Parser) ColumnNames() []string {
	if p.engine == nil {
		return nil
	}
	return p.engine.ColumnNames()
}

// Line returns the raw text of the current (or last) line without its terminator.
// After a failed parse it is the full offending line.
func (p *Parser) Line() string {
	if p.engine == nil {
		return ""
	}
	return p.engine.Line()
}

// LineNumber returns the 0-based line number, counting only non-header lines.
func (p *Parser) LineNumber() int {
	if p.engine == nil {
		return 0
	}
	return p.engine.LineNumber()
}

// ColumnNumber returns the 0-based character column within the current line.
func (p *Parser) ColumnNumber() int {
	if p.engine == nil {
		return 0
	}
	return p.engine.ColumnNumber()
}

// Offset returns the byte offset of the scan cursor in the document.
func (p *Parser) Offset() int {
	if p.engine == nil {
		return 0
	}
	return p.engine.Offset()
}

// Err returns the parse error of the last Parse, or nil.
// Observer failures and cancellation are not parse errors and are not reported here.
func (p *Parser) Err() *Error {
	if p.engine == nil {
		return nil
	}
	return p.engine.Err()
}
