// Package csv provides event-driven CSV parsing.
//
// The core of the package is Parser, which scans an in-memory document and
// reports each structural unit to an Observer as it is recognized:
//
//	StartDocument
//	  StartLine  Value  Value ...  EndLine
//	  ...
//	EndDocument
//
// A failed parse reports ParseError with a classified *Error instead of
// EndDocument. Quoted fields follow RFC 4180: they may contain the delimiter,
// line terminators and doubled quotes. Lines end with LF, CR or CRLF.
//
// # Consumers
//
// Several consumers are built on the same engine:
//
//   - Parse and ParseWithOptions build a Shape AST (*ast.ArrayDataNode)
//   - ParseDocument builds a Document with name-based field access
//   - ReadAll returns the data lines as [][]string
//   - NewScanner iterates the records of an io.Reader
//   - ParseArrowTable builds an Apache Arrow table of string columns
//   - Validate and ValidateReader only report errors
//
// # Thread Safety
//
// The package-level functions are safe for concurrent use. Each call creates
// its own Parser. A single Parser must not be shared between goroutines.
//
// # Example
//
//	obs := csv.ObserverFuncs{
//	    OnValue: func(v string) error { fmt.Println(v); return nil },
//	}
//	p := csv.NewParser("name,age\nAlice,30").
//	    SetExpectingColumnsHeader(true).
//	    SetObserver(obs)
//	if err := p.Parse(); err != nil {
//	    var perr *csv.Error
//	    if errors.As(err, &perr) {
//	        fmt.Println(perr.Kind, perr.Line, perr.Column)
//	    }
//	}
package csv

import (
	"fmt"
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
)

// astBuilder assembles an AST from parse events. Record positions are read
// from the running parser when each line starts.
type astBuilder struct {
	BaseObserver
	parser  *Parser
	header  bool
	records []ast.SchemaNode
	fields  []ast.SchemaNode
	pos     ast.Position
}

func (b *astBuilder) StartLine() error {
	// Physical 1-based line; a header occupies line 1.
	line := b.parser.LineNumber() + 1
	if b.header {
		line++
	}
	b.pos = ast.NewPosition(b.parser.Offset(), line, 1)
	b.fields = make([]ast.SchemaNode, 0, len(b.fields))
	return nil
}

func (b *astBuilder) Value(v string) error {
	b.fields = append(b.fields, ast.NewLiteralNode(v, b.pos))
	return nil
}

func (b *astBuilder) EndLine() error {
	b.records = append(b.records, ast.NewArrayDataNode(b.fields, b.pos))
	return nil
}

// Parse parses CSV into an AST using the default options.
//
// Returns an *ast.ArrayDataNode where each element is a record
// (*ast.ArrayDataNode) of fields (*ast.LiteralNode holding a string).
// Every line, including the first, is a record.
//
//	node, err := csv.Parse("name,age\nAlice,30\nBob,25")
//	records := node.(*ast.ArrayDataNode).Elements()
//	// records[0] is ["name" "age"]
func Parse(input string) (ast.SchemaNode, error) {
	return ParseWithOptions(input, DefaultReaderOptions())
}

// ParseWithOptions parses CSV into an AST using custom options.
//
// With opts.ExpectHeader the header is still the first record of the
// result, positioned at line 1, so the AST mirrors the document.
func ParseWithOptions(input string, opts ReaderOptions) (ast.SchemaNode, error) {
	p := NewParserWithOptions(input, opts)
	b := &astBuilder{parser: p, header: opts.ExpectHeader}
	p.SetObserver(b)
	if err := p.Parse(); err != nil {
		return nil, err
	}

	records := b.records
	if names := p.ColumnNames(); names != nil {
		pos := ast.NewPosition(0, 1, 1)
		header := make([]ast.SchemaNode, len(names))
		for i, name := range names {
			header[i] = ast.NewLiteralNode(name, pos)
		}
		records = append([]ast.SchemaNode{ast.NewArrayDataNode(header, pos)}, records...)
	}

	return ast.NewArrayDataNode(records, ast.NewPosition(0, 1, 1)), nil
}

// ParseReader reads all of reader and parses it into an AST with default options.
//
//	file, _ := os.Open("data.csv")
//	defer file.Close()
//	node, err := csv.ParseReader(file)
func ParseReader(reader io.Reader) (ast.SchemaNode, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("csv: read: %w", err)
	}
	return Parse(string(data))
}

// Format returns the format identifier for this parser.
func Format() string {
	return "CSV"
}

// Validate checks whether input is well-formed CSV under the default options.
// It builds no values beyond what the scan requires.
//
//	if err := csv.Validate(input); err != nil {
//	    fmt.Println("Invalid CSV:", err)
//	}
func Validate(input string) error {
	return ValidateWithOptions(input, DefaultReaderOptions())
}

// ValidateWithOptions checks whether input is well-formed CSV under opts.
func ValidateWithOptions(input string, opts ReaderOptions) error {
	return NewParserWithOptions(input, opts).Parse()
}

// ValidateReader reads all of reader and validates it with default options.
func ValidateReader(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("csv: read: %w", err)
	}
	return Validate(string(data))
}
