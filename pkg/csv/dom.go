package csv

import (
	"github.com/shapestone/shape-core/pkg/ast"
)

// Document is a parsed CSV file: optional column names plus its data rows.
// Rows produced by the parser remember the line and byte offset they started
// at, so callers can point back into the source.
//
//	opts := csv.DefaultReaderOptions()
//	opts.ExpectHeader = true
//	doc, _ := csv.ParseDocumentWithOptions("name,age\nAlice,30", opts)
//	rec, _ := doc.GetRecord(0)
//	age, _ := rec.GetByName("age") // "30"
type Document struct {
	headers []string
	columns map[string]int
	rows    []row
}

// Record is one data row of a Document.
type Record struct {
	row
	columns map[string]int
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{headers: []string{}}
}

// ParseDocument parses input with default options. Every line becomes a
// record; call SetHeaders to name the columns.
func ParseDocument(input string) (*Document, error) {
	return ParseDocumentWithOptions(input, DefaultReaderOptions())
}

// ParseDocumentWithOptions parses input into a Document. With
// opts.ExpectHeader the header line names the columns.
func ParseDocumentWithOptions(input string, opts ReaderOptions) (*Document, error) {
	names, rows, err := collect(input, opts)
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	if names != nil {
		doc.SetHeaders(names)
	}
	doc.rows = rows
	return doc, nil
}

// SetHeaders names the columns used by Record.GetByName. When a name
// repeats, the leftmost column wins.
func (d *Document) SetHeaders(headers []string) *Document {
	d.headers = headers
	d.columns = make(map[string]int, len(headers))
	for i, name := range headers {
		if _, dup := d.columns[name]; !dup {
			d.columns[name] = i
		}
	}
	return d
}

// AddRecord appends a row that did not come from a parse. Its Line and
// Offset are -1.
func (d *Document) AddRecord(fields []string) *Document {
	d.rows = append(d.rows, row{fields: fields, line: -1, offset: -1})
	return d
}

// Headers returns the column names, or an empty slice.
func (d *Document) Headers() []string {
	return d.headers
}

// Records returns every data row in order.
func (d *Document) Records() []Record {
	records := make([]Record, len(d.rows))
	for i, r := range d.rows {
		records[i] = Record{row: r, columns: d.columns}
	}
	return records
}

// RecordCount returns the number of data rows, not counting the header.
func (d *Document) RecordCount() int {
	return len(d.rows)
}

// GetRecord returns the data row at index, or false if index is out of range.
func (d *Document) GetRecord(index int) (Record, bool) {
	if index < 0 || index >= len(d.rows) {
		return Record{}, false
	}
	return Record{row: d.rows[index], columns: d.columns}, true
}

// Get returns the field at index.
func (r Record) Get(index int) (string, bool) {
	if index < 0 || index >= len(r.fields) {
		return "", false
	}
	return r.fields[index], true
}

// GetByName returns the field in the named column. It reports false when the
// Document has no such header or the row is too short to reach it.
func (r Record) GetByName(name string) (string, bool) {
	i, ok := r.columns[name]
	if !ok {
		return "", false
	}
	return r.Get(i)
}

// Fields returns a copy of the field values.
func (r Record) Fields() []string {
	fields := make([]string, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Line returns the 0-based data line the row was parsed from, with the same
// numbering as Error.Line, or -1 for rows added with AddRecord.
func (r Record) Line() int {
	return r.line
}

// Offset returns the byte offset where the row starts in the parsed input,
// or -1 for rows added with AddRecord.
func (r Record) Offset() int {
	return r.offset
}

// ToAST converts the Document to the node shape produced by Parse, headers
// first. Nodes carry zero positions.
func (d *Document) ToAST() (*ast.ArrayDataNode, error) {
	rows := make([][]string, 0, len(d.rows)+1)
	if len(d.headers) > 0 {
		rows = append(rows, d.headers)
	}
	for _, r := range d.rows {
		rows = append(rows, r.fields)
	}
	return RecordsToNode(rows), nil
}

// FromAST builds a Document from the node shape produced by Parse. Every
// record, a leading header record included, becomes a data row. A row's
// Offset comes from its record node when the node has a position; its Line
// is always -1.
func FromAST(node ast.SchemaNode) (*Document, error) {
	records, err := NodeToRecords(node)
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	elems := node.(*ast.ArrayDataNode).Elements()
	for i, fields := range records {
		r := row{fields: fields, line: -1, offset: -1}
		if pos := elems[i].Position(); pos.IsValid() {
			r.offset = pos.Offset
		}
		doc.rows = append(doc.rows, r)
	}
	return doc, nil
}
