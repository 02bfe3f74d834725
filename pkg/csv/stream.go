package csv

import (
	"fmt"
	"io"
)

// Scanner iterates the records of an io.Reader. The input is read and parsed
// in full on the first call to Scan, so a parse error surfaces through Err
// before any record is returned.
//
//	scanner := csv.NewScanner(file).SetHasHeaders(true)
//	for scanner.Scan() {
//	    name, _ := scanner.Record().GetByName("name")
//	    fmt.Println(name)
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	reader     io.Reader
	opts       ReaderOptions
	hasHeaders bool

	doc    *Document
	index  int
	err    error
	parsed bool
}

// NewScanner returns a Scanner over reader using default options and no header.
func NewScanner(reader io.Reader) *Scanner {
	return &Scanner{
		reader: reader,
		opts:   DefaultReaderOptions(),
		doc:    NewDocument(),
		index:  -1,
	}
}

// SetHasHeaders makes the first line name the columns instead of being a record.
func (s *Scanner) SetHasHeaders(hasHeaders bool) *Scanner {
	s.hasHeaders = hasHeaders
	return s
}

// SetOptions sets the dialect and column count used to parse the input.
// The header setting is taken from SetHasHeaders, not from opts.
func (s *Scanner) SetOptions(opts ReaderOptions) *Scanner {
	s.opts = opts
	return s
}

// Scan advances to the next record. It returns false at the end of the
// records or after an error; Err tells the two apart.
func (s *Scanner) Scan() bool {
	if !s.parsed {
		s.parsed = true
		s.err = s.parse()
	}
	if s.err != nil {
		return false
	}
	if s.index < s.doc.RecordCount() {
		s.index++
	}
	return s.index < s.doc.RecordCount()
}

// Record returns the current record. Outside a successful Scan it returns an
// empty Record.
func (s *Scanner) Record() Record {
	rec, ok := s.doc.GetRecord(s.index)
	if !ok {
		return Record{row: row{fields: []string{}, line: -1, offset: -1}}
	}
	return rec
}

// Err returns the read or parse error that stopped the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Headers returns the column names once Scan has been called with
// SetHasHeaders(true), or an empty slice.
func (s *Scanner) Headers() []string {
	return s.doc.Headers()
}

func (s *Scanner) parse() error {
	data, err := io.ReadAll(s.reader)
	if err != nil {
		return fmt.Errorf("csv: read: %w", err)
	}

	opts := s.opts
	opts.ExpectHeader = s.hasHeaders
	doc, err := ParseDocumentWithOptions(string(data), opts)
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}
