package lsp

import (
	"errors"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/shapestone/shape-csv-events/pkg/csv"
)

const diagnosticSource = "shapecsv"

// Diagnostics parses text and returns at most one diagnostic for the first
// parse error. A well-formed document yields an empty, non-nil slice so that
// publishing it clears earlier diagnostics.
func Diagnostics(text string, opts csv.ReaderOptions) []protocol.Diagnostic {
	err := csv.ValidateWithOptions(text, opts)
	if err == nil {
		return []protocol.Diagnostic{}
	}

	source := diagnosticSource
	severity := protocol.DiagnosticSeverityError

	var perr *csv.Error
	if !errors.As(err, &perr) {
		// Invalid reader options; nothing in the document to point at.
		return []protocol.Diagnostic{{
			Severity: &severity,
			Source:   &source,
			Message:  err.Error(),
		}}
	}

	if perr.Kind == csv.KindNoData {
		severity = protocol.DiagnosticSeverityWarning
	}

	offset := min(max(perr.Offset, 0), len(text))
	start := positionAt(text, offset)
	end := start
	if rest := text[offset:]; rest != "" {
		n := strings.IndexAny(rest, "\r\n")
		if n < 0 {
			n = len(rest)
		}
		end = positionAt(text, offset+n)
	}

	return []protocol.Diagnostic{{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: protocol.Integer(perr.Code())},
		Source:   &source,
		Message:  perr.Error(),
	}}
}

// positionAt maps a byte offset in text to an LSP position. Lines end at LF,
// CR or CRLF and characters are counted in UTF-16 code units.
func positionAt(text string, offset int) protocol.Position {
	if offset > len(text) {
		offset = len(text)
	}

	var line, char protocol.UInteger
	for i := 0; i < offset; {
		switch c := text[i]; c {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			line++
			char = 0
			i++
		case '\n':
			line++
			char = 0
			i++
		default:
			r, size := utf8.DecodeRuneInString(text[i:])
			if n := utf16.RuneLen(r); n > 0 {
				char += protocol.UInteger(n)
			} else {
				char++
			}
			i += size
		}
	}
	return protocol.Position{Line: line, Character: char}
}

// optionsFor picks reader options for a document, switching to tabs for .tsv files.
func optionsFor(uri string, opts csv.ReaderOptions) csv.ReaderOptions {
	if strings.HasSuffix(strings.ToLower(uri), ".tsv") {
		opts.Comma = '\t'
	}
	return opts
}
