package csv

import "unicode/utf8"

// Locate maps a byte offset in document to a 1-based line and 1-based
// character column, counting LF, CR and CRLF as one line break each.
// Unlike Error.Line it counts every physical line, including the header
// and lines inside quoted fields.
//
//	if errors.As(err, &perr) {
//	    line, col := csv.Locate(doc, perr.Offset)
//	    fmt.Printf("%s:%d:%d: %v\n", name, line, col, perr.Err)
//	}
func Locate(document string, offset int) (line, column int) {
	if offset > len(document) {
		offset = len(document)
	}

	line, column = 1, 1
	for i := 0; i < offset; {
		switch document[i] {
		case '\r':
			if i+1 < len(document) && document[i+1] == '\n' {
				i++
			}
			fallthrough
		case '\n':
			line++
			column = 1
			i++
		default:
			_, size := utf8.DecodeRuneInString(document[i:])
			column++
			i += size
		}
	}
	return line, column
}
