// Package tokenizer provides CSV tokenization using Shape's tokenizer framework.
package tokenizer

// Token type constants for CSV format.
//
// The tokenizer emits character-level tokens only. Whether a delimiter or a
// newline is structural or literal depends on quoting, which the parser tracks.
const (
	// Structural tokens
	TokenComma   = "Comma"   // field separator (',' by default)
	TokenQuote   = "Quote"   // quote character ('"' by default)
	TokenNewline = "Newline" // \r\n, \n or \r (line terminator)

	// Field content token
	TokenField = "Field" // run of characters that are none of the above
)
