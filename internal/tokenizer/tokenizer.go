package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// Options configures the tokenizer behavior.
type Options struct {
	// Comma is the field delimiter. Default: ','
	Comma rune
	// Quote is the quote character. Default: '"'
	Quote rune
}

// DefaultOptions returns default tokenizer options.
func DefaultOptions() Options {
	return Options{
		Comma: ',',
		Quote: '"',
	}
}

// NewTokenizer creates a tokenizer for CSV format with the default delimiter and quote.
func NewTokenizer() tokenizer.Tokenizer {
	return NewTokenizerWithOptions(DefaultOptions())
}

// NewTokenizerWithOptions creates a tokenizer with custom options.
//
// Matchers are tried in order, so the two-character CRLF terminator is listed
// before the bare LF and bare CR forms:
//  1. Newlines (CRLF, LF, CR)
//  2. Delimiter
//  3. Quote
//  4. Field content (any other run of characters)
func NewTokenizerWithOptions(opts Options) tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		tokenizer.StringMatcherFunc(TokenNewline, "\r\n"),
		tokenizer.StringMatcherFunc(TokenNewline, "\n"),
		tokenizer.StringMatcherFunc(TokenNewline, "\r"),

		tokenizer.StringMatcherFunc(TokenComma, string(opts.Comma)),
		tokenizer.StringMatcherFunc(TokenQuote, string(opts.Quote)),

		FieldContentMatcherWithOptions(opts),
	)
}

// NewTokenizerWithStream creates a tokenizer for CSV format using a pre-configured stream.
func NewTokenizerWithStream(stream tokenizer.Stream) tokenizer.Tokenizer {
	return NewTokenizerWithStreamAndOptions(stream, DefaultOptions())
}

// NewTokenizerWithStreamAndOptions creates a tokenizer from a stream with custom options.
func NewTokenizerWithStreamAndOptions(stream tokenizer.Stream, opts Options) tokenizer.Tokenizer {
	tok := NewTokenizerWithOptions(opts)
	tok.InitializeFromStream(stream)
	return tok
}

// FieldContentMatcher creates a matcher for field content with the default delimiter and quote.
func FieldContentMatcher() tokenizer.Matcher {
	return FieldContentMatcherWithOptions(DefaultOptions())
}

// FieldContentMatcherWithOptions creates a matcher for runs of characters that are
// not the delimiter, the quote character, CR or LF.
//
// Grammar:
//
//	Field = Character+ ;
//	Character = <any character except delimiter, quote, CR, LF> ;
//
// Uses ByteStream for fast scanning when both delimiter and quote are ASCII.
func FieldContentMatcherWithOptions(opts Options) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		if opts.Comma < 128 && opts.Quote < 128 {
			if byteStream, ok := stream.(tokenizer.ByteStream); ok {
				return fieldContentByte(byteStream, byte(opts.Comma), byte(opts.Quote))
			}
		}
		return fieldContentRune(stream, opts.Comma, opts.Quote)
	}
}

func fieldContentByte(stream tokenizer.ByteStream, delim, quote byte) *tokenizer.Token {
	startPos := stream.BytePosition()

	for {
		b, ok := stream.PeekByte()
		if !ok {
			break
		}
		if b == delim || b == quote || b == '\n' || b == '\r' {
			break
		}
		stream.NextByte()
	}

	if stream.BytePosition() == startPos {
		return nil
	}

	value := stream.SliceFrom(startPos)
	return tokenizer.NewToken(TokenField, []rune(string(value)))
}

func fieldContentRune(stream tokenizer.Stream, delim, quote rune) *tokenizer.Token {
	var value []rune

	for {
		r, ok := stream.PeekChar()
		if !ok {
			break
		}
		if r == delim || r == quote || r == '\n' || r == '\r' {
			break
		}
		stream.NextChar()
		value = append(value, r)
	}

	if len(value) == 0 {
		return nil
	}

	return tokenizer.NewToken(TokenField, value)
}
