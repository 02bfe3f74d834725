package tokenizer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// FuzzTokenizer checks that tokenizing never panics and that the emitted
// token values always reassemble the input.
// Run with: go test -fuzz=FuzzTokenizer -fuzztime=30s ./internal/tokenizer
func FuzzTokenizer(f *testing.F) {
	seeds := []string{
		"",
		"a",
		",",
		"\n",
		"\r",
		"\r\n",
		"\"",
		"\"\"",
		"a,b,c",
		"\"quoted\"",
		"\"with,comma\"",
		"\"with\"\"quote\"",
		"a\nb\rc\r\nd",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		stream := tokenizer.NewStream(input)
		tok := NewTokenizerWithStream(stream)

		var sb strings.Builder
		for {
			token, ok := tok.NextToken()
			if !ok {
				break
			}
			sb.WriteString(token.ValueString())
		}

		if !stream.IsEos() {
			t.Fatalf("tokenizer stopped before end of input %q", input)
		}
		if sb.String() != input {
			t.Fatalf("tokens reassemble to %q, want %q", sb.String(), input)
		}
	})
}
