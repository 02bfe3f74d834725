package parser

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// recorder captures the event stream as short strings.
type recorder struct {
	events []string
	lines  [][]string
	errs   []*Error
	cur    []string
}

func (r *recorder) StartDocument() error {
	r.events = append(r.events, "doc+")
	return nil
}

func (r *recorder) EndDocument() error {
	r.events = append(r.events, "doc-")
	return nil
}

func (r *recorder) ParseError(err *Error) {
	r.events = append(r.events, "error")
	r.errs = append(r.errs, err)
}

func (r *recorder) StartLine() error {
	r.events = append(r.events, "line+")
	r.cur = []string{}
	return nil
}

func (r *recorder) EndLine() error {
	r.events = append(r.events, "line-")
	r.lines = append(r.lines, r.cur)
	return nil
}

func (r *recorder) Value(value string) error {
	r.events = append(r.events, "value:"+value)
	r.cur = append(r.cur, value)
	return nil
}

func parseString(t *testing.T, input string, opts Options) (*Parser, *recorder, error) {
	t.Helper()
	rec := &recorder{}
	p := NewParser(input, opts, rec)
	err := p.Parse(context.Background())
	return p, rec, err
}

func TestParse_EmptyInput(t *testing.T) {
	p, rec, err := parseString(t, "", DefaultOptions())

	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if perr.Kind != KindNoData {
		t.Errorf("expected KindNoData, got %v", perr.Kind)
	}
	if !errors.Is(err, ErrNoData) {
		t.Errorf("errors.Is(err, ErrNoData) = false")
	}
	if want := []string{"error"}; !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
	if p.Err() != perr {
		t.Errorf("Err() = %v, want %v", p.Err(), perr)
	}
}

func TestParse_Lines(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLines [][]string
	}{
		{
			name:      "single field",
			input:     "hello",
			wantLines: [][]string{{"hello"}},
		},
		{
			name:      "trailing newline adds no line",
			input:     "hello\n",
			wantLines: [][]string{{"hello"}},
		},
		{
			name:      "three fields",
			input:     "a,b,c",
			wantLines: [][]string{{"a", "b", "c"}},
		},
		{
			name:      "empty fields",
			input:     ",,",
			wantLines: [][]string{{"", "", ""}},
		},
		{
			name:      "trailing comma",
			input:     "a,b,",
			wantLines: [][]string{{"a", "b", ""}},
		},
		{
			name:      "quoted field with delimiter",
			input:     `a,"b,c",d`,
			wantLines: [][]string{{"a", "b,c", "d"}},
		},
		{
			name:      "escaped quotes",
			input:     `"he said ""hi"""`,
			wantLines: [][]string{{`he said "hi"`}},
		},
		{
			name:      "empty quoted field",
			input:     `"",x`,
			wantLines: [][]string{{"", "x"}},
		},
		{
			name:      "quoted field of one escaped quote",
			input:     `""""`,
			wantLines: [][]string{{`"`}},
		},
		{
			name:      "embedded LF",
			input:     "\"line1\nline2\",x",
			wantLines: [][]string{{"line1\nline2", "x"}},
		},
		{
			name:      "embedded CRLF",
			input:     "\"line1\r\nline2\",x",
			wantLines: [][]string{{"line1\r\nline2", "x"}},
		},
		{
			name:      "LF terminators",
			input:     "a,b\nc,d\n",
			wantLines: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:      "CRLF terminators",
			input:     "a,b\r\nc,d\r\n",
			wantLines: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:      "bare CR terminators",
			input:     "a,b\rc,d",
			wantLines: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:      "mixed terminators",
			input:     "a\rb\nc\r\nd",
			wantLines: [][]string{{"a"}, {"b"}, {"c"}, {"d"}},
		},
		{
			name:      "quoted last field before newline",
			input:     "\"a\"\n\"b\"\r\n",
			wantLines: [][]string{{"a"}, {"b"}},
		},
		{
			name:      "blank lines are skipped",
			input:     "a,b\n\n\nc,d",
			wantLines: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:      "quote inside unquoted field is literal",
			input:     `ab"c,d`,
			wantLines: [][]string{{`ab"c`, "d"}},
		},
		{
			name:      "multibyte values",
			input:     "héllo,wörld",
			wantLines: [][]string{{"héllo", "wörld"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rec, err := parseString(t, tt.input, DefaultOptions())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(rec.lines, tt.wantLines) {
				t.Errorf("lines = %q, want %q", rec.lines, tt.wantLines)
			}
		})
	}
}

func TestParse_EventOrder(t *testing.T) {
	_, rec, err := parseString(t, "a,b\nc,d", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"doc+",
		"line+", "value:a", "value:b", "line-",
		"line+", "value:c", "value:d", "line-",
		"doc-",
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestParse_Header(t *testing.T) {
	p, rec, err := parseString(t, "name,age\nAlice,30", Options{ExpectHeader: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := p.ColumnNames(), []string{"name", "age"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ColumnNames() = %q, want %q", got, want)
	}
	want := []string{"doc+", "line+", "value:Alice", "value:30", "line-", "doc-"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
	if p.LineNumber() != 0 {
		t.Errorf("LineNumber() = %d, want 0", p.LineNumber())
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	p, rec, err := parseString(t, "name,age\n", Options{ExpectHeader: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.ColumnNames(); !reflect.DeepEqual(got, []string{"name", "age"}) {
		t.Errorf("ColumnNames() = %q", got)
	}
	if want := []string{"doc+", "doc-"}; !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestParse_HeaderSetsSchema(t *testing.T) {
	_, rec, err := parseString(t, "a,b\n1,2\n3,4,5\n", Options{ExpectHeader: true})
	if !errors.Is(err, ErrFieldCount) {
		t.Fatalf("expected ErrFieldCount, got %v", err)
	}
	perr := rec.errs[0]
	if perr.Kind != KindBadFormat || perr.Line != 1 || perr.Header {
		t.Errorf("error = %+v, want BadFormat on data line 1", perr)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		opts       Options
		wantKind   Kind
		wantCause  error
		wantLine   int
		wantColumn int
		wantText   string
		wantHeader bool
	}{
		{
			name:       "unterminated quote",
			input:      `"abc`,
			wantKind:   KindBadFormat,
			wantCause:  ErrUnterminatedQuote,
			wantLine:   0,
			wantColumn: 4,
			wantText:   `"abc`,
		},
		{
			name:       "unterminated quote on later line",
			input:      "a,b\nc,\"d\ne",
			wantKind:   KindBadFormat,
			wantCause:  ErrUnterminatedQuote,
			wantLine:   1,
			wantColumn: 6,
			wantText:   "c,\"d\ne",
		},
		{
			name:       "stray character after closing quote",
			input:      `"ab"c,d`,
			wantKind:   KindBadFormat,
			wantCause:  ErrStrayCharacter,
			wantLine:   0,
			wantColumn: 4,
			wantText:   `"ab"c,d`,
		},
		{
			name:       "stray space after closing quote",
			input:      "x,y\n\"a\" ,b\nz,w",
			wantKind:   KindBadFormat,
			wantCause:  ErrStrayCharacter,
			wantLine:   1,
			wantColumn: 3,
			wantText:   `"a" ,b`,
		},
		{
			name:       "explicit column count, first row violates",
			input:      "a,b\nc,d,e",
			opts:       Options{ExpectedColumns: 3},
			wantKind:   KindBadFormat,
			wantCause:  ErrFieldCount,
			wantLine:   0,
			wantColumn: 3,
			wantText:   "a,b",
		},
		{
			name:       "inferred column count, second row violates",
			input:      "a,b\nc,d,e\n",
			wantKind:   KindBadFormat,
			wantCause:  ErrFieldCount,
			wantLine:   1,
			wantColumn: 5,
			wantText:   "c,d,e",
		},
		{
			name:       "blank header line",
			input:      "\nfoo",
			opts:       Options{ExpectHeader: true},
			wantKind:   KindBadHeader,
			wantCause:  ErrEmptyHeader,
			wantHeader: true,
		},
		{
			name:       "header wider than explicit count",
			input:      "a,b,c\n1,2,3",
			opts:       Options{ExpectHeader: true, ExpectedColumns: 2},
			wantKind:   KindBadFormat,
			wantCause:  ErrHeaderFieldCount,
			wantColumn: 5,
			wantText:   "a,b,c",
			wantHeader: true,
		},
		{
			name:       "unterminated quote in header",
			input:      `"name`,
			opts:       Options{ExpectHeader: true},
			wantKind:   KindBadFormat,
			wantCause:  ErrUnterminatedQuote,
			wantColumn: 5,
			wantText:   `"name`,
			wantHeader: true,
		},
		{
			name:       "invalid byte inside unquoted field",
			input:      "a\xffb,c",
			wantKind:   KindBadFormat,
			wantCause:  ErrInvalidUTF8,
			wantColumn: 1,
			wantText:   "a\xffb,c",
		},
		{
			name:       "invalid bytes at start of later line",
			input:      "x,y\n\xff\xfe",
			wantKind:   KindBadFormat,
			wantCause:  ErrInvalidUTF8,
			wantLine:   1,
			wantText:   "\xff\xfe",
		},
		{
			name:       "invalid byte inside quoted header field",
			input:      "\"q\xff\"\n1",
			opts:       Options{ExpectHeader: true},
			wantKind:   KindBadFormat,
			wantCause:  ErrInvalidUTF8,
			wantColumn: 2,
			wantText:   "\"q\xff\"",
			wantHeader: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rec, err := parseString(t, tt.input, tt.opts)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantCause) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantCause)
			}
			if len(rec.errs) != 1 {
				t.Fatalf("expected exactly one ParseError event, got %d", len(rec.errs))
			}

			perr := rec.errs[0]
			if perr != err {
				t.Errorf("returned error %v is not the reported error %v", err, perr)
			}
			if perr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", perr.Kind, tt.wantKind)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", perr.Line, tt.wantLine)
			}
			if perr.Column != tt.wantColumn {
				t.Errorf("Column = %d, want %d", perr.Column, tt.wantColumn)
			}
			if perr.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", perr.Text, tt.wantText)
			}
			if perr.Header != tt.wantHeader {
				t.Errorf("Header = %v, want %v", perr.Header, tt.wantHeader)
			}

			if last := rec.events[len(rec.events)-1]; last != "error" {
				t.Errorf("last event = %q, want error", last)
			}
			for _, ev := range rec.events {
				if ev == "doc-" {
					t.Error("document end emitted after a parse error")
				}
			}
		})
	}
}

func TestParse_ErrorKeepsPriorEvents(t *testing.T) {
	_, rec, err := parseString(t, "a,b\nc,d\ne", DefaultOptions())
	if !errors.Is(err, ErrBadFormat) {
		t.Fatalf("expected ErrBadFormat, got %v", err)
	}
	want := []string{
		"doc+",
		"line+", "value:a", "value:b", "line-",
		"line+", "value:c", "value:d", "line-",
		"line+", "value:e",
		"error",
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestParse_ErrorOffset(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  byte
	}{
		{"stray character after CRLF", "a,b\r\n\"x\"y,z", 'y'},
		{"invalid byte after multibyte runes", "é,ü\n\xffz", 0xff},
		{"invalid byte in quoted field", "ab,\"c\xfe\"", 0xfe},
		{"truncated rune", "a,\xe2\x82", 0xe2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseString(t, tt.input, DefaultOptions())

			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if perr.Offset < 0 || perr.Offset >= len(tt.input) {
				t.Fatalf("Offset %d outside input of %d bytes", perr.Offset, len(tt.input))
			}
			if got := tt.input[perr.Offset]; got != tt.want {
				t.Errorf("Offset %d points at %q, want %q", perr.Offset, got, tt.want)
			}
		})
	}
}

func TestParse_InvalidUTF8KeepsPriorLines(t *testing.T) {
	input := "ä,b\n\"c\nd\",e\n\xff\xfe,f"
	p, rec, err := parseString(t, input, DefaultOptions())
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}

	want := [][]string{{"ä", "b"}, {"c\nd", "e"}}
	if !reflect.DeepEqual(rec.lines, want) {
		t.Errorf("lines = %q, want %q", rec.lines, want)
	}
	if p.Offset() != strings.Index(input, "\xff") {
		t.Errorf("Offset() = %d, want %d", p.Offset(), strings.Index(input, "\xff"))
	}
}

func TestValidPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 3},
		{"héllo", 6},
		{"\xff", 0},
		{"ab\xffcd", 2},
		{"é\xe2\x82", 2},
		{"\uFFFD", 3},
	}

	for _, tt := range tests {
		if got := validPrefix(tt.input); got != tt.want {
			t.Errorf("validPrefix(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParse_CustomDialect(t *testing.T) {
	_, rec, err := parseString(t, "a;'b;c';'it''s'\n", Options{Comma: ';', Quote: '\''})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"a", "b;c", "it's"}}
	if !reflect.DeepEqual(rec.lines, want) {
		t.Errorf("lines = %q, want %q", rec.lines, want)
	}
}

func TestParse_Positions(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		opts       Options
		wantLine   string
		wantNumber int
		wantColumn int
	}{
		{"single line", "ab,c", Options{}, "ab,c", 0, 4},
		{"trailing newline", "ab,c\n", Options{}, "ab,c", 1, 4},
		{"two lines", "a\nbcd", Options{}, "bcd", 1, 3},
		{"header excluded from count", "h\nx\ny", Options{ExpectHeader: true}, "y", 1, 1},
		{"blank lines counted", "a\n\n\nb", Options{}, "b", 3, 1},
		{"multibyte columns", "héllo", Options{}, "héllo", 0, 5},
		{"embedded newline is one logical line", "\"a\nb\",c", Options{}, "\"a\nb\",c", 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, err := parseString(t, tt.input, tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			// Accessors are read twice to check they are stable.
			for i := 0; i < 2; i++ {
				if got := p.Line(); got != tt.wantLine {
					t.Errorf("Line() = %q, want %q", got, tt.wantLine)
				}
				if got := p.LineNumber(); got != tt.wantNumber {
					t.Errorf("LineNumber() = %d, want %d", got, tt.wantNumber)
				}
				if got := p.ColumnNumber(); got != tt.wantColumn {
					t.Errorf("ColumnNumber() = %d, want %d", got, tt.wantColumn)
				}
			}
		})
	}
}

func TestParse_Reuse(t *testing.T) {
	rec := &recorder{}
	p := NewParser("a,b", DefaultOptions(), rec)

	if err := p.Parse(context.Background()); err != nil {
		t.Fatalf("first Parse: %v", err)
	}
	if err := p.Parse(context.Background()); !errors.Is(err, ErrParserReused) {
		t.Fatalf("second Parse: expected ErrParserReused, got %v", err)
	}

	p.Reset()
	if err := p.Parse(context.Background()); err != nil {
		t.Fatalf("Parse after Reset: %v", err)
	}
	if len(rec.lines) != 2 {
		t.Errorf("expected 2 lines across both parses, got %d", len(rec.lines))
	}
}

func TestParse_ObserverError(t *testing.T) {
	boom := errors.New("boom")
	var values []string
	obs := ObserverFuncs{
		OnValue: func(v string) error {
			values = append(values, v)
			if v == "stop" {
				return boom
			}
			return nil
		},
		OnParseError: func(err *Error) {
			t.Errorf("unexpected ParseError event: %v", err)
		},
	}

	p := NewParser("a,stop,c\nd,e,f", DefaultOptions(), obs)
	err := p.Parse(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped observer error, got %v", err)
	}
	if want := []string{"a", "stop"}; !reflect.DeepEqual(values, want) {
		t.Errorf("values = %q, want %q", values, want)
	}
}

func TestParse_ObserverStop(t *testing.T) {
	lines := 0
	obs := ObserverFuncs{
		OnEndLine: func() error {
			lines++
			if lines == 2 {
				return ErrStop
			}
			return nil
		},
	}

	err := NewParser("a\nb\nc\nd", DefaultOptions(), obs).Parse(context.Background())
	if !errors.Is(err, ErrStop) {
		t.Fatalf("expected ErrStop, got %v", err)
	}
	if lines != 2 {
		t.Errorf("lines = %d, want 2", lines)
	}
}

func TestParse_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := 0
	obs := ObserverFuncs{
		OnEndLine: func() error {
			lines++
			cancel()
			return nil
		},
	}

	err := NewParser("a\nb\nc", DefaultOptions(), obs).Parse(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if lines != 1 {
		t.Errorf("lines = %d, want 1", lines)
	}
}

func TestParse_NilObserver(t *testing.T) {
	p := NewParser("a,b\nc,d", DefaultOptions(), nil)
	if err := p.Parse(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_ValueCountMatchesSchema(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString(`x,"y,1","z""2"` + "\r\n")
	}

	_, rec, err := parseString(t, sb.String(), Options{ExpectedColumns: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(rec.lines))
	}
	for i, line := range rec.lines {
		if len(line) != 3 {
			t.Errorf("line %d has %d values, want 3", i, len(line))
		}
	}

	starts, ends := 0, 0
	for _, ev := range rec.events {
		switch ev {
		case "doc+":
			starts++
		case "doc-":
			ends++
		}
	}
	if starts != 1 || ends != 1 {
		t.Errorf("document events = %d start, %d end, want 1 each", starts, ends)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
		code int
	}{
		{KindNoData, "no data", 1},
		{KindBadFormat, "bad format", 2},
		{KindBadHeader, "bad header", 3},
		{Kind(99), "Kind(99)", 99},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.kind.Code(); got != tt.code {
				t.Errorf("Code() = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "no data",
			err:  &Error{Kind: KindNoData, Err: ErrNoData},
			want: "csv: no data",
		},
		{
			name: "data line",
			err:  &Error{Kind: KindBadFormat, Line: 4, Column: 7, Err: ErrUnterminatedQuote},
			want: "csv: bad format on line 4, column 7: unterminated quoted field",
		},
		{
			name: "header line",
			err:  &Error{Kind: KindBadHeader, Header: true, Err: ErrEmptyHeader},
			want: "csv: bad header on header line, column 0: header line is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{Kind: KindBadHeader, Err: ErrEmptyHeader}

	if !errors.Is(err, ErrBadHeader) {
		t.Error("expected errors.Is(err, ErrBadHeader)")
	}
	if !errors.Is(err, ErrEmptyHeader) {
		t.Error("expected errors.Is(err, ErrEmptyHeader)")
	}
	if errors.Is(err, ErrBadFormat) {
		t.Error("unexpected errors.Is(err, ErrBadFormat)")
	}
	if err.Code() != 3 {
		t.Errorf("Code() = %d, want 3", err.Code())
	}
}
