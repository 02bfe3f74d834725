package csv

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// arrowBuilder appends each value to a string column builder.
// Without a header or explicit column count, the first line fixes the width.
type arrowBuilder struct {
	BaseObserver
	pool     memory.Allocator
	builders []*array.StringBuilder
	fixed    bool
	column   int
	rows     int64
}

func (b *arrowBuilder) StartLine() error {
	b.column = 0
	return nil
}

func (b *arrowBuilder) Value(v string) error {
	if b.column >= len(b.builders) {
		if b.fixed {
			// The parser rejects this line once it ends.
			b.column++
			return nil
		}
		b.builders = append(b.builders, array.NewStringBuilder(b.pool))
	}
	b.builders[b.column].Append(v)
	b.column++
	return nil
}

func (b *arrowBuilder) EndLine() error {
	b.fixed = true
	b.rows++
	return nil
}

func (b *arrowBuilder) release() {
	for _, sb := range b.builders {
		sb.Release()
	}
}

// ParseArrowTable parses input into an Arrow table with one string column per
// CSV column and one row per data line.
//
// Columns are named from the header when opts.ExpectHeader is set, and
// column_1, column_2, ... otherwise. The caller must Release the table.
//
//	opts := csv.DefaultReaderOptions()
//	opts.ExpectHeader = true
//	tbl, err := csv.ParseArrowTable("name,age\nAlice,30", opts)
//	if err != nil {
//	    // handle error
//	}
//	defer tbl.Release()
//	tbl.NumRows() // 1
func ParseArrowTable(input string, opts ReaderOptions) (arrow.Table, error) {
	return ParseArrowTableWithAllocator(input, opts, memory.NewGoAllocator())
}

// ParseArrowTableWithAllocator is like ParseArrowTable but allocates column
// memory from pool.
func ParseArrowTableWithAllocator(input string, opts ReaderOptions, pool memory.Allocator) (arrow.Table, error) {
	b := &arrowBuilder{pool: pool}
	defer b.release()

	if opts.ExpectedColumns > 0 {
		b.fixed = true
		for i := 0; i < opts.ExpectedColumns; i++ {
			b.builders = append(b.builders, array.NewStringBuilder(pool))
		}
	}

	p := NewParserWithOptions(input, opts).SetObserver(b)
	if err := p.Parse(); err != nil {
		return nil, err
	}

	names := p.ColumnNames()
	if names != nil && len(b.builders) == 0 {
		// Header-only document: no data line created the builders.
		for range names {
			b.builders = append(b.builders, array.NewStringBuilder(pool))
		}
	}

	fields := make([]arrow.Field, len(b.builders))
	columns := make([]arrow.Column, len(b.builders))
	for i, sb := range b.builders {
		name := fmt.Sprintf("column_%d", i+1)
		if i < len(names) {
			name = names[i]
		}
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String}

		arr := sb.NewArray()
		chunked := arrow.NewChunked(fields[i].Type, []arrow.Array{arr})
		columns[i] = *arrow.NewColumn(fields[i], chunked)
		arr.Release()
		chunked.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	tbl := array.NewTable(schema, columns, b.rows)
	for i := range columns {
		columns[i].Release()
	}
	return tbl, nil
}
