package csv

// row is one data line together with where it started in the document.
type row struct {
	fields []string
	line   int
	offset int
}

// recordCollector gathers every data line and its position.
type recordCollector struct {
	BaseObserver
	parser  *Parser
	rows    []row
	current row
}

func (c *recordCollector) StartLine() error {
	c.current = row{
		fields: make([]string, 0, len(c.current.fields)),
		line:   c.parser.LineNumber(),
		offset: c.parser.Offset(),
	}
	return nil
}

func (c *recordCollector) Value(v string) error {
	c.current.fields = append(c.current.fields, v)
	return nil
}

func (c *recordCollector) EndLine() error {
	c.rows = append(c.rows, c.current)
	return nil
}

// ReadAll parses input and returns its data lines. With opts.ExpectHeader the
// header is not among them; use NewParser and ColumnNames to retrieve it.
//
//	rows, err := csv.ReadAll("a,b\n1,2", csv.DefaultReaderOptions())
//	// rows == [][]string{{"a", "b"}, {"1", "2"}}
func ReadAll(input string, opts ReaderOptions) ([][]string, error) {
	_, rows, err := collect(input, opts)
	if err != nil {
		return nil, err
	}
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = r.fields
	}
	return records, nil
}

// collect runs a full parse and returns the column names and data lines.
func collect(input string, opts ReaderOptions) ([]string, []row, error) {
	c := &recordCollector{}
	c.parser = NewParserWithOptions(input, opts).SetObserver(c)
	if err := c.parser.Parse(); err != nil {
		return nil, nil, err
	}
	return c.parser.ColumnNames(), c.rows, nil
}
