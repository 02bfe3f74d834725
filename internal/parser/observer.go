package parser

// Observer receives parse events synchronously and in document order.
//
// Returning a non-nil error from any method halts the parse; Parse then
// returns that error wrapped and sends no further events.
type Observer interface {
	StartDocument() error
	EndDocument() error
	// ParseError is the last event of a failed parse.
	ParseError(err *Error)
	StartLine() error
	EndLine() error
	// Value is called once per field of a data line, left to right.
	// Header fields are not reported here.
	Value(value string) error
}

// BaseObserver implements every Observer method as a no-op.
// Embed it to override only the events of interest.
type BaseObserver struct{}

func (BaseObserver) StartDocument() error { return nil }
func (BaseObserver) EndDocument() error   { return nil }
func (BaseObserver) ParseError(*Error)    {}
func (BaseObserver) StartLine() error     { return nil }
func (BaseObserver) EndLine() error       { return nil }
func (BaseObserver) Value(string) error   { return nil }

// ObserverFuncs adapts a set of functions to the Observer interface.
// Nil fields are no-ops.
type ObserverFuncs struct {
	OnStartDocument func() error
	OnEndDocument   func() error
	OnParseError    func(err *Error)
	OnStartLine     func() error
	OnEndLine       func() error
	OnValue         func(value string) error
}

func (f ObserverFuncs) StartDocument() error {
	if f.OnStartDocument == nil {
		return nil
	}
	return f.OnStartDocument()
}

func (f ObserverFuncs) EndDocument() error {
	if f.OnEndDocument == nil {
		return nil
	}
	return f.OnEndDocument()
}

func (f ObserverFuncs) ParseError(err *Error) {
	if f.OnParseError != nil {
		f.OnParseError(err)
	}
}

func (f ObserverFuncs) StartLine() error {
	if f.OnStartLine == nil {
		return nil
	}
	return f.OnStartLine()
}

func (f ObserverFuncs) EndLine() error {
	if f.OnEndLine == nil {
		return nil
	}
	return f.OnEndLine()
}

func (f ObserverFuncs) Value(value string) error {
	if f.OnValue == nil {
		return nil
	}
	return f.OnValue(value)
}
