package csv

import (
	"github.com/shapestone/shape-csv-events/internal/parser"
)

// Observer receives parse events synchronously and in document order:
// StartDocument, then per line StartLine, one Value per field and EndLine,
// then EndDocument. A failed parse ends with ParseError instead.
//
// Returning a non-nil error from any method halts the parse and Parse returns
// it wrapped. Return ErrStop to halt deliberately; errors.Is(err, ErrStop)
// tells the two cases apart.
type Observer = parser.Observer

// BaseObserver implements every Observer method as a no-op.
// Embed it to override only the events of interest:
//
//	type counter struct {
//	    csv.BaseObserver
//	    n int
//	}
//
//	func (c *counter) EndLine() error { c.n++; return nil }
type BaseObserver = parser.BaseObserver

// ObserverFuncs adapts a set of functions to the Observer interface.
// Nil fields are no-ops.
//
//	obs := csv.ObserverFuncs{
//	    OnValue: func(v string) error { fmt.Println(v); return nil },
//	}
type ObserverFuncs = parser.ObserverFuncs
