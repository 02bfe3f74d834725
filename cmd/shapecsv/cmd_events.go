package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-csv-events/pkg/csv"
)

func newEventsCmd(flags *readerFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "events <file>",
		Short: "Print the parse events of a CSV file, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			opts, err := flags.options(path)
			if err != nil {
				return err
			}
			doc, release, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			defer release()

			tracer := &eventTracer{out: cmd.OutOrStdout()}
			p := csv.NewParserWithOptions(doc, opts).SetObserver(tracer)
			if err := p.ParseContext(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if names := p.ColumnNames(); names != nil {
				log.Infof("%s: columns %q", path, names)
			}
			return nil
		},
	}
}

// eventTracer writes each parse event to out and logs it at debug level.
type eventTracer struct {
	out   io.Writer
	line  int
	field int
}

func (t *eventTracer) emit(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	log.Debug(msg)
	_, err := fmt.Fprintln(t.out, msg)
	return err
}

func (t *eventTracer) StartDocument() error {
	return t.emit("start-document")
}

func (t *eventTracer) EndDocument() error {
	return t.emit("end-document")
}

func (t *eventTracer) ParseError(err *csv.Error) {
	_ = t.emit("error code=%d line=%d column=%d: %v", err.Code(), err.Line, err.Column, err.Err)
}

func (t *eventTracer) StartLine() error {
	t.field = 0
	return t.emit("start-line %d", t.line)
}

func (t *eventTracer) EndLine() error {
	t.line++
	return t.emit("end-line")
}

func (t *eventTracer) Value(v string) error {
	t.field++
	return t.emit("value %d %s", t.field, strconv.Quote(v))
}
