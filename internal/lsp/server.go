// Package lsp serves CSV parse errors as Language Server Protocol diagnostics.
package lsp

import (
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/shapestone/shape-csv-events/pkg/csv"
)

const lsName = "shapecsv"

var log = commonlog.GetLogger("shapecsv.lsp")

// Server checks open CSV documents and publishes a diagnostic for the first
// parse error of each one.
type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	opts    csv.ReaderOptions
}

// NewServer creates a language server that parses documents with opts.
// Documents whose URI ends in .tsv are parsed with a tab delimiter.
func NewServer(version string, opts csv.ReaderOptions) *Server {
	s := &Server{
		version: version,
		opts:    opts,
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

// RunStdio serves requests on stdin and stdout until the client disconnects.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("initialized, delimiter %q quote %q", s.opts.Comma, s.opts.Quote)
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	s.publish(ctx.Notify, doc.URI, doc.Version, doc.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.publish(ctx.Notify, params.TextDocument.URI, params.TextDocument.Version, whole.Text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	s.publish(ctx.Notify, params.TextDocument.URI, -1, *params.Text)
	return nil
}

// publish parses text and sends its diagnostics. A negative version is omitted.
func (s *Server) publish(notify glsp.NotifyFunc, uri protocol.DocumentUri, version protocol.Integer, text string) {
	diagnostics := Diagnostics(text, optionsFor(uri, s.opts))
	log.Debugf("%s: %d diagnostic(s)", uri, len(diagnostics))

	params := protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	}
	if version >= 0 {
		v := protocol.UInteger(version)
		params.Version = &v
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
