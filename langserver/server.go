// Package langserver serves LSP over stdio for the graph-file description
// language: live warnings for unrecognized directives, errors for fatal
// input conditions, and completion of directive names.
package langserver

import (
	"bytes"
	"strings"
	"sync"

	"github.com/dhamidi/bargen/graphfile"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "bargen"

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu   sync.Mutex
	docs map[string][]byte
}

func New(version string) *Server {
	s := &Server{
		version: version,
		docs:    make(map[string][]byte),
	}

	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.textDocumentDidOpen,
		TextDocumentDidChange:  s.textDocumentDidChange,
		TextDocumentDidClose:   s.textDocumentDidClose,
		TextDocumentDidSave:    s.textDocumentDidSave,
		TextDocumentCompletion: s.textDocumentCompletion,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

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

	triggerChars := []string{"="}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: triggerChars,
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
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) updateDocument(ctx *glsp.Context, uri string, content []byte) {
	s.mu.Lock()
	s.docs[uri] = content
	s.mu.Unlock()
	s.publishDiagnostics(ctx, uri, content)
}

func (s *Server) document(uri string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[uri]
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri string, content []byte) {
	diagnostics := Diagnose(content)
	if diagnostics == nil {
		// An explicit empty list clears stale diagnostics on the client.
		diagnostics = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnose parses content as a graph file and maps every deferred warning
// to a warning diagnostic on its line, and a fatal finalization error to an
// error diagnostic on the first line.
func Diagnose(content []byte) []protocol.Diagnostic {
	p := graphfile.NewParser()
	if err := p.Parse(bytes.NewReader(content)); err != nil {
		return []protocol.Diagnostic{errorDiagnostic(err.Error())}
	}

	g, err := p.Finish()
	if err != nil {
		return []protocol.Diagnostic{errorDiagnostic(err.Error())}
	}

	var diagnostics []protocol.Diagnostic
	for _, w := range g.Warnings {
		line := protocol.UInteger(0)
		if w.Line > 0 {
			line = protocol.UInteger(w.Line - 1)
		}
		severity := protocol.DiagnosticSeverityWarning
		source := lsName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: 0},
				End:   protocol.Position{Line: line, Character: 0},
			},
			Severity: &severity,
			Source:   &source,
			Message:  w.Message,
		})
	}
	return diagnostics
}

func errorDiagnostic(message string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 0},
		},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.updateDocument(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.updateDocument(ctx, params.TextDocument.URI, []byte(textChange.Text))
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.updateDocument(ctx, params.TextDocument.URI, []byte(*params.Text))
	}
	return nil
}

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	content := s.document(params.TextDocument.URI)
	if content == nil {
		return nil, nil
	}

	prefix := linePrefix(content, int(params.Position.Line), int(params.Position.Character))
	completions := Complete(prefix)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := protocol.CompletionItemKindKeyword
		if c.Kind == "scalar" || c.Kind == "array" {
			kind = protocol.CompletionItemKindProperty
		}
		detail := c.Kind + " (" + c.Phase + "): " + c.Help
		insertText := strings.TrimPrefix(c.Name, "=")
		items = append(items, protocol.CompletionItem{
			Label:      c.Name,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &insertText,
		})
	}
	return items, nil
}

// Complete returns the directives that can follow the given line prefix: on
// a =directive line everything spelled with a leading =, otherwise the
// name=value options.
func Complete(prefix string) []graphfile.DirectiveInfo {
	prefix = strings.TrimLeft(prefix, " \t")
	wantDirective := strings.HasPrefix(prefix, "=")

	var matches []graphfile.DirectiveInfo
	for _, info := range graphfile.KnownDirectives() {
		isDirective := strings.HasPrefix(info.Name, "=")
		if isDirective != wantDirective {
			continue
		}
		if strings.HasPrefix(info.Name, prefix) {
			matches = append(matches, info)
		}
	}
	return matches
}

func linePrefix(content []byte, line, col int) string {
	lines := strings.Split(string(content), "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	text := lines[line]
	if col >= 0 && col < len(text) {
		text = text[:col]
	}
	return text
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
