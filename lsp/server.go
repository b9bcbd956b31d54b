// Package lsp hosts the blueprint language service over the Language
// Server Protocol on stdio. Each edit re-analyzes the document wholesale;
// a newer version simply supersedes the previous analysis.
package lsp

import (
	"strings"

	"github.com/bpclang/bpc/gir"
	"github.com/bpclang/bpc/language"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "blueprint"

type document struct {
	content []byte
	result  *language.Result
}

type Server struct {
	handler   protocol.Handler
	server    *server.Server
	version   string
	repo      *gir.Repository
	documents map[string]*document

	clientSupportsSnippets bool
	clientSupportsChoice   bool
}

func NewServer(version string, repo *gir.Repository) *Server {
	s := &Server{
		version:   version,
		repo:      repo,
		documents: map[string]*document{},
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
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if td := params.Capabilities.TextDocument; td != nil && td.Completion != nil && td.Completion.CompletionItem != nil {
		if snippets := td.Completion.CompletionItem.SnippetSupport; snippets != nil {
			s.clientSupportsSnippets = *snippets
			// Choice placeholders are a snippet feature; clients that
			// render snippets render choices.
			s.clientSupportsChoice = *snippets
		}
	}

	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", ":", "<"},
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
	doc := &document{
		content: content,
		result:  language.Analyze(content, s.repo),
	}
	s.documents[uri] = doc
	s.publishDiagnostics(ctx, uri, doc)
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
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.updateDocument(ctx, params.TextDocument.URI, []byte(whole.Text))
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	delete(s.documents, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.updateDocument(ctx, params.TextDocument.URI, []byte(*params.Text))
	}
	return nil
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri string, doc *document) {
	diagnostics := []protocol.Diagnostic{}
	for _, d := range doc.result.Errors {
		diagnostics = append(diagnostics, toProtocolDiagnostic(d, protocol.DiagnosticSeverityError))
	}
	for _, d := range doc.result.Warnings {
		diagnostics = append(diagnostics, toProtocolDiagnostic(d, protocol.DiagnosticSeverityWarning))
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.documents[params.TextDocument.URI]
	if doc == nil || doc.result.Root == nil {
		return nil, nil
	}

	offset := offsetAt(doc.content, int(params.Position.Line), int(params.Position.Character))
	if offset < 0 {
		return nil, nil
	}

	suggestions := completionsAt(doc.result, offset, s.clientSupportsChoice)
	if len(suggestions) == 0 {
		return nil, nil
	}

	items := make([]protocol.CompletionItem, 0, len(suggestions))
	for _, c := range suggestions {
		items = append(items, s.toProtocolItem(c))
	}
	return items, nil
}

func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.documents[params.TextDocument.URI]
	if doc == nil || doc.result.Root == nil {
		return nil, nil
	}
	return toProtocolSymbols(doc.result), nil
}

// offsetAt converts a 0-based line/character position to a byte offset.
func offsetAt(content []byte, line, character int) int {
	offset := 0
	for line > 0 {
		next := strings.IndexByte(string(content[offset:]), '\n')
		if next < 0 {
			return -1
		}
		offset += next + 1
		line--
	}
	offset += character
	if offset > len(content) {
		return len(content)
	}
	return offset
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	kind := protocol.TextDocumentSyncKind(i)
	return &kind
}
