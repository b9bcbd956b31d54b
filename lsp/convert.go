package lsp

import (
	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/completions"
	"github.com/bpclang/bpc/diag"
	"github.com/bpclang/bpc/language"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func completionsAt(result *language.Result, offset int, supportsChoice bool) []completions.Completion {
	return completions.Complete(&completions.Request{
		Root:           result.Root,
		Tokens:         result.Tokens,
		Offset:         offset,
		SupportsChoice: supportsChoice,
	})
}

func spanToRange(span diag.Span) protocol.Range {
	return protocol.Range{
		Start: positionToProtocol(span.Start),
		End:   positionToProtocol(span.End),
	}
}

// Internal positions are 1-based; the protocol wants 0-based.
func positionToProtocol(pos diag.Position) protocol.Position {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	column := pos.Column - 1
	if column < 0 {
		column = 0
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(column),
	}
}

func toProtocolDiagnostic(d *diag.Diagnostic, severity protocol.DiagnosticSeverity) protocol.Diagnostic {
	source := lsName
	return protocol.Diagnostic{
		Range:    spanToRange(d.Span),
		Severity: &severity,
		Source:   &source,
		Message:  d.Message,
	}
}

func (s *Server) toProtocolItem(c completions.Completion) protocol.CompletionItem {
	kind := toProtocolCompletionKind(c.Kind)
	item := protocol.CompletionItem{
		Label: c.Label,
		Kind:  &kind,
	}
	if c.Detail != "" {
		detail := c.Detail
		item.Detail = &detail
	}
	if c.Docs != "" {
		item.Documentation = c.Docs
	}
	if c.SortText != "" {
		sortText := c.SortText
		item.SortText = &sortText
	}
	switch {
	case c.Snippet != "" && s.clientSupportsSnippets:
		insertText := c.Snippet
		format := protocol.InsertTextFormatSnippet
		item.InsertText = &insertText
		item.InsertTextFormat = &format
	case c.Text != "":
		insertText := c.Text
		format := protocol.InsertTextFormatPlainText
		item.InsertText = &insertText
		item.InsertTextFormat = &format
	}
	return item
}

func toProtocolCompletionKind(kind completions.Kind) protocol.CompletionItemKind {
	switch kind {
	case completions.KindKeyword:
		return protocol.CompletionItemKindKeyword
	case completions.KindClass:
		return protocol.CompletionItemKindClass
	case completions.KindModule:
		return protocol.CompletionItemKindModule
	case completions.KindProperty:
		return protocol.CompletionItemKindProperty
	case completions.KindEnumMember:
		return protocol.CompletionItemKindEnumMember
	case completions.KindEvent:
		return protocol.CompletionItemKindEvent
	case completions.KindSnippet:
		return protocol.CompletionItemKindSnippet
	case completions.KindConstant:
		return protocol.CompletionItemKindConstant
	default:
		return protocol.CompletionItemKindText
	}
}

func toProtocolSymbols(result *language.Result) []protocol.DocumentSymbol {
	return symbolsToProtocol(ast.DocumentSymbols(result.Root))
}

func symbolsToProtocol(symbols []*ast.Symbol) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, sym := range symbols {
		ps := protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           toProtocolSymbolKind(sym.Kind),
			Range:          spanToRange(sym.Range),
			SelectionRange: spanToRange(sym.SelectionRange),
			Children:       symbolsToProtocol(sym.Children),
		}
		if sym.Detail != "" {
			detail := sym.Detail
			ps.Detail = &detail
		}
		out = append(out, ps)
	}
	return out
}

func toProtocolSymbolKind(kind ast.SymbolKind) protocol.SymbolKind {
	switch kind {
	case ast.SymbolObject:
		return protocol.SymbolKindObject
	case ast.SymbolClass:
		return protocol.SymbolKindClass
	case ast.SymbolProperty:
		return protocol.SymbolKindProperty
	case ast.SymbolEvent:
		return protocol.SymbolKindEvent
	case ast.SymbolField:
		return protocol.SymbolKindField
	case ast.SymbolArray:
		return protocol.SymbolKindArray
	default:
		return protocol.SymbolKindObject
	}
}
