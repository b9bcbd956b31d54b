package language

import (
	"fmt"

	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/diag"
	"github.com/bpclang/bpc/parser"
)

func registerSignal() {
	ast.RegisterValidator(parser.KindSignal, validateSignalExists)
	ast.RegisterValidator(parser.KindSignal, validateSignalUnique)
	ast.RegisterValidator(parser.KindSignal, validateSignalHandlerPrefix)

	ast.RegisterSymbol(parser.KindSignal, signalSymbol)
}

func validateSignalExists(n *ast.Node) {
	name := n.Token("name")
	if name == nil {
		return
	}
	class := GirClassOf(n)
	if class == nil {
		return
	}
	if class.Signal(name.Literal) == nil {
		n.ReportError(name.Span, fmt.Sprintf("Class %s does not have a signal named %s",
			class.FullName(), name.Literal))
	}
}

func validateSignalUnique(n *ast.Node) {
	name := n.TokenText("name")
	if name == "" {
		return
	}
	detail := n.TokenText("detail")
	validateUniqueInParent(n, fmt.Sprintf("Duplicate signal '%s'", signalDisplayName(name, detail)),
		func(sibling *ast.Node) bool {
			return sibling.TokenText("name") == name && sibling.TokenText("detail") == detail
		})
}

// The bare handler form predates the '$' marker and is still accepted;
// suggest the rewrite.
func validateSignalHandlerPrefix(n *ast.Node) {
	handler := n.Token("handler")
	if handler == nil || n.HasToken("handler_prefix") {
		return
	}
	n.Report(diag.NewUpgradeWarning(
		handler.Span,
		"Use '$' before the handler name",
		diag.CodeAction{Label: "Add '$'", Replacement: "$" + handler.Literal},
	))
}

func signalDisplayName(name, detail string) string {
	if detail != "" {
		return name + "::" + detail
	}
	return name
}

func signalSymbol(n *ast.Node) *ast.Symbol {
	name := n.TokenText("name")
	if name == "" {
		return nil
	}
	return &ast.Symbol{
		Name:           signalDisplayName(name, n.TokenText("detail")),
		Detail:         n.TokenText("handler"),
		Kind:           ast.SymbolEvent,
		Range:          n.Span(),
		SelectionRange: n.TokenSpan("name"),
	}
}
