package language

// The "responses" block of Adw.MessageDialog and Adw.AlertDialog is a
// toolkit extension: an ordinary node type with its own grammar,
// validators, and completion, plugged into the same generic framework as
// the core constructs.

import (
	"fmt"

	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/parser"
)

func registerResponseDialog() {
	ast.RegisterValidator(parser.KindResponseDialog, validateResponseDialogContainer)
	ast.RegisterValidator(parser.KindResponseDialog, validateResponseDialogUnique)
	ast.RegisterValidator(parser.KindResponse, validateResponseUnique)
	ast.RegisterValidator(parser.KindResponseFlag, validateResponseFlagUnique)
	ast.RegisterValidator(parser.KindResponseFlag, validateResponseFlagExclusive)

	ast.RegisterSymbol(parser.KindResponseDialog, responseDialogSymbol)
	ast.RegisterSymbol(parser.KindResponse, responseSymbol)
}

func validateResponseDialogContainer(n *ast.Node) {
	validateParentType(n, "'responses'",
		[2]string{"Adw", "MessageDialog"},
		[2]string{"Adw", "AlertDialog"},
	)
}

func validateResponseDialogUnique(n *ast.Node) {
	validateUniqueInParent(n, "Duplicate responses block", func(*ast.Node) bool { return true })
}

func validateResponseUnique(n *ast.Node) {
	id := n.TokenText("id")
	if id == "" {
		return
	}
	validateUniqueInParent(n, fmt.Sprintf("Duplicate response ID '%s'", id), func(sibling *ast.Node) bool {
		return sibling.TokenText("id") == id
	})
}

func validateResponseFlagUnique(n *ast.Node) {
	flag := n.TokenText("flag")
	if flag == "" {
		return
	}
	validateUniqueInParent(n, fmt.Sprintf("Duplicate '%s' flag", flag), func(sibling *ast.Node) bool {
		return sibling.TokenText("flag") == flag
	})
}

func validateResponseFlagExclusive(n *ast.Node) {
	flag := n.TokenText("flag")
	if flag != "destructive" && flag != "suggested" {
		return
	}
	validateUniqueInParent(n, "'suggested' and 'destructive' are exclusive", func(sibling *ast.Node) bool {
		sibFlag := sibling.TokenText("flag")
		return (sibFlag == "destructive" || sibFlag == "suggested") && sibFlag != flag
	})
}

// ResponseAppearance returns "destructive" or "suggested" when the
// response carries that flag, otherwise "".
func ResponseAppearance(n *ast.Node) string {
	for _, flag := range n.ChildrenOfKind(parser.KindResponseFlag) {
		switch flag.TokenText("flag") {
		case "destructive":
			return "destructive"
		case "suggested":
			return "suggested"
		}
	}
	return ""
}

// ResponseEnabled reports whether the response lacks the "disabled" flag.
func ResponseEnabled(n *ast.Node) bool {
	for _, flag := range n.ChildrenOfKind(parser.KindResponseFlag) {
		if flag.TokenText("flag") == "disabled" {
			return false
		}
	}
	return true
}

func responseDialogSymbol(n *ast.Node) *ast.Symbol {
	return &ast.Symbol{
		Name:           "responses",
		Kind:           ast.SymbolArray,
		Range:          n.Span(),
		SelectionRange: n.TokenSpan("responses"),
	}
}

func responseSymbol(n *ast.Node) *ast.Symbol {
	id := n.TokenText("id")
	if id == "" {
		return nil
	}
	detail := ""
	if value := n.FirstChildOfKind(parser.KindStringValue); value != nil {
		detail = Unquote(value.TokenText("value"))
	}
	return &ast.Symbol{
		Name:           id,
		Detail:         detail,
		Kind:           ast.SymbolField,
		Range:          n.Span(),
		SelectionRange: n.TokenSpan("id"),
	}
}
