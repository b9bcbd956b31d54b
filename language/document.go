package language

import (
	"fmt"
	"strings"

	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/diag"
	"github.com/bpclang/bpc/parser"
)

func registerDocument() {
	ast.RegisterContext(parser.KindDocument, CtxScope, func(n *ast.Node) any {
		return &Scope{Owner: n}
	})

	ast.RegisterValidator(parser.KindGtkDirective, validateGtkDirective)
	ast.RegisterValidator(parser.KindImport, validateImport)
}

func validateGtkDirective(n *ast.Node) {
	version := n.Token("version")
	if version == nil {
		return
	}
	repo := RepositoryOf(n)
	if repo == nil {
		return
	}
	gtk := repo.Namespace("Gtk")
	if gtk == nil {
		n.ReportError(n.TokenSpan("name"), "GTK was not found in the type catalog")
		return
	}
	if !gtk.SatisfiesVersion(version.Literal) {
		major, _, _ := strings.Cut(gtk.Version, ".")
		n.Report(&diag.Diagnostic{
			Severity: diag.SeverityError,
			Message:  fmt.Sprintf("GTK %s is not available (have %s)", version.Literal, gtk.Version),
			Span:     version.Span,
			Actions: []diag.CodeAction{
				{Label: "Use the available GTK version", Replacement: major + ".0"},
			},
		})
	}
}

func validateImport(n *ast.Node) {
	name := n.Token("namespace")
	if name == nil {
		return
	}
	repo := RepositoryOf(n)
	if repo == nil {
		return
	}
	ns := repo.Namespace(name.Literal)
	if ns == nil {
		n.ReportError(name.Span, fmt.Sprintf("Namespace %s could not be found", name.Literal))
		return
	}
	if version := n.Token("version"); version != nil && !ns.SatisfiesVersion(version.Literal) {
		n.ReportError(version.Span, fmt.Sprintf("Namespace %s %s is not available (have %s)",
			name.Literal, version.Literal, ns.Version))
	}
}
