package language

import (
	"fmt"

	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/diag"
	"github.com/bpclang/bpc/parser"
)

func registerObject() {
	ast.RegisterContext(parser.KindTemplate, CtxScope, func(n *ast.Node) any {
		return &Scope{Owner: n}
	})

	ast.RegisterValidator(parser.KindTypeName, validateTypeName)
	ast.RegisterValidator(parser.KindObject, validateObjectClass)
	ast.RegisterValidator(parser.KindObject, validateObjectID)
	ast.RegisterValidator(parser.KindTemplate, validateTemplateUnique)
	ast.RegisterValidator(parser.KindTemplate, validateTemplateParent)

	ast.RegisterSymbol(parser.KindObject, objectSymbol)
	ast.RegisterSymbol(parser.KindTemplate, templateSymbol)
}

func validateTypeName(n *ast.Node) {
	repo := RepositoryOf(n)
	if repo == nil {
		return
	}
	nsName := n.TokenText("namespace")
	if nsName == "" {
		nsName = "Gtk"
	}
	className := n.TokenText("class_name")
	if className == "" {
		return
	}
	ns := repo.Namespace(nsName)
	if ns == nil {
		n.ReportError(n.Span(), fmt.Sprintf("Namespace %s could not be found", nsName))
		return
	}
	if ns.Class(className) == nil {
		n.ReportError(n.Span(), fmt.Sprintf("Namespace %s does not contain a type called %s", nsName, className))
	}
}

func validateObjectClass(n *ast.Node) {
	class := GirClassOf(n)
	if class != nil && class.Abstract {
		typeName := n.FirstChildOfKind(parser.KindTypeName)
		span := n.Span()
		if typeName != nil {
			span = typeName.Span()
		}
		n.ReportError(span, fmt.Sprintf("%s is abstract and cannot be instantiated", class.FullName()))
	}
}

// Object IDs must be unique within the enclosing identifier scope. The
// first occurrence stays silent; every later duplicate gets one
// diagnostic.
func validateObjectID(n *ast.Node) {
	id := n.TokenText("id")
	if id == "" {
		return
	}
	scope, _ := n.Context(CtxScope).(*Scope)
	if scope == nil {
		return
	}
	for _, obj := range scope.Objects() {
		if obj == n {
			return
		}
		if obj.TokenText("id") == id {
			n.ReportError(n.TokenSpan("id"), fmt.Sprintf("Duplicate object ID '%s'", id))
			return
		}
	}
}

func validateTemplateUnique(n *ast.Node) {
	validateUniqueInParent(n, "Duplicate template block", func(*ast.Node) bool { return true })
}

// A template without a parent class still compiles against older
// toolchains, but the parent should be spelled out.
func validateTemplateParent(n *ast.Node) {
	if n.FirstChildOfKind(parser.KindTypeName) != nil {
		return
	}
	pos, ok := n.Group.Mark("parent_start")
	if !ok {
		return
	}
	n.Report(diag.NewUpgradeWarning(
		diag.Span{Start: pos, End: pos},
		"Expected a parent class after the template name",
		diag.CodeAction{Label: "Add a parent class", Replacement: " : Gtk.Widget"},
	))
}

func objectSymbol(n *ast.Node) *ast.Symbol {
	typeName := n.FirstChildOfKind(parser.KindTypeName)
	if typeName == nil {
		return nil
	}
	name := typeName.TokenText("class_name")
	if ns := typeName.TokenText("namespace"); ns != "" {
		name = ns + "." + name
	}
	return &ast.Symbol{
		Name:           name,
		Detail:         n.TokenText("id"),
		Kind:           ast.SymbolObject,
		Range:          n.Span(),
		SelectionRange: typeName.Span(),
	}
}

func templateSymbol(n *ast.Node) *ast.Symbol {
	name := n.TokenText("name")
	if name == "" {
		return nil
	}
	detail := ""
	if class := GirClassOf(n); class != nil {
		detail = class.FullName()
	}
	return &ast.Symbol{
		Name:           "template " + name,
		Detail:         detail,
		Kind:           ast.SymbolClass,
		Range:          n.Span(),
		SelectionRange: n.TokenSpan("name"),
	}
}
