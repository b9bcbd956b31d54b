package language

import (
	"fmt"

	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/gir"
	"github.com/bpclang/bpc/parser"
)

func registerProperty() {
	ast.RegisterValidator(parser.KindProperty, validatePropertyExists)
	ast.RegisterValidator(parser.KindProperty, validatePropertyUnique)
	ast.RegisterValidator(parser.KindProperty, validatePropertyValue)

	ast.RegisterSymbol(parser.KindProperty, propertySymbol)
}

// PropertyType returns the catalog value kind of a property node, or nil
// when the enclosing class or the property is unknown.
func PropertyType(n *ast.Node) *gir.TypeRef {
	if n.Kind != parser.KindProperty {
		return nil
	}
	class := GirClassOf(n)
	if class == nil {
		return nil
	}
	prop := class.Property(n.TokenText("name"))
	if prop == nil {
		return nil
	}
	return &prop.Type
}

func validatePropertyExists(n *ast.Node) {
	name := n.Token("name")
	if name == nil {
		return
	}
	class := GirClassOf(n)
	if class == nil {
		return
	}
	if class.Property(name.Literal) == nil {
		n.ReportError(name.Span, fmt.Sprintf("Class %s does not have a property named %s",
			class.FullName(), name.Literal))
	}
}

func validatePropertyUnique(n *ast.Node) {
	name := n.TokenText("name")
	if name == "" {
		return
	}
	validateUniqueInParent(n, fmt.Sprintf("Duplicate property '%s'", name), func(sibling *ast.Node) bool {
		return sibling.TokenText("name") == name
	})
}

func validatePropertyValue(n *ast.Node) {
	vt := PropertyType(n)
	if vt == nil {
		return
	}
	switch vt.Kind {
	case gir.TypeBool:
		if value := n.FirstChildOfKind(parser.KindIdentValue); value != nil {
			literal := value.TokenText("value")
			if literal != "true" && literal != "false" {
				value.ReportError(value.Span(), "Expected 'true' or 'false' for boolean property")
			}
		}
	case gir.TypeEnum:
		if value := n.FirstChildOfKind(parser.KindIdentValue); value != nil && vt.Enum != nil {
			literal := value.TokenText("value")
			if vt.Enum.Member(literal) == nil {
				value.ReportError(value.Span(), fmt.Sprintf("'%s' is not a member of %s", literal, vt.Enum.Name))
			}
		}
	case gir.TypeString:
		if value := n.FirstChildOfKind(parser.KindNumberValue); value != nil {
			value.ReportError(value.Span(), "Expected a string value")
		}
	}
}

// ValueText returns the plain text of a property or response value node.
// Quoted strings are unquoted; the second result reports whether the
// value was marked translatable.
func ValueText(n *ast.Node) (text string, translatable bool) {
	for _, child := range n.Children {
		switch child.Kind {
		case parser.KindStringValue:
			return Unquote(child.TokenText("value")), child.HasToken("translatable")
		case parser.KindNumberValue, parser.KindIdentValue:
			return child.TokenText("value"), false
		}
	}
	return "", false
}

func propertySymbol(n *ast.Node) *ast.Symbol {
	name := n.TokenText("name")
	if name == "" {
		return nil
	}
	detail, _ := ValueText(n)
	return &ast.Symbol{
		Name:           name,
		Detail:         detail,
		Kind:           ast.SymbolProperty,
		Range:          n.Span(),
		SelectionRange: n.TokenSpan("name"),
	}
}
