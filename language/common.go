// Package language defines the blueprint constructs: each node kind's
// grammar, validators, inherited contexts, and outline symbols, all
// registered once against the generic AST framework. Analyze is the
// parse entry point.
package language

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/gir"
	"github.com/bpclang/bpc/parser"
)

const (
	// CtxRepository carries the type catalog, attached at the root.
	CtxRepository ast.ContextKey = iota
	// CtxScope carries the identifier scope for object ID uniqueness,
	// attached at the document and at each template.
	CtxScope
)

var registerOnce sync.Once

func ensureRegistered() {
	registerOnce.Do(func() {
		buildGrammar()
		registerDocument()
		registerObject()
		registerProperty()
		registerSignal()
		registerResponseDialog()
	})
}

// RepositoryOf returns the type catalog visible to the node, or nil when
// the host supplied none (catalog-dependent validation is skipped then).
func RepositoryOf(n *ast.Node) *gir.Repository {
	repo, _ := n.Context(CtxRepository).(*gir.Repository)
	return repo
}

// Scope tracks object IDs declared within one identifier scope: the
// whole document, or one template subtree.
type Scope struct {
	Owner *ast.Node
}

// Objects returns the objects belonging to this scope in source order.
// Subtrees that declare their own scope are excluded.
func (s *Scope) Objects() []*ast.Node {
	var objects []*ast.Node
	ast.Walk(s.Owner, func(n *ast.Node) bool {
		if n != s.Owner && providesScope(n.Kind) {
			return false
		}
		if n.Kind == parser.KindObject {
			objects = append(objects, n)
		}
		return true
	})
	return objects
}

func providesScope(kind parser.NodeKind) bool {
	return kind == parser.KindDocument || kind == parser.KindTemplate
}

// resolveTypeName looks a TypeName node up in the catalog. An
// unqualified name resolves in the Gtk namespace.
func resolveTypeName(n *ast.Node) *gir.Class {
	if n == nil || n.Kind != parser.KindTypeName {
		return nil
	}
	repo := RepositoryOf(n)
	if repo == nil {
		return nil
	}
	nsName := n.TokenText("namespace")
	if nsName == "" {
		nsName = "Gtk"
	}
	ns := repo.Namespace(nsName)
	if ns == nil {
		return nil
	}
	return ns.Class(n.TokenText("class_name"))
}

// GirClassOf resolves the catalog class governing a node: an object's
// class, a template's parent class, or the enclosing class for content,
// properties, and signals.
func GirClassOf(n *ast.Node) *gir.Class {
	switch n.Kind {
	case parser.KindTypeName:
		return resolveTypeName(n)
	case parser.KindObject:
		return resolveTypeName(n.FirstChildOfKind(parser.KindTypeName))
	case parser.KindTemplate:
		return resolveTypeName(n.FirstChildOfKind(parser.KindTypeName))
	default:
		if n.Parent != nil {
			return GirClassOf(n.Parent)
		}
		return nil
	}
}

// validateUniqueInParent reports one diagnostic on n if an earlier
// sibling of the same kind matches; the first occurrence stays silent.
func validateUniqueInParent(n *ast.Node, message string, same func(sibling *ast.Node) bool) {
	if n.Parent == nil {
		return
	}
	for _, sibling := range n.Parent.Children {
		if sibling == n {
			return
		}
		if sibling.Kind == n.Kind && same(sibling) {
			n.ReportError(n.Span(), message)
			return
		}
	}
}

// validateParentType reports an error on n unless the enclosing object or
// template is (a subclass of) one of the given namespaced classes. An
// unresolvable enclosing class is not an error here; the type name
// already reported it.
func validateParentType(n *ast.Node, what string, allowed ...[2]string) {
	class := GirClassOf(n)
	if class == nil {
		return
	}
	var names []string
	for _, a := range allowed {
		if class.IsSubclassOf(a[0], a[1]) {
			return
		}
		names = append(names, a[0]+"."+a[1])
	}
	n.ReportError(n.Span(), fmt.Sprintf("%s can only be used in %s", what, strings.Join(names, " or ")))
}

// Unquote strips the surrounding quotes from a quoted token literal and
// resolves the common escapes.
func Unquote(literal string) string {
	if len(literal) < 2 {
		return literal
	}
	quote := literal[0]
	body := literal[1:]
	if body[len(body)-1] == quote {
		body = body[:len(body)-1]
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(body[i])
			}
			continue
		}
		sb.WriteByte(body[i])
	}
	return sb.String()
}
