// Package ast wraps parse groups into a typed tree: each node carries
// parent/root back-references, inherited context values, and the
// diagnostics its validators attach. Node behavior (validators, context
// providers, symbols) is registered per kind in explicit process-wide
// registries rather than discovered by reflection.
package ast

import (
	"github.com/bpclang/bpc/diag"
	"github.com/bpclang/bpc/parser"
)

// ContextKey identifies a typed, scoped side-channel value attached at
// one node and visible to its entire subtree.
type ContextKey int

type Node struct {
	Kind  parser.NodeKind
	Group *parser.Group

	// Parent and Root are non-owning back-references; a parent owns its
	// Children slice.
	Parent   *Node
	Root     *Node
	Children []*Node

	diagnostics []*diag.Diagnostic
	contexts    map[ContextKey]any
}

// Build constructs the typed tree bottom-up from a parse group. Context
// maps are threaded through construction: every node's context set is its
// parent's set merged with whatever its own registered providers supply.
func Build(group *parser.Group, rootContexts map[ContextKey]any) *Node {
	root := build(group, nil, nil, rootContexts)
	return root
}

func build(group *parser.Group, parent, root *Node, inherited map[ContextKey]any) *Node {
	n := &Node{
		Kind:     group.Kind,
		Group:    group,
		Parent:   parent,
		contexts: inherited,
	}
	if root == nil {
		root = n
	}
	n.Root = root

	if providers := contextProviders[n.Kind]; len(providers) > 0 {
		merged := make(map[ContextKey]any, len(inherited)+len(providers))
		for k, v := range inherited {
			merged[k] = v
		}
		for _, p := range providers {
			merged[p.key] = p.fn(n)
		}
		n.contexts = merged
	}

	for _, child := range group.Children {
		n.Children = append(n.Children, build(child, n, root, n.contexts))
	}
	return n
}

// Context returns the nearest-ancestor-provided value for the key, or nil
// if no ancestor (including the node itself) provides it.
func (n *Node) Context(key ContextKey) any {
	return n.contexts[key]
}

func (n *Node) Span() diag.Span {
	return n.Group.Span
}

// Incomplete reports whether the node's group recovered from a syntax
// error: structurally present but semantically partial.
func (n *Node) Incomplete() bool {
	return n.Group.Incomplete
}

func (n *Node) Token(name string) *parser.Token {
	return n.Group.Token(name)
}

func (n *Node) TokenText(name string) string {
	return n.Group.TokenText(name)
}

func (n *Node) HasToken(name string) bool {
	return n.Group.HasToken(name)
}

// TokenSpan returns the span of a named captured token, falling back to
// the node's own span when the capture is absent.
func (n *Node) TokenSpan(name string) diag.Span {
	if tok := n.Token(name); tok != nil {
		return tok.Span
	}
	return n.Span()
}

func (n *Node) FirstChildOfKind(kind parser.NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind parser.NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Ancestor returns the nearest ancestor of the given kind, or nil.
func (n *Node) Ancestor(kind parser.NodeKind) *Node {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Kind == kind {
			return cur
		}
	}
	return nil
}

// Report attaches a diagnostic to this node. Validation never stops at
// the first error; everything reported is collected afterwards.
func (n *Node) Report(d *diag.Diagnostic) {
	n.diagnostics = append(n.diagnostics, d)
}

func (n *Node) ReportError(span diag.Span, message string) {
	n.Report(diag.NewError(span, message))
}

func (n *Node) Diagnostics() []*diag.Diagnostic {
	return n.diagnostics
}

// Walk visits n and its subtree in source order. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// NodeAt descends to the innermost node whose span contains the offset.
// A child whose span ends exactly at the offset still qualifies if it is
// incomplete, so completion can land inside half-typed constructs.
func NodeAt(n *Node, offset int) *Node {
	for {
		var match *Node
		for _, child := range n.Children {
			if child.Span().Start.Offset <= offset &&
				(offset < child.Span().End.Offset ||
					(offset == child.Span().End.Offset && child.Incomplete())) {
				match = child
				break
			}
		}
		if match == nil {
			return n
		}
		n = match
	}
}

// Validate runs every registered validator exactly once per node, in a
// deterministic order (source order over the tree, registration order per
// kind), accumulating all diagnostics.
func Validate(root *Node) {
	Walk(root, func(n *Node) bool {
		for _, v := range validators[n.Kind] {
			v(n)
		}
		return true
	})
}

// CollectDiagnostics gathers every diagnostic attached anywhere in the
// tree, ordered by source position.
func CollectDiagnostics(root *Node) []*diag.Diagnostic {
	var all []*diag.Diagnostic
	Walk(root, func(n *Node) bool {
		all = append(all, n.diagnostics...)
		return true
	})
	diag.Sort(all)
	return all
}
