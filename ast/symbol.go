package ast

import "github.com/bpclang/bpc/diag"

type SymbolKind int

const (
	SymbolObject SymbolKind = iota
	SymbolClass
	SymbolProperty
	SymbolEvent
	SymbolField
	SymbolArray
)

// Symbol is one entry of a document outline: a display signature, the
// construct's full range, and the sub-range a client should select when
// jumping to it.
type Symbol struct {
	Name           string
	Detail         string
	Kind           SymbolKind
	Range          diag.Span
	SelectionRange diag.Span
	Children       []*Symbol
}

// SymbolFunc produces the outline entry for a node, or nil to omit it.
type SymbolFunc func(n *Node) *Symbol

// DocumentSymbols extracts the outline tree: nodes with registered symbol
// descriptors nest under the nearest enclosing node that also has one.
func DocumentSymbols(root *Node) []*Symbol {
	var top []*Symbol
	var collect func(n *Node, parent *Symbol)
	collect = func(n *Node, parent *Symbol) {
		current := parent
		if fn, ok := symbolFuncs[n.Kind]; ok {
			if sym := fn(n); sym != nil {
				if parent != nil {
					parent.Children = append(parent.Children, sym)
				} else {
					top = append(top, sym)
				}
				current = sym
			}
		}
		for _, child := range n.Children {
			collect(child, current)
		}
	}
	collect(root, nil)
	return top
}
