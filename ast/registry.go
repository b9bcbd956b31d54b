package ast

import "github.com/bpclang/bpc/parser"

// Validator inspects one node and reports diagnostics on it. Validators
// may read the node, its ancestors, its inherited contexts, and the type
// catalog; errors are non-fatal to validation as a whole.
type Validator func(n *Node)

type contextProvider struct {
	key ContextKey
	fn  func(n *Node) any
}

var (
	validators       = map[parser.NodeKind][]Validator{}
	contextProviders = map[parser.NodeKind][]contextProvider{}
	symbolFuncs      = map[parser.NodeKind]SymbolFunc{}
)

// RegisterValidator appends a validator to a node kind's ordered list.
// Registrations happen once at startup and are never mutated afterwards.
func RegisterValidator(kind parser.NodeKind, v Validator) {
	validators[kind] = append(validators[kind], v)
}

// RegisterContext declares that nodes of this kind provide a context
// value, computed at construction and visible to the whole subtree.
func RegisterContext(kind parser.NodeKind, key ContextKey, fn func(n *Node) any) {
	contextProviders[kind] = append(contextProviders[kind], contextProvider{key: key, fn: fn})
}

// RegisterSymbol declares how nodes of this kind appear in the document
// outline. At most one symbol descriptor per kind.
func RegisterSymbol(kind parser.NodeKind, fn SymbolFunc) {
	symbolFuncs[kind] = fn
}
