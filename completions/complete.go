// Package completions resolves a cursor position against the AST and
// dispatches pattern-matched suggestion generators. Completers are
// registered once, process-wide: an applicability predicate over node
// kinds (optionally narrowed to a resolved class ancestry), a token
// pattern over the trailing window, and a generator.
package completions

import (
	"sync"

	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/gir"
	"github.com/bpclang/bpc/language"
	"github.com/bpclang/bpc/parser"
)

type Kind int

const (
	KindKeyword Kind = iota
	KindClass
	KindModule
	KindProperty
	KindEnumMember
	KindEvent
	KindSnippet
	KindConstant
)

// Completion is one ranked suggestion. Snippet uses LSP placeholder
// syntax; Text is a plain insertion used when no snippet applies.
type Completion struct {
	Label    string
	Kind     Kind
	SortText string
	Snippet  string
	Text     string
	Docs     string
	Detail   string
}

// Request is one completion call: the analyzed document, the absolute
// cursor offset, and what the requesting client can render.
type Request struct {
	Root   *ast.Node
	Tokens []parser.Token
	Offset int

	// SupportsChoice indicates the client renders ${1|a,b|} choice
	// placeholders; without it value pickers fall back to plain tab
	// stops.
	SupportsChoice bool
}

// TokenPattern matches one trailing token: by kind, and by literal text
// unless Text is empty. Empty-text ident matches capture their literal
// as a match variable.
type TokenPattern struct {
	Kind parser.TokenKind
	Text string
}

type generator func(req *Request, node *ast.Node, matchVars []string) []Completion

type completer struct {
	appliesIn  []parser.NodeKind
	subclassNS string
	subclass   string
	patterns   [][]TokenPattern
	generate   generator
}

var (
	registerOnce sync.Once
	completers   []completer
)

// windowSize bounds the trailing token context used for pattern matching.
const windowSize = 5

// Complete returns the suggestions applicable at the cursor offset, in
// registration order across completers. It never fails: an empty result
// just means nothing applies here.
func Complete(req *Request) []Completion {
	registerOnce.Do(registerCompleters)
	if req.Root == nil || len(req.Tokens) == 0 {
		return nil
	}

	// Locate the token containing the offset.
	tokenIdx := 0
	for i, tok := range req.Tokens {
		if tok.Span.Start.Offset < req.Offset && req.Offset <= tok.Span.End.Offset {
			tokenIdx = i
		}
	}

	// A half-typed identifier or trailing whitespace must not pollute
	// the pattern window: re-anchor at the previous significant token.
	offset := req.Offset
	for tokenIdx >= 0 {
		kind := req.Tokens[tokenIdx].Kind
		if kind != parser.TokenIdent && kind != parser.TokenWhitespace {
			break
		}
		offset = req.Tokens[tokenIdx].Span.Start.Offset
		tokenIdx--
	}

	node := ast.NodeAt(req.Root, offset)
	window := trailingWindow(req.Tokens, tokenIdx)

	var results []Completion
	for _, c := range completers {
		if !c.applies(node) {
			continue
		}
		matchVars, ok := c.match(window)
		if !ok {
			continue
		}
		results = append(results, c.generate(req, node, matchVars)...)
	}
	return results
}

// trailingWindow collects up to windowSize non-skippable tokens ending at
// tokenIdx, oldest first.
func trailingWindow(tokens []parser.Token, tokenIdx int) []parser.Token {
	var window []parser.Token
	for i := tokenIdx; i >= 0 && len(window) < windowSize; i-- {
		if tokens[i].Kind.IsSkippable() || tokens[i].Kind == parser.TokenEOF {
			continue
		}
		window = append([]parser.Token{tokens[i]}, window...)
	}
	return window
}

func (c completer) applies(node *ast.Node) bool {
	found := false
	for _, kind := range c.appliesIn {
		if node.Kind == kind {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if c.subclass != "" {
		class := language.GirClassOf(node)
		if class == nil || !class.IsSubclassOf(c.subclassNS, c.subclass) {
			return false
		}
	}
	return true
}

// match tests the patterns against the end of the window; the first
// matching pattern wins and its wildcard identifier literals become the
// match variables. A completer with no patterns always matches.
func (c completer) match(window []parser.Token) ([]string, bool) {
	if len(c.patterns) == 0 {
		return nil, true
	}
	for _, pattern := range c.patterns {
		if len(window) < len(pattern) {
			continue
		}
		tail := window[len(window)-len(pattern):]
		var matchVars []string
		ok := true
		for i, p := range pattern {
			if tail[i].Kind != p.Kind {
				ok = false
				break
			}
			if p.Text != "" && tail[i].Literal != p.Text {
				ok = false
				break
			}
			if p.Text == "" {
				matchVars = append(matchVars, tail[i].Literal)
			}
		}
		if ok {
			return matchVars, true
		}
	}
	return nil, false
}

func repositoryOf(req *Request) *gir.Repository {
	return language.RepositoryOf(req.Root)
}
