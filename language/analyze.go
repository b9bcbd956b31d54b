package language

import (
	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/diag"
	"github.com/bpclang/bpc/gir"
	"github.com/bpclang/bpc/parser"
)

// Result is everything one analysis of one document version produces.
// The tree and token stream are immutable after construction; an edit
// produces a fresh Result rather than patching this one.
type Result struct {
	Root     *ast.Node
	Tokens   []parser.Token
	Errors   []*diag.Diagnostic
	Warnings []*diag.Diagnostic
}

// Analyze tokenizes, parses, and validates one document against the type
// catalog. It is total: any input, including garbage, yields a Result,
// and a repo of nil merely skips catalog-dependent validation.
func Analyze(text []byte, repo *gir.Repository) *Result {
	ensureRegistered()

	tokens := parser.Tokenize(text)
	group, parseErrors, parseWarnings := parser.Parse(tokens, documentRule)

	result := &Result{Tokens: tokens}
	if group == nil {
		result.Errors = parseErrors
		result.Warnings = parseWarnings
		return result
	}

	rootContexts := map[ast.ContextKey]any{}
	if repo != nil {
		rootContexts[CtxRepository] = repo
	}
	root := ast.Build(group, rootContexts)
	ast.Validate(root)

	errors := append([]*diag.Diagnostic{}, parseErrors...)
	warnings := append([]*diag.Diagnostic{}, parseWarnings...)
	for _, d := range ast.CollectDiagnostics(root) {
		if d.Severity == diag.SeverityError {
			errors = append(errors, d)
		} else {
			warnings = append(warnings, d)
		}
	}
	diag.Sort(errors)
	diag.Sort(warnings)

	result.Root = root
	result.Errors = errors
	result.Warnings = warnings
	return result
}
