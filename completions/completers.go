package completions

import (
	"fmt"
	"strings"

	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/gir"
	"github.com/bpclang/bpc/language"
	"github.com/bpclang/bpc/parser"
)

// newStatementPatterns match positions where a new statement may start:
// right after a statement, or at a block boundary.
var newStatementPatterns = [][]TokenPattern{
	{{Kind: parser.TokenOp, Text: ";"}},
	{{Kind: parser.TokenOp, Text: "{"}},
	{{Kind: parser.TokenOp, Text: "}"}},
	{{Kind: parser.TokenOp, Text: "]"}},
}

func register(c completer) {
	completers = append(completers, c)
}

func registerCompleters() {
	register(completer{
		appliesIn: []parser.NodeKind{parser.KindGtkDirective},
		generate:  completeUsingGtk,
	})
	register(completer{
		appliesIn: []parser.NodeKind{parser.KindDocument},
		patterns:  newStatementPatterns,
		generate:  completeTemplate,
	})
	register(completer{
		appliesIn: []parser.NodeKind{parser.KindDocument, parser.KindObjectContent, parser.KindTemplate},
		patterns:  newStatementPatterns,
		generate:  completeNamespaces,
	})
	register(completer{
		appliesIn: []parser.NodeKind{parser.KindDocument, parser.KindObjectContent, parser.KindTemplate},
		patterns: [][]TokenPattern{
			{{Kind: parser.TokenIdent}, {Kind: parser.TokenOp, Text: "."}, {Kind: parser.TokenIdent}},
			{{Kind: parser.TokenIdent}, {Kind: parser.TokenOp, Text: "."}},
		},
		generate: completeNamespaceObjects,
	})
	register(completer{
		appliesIn: []parser.NodeKind{parser.KindDocument, parser.KindObjectContent, parser.KindTemplate},
		patterns:  newStatementPatterns,
		generate:  completeGtkObjects,
	})
	register(completer{
		appliesIn: []parser.NodeKind{parser.KindObjectContent},
		patterns:  newStatementPatterns,
		generate:  completeProperties,
	})
	register(completer{
		appliesIn: []parser.NodeKind{parser.KindProperty},
		patterns: [][]TokenPattern{
			{{Kind: parser.TokenIdent}, {Kind: parser.TokenOp, Text: ":"}},
		},
		generate: completePropertyValues,
	})
	register(completer{
		appliesIn: []parser.NodeKind{parser.KindObjectContent},
		patterns:  newStatementPatterns,
		generate:  completeSignals,
	})
	register(completer{
		appliesIn:  []parser.NodeKind{parser.KindObjectContent},
		subclassNS: "Adw", subclass: "MessageDialog",
		patterns: newStatementPatterns,
		generate: completeResponses,
	})
	register(completer{
		appliesIn:  []parser.NodeKind{parser.KindObjectContent},
		subclassNS: "Adw", subclass: "AlertDialog",
		patterns: newStatementPatterns,
		generate: completeResponses,
	})
}

func completeUsingGtk(req *Request, node *ast.Node, _ []string) []Completion {
	return []Completion{{
		Label:   "using Gtk 4.0",
		Kind:    KindKeyword,
		Snippet: "using Gtk 4.0;\n",
	}}
}

func completeTemplate(req *Request, node *ast.Node, _ []string) []Completion {
	return []Completion{{
		Label:   "template",
		Kind:    KindSnippet,
		Snippet: "template ${1:ClassName} : ${2:ParentClass} {\n  $0\n}",
	}}
}

func completeNamespaces(req *Request, node *ast.Node, _ []string) []Completion {
	repo := repositoryOf(req)
	results := []Completion{{Label: "Gtk", Kind: KindModule, Text: "Gtk."}}
	for _, imp := range req.Root.ChildrenOfKind(parser.KindImport) {
		name := imp.TokenText("namespace")
		if name == "" || repo.Namespace(name) == nil {
			continue
		}
		results = append(results, Completion{Label: name, Kind: KindModule, Text: name + "."})
	}
	return results
}

func completeNamespaceObjects(req *Request, node *ast.Node, matchVars []string) []Completion {
	repo := repositoryOf(req)
	if repo == nil || len(matchVars) == 0 {
		return nil
	}
	ns := repo.Namespace(matchVars[0])
	if ns == nil {
		return nil
	}
	return classCompletions(ns)
}

func completeGtkObjects(req *Request, node *ast.Node, _ []string) []Completion {
	repo := repositoryOf(req)
	if repo == nil {
		return nil
	}
	ns := repo.Namespace("Gtk")
	if ns == nil {
		return nil
	}
	return classCompletions(ns)
}

func classCompletions(ns *gir.Namespace) []Completion {
	var results []Completion
	for _, class := range ns.Classes() {
		if class.Abstract {
			continue
		}
		results = append(results, Completion{
			Label:   class.Name,
			Kind:    KindClass,
			Snippet: fmt.Sprintf("%s {\n  $0\n}", class.Name),
			Docs:    class.Doc,
			Detail:  class.Detail,
		})
	}
	return results
}

// completeProperties shapes each suggestion by the property's value kind:
// booleans and small enumerations get a choice picker when the client
// supports it, strings get a quoted (or translatable) snippet, the rest
// fall back to an empty tab stop.
func completeProperties(req *Request, node *ast.Node, _ []string) []Completion {
	class := language.GirClassOf(node)
	if class == nil {
		return nil
	}
	var results []Completion
	for _, prop := range class.Properties() {
		var snippet string
		switch {
		case prop.Type.Kind == gir.TypeBool && req.SupportsChoice:
			snippet = fmt.Sprintf("%s: ${1|true,false|};", prop.Name)
		case prop.Type.Kind == gir.TypeString:
			if prop.Translatable {
				snippet = fmt.Sprintf(`%s: _("$0");`, prop.Name)
			} else {
				snippet = fmt.Sprintf(`%s: "$0";`, prop.Name)
			}
		case prop.Type.Kind == gir.TypeEnum && prop.Type.Enum != nil &&
			len(prop.Type.Enum.Members) <= 10 && req.SupportsChoice:
			var choices []string
			for _, m := range prop.Type.Enum.Members {
				choices = append(choices, m.Name)
			}
			snippet = fmt.Sprintf("%s: ${1|%s|};", prop.Name, strings.Join(choices, ","))
		case prop.Type.Kind == gir.TypeExpression:
			snippet = fmt.Sprintf("%s: expr $0;", prop.Name)
		default:
			snippet = fmt.Sprintf("%s: $0;", prop.Name)
		}
		results = append(results, Completion{
			Label:    prop.Name,
			Kind:     KindProperty,
			SortText: "0 " + prop.Name,
			Snippet:  snippet,
			Docs:     prop.Doc,
			Detail:   prop.Detail,
		})
	}
	return results
}

func completePropertyValues(req *Request, node *ast.Node, _ []string) []Completion {
	vt := language.PropertyType(node)
	if vt == nil {
		return nil
	}
	switch vt.Kind {
	case gir.TypeEnum:
		if vt.Enum == nil {
			return nil
		}
		var results []Completion
		for _, m := range vt.Enum.Members {
			results = append(results, Completion{
				Label:  m.Name,
				Kind:   KindEnumMember,
				Docs:   m.Doc,
				Detail: m.Detail,
			})
		}
		return results
	case gir.TypeBool:
		return []Completion{
			{Label: "true", Kind: KindConstant},
			{Label: "false", Kind: KindConstant},
		}
	}
	return nil
}

func completeSignals(req *Request, node *ast.Node, _ []string) []Completion {
	class := language.GirClassOf(node)
	if class == nil {
		return nil
	}
	prefix := handlerPrefix(node)
	var results []Completion
	for _, signal := range class.Signals() {
		handler := prefix + "_" + strings.ReplaceAll(signal.Name, "-", "_")
		results = append(results, Completion{
			Label:    signal.Name,
			Kind:     KindEvent,
			SortText: "1 " + signal.Name,
			Snippet:  fmt.Sprintf(`%s => \$${1:%s}()$0;`, signal.Name, handler),
			Docs:     signal.Doc,
			Detail:   signal.Detail,
		})
	}
	return results
}

// handlerPrefix derives a suggested handler name stem from the enclosing
// object's ID, falling back to its class name, or a bare "on" inside a
// template.
func handlerPrefix(node *ast.Node) string {
	parent := node.Parent
	if parent == nil || parent.Kind != parser.KindObject {
		return "on"
	}
	if id := parent.TokenText("id"); id != "" {
		return "on_" + id
	}
	if typeName := parent.FirstChildOfKind(parser.KindTypeName); typeName != nil {
		return "on_" + strings.ToLower(typeName.TokenText("class_name"))
	}
	return "on"
}

func completeResponses(req *Request, node *ast.Node, _ []string) []Completion {
	return []Completion{{
		Label:   "responses",
		Kind:    KindKeyword,
		Snippet: "responses [\n\t$0\n]",
	}}
}
