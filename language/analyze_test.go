package language

import (
	"strings"
	"testing"

	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/diag"
	"github.com/bpclang/bpc/gir"
	"github.com/bpclang/bpc/parser"
)

// testRepository is a small hand-built catalog standing in for loaded
// introspection data: enough of Gtk and Adw to exercise every validator.
func testRepository() *gir.Repository {
	repo := gir.NewRepository()
	gtk := repo.AddNamespace("Gtk", "4.12")

	widget := gtk.AddClass("Widget", nil)
	widget.Abstract = true
	widget.AddProperty(&gir.Property{Name: "visible", Type: gir.TypeRef{Kind: gir.TypeBool}})
	widget.AddProperty(&gir.Property{Name: "margin-top", Type: gir.TypeRef{Kind: gir.TypeNumber}})
	widget.AddSignal(&gir.Signal{Name: "destroy"})

	orientation := &gir.Enumeration{
		Name: "Orientation",
		Members: []gir.EnumMember{
			{Name: "horizontal"},
			{Name: "vertical"},
		},
	}

	box := gtk.AddClass("Box", widget)
	box.AddProperty(&gir.Property{Name: "spacing", Type: gir.TypeRef{Kind: gir.TypeNumber}})
	box.AddProperty(&gir.Property{Name: "homogeneous", Type: gir.TypeRef{Kind: gir.TypeBool}})
	box.AddProperty(&gir.Property{Name: "orientation", Type: gir.TypeRef{Kind: gir.TypeEnum, Name: "Orientation", Enum: orientation}})

	label := gtk.AddClass("Label", widget)
	label.AddProperty(&gir.Property{Name: "label", Type: gir.TypeRef{Kind: gir.TypeString}, Translatable: true})

	button := gtk.AddClass("Button", widget)
	button.AddProperty(&gir.Property{Name: "label", Type: gir.TypeRef{Kind: gir.TypeString}, Translatable: true})
	button.AddSignal(&gir.Signal{Name: "clicked"})

	adw := repo.AddNamespace("Adw", "1.5")
	adw.AddClass("MessageDialog", widget)
	adw.AddClass("AlertDialog", widget)
	return repo
}

func analyze(t *testing.T, source string) *Result {
	t.Helper()
	result := Analyze([]byte(source), testRepository())
	if result == nil {
		t.Fatal("Analyze returned nil")
	}
	return result
}

func messages(diags []*diag.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

func TestAnalyzeValidDocument(t *testing.T) {
	result := analyze(t, `using Gtk 4.0;

template MyWin : Gtk.Box {
  spacing: 6;
  homogeneous: true;
  orientation: vertical;

  Gtk.Label title {
    label: _("Hello");
  }

  Gtk.Button {
    clicked => $on_clicked();
  }
}
`)
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", messages(result.Errors))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", messages(result.Warnings))
	}
	if result.Root == nil || result.Root.FirstChildOfKind(parser.KindTemplate) == nil {
		t.Fatal("template missing from the tree")
	}
}

func TestAnalyzeWithoutDirectiveStillAnalyzes(t *testing.T) {
	result := analyze(t, `template MyWin : Gtk.Box {
  spacing: 6;
}
`)
	if len(result.Errors) != 1 {
		t.Fatalf("got errors %v, want exactly the missing-directive error", messages(result.Errors))
	}
	if result.Errors[0].Message != `Expected a "using Gtk 4.0;" directive` {
		t.Errorf("error = %q", result.Errors[0].Message)
	}
	if result.Root.FirstChildOfKind(parser.KindTemplate) == nil {
		t.Error("the rest of the document should still be analyzed")
	}
}

func TestSingleStrayTokenAddsOneError(t *testing.T) {
	result := analyze(t, `using Gtk 4.0;

Gtk.Box {
  spacing: 6;
  @
  homogeneous: true;
}
`)
	if len(result.Errors) != 1 {
		t.Fatalf("got errors %v, want exactly one for the stray token", messages(result.Errors))
	}
	if result.Errors[0].Message != "Could not understand this syntax" {
		t.Errorf("error = %q", result.Errors[0].Message)
	}
}

func TestGtkVersionTooNew(t *testing.T) {
	result := analyze(t, "using Gtk 4.14;\n\nGtk.Box {}\n")
	if len(result.Errors) != 1 {
		t.Fatalf("got errors %v, want 1", messages(result.Errors))
	}
	err := result.Errors[0]
	if err.Message != "GTK 4.14 is not available (have 4.12)" {
		t.Errorf("error = %q", err.Message)
	}
	if len(err.Actions) != 1 || err.Actions[0].Replacement != "4.0" {
		t.Errorf("quick fix = %+v, want replacement %q", err.Actions, "4.0")
	}
}

func TestUnknownImport(t *testing.T) {
	result := analyze(t, "using Gtk 4.0;\nusing Foo 1.0;\n\nGtk.Box {}\n")
	want := "Namespace Foo could not be found"
	if len(result.Errors) != 1 || result.Errors[0].Message != want {
		t.Errorf("got errors %v, want [%q]", messages(result.Errors), want)
	}
}

func TestDuplicateObjectIDs(t *testing.T) {
	source := `using Gtk 4.0;

Gtk.Label foo {}
Gtk.Label foo {}
`
	result := analyze(t, source)
	if len(result.Errors) != 1 {
		t.Fatalf("got errors %v, want 1", messages(result.Errors))
	}
	err := result.Errors[0]
	if err.Message != "Duplicate object ID 'foo'" {
		t.Errorf("error = %q", err.Message)
	}
	// Only the second occurrence is flagged.
	first := strings.Index(source, "foo")
	if err.Span.Start.Offset <= first {
		t.Errorf("error at offset %d, want it on the second occurrence (after %d)", err.Span.Start.Offset, first)
	}
}

func TestTemplateScopeSeparatesIDs(t *testing.T) {
	result := analyze(t, `using Gtk 4.0;

template MyWin : Gtk.Box {
  Gtk.Label foo {}
}

Gtk.Label foo {}
`)
	if len(result.Errors) != 0 {
		t.Errorf("IDs in separate scopes should not collide: %v", messages(result.Errors))
	}
}

func TestUnknownTypeAndNamespace(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "unknown type",
			source: "using Gtk 4.0;\nGtk.Carousel {}\n",
			want:   "Namespace Gtk does not contain a type called Carousel",
		},
		{
			name:   "unknown namespace",
			source: "using Gtk 4.0;\nFoo.Bar {}\n",
			want:   "Namespace Foo could not be found",
		},
		{
			name:   "unqualified name resolves in Gtk",
			source: "using Gtk 4.0;\nCarousel {}\n",
			want:   "Namespace Gtk does not contain a type called Carousel",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyze(t, tt.source)
			if len(result.Errors) != 1 || result.Errors[0].Message != tt.want {
				t.Errorf("got errors %v, want [%q]", messages(result.Errors), tt.want)
			}
		})
	}
}

func TestAbstractClassCannotBeInstantiated(t *testing.T) {
	result := analyze(t, "using Gtk 4.0;\nGtk.Widget {}\n")
	want := "Gtk.Widget is abstract and cannot be instantiated"
	if len(result.Errors) != 1 || result.Errors[0].Message != want {
		t.Errorf("got errors %v, want [%q]", messages(result.Errors), want)
	}
}

func TestPropertyValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		class   string
		want    string
	}{
		{
			name:    "unknown property",
			class:   "Gtk.Box",
			content: "flavor: 1;",
			want:    "Class Gtk.Box does not have a property named flavor",
		},
		{
			name:    "boolean wants true or false",
			class:   "Gtk.Box",
			content: "homogeneous: maybe;",
			want:    "Expected 'true' or 'false' for boolean property",
		},
		{
			name:    "enum member must exist",
			class:   "Gtk.Box",
			content: "orientation: diagonal;",
			want:    "'diagonal' is not a member of Orientation",
		},
		{
			name:    "string property rejects a number",
			class:   "Gtk.Label",
			content: "label: 5;",
			want:    "Expected a string value",
		},
		{
			name:    "inherited kebab-case property is fine",
			class:   "Gtk.Box",
			content: "margin-top: 12;",
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyze(t, "using Gtk 4.0;\n"+tt.class+" {\n  "+tt.content+"\n}\n")
			got := messages(result.Errors)
			if tt.want == "" {
				if len(got) != 0 {
					t.Errorf("unexpected errors: %v", got)
				}
				return
			}
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("got errors %v, want [%q]", got, tt.want)
			}
		})
	}
}

func TestDuplicateProperty(t *testing.T) {
	result := analyze(t, "using Gtk 4.0;\nGtk.Box {\n  spacing: 6;\n  spacing: 8;\n}\n")
	want := "Duplicate property 'spacing'"
	if len(result.Errors) != 1 || result.Errors[0].Message != want {
		t.Errorf("got errors %v, want [%q]", messages(result.Errors), want)
	}
}

func TestUnknownSignal(t *testing.T) {
	result := analyze(t, "using Gtk 4.0;\nGtk.Box {\n  clack => $on_clack();\n}\n")
	want := "Class Gtk.Box does not have a signal named clack"
	if len(result.Errors) != 1 || result.Errors[0].Message != want {
		t.Errorf("got errors %v, want [%q]", messages(result.Errors), want)
	}
}

func TestDuplicateSignal(t *testing.T) {
	result := analyze(t, `using Gtk 4.0;
Gtk.Button {
  clicked => $a();
  clicked => $b();
}
`)
	want := "Duplicate signal 'clicked'"
	if len(result.Errors) != 1 || result.Errors[0].Message != want {
		t.Errorf("got errors %v, want [%q]", messages(result.Errors), want)
	}
}

func TestBareHandlerSuggestsPrefix(t *testing.T) {
	result := analyze(t, "using Gtk 4.0;\nGtk.Button {\n  clicked => on_click();\n}\n")
	if len(result.Errors) != 0 {
		t.Fatalf("the bare handler form is accepted, got errors %v", messages(result.Errors))
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got warnings %v, want 1", messages(result.Warnings))
	}
	warn := result.Warnings[0]
	if warn.Message != "Use '$' before the handler name" {
		t.Errorf("warning = %q", warn.Message)
	}
	if len(warn.Actions) != 1 || warn.Actions[0].Replacement != "$on_click" {
		t.Errorf("quick fix = %+v, want replacement %q", warn.Actions, "$on_click")
	}
}

func TestTemplateWithoutParentSuggestsOne(t *testing.T) {
	result := analyze(t, "using Gtk 4.0;\n\ntemplate MyWin {\n}\n")
	if len(result.Warnings) != 1 {
		t.Fatalf("got warnings %v, want 1", messages(result.Warnings))
	}
	warn := result.Warnings[0]
	if warn.Message != "Expected a parent class after the template name" {
		t.Errorf("warning = %q", warn.Message)
	}
	if len(warn.Actions) != 1 || warn.Actions[0].Replacement != " : Gtk.Widget" {
		t.Errorf("quick fix = %+v", warn.Actions)
	}
}

func TestDuplicateTemplate(t *testing.T) {
	result := analyze(t, `using Gtk 4.0;

template A : Gtk.Box {}
template B : Gtk.Box {}
`)
	want := "Duplicate template block"
	if len(result.Errors) != 1 || result.Errors[0].Message != want {
		t.Errorf("got errors %v, want [%q]", messages(result.Errors), want)
	}
}

func TestResponsesPlacement(t *testing.T) {
	t.Run("rejected outside dialogs", func(t *testing.T) {
		result := analyze(t, "using Gtk 4.0;\nGtk.Box {\n  responses [\n    ok: \"OK\"\n  ]\n}\n")
		want := "'responses' can only be used in Adw.MessageDialog or Adw.AlertDialog"
		if len(result.Errors) != 1 || result.Errors[0].Message != want {
			t.Errorf("got errors %v, want [%q]", messages(result.Errors), want)
		}
	})

	t.Run("accepted in a message dialog", func(t *testing.T) {
		result := analyze(t, `using Gtk 4.0;
using Adw 1.0;

Adw.MessageDialog {
  responses [
    cancel: _("Cancel"),
    delete: "Delete" destructive,
    save: "Save" suggested disabled
  ]
}
`)
		if len(result.Errors) != 0 {
			t.Errorf("unexpected errors: %v", messages(result.Errors))
		}
	})
}

func TestResponseValidation(t *testing.T) {
	tests := []struct {
		name      string
		responses string
		want      string
	}{
		{
			name:      "duplicate response id",
			responses: `ok: "OK", ok: "Again"`,
			want:      "Duplicate response ID 'ok'",
		},
		{
			name:      "duplicate flag",
			responses: `ok: "OK" disabled disabled`,
			want:      "Duplicate 'disabled' flag",
		},
		{
			name:      "suggested and destructive are exclusive",
			responses: `ok: "OK" suggested destructive`,
			want:      "'suggested' and 'destructive' are exclusive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyze(t, "using Gtk 4.0;\nusing Adw 1.0;\nAdw.AlertDialog {\n  responses [ "+tt.responses+" ]\n}\n")
			if len(result.Errors) != 1 || result.Errors[0].Message != tt.want {
				t.Errorf("got errors %v, want [%q]", messages(result.Errors), tt.want)
			}
		})
	}
}

func TestAnalyzeNilRepositorySkipsCatalogChecks(t *testing.T) {
	result := Analyze([]byte("using Gtk 4.0;\nGtk.NoSuchThing {\n  whatever: 1;\n}\n"), nil)
	if len(result.Errors) != 0 {
		t.Errorf("catalog checks should be skipped without a repository: %v", messages(result.Errors))
	}
}

func TestAnalyzeIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"}}}}{{{{",
		"using using using",
		"template template",
		"Gtk.Box { \"unterminated",
		"@#@#@#",
	}
	for _, input := range inputs {
		result := Analyze([]byte(input), testRepository())
		if result == nil {
			t.Fatalf("Analyze(%q) returned nil", input)
		}
	}
}

func TestSpanNesting(t *testing.T) {
	// A document with recovered errors still has strictly nested,
	// ordered spans.
	result := analyze(t, `using Gtk 4.0;

template MyWin : Gtk.Box {
  spacing: 6;
  @ @
  Gtk.Label title {
    label: _("Hi");
  }
}

Gtk.Button {
  clicked =>
}
`)
	ast.Walk(result.Root, func(n *ast.Node) bool {
		parent := n.Span()
		last := parent.Start.Offset
		for _, child := range n.Children {
			cs := child.Span()
			if cs.Start.Offset < parent.Start.Offset || cs.End.Offset > parent.End.Offset {
				t.Errorf("%v span [%d,%d) escapes parent %v [%d,%d)",
					child.Kind, cs.Start.Offset, cs.End.Offset,
					n.Kind, parent.Start.Offset, parent.End.Offset)
			}
			if cs.Start.Offset < last {
				t.Errorf("%v span [%d,%d) overlaps or precedes its previous sibling (end %d)",
					child.Kind, cs.Start.Offset, cs.End.Offset, last)
			}
			last = cs.End.Offset
		}
		return true
	})
}

func TestDocumentSymbols(t *testing.T) {
	result := analyze(t, `using Gtk 4.0;

template MyWin : Gtk.Box {
  spacing: 6;

  Gtk.Label title {
    label: "Hi";
  }
}
`)
	symbols := ast.DocumentSymbols(result.Root)
	if len(symbols) != 1 {
		t.Fatalf("got %d top-level symbols, want 1", len(symbols))
	}
	tpl := symbols[0]
	if tpl.Name != "template MyWin" || tpl.Detail != "Gtk.Box" {
		t.Errorf("template symbol = %q (%q)", tpl.Name, tpl.Detail)
	}
	if len(tpl.Children) != 2 {
		t.Fatalf("template symbol has %d children, want 2 (property and object)", len(tpl.Children))
	}
	if tpl.Children[0].Name != "spacing" {
		t.Errorf("first child = %q, want %q", tpl.Children[0].Name, "spacing")
	}
	obj := tpl.Children[1]
	if obj.Name != "Gtk.Label" || obj.Detail != "title" {
		t.Errorf("object symbol = %q (%q)", obj.Name, obj.Detail)
	}
	if len(obj.Children) != 1 || obj.Children[0].Name != "label" {
		t.Errorf("object symbol children = %+v", obj.Children)
	}
}
