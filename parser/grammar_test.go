package parser

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, input string, rule Rule) *Group {
	t.Helper()
	group, errs, _ := Parse(Tokenize([]byte(input)), rule)
	if group == nil {
		t.Fatalf("Parse(%q) produced no group, errors: %v", input, errs)
	}
	return group
}

func TestAnyOfFirstMatchWins(t *testing.T) {
	// Both alternatives match "box"; declaration order decides, not
	// specificity or match length.
	first := Production(KindIdentValue, AnyOf(UseExact("kw", "box"), UseIdent("any")))
	group := mustParse(t, "box", first)
	if !group.HasToken("kw") || group.HasToken("any") {
		t.Errorf("first alternative should win, slots: %s", group.String())
	}

	second := Production(KindIdentValue, AnyOf(UseIdent("any"), UseExact("kw", "box")))
	group = mustParse(t, "box", second)
	if !group.HasToken("any") || group.HasToken("kw") {
		t.Errorf("reordering alternatives should change the winner, slots: %s", group.String())
	}
}

func TestExpectedRecovery(t *testing.T) {
	value := Production(KindNumberValue, UseNumber("value"))
	prop := Production(KindProperty,
		UseIdent("name"),
		Match(":"),
		Expected(value, "Expected a value"),
		Match(";").Expected(""),
	)

	tests := []struct {
		name       string
		input      string
		wantErrors []string
		incomplete bool
	}{
		{
			name:  "complete statement",
			input: "width: 4;",
		},
		{
			name:       "missing value",
			input:      "width: ;",
			wantErrors: []string{"Expected a value"},
			incomplete: true,
		},
		{
			name:       "missing semicolon",
			input:      "width: 4",
			wantErrors: []string{"Expected ';'"},
			incomplete: true,
		},
		{
			name:       "missing value and semicolon",
			input:      "width:",
			wantErrors: []string{"Expected a value", "Expected ';'"},
			incomplete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, errs, _ := Parse(Tokenize([]byte(tt.input)), prop)
			if group == nil {
				t.Fatalf("Parse(%q) produced no group, errors: %v", tt.input, errs)
			}
			if group.TokenText("name") != "width" {
				t.Errorf("name = %q, want %q", group.TokenText("name"), "width")
			}
			if group.Incomplete != tt.incomplete {
				t.Errorf("Incomplete = %v, want %v", group.Incomplete, tt.incomplete)
			}
			if len(errs) != len(tt.wantErrors) {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(tt.wantErrors))
			}
			for i, want := range tt.wantErrors {
				if errs[i].Message != want {
					t.Errorf("error %d = %q, want %q", i, errs[i].Message, want)
				}
			}
		})
	}
}

func TestBacktrackingDiscardsRecordedErrors(t *testing.T) {
	// The first alternative records an expectation error before failing;
	// backtracking must roll the error back along with the position.
	rule := Production(KindDocument, AnyOf(
		Seq(Match("a"), Match("b").Expected(""), Match("z")),
		Seq(Match("a"), Match("c")),
	))
	group, errs, _ := Parse(Tokenize([]byte("a c")), rule)
	if group == nil {
		t.Fatalf("expected the second alternative to match, errors: %v", errs)
	}
	if len(errs) != 0 {
		t.Errorf("got %d errors %v, want 0", len(errs), errs)
	}
	if group.Incomplete {
		t.Error("Incomplete should be rolled back with the failed alternative")
	}
}

func TestUntilMergesGarbageRuns(t *testing.T) {
	item := Production(KindProperty, UseIdent("name"), Match(";"))
	block := Production(KindObjectContent, Match("{"), Until(item, Match("}")))

	input := "{ a; @ # @ b; }"
	group, errs, _ := Parse(Tokenize([]byte(input)), block)
	if group == nil {
		t.Fatalf("Parse(%q) produced no group, errors: %v", input, errs)
	}
	if len(group.Children) != 2 {
		t.Errorf("got %d children, want 2 (recovery must resume after garbage)", len(group.Children))
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors %v, want exactly 1 for the whole garbage run", len(errs), errs)
	}
	if errs[0].Message != "Could not understand this syntax" {
		t.Errorf("error = %q", errs[0].Message)
	}
	start, end := errs[0].Span.Start.Offset, errs[0].Span.End.Offset
	if got := input[start:end]; got != "@ # @" {
		t.Errorf("error spans %q, want %q", got, "@ # @")
	}
	if !group.Incomplete {
		t.Error("a block with skipped garbage should be incomplete")
	}
}

func TestUntilUnexpectedEOF(t *testing.T) {
	item := Production(KindProperty, UseIdent("name"), Match(";"))
	block := Production(KindObjectContent, Match("{"), Until(item, Match("}")))

	group, errs, _ := Parse(Tokenize([]byte("{ a;")), block)
	if group == nil {
		t.Fatalf("unterminated block should still produce a group, errors: %v", errs)
	}
	if len(errs) != 1 || errs[0].Message != "Unexpected end of file" {
		t.Errorf("got errors %v, want exactly one 'Unexpected end of file'", errs)
	}
}

func TestDelimited(t *testing.T) {
	item := Production(KindResponse, UseIdent("id"))
	list := Production(KindResponseDialog, Match("["), Delimited(item, ","), Match("]"))

	tests := []struct {
		input string
		items int
	}{
		{"[]", 0},
		{"[a]", 1},
		{"[a, b]", 2},
		{"[a, b,]", 2}, // trailing separator is allowed
	}
	for _, tt := range tests {
		group, errs, _ := Parse(Tokenize([]byte(tt.input)), list)
		if group == nil || len(errs) != 0 {
			t.Errorf("Parse(%q) failed: %v", tt.input, errs)
			continue
		}
		if len(group.Children) != tt.items {
			t.Errorf("Parse(%q) produced %d items, want %d", tt.input, len(group.Children), tt.items)
		}
	}
}

func TestMarkRecordsPosition(t *testing.T) {
	rule := Production(KindTemplate, Match("a"), Mark("here"), Match("b"))
	group := mustParse(t, "a   b", rule)
	pos, ok := group.Mark("here")
	if !ok {
		t.Fatal("mark 'here' was not recorded")
	}
	if pos.Offset != 4 {
		t.Errorf("mark at offset %d, want 4 (start of 'b')", pos.Offset)
	}
}

func TestProductionSpanExcludesTrailingWhitespace(t *testing.T) {
	item := Production(KindProperty, UseIdent("name"), Match(";"))
	group := mustParse(t, "a ;   ", item)
	if group.Span.Start.Offset != 0 || group.Span.End.Offset != 3 {
		t.Errorf("span = [%d, %d), want [0, 3)", group.Span.Start.Offset, group.Span.End.Offset)
	}
}

func TestParseIsTotal(t *testing.T) {
	rule := Production(KindDocument, Match("{"), Until(Production(KindProperty, UseIdent("name"), Match(";")), Match("}")))

	inputs := []string{"", "xyz", "@@@@", "{{{{", "}}}}", "{ \"unterminated", "a;b;c;"}
	for _, input := range inputs {
		group, errs, _ := Parse(Tokenize([]byte(input)), rule)
		if group == nil && len(errs) == 0 {
			t.Errorf("Parse(%q) produced neither a group nor errors", input)
		}
	}

	if group, errs, _ := Parse(nil, rule); group != nil || len(errs) != 1 {
		t.Errorf("empty token stream: group=%v errs=%v, want nil group and one error", group, errs)
	}
}

func TestReparseIsDeterministic(t *testing.T) {
	item := Production(KindProperty, UseIdent("name"), Match(":"), Expected(Production(KindNumberValue, UseNumber("value")), "Expected a value"), Match(";").Expected(""))
	block := Production(KindObjectContent, Match("{"), Until(item, Match("}")))

	input := "{ a: 1; @@ b: ; c: 3 }"
	first := mustParse(t, input, block).String()
	second := mustParse(t, input, block).String()
	if first != second {
		t.Errorf("re-parsing the same input produced a different tree:\n%s\nvs\n%s", first, second)
	}
	if !strings.Contains(first, "INCOMPLETE") {
		t.Errorf("recovered tree should carry incomplete markers:\n%s", first)
	}
}

func TestKeywordRecordsItsSpan(t *testing.T) {
	rule := Production(KindResponseDialog, Keyword("responses"), Match("["), Match("]"))
	group := mustParse(t, "responses []", rule)
	tok := group.Token("responses")
	if tok == nil {
		t.Fatal("keyword token not recorded")
	}
	if tok.Literal != "responses" || tok.Span.Start.Offset != 0 {
		t.Errorf("keyword token = %q at %d", tok.Literal, tok.Span.Start.Offset)
	}
}
