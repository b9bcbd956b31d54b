package parser

import "strings"

// NodeKind identifies which production built a parse group, and later
// which typed AST node wraps it.
type NodeKind int

const (
	KindError NodeKind = iota

	KindDocument
	KindGtkDirective
	KindImport

	KindTemplate
	KindObject
	KindObjectContent
	KindTypeName

	KindProperty
	KindSignal
	KindSignalFlag

	KindStringValue
	KindNumberValue
	KindIdentValue

	// Toolkit extension constructs
	KindResponseDialog
	KindResponse
	KindResponseFlag
)

var nodeKindNames = map[NodeKind]string{
	KindError:          "Error",
	KindDocument:       "Document",
	KindGtkDirective:   "GtkDirective",
	KindImport:         "Import",
	KindTemplate:       "Template",
	KindObject:         "Object",
	KindObjectContent:  "ObjectContent",
	KindTypeName:       "TypeName",
	KindProperty:       "Property",
	KindSignal:         "Signal",
	KindSignalFlag:     "SignalFlag",
	KindStringValue:    "StringValue",
	KindNumberValue:    "NumberValue",
	KindIdentValue:     "IdentValue",
	KindResponseDialog: "ResponseDialog",
	KindResponse:       "Response",
	KindResponseFlag:   "ResponseFlag",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type slot struct {
	name  string
	token Token
}

type mark struct {
	name string
	pos  Position
}

// Group is the generic parse tree node produced by a production. Its span
// is the union of its children's spans; child spans nest strictly inside
// it and never overlap each other.
type Group struct {
	Kind     NodeKind
	Span     Span
	Children []*Group

	// Incomplete is set when an expected-assertion inside this group
	// failed but parsing recovered: the group is structurally present
	// but semantically partial.
	Incomplete bool

	slots []slot
	marks []mark
}

// Token returns the named captured token, or nil if the capture never
// matched (for example inside an incomplete group).
func (g *Group) Token(name string) *Token {
	for i := range g.slots {
		if g.slots[i].name == name {
			return &g.slots[i].token
		}
	}
	return nil
}

func (g *Group) TokenText(name string) string {
	if tok := g.Token(name); tok != nil {
		return tok.Literal
	}
	return ""
}

func (g *Group) HasToken(name string) bool {
	return g.Token(name) != nil
}

// Mark returns the position recorded under name by a Mark rule.
func (g *Group) Mark(name string) (Position, bool) {
	for _, m := range g.marks {
		if m.name == name {
			return m.pos, true
		}
	}
	return Position{}, false
}

func (g *Group) String() string {
	var sb strings.Builder
	g.dump(&sb, 0)
	return sb.String()
}

func (g *Group) dump(sb *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		sb.WriteString("  ")
	}
	sb.WriteString(g.Kind.String())
	for _, s := range g.slots {
		sb.WriteString(" ")
		sb.WriteString(s.name)
		sb.WriteString("=")
		sb.WriteString(s.token.Literal)
	}
	if g.Incomplete {
		sb.WriteString(" INCOMPLETE")
	}
	sb.WriteString("\n")
	for _, child := range g.Children {
		child.dump(sb, indent+1)
	}
}
