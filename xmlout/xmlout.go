// Package xmlout lowers an analyzed blueprint tree to GtkBuilder XML.
// The walk is mechanical; all the intelligence lives in the analysis.
package xmlout

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/bpclang/bpc/ast"
	"github.com/bpclang/bpc/language"
	"github.com/bpclang/bpc/parser"
)

type emitter struct {
	buf    bytes.Buffer
	indent int
}

// Emit serializes the document tree. The caller is expected to refuse
// emission when analysis produced fatal diagnostics; a nil root is the
// only error here.
func Emit(root *ast.Node) ([]byte, error) {
	if root == nil || root.Kind != parser.KindDocument {
		return nil, fmt.Errorf("xmlout: no document to emit")
	}
	e := &emitter{}
	e.line(`<?xml version="1.0" encoding="UTF-8"?>`)
	e.line("<interface>")
	e.indent++

	if directive := root.FirstChildOfKind(parser.KindGtkDirective); directive != nil {
		if version := directive.TokenText("version"); version != "" {
			e.line(`<requires lib="gtk" version="%s"/>`, escape(version))
		}
	}
	for _, imp := range root.ChildrenOfKind(parser.KindImport) {
		name := imp.TokenText("namespace")
		version := imp.TokenText("version")
		if name != "" && version != "" {
			e.line(`<requires lib="%s" version="%s"/>`, escape(strings.ToLower(name)), escape(version))
		}
	}

	for _, child := range root.Children {
		switch child.Kind {
		case parser.KindTemplate:
			e.template(child)
		case parser.KindObject:
			e.object(child, false)
		}
	}

	e.indent--
	e.line("</interface>")
	return e.buf.Bytes(), nil
}

func (e *emitter) template(n *ast.Node) {
	attrs := fmt.Sprintf(` class="%s"`, escape(n.TokenText("name")))
	if parent := n.FirstChildOfKind(parser.KindTypeName); parent != nil {
		attrs += fmt.Sprintf(` parent="%s"`, escape(glibName(parent)))
	}
	e.line("<template%s>", attrs)
	e.indent++
	e.content(n.FirstChildOfKind(parser.KindObjectContent))
	e.indent--
	e.line("</template>")
}

func (e *emitter) object(n *ast.Node, wrapInChild bool) {
	if wrapInChild {
		e.line("<child>")
		e.indent++
	}
	attrs := ""
	if typeName := n.FirstChildOfKind(parser.KindTypeName); typeName != nil {
		attrs += fmt.Sprintf(` class="%s"`, escape(glibName(typeName)))
	}
	if id := n.TokenText("id"); id != "" {
		attrs += fmt.Sprintf(` id="%s"`, escape(id))
	}
	e.line("<object%s>", attrs)
	e.indent++
	e.content(n.FirstChildOfKind(parser.KindObjectContent))
	e.indent--
	e.line("</object>")
	if wrapInChild {
		e.indent--
		e.line("</child>")
	}
}

func (e *emitter) content(n *ast.Node) {
	if n == nil {
		return
	}
	for _, child := range n.Children {
		switch child.Kind {
		case parser.KindProperty:
			e.property(child)
		case parser.KindSignal:
			e.signal(child)
		case parser.KindObject:
			e.object(child, true)
		case parser.KindResponseDialog:
			e.responses(child)
		}
	}
}

func (e *emitter) property(n *ast.Node) {
	name := n.TokenText("name")
	if name == "" {
		return
	}
	value, translatable := language.ValueText(n)
	attrs := fmt.Sprintf(` name="%s"`, escape(name))
	if translatable {
		attrs += ` translatable="yes"`
	}
	e.line("<property%s>%s</property>", attrs, escape(value))
}

func (e *emitter) signal(n *ast.Node) {
	name := n.TokenText("name")
	handler := n.TokenText("handler")
	if name == "" || handler == "" {
		return
	}
	if detail := n.TokenText("detail"); detail != "" {
		name = name + "::" + detail
	}
	attrs := fmt.Sprintf(` name="%s" handler="%s"`, escape(name), escape(handler))
	for _, flag := range n.ChildrenOfKind(parser.KindSignalFlag) {
		switch flag.TokenText("flag") {
		case "swapped":
			attrs += ` swapped="yes"`
		case "after":
			attrs += ` after="yes"`
		}
	}
	e.line("<signal%s/>", attrs)
}

func (e *emitter) responses(n *ast.Node) {
	e.line("<responses>")
	e.indent++
	for _, response := range n.ChildrenOfKind(parser.KindResponse) {
		id := response.TokenText("id")
		if id == "" {
			continue
		}
		attrs := fmt.Sprintf(` id="%s"`, escape(id))
		value := ""
		if sv := response.FirstChildOfKind(parser.KindStringValue); sv != nil {
			value = language.Unquote(sv.TokenText("value"))
			if sv.HasToken("translatable") {
				attrs += ` translatable="yes"`
			}
		}
		if appearance := language.ResponseAppearance(response); appearance != "" {
			attrs += fmt.Sprintf(` appearance="%s"`, appearance)
		}
		if !language.ResponseEnabled(response) {
			attrs += ` enabled="false"`
		}
		e.line("<response%s>%s</response>", attrs, escape(value))
	}
	e.indent--
	e.line("</responses>")
}

func glibName(typeName *ast.Node) string {
	ns := typeName.TokenText("namespace")
	if ns == "" {
		ns = "Gtk"
	}
	return ns + typeName.TokenText("class_name")
}

func (e *emitter) line(format string, args ...any) {
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("  ")
	}
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func escape(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on writer errors, which bytes.Buffer never has.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
