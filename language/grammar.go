package language

import "github.com/bpclang/bpc/parser"

// The blueprint grammar, built once from the generic combinators. AnyOf
// alternatives are ordered deliberately: first match wins, so extension
// constructs are tried before signals, signals before properties, and
// properties before child objects.
var (
	documentRule      parser.Rule
	typeNameRule      parser.Rule
	stringValueRule   parser.Rule
	objectRule        parser.Rule
	objectContentRule parser.Rule
	templateRule      parser.Rule
)

func buildGrammar() {
	typeNameRule = parser.Production(parser.KindTypeName, parser.AnyOf(
		parser.Seq(
			parser.UseIdent("namespace"),
			parser.Match("."),
			parser.UseIdent("class_name"),
		),
		parser.UseIdent("class_name"),
	))

	stringValueRule = parser.Production(parser.KindStringValue, parser.AnyOf(
		parser.Seq(
			parser.UseExact("translatable", "_"),
			parser.Match("("),
			parser.Expected(parser.UseQuoted("value"), "Expected a quoted string"),
			parser.Match(")").Expected(""),
		),
		parser.UseQuoted("value"),
	))
	numberValueRule := parser.Production(parser.KindNumberValue, parser.UseNumber("value"))
	identValueRule := parser.Production(parser.KindIdentValue, parser.UseIdent("value"))
	valueRule := parser.AnyOf(stringValueRule, numberValueRule, identValueRule)

	propertyRule := parser.Production(parser.KindProperty,
		parser.UseIdent("name"),
		parser.Match(":"),
		parser.Expected(valueRule, "Expected a value"),
		parser.Match(";").Expected(""),
	)

	signalFlagRule := parser.Production(parser.KindSignalFlag, parser.AnyOf(
		parser.UseExact("flag", "swapped"),
		parser.UseExact("flag", "after"),
	))
	signalRule := parser.Production(parser.KindSignal,
		parser.UseIdent("name"),
		parser.Optional(parser.Seq(
			parser.Match("::"),
			parser.Expected(parser.UseIdent("detail"), "Expected a signal detail name"),
		)),
		parser.Match("=>"),
		parser.Optional(parser.UseExact("handler_prefix", "$")),
		parser.Expected(parser.UseIdent("handler"), "Expected a handler name"),
		parser.Match("(").Expected(""),
		parser.Match(")").Expected(""),
		parser.ZeroOrMore(signalFlagRule),
		parser.Match(";").Expected(""),
	)

	responseFlagRule := parser.Production(parser.KindResponseFlag, parser.AnyOf(
		parser.UseExact("flag", "destructive"),
		parser.UseExact("flag", "suggested"),
		parser.UseExact("flag", "disabled"),
	))
	responseRule := parser.Production(parser.KindResponse,
		parser.UseIdent("id"),
		parser.Match(":").Expected(""),
		parser.Expected(stringValueRule, "Expected a string or translatable string"),
		parser.ZeroOrMore(responseFlagRule),
	)
	responseDialogRule := parser.Production(parser.KindResponseDialog,
		parser.Keyword("responses"),
		parser.Match("[").Expected(""),
		parser.Delimited(responseRule, ","),
		parser.Match("]").Expected(""),
	)

	objectContentRule = parser.Production(parser.KindObjectContent,
		parser.Match("{"),
		parser.Until(parser.AnyOf(
			responseDialogRule,
			signalRule,
			propertyRule,
			parser.Lazy(func() parser.Rule { return objectRule }),
		), parser.Match("}")),
	)

	objectRule = parser.Production(parser.KindObject,
		typeNameRule,
		parser.Optional(parser.UseIdent("id")),
		objectContentRule,
	)

	templateRule = parser.Production(parser.KindTemplate,
		parser.Keyword("template"),
		parser.Expected(parser.UseIdent("name"), "Expected a class name"),
		parser.Mark("parent_start"),
		parser.Optional(parser.Seq(
			parser.Match(":"),
			parser.Expected(typeNameRule, "Expected a parent class name"),
		)),
		parser.Mark("parent_end"),
		parser.Expected(objectContentRule, "Expected an object body"),
	)

	gtkDirectiveRule := parser.Production(parser.KindGtkDirective,
		parser.Keyword("using"),
		parser.UseExact("name", "Gtk"),
		parser.Expected(parser.UseNumber("version"), "Expected a version number for GTK"),
		parser.Match(";").Expected(""),
	)
	importRule := parser.Production(parser.KindImport,
		parser.Keyword("using"),
		parser.UseIdent("namespace"),
		parser.Expected(parser.UseNumber("version"), "Expected a version number"),
		parser.Match(";").Expected(""),
	)

	documentRule = parser.Production(parser.KindDocument,
		parser.Expected(gtkDirectiveRule, `Expected a "using Gtk 4.0;" directive`),
		parser.ZeroOrMore(importRule),
		parser.Until(parser.AnyOf(
			templateRule,
			parser.Lazy(func() parser.Rule { return objectRule }),
		), parser.Eof()),
	)
}
