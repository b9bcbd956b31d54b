package parser

import "github.com/bpclang/bpc/diag"

// Positions and spans are shared with the diagnostics package so that
// tokens, parse groups, and diagnostics all speak the same coordinates.
type (
	Position = diag.Position
	Span     = diag.Span
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	TokenIdent
	TokenNumber
	TokenQuoted
	TokenOp
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:         "EOF",
	TokenError:       "Error",
	TokenWhitespace:  "Whitespace",
	TokenComment:     "Comment",
	TokenLineComment: "LineComment",
	TokenIdent:       "Identifier",
	TokenNumber:      "Number",
	TokenQuoted:      "Quoted",
	TokenOp:          "Op",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsSkippable reports whether tokens of this kind carry no syntax.
// They stay in the token stream so spans cover the source without gaps;
// the grammar engine and the completion window filter on this instead.
func (k TokenKind) IsSkippable() bool {
	return k == TokenWhitespace || k == TokenComment || k == TokenLineComment
}

type Token struct {
	Kind    TokenKind
	Span    diag.Span
	Literal string
}
