package parser

import (
	"fmt"

	"github.com/bpclang/bpc/diag"
)

// Rule is a composable parsing primitive over the token stream. Rules
// either consume tokens and contribute to the group under construction,
// or fail without consuming anything (the caller backtracks).
type Rule interface {
	parse(p *state) bool
}

type state struct {
	tokens   []Token
	pos      int
	group    *Group
	errors   []*diag.Diagnostic
	warnings []*diag.Diagnostic
}

func (p *state) current() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

// skip advances past whitespace and comments. They remain in the stream;
// the engine just never matches on them.
func (p *state) skip() {
	for p.pos < len(p.tokens)-1 && p.tokens[p.pos].Kind.IsSkippable() {
		p.pos++
	}
}

type snap struct {
	pos        int
	children   int
	slots      int
	marks      int
	incomplete bool
	errors     int
	warnings   int
}

func (p *state) save() snap {
	return snap{
		pos:        p.pos,
		children:   len(p.group.Children),
		slots:      len(p.group.slots),
		marks:      len(p.group.marks),
		incomplete: p.group.Incomplete,
		errors:     len(p.errors),
		warnings:   len(p.warnings),
	}
}

func (p *state) restore(s snap) {
	p.pos = s.pos
	p.group.Children = p.group.Children[:s.children]
	p.group.slots = p.group.slots[:s.slots]
	p.group.marks = p.group.marks[:s.marks]
	p.group.Incomplete = s.incomplete
	p.errors = p.errors[:s.errors]
	p.warnings = p.warnings[:s.warnings]
}

func try(p *state, r Rule) bool {
	s := p.save()
	if r.parse(p) {
		return true
	}
	p.restore(s)
	return false
}

// tryProgress is try with a forward-progress guard: a success that
// consumed no tokens counts as failure, so repetition rules cannot loop.
func tryProgress(p *state, r Rule) bool {
	s := p.save()
	if r.parse(p) && p.pos > s.pos {
		return true
	}
	p.restore(s)
	return false
}

func canParse(p *state, r Rule) bool {
	s := p.save()
	ok := r.parse(p)
	p.restore(s)
	return ok
}

func (p *state) errorAt(span Span, format string, args ...any) {
	p.errors = append(p.errors, diag.NewError(span, fmt.Sprintf(format, args...)))
}

// here is a zero-width span at the next significant token.
func (p *state) here() Span {
	p.skip()
	pos := p.current().Span.Start
	return Span{Start: pos, End: pos}
}

// Match consumes exactly one token whose literal equals text, regardless
// of kind. Fails (backtrackable) otherwise.
type MatchRule struct {
	text string
}

func Match(text string) MatchRule {
	return MatchRule{text: text}
}

func (m MatchRule) parse(p *state) bool {
	p.skip()
	tok := p.current()
	if tok.Kind == TokenEOF || tok.Literal != m.text {
		return false
	}
	p.pos++
	return true
}

// Expected turns a missing token into a recoverable error instead of a
// backtrack. An empty message defaults to naming the literal.
func (m MatchRule) Expected(message string) Rule {
	if message == "" {
		message = fmt.Sprintf("Expected '%s'", m.text)
	}
	return expectedRule{rule: m, message: message}
}

// Keyword matches an identifier token with the given text and records it
// under its own name, so nodes can find the keyword's span later.
type keywordRule struct {
	text string
}

func Keyword(text string) Rule {
	return keywordRule{text: text}
}

func (k keywordRule) parse(p *state) bool {
	p.skip()
	tok := p.current()
	if tok.Kind != TokenIdent || tok.Literal != k.text {
		return false
	}
	p.group.slots = append(p.group.slots, slot{name: k.text, token: tok})
	p.pos++
	return true
}

type captureRule struct {
	name string
	kind TokenKind
	text string // empty means any literal
}

// UseIdent consumes an identifier and records it under name.
func UseIdent(name string) Rule { return captureRule{name: name, kind: TokenIdent} }

// UseNumber consumes a number literal and records it under name.
func UseNumber(name string) Rule { return captureRule{name: name, kind: TokenNumber} }

// UseQuoted consumes a quoted string and records it under name.
func UseQuoted(name string) Rule { return captureRule{name: name, kind: TokenQuoted} }

// UseExact consumes a token with exactly the given literal and records it
// under name.
func UseExact(name, text string) Rule {
	return captureRule{name: name, kind: -1, text: text}
}

func (c captureRule) parse(p *state) bool {
	p.skip()
	tok := p.current()
	if tok.Kind == TokenEOF {
		return false
	}
	if c.kind >= 0 && tok.Kind != c.kind {
		return false
	}
	if c.text != "" && tok.Literal != c.text {
		return false
	}
	p.group.slots = append(p.group.slots, slot{name: c.name, token: tok})
	p.pos++
	return true
}

// Seq applies rules in order. If any rule fails the whole sequence fails
// and the caller backtracks to its start.
type seqRule struct {
	rules []Rule
}

func Seq(rules ...Rule) Rule {
	return seqRule{rules: rules}
}

func (s seqRule) parse(p *state) bool {
	for _, r := range s.rules {
		if !r.parse(p) {
			return false
		}
	}
	return true
}

// AnyOf tries alternatives in declaration order; the first match wins.
// This is deliberately not longest-match: grammars may be ambiguous by
// construction and are resolved by declaration order alone.
type anyOfRule struct {
	rules []Rule
}

func AnyOf(rules ...Rule) Rule {
	return anyOfRule{rules: rules}
}

func (a anyOfRule) parse(p *state) bool {
	for _, r := range a.rules {
		if try(p, r) {
			return true
		}
	}
	return false
}

type optionalRule struct {
	rule Rule
}

func Optional(rule Rule) Rule {
	return optionalRule{rule: rule}
}

func (o optionalRule) parse(p *state) bool {
	try(p, o.rule)
	return true
}

type zeroOrMoreRule struct {
	rule Rule
}

func ZeroOrMore(rule Rule) Rule {
	return zeroOrMoreRule{rule: rule}
}

func (z zeroOrMoreRule) parse(p *state) bool {
	for tryProgress(p, z.rule) {
	}
	return true
}

// Delimited parses zero or more rule instances separated by the literal
// separator. A trailing separator is allowed.
type delimitedRule struct {
	rule      Rule
	separator string
}

func Delimited(rule Rule, separator string) Rule {
	return delimitedRule{rule: rule, separator: separator}
}

func (d delimitedRule) parse(p *state) bool {
	if !tryProgress(p, d.rule) {
		return true
	}
	for {
		if !try(p, Match(d.separator)) {
			return true
		}
		if !tryProgress(p, d.rule) {
			return true
		}
	}
}

// Until parses rule repeatedly until end matches. Tokens that match
// neither are skipped; each contiguous skipped run produces exactly one
// diagnostic, so a single stray token cannot cascade into unrelated
// errors.
type untilRule struct {
	rule Rule
	end  Rule
}

func Until(rule, end Rule) Rule {
	return untilRule{rule: rule, end: end}
}

func (u untilRule) parse(p *state) bool {
	for {
		if try(p, u.end) {
			return true
		}
		if tryProgress(p, u.rule) {
			continue
		}

		p.skip()
		tok := p.current()
		if tok.Kind == TokenEOF {
			p.errorAt(p.here(), "Unexpected end of file")
			return true
		}

		start := tok.Span.Start
		end := tok.Span.End
		p.pos++
		for {
			if canParse(p, u.end) || canParse(p, u.rule) {
				break
			}
			p.skip()
			t := p.current()
			if t.Kind == TokenEOF {
				break
			}
			end = t.Span.End
			p.pos++
		}
		p.errorAt(Span{Start: start, End: end}, "Could not understand this syntax")
		p.group.Incomplete = true
	}
}

// Mark records the current position under a name without consuming a
// token, giving zero-width constructs a usable span boundary.
type markRule struct {
	name string
}

func Mark(name string) Rule {
	return markRule{name: name}
}

func (m markRule) parse(p *state) bool {
	p.skip()
	p.group.marks = append(p.group.marks, mark{name: m.name, pos: p.current().Span.Start})
	return true
}

type eofRule struct{}

func Eof() Rule {
	return eofRule{}
}

func (eofRule) parse(p *state) bool {
	p.skip()
	return p.current().Kind == TokenEOF
}

type expectedRule struct {
	rule    Rule
	message string
}

// Expected wraps a rule so that, on failure, a recoverable syntax error
// is recorded at the current position and the enclosing group is marked
// incomplete, instead of backtracking. Parsing of subsequent siblings
// continues past the missing piece.
func Expected(rule Rule, message string) Rule {
	return expectedRule{rule: rule, message: message}
}

func (e expectedRule) parse(p *state) bool {
	if try(p, e.rule) {
		return true
	}
	p.errorAt(p.here(), "%s", e.message)
	p.group.Incomplete = true
	return true
}

type lazyRule struct {
	fn func() Rule
}

// Lazy defers rule construction until first use, breaking the reference
// cycles of recursive grammars.
func Lazy(fn func() Rule) Rule {
	return lazyRule{fn: fn}
}

func (l lazyRule) parse(p *state) bool {
	return l.fn().parse(p)
}

// Production parses rules into a fresh group of the given kind and
// appends it to the enclosing group on success.
type productionRule struct {
	kind  NodeKind
	rules []Rule
}

func Production(kind NodeKind, rules ...Rule) Rule {
	return productionRule{kind: kind, rules: rules}
}

func (r productionRule) parse(p *state) bool {
	p.skip()
	startTok := p.pos
	g := &Group{Kind: r.kind}
	outer := p.group
	p.group = g

	ok := true
	for _, sub := range r.rules {
		if !sub.parse(p) {
			ok = false
			break
		}
	}
	p.group = outer
	if !ok {
		return false
	}

	g.Span = p.spanOf(startTok)
	outer.Children = append(outer.Children, g)
	return true
}

// spanOf computes the byte span from startTok to the last significant
// token consumed so far. Trailing whitespace skipped by lookahead is not
// part of the span.
func (p *state) spanOf(startTok int) Span {
	last := -1
	for i := p.pos - 1; i >= startTok; i-- {
		if i < len(p.tokens) && !p.tokens[i].Kind.IsSkippable() && p.tokens[i].Kind != TokenEOF {
			last = i
			break
		}
	}
	if last < 0 {
		pos := p.tokens[startTok].Span.Start
		return Span{Start: pos, End: pos}
	}
	return Span{Start: p.tokens[startTok].Span.Start, End: p.tokens[last].Span.End}
}

// Parse runs the root production over a token stream. It never panics
// outward: catastrophic conditions degrade to a nil group plus a single
// top-level error.
func Parse(tokens []Token, root Rule) (group *Group, errors, warnings []*diag.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			group = nil
			errors = append(errors, diag.NewError(diag.Span{}, fmt.Sprintf("internal parse error: %v", r)))
		}
	}()

	if len(tokens) == 0 {
		return nil, []*diag.Diagnostic{diag.NewError(diag.Span{}, "empty token stream")}, nil
	}

	p := &state{tokens: tokens}
	holder := &Group{Kind: KindError}
	p.group = holder

	if !root.parse(p) || len(holder.Children) == 0 {
		errs := append(p.errors, diag.NewError(p.here(), "could not parse document"))
		return nil, errs, p.warnings
	}
	return holder.Children[0], p.errors, p.warnings
}
