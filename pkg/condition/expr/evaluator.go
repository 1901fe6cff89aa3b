package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/condition"
)

// Evaluator is a small, dependency-free rule evaluator.
//
// Supported syntax:
//   - truthy checks: `isMigrant`
//   - comparisons: `registrationType == "Late"`, `residenceYears < 15`
//   - composition: `a && !b`, `(a || b) && c`
//
// Values are read from condition.Context.Values (with dot-path traversal) and
// condition.Context.Extras (via the `extras.` prefix). Compiled programs are
// cached per rule string; results never are.
type Evaluator struct {
	mu       sync.RWMutex
	programs map[string]*Program
}

// New returns an Evaluator with an empty program cache.
func New() *Evaluator {
	return &Evaluator{programs: make(map[string]*Program)}
}

// Eval compiles (or reuses) the program for rule and runs it against ctx.
// An empty rule always holds.
func (e *Evaluator) Eval(rule string, ctx condition.Context) (bool, error) {
	program, err := e.program(rule)
	if err != nil {
		return false, err
	}
	return program.Eval(ctx)
}

func (e *Evaluator) program(rule string) (*Program, error) {
	key := strings.TrimSpace(rule)
	e.mu.RLock()
	program, ok := e.programs[key]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := Compile(key)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.programs[key] = program
	e.mu.Unlock()
	return program, nil
}

// Program is a parsed rule ready for repeated evaluation.
type Program struct {
	source string
	root   node
}

// Compile parses rule into a Program. Syntax errors are reported here so form
// definitions can be rejected at load time.
func Compile(rule string) (*Program, error) {
	trimmed := strings.TrimSpace(rule)
	program := &Program{source: trimmed}
	if trimmed == "" {
		return program, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	root, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	program.root = root
	return program, nil
}

// MustCompile is like Compile but panics on error. Intended for rules written
// in Go source.
func MustCompile(rule string) *Program {
	program, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return program
}

// Source returns the trimmed rule text.
func (p *Program) Source() string { return p.source }

// Identifiers lists the identifiers referenced by the rule, in order of first
// appearance. Used to cross-check rules against declared fields.
func (p *Program) Identifiers() []string {
	if p == nil || p.root == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	p.root.walk(func(ident string) {
		if !seen[ident] {
			seen[ident] = true
			out = append(out, ident)
		}
	})
	return out
}

// Eval runs the program. A nil or empty program holds.
func (p *Program) Eval(ctx condition.Context) (bool, error) {
	if p == nil || p.root == nil {
		return true, nil
	}
	return p.root.eval(ctx)
}

type node interface {
	eval(ctx condition.Context) (bool, error)
	walk(fn func(ident string))
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx condition.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(ctx)
}

func (n orNode) walk(fn func(string)) { n.left.walk(fn); n.right.walk(fn) }

type andNode struct{ left, right node }

func (n andNode) eval(ctx condition.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(ctx)
}

func (n andNode) walk(fn func(string)) { n.left.walk(fn); n.right.walk(fn) }

type notNode struct{ inner node }

func (n notNode) eval(ctx condition.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (n notNode) walk(fn func(string)) { n.inner.walk(fn) }

type truthyNode struct{ identifier string }

func (n truthyNode) eval(ctx condition.Context) (bool, error) {
	value, ok := lookup(ctx, n.identifier)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

func (n truthyNode) walk(fn func(string)) { fn(n.identifier) }

type literalKind int

const (
	litString literalKind = iota
	litNumber
	litBool
	litNull
)

type literal struct {
	kind   literalKind
	raw    string
	number float64
}

type compareNode struct {
	identifier string
	op         tokenKind
	literal    literal
}

func (n compareNode) walk(fn func(string)) { fn(n.identifier) }

func (n compareNode) eval(ctx condition.Context) (bool, error) {
	value, _ := lookup(ctx, n.identifier)

	switch n.literal.kind {
	case litNull:
		return equality(n.op, value == nil, true), nil
	case litBool:
		got, _ := coerceBool(value)
		return equality(n.op, got, n.literal.raw == "true"), nil
	case litNumber:
		got, ok := coerceNumber(value)
		if !ok {
			// Missing or non-numeric values never satisfy an ordering.
			if n.op.isOrdering() {
				return false, nil
			}
			return n.op == tokenNeq, nil
		}
		return order(n.op, compareFloat(got, n.literal.number)), nil
	case litString:
		got := coerceString(value)
		return order(n.op, strings.Compare(got, n.literal.raw)), nil
	default:
		return false, errors.New("condition/expr: unsupported literal")
	}
}

func equality(op tokenKind, got, want bool) bool {
	if op == tokenNeq {
		return got != want
	}
	return got == want
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func order(op tokenKind, cmp int) bool {
	switch op {
	case tokenEq:
		return cmp == 0
	case tokenNeq:
		return cmp != 0
	case tokenLt:
		return cmp < 0
	case tokenLte:
		return cmp <= 0
	case tokenGt:
		return cmp > 0
	case tokenGte:
		return cmp >= 0
	default:
		return false
	}
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (node, error) {
	stream := &tokenStream{tokens: tokens}
	root, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("condition/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return root, nil
}

func parseOr(stream *tokenStream) (node, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (node, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (node, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (node, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("condition/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.done() {
			return nil, errors.New("condition/expr: empty expression")
		}
		return nil, fmt.Errorf("condition/expr: expected identifier, got %q", stream.tokens[stream.pos].raw)
	}

	if stream.done() || !stream.tokens[stream.pos].kind.isComparison() {
		return truthyNode{identifier: ident.raw}, nil
	}
	op := stream.tokens[stream.pos].kind
	stream.pos++

	lit, err := stream.consumeLiteral()
	if err != nil {
		return nil, err
	}
	if op.isOrdering() && (lit.kind == litBool || lit.kind == litNull) {
		return nil, fmt.Errorf("condition/expr: operator %q needs a number or string", op)
	}
	return compareNode{identifier: ident.raw, op: op, literal: lit}, nil
}

func (s *tokenStream) done() bool { return s.pos >= len(s.tokens) }

func (s *tokenStream) match(kind tokenKind) bool {
	_, ok := s.consume(kind)
	return ok
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.done() || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *tokenStream) consumeLiteral() (literal, error) {
	if s.done() {
		return literal{}, errors.New("condition/expr: missing literal")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString, tokenIdentifier:
		// Bare words are read as strings: `maritalStatus == Married`.
		return literal{kind: litString, raw: tok.raw}, nil
	case tokenNumber:
		n, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return literal{}, fmt.Errorf("condition/expr: invalid number literal %q", tok.raw)
		}
		return literal{kind: litNumber, raw: tok.raw, number: n}, nil
	case tokenBool:
		return literal{kind: litBool, raw: tok.raw}, nil
	case tokenNull:
		return literal{kind: litNull, raw: "null"}, nil
	default:
		return literal{}, fmt.Errorf("condition/expr: expected literal, got %q", tok.raw)
	}
}
