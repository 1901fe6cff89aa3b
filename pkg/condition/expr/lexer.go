package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	if isSpace(ch) {
		return true
	}
	switch ch {
	case '(', ')', '!', '=', '&', '|', '<', '>':
		return true
	}
	return false
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}
	emit := func(kind tokenKind, raw string) {
		tokens = append(tokens, token{kind: kind, raw: raw})
		i += len(raw)
	}

	for i < len(input) {
		ch := input[i]
		if isSpace(ch) {
			i++
			continue
		}

		switch ch {
		case '(':
			emit(tokenLParen, "(")
		case ')':
			emit(tokenRParen, ")")
		case '!':
			if peek(1) == '=' {
				emit(tokenNeq, "!=")
			} else {
				emit(tokenNot, "!")
			}
		case '<':
			if peek(1) == '=' {
				emit(tokenLte, "<=")
			} else {
				emit(tokenLt, "<")
			}
		case '>':
			if peek(1) == '=' {
				emit(tokenGte, ">=")
			} else {
				emit(tokenGt, ">")
			}
		case '=':
			if peek(1) != '=' {
				return nil, fmt.Errorf("condition/expr: unexpected '=' at %d; use '=='", i)
			}
			emit(tokenEq, "==")
		case '&':
			if peek(1) != '&' {
				return nil, fmt.Errorf("condition/expr: unexpected '&' at %d; use '&&'", i)
			}
			emit(tokenAnd, "&&")
		case '|':
			if peek(1) != '|' {
				return nil, fmt.Errorf("condition/expr: unexpected '|' at %d; use '||'", i)
			}
			emit(tokenOr, "||")
		case '"', '\'':
			value, width, err := readQuoted(input[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i += width
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			tokens = append(tokens, classifyWord(input[start:i]))
		}
	}

	return tokens, nil
}

// readQuoted scans a quoted literal at the start of input and returns the
// unquoted value and the number of bytes consumed.
func readQuoted(input string) (string, int, error) {
	quote := input[0]
	escaped := false
	for j := 1; j < len(input); j++ {
		c := input[j]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := input[1:j]
		if quote == '\'' {
			body = strings.ReplaceAll(body, `\'`, `'`)
			body = strings.ReplaceAll(body, `"`, `\"`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return "", 0, fmt.Errorf("condition/expr: invalid string literal: %w", err)
		}
		return value, j + 1, nil
	}
	return "", 0, errors.New("condition/expr: unterminated string literal")
}

func classifyWord(raw string) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(raw)}
	case "null", "nil":
		return token{kind: tokenNull, raw: "null"}
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return token{kind: tokenNumber, raw: raw}
	}
	return token{kind: tokenIdentifier, raw: raw}
}

func (k tokenKind) String() string {
	switch k {
	case tokenEq:
		return "=="
	case tokenNeq:
		return "!="
	case tokenLt:
		return "<"
	case tokenLte:
		return "<="
	case tokenGt:
		return ">"
	case tokenGte:
		return ">="
	default:
		return "?"
	}
}

func (k tokenKind) isComparison() bool {
	switch k {
	case tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte:
		return true
	}
	return false
}

func (k tokenKind) isOrdering() bool {
	switch k {
	case tokenLt, tokenLte, tokenGt, tokenGte:
		return true
	}
	return false
}
