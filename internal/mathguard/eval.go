// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathguard

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Evaluation errors. Callers treat any of these as "not math" and fall
// through to the model backend.
var (
	// ErrUnsafe indicates the expression contains characters outside the
	// arithmetic set.
	ErrUnsafe = errors.New("unsafe characters in expression")

	// ErrSyntax indicates the expression does not parse.
	ErrSyntax = errors.New("malformed expression")

	// ErrDivideByZero indicates a division by zero.
	ErrDivideByZero = errors.New("division by zero")
)

// Eval evaluates an arithmetic expression supporting + - * / ^ with
// parentheses and unary minus. Exponentiation is right-associative and
// binds tighter than unary minus, so -2^2 is -4.
func Eval(expr string) (float64, error) {
	if !exprRe.MatchString(expr) {
		return 0, ErrUnsafe
	}
	p := &parser{input: []rune(strings.ReplaceAll(expr, " ", ""))}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("%w: trailing input at offset %d", ErrSyntax, p.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result not finite", ErrSyntax)
	}
	return v, nil
}

// FormatResult renders an evaluation result the way the chat replies
// with it: whole values print as integers, everything else as the
// shortest decimal form.
func FormatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Answer evaluates the math embedded in a free-form user message. The
// second result is false when the message has no evaluable arithmetic,
// in which case the caller should consult the model backend instead.
func Answer(userText string) (string, bool) {
	expr := Extract(userText)
	if expr == "" {
		return "", false
	}
	v, err := Eval(expr)
	if err != nil {
		return "", false
	}
	return FormatResult(v), true
}

// parser is a recursive-descent evaluator over a rune slice.
//
// Grammar:
//
//	expr    := term (('+'|'-') term)*
//	term    := unary (('*'|'/') unary)*
//	unary   := '-' unary | '+' unary | power
//	power   := primary ('^' unary)?
//	primary := number | '(' expr ')'
type parser struct {
	input []rune
	pos   int
}

func (p *parser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, ErrDivideByZero
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	if p.peek() == '^' {
		p.pos++
		exp, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (float64, error) {
	if p.peek() == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrSyntax)
		}
		p.pos++
		return v, nil
	}
	return p.parseNumber()
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("%w: expected number at offset %d", ErrSyntax, start)
	}
	v, err := strconv.ParseFloat(string(p.input[start:p.pos]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrSyntax, string(p.input[start:p.pos]))
	}
	return v, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
