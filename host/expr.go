// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"strconv"
)

var (
	errExprParse  = errors.New("expression syntax error")
	errDivideZero = errors.New("division by zero")
)

type resolver interface {
	resolveIdentifier(s string) (int64, error)
}

// A binaryOp is an infix operator. Higher precedence binds tighter. All
// infix operators are left-associative.
type binaryOp struct {
	symbol     string
	precedence int
	eval       func(a, b int64) (int64, error)
}

// Ordered so that two-character symbols are matched before their
// one-character prefixes.
var binaryOps = []binaryOp{
	{"<<", 4, func(a, b int64) (int64, error) { return a << uint64(b&63), nil }},
	{">>", 4, func(a, b int64) (int64, error) { return a >> uint64(b&63), nil }},
	{"*", 6, func(a, b int64) (int64, error) { return a * b, nil }},
	{"/", 6, func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivideZero
		}
		return a / b, nil
	}},
	{"%", 6, func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivideZero
		}
		return a % b, nil
	}},
	{"+", 5, func(a, b int64) (int64, error) { return a + b, nil }},
	{"-", 5, func(a, b int64) (int64, error) { return a - b, nil }},
	{"&", 3, func(a, b int64) (int64, error) { return a & b, nil }},
	{"^", 2, func(a, b int64) (int64, error) { return a ^ b, nil }},
	{"|", 1, func(a, b int64) (int64, error) { return a | b, nil }},
}

// exprParser evaluates monitor expressions such as "$1C00+2*x" with a
// precedence-climbing parser. Numbers are decimal unless prefixed by '$'
// or 0x (hex), % or 0b (binary), 0d (decimal). In hex mode, unprefixed
// numbers are hexadecimal and identifiers cannot be used.
type exprParser struct {
	hexMode bool
	r       resolver
	t       tstring
}

func newExprParser() *exprParser {
	return &exprParser{}
}

// Parse evaluates an expression, resolving identifiers through r.
func (p *exprParser) Parse(expr string, r resolver) (int64, error) {
	p.r, p.t = r, tstring(expr)
	defer func() { p.r, p.t = nil, "" }()

	v, err := p.parseBinary(1)
	if err != nil {
		return 0, err
	}
	if p.t.consumeWhitespace() != "" {
		return 0, errExprParse
	}
	return v, nil
}

func (p *exprParser) parseBinary(minPrecedence int) (int64, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for {
		p.t = p.t.consumeWhitespace()
		op := p.peekBinaryOp()
		if op == nil || op.precedence < minPrecedence {
			return lhs, nil
		}
		p.t = p.t.consume(len(op.symbol))

		rhs, err := p.parseBinary(op.precedence + 1)
		if err != nil {
			return 0, err
		}
		lhs, err = op.eval(lhs, rhs)
		if err != nil {
			return 0, err
		}
	}
}

func (p *exprParser) peekBinaryOp() *binaryOp {
	for i := range binaryOps {
		op := &binaryOps[i]
		if len(p.t) >= len(op.symbol) && string(p.t[:len(op.symbol)]) == op.symbol {
			return op
		}
	}
	return nil
}

func (p *exprParser) parseUnary() (int64, error) {
	p.t = p.t.consumeWhitespace()
	if len(p.t) == 0 {
		return 0, errExprParse
	}

	switch p.t[0] {
	case '-', '+', '~':
		c := p.t[0]
		p.t = p.t.consume(1)
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch c {
		case '-':
			return -v, nil
		case '~':
			return ^v, nil
		}
		return v, nil

	case '%':
		p.t = p.t.consume(1)
		return p.parseDigits(2, binary)

	default:
		return p.parsePrimary()
	}
}

func (p *exprParser) parsePrimary() (int64, error) {
	c := p.t[0]
	switch {
	case c == '(':
		p.t = p.t.consume(1)
		v, err := p.parseBinary(1)
		if err != nil {
			return 0, err
		}
		p.t = p.t.consumeWhitespace()
		if len(p.t) == 0 || p.t[0] != ')' {
			return 0, errExprParse
		}
		p.t = p.t.consume(1)
		return v, nil

	case c == '\'':
		if len(p.t) < 3 || p.t[2] != '\'' {
			return 0, errExprParse
		}
		v := int64(p.t[1])
		p.t = p.t.consume(3)
		return v, nil

	case c == '$':
		p.t = p.t.consume(1)
		return p.parseDigits(16, hexadecimal)

	case c == '0' && len(p.t) > 2 && (p.t[1] == 'x' || p.t[1] == 'b' || p.t[1] == 'd'):
		base, fn := 10, decimal
		switch p.t[1] {
		case 'x':
			base, fn = 16, hexadecimal
		case 'b':
			base, fn = 2, binary
		}
		p.t = p.t.consume(2)
		return p.parseDigits(base, fn)

	case p.hexMode && hexadecimal(c):
		return p.parseDigits(16, hexadecimal)

	case decimal(c):
		return p.parseDigits(10, decimal)

	case identifier(c):
		var id tstring
		id, p.t = p.t.consumeWhile(identifier)
		return p.r.resolveIdentifier(string(id))
	}
	return 0, errExprParse
}

func (p *exprParser) parseDigits(base int, fn func(c byte) bool) (int64, error) {
	var num tstring
	num, p.t = p.t.consumeWhile(fn)
	if num == "" {
		return 0, errExprParse
	}
	v, err := strconv.ParseInt(string(num), base, 64)
	if err != nil {
		return 0, errExprParse
	}
	return v, nil
}

type tstring string

func (t tstring) consume(n int) tstring {
	return t[n:]
}

func (t tstring) consumeWhitespace() tstring {
	return t.consume(t.scanWhile(whitespace))
}

func (t tstring) scanWhile(fn func(c byte) bool) int {
	i := 0
	for ; i < len(t) && fn(t[i]); i++ {
	}
	return i
}

func (t tstring) consumeWhile(fn func(c byte) bool) (consumed, remain tstring) {
	i := t.scanWhile(fn)
	return t[:i], t[i:]
}

func whitespace(c byte) bool {
	return c == ' ' || c == '\t'
}

func decimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexadecimal(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func binary(c byte) bool {
	return c == '0' || c == '1'
}

func identifier(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '.'
}
