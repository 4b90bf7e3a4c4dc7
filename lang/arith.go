package lang

// Arithmetic grammar, lowest precedence first:
//
//	expression → term (('+' | '-') term)*
//	term       → factor (('*' | '/' | '%') factor)*
//	factor     → NUMBER | IDENT | '(' expression ')'
//
// Whitespace before a factor is skipped. Whitespace and any run of ';'
// after a factor are skipped as well, so "1;; + 2" is a single expression.
// There are no unary operators.

var (
	additiveOps = map[rune]Operator{
		'+': OpAdd,
		'-': OpSub,
	}
	multiplicativeOps = map[rune]Operator{
		'*': OpMul,
		'/': OpDiv,
		'%': OpMod,
	}
)

// parseExpression parses a sum of terms, folding left.
func (p *parser) parseExpression() (Arithmetic, bool) {
	return p.parseBinary(p.parseTerm, additiveOps)
}

// parseTerm parses a product of factors, folding left.
func (p *parser) parseTerm() (Arithmetic, bool) {
	return p.parseBinary(p.parseFactor, multiplicativeOps)
}

// parseBinary parses operand (op operand)* and folds the result so that
// a - b - c is (a - b) - c. If an operator is not followed by an operand,
// the operator is left unconsumed.
func (p *parser) parseBinary(
	operand func() (Arithmetic, bool),
	ops map[rune]Operator,
) (Arithmetic, bool) {
	left, ok := operand()
	if !ok {
		return nil, false
	}

	for !p.eof() {
		op, found := ops[p.peek()]
		if !found {
			break
		}

		m := p.mark()
		pos := p.position()

		p.advance()

		right, ok := operand()
		if !ok {
			p.reset(m)

			break
		}

		left = &Binary{Op: op, Left: left, Right: right, Pos: pos}
	}

	return left, true
}

// parseFactor parses a number, identifier, or parenthesized expression.
func (p *parser) parseFactor() (Arithmetic, bool) {
	m := p.mark()

	p.skipWhitespace()

	pos := p.position()

	var node Arithmetic

	switch r := p.peek(); {
	case isDigit(r):
		v, _ := p.digits()
		node = &Literal{Value: v, Pos: pos}

	case isIdentifierStart(r):
		name, _ := p.identifier()
		node = &Variable{Name: name, Pos: pos}

	case r == '(':
		p.advance()

		inner, ok := p.parseExpression()
		if !ok || !p.expect(')') {
			p.reset(m)

			return nil, false
		}

		node = &Paren{Inner: inner, Pos: pos}

	default:
		p.reset(m)

		return nil, false
	}

	p.skipFactorTrailer()

	return node, true
}

// skipFactorTrailer skips whitespace, then any run of ';', then whitespace.
func (p *parser) skipFactorTrailer() {
	p.skipWhitespace()

	for p.peek() == ';' {
		p.advance()
	}

	p.skipWhitespace()
}
