package lang

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/c420/log"
)

// ParseString parses a program from a string.
//
// Statements are matched by trying each grammar alternative in a fixed order
// and committing to the first that matches. A failure inside a committed
// alternative is fatal and aborts the parse. Input that no alternative can
// consume is reported as [ErrUnconsumedInput].
func ParseString(ctx context.Context, s string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	p := newParser(s)

	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_bytes", len(s)))

	prog, err := p.parseProgram(ctx, o.logger)
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(prog.Body)))

	return prog, nil
}

// ParseArithmetic parses a leading arithmetic expression from input.
// It returns the expression, the unconsumed input, and whether anything
// matched.
func ParseArithmetic(input string) (Arithmetic, string, bool) {
	p := newParser(input)

	expr, ok := p.parseExpression()
	if !ok {
		return nil, input, false
	}

	return expr, p.rest(), true
}

// parser is a cursor over a bounded span of source text.
// Sub-parsers share the source and line index so that positions stay
// absolute.
type parser struct {
	src   string
	pos   int
	end   int   // exclusive bound of the active span
	lines []int // offsets of the first byte of each line
}

func newParser(src string) *parser {
	lines := []int{0}

	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}

	return &parser{src: src, end: len(src), lines: lines}
}

// span returns a parser restricted to src[start:end].
func (p *parser) span(start, end int) *parser {
	return &parser{src: p.src, pos: start, end: end, lines: p.lines}
}

// alternative is one ordered-choice branch. It returns matched == false to
// let the caller try the next branch, or a non-nil error to abort.
type alternative func(*parser) (stmt Statement, matched bool, err error)

// choose tries each alternative at the current position and commits to the
// first that matches. The cursor is rewound before every attempt.
func (p *parser) choose(alts ...alternative) (Statement, bool, error) {
	for _, alt := range alts {
		m := p.mark()

		stmt, ok, err := alt(p)
		if err != nil {
			return nil, false, err
		}

		if ok {
			return stmt, true, nil
		}

		p.reset(m)
	}

	return nil, false, nil
}

// parseProgram parses statements until the input is exhausted.
func (p *parser) parseProgram(
	ctx context.Context,
	logger log.Logger,
) (*Program, error) {
	prog := new(Program)
	prog.Body = make([]Statement, 0)

	for {
		p.skipWhitespace()

		if p.eof() {
			break
		}

		stmt, ok, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		if !ok {
			return nil, p.unconsumed()
		}

		logger.TraceContext(ctx, "statement parsed",
			slog.String("type", stmt.Type().String()),
			slog.String("position", stmt.Position().String()))

		prog.Body = append(prog.Body, stmt)
	}

	return prog, nil
}

// parseStatement parses one top-level statement.
func (p *parser) parseStatement() (Statement, bool, error) {
	return p.choose(
		(*parser).parseComment,
		(*parser).parseBooleanStatement,
		(*parser).parseNumericStatement,
		(*parser).parseIdentifierStatement,
		(*parser).parseDeclaration,
		(*parser).parseAssign,
		(*parser).parseCall,
		(*parser).parseMemberStatement,
		(*parser).parseArithmeticStatement,
	)
}

// parseComment parses: [ \t]* '//' <text up to end of line>.
func (p *parser) parseComment() (Statement, bool, error) {
	p.skipSpace()

	pos := p.position()

	if !p.expectString("//") {
		return nil, false, nil
	}

	start := p.pos
	for !p.eof() && p.peek() != '\n' && p.peek() != '\r' {
		p.advance()
	}

	text := strings.TrimSpace(p.src[start:p.pos])

	p.skipWhitespace()

	return &Comment{Text: text, Pos: pos}, true, nil
}

// parseBooleanStatement parses: BOOL ';'.
func (p *parser) parseBooleanStatement() (Statement, bool, error) {
	return p.terminated((*parser).parseBoolean)
}

// parseNumericStatement parses: NUMBER ';'.
func (p *parser) parseNumericStatement() (Statement, bool, error) {
	return p.terminated((*parser).parseNumber)
}

// parseIdentifierStatement parses: IDENT ';'.
func (p *parser) parseIdentifierStatement() (Statement, bool, error) {
	return p.terminated((*parser).parseIdentifier)
}

// parseMemberStatement parses: IDENT '[' '"' IDENT '"' ']' ';'.
func (p *parser) parseMemberStatement() (Statement, bool, error) {
	return p.terminated((*parser).parseMember)
}

// terminated parses a node surrounded by optional whitespace and followed by
// a required ';'.
func (p *parser) terminated(node alternative) (Statement, bool, error) {
	p.skipWhitespace()

	stmt, ok, err := node(p)
	if err != nil || !ok {
		return nil, false, err
	}

	p.skipWhitespace()

	if !p.expect(';') {
		return nil, false, nil
	}

	p.skipWhitespace()

	return stmt, true, nil
}

// parseBoolean parses the keyword true or false.
func (p *parser) parseBoolean() (Statement, bool, error) {
	p.skipWhitespace()

	pos := p.position()

	switch {
	case p.keyword("true"):
		return &BooleanLiteral{Value: true, Pos: pos}, true, nil

	case p.keyword("false"):
		return &BooleanLiteral{Value: false, Pos: pos}, true, nil

	default:
		return nil, false, nil
	}
}

// parseNumber parses a run of decimal digits.
func (p *parser) parseNumber() (Statement, bool, error) {
	p.skipWhitespace()

	pos := p.position()

	v, ok := p.digits()
	if !ok {
		return nil, false, nil
	}

	return &NumericLiteral{Value: v, Pos: pos}, true, nil
}

// parseIdentifier parses a single identifier.
func (p *parser) parseIdentifier() (Statement, bool, error) {
	p.skipWhitespace()

	pos := p.position()

	name, ok := p.identifier()
	if !ok {
		return nil, false, nil
	}

	return &Identifier{Name: name, Pos: pos}, true, nil
}

// parseMember parses: IDENT '[' '"' IDENT '"' ']'.
func (p *parser) parseMember() (Statement, bool, error) {
	p.skipWhitespace()

	pos := p.position()

	object, ok := p.identifier()
	if !ok || !p.expectString(`["`) {
		return nil, false, nil
	}

	property, ok := p.identifier()
	if !ok || !p.expectString(`"]`) {
		return nil, false, nil
	}

	return &MemberExpression{Object: object, Property: property, Pos: pos},
		true, nil
}

// parseDeclaration parses: ('let' | 'const') IDENT '=' RHS ';'.
func (p *parser) parseDeclaration() (Statement, bool, error) {
	p.skipWhitespace()

	pos := p.position()

	var constant bool

	switch {
	case p.keyword("let"):
	case p.keyword("const"):
		constant = true
	default:
		return nil, false, nil
	}

	p.skipWhitespace()

	name, ok := p.identifier()
	if !ok {
		return nil, false, nil
	}

	binding, ok, err := p.parseBinding(name, constant)
	if err != nil || !ok {
		return nil, false, err
	}

	return &Declaration{Binding: binding, Pos: pos}, true, nil
}

// parseAssign parses: IDENT '=' RHS ';'.
func (p *parser) parseAssign() (Statement, bool, error) {
	p.skipWhitespace()

	pos := p.position()

	name, ok := p.identifier()
	if !ok {
		return nil, false, nil
	}

	binding, ok, err := p.parseBinding(name, false)
	if err != nil || !ok {
		return nil, false, err
	}

	return &Assign{Binding: binding, Pos: pos}, true, nil
}

// parseBinding parses the '=' RHS ';' tail shared by declarations and
// assignments. The right-hand side must be consumed entirely.
func (p *parser) parseBinding(name string, constant bool) (Binding, bool, error) {
	p.skipWhitespace()

	if !p.expect('=') || p.peek() == '=' {
		return Binding{}, false, nil
	}

	start := p.pos

	semi, open, ok := p.captureValue()
	if !ok && open >= 0 {
		return Binding{}, false, ErrUnbalancedBracket.
			WithPosition(p.span(open, p.end).position()).
			With(slog.String("open", p.src[open:open+1]))
	}

	if !ok || strings.TrimSpace(p.src[start:semi]) == "" {
		return Binding{}, false, nil
	}

	expr, err := p.span(start, semi).parseValue()
	if err != nil {
		return Binding{}, false, err
	}

	p.pos = semi + 1
	p.skipWhitespace()

	return Binding{Name: name, Constant: constant, Expression: expr}, true, nil
}

// captureValue scans forward from the cursor to the first ';' that is not
// nested inside brackets or a string literal, and returns its offset.
// If the span ends inside a bracket, open is the offset of the outermost
// unclosed bracket; otherwise it is -1. The cursor is not moved.
func (p *parser) captureValue() (semi, open int, ok bool) {
	depth := 0
	open = -1

	for i := p.pos; i < p.end; i++ {
		switch p.src[i] {
		case '(', '[', '{':
			if depth == 0 {
				open = i
			}

			depth++

		case ')', ']', '}':
			if depth > 0 {
				depth--
			}

		case '"':
			// Skip to the closing quote
			for i++; i < p.end && p.src[i] != '"'; i++ {
				if p.src[i] == '\\' {
					i++
				}
			}

		case ';':
			if depth == 0 {
				return i, -1, true
			}
		}
	}

	if depth == 0 {
		open = -1
	}

	return 0, open, false
}

// parseValue parses the entire span as one value: a boolean, an object
// literal, an arithmetic expression, or a member index, in that order.
// The first alternative that consumes the whole span wins. If none does,
// the unconsumed input left by the first alternative that matched at all
// is reported.
func (p *parser) parseValue() (Statement, error) {
	start := p.pos
	partial := -1

	for _, alt := range []alternative{
		(*parser).parseBoolean,
		(*parser).parseObject,
		(*parser).parseArithmeticValue,
		(*parser).parseMember,
	} {
		p.reset(start)

		stmt, ok, err := alt(p)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		p.skipWhitespace()

		if p.eof() {
			return stmt, nil
		}

		if partial < 0 {
			partial = p.pos
		}
	}

	if partial >= 0 {
		p.reset(partial)
	} else {
		p.reset(start)
		p.skipWhitespace()
	}

	return nil, p.unconsumed()
}

// parseObject parses: '{' PROPERTY* '}'.
// The body is located with [TakeUntilUnbalanced] and then parsed on its own;
// anything in the body that is not a property is fatal.
func (p *parser) parseObject() (Statement, bool, error) {
	p.skipWhitespace()

	pos := p.position()

	if !p.expect('{') {
		return nil, false, nil
	}

	start := p.pos

	body, rest, err := TakeUntilUnbalanced('{', '}')(p.rest())
	if err != nil {
		return nil, false, WrapError(err).WithPosition(pos)
	}

	if !strings.HasPrefix(rest, "}") {
		return nil, false, ErrUnbalancedBracket.WithPosition(pos).
			With(slog.String("expected", "}"))
	}

	inner := p.span(start, start+len(body))

	props, err := inner.parseProperties()
	if err != nil {
		return nil, false, err
	}

	p.pos = start + len(body)
	p.expect('}')

	return &ObjectLiteral{Properties: props, Pos: pos}, true, nil
}

// parseProperties parses: (IDENT [':' VALUE] [','])* until the span ends.
func (p *parser) parseProperties() ([]*Property, error) {
	props := make([]*Property, 0)

	for {
		p.skipWhitespace()

		if p.eof() {
			return props, nil
		}

		pos := p.position()

		key, ok := p.identifier()
		if !ok {
			return nil, p.unconsumed()
		}

		prop := &Property{Key: key, Pos: pos}

		p.skipWhitespace()

		if p.expect(':') {
			value, ok, err := p.parsePropertyValue()
			if err != nil {
				return nil, err
			}

			if !ok {
				p.skipWhitespace()

				return nil, p.unconsumed()
			}

			prop.Value = value
		}

		props = append(props, prop)

		p.skipWhitespace()
		p.expect(',')
	}
}

// parsePropertyValue parses a boolean, number, identifier, arithmetic
// expression, or nested object literal. A single literal or identifier is
// only taken when it is followed by ',' or the end of the body; otherwise the
// arithmetic alternative gets a chance at the longer expression.
func (p *parser) parsePropertyValue() (Statement, bool, error) {
	return p.choose(
		delimited((*parser).parseBoolean),
		delimited((*parser).parseNumber),
		delimited((*parser).parseIdentifier),
		(*parser).parseArithmeticValue,
		(*parser).parseObject,
	)
}

func delimited(node alternative) alternative {
	return func(p *parser) (Statement, bool, error) {
		stmt, ok, err := node(p)
		if err != nil || !ok {
			return nil, false, err
		}

		m := p.mark()
		p.skipWhitespace()

		if !p.eof() && p.peek() != ',' {
			return nil, false, nil
		}

		p.reset(m)

		return stmt, true, nil
	}
}

// parseCall parses: 'print' '(' <raw text> ')' ';'.
// Arguments are split on ',' and kept as trimmed source text.
func (p *parser) parseCall() (Statement, bool, error) {
	p.skipWhitespace()

	pos := p.position()

	if !p.keyword("print") {
		return nil, false, nil
	}

	p.skipWhitespace()

	if !p.expect('(') {
		return nil, false, nil
	}

	closing := strings.IndexByte(p.rest(), ')')
	if closing < 0 {
		return nil, false, nil
	}

	raw := strings.TrimSpace(p.rest()[:closing])
	p.pos += closing + 1

	p.skipWhitespace()

	if !p.expect(';') {
		return nil, false, nil
	}

	p.skipWhitespace()

	var args []string

	if raw != "" {
		args = strings.Split(raw, ",")
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}
	}

	return &CallExpression{Callee: "print", Args: args, Pos: pos}, true, nil
}

// parseArithmeticStatement parses a bare arithmetic expression. No
// terminator is required.
func (p *parser) parseArithmeticStatement() (Statement, bool, error) {
	stmt, ok, err := p.parseArithmeticValue()
	if err != nil || !ok {
		return nil, false, err
	}

	p.skipWhitespace()

	return stmt, true, nil
}

func (p *parser) parseArithmeticValue() (Statement, bool, error) {
	p.skipWhitespace()

	pos := p.position()

	expr, ok := p.parseExpression()
	if !ok {
		return nil, false, nil
	}

	return &ArithmeticExpression{Expr: expr, Pos: pos}, true, nil
}

// unconsumed returns an [ErrUnconsumedInput] located at the cursor.
func (p *parser) unconsumed() error {
	remainder := p.rest()

	if i := strings.IndexAny(remainder, "\r\n"); i >= 0 {
		remainder = remainder[:i]
	}

	return ErrUnconsumedInput.WithPosition(p.position()).
		With(slog.String("remainder", remainder))
}

// Cursor helpers

func (p *parser) mark() int { return p.pos }

func (p *parser) reset(m int) { p.pos = m }

func (p *parser) rest() string { return p.src[p.pos:p.end] }

func (p *parser) eof() bool { return p.pos >= p.end }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.src[p.pos:p.end])

	return r
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	_, size := utf8.DecodeRuneInString(p.src[p.pos:p.end])
	p.pos += size
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) expectString(s string) bool {
	if strings.HasPrefix(p.rest(), s) {
		p.pos += len(s)

		return true
	}

	return false
}

// keyword consumes kw if it is not immediately followed by an identifier
// character.
func (p *parser) keyword(kw string) bool {
	rest := p.rest()
	if !strings.HasPrefix(rest, kw) {
		return false
	}

	if r, _ := utf8.DecodeRuneInString(rest[len(kw):]); isIdentifierContinue(r) {
		return false
	}

	p.pos += len(kw)

	return true
}

func (p *parser) identifier() (string, bool) {
	match, _, ok := ScanIdentifier(p.rest())
	if !ok {
		return "", false
	}

	p.pos += len(match)

	return match, true
}

func (p *parser) digits() (float64, bool) {
	start := p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}

	if p.pos == start {
		return 0, false
	}

	// A digit run can only fail with a range error, which still yields ±Inf.
	v, _ := strconv.ParseFloat(p.src[start:p.pos], 64)

	return v, true
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) skipSpace() {
	for !p.eof() && isHorizontalSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) position() Position {
	line := sort.Search(len(p.lines), func(i int) bool {
		return p.lines[i] > p.pos
	}) - 1

	return Position{
		Offset: p.pos,
		Line:   line + 1,
		Column: utf8.RuneCountInString(p.src[p.lines[line]:p.pos]) + 1,
	}
}
