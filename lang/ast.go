package lang

import (
	"strconv"
	"strings"
)

// Program is an ordered sequence of statements. Order is evaluation order.
type Program struct {
	Body []Statement
}

// String returns the program in canonical source form, one statement per line.
func (p *Program) String() string {
	var sb strings.Builder

	for i, stmt := range p.Body {
		if i > 0 {
			sb.WriteRune('\n')
		}

		sb.WriteString(StatementSource(stmt))
	}

	return sb.String()
}

// Position identifies a location in source text.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Type identifies the kind of a [Statement] node.
type Type int

const (
	TypeComment Type = iota
	TypeBooleanLiteral
	TypeNumericLiteral
	TypeIdentifier
	TypeDeclaration
	TypeAssign
	TypeArithmeticExpression
	TypeObjectLiteral
	TypeProperty
	TypeMemberExpression
	TypeCallExpression
)

// String returns a string representation of the node type.
func (t Type) String() string {
	switch t {
	case TypeComment:
		return "Comment"

	case TypeBooleanLiteral:
		return "BooleanLiteral"

	case TypeNumericLiteral:
		return "NumericLiteral"

	case TypeIdentifier:
		return "Identifier"

	case TypeDeclaration:
		return "Declaration"

	case TypeAssign:
		return "Assign"

	case TypeArithmeticExpression:
		return "ArithmeticExpression"

	case TypeObjectLiteral:
		return "ObjectLiteral"

	case TypeProperty:
		return "Property"

	case TypeMemberExpression:
		return "MemberExpression"

	case TypeCallExpression:
		return "CallExpression"

	default:
		return "Unknown"
	}
}

// Statement is a node of the syntax tree.
// The set of implementations is closed to this package.
type Statement interface {
	// String returns the node in source form, without a statement terminator.
	String() string
	Type() Type
	Position() Position
	statement()
}

// StatementSource returns stmt in source form as it appears at the top level
// of a program, including its terminator.
func StatementSource(stmt Statement) string {
	if stmt.Type() == TypeComment {
		return stmt.String()
	}

	return stmt.String() + ";"
}

// Comment is a line comment. Text excludes the leading "//" and surrounding
// whitespace.
type Comment struct {
	Text string
	Pos  Position
}

// BooleanLiteral is a literal true or false.
type BooleanLiteral struct {
	Value bool
	Pos   Position
}

// NumericLiteral is a literal decimal number.
type NumericLiteral struct {
	Value float64
	Pos   Position
}

// Identifier is a reference to a named variable.
type Identifier struct {
	Name string
	Pos  Position
}

// Binding is the payload of a declaration or assignment.
// Constant is always false for assignments.
type Binding struct {
	Name       string
	Constant   bool
	Expression Statement
}

// Declaration introduces a new variable with let or const.
type Declaration struct {
	Binding
	Pos Position
}

// Assign overwrites an existing variable.
type Assign struct {
	Binding
	Pos Position
}

// ArithmeticExpression wraps an arithmetic tree as a statement.
type ArithmeticExpression struct {
	Expr Arithmetic
	Pos  Position
}

// ObjectLiteral is a brace-delimited list of properties.
type ObjectLiteral struct {
	Properties []*Property
	Pos        Position
}

// Property is a key with an optional value. Value is nil if absent.
type Property struct {
	Key   string
	Value Statement
	Pos   Position
}

// MemberExpression is a static string-keyed index: object["property"].
type MemberExpression struct {
	Object   string
	Property string
	Pos      Position
}

// CallExpression is a call whose arguments are captured as raw source text.
// Arguments are never evaluated.
type CallExpression struct {
	Callee string
	Args   []string
	Pos    Position
}

func (*Comment) statement()              {}
func (*BooleanLiteral) statement()       {}
func (*NumericLiteral) statement()       {}
func (*Identifier) statement()           {}
func (*Declaration) statement()          {}
func (*Assign) statement()               {}
func (*ArithmeticExpression) statement() {}
func (*ObjectLiteral) statement()        {}
func (*Property) statement()             {}
func (*MemberExpression) statement()     {}
func (*CallExpression) statement()       {}

func (*Comment) Type() Type              { return TypeComment }
func (*BooleanLiteral) Type() Type       { return TypeBooleanLiteral }
func (*NumericLiteral) Type() Type       { return TypeNumericLiteral }
func (*Identifier) Type() Type           { return TypeIdentifier }
func (*Declaration) Type() Type          { return TypeDeclaration }
func (*Assign) Type() Type               { return TypeAssign }
func (*ArithmeticExpression) Type() Type { return TypeArithmeticExpression }
func (*ObjectLiteral) Type() Type        { return TypeObjectLiteral }
func (*Property) Type() Type             { return TypeProperty }
func (*MemberExpression) Type() Type     { return TypeMemberExpression }
func (*CallExpression) Type() Type       { return TypeCallExpression }

func (n *Comment) Position() Position              { return n.Pos }
func (n *BooleanLiteral) Position() Position       { return n.Pos }
func (n *NumericLiteral) Position() Position       { return n.Pos }
func (n *Identifier) Position() Position           { return n.Pos }
func (n *Declaration) Position() Position          { return n.Pos }
func (n *Assign) Position() Position               { return n.Pos }
func (n *ArithmeticExpression) Position() Position { return n.Pos }
func (n *ObjectLiteral) Position() Position        { return n.Pos }
func (n *Property) Position() Position             { return n.Pos }
func (n *MemberExpression) Position() Position     { return n.Pos }
func (n *CallExpression) Position() Position       { return n.Pos }

func (n *Comment) String() string { return "// " + n.Text }

func (n *BooleanLiteral) String() string { return strconv.FormatBool(n.Value) }

func (n *NumericLiteral) String() string { return formatNumber(n.Value) }

func (n *Identifier) String() string { return n.Name }

func (n *Declaration) String() string {
	keyword := "let"
	if n.Constant {
		keyword = "const"
	}

	return keyword + " " + n.Name + " = " + n.Expression.String()
}

func (n *Assign) String() string {
	return n.Name + " = " + n.Expression.String()
}

func (n *ArithmeticExpression) String() string { return n.Expr.String() }

func (n *ObjectLiteral) String() string {
	if len(n.Properties) == 0 {
		return "{}"
	}

	part := make([]string, len(n.Properties))
	for i, prop := range n.Properties {
		part[i] = prop.String()
	}

	return "{ " + strings.Join(part, ", ") + " }"
}

func (n *Property) String() string {
	if n.Value == nil {
		return n.Key
	}

	return n.Key + ": " + n.Value.String()
}

func (n *MemberExpression) String() string {
	return n.Object + `["` + n.Property + `"]`
}

func (n *CallExpression) String() string {
	return n.Callee + "(" + strings.Join(n.Args, ", ") + ")"
}

// Operator is a binary arithmetic operator.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

// String returns the operator symbol.
func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"

	case OpSub:
		return "-"

	case OpMul:
		return "*"

	case OpDiv:
		return "/"

	case OpMod:
		return "%"

	default:
		return "?"
	}
}

// Name returns the operator name used in tree dumps.
func (op Operator) Name() string {
	switch op {
	case OpAdd:
		return "Add"

	case OpSub:
		return "Sub"

	case OpMul:
		return "Mul"

	case OpDiv:
		return "Div"

	case OpMod:
		return "Mod"

	default:
		return "Unknown"
	}
}

// Arithmetic is a node of an arithmetic expression tree.
// The set of implementations is closed to this package.
type Arithmetic interface {
	// String returns the expression in source form. Parentheses appear only
	// where the tree holds a [Paren] node.
	String() string
	arithmetic()
}

// Literal is a numeric operand.
type Literal struct {
	Value float64
	Pos   Position
}

// Variable is a named operand.
type Variable struct {
	Name string
	Pos  Position
}

// Binary applies Op to Left and Right.
type Binary struct {
	Op    Operator
	Left  Arithmetic
	Right Arithmetic
	Pos   Position
}

// Paren records a parenthesized sub-expression. It has no effect on
// evaluation.
type Paren struct {
	Inner Arithmetic
	Pos   Position
}

func (*Literal) arithmetic()  {}
func (*Variable) arithmetic() {}
func (*Binary) arithmetic()   {}
func (*Paren) arithmetic()    {}

func (n *Literal) String() string  { return formatNumber(n.Value) }
func (n *Variable) String() string { return n.Name }
func (n *Paren) String() string    { return "(" + n.Inner.String() + ")" }

func (n *Binary) String() string {
	return n.Left.String() + " " + n.Op.String() + " " + n.Right.String()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
