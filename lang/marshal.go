package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToNative())
}

// ToNative converts the program to a list of plain Go maps, one per
// statement.
func (p *Program) ToNative() []any {
	out := make([]any, len(p.Body))
	for i, stmt := range p.Body {
		out[i] = StatementNative(stmt)
	}

	return out
}

// StatementNative converts a statement to a plain Go map keyed by field
// name. Every map has a "type" key naming the node type.
func StatementNative(stmt Statement) map[string]any {
	m := map[string]any{"type": stmt.Type().String()}

	switch n := stmt.(type) {
	case *Comment:
		m["text"] = n.Text

	case *BooleanLiteral:
		m["value"] = n.Value

	case *NumericLiteral:
		m["value"] = n.Value

	case *Identifier:
		m["name"] = n.Name

	case *Declaration:
		m["name"] = n.Name
		m["constant"] = n.Constant
		m["value"] = StatementNative(n.Expression)

	case *Assign:
		m["name"] = n.Name
		m["value"] = StatementNative(n.Expression)

	case *ArithmeticExpression:
		m["expression"] = ArithmeticNative(n.Expr)

	case *ObjectLiteral:
		props := make([]any, len(n.Properties))
		for i, prop := range n.Properties {
			props[i] = StatementNative(prop)
		}

		m["properties"] = props

	case *Property:
		m["key"] = n.Key
		if n.Value != nil {
			m["value"] = StatementNative(n.Value)
		}

	case *MemberExpression:
		m["object"] = n.Object
		m["property"] = n.Property

	case *CallExpression:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = arg
		}

		m["callee"] = n.Callee
		m["arguments"] = args
	}

	return m
}

// ArithmeticNative converts an arithmetic tree to nested plain Go maps.
func ArithmeticNative(expr Arithmetic) map[string]any {
	switch n := expr.(type) {
	case *Literal:
		return map[string]any{"type": "Value", "value": n.Value}

	case *Variable:
		return map[string]any{"type": "Identifier", "name": n.Name}

	case *Paren:
		return map[string]any{"type": "Paren", "inner": ArithmeticNative(n.Inner)}

	case *Binary:
		return map[string]any{
			"type":  n.Op.Name(),
			"left":  ArithmeticNative(n.Left),
			"right": ArithmeticNative(n.Right),
		}

	default:
		return map[string]any{"type": "Unknown"}
	}
}
