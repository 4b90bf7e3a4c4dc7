package lang

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// sexpr renders an arithmetic tree with explicit node names.
func sexpr(expr Arithmetic) string {
	switch n := expr.(type) {
	case *Literal:
		return "Value(" + formatNumber(n.Value) + ")"

	case *Variable:
		return "Identifier(" + n.Name + ")"

	case *Paren:
		return "Paren(" + sexpr(n.Inner) + ")"

	case *Binary:
		return n.Op.Name() + "(" + sexpr(n.Left) + ", " + sexpr(n.Right) + ")"

	default:
		return "?"
	}
}

func mustParse(t *testing.T, src string) *Program {
	t.Helper()

	prog, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("ParseString(%q) error: %v", src, err)
	}

	return prog
}

func types(prog *Program) []Type {
	out := make([]Type, len(prog.Body))
	for i, stmt := range prog.Body {
		out[i] = stmt.Type()
	}

	return out
}

func TestParseString_Declaration(t *testing.T) {
	prog := mustParse(t, "let x = 1 + 2 * 3;")

	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}

	decl, ok := prog.Body[0].(*Declaration)
	if !ok {
		t.Fatalf("expected *Declaration, got %T", prog.Body[0])
	}

	if decl.Name != "x" {
		t.Errorf("name = %q, want %q", decl.Name, "x")
	}

	if decl.Constant {
		t.Error("let declaration should not be constant")
	}

	rhs, ok := decl.Expression.(*ArithmeticExpression)
	if !ok {
		t.Fatalf("expected *ArithmeticExpression, got %T", decl.Expression)
	}

	want := "Add(Value(1), Mul(Value(2), Value(3)))"
	if got := sexpr(rhs.Expr); got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}
}

func TestParseString_ConstDeclaration(t *testing.T) {
	prog := mustParse(t, "const y = 5;")

	decl, ok := prog.Body[0].(*Declaration)
	if !ok {
		t.Fatalf("expected *Declaration, got %T", prog.Body[0])
	}

	if !decl.Constant {
		t.Error("const declaration should be constant")
	}
}

func TestParseString_StatementTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Type
	}{
		{"empty", "", []Type{}},
		{"whitespace only", "  \n\t", []Type{}},
		{"comment", "// hello\n", []Type{TypeComment}},
		{"comment at end of input", "// hello", []Type{TypeComment}},
		{"boolean", "true;", []Type{TypeBooleanLiteral}},
		{"number", "42;", []Type{TypeNumericLiteral}},
		{"identifier", "x;", []Type{TypeIdentifier}},
		{"keyword prefix is identifier", "truex;", []Type{TypeIdentifier}},
		{"declaration", "const y = 5;", []Type{TypeDeclaration}},
		{"assignment", "y = 6;", []Type{TypeAssign}},
		{"call", "print(a, b);", []Type{TypeCallExpression}},
		{"member", `obj["key"];`, []Type{TypeMemberExpression}},
		{"arithmetic without terminator", "1 + 2", []Type{TypeArithmeticExpression}},
		{"arithmetic with terminator", "1 + 2;", []Type{TypeArithmeticExpression}},
		{"object declaration", "let o = { a: 1, b };", []Type{TypeDeclaration}},
		{
			"declaration then assignment",
			"const y = 5; y = 6;",
			[]Type{TypeDeclaration, TypeAssign},
		},
		{
			"mixed program",
			"// a\n// b\nlet x = 1;\nx = x * 2;\nprint(x);\nx + 1\n",
			[]Type{
				TypeComment, TypeComment, TypeDeclaration,
				TypeAssign, TypeCallExpression, TypeArithmeticExpression,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.input)

			if got := types(prog); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("types = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseString_Comment(t *testing.T) {
	prog := mustParse(t, "   //   spaced out   \r\nx;")

	c, ok := prog.Body[0].(*Comment)
	if !ok {
		t.Fatalf("expected *Comment, got %T", prog.Body[0])
	}

	if c.Text != "spaced out" {
		t.Errorf("text = %q, want %q", c.Text, "spaced out")
	}
}

func TestParseString_Arithmetic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"left associative subtraction", "10 - 3 - 2;", "Sub(Sub(Value(10), Value(3)), Value(2))"},
		{"precedence", "2 + 3 * 4;", "Add(Value(2), Mul(Value(3), Value(4)))"},
		{"parentheses", "(1 + 2) * 3;", "Mul(Paren(Add(Value(1), Value(2))), Value(3))"},
		{"modulo binds like multiplication", "1 + 7 % 4", "Add(Value(1), Mod(Value(7), Value(4)))"},
		{"division folds left", "8 / 4 / 2", "Div(Div(Value(8), Value(4)), Value(2))"},
		{"variables", "a * (b - c)", "Mul(Identifier(a), Paren(Sub(Identifier(b), Identifier(c))))"},
		{"semicolons after factor", "1 + 2;; * 3", "Add(Value(1), Mul(Value(2), Value(3)))"},
		{"no spaces", "1+2*3", "Add(Value(1), Mul(Value(2), Value(3)))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.input)

			if len(prog.Body) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(prog.Body))
			}

			stmt, ok := prog.Body[0].(*ArithmeticExpression)
			if !ok {
				t.Fatalf("expected *ArithmeticExpression, got %T", prog.Body[0])
			}

			if got := sexpr(stmt.Expr); got != tt.want {
				t.Errorf("tree = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		wantRest string
		wantOK   bool
	}{
		{"single number", "42", "Value(42)", "", true},
		{"stray semicolons skipped", "2;; * 3", "Mul(Value(2), Value(3))", "", true},
		{"dangling operator left unconsumed", "1 +", "Value(1)", "+", true},
		{"stops at unknown character", "1 + 2 ] x", "Add(Value(1), Value(2))", "] x", true},
		{"no unary minus", "-1", "", "-1", false},
		{"unclosed paren", "(1 + 2", "", "(1 + 2", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, rest, ok := ParseArithmetic(tt.input)

			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}

			if ok && sexpr(expr) != tt.want {
				t.Errorf("tree = %s, want %s", sexpr(expr), tt.want)
			}

			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestParseString_BindingValues(t *testing.T) {
	tests := []struct {
		input string
		want  Type
	}{
		{"let b = true;", TypeBooleanLiteral},
		{"let b = false ;", TypeBooleanLiteral},
		{"let o = {};", TypeObjectLiteral},
		{`let m = obj["k"];`, TypeMemberExpression},
		{"let v = y;", TypeArithmeticExpression},
		{"let n = 5;", TypeArithmeticExpression},
		{"z = (1);", TypeArithmeticExpression},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := mustParse(t, tt.input)

			var binding Binding

			switch n := prog.Body[0].(type) {
			case *Declaration:
				binding = n.Binding
			case *Assign:
				binding = n.Binding
			default:
				t.Fatalf("expected binding statement, got %T", n)
			}

			if got := binding.Expression.Type(); got != tt.want {
				t.Errorf("value type = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseString_Object(t *testing.T) {
	prog := mustParse(t, "let o = { a: 1, b, c: { d: true }, e: 1 + 2 };")

	decl := prog.Body[0].(*Declaration)

	obj, ok := decl.Expression.(*ObjectLiteral)
	if !ok {
		t.Fatalf("expected *ObjectLiteral, got %T", decl.Expression)
	}

	if len(obj.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(obj.Properties))
	}

	tests := []struct {
		key  string
		want Type
		none bool
	}{
		{key: "a", want: TypeNumericLiteral},
		{key: "b", none: true},
		{key: "c", want: TypeObjectLiteral},
		{key: "e", want: TypeArithmeticExpression},
	}

	for i, tt := range tests {
		prop := obj.Properties[i]

		if prop.Key != tt.key {
			t.Errorf("property %d key = %q, want %q", i, prop.Key, tt.key)
		}

		if tt.none {
			if prop.Value != nil {
				t.Errorf("property %q should have no value, got %v", prop.Key, prop.Value)
			}

			continue
		}

		if prop.Value == nil {
			t.Errorf("property %q has no value", prop.Key)

			continue
		}

		if got := prop.Value.Type(); got != tt.want {
			t.Errorf("property %q value type = %v, want %v", prop.Key, got, tt.want)
		}
	}

	nested := obj.Properties[2].Value.(*ObjectLiteral)
	if len(nested.Properties) != 1 || nested.Properties[0].Key != "d" {
		t.Errorf("nested object = %v, want { d: true }", nested)
	}
}

func TestParseString_CallArguments(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"print( a , b+1,c );", []string{"a", "b+1", "c"}},
		{"print(x);", []string{"x"}},
		{"print();", nil},
		{"print(  );", nil},
		{"print(1 + 2 * 3);", []string{"1 + 2 * 3"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := mustParse(t, tt.input)

			call, ok := prog.Body[0].(*CallExpression)
			if !ok {
				t.Fatalf("expected *CallExpression, got %T", prog.Body[0])
			}

			if call.Callee != "print" {
				t.Errorf("callee = %q, want %q", call.Callee, "print")
			}

			if !reflect.DeepEqual(call.Args, tt.want) {
				t.Errorf("args = %q, want %q", call.Args, tt.want)
			}

			// No arguments is a nil list, not an empty one.
			if tt.want == nil && call.Args != nil {
				t.Errorf("args = %#v, want nil", call.Args)
			}
		})
	}
}

func TestParseString_Member(t *testing.T) {
	prog := mustParse(t, `config["port"];`)

	m, ok := prog.Body[0].(*MemberExpression)
	if !ok {
		t.Fatalf("expected *MemberExpression, got %T", prog.Body[0])
	}

	if m.Object != "config" || m.Property != "port" {
		t.Errorf("member = %s, want config[\"port\"]", m)
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown character", "@", ErrUnconsumedInput},
		{"dangling operator in value", "let a = 1 +;", ErrUnconsumedInput},
		{"trailing garbage in value", "let a = 1 2;", ErrUnconsumedInput},
		{"unclosed call", "print(x", ErrUnconsumedInput},
		{"garbage in object body", "let o = { a: 1, 2 };", ErrUnconsumedInput},
		{"stray close in object body", "let o = {a)};", ErrUnconsumedInput},
		{"object without matching close", "let o = {{a)};", ErrUnbalancedBracket},
		{"unclosed object in declaration", "let o = { a: 1;", ErrUnbalancedBracket},
		{"unclosed nested object", "let o = { a: { b };", ErrUnbalancedBracket},
		{"unclosed object in assignment", "x = { a: 1;", ErrUnbalancedBracket},
		{"unclosed parenthesis in value", "let a = (1 + 2;", ErrUnbalancedBracket},
		{"unary minus", "-1;", ErrUnconsumedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseString_UnclosedValuePosition(t *testing.T) {
	tests := []struct {
		input string
		want  Position
	}{
		{"let o = { a: 1;", Position{Offset: 8, Line: 1, Column: 9}},
		{"let a = 1;\nx = { a: 1;", Position{Offset: 15, Line: 2, Column: 5}},
		{"let o = {};\nlet p = { q: (1 };", Position{Offset: 20, Line: 2, Column: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input)
			if ErrorKind(err) != KindUnbalancedBracket {
				t.Fatalf("error = %v, want kind %v", err, KindUnbalancedBracket)
			}

			var ee *Error
			if !errors.As(err, &ee) {
				t.Fatalf("expected *Error, got %T", err)
			}

			if pos, ok := ee.Position(); !ok || pos != tt.want {
				t.Errorf("position = %+v (%v), want %+v", pos, ok, tt.want)
			}
		})
	}
}

func TestParseString_ErrorPosition(t *testing.T) {
	_, err := ParseString(context.Background(), "let x = 1;\n  @")

	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}

	pos, ok := ee.Position()
	if !ok {
		t.Fatal("error has no position")
	}

	if pos.Line != 2 || pos.Column != 3 {
		t.Errorf("position = %s, want 2:3", pos)
	}

	if !strings.HasPrefix(err.Error(), "2:3: remainder to be parsed") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestParseString_Positions(t *testing.T) {
	prog := mustParse(t, "let a = 1;\n  b = 2;")

	tests := []struct {
		index int
		line  int
		col   int
	}{
		{0, 1, 1},
		{1, 2, 3},
	}

	for _, tt := range tests {
		pos := prog.Body[tt.index].Position()
		if pos.Line != tt.line || pos.Column != tt.col {
			t.Errorf("statement %d position = %s, want %d:%d", tt.index, pos, tt.line, tt.col)
		}
	}
}

func FuzzParseString(f *testing.F) {
	f.Add("let x = 1 + 2 * 3;")
	f.Add("const y = 5; y = 6;")
	f.Add("// comment\nprint(a, b);")
	f.Add(`let o = { a: 1, b: { c: true } }; o["a"];`)
	f.Add("((1));; + 2")
	f.Add("{{}")

	f.Fuzz(func(t *testing.T, input string) {
		prog, err := ParseString(context.Background(), input)
		if err != nil {
			if ErrorKind(err) == KindUnknown {
				t.Fatalf("error without kind: %v", err)
			}

			return
		}

		for _, stmt := range prog.Body {
			if stmt == nil {
				t.Fatal("nil statement")
			}
		}
	})
}

func BenchmarkParseString(b *testing.B) {
	src := strings.Repeat(
		"// step\nlet a = 1 + 2 * (3 - 4) % 5;\nconst b = { x: 1, y: a };\na = a * 2;\nprint(a, b);\n",
		50,
	)

	b.ReportAllocs()

	for b.Loop() {
		if _, err := ParseString(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}
