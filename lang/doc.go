// Package lang implements the c420 scripting language: a parser that turns
// source text into a syntax tree, and a tree-walking evaluator that runs the
// tree against a lexically scoped variable store.
//
// # Grammar
//
// Statements are matched by ordered choice. At each position the
// alternatives below are tried in order and the first match is committed:
//
//	Statement  → Comment | Bool ';' | Number ';' | Ident ';'
//	           | Declaration | Assign | Call | Member ';' | Arithmetic
//	Comment    → '//' <text to end of line>
//	Declaration→ ('let' | 'const') Ident '=' Value ';'
//	Assign     → Ident '=' Value ';'
//	Call       → 'print' '(' <raw text> ')' ';'
//	Member     → Ident '[' '"' Ident '"' ']'
//	Value      → Bool | Object | Arithmetic | Member
//	Object     → '{' (Ident [':' PropValue] [','])* '}'
//	PropValue  → Bool | Number | Ident | Arithmetic | Object
//	Arithmetic → Term (('+' | '-') Term)*
//	Term       → Factor (('*' | '/' | '%') Factor)*
//	Factor     → Number | Ident | '(' Arithmetic ')'
//
// The right-hand side of a declaration or assignment must be consumed
// entirely, as must the body of an object literal and the program as a whole.
// Leftover input is reported as [ErrUnconsumedInput].
//
// # Example
//
//	// constants cannot be reassigned
//	const rate = 3;
//	let total = (1 + 2) * rate;
//	total = total % 4;
//	print(total, rate);
//
// # Evaluation
//
// An [Evaluator] owns one [Environment]. Each statement evaluates to a
// [Value]; the value of the last statement is the program result. Errors are
// fatal and stop evaluation at the failing statement. Object literals,
// properties, member expressions, and calls parse but do not evaluate; they
// fail with [ErrUnimplemented].
//
// Every fatal error is an [*Error] with a [Kind], and matches its sentinel
// with [errors.Is]:
//
//	_, err := lang.Evaluate(ctx, prog)
//	if errors.Is(err, lang.ErrDivideByZero) {
//		// ...
//	}
package lang
