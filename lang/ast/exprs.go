package ast

import "github.com/loxlang/loxwalk/lang/token"

type (
	// Assign represents a variable assignment, e.g. x = y.
	Assign struct {
		Name  token.Token
		Value Expr
		// Depth is filled in by the resolver: nil means "resolve at global
		// scope", otherwise the number of enclosing environments to walk.
		Depth *int
	}

	// Binary represents a binary operator expression, e.g. x + y.
	Binary struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// Call represents a function or method call, e.g. f(x, y).
	Call struct {
		Callee       Expr
		ClosingParen token.Token // used to report call-site runtime errors
		Args         []Expr
	}

	// Get represents a property access, e.g. x.y.
	Get struct {
		Object Expr
		Name   token.Token
	}

	// Grouping represents a parenthesized expression, e.g. (x).
	Grouping struct {
		Inner Expr
	}

	// Literal represents a literal value: a number, string, boolean or nil.
	Literal struct {
		Value any
	}

	// Logical represents a short-circuiting `and`/`or` expression.
	Logical struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// Set represents a property assignment, e.g. x.y = z.
	Set struct {
		Object Expr
		Name   token.Token
		Value  Expr
	}

	// Super represents a `super.method` expression.
	Super struct {
		Keyword token.Token
		Method  token.Token
		Depth   *int
	}

	// This represents a `this` expression.
	This struct {
		Keyword token.Token
		Depth   *int
	}

	// Unary represents a unary operator expression, e.g. -x or !x.
	Unary struct {
		Op    token.Token
		Right Expr
	}

	// Variable represents a variable reference, e.g. x.
	Variable struct {
		Name  token.Token
		Depth *int
	}
)

func (*Assign) exprNode()   {}
func (*Binary) exprNode()   {}
func (*Call) exprNode()     {}
func (*Get) exprNode()      {}
func (*Grouping) exprNode() {}
func (*Literal) exprNode()  {}
func (*Logical) exprNode()  {}
func (*Set) exprNode()      {}
func (*Super) exprNode()    {}
func (*This) exprNode()     {}
func (*Unary) exprNode()    {}
func (*Variable) exprNode() {}
