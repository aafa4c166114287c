package ast

import (
	"fmt"
	"strings"
)

// Print renders an expression as a fully-parenthesized Lisp-like string,
// e.g. "(+ 1 2)". It exists mainly so tests can assert on parser output
// without depending on the interpreter.
func Print(e Expr) string {
	switch e := e.(type) {
	case *Assign:
		return parenthesize("= "+e.Name.Lexeme, e.Value)
	case *Binary:
		return parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *Call:
		return parenthesize("call", append([]Expr{e.Callee}, e.Args...)...)
	case *Get:
		return parenthesize("."+e.Name.Lexeme, e.Object)
	case *Grouping:
		return parenthesize("group", e.Inner)
	case *Literal:
		if e.Value == nil {
			return "nil"
		}
		return fmt.Sprintf("%v", e.Value)
	case *Logical:
		return parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *Set:
		return parenthesize("set ."+e.Name.Lexeme, e.Object, e.Value)
	case *Super:
		return "(super ." + e.Method.Lexeme + ")"
	case *This:
		return "this"
	case *Unary:
		return parenthesize(e.Op.Lexeme, e.Right)
	case *Variable:
		return e.Name.Lexeme
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func parenthesize(name string, exprs ...Expr) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteByte(' ')
		b.WriteString(Print(e))
	}
	b.WriteByte(')')
	return b.String()
}
