// Package resolver performs a single static pass over the parsed statement
// list, annotating every variable reference with the number of enclosing
// scopes to walk at runtime. This lets the interpreter look variables up by
// fixed depth instead of walking the environment chain by name at eval time.
package resolver

import (
	"github.com/loxlang/loxwalk/lang/ast"
	"github.com/loxlang/loxwalk/lang/token"
)

// ErrorFunc is called for each resolution error found.
type ErrorFunc func(tok token.Token, message string)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// scope maps a name to whether its initializer has finished running. A
// variable present but false is "declared but not yet defined": referencing
// it in its own initializer is an error.
type scope map[string]bool

// Resolver walks a statement list and fills in the Depth field of every
// Variable, Assign, This and Super node. The zero value is not usable;
// construct one with New.
type Resolver struct {
	onError ErrorFunc
	scopes  []scope

	currentFunction functionType
	currentClass    classType
}

// New creates a Resolver. onError is invoked for every resolution diagnostic;
// it may be nil to discard them.
func New(onError ErrorFunc) *Resolver {
	if onError == nil {
		onError = func(token.Token, string) {}
	}
	return &Resolver{onError: onError}
}

// Resolve resolves an entire program. It should be called once per parse
// result, after a syntax-error-free Parse.
func (r *Resolver) Resolve(stmts []ast.Stmt) {
	r.resolveStmts(stmts)
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }

func (r *Resolver) endScope() { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.scopes[len(r.scopes)-1]
	if _, ok := sc[name.Lexeme]; ok {
		r.onError(name, "Already a variable with this name in this scope.")
	}
	sc[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal searches from the innermost scope outward, recording the
// number of scopes between the use site and the declaration. A name never
// found in a local scope is left with a nil depth, meaning "look it up in
// globals at runtime".
func (r *Resolver) resolveLocal(depth **int, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			d := len(r.scopes) - 1 - i
			*depth = &d
			return
		}
	}
}

func (r *Resolver) resolveFunction(fn *ast.Fun, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.Class:
		r.resolveClass(s)

	case *ast.Expression:
		r.resolveExpr(s.Expr)

	case *ast.Fun:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)

	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.Print:
		r.resolveExpr(s.Expr)

	case *ast.Return:
		if r.currentFunction == fnNone {
			r.onError(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == fnInitializer {
				r.onError(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.onError(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		kind := fnMethod
		if method.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(&e.Depth, e.Name)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Literal:
		// no identifiers to resolve

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.onError(e.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			r.onError(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(&e.Depth, e.Keyword)

	case *ast.This:
		if r.currentClass == classNone {
			r.onError(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(&e.Depth, e.Keyword)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.onError(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(&e.Depth, e.Name)

	default:
		panic("resolver: unhandled expression type")
	}
}
