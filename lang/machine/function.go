package machine

import (
	"fmt"

	"github.com/loxlang/loxwalk/lang/ast"
)

// UserFn is a Lox function or method value: the parsed declaration plus the
// environment captured at the point of declaration, which gives closures
// their lexical scoping.
type UserFn struct {
	Declaration   *ast.Fun
	closure       *Environment
	isInitializer bool
}

var _ Callable = (*UserFn)(nil)

func newUserFn(decl *ast.Fun, closure *Environment, isInitializer bool) *UserFn {
	return &UserFn{Declaration: decl, closure: closure, isInitializer: isInitializer}
}

func (f *UserFn) String() string { return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme) }
func (f *UserFn) Type() string   { return "function" }
func (f *UserFn) Arity() int     { return len(f.Declaration.Params) }

// Bind returns a copy of the method closed over an environment where `this`
// is bound to instance, as required when the method is looked up via a Get
// expression.
func (f *UserFn) Bind(instance *Instance) *UserFn {
	env := NewChildEnvironment(f.closure)
	env.Define("this", instance)
	return newUserFn(f.Declaration, env, f.isInitializer)
}

func (f *UserFn) Call(in *Interpreter, args []Value) (result Value, err error) {
	env := NewChildEnvironment(f.closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			if f.isInitializer {
				result = f.closure.GetAt(0, "this")
				return
			}
			result = sig.value
		}
	}()

	if execErr := in.executeBlock(f.Declaration.Body, env); execErr != nil {
		return nil, execErr
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return Nil{}, nil
}

// NativeFn wraps a Go function as a callable Lox value, used for the handful
// of functions the runtime provides without requiring Lox source, such as
// clock().
type NativeFn struct {
	name    string
	fn      func(in *Interpreter, args []Value) (Value, error)
	fnArity int
}

var _ Callable = (*NativeFn)(nil)

func NewNativeFn(name string, arity int, fn func(in *Interpreter, args []Value) (Value, error)) *NativeFn {
	return &NativeFn{name: name, fn: fn, fnArity: arity}
}

func (f *NativeFn) String() string { return "<native fn>" }
func (f *NativeFn) Type() string   { return "function" }
func (f *NativeFn) Arity() int     { return f.fnArity }
func (f *NativeFn) Call(in *Interpreter, args []Value) (Value, error) {
	return f.fn(in, args)
}
