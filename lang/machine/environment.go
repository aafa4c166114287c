package machine

import "github.com/dolthub/swiss"

// Environment is a lexical scope: a map of names to values plus a reference
// to the enclosing scope. The global environment has a nil enclosing.
type Environment struct {
	enclosing *Environment
	values    *swiss.Map[string, Value]
}

// NewEnvironment creates a top-level (global) environment.
func NewEnvironment() *Environment {
	return &Environment{values: swiss.NewMap[string, Value](8)}
}

// NewChildEnvironment creates a scope nested inside enclosing, as when
// entering a block or a function call.
func NewChildEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: swiss.NewMap[string, Value](8)}
}

// Define binds name to value in this scope, shadowing any binding of the
// same name in an enclosing scope. Redeclaring a name already defined in
// this same scope is allowed, matching Lox's top-level `var` semantics.
func (e *Environment) Define(name string, value Value) {
	e.values.Put(name, value)
}

// Get looks up name starting in this scope and walking outward. It returns
// an error identifying the undefined name when no scope defines it.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values.Get(name); ok {
			return v, nil
		}
	}
	return nil, &RuntimeError{Message: "Undefined variable '" + name + "'."}
}

// GetAt looks up name in the scope exactly distance levels out from this
// one. The resolver guarantees the binding exists there.
func (e *Environment) GetAt(distance int, name string) Value {
	env := e.ancestor(distance)
	v, _ := env.values.Get(name)
	return v
}

// Assign rebinds an already-declared name, walking outward to find the
// nearest scope that defines it. It is an error to assign to an undeclared
// name.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values.Get(name); ok {
			env.values.Put(name, value)
			return nil
		}
	}
	return &RuntimeError{Message: "Undefined variable '" + name + "'."}
}

// AssignAt rebinds name in the scope exactly distance levels out.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	env := e.ancestor(distance)
	env.values.Put(name, value)
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}
