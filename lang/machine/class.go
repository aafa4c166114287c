package machine

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Class is a Lox class value: a name, an optional superclass, and its own
// methods. Calling a Class constructs an Instance.
type Class struct {
	Name       string
	Superclass *Class
	methods    *swiss.Map[string, *UserFn]
}

var _ Callable = (*Class)(nil)

func NewClass(name string, superclass *Class, methods *swiss.Map[string, *UserFn]) *Class {
	return &Class{Name: name, Superclass: superclass, methods: methods}
}

func (c *Class) String() string { return c.Name }
func (c *Class) Type() string   { return "class" }

// findMethod looks up a method by name, checking the superclass chain when
// this class doesn't define it directly.
func (c *Class) findMethod(name string) (*UserFn, bool) {
	if m, ok := c.methods.Get(name); ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.findMethod(name)
	}
	return nil, false
}

// Arity is the arity of the `init` method, or zero if the class has none.
func (c *Class) Arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance and, if the class defines an `init` method,
// runs it against the new instance with the given arguments.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	instance := NewInstance(c)
	if init, ok := c.findMethod("init"); ok {
		if _, err := init.Bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a runtime instance of a Lox class: a class pointer plus its
// own field map, populated lazily as fields are set.
type Instance struct {
	class  *Class
	fields *swiss.Map[string, Value]
}

var _ Value = (*Instance)(nil)

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: swiss.NewMap[string, Value](4)}
}

func (i *Instance) String() string { return i.class.Name + " instance" }
func (i *Instance) Type() string   { return "instance" }

// Get resolves a property access: fields shadow methods, and methods are
// bound to this instance so that `this` resolves correctly inside them.
func (i *Instance) Get(name string) (Value, error) {
	if v, ok := i.fields.Get(name); ok {
		return v, nil
	}
	if m, ok := i.class.findMethod(name); ok {
		return m.Bind(i), nil
	}
	return nil, &RuntimeError{Message: fmt.Sprintf("Undefined property '%s'.", name)}
}

func (i *Instance) Set(name string, value Value) {
	i.fields.Put(name, value)
}
