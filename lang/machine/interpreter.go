package machine

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dolthub/swiss"
	"github.com/loxlang/loxwalk/lang/ast"
	"github.com/loxlang/loxwalk/lang/token"
)

// Interpreter walks a resolved statement list and evaluates it directly,
// without compiling to any intermediate bytecode. Its global environment
// persists across calls to Interpret, so the REPL reuses one Interpreter for
// every line it reads.
type Interpreter struct {
	// Stdout is where `print` output goes; if nil, os.Stdout is used. Stderr
	// is stored for callers but not written to by the interpreter: runtime
	// errors are returned from Interpret for the caller to report.
	Stdout io.Writer
	Stderr io.Writer

	// MaxCallDepth limits the depth of nested Lox function calls. A value
	// <= 0 means no limit. Exceeding it produces a runtime "Stack overflow."
	// error rather than crashing the host process.
	MaxCallDepth int

	Globals *Environment

	environment *Environment
	callDepth   int
}

// NewInterpreter creates an Interpreter with the standard library of native
// functions (currently just clock()) installed in its global scope.
func NewInterpreter() *Interpreter {
	globals := NewEnvironment()
	in := &Interpreter{Globals: globals, environment: globals}
	in.defineNatives()
	return in
}

func (in *Interpreter) defineNatives() {
	in.Globals.Define("clock", NewNativeFn("clock", 0, func(*Interpreter, []Value) (Value, error) {
		return Number(float64(time.Now().UnixNano()) / 1e9), nil
	}))
}

func (in *Interpreter) stdout() io.Writer {
	if in.Stdout != nil {
		return in.Stdout
	}
	return os.Stdout
}

// Interpret runs a full, already-resolved program. It stops at the first
// runtime error, matching Lox's reference behavior of aborting the whole
// run (file mode exits 70; the REPL reports and continues with the next
// line).
func (in *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := in.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Block:
		return in.executeBlock(s.Stmts, NewChildEnvironment(in.environment))

	case *ast.Class:
		return in.executeClass(s)

	case *ast.Expression:
		_, err := in.eval(s.Expr)
		return err

	case *ast.Fun:
		fn := newUserFn(s, in.environment, false)
		in.environment.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.If:
		cond, err := in.eval(s.Cond)
		if err != nil {
			return err
		}
		if Truthy(cond) {
			return in.execute(s.Then)
		} else if s.Else != nil {
			return in.execute(s.Else)
		}
		return nil

	case *ast.Print:
		v, err := in.eval(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.stdout(), Stringify(v))
		return nil

	case *ast.Return:
		var value Value = Nil{}
		if s.Value != nil {
			v, err := in.eval(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		panic(returnSignal{value: value})

	case *ast.Var:
		var value Value = Nil{}
		if s.Initializer != nil {
			v, err := in.eval(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		in.environment.Define(s.Name.Lexeme, value)
		return nil

	case *ast.While:
		for {
			cond, err := in.eval(s.Cond)
			if err != nil {
				return err
			}
			if !Truthy(cond) {
				return nil
			}
			if err := in.execute(s.Body); err != nil {
				return err
			}
		}

	default:
		panic("interpreter: unhandled statement type")
	}
}

// executeBlock runs stmts in env, restoring the previous environment before
// returning (including when a return signal unwinds through it via panic).
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := in.environment
	in.environment = env
	defer func() { in.environment = previous }()

	for _, s := range stmts {
		if err := in.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) executeClass(s *ast.Class) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := in.eval(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return &RuntimeError{Token: s.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = sc
	}

	in.environment.Define(s.Name.Lexeme, Nil{})

	env := in.environment
	if s.Superclass != nil {
		env = NewChildEnvironment(in.environment)
		env.Define("super", superclass)
	}

	methods := swiss.NewMap[string, *UserFn](uint32(len(s.Methods)))
	for _, m := range s.Methods {
		fn := newUserFn(m, env, m.Name.Lexeme == "init")
		methods.Put(m.Name.Lexeme, fn)
	}

	class := NewClass(s.Name.Lexeme, superclass, methods)
	return in.environment.Assign(s.Name.Lexeme, class)
}

func (in *Interpreter) eval(e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case *ast.Assign:
		value, err := in.eval(e.Value)
		if err != nil {
			return nil, err
		}
		if e.Depth != nil {
			in.environment.AssignAt(*e.Depth, e.Name.Lexeme, value)
		} else if err := in.Globals.Assign(e.Name.Lexeme, value); err != nil {
			return nil, annotate(err, e.Name)
		}
		return value, nil

	case *ast.Binary:
		return in.evalBinary(e)

	case *ast.Call:
		return in.evalCall(e)

	case *ast.Get:
		obj, err := in.eval(e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: e.Name, Message: "Only instances have properties."}
		}
		v, err := inst.Get(e.Name.Lexeme)
		if err != nil {
			return nil, annotate(err, e.Name)
		}
		return v, nil

	case *ast.Grouping:
		return in.eval(e.Inner)

	case *ast.Literal:
		return literalValue(e.Value), nil

	case *ast.Logical:
		left, err := in.eval(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Kind == token.OR {
			if Truthy(left) {
				return left, nil
			}
		} else if !Truthy(left) {
			return left, nil
		}
		return in.eval(e.Right)

	case *ast.Set:
		obj, err := in.eval(e.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: e.Name, Message: "Only instances have fields."}
		}
		value, err := in.eval(e.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(e.Name.Lexeme, value)
		return value, nil

	case *ast.Super:
		return in.evalSuper(e)

	case *ast.This:
		return in.lookUpVariable(e.Keyword, e.Depth)

	case *ast.Unary:
		return in.evalUnary(e)

	case *ast.Variable:
		return in.lookUpVariable(e.Name, e.Depth)

	default:
		panic("interpreter: unhandled expression type")
	}
}

func literalValue(v any) Value {
	switch v := v.(type) {
	case nil:
		return Nil{}
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case string:
		return String(v)
	default:
		panic(fmt.Sprintf("interpreter: unexpected literal type %T", v))
	}
}

func (in *Interpreter) lookUpVariable(name token.Token, depth *int) (Value, error) {
	if depth != nil {
		return in.environment.GetAt(*depth, name.Lexeme), nil
	}
	v, err := in.Globals.Get(name.Lexeme)
	if err != nil {
		return nil, annotate(err, name)
	}
	return v, nil
}

func (in *Interpreter) evalSuper(e *ast.Super) (Value, error) {
	distance := 0
	if e.Depth != nil {
		distance = *e.Depth
	}
	superclass := in.environment.GetAt(distance, "super").(*Class)
	instance := in.environment.GetAt(distance-1, "this").(*Instance)

	method, ok := superclass.findMethod(e.Method.Lexeme)
	if !ok {
		return nil, &RuntimeError{Token: e.Method, Message: fmt.Sprintf("Undefined property '%s'.", e.Method.Lexeme)}
	}
	return method.Bind(instance), nil
}

func (in *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	right, err := in.eval(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Kind {
	case token.MINUS:
		n, ok := right.(Number)
		if !ok {
			return nil, &RuntimeError{Token: e.Op, Message: "Operand must be a number."}
		}
		return -n, nil
	case token.BANG:
		return Bool(!Truthy(right)), nil
	default:
		panic("interpreter: unhandled unary operator")
	}
}

func (in *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.PLUS:
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}
		return nil, &RuntimeError{Token: e.Op, Message: "Operands must be two numbers or two strings."}
	case token.MINUS:
		ln, rn, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case token.STAR:
		ln, rn, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case token.SLASH:
		ln, rn, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln / rn, nil
	case token.GREATER:
		ln, rn, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(ln > rn), nil
	case token.GREATER_EQUAL:
		ln, rn, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(ln >= rn), nil
	case token.LESS:
		ln, rn, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(ln < rn), nil
	case token.LESS_EQUAL:
		ln, rn, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(ln <= rn), nil
	case token.EQUAL_EQUAL:
		return Bool(Equal(left, right)), nil
	case token.BANG_EQUAL:
		return Bool(!Equal(left, right)), nil
	default:
		panic("interpreter: unhandled binary operator")
	}
}

func numberOperands(op token.Token, left, right Value) (Number, Number, error) {
	ln, ok := left.(Number)
	if !ok {
		return 0, 0, &RuntimeError{Token: op, Message: "Operands must be numbers."}
	}
	rn, ok := right.(Number)
	if !ok {
		return 0, 0, &RuntimeError{Token: op, Message: "Operands must be numbers."}
	}
	return ln, rn, nil
}

func (in *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := in.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Token: e.ClosingParen, Message: "Can only call functions and classes."}
	}
	if len(args) != fn.Arity() {
		return nil, &RuntimeError{Token: e.ClosingParen, Message: fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args))}
	}

	if in.MaxCallDepth > 0 && in.callDepth >= in.MaxCallDepth {
		return nil, &RuntimeError{Token: e.ClosingParen, Message: "Stack overflow."}
	}
	in.callDepth++
	defer func() { in.callDepth-- }()

	return fn.Call(in, args)
}

// annotate attaches a token (for line reporting) to an error raised by the
// environment, which has no AST position of its own.
func annotate(err error, tok token.Token) error {
	if re, ok := err.(*RuntimeError); ok && re.Token == (token.Token{}) {
		re.Token = tok
	}
	return err
}
