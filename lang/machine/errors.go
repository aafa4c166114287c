package machine

import "github.com/loxlang/loxwalk/lang/token"

// RuntimeError is returned by the interpreter for any failure that occurs
// while evaluating a resolved program: type mismatches, undefined variables,
// wrong arity, stack overflow, and so on. Token identifies the offending
// token for diagnostic reporting; it is the zero Token when no specific
// token applies.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// returnSignal carries a `return` statement's value up through the Go call
// stack to the enclosing function call. It is not a real error: it is
// recovered by Call before the error ever reaches user-visible code.
type returnSignal struct {
	value Value
}
