package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxlang/loxwalk/lang/machine"
	"github.com/loxlang/loxwalk/lang/parser"
	"github.com/loxlang/loxwalk/lang/resolver"
	"github.com/loxlang/loxwalk/lang/scanner"
	"github.com/loxlang/loxwalk/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	toks := scanner.New(src, nil).ScanTokens()

	var errs []string
	p := parser.New(toks, func(_ token.Token, msg string) { errs = append(errs, msg) })
	stmts := p.Parse()
	require.Empty(t, errs)

	resolver.New(func(_ token.Token, msg string) { errs = append(errs, msg) }).Resolve(stmts)
	require.Empty(t, errs)

	var out bytes.Buffer
	in := machine.NewInterpreter()
	in.Stdout = &out
	err := in.Interpret(stmts)
	return out.String(), err
}

func TestInterpretArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpretStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestInterpretMixedPlusOperandsErrors(t *testing.T) {
	_, err := run(t, `print 1 + "a";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands must be two numbers or two strings.")
}

func TestInterpretVariablesAndScope(t *testing.T) {
	out, err := run(t, `
		var a = "global";
		{
			var a = "block";
			print a;
		}
		print a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "block\nglobal\n", out)
}

func TestInterpretClosures(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		counter();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestInterpretClassesAndMethods(t *testing.T) {
	out, err := run(t, `
		class Greeter {
			init(name) {
				this.name = name;
			}
			greet() {
				print "Hello, " + this.name + "!";
			}
		}
		var g = Greeter("world");
		g.greet();
	`)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!\n", out)
}

func TestInterpretInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
		class Animal {
			speak() {
				print "...";
			}
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print "Woof";
			}
		}
		Dog().speak();
	`)
	require.NoError(t, err)
	assert.Equal(t, "...\nWoof\n", out)
}

func TestInterpretForLoop(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpretUndefinedVariableErrors(t *testing.T) {
	_, err := run(t, `print x;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'x'.")
}

func TestInterpretCallingNonCallableErrors(t *testing.T) {
	_, err := run(t, `var a = 1; a();`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes.")
}

func TestInterpretWrongArityErrors(t *testing.T) {
	_, err := run(t, `fun f(a, b) { return a + b; } f(1);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1.")
}

func TestInterpretNativeFnDisplay(t *testing.T) {
	out, err := run(t, `print clock;`)
	require.NoError(t, err)
	assert.Equal(t, "<native fn>\n", out)
}

func TestInterpretStackOverflowGuard(t *testing.T) {
	toks := scanner.New(`fun recurse() { return recurse(); } recurse();`, nil).ScanTokens()
	p := parser.New(toks, func(token.Token, string) {})
	stmts := p.Parse()
	resolver.New(func(token.Token, string) {}).Resolve(stmts)

	in := machine.NewInterpreter()
	in.MaxCallDepth = 50
	in.Stdout = &bytes.Buffer{}
	err := in.Interpret(stmts)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Stack overflow."))
}
