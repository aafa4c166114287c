package maincmd

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/loxlang/loxwalk/internal/reporter"
	"github.com/loxlang/loxwalk/lang/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSource drives the same scan/parse/resolve/interpret pipeline the CLI
// commands use, against an interpreter created the same way newInterpreter
// builds one for a real run.
func runSource(t *testing.T, src string) (stdout, stderr string, hadError, hadRuntimeError bool) {
	t.Helper()

	var out, errOut bytes.Buffer
	rep := reporter.New(&errOut, nil)

	in := machine.NewInterpreter()
	in.Stdout = &out
	in.MaxCallDepth = 255

	run(context.Background(), rep, in, src)
	return out.String(), errOut.String(), rep.HadError(), rep.HadRuntimeError()
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"add_numbers", `print 1 + 2;`, "3\n"},
		{"concat_strings", `print "foo" + "bar";`, "foobar\n"},
		{"block_shadowing", `var a = 1; { var a = 2; print a; } print a;`, "2\n1\n"},
		{"closure_counter", `fun make(){ var i=0; fun inc(){ i=i+1; print i; } return inc; } var c=make(); c(); c();`, "1\n2\n"},
		{"init_return_value", `class A { init(x){ this.x = x; } get(){ return this.x; } } print A(7).get();`, "7\n"},
		{"inheritance_super", `class A { greet(){ print "A"; } } class B < A { greet(){ super.greet(); print "B"; } } B().greet();`, "A\nB\n"},
		{"for_loop", `for (var i=0; i<3; i=i+1) print i;`, "0\n1\n2\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, _, hadError, hadRuntimeError := runSource(t, tc.src)
			require.False(t, hadError)
			require.False(t, hadRuntimeError)
			assert.Equal(t, tc.want, stdout)
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_stdout", tc.name), stdout)
		})
	}
}

func TestClockMonotonicNonDecreasing(t *testing.T) {
	stdout, _, hadError, hadRuntimeError := runSource(t, `print clock() - clock() <= 0;`)
	require.False(t, hadError)
	require.False(t, hadRuntimeError)
	assert.Equal(t, "true\n", stdout)
}

func TestNegativeCases(t *testing.T) {
	cases := []struct {
		name        string
		src         string
		wantMessage string
		wantRuntime bool
	}{
		{"unary_minus_on_string", `-"a";`, "Operand must be a number.", true},
		{"plus_string_and_number", `"a" + 1;`, "Operands must be two numbers or two strings.", true},
		{"self_reference_in_initializer", `{ var a = a; }`, "Can't read local variable in its own initializer.", false},
		{"return_at_top_level", `return 3;`, "Can't return from top-level code.", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, stderr, hadError, hadRuntimeError := runSource(t, tc.src)
			assert.Contains(t, stderr, tc.wantMessage)
			assert.Equal(t, tc.wantRuntime, hadRuntimeError)
			assert.Equal(t, !tc.wantRuntime, hadError)
		})
	}
}
