package resolver_test

import (
	"testing"

	"github.com/loxlang/loxwalk/lang/ast"
	"github.com/loxlang/loxwalk/lang/parser"
	"github.com/loxlang/loxwalk/lang/resolver"
	"github.com/loxlang/loxwalk/lang/scanner"
	"github.com/loxlang/loxwalk/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, src string) ([]ast.Stmt, []string) {
	t.Helper()
	toks := scanner.New(src, nil).ScanTokens()
	var perrs []string
	p := parser.New(toks, func(tok token.Token, msg string) { perrs = append(perrs, msg) })
	stmts := p.Parse()
	require.Empty(t, perrs)

	var rerrs []string
	resolver.New(func(tok token.Token, msg string) { rerrs = append(rerrs, msg) }).Resolve(stmts)
	return stmts, rerrs
}

func TestResolveLocalVariableDepth(t *testing.T) {
	stmts, errs := resolve(t, `
		var a = 1;
		{
			var b = 2;
			print a + b;
		}
	`)
	require.Empty(t, errs)

	block := stmts[1].(*ast.Block)
	printStmt := block.Stmts[1].(*ast.Print)
	bin := printStmt.Expr.(*ast.Binary)

	aRef := bin.Left.(*ast.Variable)
	assert.Nil(t, aRef.Depth) // declared at top level, resolved as global

	bRef := bin.Right.(*ast.Variable)
	require.NotNil(t, bRef.Depth)
	assert.Equal(t, 0, *bRef.Depth)
}

func TestResolveGlobalHasNilDepth(t *testing.T) {
	stmts, errs := resolve(t, `
		var a = 1;
		print a;
	`)
	require.Empty(t, errs)
	printStmt := stmts[1].(*ast.Print)
	ref := printStmt.Expr.(*ast.Variable)
	assert.Nil(t, ref.Depth)
}

func TestResolveSelfReferenceInInitializerErrors(t *testing.T) {
	_, errs := resolve(t, `{ var a = a; }`)
	require.Len(t, errs, 1)
	assert.Equal(t, "Can't read local variable in its own initializer.", errs[0])
}

func TestResolveDuplicateLocalDeclarationErrors(t *testing.T) {
	_, errs := resolve(t, `{ var a = 1; var a = 2; }`)
	require.Len(t, errs, 1)
	assert.Equal(t, "Already a variable with this name in this scope.", errs[0])
}

func TestResolveReturnAtTopLevelErrors(t *testing.T) {
	_, errs := resolve(t, `return 1;`)
	require.Len(t, errs, 1)
	assert.Equal(t, "Can't return from top-level code.", errs[0])
}

func TestResolveReturnValueFromInitializerErrors(t *testing.T) {
	_, errs := resolve(t, `class A { init() { return 1; } }`)
	require.Len(t, errs, 1)
	assert.Equal(t, "Can't return a value from an initializer.", errs[0])
}

func TestResolveThisOutsideClassErrors(t *testing.T) {
	_, errs := resolve(t, `print this;`)
	require.Len(t, errs, 1)
	assert.Equal(t, "Can't use 'this' outside of a class.", errs[0])
}

func TestResolveSuperOutsideClassErrors(t *testing.T) {
	_, errs := resolve(t, `print super.foo;`)
	require.Len(t, errs, 1)
	assert.Equal(t, "Can't use 'super' outside of a class.", errs[0])
}

func TestResolveSuperWithNoSuperclassErrors(t *testing.T) {
	_, errs := resolve(t, `class A { foo() { super.bar(); } }`)
	require.Len(t, errs, 1)
	assert.Equal(t, "Can't use 'super' in a class with no superclass.", errs[0])
}

func TestResolveSelfInheritanceErrors(t *testing.T) {
	_, errs := resolve(t, `class A < A {}`)
	require.Len(t, errs, 1)
	assert.Equal(t, "A class can't inherit from itself.", errs[0])
}

func TestResolveValidInheritanceNoErrors(t *testing.T) {
	_, errs := resolve(t, `
		class A { greet() { return 1; } }
		class B < A { greet() { return super.greet(); } }
	`)
	require.Empty(t, errs)
}
