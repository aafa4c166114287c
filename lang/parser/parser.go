// Package parser implements the recursive-descent parser that turns a
// token sequence into a statement list, with panic-mode error recovery.
package parser

import (
	"errors"

	"github.com/loxlang/loxwalk/lang/ast"
	"github.com/loxlang/loxwalk/lang/token"
)

// ErrorFunc is called for each parse error. Parsing continues after
// reporting: synchronize() discards tokens up to the next statement
// boundary and the caller resumes at the next declaration.
type ErrorFunc func(tok token.Token, message string)

// maxArgs is the limit on function parameters and call arguments.
const maxArgs = 255

// parseError is the internal panic-mode recovery sentinel. It is never
// returned to callers of Parse.
var parseError = errors.New("parse error")

// Parser consumes a token slice and produces a statement list. The zero
// value is not usable; construct one with New.
type Parser struct {
	tokens  []token.Token
	current int
	onError ErrorFunc
}

// New creates a Parser over tokens. onError is invoked for every parse
// diagnostic; it may be nil to discard them.
func New(tokens []token.Token, onError ErrorFunc) *Parser {
	if onError == nil {
		onError = func(token.Token, string) {}
	}
	return &Parser{tokens: tokens, onError: onError}
}

// Parse parses the full token stream as a program (declaration* EOF) and
// returns the resulting statements. The result may contain only a partial
// program if errors were reported; callers must check their ErrorFunc
// (typically via an ErrorReporter's hadError flag) before executing it.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if r != parseError {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.LESS) {
		p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = &ast.Variable{Name: p.previous()}
	}

	p.consume(token.LBRACE, "Expect '{' before class body.")
	var methods []*ast.Fun
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(token.RBRACE, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.Fun {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	p.consume(token.LPAREN, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxArgs {
				p.error(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after parameters.")

	p.consume(token.LBRACE, "Expect '{' before "+kind+" body.")
	body := p.block()
	return &ast.Fun{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer}
}

// --- token stream helpers ---

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(k token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == k
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) consume(k token.Kind, message string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	panic(p.error(p.peek(), message))
}

func (p *Parser) error(tok token.Token, message string) error {
	p.onError(tok, message)
	return parseError
}

// synchronize discards tokens until it reaches a likely statement boundary,
// so that parsing can resume after a syntax error without cascading
// spurious diagnostics.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}
		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
