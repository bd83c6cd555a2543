package internal

import (
	"fmt"
)

// parseError unwinds the parser up to the nearest statement boundary
type parseError struct {
	err error
}

// parser stores parser data
type parser struct {
	current int

	state *interpreterState
}

const maxFunctionParams = 8

func (p *parser) parse() {
	for !p.isAtEnd() {
		st := p.declaration()
		// A statement that failed to parse is dropped after
		// synchronizing, it has already been reported
		if st != nil {
			p.state.stmts = append(p.state.stmts, st)
		}
	}
}

func (p *parser) declaration() (s stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			s = nil
		}
	}()
	if p.match(tkClass) {
		return p.class()
	}
	if p.match(tkFun) {
		return p.fn("function")
	}
	if p.match(tkVar) {
		return p.varDecl()
	}
	return p.statement()
}

func (p *parser) class() stmt {
	name := p.consume(tkIdentifier, errExpectedClassName)

	var superclass *variableExpr
	if p.match(tkLess) {
		superclass = &variableExpr{
			name: p.consume(tkIdentifier, errExpectedSuperclassName),
		}
	}

	p.consume(tkLeftBrace, fmt.Errorf("Expect '{' before class body."))

	var methods []*functionStmt
	for !p.check(tkRightBrace) && !p.isAtEnd() {
		methods = append(methods, p.fn("method"))
	}

	p.consume(tkRightBrace, fmt.Errorf("Expect '}' after class body."))

	return &classStmt{
		name:       name,
		superclass: superclass,
		methods:    methods,
	}
}

func (p *parser) fn(kind string) *functionStmt {
	name := p.consume(tkIdentifier, fmt.Errorf("Expect %s name.", kind))

	p.consume(tkLeftParen, fmt.Errorf("Expect '(' after %s name.", kind))

	var params []*token
	if !p.check(tkRightParen) {
		for {
			if len(params) >= maxFunctionParams {
				p.state.setError(errMaxParameters, p.peek())
			}
			params = append(params, p.consume(tkIdentifier, errExpectedParamName))
			if !p.match(tkComma) {
				break
			}
		}
	}
	p.consume(tkRightParen, fmt.Errorf("Expect ')' after parameters."))

	p.consume(tkLeftBrace, fmt.Errorf("Expect '{' before %s body.", kind))

	return &functionStmt{
		name:   name,
		params: params,
		body:   p.block(),
	}
}

func (p *parser) varDecl() stmt {
	name := p.consume(tkIdentifier, errExpectedVarName)

	var init expr
	if p.match(tkEqual) {
		init = p.expression()
	}

	p.consume(tkSemicolon, fmt.Errorf("Expect ';' after variable declaration."))

	return &varStmt{
		name:        name,
		initializer: init,
	}
}

func (p *parser) statement() stmt {
	if p.match(tkFor) {
		return p.forLoop()
	}
	if p.match(tkIf) {
		return p.ifStmt()
	}
	if p.match(tkPrint) {
		return p.printStmt()
	}
	if p.match(tkReturn) {
		return p.ret()
	}
	if p.match(tkWhile) {
		return p.while()
	}
	if p.match(tkLeftBrace) {
		return &blockStmt{stmts: p.block()}
	}
	return p.expressionStmt()
}

// forLoop desugars into a while loop wrapped in blocks
func (p *parser) forLoop() stmt {
	p.consume(tkLeftParen, fmt.Errorf("Expect '(' after 'for'."))

	var init stmt
	if p.match(tkSemicolon) {
		init = nil
	} else if p.match(tkVar) {
		init = p.varDecl()
	} else {
		init = p.expressionStmt()
	}

	var cond expr
	if !p.check(tkSemicolon) {
		cond = p.expression()
	}
	p.consume(tkSemicolon, fmt.Errorf("Expect ';' after loop condition."))

	var inc expr
	if !p.check(tkRightParen) {
		inc = p.expression()
	}
	p.consume(tkRightParen, fmt.Errorf("Expect ')' after for clauses."))

	body := p.statement()

	if inc != nil {
		body = &blockStmt{stmts: []stmt{body, &expressionStmt{expression: inc}}}
	}
	if cond == nil {
		cond = &literalExpr{value: true}
	}
	body = &whileStmt{condition: cond, body: body}
	if init != nil {
		body = &blockStmt{stmts: []stmt{init, body}}
	}
	return body
}

func (p *parser) ifStmt() stmt {
	p.consume(tkLeftParen, fmt.Errorf("Expect '(' after 'if'."))
	cond := p.expression()
	p.consume(tkRightParen, fmt.Errorf("Expect ')' after if condition."))

	st := &ifStmt{
		condition:  cond,
		thenBranch: p.statement(),
	}
	if p.match(tkElse) {
		st.elseBranch = p.statement()
	}
	return st
}

func (p *parser) printStmt() stmt {
	value := p.expression()
	p.consume(tkSemicolon, fmt.Errorf("Expect ';' after value."))
	return &printStmt{expression: value}
}

func (p *parser) ret() stmt {
	keyword := p.previous()
	var value expr
	if !p.check(tkSemicolon) {
		value = p.expression()
	}
	p.consume(tkSemicolon, fmt.Errorf("Expect ';' after return value."))
	return &returnStmt{
		keyword: keyword,
		value:   value,
	}
}

func (p *parser) while() stmt {
	p.consume(tkLeftParen, fmt.Errorf("Expect '(' after 'while'."))
	cond := p.expression()
	p.consume(tkRightParen, fmt.Errorf("Expect ')' after condition."))
	return &whileStmt{
		condition: cond,
		body:      p.statement(),
	}
}

func (p *parser) block() []stmt {
	stmts := make([]stmt, 0)
	for !p.check(tkRightBrace) && !p.isAtEnd() {
		if st := p.declaration(); st != nil {
			stmts = append(stmts, st)
		}
	}
	p.consume(tkRightBrace, errUnclosedBlock)
	return stmts
}

func (p *parser) expressionStmt() stmt {
	expr := p.expression()
	p.consume(tkSemicolon, errExpectedSemicolon)
	return &expressionStmt{expression: expr}
}

func (p *parser) expression() expr {
	return p.assignment()
}

func (p *parser) assignment() expr {
	expr := p.or()
	if p.match(tkEqual) {
		equal := p.previous()
		value := p.assignment()

		if variable, isVar := expr.(*variableExpr); isVar {
			return &assignExpr{
				name:  variable.name,
				value: value,
			}
		} else if get, isGet := expr.(*getExpr); isGet {
			return &setExpr{
				object: get.object,
				name:   get.name,
				value:  value,
			}
		}

		// Reported without synchronizing, the parser is not confused
		p.state.setError(errInvalidAssignTarget, equal)
	}
	return expr
}

func (p *parser) or() expr {
	expr := p.and()
	for p.match(tkOr) {
		operator := p.previous()
		right := p.and()
		expr = &logicalExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) and() expr {
	expr := p.equality()
	for p.match(tkAnd) {
		operator := p.previous()
		right := p.equality()
		expr = &logicalExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) equality() expr {
	return p.binary(p.comparison, tkEqualEqual, tkBangEqual)
}

func (p *parser) comparison() expr {
	return p.binary(p.addition, tkGreater, tkGreaterEqual, tkLess, tkLessEqual)
}

func (p *parser) addition() expr {
	return p.binary(p.multiplication, tkPlus, tkMinus)
}

func (p *parser) multiplication() expr {
	return p.binary(p.unary, tkSlash, tkStar)
}

// binary parses a left associative chain of operators sharing a precedence
func (p *parser) binary(operand func() expr, operators ...tokenType) expr {
	expr := operand()
	for p.match(operators...) {
		operator := p.previous()
		right := operand()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) unary() expr {
	if p.match(tkBang, tkMinus) {
		operator := p.previous()
		right := p.unary()
		return &unaryExpr{
			operator: operator,
			right:    right,
		}
	}
	return p.call()
}

func (p *parser) call() expr {
	expr := p.primary()
	for {
		if p.match(tkLeftParen) {
			expr = p.finishCall(expr)
		} else if p.match(tkDot) {
			name := p.consume(tkIdentifier, errExpectedPropName)
			expr = &getExpr{
				object: expr,
				name:   name,
			}
		} else {
			break
		}
	}
	return expr
}

func (p *parser) finishCall(callee expr) expr {
	arguments := make([]expr, 0)
	if !p.check(tkRightParen) {
		for {
			if len(arguments) >= maxFunctionParams {
				p.state.setError(errMaxArguments, p.peek())
			}
			arguments = append(arguments, p.expression())
			if !p.match(tkComma) {
				break
			}
		}
	}
	paren := p.consume(tkRightParen, errUnclosedArguments)
	return &callExpr{
		callee:    callee,
		paren:     paren,
		arguments: arguments,
	}
}

func (p *parser) primary() expr {
	if p.match(tkFalse) {
		return &literalExpr{value: false}
	}
	if p.match(tkTrue) {
		return &literalExpr{value: true}
	}
	if p.match(tkNil) {
		return &literalExpr{value: nil}
	}
	if p.match(tkInteger, tkFloat, tkString) {
		return &literalExpr{value: p.previous().literal}
	}
	if p.match(tkSuper) {
		keyword := p.previous()
		p.consume(tkDot, errExpectedSuperDot)
		return &superExpr{
			keyword: keyword,
			method:  p.consume(tkIdentifier, errExpectedSuperMethod),
		}
	}
	if p.match(tkThis) {
		return &thisExpr{keyword: p.previous()}
	}
	if p.match(tkIdentifier) {
		return &variableExpr{name: p.previous()}
	}
	if p.match(tkLeftParen) {
		expr := p.expression()
		p.consume(tkRightParen, errUnclosedParen)
		return &groupingExpr{expression: expr}
	}

	panic(p.error(errExpectExpression, p.peek()))
}

func (p *parser) consume(tk tokenType, err error) *token {
	if p.check(tk) {
		return p.advance()
	}
	panic(p.error(err, p.peek()))
}

func (p *parser) error(err error, tk *token) parseError {
	p.state.setError(err, tk)
	return parseError{err: err}
}

func (p *parser) advance() *token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) match(tokens ...tokenType) bool {
	for _, tk := range tokens {
		if p.check(tk) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(tk tokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().token == tk
}

func (p *parser) peek() *token {
	return &p.state.tokens[p.current]
}

func (p *parser) previous() *token {
	return &p.state.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().token == tkEOF
}

func (p *parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().token == tkSemicolon {
			return
		}
		switch p.peek().token {
		case tkClass, tkFun, tkVar, tkFor, tkIf, tkWhile, tkPrint, tkReturn:
			return
		}
		p.advance()
	}
}
