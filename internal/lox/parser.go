package lox

// Parser is a recursive-descent parser. Two pieces of context ride along
// with the descent: classStack records, for each class body currently
// being parsed, whether it declared a superclass (so `this`/`super` can
// be validated where they're used), and funcStack records, for each
// function/method body currently being parsed, whether it is a class
// initializer (so a bare `return` is allowed everywhere but
// `return <value>` is rejected inside `init`).
type Parser struct {
	tokens  []Token
	current int
	errors  []error

	classStack []bool // true at index i if that class has a superclass
	funcStack  []funcContext
}

type funcContext struct {
	isInitializer bool
}

// Parse runs the parser to completion and returns every statement it
// managed to parse plus every error it recorded. A non-empty error
// slice means the caller must not proceed to interpretation. Like the
// scanner, parsing always runs to EOF, so every syntax error in the file
// is reported in one pass.
func Parse(tokens []Token) (*Program, []error) {
	p := &Parser{tokens: tokens}
	var stmts []Stmt
	for !p.atEnd() {
		if stmt := p.declarationSafe(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return &Program{Stmts: stmts}, p.errors
}

// declarationSafe parses one declaration, recovering via synchronize if
// a ParseError unwinds through it. This is the panic-mode recovery
// boundary, present both at the top level and at the top of every block
// (see blockStmts).
func (p *Parser) declarationSafe() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*ParseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.declaration()
}

func (p *Parser) declaration() Stmt {
	switch {
	case p.match(Class):
		return p.classDecl()
	case p.match(Fun):
		return p.function("function")
	case p.match(Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() Stmt {
	name := p.consume(Identifier, "Expect class name.")

	var superclass *VariableExpr
	hasSuperclass := false
	if p.match(Less) {
		p.consume(Identifier, "Expect superclass name.")
		if p.previous().Lexeme == name.Lexeme {
			p.semanticError(p.previous(), "A class can't inherit from itself.")
		}
		superclass = &VariableExpr{Name: p.previous()}
		hasSuperclass = true
	}

	p.consume(LeftBrace, "Expect '{' before class body.")

	p.classStack = append(p.classStack, hasSuperclass)
	var methods []*FunctionStmt
	for !p.check(RightBrace) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}
	p.classStack = p.classStack[:len(p.classStack)-1]

	p.consume(RightBrace, "Expect '}' after class body.")

	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods}
}

// function parses both `funDecl`'s function production and a class's
// method production. They're the same grammar, differing only in the
// word used in error messages and in whether a method named `init` is
// flagged as an initializer.
func (p *Parser) function(kind string) *FunctionStmt {
	name := p.consume(Identifier, "Expect "+kind+" name.")
	p.consume(LeftParen, "Expect '(' after "+kind+" name.")

	var params []Token
	if !p.check(RightParen) {
		for {
			if len(params) >= 255 {
				p.semanticError(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(Identifier, "Expect parameter name."))
			if !p.match(Comma) {
				break
			}
		}
	}
	p.consume(RightParen, "Expect ')' after parameters.")

	isInitializer := kind == "method" && name.Lexeme == "init"
	p.consume(LeftBrace, "Expect '{' before "+kind+" body.")
	p.funcStack = append(p.funcStack, funcContext{isInitializer: isInitializer})
	body := p.blockStmts()
	p.funcStack = p.funcStack[:len(p.funcStack)-1]

	return &FunctionStmt{Name: name, Params: params, Body: body, IsInitializer: isInitializer}
}

func (p *Parser) varDecl() Stmt {
	name := p.consume(Identifier, "Expect variable name.")
	var init Expr
	if p.match(Equal) {
		init = p.expression()
	}
	p.consume(Semicolon, "Expect ';' after variable declaration.")
	return &VarStmt{Name: name, Init: init}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.match(For):
		return p.forStmt()
	case p.match(If):
		return p.ifStmt()
	case p.match(Print):
		return p.printStmt()
	case p.match(Return):
		return p.returnStmt()
	case p.match(While):
		return p.whileStmt()
	case p.match(LeftBrace):
		return &BlockStmt{Stmts: p.blockStmts()}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) blockStmts() []Stmt {
	var stmts []Stmt
	for !p.check(RightBrace) && !p.atEnd() {
		if stmt := p.declarationSafe(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(RightBrace, "Expect '}' after block.")
	return stmts
}

func (p *Parser) exprStmt() Stmt {
	expr := p.expression()
	p.consume(Semicolon, "Expect ';' after expression.")
	return &ExpressionStmt{Expression: expr}
}

func (p *Parser) printStmt() Stmt {
	expr := p.expression()
	p.consume(Semicolon, "Expect ';' after value.")
	return &PrintStmt{Expression: expr}
}

func (p *Parser) returnStmt() Stmt {
	keyword := p.previous()
	if len(p.funcStack) == 0 {
		p.semanticError(keyword, "Can't return from top-level code.")
	}

	value := Expr(&LiteralExpr{Value: Nil})
	if !p.check(Semicolon) {
		value = p.expression()
		if len(p.funcStack) > 0 && p.funcStack[len(p.funcStack)-1].isInitializer {
			p.semanticError(keyword, "Can't return a value from an initializer.")
		}
	}
	p.consume(Semicolon, "Expect ';' after return value.")
	return &ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) ifStmt() Stmt {
	p.consume(LeftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(RightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch Stmt
	if p.match(Else) {
		elseBranch = p.statement()
	}
	return &IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) whileStmt() Stmt {
	p.consume(LeftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(RightParen, "Expect ')' after condition.")
	body := p.statement()
	return &WhileStmt{Condition: condition, Body: body}
}

// forStmt desugars `for` into a while loop wrapped in a block; there is
// no ForStmt AST node or runtime support for `for`.
func (p *Parser) forStmt() Stmt {
	p.consume(LeftParen, "Expect '(' after 'for'.")

	var initializer Stmt
	switch {
	case p.match(Semicolon):
		initializer = nil
	case p.match(Var):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var condition Expr
	if !p.check(Semicolon) {
		condition = p.expression()
	}
	p.consume(Semicolon, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(RightParen) {
		increment = p.expression()
	}
	p.consume(RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &BlockStmt{Stmts: []Stmt{body, &ExpressionStmt{Expression: increment}}}
	}
	if condition == nil {
		condition = &LiteralExpr{Value: True}
	}
	body = &WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = &BlockStmt{Stmts: []Stmt{initializer, body}}
	}
	return body
}

func (p *Parser) expression() Expr {
	return p.assignment()
}

// assignment parses the left side as an ordinary expression first, then
// decides what kind of assignment (if any) it is once `=` is in view.
// An invalid target is reported without consuming the `=`, so the
// caller sees it as unparsed input.
func (p *Parser) assignment() Expr {
	expr := p.or_()

	if p.check(Equal) {
		equals := p.peek()
		switch target := expr.(type) {
		case *VariableExpr:
			p.advance()
			value := p.assignment()
			return &AssignExpr{Name: target.Name, Value: value}
		case *GetExpr:
			p.advance()
			value := p.assignment()
			return &SetExpr{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.semanticError(equals, "Invalid assignment target.")
			return expr
		}
	}

	return expr
}

func (p *Parser) or_() Expr {
	expr := p.and_()
	for p.match(Or) {
		op := p.previous()
		right := p.and_()
		expr = &LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) and_() Expr {
	expr := p.equality()
	for p.match(And) {
		op := p.previous()
		right := p.equality()
		expr = &LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.match(BangEqual, EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() Expr {
	expr := p.term()
	for p.match(Greater, GreaterEqual, Less, LessEqual) {
		op := p.previous()
		right := p.term()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) term() Expr {
	expr := p.factor()
	for p.match(Minus, Plus) {
		op := p.previous()
		right := p.factor()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() Expr {
	expr := p.unary()
	for p.match(Slash, Star) {
		op := p.previous()
		right := p.unary()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.match(Bang, Minus) {
		op := p.previous()
		right := p.unary()
		return &UnaryExpr{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(LeftParen):
			expr = p.finishCall(expr)
		case p.match(Dot):
			name := p.consume(Identifier, "Expect property name after '.'.")
			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(RightParen) {
		for {
			if len(args) >= 255 {
				p.semanticError(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(Comma) {
				break
			}
		}
	}
	paren := p.consume(RightParen, "Expect ')' after arguments.")
	return &CallExpr{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(False):
		return &LiteralExpr{Value: False}
	case p.match(True):
		return &LiteralExpr{Value: True}
	case p.match(Nil):
		return &LiteralExpr{Value: Nil}
	case p.match(Number, String):
		return &LiteralExpr{Value: p.previous().Literal}
	case p.match(This):
		if len(p.classStack) == 0 {
			p.semanticError(p.previous(), "Can't use 'this' outside of a class.")
		}
		return &ThisExpr{Keyword: p.previous()}
	case p.match(Super):
		keyword := p.previous()
		if len(p.classStack) == 0 {
			p.semanticError(keyword, "Can't use 'super' outside of a class.")
		} else if !p.classStack[len(p.classStack)-1] {
			p.semanticError(keyword, "Can't use 'super' in a class with no superclass.")
		}
		p.consume(Dot, "Expect '.' after 'super'.")
		method := p.consume(Identifier, "Expect superclass method name.")
		return &SuperExpr{Keyword: keyword, Method: method}
	case p.match(Identifier):
		return &VariableExpr{Name: p.previous()}
	case p.match(LeftParen):
		expr := p.expression()
		p.consume(RightParen, "Expect ')' after expression.")
		return &GroupingExpr{Expression: expr}
	default:
		panic(p.fail(p.peek(), "Expect expression."))
	}
}

// --- token-stream helpers ------------------------------------------------

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past the current token if it has type t, or raises a
// ParseError that unwinds to the nearest declarationSafe boundary.
func (p *Parser) consume(t TokenType, message string) Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.fail(p.peek(), message))
}

func (p *Parser) check(t TokenType) bool {
	return !p.atEnd() && p.peek().Type == t
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool { return p.peek().Type == EOF }

func (p *Parser) peek() Token { return p.tokens[p.current] }

func (p *Parser) previous() Token { return p.tokens[p.current-1] }

// fail records a ParseError and returns it for the caller to panic with,
// triggering synchronize at the nearest declarationSafe.
func (p *Parser) fail(tok Token, message string) *ParseError {
	err := &ParseError{Token: tok, Message: message}
	p.errors = append(p.errors, err)
	return err
}

// semanticError records an error without unwinding the parse. Used for
// checks that don't correspond to a malformed token stream (arity
// limits, this/super/return scoping), where parsing can simply continue.
func (p *Parser) semanticError(tok Token, message string) {
	p.errors = append(p.errors, &ParseError{Token: tok, Message: message})
}

// synchronize discards tokens until it finds a plausible statement
// boundary: the token after a consumed ';', or a statement-starting
// keyword.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == Semicolon {
			return
		}
		switch p.peek().Type {
		case Class, Fun, Var, For, If, While, Print, Return:
			return
		}
		p.advance()
	}
}
