package lox

import (
	"fmt"
	"io"
)

// Interpreter holds the state that survives across top-level statements:
// the global scope and the stream `print` writes to. The "current
// scope" is never stored on the Interpreter itself; every Exec/Eval
// method takes the scope it should run in as an explicit argument, so a
// single Interpreter can safely evaluate nested calls without a
// save/restore dance around a mutable field.
type Interpreter struct {
	Globals *Environment
	Stdout  io.Writer
}

// NewInterpreter creates an Interpreter with a fresh global scope
// pre-populated with the `clock` native function, writing `print` output
// to stdout.
func NewInterpreter(stdout io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", newClockFunction())
	return &Interpreter{Globals: globals, Stdout: stdout}
}

// Run executes a parsed program against the global scope. It returns the
// first RuntimeError encountered; a runtime error aborts the whole
// evaluation immediately.
func (in *Interpreter) Run(program *Program) error {
	for _, stmt := range program.Stmts {
		if _, isReturn, err := stmt.Exec(in, in.Globals); err != nil {
			return err
		} else if isReturn {
			// A `return` can only reach here if it escaped every
			// enclosing function call, which the parser rejects. Guard
			// against it anyway rather than silently dropping it.
			return NewRuntimeError(Token{Line: 0}, "return outside of a function body")
		}
	}
	return nil
}

// --- statement execution ---------------------------------------------

func (p *Program) Exec(in *Interpreter, env *Environment) (Object, bool, error) {
	for _, stmt := range p.Stmts {
		if v, ret, err := stmt.Exec(in, env); err != nil || ret {
			return v, ret, err
		}
	}
	return nil, false, nil
}

func (c *ClassStmt) Exec(in *Interpreter, env *Environment) (Object, bool, error) {
	var superclass *LoxClass
	if c.Superclass != nil {
		val, err := c.Superclass.Eval(in, env)
		if err != nil {
			return nil, false, err
		}
		sc, ok := val.(*LoxClass)
		if !ok {
			return nil, false, NewRuntimeError(c.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	// A placeholder lets methods reference the class by name before it
	// exists (mutual recursion between methods and the class itself).
	env.Define(c.Name.Lexeme, Nil)

	methodEnv := env
	if superclass != nil {
		methodEnv = NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*LoxFunction, len(c.Methods))
	for _, m := range c.Methods {
		methods[m.Name.Lexeme] = &LoxFunction{Decl: m, Closure: methodEnv, IsInitializer: m.IsInitializer}
	}

	class := &LoxClass{Name: c.Name.Lexeme, Superclass: superclass, Methods: methods}
	if err := env.Assign(c.Name, class); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (f *FunctionStmt) Exec(in *Interpreter, env *Environment) (Object, bool, error) {
	env.Define(f.Name.Lexeme, &LoxFunction{Decl: f, Closure: env})
	return nil, false, nil
}

func (v *VarStmt) Exec(in *Interpreter, env *Environment) (Object, bool, error) {
	value := Object(Nil)
	if v.Init != nil {
		val, err := v.Init.Eval(in, env)
		if err != nil {
			return nil, false, err
		}
		value = val
	}
	env.Define(v.Name.Lexeme, value)
	return nil, false, nil
}

func (e *ExpressionStmt) Exec(in *Interpreter, env *Environment) (Object, bool, error) {
	_, err := e.Expression.Eval(in, env)
	return nil, false, err
}

func (p *PrintStmt) Exec(in *Interpreter, env *Environment) (Object, bool, error) {
	val, err := p.Expression.Eval(in, env)
	if err != nil {
		return nil, false, err
	}
	fmt.Fprintln(in.Stdout, val.String())
	return nil, false, nil
}

func (r *ReturnStmt) Exec(in *Interpreter, env *Environment) (Object, bool, error) {
	val, err := r.Value.Eval(in, env)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (i *IfStmt) Exec(in *Interpreter, env *Environment) (Object, bool, error) {
	cond, err := i.Condition.Eval(in, env)
	if err != nil {
		return nil, false, err
	}
	if Truthy(cond) {
		return i.Then.Exec(in, env)
	}
	if i.Else != nil {
		return i.Else.Exec(in, env)
	}
	return nil, false, nil
}

func (w *WhileStmt) Exec(in *Interpreter, env *Environment) (Object, bool, error) {
	for {
		cond, err := w.Condition.Eval(in, env)
		if err != nil {
			return nil, false, err
		}
		if !Truthy(cond) {
			return nil, false, nil
		}
		if v, ret, err := w.Body.Exec(in, env); err != nil || ret {
			return v, ret, err
		}
	}
}

func (b *BlockStmt) Exec(in *Interpreter, env *Environment) (Object, bool, error) {
	child := NewEnvironment(env)
	for _, stmt := range b.Stmts {
		if v, ret, err := stmt.Exec(in, child); err != nil || ret {
			return v, ret, err
		}
	}
	return nil, false, nil
}

// --- expression evaluation ---------------------------------------------

func (a *AssignExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	val, err := a.Value.Eval(in, env)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(a.Name, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (s *SetExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	objVal, err := s.Object.Eval(in, env)
	if err != nil {
		return nil, err
	}
	instance, ok := objVal.(*LoxInstance)
	if !ok {
		return nil, NewRuntimeError(s.Name, "Only instances have fields.")
	}
	val, err := s.Value.Eval(in, env)
	if err != nil {
		return nil, err
	}
	instance.Set(s.Name, val)
	return val, nil
}

func (t *ThisExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	return env.Get(t.Keyword)
}

func (l *LogicalExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	left, err := l.Left.Eval(in, env)
	if err != nil {
		return nil, err
	}
	if l.Operator.Type == Or {
		if Truthy(left) {
			return left, nil
		}
	} else {
		if !Truthy(left) {
			return left, nil
		}
	}
	return l.Right.Eval(in, env)
}

func (u *UnaryExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	right, err := u.Right.Eval(in, env)
	if err != nil {
		return nil, err
	}
	switch u.Operator.Type {
	case Bang:
		return BoolObject(!Truthy(right)), nil
	case Minus:
		n, err := numberOperand(u.Operator, right)
		if err != nil {
			return nil, err
		}
		return NumberObject(-n), nil
	}
	panic("unreachable: unary operator " + u.Operator.Type.String())
}

func (b *BinaryExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	left, err := b.Left.Eval(in, env)
	if err != nil {
		return nil, err
	}
	right, err := b.Right.Eval(in, env)
	if err != nil {
		return nil, err
	}

	switch b.Operator.Type {
	case Plus:
		if ls, ok := left.(LoxString); ok {
			if rs, ok := right.(LoxString); ok {
				return StringObject(ls.Value + rs.Value), nil
			}
		}
		if ln, ok := left.(LoxNumber); ok {
			if rn, ok := right.(LoxNumber); ok {
				return NumberObject(ln.Value + rn.Value), nil
			}
		}
		return nil, NewRuntimeError(b.Operator, "Operands must be two numbers or two strings.")
	case Minus:
		l, r, err := numberOperands(b.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return NumberObject(l - r), nil
	case Star:
		l, r, err := numberOperands(b.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return NumberObject(l * r), nil
	case Slash:
		l, r, err := numberOperands(b.Operator, left, right)
		if err != nil {
			return nil, err
		}
		// Division by zero yields IEEE ±Inf/NaN, not an error.
		return NumberObject(l / r), nil
	case Greater:
		l, r, err := numberOperands(b.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return BoolObject(l > r), nil
	case GreaterEqual:
		l, r, err := numberOperands(b.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return BoolObject(l >= r), nil
	case Less:
		l, r, err := numberOperands(b.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return BoolObject(l < r), nil
	case LessEqual:
		l, r, err := numberOperands(b.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return BoolObject(l <= r), nil
	case EqualEqual:
		return BoolObject(Equal(left, right)), nil
	case BangEqual:
		return BoolObject(!Equal(left, right)), nil
	}
	panic("unreachable: binary operator " + b.Operator.Type.String())
}

func (g *GroupingExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	return g.Expression.Eval(in, env)
}

func (l *LiteralExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	return l.Value, nil
}

func (v *VariableExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	return env.Get(v.Name)
}

func (c *CallExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	callee, err := c.Callee.Eval(in, env)
	if err != nil {
		return nil, err
	}

	args := make([]Object, len(c.Arguments))
	for i, a := range c.Arguments {
		val, err := a.Eval(in, env)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, NewRuntimeError(c.Paren, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		return nil, NewRuntimeError(c.Paren, fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}
	return callable.Call(in, args)
}

func (g *GetExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	objVal, err := g.Object.Eval(in, env)
	if err != nil {
		return nil, err
	}
	instance, ok := objVal.(*LoxInstance)
	if !ok {
		return nil, NewRuntimeError(g.Name, "Only instances have properties.")
	}
	return instance.Get(g.Name)
}

func (s *SuperExpr) Eval(in *Interpreter, env *Environment) (Object, error) {
	superVal, err := env.Get(Token{Type: Super, Lexeme: "super", Line: s.Keyword.Line})
	if err != nil {
		return nil, err
	}
	superclass, ok := superVal.(*LoxClass)
	if !ok {
		return nil, NewRuntimeError(s.Keyword, "Superclass must be a class.")
	}

	thisVal, err := env.Get(Token{Type: This, Lexeme: "this", Line: s.Keyword.Line})
	if err != nil {
		return nil, err
	}
	instance := thisVal.(*LoxInstance)

	method := superclass.FindMethod(s.Method.Lexeme)
	if method == nil {
		return nil, NewRuntimeError(s.Method, "Undefined property '"+s.Method.Lexeme+"'.")
	}
	return method.Bind(instance), nil
}

// --- operand checks -----------------------------------------------------

func numberOperand(op Token, v Object) (float64, error) {
	n, ok := v.(LoxNumber)
	if !ok {
		return 0, NewRuntimeError(op, "Operand must be a number, got "+typeName(v)+".")
	}
	return n.Value, nil
}

func numberOperands(op Token, l, r Object) (float64, float64, error) {
	ln, lok := l.(LoxNumber)
	rn, rok := r.(LoxNumber)
	if !lok {
		return 0, 0, NewRuntimeError(op, "Operands must be numbers, got "+typeName(l)+".")
	}
	if !rok {
		return 0, 0, NewRuntimeError(op, "Operands must be numbers, got "+typeName(r)+".")
	}
	return ln.Value, rn.Value, nil
}
