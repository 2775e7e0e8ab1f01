package lox

// thisToken is a reusable lookup key; Environment.Get only consults
// Lexeme, so the Type/Line fields are cosmetic here.
var thisToken = Token{Type: This, Lexeme: "this"}

// LoxFunction is a user-declared function or method: its declaration
// plus the environment that was active when it was declared (the
// closure). Mutating a variable the closure captured from inside the
// function is visible to every other holder of that same environment,
// since Environment is always shared by pointer.
type LoxFunction struct {
	Decl          *FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

func (f *LoxFunction) String() string { return "<fn " + f.Decl.Name.Lexeme + ">" }

func (f *LoxFunction) Arity() int { return len(f.Decl.Params) }

// Call binds each parameter in a fresh environment nested in the
// closure, then runs the body. A body that runs off the end without
// returning yields nil, unless this is an initializer, in which case
// the constructed instance (`this`) is always the result.
func (f *LoxFunction) Call(in *Interpreter, args []Object) (Object, error) {
	callEnv := NewEnvironment(f.Closure)
	for i, param := range f.Decl.Params {
		callEnv.Define(param.Lexeme, args[i])
	}

	for _, stmt := range f.Decl.Body {
		val, isReturn, err := stmt.Exec(in, callEnv)
		if err != nil {
			return nil, err
		}
		if isReturn {
			if f.IsInitializer {
				return f.Closure.Get(thisToken)
			}
			return val, nil
		}
	}

	if f.IsInitializer {
		return f.Closure.Get(thisToken)
	}
	return Nil, nil
}

// Bind produces a fresh LoxFunction whose closure is extended with one
// extra layer defining `this`. Each call to Bind is independent: reading
// `a.m` twice yields two distinct callables that compare unequal by
// identity, as the book's semantics require.
func (f *LoxFunction) Bind(instance *LoxInstance) *LoxFunction {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &LoxFunction{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

// LoxClass is a user-declared class: its method table and, if declared
// with `< Base`, the superclass to fall through to.
type LoxClass struct {
	Name       string
	Superclass *LoxClass
	Methods    map[string]*LoxFunction
}

func (c *LoxClass) String() string { return c.Name }

// FindMethod looks up name on c, then walks the superclass chain.
func (c *LoxClass) FindMethod(name string) *LoxFunction {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity is the arity of `init`, if the class (or an ancestor) declares
// one, or 0: a class with no initializer takes no constructor arguments.
func (c *LoxClass) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a fresh instance and, if an initializer exists, runs
// it bound to that instance before returning it.
func (c *LoxClass) Call(in *Interpreter, args []Object) (Object, error) {
	instance := &LoxInstance{Class: c, Fields: make(map[string]Object)}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// LoxInstance is an instance of a LoxClass, with a mutable field map
// shared by every reference to the same instance.
type LoxInstance struct {
	Class  *LoxClass
	Fields map[string]Object
}

func (i *LoxInstance) String() string { return i.Class.Name + " instance" }

// Get reads a field first, then falls through to a method lookup,
// returning a method bound to this instance. Reading an undefined
// name is a runtime error.
func (i *LoxInstance) Get(name Token) (Object, error) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if method := i.Class.FindMethod(name.Lexeme); method != nil {
		return method.Bind(i), nil
	}
	return nil, NewRuntimeError(name, "Undefined property '"+name.Lexeme+"'.")
}

// Set writes a field, creating it if it doesn't already exist.
func (i *LoxInstance) Set(name Token, value Object) {
	i.Fields[name.Lexeme] = value
}
