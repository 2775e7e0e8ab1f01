package lox

// Environment is a single scope: a name-to-value map plus a reference to
// the enclosing scope it was opened in. Environments form a tree, not a
// stack: a function's closure keeps its defining environment alive for
// as long as the function value itself is reachable, even after the
// block that created it has returned.
type Environment struct {
	enclosing *Environment
	values    map[string]Object
}

// NewEnvironment opens a scope nested inside enclosing. Pass nil to
// create the single global scope.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		enclosing: enclosing,
		values:    make(map[string]Object),
	}
}

// Define binds name to value in this scope, unconditionally. Redefining
// a name already bound in this exact scope silently replaces it: Lox
// allows `var x = 1; var x = 2;` both at global and local scope.
func (e *Environment) Define(name string, value Object) {
	e.values[name] = value
}

// Get walks the enclosing chain for the innermost binding of name.
func (e *Environment) Get(name Token) (Object, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, NewRuntimeError(name, "Undefined variable '"+name.Lexeme+"'.")
}

// Assign finds the innermost scope that already binds name and updates
// it there. Unlike Define, it never creates a new binding: assigning to
// an undeclared name is a runtime error.
func (e *Environment) Assign(name Token, value Object) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}
	return NewRuntimeError(name, "Undefined variable '"+name.Lexeme+"'.")
}
