package lox

import "time"

// NativeFunction wraps a Go function as a Lox-callable value. It's the
// extension point for built-ins implemented in Go rather than Lox;
// clock is the only one defined.
type NativeFunction struct {
	Name string
	Args int
	Fn   func(in *Interpreter, args []Object) (Object, error)
}

func (n *NativeFunction) String() string { return "<native fn>" }
func (n *NativeFunction) Arity() int     { return n.Args }
func (n *NativeFunction) Call(in *Interpreter, args []Object) (Object, error) {
	return n.Fn(in, args)
}

// newClockFunction returns the `clock` native: seconds (fractional)
// since the Unix epoch.
func newClockFunction() *NativeFunction {
	return &NativeFunction{
		Name: "clock",
		Args: 0,
		Fn: func(in *Interpreter, args []Object) (Object, error) {
			return NumberObject(float64(time.Now().UnixNano()) / float64(time.Second)), nil
		},
	}
}
