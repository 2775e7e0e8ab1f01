package lox

import (
	"fmt"
	"math"
	"strconv"
)

// Object is the tagged union of every Lox runtime value: Nil, Bool,
// Number, String, Callable (function, native, or class), and Instance.
// There is no internal variant for the Return sentinel used to unwind a
// function body; Stmt execution reports that out-of-band instead (see
// interpreter.go), so Object never carries anything but user-observable
// values.
type Object interface {
	// String renders the value the way `print` writes it to stdout.
	String() string
}

// LoxNil is the sole value of nil type. Its zero value is ready to use;
// Nil is the canonical instance every part of the interpreter shares.
type LoxNil struct{}

func (LoxNil) String() string { return "nil" }

// Nil is the single shared nil value.
var Nil Object = LoxNil{}

// LoxBool wraps a boolean. True and False are the only instances that
// should ever be constructed; callers use the package-level singletons.
type LoxBool struct{ Value bool }

func (b LoxBool) String() string { return strconv.FormatBool(b.Value) }

var (
	True  Object = LoxBool{true}
	False Object = LoxBool{false}
)

// BoolObject returns the shared True/False singleton for v.
func BoolObject(v bool) Object {
	if v {
		return True
	}
	return False
}

// LoxNumber is an IEEE-754 double.
type LoxNumber struct{ Value float64 }

func (n LoxNumber) String() string {
	switch {
	case math.IsNaN(n.Value):
		return "NaN"
	case math.IsInf(n.Value, 1):
		return "Infinity"
	case math.IsInf(n.Value, -1):
		return "-Infinity"
	default:
		// strconv drops the fractional part entirely for integral
		// values ("3", not "3.0"), which is exactly Lox's printing rule.
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	}
}

// NumberObject constructs a Number value.
func NumberObject(v float64) Object { return LoxNumber{v} }

// LoxString is an immutable run of text.
type LoxString struct{ Value string }

func (s LoxString) String() string { return s.Value }

// StringObject constructs a String value.
func StringObject(v string) Object { return LoxString{v} }

// Callable is anything invokable with call syntax: a user function, the
// `clock` native, or a class (whose call constructs an instance).
type Callable interface {
	Object
	Arity() int
	Call(in *Interpreter, args []Object) (Object, error)
}

// Truthy implements Lox's truthiness rule: nil and false are falsy,
// everything else, including 0 and the empty string, is truthy.
func Truthy(v Object) bool {
	switch val := v.(type) {
	case LoxNil:
		return false
	case LoxBool:
		return val.Value
	default:
		return true
	}
}

// Equal implements Lox's `==`. Cross-type comparisons are always
// unequal; numbers compare by IEEE value (so NaN != NaN); strings by
// content; functions/classes/instances by reference identity.
func Equal(a, b Object) bool {
	switch av := a.(type) {
	case LoxNil:
		_, ok := b.(LoxNil)
		return ok
	case LoxBool:
		bv, ok := b.(LoxBool)
		return ok && av.Value == bv.Value
	case LoxNumber:
		bv, ok := b.(LoxNumber)
		return ok && av.Value == bv.Value
	case LoxString:
		bv, ok := b.(LoxString)
		return ok && av.Value == bv.Value
	default:
		return a == b
	}
}

// typeName is used only in error messages.
func typeName(v Object) string {
	switch v.(type) {
	case LoxNil:
		return "nil"
	case LoxBool:
		return "boolean"
	case LoxNumber:
		return "number"
	case LoxString:
		return "string"
	case *LoxFunction, *NativeFunction:
		return "function"
	case *LoxClass:
		return "class"
	case *LoxInstance:
		return "instance"
	default:
		return fmt.Sprintf("%T", v)
	}
}
