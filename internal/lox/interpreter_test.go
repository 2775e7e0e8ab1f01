package lox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSource scans, parses, and interprets src against a fresh Interpreter,
// capturing everything `print` wrote. It fails the test immediately on any
// scan, parse, or runtime error.
func runSource(t *testing.T, src string) string {
	t.Helper()
	tokens, errs := NewScanner(src).Scan()
	require.Empty(t, errs)

	program, errs := Parse(tokens)
	require.Empty(t, errs, "parse errors: %v", errs)

	var out strings.Builder
	in := NewInterpreter(&out)
	require.NoError(t, in.Run(program))
	return out.String()
}

func runSourceErr(t *testing.T, src string) error {
	t.Helper()
	tokens, errs := NewScanner(src).Scan()
	require.Empty(t, errs)
	program, errs := Parse(tokens)
	require.Empty(t, errs)

	var out strings.Builder
	in := NewInterpreter(&out)
	return in.Run(program)
}

func TestInterpretArithmeticAndPrint(t *testing.T) {
	out := runSource(t, `print 1 + 2 * 3;`)
	assert.Equal(t, "7\n", out)
}

func TestInterpretStringConcatenation(t *testing.T) {
	out := runSource(t, `print "foo" + "bar";`)
	assert.Equal(t, "foobar\n", out)
}

func TestInterpretMixedPlusOperandsIsRuntimeError(t *testing.T) {
	err := runSourceErr(t, `print "foo" + 1;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands must be two numbers or two strings.")
}

func TestInterpretDivisionByZeroYieldsInfinity(t *testing.T) {
	out := runSource(t, `print 1 / 0;`)
	assert.Equal(t, "Infinity\n", out)
}

func TestInterpretVariableScoping(t *testing.T) {
	out := runSource(t, `
		var a = "global";
		{
			var a = "local";
			print a;
		}
		print a;
	`)
	assert.Equal(t, "local\nglobal\n", out)
}

func TestInterpretWhileLoop(t *testing.T) {
	out := runSource(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpretForLoop(t *testing.T) {
	out := runSource(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpretClosureCapturesByReference(t *testing.T) {
	out := runSource(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInterpretRecursion(t *testing.T) {
	out := runSource(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	assert.Equal(t, "55\n", out)
}

func TestInterpretClassFieldsAndMethods(t *testing.T) {
	out := runSource(t, `
		class Greeter {
			init(name) {
				this.name = name;
			}
			greet() {
				print "Hello, " + this.name + "!";
			}
		}
		var g = Greeter("world");
		g.greet();
	`)
	assert.Equal(t, "Hello, world!\n", out)
}

func TestInterpretInitAlwaysReturnsInstanceEvenWithBareReturn(t *testing.T) {
	out := runSource(t, `
		class Thing {
			init() {
				this.ready = true;
				return;
			}
		}
		var t = Thing();
		print t.ready;
	`)
	assert.Equal(t, "true\n", out)
}

func TestInterpretInheritanceAndSuper(t *testing.T) {
	out := runSource(t, `
		class Animal {
			speak() {
				print "...";
			}
			describe() {
				print "An animal says:";
				this.speak();
			}
		}
		class Dog < Animal {
			speak() {
				print "Woof";
			}
			describe() {
				super.describe();
				print "(it's a dog)";
			}
		}
		Dog().describe();
	`)
	assert.Equal(t, "An animal says:\nWoof\n(it's a dog)\n", out)
}

func TestInterpretMethodBindingIsPerReference(t *testing.T) {
	out := runSource(t, `
		class Box {
			init(v) { this.v = v; }
			get() { return this.v; }
		}
		var a = Box(1);
		var b = Box(2);
		var getA = a.get;
		var getB = b.get;
		print getA();
		print getB();
	`)
	assert.Equal(t, "1\n2\n", out)
}

func TestInterpretUndefinedVariableIsRuntimeError(t *testing.T) {
	err := runSourceErr(t, `print undefined_name;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable")
}

func TestInterpretCallingNonCallableIsRuntimeError(t *testing.T) {
	err := runSourceErr(t, `
		var x = 1;
		x();
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes.")
}

func TestInterpretWrongArityIsRuntimeError(t *testing.T) {
	err := runSourceErr(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1.")
}

func TestInterpretSuperclassMustBeAClass(t *testing.T) {
	err := runSourceErr(t, `
		var NotAClass = 1;
		class Foo < NotAClass {}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Superclass must be a class.")
}

func TestInterpretClockDoesNotGoBackwards(t *testing.T) {
	out := runSource(t, `
		var a = clock();
		var b = clock();
		print b >= a;
	`)
	assert.Equal(t, "true\n", out)
}

func TestInterpretLogicalOperatorsShortCircuitAndReturnOperand(t *testing.T) {
	out := runSource(t, `
		print nil or "default";
		print "first" and "second";
		print false and "unreached";
	`)
	assert.Equal(t, "default\nsecond\nfalse\n", out)
}

func TestInterpretEqualityAcrossTypesIsAlwaysFalse(t *testing.T) {
	out := runSource(t, `
		print 1 == "1";
		print nil == false;
	`)
	assert.Equal(t, "false\nfalse\n", out)
}
