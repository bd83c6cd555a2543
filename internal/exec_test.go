package internal

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

type testPrinter struct {
	printed string
	errors  string
}

func (t *testPrinter) Println(a ...interface{}) (n int, err error) {
	for i, e := range a {
		if i != 0 {
			t.printed += " "
		}
		t.printed += fmt.Sprintf("%v", e)
	}
	t.printed += "\n"
	return 0, nil
}

func (t *testPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	t.errors += fmt.Sprintf(format, a...)
	return 0, nil
}

func (t *testPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	t.errors += fmt.Sprintln(a...)
	return 0, nil
}

func (t *testPrinter) Equals(p string) bool {
	return t.printed == p
}

func (t *testPrinter) Reset() {
	t.printed = ""
	t.errors = ""
}

func newTestInterpreter(tp *testPrinter) *Interpreter {
	logger, _ := test.NewNullLogger()
	return NewInterpreter(tp, WithLogger(logger), WithErrorWriter(io.Discard))
}

func runSource(source string) (*testPrinter, Status) {
	tp := &testPrinter{}
	status := newTestInterpreter(tp).Run(source)
	return tp, status
}

func checkExpression(t *testing.T, exp string, result string) {
	t.Helper()
	tp, status := runSource("print " + exp + ";")
	if status != StatusOK || !tp.Equals(result+"\n") {
		t.Errorf(
			"Error on: \n%s\n\tResult should be equal to %s instead of %s%s",
			exp,
			result,
			tp.printed,
			tp.errors,
		)
	}
}

func checkStatements(t *testing.T, code string, lines ...string) {
	t.Helper()
	tp, status := runSource(code)
	expected := strings.Join(lines, "\n") + "\n"
	if status != StatusOK || !tp.Equals(expected) {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s----\nFound:\n----\n%s%s----",
			code,
			expected,
			tp.printed,
			tp.errors,
		)
	}
}

func checkErrorMsg(t *testing.T, source string, errorMsg string, line int) {
	t.Helper()
	result := fmt.Sprintf("%s\n[line %d]\n", errorMsg, line)

	tp, status := runSource(source)
	if status != StatusRuntimeError || tp.errors != result {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s----\nFound:\n----\n%s----",
			source,
			result,
			tp.errors,
		)
	}
}

func checkStaticError(t *testing.T, source string, errorMsg string) {
	t.Helper()
	tp, status := runSource(source)
	if status != StatusStaticError || tp.errors != errorMsg+"\n" {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s\n----\nFound:\n----\n%s----",
			source,
			errorMsg,
			tp.errors,
		)
	}
	if tp.printed != "" {
		t.Errorf("Program with static errors should not run, printed %q", tp.printed)
	}
}

func TestExpressions(t *testing.T) {

	// Arithmetic
	{
		checkExpression(t, "1", "1")
		checkExpression(t, "-1", "-1")
		checkExpression(t, "-1.5", "-1.5")
		checkExpression(t, "1 + 2", "3")
		checkExpression(t, "1 + 2.0", "3.0")
		checkExpression(t, "1.5 + 1.5", "3.0")
		checkExpression(t, "8 - 2", "6")
		checkExpression(t, "8 - 2.5", "5.5")
		checkExpression(t, "2.5 * 2", "5.0")
		checkExpression(t, "1 * 2 * 3", "6")
		checkExpression(t, "7 / 2", "3")
		checkExpression(t, "7.0 / 2", "3.5")
		checkExpression(t, "(1 + 2) * 3", "9")
		checkExpression(t, "-(2 - 5)", "3")
	}

	// Strings
	{
		checkExpression(t, `"te" + "st"`, "test")
		checkExpression(t, `"a" + 1`, "a1")
		checkExpression(t, `1 + "a"`, "1a")
		checkExpression(t, `"a" + 1.5`, "a1.5")
		checkExpression(t, `"x" + nil`, "xnil")
		checkExpression(t, `"x" + true`, "xtrue")
	}

	// Comparisons
	{
		checkExpression(t, "1 < 2", "true")
		checkExpression(t, "1 < 1.5", "true")
		checkExpression(t, "2 >= 2.0", "true")
		checkExpression(t, "2 > 2", "false")
		checkExpression(t, "3 <= 2", "false")
		checkExpression(t, "1 == 1", "true")
		checkExpression(t, "1 != 2", "true")
		checkExpression(t, "1 == 1.0", "false")
		checkExpression(t, "nil == nil", "true")
		checkExpression(t, "nil == false", "false")
		checkExpression(t, `"a" == "a"`, "true")
		checkExpression(t, `"a" != "b"`, "true")
	}

	// Logical
	{
		checkExpression(t, "true", "true")
		checkExpression(t, "nil", "nil")
		checkExpression(t, "!nil", "true")
		checkExpression(t, "!false", "true")
		checkExpression(t, "!0", "false")
		checkExpression(t, "!0.0", "false")
		checkExpression(t, `!""`, "false")
		checkExpression(t, "nil or 3", "3")
		checkExpression(t, `nil or "x"`, "x")
		checkExpression(t, "false and 1", "false")
		checkExpression(t, "1 and 2", "2")
		checkExpression(t, "1 or undefined", "1")
		checkExpression(t, "nil and undefined", "nil")
	}
}

func TestTruthiness(t *testing.T) {
	for _, value := range []string{"0", "0.0", `""`, "clock"} {
		checkStatements(t, "if ("+value+") print \"yes\"; else print \"no\";", "yes")
	}
	for _, value := range []string{"nil", "false"} {
		checkStatements(t, "if ("+value+") print \"yes\"; else print \"no\";", "no")
	}
}

func TestStatements(t *testing.T) {
	// Block shadowing
	checkStatements(t, `var a = "x"; { var a = "y"; print a; } print a;`, "y", "x")

	// Explicit nil is a value, not an uninitialised variable
	checkStatements(t, `var a = nil; print a; { var b = nil; print b; }`, "nil", "nil")

	// Assignment is an expression
	checkStatements(t, `var a; var b; a = b = 3; print a; print b;`, "3", "3")

	// While
	checkStatements(t, `var i = 0; while (i < 3) { print i; i = i + 1; }`, "0", "1", "2")

	// For
	checkStatements(t, `for (var i = 0; i < 3; i = i + 1) print i;`, "0", "1", "2")
	checkStatements(t, `var i = 10; for (; i > 8;) i = i - 1; print i;`, "8")

	// If / else
	checkStatements(t, `if (1 > 2) print "a"; else if (2 > 1) print "b"; else print "c";`, "b")
}

func TestFunctions(t *testing.T) {
	checkStatements(t, `fun f() {} print f(); print f;`, "nil", "<fn f>")

	checkStatements(t, `
	fun fib(n) {
		if (n < 2) return n;
		return fib(n - 1) + fib(n - 2);
	}
	print fib(15);
	`, "610")

	// Return unwinds loops and blocks
	checkStatements(t, `
	fun f() {
		var i = 0;
		while (true) {
			{
				if (i == 3) return i;
			}
			i = i + 1;
		}
	}
	print f();
	`, "3")

	// Bare return yields nil
	checkStatements(t, `fun f() { return; print "unreachable"; } print f();`, "nil")
}

func TestClosures(t *testing.T) {
	checkStatements(t, `
	fun counter() {
		var c = 0;
		fun inc() {
			c = c + 1;
			return c;
		}
		return inc;
	}
	var f = counter();
	print f();
	print f();
	`, "1", "2")

	// Independent captured state
	checkStatements(t, `
	fun counter() {
		var c = 0;
		fun inc() {
			c = c + 1;
			return c;
		}
		return inc;
	}
	var a = counter();
	var b = counter();
	a();
	a();
	print a();
	print b();
	`, "3", "1")

	// Resolution is static: a later shadowing declaration is not seen
	checkStatements(t, `
	var a = "global";
	{
		fun showA() {
			print a;
		}
		showA();
		var a = "block";
		showA();
		print a;
	}
	`, "global", "global", "block")
}

func TestClasses(t *testing.T) {
	checkStatements(t, `class A {} print A; print A();`, "A", "A instance")

	// Fields are created on assignment
	checkStatements(t, `
	class Point {}
	var p = Point();
	p.x = 1;
	p.y = 2.5;
	print p.x + p.y;
	`, "3.5")

	// Methods see this
	checkStatements(t, `
	class Greeter {
		greet() {
			return "hi " + this.name;
		}
	}
	var g = Greeter();
	g.name = "bob";
	print g.greet();
	var m = g.greet;
	g.name = "ann";
	print m();
	`, "hi bob", "hi ann")

	// Fields shadow methods
	checkStatements(t, `
	class A {
		m() { return "method"; }
	}
	var a = A();
	print a.m();
	a.m = "field";
	print a.m;
	`, "method", "field")

	// Class name is usable inside its own methods
	checkStatements(t, `
	class Node {
		make() { return Node(); }
	}
	print Node().make();
	`, "Node instance")
}

func TestInitializers(t *testing.T) {
	checkStatements(t, `
	class P {
		init(x) {
			this.x = x;
			return;
		}
	}
	var p = P(3);
	print p.x;
	print p.init(4) == p;
	print p.x;
	`, "3", "true", "4")

	// Inherited initializer
	checkStatements(t, `
	class A {
		init(v) { this.v = v; }
	}
	class B < A {}
	print B(7).v;
	`, "7")

	checkErrorMsg(t, `class A { init(a, b) {} } A(1);`, "Expected 2 arguments but got 1.", 1)
	checkErrorMsg(t, `class A {} A(1);`, "Expected 0 arguments but got 1.", 1)
}

func TestInheritance(t *testing.T) {
	checkStatements(t, `
	class A {
		name() { return "A"; }
		who() { return "I am " + this.name(); }
	}
	class B < A {
		name() { return "B"; }
	}
	print B().who();
	`, "I am B")

	checkStatements(t, `
	class A {
		method() { return "A method on " + this.tag; }
	}
	class B < A {
		method() { return "B then " + super.method(); }
	}
	class C < B {}
	var c = C();
	c.tag = "c";
	print c.method();
	`, "B then A method on c")

	// super is bound to the class declaring the method, not the instance's class
	checkStatements(t, `
	class A { say() { print "A"; } }
	class B < A { say() { super.say(); print "B"; } }
	class C < B { say() { super.say(); print "C"; } }
	C().say();
	`, "A", "B", "C")
}

func TestRuntimeErrors(t *testing.T) {
	checkErrorMsg(t, `print 1 / 0;`, "Divide by zero error.", 1)
	checkErrorMsg(t, `print 1.0 / 0.0;`, "Divide by zero error.", 1)
	checkErrorMsg(t, `print 1 / 0.0;`, "Divide by zero error.", 1)
	checkErrorMsg(t, `print -"a";`, "Operand must be a number.", 1)
	checkErrorMsg(t, `print "a" - 1;`, "Operands must be numbers.", 1)
	checkErrorMsg(t, `print 1 < "a";`, "Operands must be numbers.", 1)
	checkErrorMsg(t, `print true + 1;`, "Operands must be two numbers or two strings.", 1)
	checkErrorMsg(t, `"a"();`, "Can only call functions and classes.", 1)
	checkErrorMsg(t, `fun f(a, b) {} f(1);`, "Expected 2 arguments but got 1.", 1)
	checkErrorMsg(t, `print x;`, "Undefined variable 'x'.", 1)
	checkErrorMsg(t, `x = 1;`, "Undefined variable 'x'.", 1)
	checkErrorMsg(t, `{ var hidden = 1; } print hidden;`, "Undefined variable 'hidden'.", 1)
	checkErrorMsg(t, `for (var i = 0; i < 1; i = i + 1) {} print i;`, "Undefined variable 'i'.", 1)
	checkErrorMsg(t, `var a; print a;`, "Uninitialised variable 'a'.", 1)
	checkErrorMsg(t, `{ var a; print a; }`, "Uninitialised variable 'a'.", 1)
	checkErrorMsg(t, `var a = 1; print a.x;`, "Only instances have properties.", 1)
	checkErrorMsg(t, `var a = 1; a.x = 2;`, "Only instances have fields.", 1)
	checkErrorMsg(t, `class A {} A().x;`, "Undefined property 'x'.", 1)
	checkErrorMsg(t, `var NotClass = 1; class B < NotClass {}`, "Superclass must be a class.", 1)
	checkErrorMsg(t, `
	class A {}
	class B < A {
		m() { return super.missing(); }
	}
	B().m();
	`, "Undefined property 'missing'.", 4)

	// Line numbers follow the source
	checkErrorMsg(t, "print 1;\nprint 2;\nprint x;", "Undefined variable 'x'.", 3)
}

func TestRuntimeErrorIsFatal(t *testing.T) {
	tp, status := runSource("print 1;\nprint x;\nprint 2;")
	if status != StatusRuntimeError {
		t.Errorf("Expected runtime error status, got %v", status)
	}
	if !tp.Equals("1\n") {
		t.Errorf("Execution should stop at the first runtime error, printed %q", tp.printed)
	}
}

func TestNatives(t *testing.T) {
	checkExpression(t, "type(1)", "int")
	checkExpression(t, "type(1.0)", "float")
	checkExpression(t, `type("")`, "string")
	checkExpression(t, "type(nil)", "nil")
	checkExpression(t, "type(true)", "bool")
	checkExpression(t, "type(clock)", "function")
	checkExpression(t, "clock", "<native fn>")
	checkExpression(t, "str(2.0) + \"!\"", "2.0!")
	checkStatements(t, `class A {} print type(A); print type(A());`, "class", "instance")

	t.Setenv("PIKL_TEST_VAR", "value")
	checkExpression(t, `env("PIKL_TEST_VAR")`, "value")
	checkExpression(t, `env("PIKL_TEST_VAR_UNSET_123")`, "nil")
	checkErrorMsg(t, `env(1);`, "Expected string argument.", 1)
	checkErrorMsg(t, `clock(1);`, "Expected 0 arguments but got 1.", 1)

	tp := &testPrinter{}
	logger, _ := test.NewNullLogger()
	interp := NewInterpreter(tp, WithLogger(logger), WithClock(func() time.Time {
		return time.Unix(1700000000, 500000000)
	}))
	if status := interp.Run("print clock();"); status != StatusOK || !tp.Equals("1700000000.5\n") {
		t.Errorf("clock() should use the injected time, got %q", tp.printed)
	}
}
