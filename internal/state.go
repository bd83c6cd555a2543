package internal

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// DiagnosticKind tells which stage of the pipeline reported an error
type DiagnosticKind int

const (
	// LexicalError is reported while scanning
	LexicalError DiagnosticKind = iota
	// SyntaxError is reported while parsing
	SyntaxError
	// StaticError is reported while resolving
	StaticError
	// RuntimeError is reported while evaluating
	RuntimeError
)

func (k DiagnosticKind) String() string {
	switch k {
	case LexicalError:
		return "lexical"
	case SyntaxError:
		return "syntax"
	case StaticError:
		return "static"
	case RuntimeError:
		return "runtime"
	}
	return "unknown"
}

// Diagnostic is an error reported to the user
type Diagnostic struct {
	Kind    DiagnosticKind
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	if d.Kind == RuntimeError {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// interpreterState stores the state of a single run
type interpreterState struct {
	source      string
	tokens      []token
	stmts       []stmt
	diagnostics []Diagnostic

	logger logrus.FieldLogger
}

func newInterpreterState(source string, logger logrus.FieldLogger) *interpreterState {
	return &interpreterState{
		source:      source,
		diagnostics: make([]Diagnostic, 0),
		logger:      logger,
	}
}

func (s *interpreterState) report(d Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
	s.logger.WithFields(logrus.Fields{
		"kind": d.Kind.String(),
		"line": d.Line,
	}).Info(d.Message)
}

func (s *interpreterState) lexError(err error, line int) {
	s.report(Diagnostic{
		Kind:    LexicalError,
		Line:    line,
		Message: err.Error(),
	})
}

func (s *interpreterState) tokenError(kind DiagnosticKind, err error, tk *token) {
	where := fmt.Sprintf(" at '%s'", tk.lexeme)
	if tk.token == tkEOF {
		where = " at end"
	}
	s.report(Diagnostic{
		Kind:    kind,
		Line:    tk.line,
		Where:   where,
		Message: err.Error(),
	})
}

func (s *interpreterState) setError(err error, tk *token) {
	s.tokenError(SyntaxError, err, tk)
}

func (s *interpreterState) staticError(err error, tk *token) {
	s.tokenError(StaticError, err, tk)
}

func (s *interpreterState) runtimeError(err error) {
	line := 0
	var runErr *runtimeError
	if errors.As(err, &runErr) && runErr.token != nil {
		line = runErr.token.line
	}
	s.report(Diagnostic{
		Kind:    RuntimeError,
		Line:    line,
		Message: err.Error(),
	})
}

func (s *interpreterState) has(kinds ...DiagnosticKind) bool {
	for _, d := range s.diagnostics {
		for _, k := range kinds {
			if d.Kind == k {
				return true
			}
		}
	}
	return false
}

// Valid returns true if nothing was reported before evaluation
func (s *interpreterState) Valid() bool {
	return !s.has(LexicalError, SyntaxError, StaticError)
}

// PrintErrors prints all errors and returns true if there was at least one
func (s *interpreterState) PrintErrors(p IPrinter, w io.Writer) bool {
	for _, d := range s.diagnostics {
		p.Fprintln(w, d.String())
	}
	return len(s.diagnostics) != 0
}

// runtimeError is an evaluation error tied to the token that caused it
type runtimeError struct {
	token *token
	err   error
}

func (r *runtimeError) Error() string {
	return r.err.Error()
}

func (r *runtimeError) Unwrap() error {
	return r.err
}

func runtimeErr(err error, tk *token) error {
	return &runtimeError{token: tk, err: err}
}

// detailedError keeps a sentinel reachable through errors.Is while
// rendering a message with the offending name in it
type detailedError struct {
	msg string
	err error
}

func (d *detailedError) Error() string {
	return d.msg
}

func (d *detailedError) Unwrap() error {
	return d.err
}

func withDetail(err error, format string, a ...interface{}) error {
	return &detailedError{msg: fmt.Sprintf(format, a...), err: err}
}

// Lexer errors
var errUnexpectedChar = errors.New("Unexpected character.")
var errUnterminatedString = errors.New("Unterminated string.")
var errNumberRange = errors.New("Number literal out of range.")

// Parser errors
var errExpectExpression = errors.New("Expect expression.")
var errInvalidAssignTarget = errors.New("Invalid assignment target.")
var errMaxParameters = errors.New("Cannot have more than 8 parameters.")
var errMaxArguments = errors.New("Cannot have more than 8 arguments.")
var errExpectedClassName = errors.New("Expect class name.")
var errExpectedSuperclassName = errors.New("Expect superclass name.")
var errExpectedVarName = errors.New("Expect variable name.")
var errExpectedParamName = errors.New("Expect parameter name.")
var errExpectedPropName = errors.New("Expect property name after '.'.")
var errExpectedSuperMethod = errors.New("Expect superclass method name.")
var errExpectedSuperDot = errors.New("Expect '.' after 'super'.")
var errUnclosedParen = errors.New("Expect ')' after expression.")
var errUnclosedArguments = errors.New("Expect ')' after arguments.")
var errUnclosedBlock = errors.New("Expect '}' after block.")
var errExpectedSemicolon = errors.New("Expect ';' after expression.")

// Resolver errors
var errThisOutsideClass = errors.New("Cannot use 'this' outside of a class.")
var errSuperOutsideClass = errors.New("Cannot use 'super' outside of a class.")
var errSuperNoSuperclass = errors.New("Cannot use 'super' in a class with no superclass.")
var errTopLevelReturn = errors.New("Cannot return from top-level code.")
var errInitializerReturn = errors.New("Cannot return a value from an initializer.")
var errOwnInitializer = errors.New("Cannot read local variable in its own initializer.")
var errAlreadyDeclared = errors.New("Variable with this name already declared in this scope.")

// Runtime errors
var errUndefinedVar = errors.New("Undefined variable")
var errUninitializedVar = errors.New("Uninitialised variable")
var errUnresolvedVar = errors.New("Unresolved local variable")
var errOnlyNumber = errors.New("Operand must be a number.")
var errOnlyNumbers = errors.New("Operands must be numbers.")
var errNumbersOrStrings = errors.New("Operands must be two numbers or two strings.")
var errDivideByZero = errors.New("Divide by zero error.")
var errOnlyFunction = errors.New("Can only call functions and classes.")
var errInvalidNumberArguments = errors.New("Invalid number of arguments")
var errOnlyInstanceProps = errors.New("Only instances have properties.")
var errOnlyInstanceFields = errors.New("Only instances have fields.")
var errUndefinedProp = errors.New("Undefined property")
var errSuperclassNotClass = errors.New("Superclass must be a class.")
var errExpectedString = errors.New("Expected string argument.")
