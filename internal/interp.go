package internal

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
	Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error)
	Fprintln(w io.Writer, a ...interface{}) (n int, err error)
}

// Status is the result of running a program
type Status int

const (
	// StatusOK means the program ran to completion
	StatusOK Status = iota
	// StatusStaticError means a lexical, syntax or resolution error stopped
	// the program before it started running
	StatusStaticError
	// StatusRuntimeError means the program was aborted by a runtime error
	StatusRuntimeError
)

// Interpreter runs programs against a global environment that is kept
// between runs, so a REPL can build on previous input.
type Interpreter struct {
	exec        *exec
	printer     IPrinter
	errOut      io.Writer
	logger      logrus.FieldLogger
	now         func() time.Time
	diagnostics []Diagnostic
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithLogger sets the logger used for pipeline tracing
func WithLogger(logger logrus.FieldLogger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithErrorWriter sets where diagnostics are printed, stderr by default
func WithErrorWriter(w io.Writer) Option {
	return func(i *Interpreter) {
		i.errOut = w
	}
}

// WithClock replaces the time source of the clock() builtin
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) {
		i.now = now
	}
}

// NewInterpreter creates an interpreter printing program output to p
func NewInterpreter(p IPrinter, opts ...Option) *Interpreter {
	i := &Interpreter{
		printer: p,
		errOut:  os.Stderr,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = defaultLogger()
	}
	i.exec = newExec(p, i.now)
	return i
}

func defaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// Run scans, parses, resolves and evaluates source
func (i *Interpreter) Run(source string) Status {
	start := time.Now()
	state := i.load(source)
	defer func() {
		i.diagnostics = state.diagnostics
	}()

	if !state.Valid() {
		state.PrintErrors(i.printer, i.errOut)
		return StatusStaticError
	}

	resolver := newResolver(state, i.exec.locals)
	resolver.resolve(state.stmts)
	i.logger.WithField("resolved", len(i.exec.locals)).Debug("resolved source")

	if !state.Valid() {
		state.PrintErrors(i.printer, i.errOut)
		return StatusStaticError
	}

	i.exec.state = state
	ok := i.exec.interpret()
	i.logger.WithFields(logrus.Fields{
		"duration": time.Since(start),
		"ok":       ok,
	}).Debug("interpreted source")

	if !ok {
		state.PrintErrors(i.printer, i.errOut)
		return StatusRuntimeError
	}
	return StatusOK
}

// PrintTree prints the syntax tree of source instead of running it
func (i *Interpreter) PrintTree(source string) Status {
	state := i.load(source)
	i.diagnostics = state.diagnostics
	if !state.Valid() {
		state.PrintErrors(i.printer, i.errOut)
		return StatusStaticError
	}
	for _, s := range state.stmts {
		i.printer.Println(sprintStmt(s))
	}
	return StatusOK
}

// Diagnostics returns the errors reported by the last run
func (i *Interpreter) Diagnostics() []Diagnostic {
	return i.diagnostics
}

func (i *Interpreter) load(source string) *interpreterState {
	state := newInterpreterState(source, i.logger)

	lexer := &lexer{
		line:  1,
		state: state,
	}
	lexer.scan()
	i.logger.WithField("tokens", len(state.tokens)).Debug("scanned source")

	parser := &parser{
		state: state,
	}
	parser.parse()
	i.logger.WithField("statements", len(state.stmts)).Debug("parsed source")

	return state
}

// RunSourceWithPrinter runs source code on a fresh interpreter instance
func RunSourceWithPrinter(source string, p IPrinter) Status {
	return NewInterpreter(p).Run(source)
}
