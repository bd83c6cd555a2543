// Command pikl runs pikl scripts or starts an interactive session.
//
// Usage:
//
//	pikl [flags]                 Start the REPL
//	pikl [flags] script.pikl     Run a source file
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"

	"pikl/internal"
)

const (
	exitOK           = 0
	exitUsage        = 64
	exitStaticError  = 65
	exitInput        = 66
	exitRuntimeError = 70
)

type stdPrinter struct {
	out io.Writer
}

func (s stdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Fprintln(s.out, a...)
}

func (s stdPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(w, format, a...)
}

func (s stdPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return fmt.Fprintln(w, a...)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("pikl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: pikl [flags] [script]")
		flags.PrintDefaults()
	}
	configPath := flags.String("config", "", "path to a YAML config file (default $PIKL_CONFIG)")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn or error")
	printTree := flags.Bool("ast", false, "print the syntax tree instead of running the script")
	noColor := flags.Bool("no-color", false, "disable coloured output")

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() > 1 {
		flags.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInput
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *noColor {
		cfg.Color = false
	}

	logger, err := newLogger(cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	colors := color.New()
	colors.SetOutput(stderr)
	if !cfg.Color {
		colors.Disable()
	}

	if flags.NArg() == 0 {
		if *printTree {
			fmt.Fprintln(stderr, "-ast needs a script")
			return exitUsage
		}
		return runRepl(cfg, logger, colors)
	}
	return runFile(flags.Arg(0), *printTree, stdout, stderr, logger, colors)
}

func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	return logger, nil
}

func runFile(path string, printTree bool, stdout, stderr io.Writer, logger *logrus.Logger, colors *color.Color) int {
	absPath, err := filepath.Abs(path)
	if err != nil {
		fmt.Fprintln(stderr, colors.Red(err))
		return exitInput
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		fmt.Fprintln(stderr, colors.Red(fmt.Sprintf("cannot read %s: %v", path, err)))
		return exitInput
	}

	log := logger.WithField("script", absPath)
	interp := internal.NewInterpreter(
		stdPrinter{out: stdout},
		internal.WithLogger(log),
		internal.WithErrorWriter(io.Discard),
	)

	var status internal.Status
	if printTree {
		status = interp.PrintTree(string(b))
	} else {
		status = interp.Run(string(b))
	}
	printDiagnostics(stderr, colors, interp.Diagnostics())

	switch status {
	case internal.StatusStaticError:
		log.Debug("script rejected before running")
		return exitStaticError
	case internal.StatusRuntimeError:
		log.Debug("script aborted by runtime error")
		return exitRuntimeError
	}
	return exitOK
}

func printDiagnostics(w io.Writer, colors *color.Color, diagnostics []internal.Diagnostic) {
	for _, d := range diagnostics {
		if d.Kind == internal.RuntimeError {
			fmt.Fprintln(w, colors.Red(d.String()))
		} else {
			fmt.Fprintln(w, colors.Yellow(d.String()))
		}
	}
}
