package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"

	"pikl/internal"
)

const continuationPrompt = "...   "

// entry accumulates lines until braces balance
type entry struct {
	lines strings.Builder
	depth int
}

// add appends a line and returns the complete source once every opened
// brace is closed
func (e *entry) add(line string) (string, bool) {
	e.depth += strings.Count(line, "{") - strings.Count(line, "}")
	e.lines.WriteString(line)
	e.lines.WriteString("\n")
	if e.depth > 0 {
		return "", false
	}
	source := e.lines.String()
	e.reset()
	return source, true
}

func (e *entry) pending() bool {
	return e.depth > 0
}

func (e *entry) reset() {
	e.lines.Reset()
	e.depth = 0
}

func runRepl(cfg config, logger *logrus.Logger, colors *color.Color) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          colors.Green(cfg.Prompt),
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.WithError(err).Error("cannot start line editor")
		return exitInput
	}
	defer rl.Close()

	fmt.Fprintln(rl.Stdout(), colors.Bold("pikl"), colors.Grey("(type 'exit' or Ctrl+D to quit)"))

	interp := internal.NewInterpreter(
		stdPrinter{out: rl.Stdout()},
		internal.WithLogger(logger.WithField("script", "<repl>")),
		internal.WithErrorWriter(io.Discard),
	)

	var current entry
	for {
		if current.pending() {
			rl.SetPrompt(colors.Grey(continuationPrompt))
		} else {
			rl.SetPrompt(colors.Green(cfg.Prompt))
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if current.pending() {
				current.reset()
				continue
			}
			fmt.Fprintln(rl.Stdout(), colors.Grey("(use 'exit' or Ctrl+D to quit)"))
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(rl.Stdout())
			return exitOK
		}
		if err != nil {
			logger.WithError(err).Error("cannot read input")
			return exitInput
		}

		if !current.pending() && strings.TrimSpace(line) == "exit" {
			return exitOK
		}

		source, complete := current.add(line)
		if !complete || strings.TrimSpace(source) == "" {
			continue
		}

		interp.Run(source)
		printDiagnostics(rl.Stderr(), colors, interp.Diagnostics())
	}
}
