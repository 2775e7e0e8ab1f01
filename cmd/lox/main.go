// Command lox is the host driver: file mode, REPL mode, and the exit-code
// contract. Everything language-specific lives in internal/lox; this
// file only wires stdin/stdout/stderr, config, and colorization around it.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/loxlang/lox/internal/lox"
)

// usageError marks the one case that must print the exact contractual
// "Usage: lox [script]" line rather than cobra's own error formatting.
type usageError struct{}

func (usageError) Error() string { return "Usage: lox [script]" }

func main() {
	colorize := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	var configPath string
	root := &cobra.Command{
		Use:           "lox [script]",
		Short:         "A tree-walking interpreter for Lox",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageError{}
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.Color != nil {
				colorize = *cfg.Color
			}

			if len(args) == 1 {
				runFile(args[0], colorize)
				return nil
			}
			runPrompt(cfg, colorize)
			return nil
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a REPL config file (YAML)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(64)
	}
}

// runFile scans, parses, and interprets the whole file, exiting with a
// sysexits.h-style code: 65 for a scan or parse error, 70 for a runtime
// error, 74 if the file can't even be read.
func runFile(path string, colorize bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(74)
	}

	interp := lox.NewInterpreter(os.Stdout)
	if code := run(string(data), interp, nil, colorize); code != 0 {
		os.Exit(code)
	}
}

// runPrompt is the REPL: each line is scanned, parsed, and interpreted
// independently against one persistent global environment. An error on
// one line reports and returns to the prompt rather than ending the
// session.
func runPrompt(cfg *replConfig, colorize bool) {
	interp := lox.NewInterpreter(os.Stdout)
	stdin := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(os.Stdout, cfg.Prompt)
		if !stdin.Scan() {
			fmt.Fprintln(os.Stdout)
			return
		}
		run(stdin.Text(), interp, cfg, colorize)
	}
}

// run executes one chunk of source against interp. cfg is nil in file
// mode (where there's no expression-echo behavior to apply). The return
// value is the process exit code the chunk warrants; REPL mode ignores it.
func run(source string, interp *lox.Interpreter, cfg *replConfig, colorize bool) int {
	scanner := lox.NewScanner(source)
	tokens, errs := scanner.Scan()
	if len(errs) > 0 {
		reportAll(errs, colorize)
		return 65
	}

	program, errs := lox.Parse(tokens)
	if len(errs) > 0 {
		reportAll(errs, colorize)
		return 65
	}

	if cfg != nil && cfg.EchoExpressions && len(program.Stmts) == 1 {
		if exprStmt, ok := program.Stmts[0].(*lox.ExpressionStmt); ok {
			val, err := exprStmt.Expression.Eval(interp, interp.Globals)
			if err != nil {
				lox.Report(os.Stderr, err, colorize)
				return 70
			}
			fmt.Println(val.String())
			return 0
		}
	}

	if err := interp.Run(program); err != nil {
		lox.Report(os.Stderr, err, colorize)
		return 70
	}
	return 0
}

func reportAll(errs []error, colorize bool) {
	for _, e := range errs {
		lox.Report(os.Stderr, e, colorize)
	}
}
