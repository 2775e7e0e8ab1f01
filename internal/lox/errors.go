package lox

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ScanError reports a lexical problem: an unexpected character or an
// unterminated string. Scanning continues past it where possible, so a
// single pass can collect several.
type ScanError struct {
	Line    int
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}

// ParseError reports an unexpected token. Token.Type == EOF renders as
// "at end".
type ParseError struct {
	Token   Token
	Message string
}

func (e *ParseError) Error() string {
	where := "at end"
	if e.Token.Type != EOF {
		where = "at '" + e.Token.Lexeme + "'"
	}
	return fmt.Sprintf("[line %d] Error %s: %s", e.Token.Line, where, e.Message)
}

// RuntimeError reports a failure discovered while executing a valid AST:
// a type mismatch, wrong arity, undefined name, or non-callable call.
// Unlike Scan/ParseError it is never collected in bulk; the first one
// aborts the whole evaluation.
type RuntimeError struct {
	Token   Token
	Message string
}

// NewRuntimeError builds a RuntimeError anchored at tok, for error
// reporting. It is returned, never panicked; Eval/Exec/Run pass it up
// the call stack like any other Go error.
func NewRuntimeError(tok Token, message string) *RuntimeError {
	return &RuntimeError{Token: tok, Message: message}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// Report writes err to w in the format appropriate to its kind, in red
// when colorize is true. cmd/lox decides colorize by checking isatty on
// the underlying file; tests and non-terminal output leave it off so
// golden comparisons stay free of escape codes.
func Report(w io.Writer, err error, colorize bool) {
	msg := err.Error()
	if !colorize {
		fmt.Fprintln(w, msg)
		return
	}
	red := color.New(color.FgRed)
	red.Fprintln(w, msg)
}
