// Package errors formats failures for the terminal. An error may carry a
// hint, a next step printed under the message.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/lectio/internal/logger"
)

type hinted struct {
	err  error
	hint string
}

func (h *hinted) Error() string { return h.err.Error() }
func (h *hinted) Unwrap() error { return h.err }

// WithHint attaches a next step to err. A nil err stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &hinted{err: err, hint: hint}
}

// HintOf returns the outermost hint in err's chain
func HintOf(err error) string {
	var h *hinted
	if stderrors.As(err, &h) {
		return h.hint
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := HintOf(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Warning formats a non-fatal problem the user should know about
func Warning(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Warning: %v", err)
}

// Fatal logs err, prints it to stderr and exits with status 1
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}

// Fatalf is Fatal for a formatted message
func Fatalf(format string, args ...interface{}) {
	Fatal(fmt.Errorf(format, args...))
}
