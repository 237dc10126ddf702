package fault

import (
	"fmt"
	"os"
)

// LogHandler is a Handler that logs faults to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleFault logs a fault to stderr.
func (h *LogHandler) HandleFault(err *Error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "[anima %s] %s: %s\n", err.Kind, err.Op, err.Msg)
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}
