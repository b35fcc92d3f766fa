package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/tabs/errors"
)

// ErrorHandler turns coded errors into user-facing hints.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates an error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	out := h.Out
	if out == nil {
		out = os.Stderr
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "❌ Configuration not found: %v\n", err)
		fmt.Fprintf(out, "Create tabs.yml or pass --config. Run 'tabs config schema' for the format.\n")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(out, "❌ Invalid configuration: %v\n", err)
		fmt.Fprintf(out, "Check it with 'tabs config validate'.\n")

	case errors.ErrCodeCategoryMissing:
		fmt.Fprintf(out, "❌ %v\n", err)
		fmt.Fprintf(out, "Every draggable tabset needs a category shared with the strips it exchanges tabs with.\n")

	case errors.ErrCodeStoreUnavailable:
		fmt.Fprintf(out, "❌ Drag store unavailable: %v\n", err)
		fmt.Fprintf(out, "Start one with 'tabs store serve' or switch store.backend to memory or file.\n")

	default:
		fmt.Fprintf(out, "❌ Error: %v\n", err)
	}

	if h.Verbose {
		if groveErr, ok := err.(*errors.GroveError); ok {
			fmt.Fprintf(out, "\nError details:\n%s\n", groveErr.ToJSON())
		}
	}
	return err
}
