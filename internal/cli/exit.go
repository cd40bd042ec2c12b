package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/matzehuels/deckbuild/pkg/assembler"
	"github.com/matzehuels/deckbuild/pkg/errors"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalidDeck = 2   // a script entry broke a deck rule
	ExitUsage       = 64  // bad flags, paths or formats
	ExitInterrupted = 130 // SIGINT, shell convention
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.IsValidation(err):
		return ExitInvalidDeck
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return ExitUsage
	}
	return ExitFailure
}

// ReportError writes a one-line summary of err to w. Entry errors were
// already shown in full by the failing command, so only the code is
// repeated.
func ReportError(w io.Writer, err error) {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return
	}
	var entryErr *assembler.EntryError
	if stderrors.As(err, &entryErr) {
		fmt.Fprintf(w, "%s %s\n", styleIconError.Render(iconError), StyleDim.Render(fmt.Sprintf("script rejected at entry %d (%s)", entryErr.Index, errors.GetCode(err))))
		return
	}
	fmt.Fprintf(w, "%s %v\n", styleIconError.Render(iconError), err)
}
