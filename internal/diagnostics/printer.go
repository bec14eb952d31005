package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// UseColor reports whether w is a terminal that should get ANSI colours.
func UseColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Print writes one line per error, colouring the code on terminals.
func Print(w io.Writer, errs []error) {
	color := UseColor(w)
	for _, err := range errs {
		de, ok := err.(*DiagnosticError)
		if !ok {
			fmt.Fprintln(w, err.Error())
			continue
		}
		code := string(de.Code)
		if color {
			code = colorRed + code + colorReset
		}
		fmt.Fprintf(w, "%s: error %s: %s\n", de.Token, code, de.Message)
	}
}
