package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/tsexport/errors"
)

// Process exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ReportError prints err with its details and hints and returns the exit
// code for it. Soft stops never reach here: the pipeline reports them and
// returns a nil error.
func ReportError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(w, "%s %s\n", pterm.Red("Error:"), err.Error())
	for _, detail := range errors.GetAllDetails(err) {
		for _, line := range strings.Split(strings.TrimRight(detail, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", pterm.Gray(line))
		}
	}
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "%s %s\n", pterm.Yellow("Hint:"), hint)
	}
	return ExitFailure
}
