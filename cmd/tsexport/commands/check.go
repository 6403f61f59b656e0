package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/tsexport/check"
	"github.com/teranos/tsexport/errors"
)

// CheckCmd verifies that committed bindings are current
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that committed bindings are up to date",
	Long: `Export into a temporary directory with the current settings and compare
the result with the output directory. Exits 1 when any file is missing,
extra or different.

Examples:
  tsexport check -o bindings --index`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidConfig(cmd)
	if err != nil {
		return err
	}

	res, err := check.Run(cmd.Context(), afero.NewOsFs(), newPipeline(cmd), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.UpToDate {
		pterm.Success.WithWriter(out).Printfln("Bindings in %s are up to date", cfg.OutputDirectory)
		return nil
	}

	printCheckResult(out, res)
	return errors.WithHint(
		errors.Newf("bindings in %s are out of date", cfg.OutputDirectory),
		"run tsexport with the same flags to regenerate them")
}

func printCheckResult(w io.Writer, res *check.Result) {
	for _, p := range res.Missing {
		fmt.Fprintf(w, "%s %s\n", pterm.Green("+ missing:"), p)
	}
	for _, p := range res.Extra {
		fmt.Fprintf(w, "%s %s\n", pterm.Red("- stale:  "), p)
	}
	for _, c := range res.Changed {
		fmt.Fprintf(w, "%s %s\n%s\n", pterm.Yellow("~ changed:"), c.Path, c.Diff)
	}
}
