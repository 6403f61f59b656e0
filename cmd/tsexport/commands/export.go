package commands

import (
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tsexport/pipeline"
	"github.com/teranos/tsexport/testrun"
)

// newPipeline wires the pipeline to the real test tool.
func newPipeline(cmd *cobra.Command) *pipeline.Pipeline {
	runner := testrun.NewRunner()
	runner.Stdout = cmd.OutOrStdout()
	runner.Stderr = cmd.ErrOrStderr()
	return pipeline.New(runner, pipeline.WithReport(cmd.ErrOrStderr()))
}

// RunExport is the root command: one export run.
func RunExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidConfig(cmd)
	if err != nil {
		return err
	}

	res, err := newPipeline(cmd).Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// printResult summarises a finished run. Soft stops were already reported.
func printResult(w io.Writer, res *pipeline.Result) {
	switch res.Outcome {
	case pipeline.OutcomeBarrel:
		pterm.Success.WithWriter(w).Printfln("Wrote %s re-exporting %d files", res.IndexPath, len(res.Paths))
	case pipeline.OutcomeMerged:
		pterm.Success.WithWriter(w).Printfln("Merged %d files into %s", len(res.Merge.Merged), res.IndexPath)
		for _, skipped := range res.Merge.Skipped {
			pterm.Warning.WithWriter(w).Printfln("Skipped %s: no blank line after the header", skipped)
		}
	case pipeline.OutcomeNoArtifact:
		if res.Records == 0 {
			pterm.Info.WithWriter(w).Println("No bindings were exported")
		} else {
			pterm.Success.WithWriter(w).Printfln("Exported %d bindings", res.Records)
		}
	}
}
