package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/tsexport/am"
	"github.com/teranos/tsexport/cmd/tsexport/commands"
	"github.com/teranos/tsexport/errors"
	"github.com/teranos/tsexport/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tsexport",
	Short: "Export TypeScript bindings and aggregate them into an index",
	Long: `tsexport runs the test suite with binding export enabled, then collects
what was exported into a single entry point.

Without --index or --merge the generated files are left as they are.

Examples:
  tsexport -o bindings                # Export bindings into ./bindings
  tsexport -o bindings --index        # ...and write bindings/index.ts re-exporting them
  tsexport -o bindings --merge        # ...or merge them all into bindings/index.ts
  tsexport check -o bindings --index  # Fail if committed bindings are stale
  tsexport watch -o bindings --index  # Re-export whenever src/ changes
  tsexport am show                    # Show the effective configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	RunE: commands.RunExport,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: tsexport.toml searched upward from the working directory)")
	am.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()

	if err != nil {
		os.Exit(commands.ReportError(os.Stderr, err))
	}
}
