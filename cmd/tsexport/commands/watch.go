package commands

import (
	"context"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tsexport/logger"
	"github.com/teranos/tsexport/watch"
)

// WatchCmd re-exports on source changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-export whenever watched sources change",
	Long: `Run an export, then watch the configured source trees (watch.paths,
default "src") and run again after every burst of changes. Failed runs are
reported and watching continues. Stop with Ctrl-C.

Examples:
  tsexport watch -o bindings --index
  tsexport watch --watch-path src --watch-path crates -o bindings`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().StringSlice("watch-path", nil, "Directory to watch (repeatable; overrides watch.paths)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidConfig(cmd)
	if err != nil {
		return err
	}
	if paths, _ := cmd.Flags().GetStringSlice("watch-path"); len(paths) > 0 {
		cfg.Watch.Paths = paths
	}

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	w, err := watch.New(cfg.Watch.Paths, debounce, cfg.OutputDirectory)
	if err != nil {
		return err
	}

	p := newPipeline(cmd)
	runOnce := func(ctx context.Context) {
		res, err := p.Run(ctx, cfg)
		if err != nil {
			if ctx.Err() == nil {
				ReportError(cmd.ErrOrStderr(), err)
			}
			return
		}
		printResult(cmd.OutOrStdout(), res)
	}

	ctx := cmd.Context()
	runOnce(ctx)

	pterm.Info.WithWriter(cmd.OutOrStdout()).Printfln("Watching %s for changes", strings.Join(cfg.Watch.Paths, ", "))
	logger.Infow("Watching for changes", logger.FieldPath, strings.Join(cfg.Watch.Paths, ","))
	return w.Run(ctx, runOnce)
}
