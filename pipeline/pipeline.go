// Package pipeline drives one export run end to end: clear stale metadata,
// run the tests that emit bindings, collect the records and write the
// requested artifact. The metadata file is removed on every exit path.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/tsexport/am"
	"github.com/teranos/tsexport/artifact"
	"github.com/teranos/tsexport/bindings"
	"github.com/teranos/tsexport/errors"
	"github.com/teranos/tsexport/logger"
	"github.com/teranos/tsexport/metadata"
)

// State is a step of a run.
type State string

const (
	StateInit        State = "init"
	StateInvoking    State = "invoking"
	StateCollecting  State = "collecting"
	StateDispatching State = "dispatching"
	StateDone        State = "done"
)

// Outcome says how a run ended.
type Outcome string

const (
	// OutcomeNoArtifact: nothing was exported or no artifact mode was requested
	OutcomeNoArtifact Outcome = "no_artifact"
	// OutcomeConfigConflict: --index and --merge were both requested
	OutcomeConfigConflict Outcome = "config_conflict"
	// OutcomeNamingCollision: collisions were reported and no artifact was written
	OutcomeNamingCollision Outcome = "naming_collision"
	OutcomeBarrel          Outcome = "barrel"
	OutcomeMerged          Outcome = "merged"
)

// Invoker runs the external test tool that emits bindings and metadata.
type Invoker interface {
	Invoke(ctx context.Context, cfg *am.Config) error
}

// Result describes a finished run.
type Result struct {
	RunID     string
	Outcome   Outcome
	IndexPath string
	Records   int
	Paths     []string

	Collisions []metadata.Collision
	Merge      *artifact.MergeResult

	// StopReason is set for soft stops (config conflict, naming collision)
	StopReason error
	// Trail lists the states the run went through
	Trail []State
}

// Pipeline runs exports against one file system.
type Pipeline struct {
	fs        afero.Fs
	invoker   Invoker
	formatter Formatter
	report    io.Writer
	log       *zap.SugaredLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFs replaces the file system (default: the OS).
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) { p.fs = fs }
}

// WithFormatter replaces the post-format step.
func WithFormatter(f Formatter) Option {
	return func(p *Pipeline) { p.formatter = f }
}

// WithReport sets where user-facing diagnostics are written (default: stderr).
func WithReport(w io.Writer) Option {
	return func(p *Pipeline) { p.report = w }
}

// WithLogger overrides the component logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New creates a pipeline around an invoker.
func New(invoker Invoker, opts ...Option) *Pipeline {
	p := &Pipeline{
		fs:        afero.NewOsFs(),
		invoker:   invoker,
		formatter: CommandFormatter{},
		report:    os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Named("pipeline")
	}
	return p
}

// Run performs one export. Soft stops (conflicting modes, naming
// collisions) are reported and return a nil error with Result.StopReason
// set. Test failures, metadata parse failures and I/O failures are returned
// as errors. The metadata file is removed before returning in every case.
func (p *Pipeline) Run(ctx context.Context, cfg *am.Config) (res *Result, err error) {
	res = &Result{RunID: uuid.NewString()}
	log := p.log.With(logger.FieldRunID, res.RunID)

	enter := func(s State) {
		res.Trail = append(res.Trail, s)
		log.Debugw("Entering state", logger.FieldState, string(s))
	}

	enter(StateInit)
	guard, err := acquireMetadata(p.fs, cfg.MetadataPath())
	if err != nil {
		return res, err
	}
	defer func() {
		if rerr := guard.Release(); rerr != nil {
			if err == nil {
				err = rerr
			} else {
				err = errors.WithSecondaryError(err, rerr)
			}
		}
		enter(StateDone)
	}()

	if conflict := cfg.ModeConflict(); conflict != nil {
		p.reportError(conflict.Error())
		res.Outcome = OutcomeConfigConflict
		res.StopReason = conflict
		return res, nil
	}

	enter(StateInvoking)
	if err := p.invoker.Invoke(ctx, cfg); err != nil {
		return res, errors.Wrap(err, "failed to export bindings")
	}

	enter(StateCollecting)
	store, err := metadata.Load(p.fs, cfg.MetadataPath())
	if err != nil {
		return res, err
	}
	res.Records = store.Len()
	log.Infow("Collected export records",
		logger.FieldRecords, store.Len(),
		logger.FieldMode, cfg.Mode())
	for _, r := range store.Records() {
		log.Debugw("Export record", "name", r.Name, logger.FieldPath, r.Path)
	}

	if store.IsEmpty() || !cfg.WantsArtifact() {
		res.Outcome = OutcomeNoArtifact
		return res, nil
	}

	enter(StateDispatching)
	if store.HasNamingCollisions() {
		store.ReportCollisions(p.report)
		p.reportError(fmt.Sprintf(
			"due to the naming collisions listed above, generating an %s file is not possible",
			bindings.IndexName(cfg.Extension)))

		res.Outcome = OutcomeNamingCollision
		res.Collisions = store.Collisions()
		res.StopReason = errors.Mark(
			errors.Newf("%d exported names collide", len(res.Collisions)),
			errors.ErrNamingCollision)
		return res, nil
	}

	res.Paths = store.ExportPaths()
	w := artifact.NewWriter(p.fs, cfg.OutputDirectory,
		artifact.WithExtension(cfg.Extension),
		artifact.WithESMImports(cfg.ESMImports),
		artifact.WithLogger(log.Named("artifact")))

	switch {
	case cfg.GenerateIndex:
		index, err := w.WriteBarrel(res.Paths)
		if err != nil {
			return res, err
		}
		res.Outcome, res.IndexPath = OutcomeBarrel, index
	case cfg.MergeFiles:
		merge, err := w.Merge(res.Paths)
		if err != nil {
			return res, err
		}
		res.Outcome, res.IndexPath, res.Merge = OutcomeMerged, merge.IndexPath, merge
	}

	if cfg.Format && p.formatter != nil {
		if err := p.formatter.Format(ctx, cfg, res.IndexPath); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (p *Pipeline) reportError(msg string) {
	fmt.Fprintf(p.report, "%s %s\n", pterm.Red("Error:"), msg)
}
