// Package check verifies that committed bindings match what a fresh export
// would produce.
package check

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/teranos/tsexport/am"
	"github.com/teranos/tsexport/errors"
	"github.com/teranos/tsexport/pipeline"
)

// FileDiff is one file whose content differs.
type FileDiff struct {
	Path string
	// Diff is a line diff from committed (-) to generated (+)
	Diff string
}

// Result holds the outcome of a check.
type Result struct {
	UpToDate bool
	// Missing files are generated but not committed
	Missing []string
	// Extra files are committed but no longer generated
	Extra   []string
	Changed []FileDiff

	// Run is the export run that produced the fresh bindings
	Run *pipeline.Result
}

// Runner is the part of a pipeline that check drives.
type Runner interface {
	Run(ctx context.Context, cfg *am.Config) (*pipeline.Result, error)
}

// Run exports into a temporary directory with the same settings as cfg and
// compares the result with cfg.OutputDirectory. The temporary directory is
// always removed.
func Run(ctx context.Context, fs afero.Fs, runner Runner, cfg *am.Config) (*Result, error) {
	tmp, err := afero.TempDir(fs, "", "tsexport-check-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temporary directory")
	}
	defer fs.RemoveAll(tmp)

	fresh := *cfg
	fresh.OutputDirectory = tmp

	res, err := runner.Run(ctx, &fresh)
	if err != nil {
		return nil, err
	}
	if res.StopReason != nil {
		return nil, res.StopReason
	}

	result, err := CompareDirectories(fs, tmp, cfg.OutputDirectory, cfg.MetadataFile)
	if err != nil {
		return nil, err
	}
	result.Run = res
	return result, nil
}

// CompareDirectories compares every file under generatedDir with the file at
// the same relative path under committedDir. Files named in skip are ignored.
func CompareDirectories(fs afero.Fs, generatedDir, committedDir string, skip ...string) (*Result, error) {
	generated, err := listFiles(fs, generatedDir, skip)
	if err != nil {
		return nil, err
	}
	committed, err := listFiles(fs, committedDir, skip)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for rel := range generated {
		if _, ok := committed[rel]; !ok {
			result.Missing = append(result.Missing, rel)
			continue
		}

		diff, err := diffFiles(fs, filepath.Join(committedDir, rel), filepath.Join(generatedDir, rel))
		if err != nil {
			return nil, err
		}
		if diff != "" {
			result.Changed = append(result.Changed, FileDiff{Path: rel, Diff: diff})
		}
	}
	for rel := range committed {
		if _, ok := generated[rel]; !ok {
			result.Extra = append(result.Extra, rel)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.Extra)
	sort.Slice(result.Changed, func(i, j int) bool { return result.Changed[i].Path < result.Changed[j].Path })

	result.UpToDate = len(result.Missing) == 0 && len(result.Extra) == 0 && len(result.Changed) == 0
	return result, nil
}

// listFiles returns the slash-separated relative paths of regular files
// under root. A missing root has no files.
func listFiles(fs afero.Fs, root string, skip []string) (map[string]struct{}, error) {
	files := make(map[string]struct{})

	if _, err := fs.Stat(root); os.IsNotExist(err) {
		return files, nil
	}

	err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || shouldSkipFile(info.Name(), skip) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}
	return files, nil
}

// shouldSkipFile returns true for transient files that never belong in a
// comparison.
func shouldSkipFile(name string, skip []string) bool {
	if strings.HasPrefix(name, ".index-") && strings.HasSuffix(name, ".tmp") {
		return true
	}
	for _, s := range skip {
		if name == s {
			return true
		}
	}
	return false
}

// diffFiles returns a line diff between two files, or "" when they match.
func diffFiles(fs afero.Fs, committedPath, generatedPath string) (string, error) {
	committed, err := afero.ReadFile(fs, committedPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", committedPath)
	}
	generated, err := afero.ReadFile(fs, generatedPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", generatedPath)
	}
	if string(committed) == string(generated) {
		return "", nil
	}
	return cmp.Diff(strings.Split(string(committed), "\n"), strings.Split(string(generated), "\n")), nil
}
