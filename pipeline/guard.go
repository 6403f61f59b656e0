package pipeline

import (
	"os"

	"github.com/spf13/afero"

	"github.com/teranos/tsexport/errors"
)

// metadataGuard owns the transient metadata file for one run. Acquiring it
// removes any stale file; Release removes whatever the run produced.
type metadataGuard struct {
	fs   afero.Fs
	path string
}

func acquireMetadata(fs afero.Fs, path string) (*metadataGuard, error) {
	g := &metadataGuard{fs: fs, path: path}
	if err := g.remove(); err != nil {
		return nil, errors.Wrap(err, "failed to remove stale metadata")
	}
	return g, nil
}

// Release deletes the metadata file. A file that was never written is fine.
func (g *metadataGuard) Release() error {
	if err := g.remove(); err != nil {
		return errors.Wrap(err, "failed to clean up metadata")
	}
	return nil
}

func (g *metadataGuard) remove() error {
	err := g.fs.Remove(g.path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return errors.Wrapf(err, "failed to remove %s", g.path)
}
