package artifact

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/teranos/tsexport/errors"
)

// RemoveEmptySubdirectories removes, bottom-up, every directory under root
// that contains nothing but other removable directories. root itself is kept.
// It returns the removed directories, deepest first.
func RemoveEmptySubdirectories(fs afero.Fs, root string) ([]string, error) {
	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", root)
	}

	var removed []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := pruneDir(fs, filepath.Join(root, e.Name()), &removed); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func pruneDir(fs afero.Fs, dir string, removed *[]string) (bool, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return false, errors.Wrapf(err, "failed to list %s", dir)
	}

	empty := true
	for _, e := range entries {
		if !e.IsDir() {
			empty = false
			continue
		}
		gone, err := pruneDir(fs, filepath.Join(dir, e.Name()), removed)
		if err != nil {
			return false, err
		}
		if !gone {
			empty = false
		}
	}

	if !empty {
		return false, nil
	}
	if err := fs.Remove(dir); err != nil {
		return false, errors.Wrapf(err, "failed to remove empty directory %s", dir)
	}
	*removed = append(*removed, dir)
	return true, nil
}

func isNotExist(err error) bool {
	return os.IsNotExist(errors.UnwrapAll(err)) || os.IsNotExist(err)
}
