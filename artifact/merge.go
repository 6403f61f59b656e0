package artifact

import (
	"bytes"

	"github.com/spf13/afero"

	"github.com/teranos/tsexport/bindings"
	"github.com/teranos/tsexport/errors"
	"github.com/teranos/tsexport/logger"
)

// MergeResult describes what a merge did to the output directory.
type MergeResult struct {
	IndexPath string
	// Merged lists recorded paths whose bodies were appended and whose files were deleted
	Merged []string
	// Skipped lists recorded paths without a blank line; their files are left in place
	Skipped []string
	// PrunedDirs lists directories removed because the merge left them empty
	PrunedDirs []string
}

// Body returns the part of a generated file after its boilerplate header:
// everything from the second byte of the first blank line. ok is false when
// the file has no blank line.
func Body(content []byte) (body []byte, ok bool) {
	i := bytes.Index(content, bindings.BlankLine)
	if i < 0 {
		return nil, false
	}
	return content[i+1:], true
}

// Merge concatenates the body of every path into the index, deletes the
// merged files and prunes directories left empty.
//
// Any read, write or delete failure aborts the merge. Bodies are staged in
// a temporary file, so a failed read leaves both the previous index and all
// per-type files untouched.
func (w *Writer) Merge(paths []string) (*MergeResult, error) {
	result := &MergeResult{IndexPath: w.IndexPath()}

	s, err := w.open()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var merged []string
	for _, p := range paths {
		full, err := w.resolve(p)
		if err != nil {
			return nil, err
		}

		content, err := afero.ReadFile(w.fs, full)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", full)
		}

		body, ok := Body(content)
		if !ok {
			w.log.Warnw("Skipping file without a blank line after its header", logger.FieldPath, p)
			result.Skipped = append(result.Skipped, p)
			continue
		}

		if err := s.write(body); err != nil {
			return nil, err
		}
		merged = append(merged, full)
		result.Merged = append(result.Merged, p)
		w.log.Debugw("Merged file", logger.FieldPath, p, logger.FieldBytes, len(body))
	}

	if err := s.Commit(); err != nil {
		return nil, err
	}

	for _, full := range merged {
		if err := w.fs.Remove(full); err != nil {
			return nil, errors.Wrapf(err, "failed to delete merged file %s", full)
		}
	}

	pruned, err := RemoveEmptySubdirectories(w.fs, w.root)
	if err != nil {
		return nil, err
	}
	result.PrunedDirs = pruned

	w.log.Infow("Merged generated files into index",
		logger.FieldIndex, result.IndexPath,
		logger.FieldCount, len(result.Merged),
		"skipped", len(result.Skipped),
		"pruned", len(pruned),
		logger.FieldBytes, s.written)
	return result, nil
}
