// Package artifact turns the collected export paths into the final index
// file: either a barrel of re-exports or a single merged module.
package artifact

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/tsexport/bindings"
	"github.com/teranos/tsexport/errors"
	"github.com/teranos/tsexport/logger"
)

// Writer produces artifacts inside one output directory.
type Writer struct {
	fs   afero.Fs
	root string
	ext  string
	esm  bool
	log  *zap.SugaredLogger
}

// Option configures a Writer.
type Option func(*Writer)

// WithExtension sets the module extension (without the dot).
func WithExtension(ext string) Option {
	return func(w *Writer) { w.ext = ext }
}

// WithESMImports makes barrel re-exports reference ".js" modules.
func WithESMImports(esm bool) Option {
	return func(w *Writer) { w.esm = esm }
}

// WithLogger overrides the component logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(w *Writer) { w.log = l }
}

// NewWriter creates a writer rooted at the output directory.
func NewWriter(fs afero.Fs, root string, opts ...Option) *Writer {
	w := &Writer{
		fs:   fs,
		root: filepath.Clean(root),
		ext:  bindings.DefaultExtension,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.Named("artifact")
	}
	return w
}

// IndexPath is where the artifact is written.
func (w *Writer) IndexPath() string {
	return filepath.Join(w.root, bindings.IndexName(w.ext))
}

// resolve maps a recorded path onto the file system, refusing anything
// that would land outside the output directory or on the index itself.
func (w *Writer) resolve(p string) (string, error) {
	native := filepath.FromSlash(p)
	if filepath.IsAbs(native) || filepath.VolumeName(native) != "" {
		return "", errors.Mark(errors.Newf("recorded path %q is absolute", p), errors.ErrPathEscape)
	}

	full := filepath.Join(w.root, native)
	rel, err := filepath.Rel(w.root, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Mark(errors.Newf("recorded path %q escapes %s", p, w.root), errors.ErrPathEscape)
	}
	if full == w.IndexPath() {
		return "", errors.WithHint(
			errors.Mark(errors.Newf("recorded path %q is the index file", p), errors.ErrReservedPath),
			"export the type to a different file")
	}
	return full, nil
}

// session is one scoped write of the index file. Content goes to a
// temporary file in the output directory; Commit renames it into place and
// Close discards it if Commit never ran.
type session struct {
	fs        afero.Fs
	tmp       afero.File
	target    string
	written   int
	committed bool
}

func (w *Writer) open() (*session, error) {
	if err := w.fs.MkdirAll(w.root, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", w.root)
	}

	tmp, err := afero.TempFile(w.fs, w.root, ".index-*.tmp")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temporary index file")
	}

	s := &session{fs: w.fs, tmp: tmp, target: w.IndexPath()}
	if err := s.write([]byte(bindings.Notice)); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) write(b []byte) error {
	n, err := s.tmp.Write(b)
	s.written += n
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", s.target)
	}
	return nil
}

func (s *session) writeString(str string) error {
	return s.write([]byte(str))
}

// Commit replaces the target with the written content.
func (s *session) Commit() error {
	if err := s.tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close temporary file for %s", s.target)
	}
	if err := s.fs.Chmod(s.tmp.Name(), 0644); err != nil {
		return errors.Wrapf(err, "failed to set permissions on %s", s.tmp.Name())
	}

	// Rename does not replace an existing file on every platform
	if err := s.fs.Remove(s.target); err != nil && !isNotExist(err) {
		return errors.Wrapf(err, "failed to remove previous %s", s.target)
	}
	if err := s.fs.Rename(s.tmp.Name(), s.target); err != nil {
		return errors.Wrapf(err, "failed to move index into place at %s", s.target)
	}

	s.committed = true
	return nil
}

// Close releases the session. It is safe to call after Commit.
func (s *session) Close() {
	if s.committed {
		return
	}
	_ = s.tmp.Close()
	_ = s.fs.Remove(s.tmp.Name())
}
