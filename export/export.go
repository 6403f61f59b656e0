// Package export is the codegen side of the contract in package bindings.
// A generator hands each type definition to an Exporter, which writes the
// per-type file and appends the matching record to the metadata file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/teranos/tsexport/bindings"
	"github.com/teranos/tsexport/errors"
)

// Declaration is one generated type definition.
type Declaration struct {
	// Name is the exported identifier
	Name string
	// Path is the file to write, relative to the output directory, with forward slashes
	Path string
	// Imports are full import statements placed between the notice and the body
	Imports []string
	// Body is the type definition itself
	Body string
}

// Exporter writes declarations into an output directory.
// It is safe for concurrent use; test binaries export from many goroutines.
type Exporter struct {
	fs           afero.Fs
	root         string
	metadataFile string

	mu sync.Mutex
}

// NewExporter creates an exporter that records into metadataFile inside root.
func NewExporter(fs afero.Fs, root, metadataFile string) *Exporter {
	if metadataFile == "" {
		metadataFile = bindings.DefaultMetadataFile
	}
	return &Exporter{fs: fs, root: root, metadataFile: metadataFile}
}

// MetadataPath returns the full path of the metadata file.
func (e *Exporter) MetadataPath() string {
	return filepath.Join(e.root, e.metadataFile)
}

// Render produces the file content for a declaration: notice, imports,
// one blank line, then the body.
func Render(d Declaration) string {
	var sb strings.Builder
	sb.WriteString(bindings.Notice)
	for _, imp := range d.Imports {
		sb.WriteString(imp)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(strings.TrimRight(d.Body, "\n"))
	sb.WriteString("\n")
	return sb.String()
}

// Export writes the declaration's file and appends its metadata record.
func (e *Exporter) Export(d Declaration) error {
	if d.Name == "" || strings.ContainsAny(d.Name, ",\n") {
		return errors.Newf("invalid export name %q", d.Name)
	}
	if d.Path == "" || strings.Contains(d.Path, "\n") {
		return errors.Newf("invalid export path %q for %s", d.Path, d.Name)
	}

	full := filepath.Join(e.root, filepath.FromSlash(d.Path))

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.fs.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", d.Path)
	}
	if err := afero.WriteFile(e.fs, full, []byte(Render(d)), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", full)
	}

	f, err := e.fs.OpenFile(e.MetadataPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to open metadata file %s", e.MetadataPath())
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s,%s\n", d.Name, d.Path); err != nil {
		return errors.Wrapf(err, "failed to record %s", d.Name)
	}
	return nil
}
