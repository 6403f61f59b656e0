// Package metadata holds the records emitted by the codegen step during a
// test run and answers the questions the artifact writer needs: is there
// anything to export, do any names collide, and which files are involved.
package metadata

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/teranos/tsexport/errors"
)

// Record links an exported type name to the file its definition was written to,
// relative to the output directory.
type Record struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Store is the set of records collected during one run, in file order.
type Store struct {
	records []Record

	// byName keeps the distinct paths of each name in first-seen order
	byName map[string][]string
	// names keeps names in first-seen order
	names []string
}

// New builds a store from records, preserving their order.
func New(records []Record) *Store {
	s := &Store{byName: make(map[string][]string)}
	for _, r := range records {
		s.add(r)
	}
	return s
}

func (s *Store) add(r Record) {
	s.records = append(s.records, r)

	paths, seen := s.byName[r.Name]
	if !seen {
		s.names = append(s.names, r.Name)
	}
	for _, p := range paths {
		if p == r.Path {
			return
		}
	}
	s.byName[r.Name] = append(paths, r.Path)
}

// Parse decodes the metadata file content: one "name,path" record per line.
// Blank lines are ignored; any other malformed line fails the whole parse.
func Parse(raw string) (*Store, error) {
	s := New(nil)

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		name, path, ok := strings.Cut(text, ",")
		if !ok {
			return nil, errors.NewMetadataError("line %d: expected \"name,path\", got %q", line, text)
		}
		if name == "" {
			return nil, errors.NewMetadataError("line %d: empty type name", line)
		}
		if path == "" {
			return nil, errors.NewMetadataError("line %d: empty path for %s", line, name)
		}
		s.add(Record{Name: name, Path: path})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to scan metadata"), errors.ErrMetadataParse)
	}

	return s, nil
}

// Load reads and parses the metadata file at path.
// A missing file yields an empty store: the test run exported nothing.
func Load(fs afero.Fs, path string) (*Store, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, errors.Wrapf(err, "failed to read metadata file %s", path)
	}

	s, err := Parse(string(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse metadata file %s", path)
	}
	return s, nil
}

// IsEmpty reports whether no records were collected.
func (s *Store) IsEmpty() bool {
	return len(s.records) == 0
}

// Len returns the number of records, duplicates included.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of all records in file order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// ExportPaths returns every distinct path in order of first appearance.
func (s *Store) ExportPaths() []string {
	seen := make(map[string]struct{}, len(s.records))
	paths := make([]string, 0, len(s.records))
	for _, r := range s.records {
		if _, dup := seen[r.Path]; dup {
			continue
		}
		seen[r.Path] = struct{}{}
		paths = append(paths, r.Path)
	}
	return paths
}
