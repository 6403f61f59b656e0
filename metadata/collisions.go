package metadata

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// Collision is one exported name that was written to more than one file.
type Collision struct {
	Name  string   `json:"name"`
	Paths []string `json:"paths"`
}

// HasNamingCollisions reports whether any name maps to more than one
// distinct path. The same name recorded twice with the same path is not a
// collision.
func (s *Store) HasNamingCollisions() bool {
	for _, paths := range s.byName {
		if len(paths) > 1 {
			return true
		}
	}
	return false
}

// Collisions lists colliding names in order of first appearance.
func (s *Store) Collisions() []Collision {
	var out []Collision
	for _, name := range s.names {
		paths := s.byName[name]
		if len(paths) < 2 {
			continue
		}
		cp := make([]string, len(paths))
		copy(cp, paths)
		out = append(out, Collision{Name: name, Paths: cp})
	}
	return out
}

// ReportCollisions writes a human-readable listing of every colliding name
// and its paths to w. The store is not modified.
func (s *Store) ReportCollisions(w io.Writer) {
	for _, c := range s.Collisions() {
		fmt.Fprintf(w, "%s naming collision detected\n", pterm.Red("Error:"))
		fmt.Fprintf(w, "  %s is exported from:\n", pterm.Yellow("`"+c.Name+"`"))
		for _, p := range c.Paths {
			fmt.Fprintf(w, "    %s %s\n", pterm.Gray("-"), pterm.LightCyan(p))
		}
	}
}
