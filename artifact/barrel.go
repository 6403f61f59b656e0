package artifact

import (
	"fmt"

	"github.com/teranos/tsexport/bindings"
	"github.com/teranos/tsexport/logger"
)

// WriteBarrel writes an index that re-exports every path, in order.
// Generated per-type files are not touched. Running it twice over the same
// paths produces identical bytes.
func (w *Writer) WriteBarrel(paths []string) (string, error) {
	for _, p := range paths {
		if _, err := w.resolve(p); err != nil {
			return "", err
		}
	}

	s, err := w.open()
	if err != nil {
		return "", err
	}
	defer s.Close()

	for _, p := range paths {
		line := fmt.Sprintf("\nexport * from %q;", bindings.ImportSpecifier(p, w.ext, w.esm))
		if err := s.writeString(line); err != nil {
			return "", err
		}
	}

	if err := s.Commit(); err != nil {
		return "", err
	}

	w.log.Infow("Wrote barrel index",
		logger.FieldIndex, s.target,
		logger.FieldCount, len(paths),
		logger.FieldBytes, s.written)
	return s.target, nil
}
