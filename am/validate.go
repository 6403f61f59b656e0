package am

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/tsexport/errors"
)

// Validate checks that the configuration is structurally valid.
// Mutually exclusive modes are reported separately by ModeConflict.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputDirectory) == "" {
		return errors.WithHint(
			errors.NewConfigError("output_directory is required"),
			"pass --output-directory or set output_directory in tsexport.toml")
	}

	if c.Extension == "" {
		return errors.NewConfigError("extension cannot be empty")
	}
	if strings.HasPrefix(c.Extension, ".") || strings.ContainsAny(c.Extension, `/\`) {
		return errors.NewConfigError("extension %q must be a bare extension like \"ts\"", c.Extension)
	}

	if c.MetadataFile == "" || strings.ContainsAny(c.MetadataFile, `/\`) {
		return errors.NewConfigError("metadata_file %q must be a plain file name", c.MetadataFile)
	}

	args, err := shellquote.Split(c.Test.Command)
	if err != nil {
		return errors.NewConfigError("test.command %q: %v", c.Test.Command, err)
	}
	if len(args) == 0 {
		return errors.NewConfigError("test.command cannot be empty")
	}

	if _, err := shellquote.Split(c.Formatter.Command); err != nil {
		return errors.NewConfigError("formatter.command %q: %v", c.Formatter.Command, err)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.NewConfigError("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}

// ModeConflict returns an ErrConfigConflict error when both artifact modes
// are requested.
func (c *Config) ModeConflict() error {
	if c.GenerateIndex && c.MergeFiles {
		return errors.WithHint(
			errors.Mark(errors.New("--index is not compatible with --merge"), errors.ErrConfigConflict),
			"pass either --index or --merge")
	}
	return nil
}
