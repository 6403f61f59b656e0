// Package am holds tsexport configuration ("I am"): where bindings live,
// which artifact to produce and how the test tool is invoked.
package am

import (
	"path/filepath"

	"github.com/teranos/tsexport/bindings"
)

// Config represents the full tsexport configuration
type Config struct {
	// OutputDirectory is the root for the metadata file and all artifacts
	OutputDirectory string `mapstructure:"output_directory" toml:"output_directory" json:"output_directory" yaml:"output_directory"`
	// NoWarnings is forwarded to the codegen step
	NoWarnings bool `mapstructure:"no_warnings" toml:"no_warnings" json:"no_warnings" yaml:"no_warnings"`
	// ESMImports adds the ".js" extension to import specifiers
	ESMImports bool `mapstructure:"esm_imports" toml:"esm_imports" json:"esm_imports" yaml:"esm_imports"`
	// Format is forwarded to the codegen step and enables the post-format command
	Format bool `mapstructure:"format" toml:"format" json:"format" yaml:"format"`
	// GenerateIndex writes a barrel index re-exporting every generated file
	GenerateIndex bool `mapstructure:"index" toml:"index" json:"index" yaml:"index"`
	// MergeFiles merges every generated file into a single index
	MergeFiles bool `mapstructure:"merge" toml:"merge" json:"merge" yaml:"merge"`
	// NoCapture streams the test tool's output instead of capturing it
	NoCapture bool `mapstructure:"nocapture" toml:"nocapture" json:"nocapture" yaml:"nocapture"`

	Extension    string `mapstructure:"extension" toml:"extension" json:"extension" yaml:"extension"`             // Module extension without dot (default: ts)
	MetadataFile string `mapstructure:"metadata_file" toml:"metadata_file" json:"metadata_file" yaml:"metadata_file"` // Transient record file name (default: ts_rs.meta)

	Test      TestConfig      `mapstructure:"test" toml:"test" json:"test" yaml:"test"`
	Formatter FormatterConfig `mapstructure:"formatter" toml:"formatter" json:"formatter" yaml:"formatter"`
	Watch     WatchConfig     `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
	Log       LogConfig       `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// TestConfig configures the external test invocation that triggers codegen
type TestConfig struct {
	Command           string   `mapstructure:"command" toml:"command" json:"command" yaml:"command"`                                         // Shell-quoted command line (default: cargo test export_bindings_)
	Features          []string `mapstructure:"features" toml:"features" json:"features" yaml:"features"`                                     // Always-enabled features
	NoWarningsFeature string   `mapstructure:"no_warnings_feature" toml:"no_warnings_feature" json:"no_warnings_feature" yaml:"no_warnings_feature"` // Added when no_warnings is set
	FormatFeature     string   `mapstructure:"format_feature" toml:"format_feature" json:"format_feature" yaml:"format_feature"`             // Added when format is set
}

// FormatterConfig configures the optional command run on the artifact
type FormatterConfig struct {
	Command string `mapstructure:"command" toml:"command" json:"command" yaml:"command"` // Empty = no post-format step
}

// WatchConfig configures `tsexport watch`
type WatchConfig struct {
	Paths      []string `mapstructure:"paths" toml:"paths" json:"paths" yaml:"paths"`                   // Source trees to watch (default: ["src"])
	DebounceMS int      `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"` // Quiet period before re-running (default: 500)
}

// LogConfig configures log output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// ProjectConfigName is the project config file searched for upward from the working directory
const ProjectConfigName = "tsexport.toml"

// MetadataPath returns the full path of the transient metadata file
func (c *Config) MetadataPath() string {
	return filepath.Join(c.OutputDirectory, c.MetadataFile)
}

// IndexPath returns the full path of the artifact
func (c *Config) IndexPath() string {
	return filepath.Join(c.OutputDirectory, bindings.IndexName(c.Extension))
}

// WantsArtifact reports whether any artifact mode was requested
func (c *Config) WantsArtifact() bool {
	return c.GenerateIndex || c.MergeFiles
}

// Mode returns the requested artifact mode: "index", "merge", "none", or
// "conflict" when both modes are set
func (c *Config) Mode() string {
	switch {
	case c.GenerateIndex && c.MergeFiles:
		return "conflict"
	case c.GenerateIndex:
		return "index"
	case c.MergeFiles:
		return "merge"
	default:
		return "none"
	}
}
