package am

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teranos/tsexport/bindings"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output_directory", "")
	v.SetDefault("no_warnings", false)
	v.SetDefault("esm_imports", false)
	v.SetDefault("format", false)
	v.SetDefault("index", false)
	v.SetDefault("merge", false)
	v.SetDefault("nocapture", false)

	v.SetDefault("extension", bindings.DefaultExtension)
	v.SetDefault("metadata_file", bindings.DefaultMetadataFile)

	// Test invocation defaults (ts-rs conventions)
	v.SetDefault("test.command", "cargo test export_bindings_")
	v.SetDefault("test.features", []string{"ts-rs/export", "ts-rs/generate-metadata"})
	v.SetDefault("test.no_warnings_feature", "ts-rs/no-serde-warnings")
	v.SetDefault("test.format_feature", "ts-rs/format")

	v.SetDefault("formatter.command", "")

	v.SetDefault("watch.paths", []string{"src"})
	v.SetDefault("watch.debounce_ms", 500)

	v.SetDefault("log.json", false)
}

// flagKeys maps CLI flag names to configuration keys
var flagKeys = map[string]string{
	"output-directory": "output_directory",
	"no-warnings":      "no_warnings",
	"esm-imports":      "esm_imports",
	"format":           "format",
	"index":            "index",
	"merge":            "merge",
	"nocapture":        "nocapture",
	"extension":        "extension",
	"test-command":     "test.command",
	"json-logs":        "log.json",
}

// RegisterFlags adds the configuration flags to a flag set
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("output-directory", "o", "", "Where bindings are saved (sets TS_RS_EXPORT_DIR)")
	fs.Bool("no-warnings", false, "Disable warnings about serde attributes the codegen cannot process")
	fs.Bool("esm-imports", false, "Add the \".js\" extension to import paths")
	fs.Bool("format", false, "Format the generated files")
	fs.Bool("index", false, "Generate an index file re-exporting every generated type")
	fs.Bool("merge", false, "Merge every generated type into a single index file")
	fs.Bool("nocapture", false, "Stream the test output instead of capturing it")
	fs.String("extension", bindings.DefaultExtension, "Extension of generated modules")
	fs.String("test-command", "", "Override the test command (shell-quoted)")
	fs.Bool("json-logs", false, "Emit logs as JSON")
}

// BindFlags binds every registered flag present in fs to its configuration key
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
