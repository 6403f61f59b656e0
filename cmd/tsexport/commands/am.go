package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tsexport/am"
	"github.com/teranos/tsexport/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage tsexport configuration",
	Long: `am - Manage tsexport configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (TSEXPORT_* prefix)
3. Project config (tsexport.toml, searched upward from the working directory)
4. Default values

Examples:
  tsexport am show                 # Show current configuration
  tsexport am show --output-format json   # Show configuration in JSON format
  tsexport am where                # Show where each setting comes from
  tsexport am init -o bindings     # Write a starter tsexport.toml
  tsexport am validate             # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective tsexport configuration from all sources",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each setting is loaded from",
	Args:  cobra.NoArgs,
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter tsexport.toml",
	Long:  "Write a tsexport.toml with every setting at its default into the working directory",
	Args:  cobra.NoArgs,
	RunE:  runAmInit,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var (
	configFormat string
	initForce    bool
)

func init() {
	// --format is the persistent codegen flag; the rendering format needs its own name
	amShowCmd.Flags().StringVar(&configFormat, "output-format", "toml", "Output format: toml, json, yaml")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing tsexport.toml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
	AmCmd.AddCommand(amValidateCmd)
}

// renderConfig marshals cfg in the requested format.
func renderConfig(cfg *am.Config, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to JSON")
		}
		return append(data, '\n'), nil

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to YAML")
		}
		return append([]byte("# tsexport configuration\n"), data...), nil

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to TOML")
		}
		return append([]byte("# tsexport configuration\n"), data...), nil

	default:
		return nil, errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := renderConfig(cfg, configFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	_, v, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(out, "  2. [FILE]     %s (searches up directories)\n", am.ProjectConfigName)
	fmt.Fprintf(out, "  3. [ENV]      %s_* environment variables\n", am.EnvPrefix)
	fmt.Fprintln(out, "  4. [FLAG]     Command line flags")
	fmt.Fprintln(out)

	if used := v.ConfigFileUsed(); used != "" {
		abs, _ := filepath.Abs(used)
		fmt.Fprintf(out, "Config file: %s\n\n", abs)
	} else {
		fmt.Fprintf(out, "Config file: none (no %s found)\n\n", am.ProjectConfigName)
	}

	printSettings(out, am.Introspect(v, cmd.Flags()))
	return nil
}

func printSettings(w io.Writer, settings []am.SettingInfo) {
	for _, s := range settings {
		source := string(s.Source)
		if s.SourcePath != "" {
			source += " " + s.SourcePath
		}
		fmt.Fprintf(w, "  %-26s = %-40v %s\n", s.Key, s.Value, pterm.Gray("("+source+")"))
	}
}

func runAmInit(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-directory")
	if outputDir == "" {
		outputDir = "bindings"
	}

	if err := am.WriteStarter(am.ProjectConfigName, outputDir, initForce); err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", am.ProjectConfigName)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	if err := cfg.ModeConflict(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
	return nil
}
