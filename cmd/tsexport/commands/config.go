package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teranos/tsexport/am"
	"github.com/teranos/tsexport/errors"
	"github.com/teranos/tsexport/logger"
)

// loadConfig loads the configuration cascade with the command's flags on top.
func loadConfig(cmd *cobra.Command) (*am.Config, *viper.Viper, error) {
	configFile, _ := cmd.Flags().GetString("config")

	v, err := am.NewViper(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	cfg, err := am.LoadWithViper(v)
	if err != nil {
		return nil, nil, err
	}

	// log.json may come from the config file rather than the flag
	if cfg.Log.JSON && !logger.JSONOutput {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(true, verbosity); err != nil {
			return nil, nil, errors.Wrap(err, "failed to initialize logger")
		}
	}
	return cfg, v, nil
}

// loadValidConfig loads and validates the configuration.
func loadValidConfig(cmd *cobra.Command) (*am.Config, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
