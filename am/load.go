package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teranos/tsexport/errors"
)

// EnvPrefix prefixes every environment override, e.g. TSEXPORT_OUTPUT_DIRECTORY
const EnvPrefix = "TSEXPORT"

// NewViper builds a Viper instance with the full precedence cascade:
// defaults < config file < TSEXPORT_* environment < changed flags.
// An empty configFile searches upward from the working directory for
// tsexport.toml.
func NewViper(configFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configFile == "" {
		configFile = findProjectConfig()
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	if err := BindFlags(v, flags); err != nil {
		return nil, errors.Wrap(err, "failed to bind flags")
	}

	return v, nil
}

// Load reads the configuration from every source
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v, err := NewViper(configFile, flags)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// findProjectConfig walks up from the working directory looking for tsexport.toml.
// Returns empty string if none is found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(dir)
}

func findConfigFrom(dir string) string {
	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
