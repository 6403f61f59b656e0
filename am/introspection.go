package am

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceFile        ConfigSource = "file"
	SourceEnvironment ConfigSource = "environment"
	SourceFlag        ConfigSource = "flag"
)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"` // File path, env var or flag name
}

// Introspect lists every effective setting with the source that won
func Introspect(v *viper.Viper, flags *pflag.FlagSet) []SettingInfo {
	keys := v.AllKeys()
	sort.Strings(keys)

	changedFlags := make(map[string]string)
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				changedFlags[key] = "--" + name
			}
		}
	}

	settings := make([]SettingInfo, 0, len(keys))
	for _, key := range keys {
		info := SettingInfo{Key: key, Value: v.Get(key), Source: SourceDefault}

		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		switch {
		case changedFlags[key] != "":
			info.Source, info.SourcePath = SourceFlag, changedFlags[key]
		case hasEnv(envKey):
			info.Source, info.SourcePath = SourceEnvironment, envKey
		case v.InConfig(key):
			info.Source, info.SourcePath = SourceFile, v.ConfigFileUsed()
		}

		settings = append(settings, info)
	}
	return settings
}

func hasEnv(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
