// Package config loads defaults for the CLI from an optional YAML file and
// GPTCOPY_* environment variables. Command-line flags bound through
// Options.Flags override both.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	FileName  = ".gptcopy"
	EnvPrefix = "GPTCOPY"
)

// Keys shared by flags, the config file and the environment.
const (
	KeyWorkers           = "workers"
	KeyModel             = "model"
	KeyMaxFileSizeKB     = "max-file-size-kb"
	KeyTreeCompressItems = "tree-compress-items"
	KeyGlobalIgnore      = "global-ignore"
)

var keys = []string{KeyWorkers, KeyModel, KeyMaxFileSizeKB, KeyTreeCompressItems, KeyGlobalIgnore}

// Settings are the values a run takes from configuration.
type Settings struct {
	Workers           int    `mapstructure:"workers"`
	Model             string `mapstructure:"model"`
	MaxFileSizeKB     int    `mapstructure:"max-file-size-kb"`
	TreeCompressItems int    `mapstructure:"tree-compress-items"`
	GlobalIgnore      string `mapstructure:"global-ignore"`
}

// DefaultSettings are used when nothing else is configured.
var DefaultSettings = Settings{
	Workers:           0, // NumCPU
	Model:             "gpt-4o",
	MaxFileSizeKB:     0, // unlimited
	TreeCompressItems: 3,
}

// Options controls where Load looks.
type Options struct {
	ExplicitPath string                      // --config; must exist when set
	SearchDirs   []string                    // Searched in order for .gptcopy.yaml
	Flags        *pflag.FlagSet              // Flags named after the keys above; changed flags win
	Env          func(string) (string, bool) // Environment lookup; the process environment when nil
}

// Load resolves Settings. It returns the config file used, if any.
func Load(opts Options) (Settings, string, error) {
	v := viper.New()
	v.SetDefault(KeyWorkers, DefaultSettings.Workers)
	v.SetDefault(KeyModel, DefaultSettings.Model)
	v.SetDefault(KeyMaxFileSizeKB, DefaultSettings.MaxFileSizeKB)
	v.SetDefault(KeyTreeCompressItems, DefaultSettings.TreeCompressItems)
	v.SetDefault(KeyGlobalIgnore, DefaultSettings.GlobalIgnore)

	if opts.Env != nil {
		for _, key := range keys {
			if value, ok := opts.Env(envName(key)); ok {
				v.Set(key, value)
			}
		}
	} else {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
	}

	if opts.ExplicitPath != "" {
		v.SetConfigFile(opts.ExplicitPath)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range opts.SearchDirs {
			if dir != "" {
				v.AddConfigPath(dir)
			}
		}
	}
	if opts.ExplicitPath != "" || len(opts.SearchDirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if opts.ExplicitPath != "" || !errors.As(err, &notFound) {
				return Settings{}, "", fmt.Errorf("read configuration: %w", err)
			}
		}
	}

	if opts.Flags != nil {
		for _, key := range keys {
			if f := opts.Flags.Lookup(key); f != nil && f.Changed {
				v.Set(key, f.Value.String())
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, "", fmt.Errorf("decode configuration: %w", err)
	}
	if s.Workers < 0 || s.MaxFileSizeKB < 0 || s.TreeCompressItems < 0 {
		return Settings{}, "", fmt.Errorf("configuration values must not be negative")
	}
	return s, v.ConfigFileUsed(), nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
