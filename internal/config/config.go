package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads the yaml config at path, applies defaults, resolves
// credential env vars and validates the result. A validation failure is
// fatal to the caller: nothing network-facing may run on a bad config.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	applyDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	resolveSecrets(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a validated Config from an already-populated viper
// instance. Tests use it to avoid touching the filesystem.
func FromViper(v *viper.Viper) (*Config, error) {
	applyDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	resolveSecrets(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	return &cfg, nil
}

// resolveSecrets pulls credential material out of the environment. The
// config file only ever names the variables, never their values.
func resolveSecrets(cfg *Config) {
	cfg.Binance.APIKey = strings.TrimSpace(os.Getenv(cfg.Binance.APIKeyEnv))
	cfg.Binance.APISecret = strings.TrimSpace(os.Getenv(cfg.Binance.APISecretEnv))
	cfg.Approval.BotToken = strings.TrimSpace(os.Getenv(cfg.Approval.BotTokenEnv))
	cfg.Approval.ChatID = strings.TrimSpace(os.Getenv(cfg.Approval.ChatIDEnv))
}
