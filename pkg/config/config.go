// Package config loads connection configuration from YAML files and
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"digital.vasic.transfer/pkg/client"
)

// envPrefix namespaces environment overrides, e.g. TRANSFER_HOST,
// TRANSFER_DIRECTORY_PATH.
const envPrefix = "TRANSFER"

// Load reads a connection configuration from the given YAML file.
// Environment variables prefixed with TRANSFER_ override file values. With
// an empty path only the environment is consulted.
func Load(path string) (*client.ConnectionConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %v", client.ErrInvalidConfig, err)
		}
	}

	var cfg client.ConnectionConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrInvalidConfig, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required fields of a connection configuration.
func Validate(cfg *client.ConnectionConfig) error {
	if cfg == nil || cfg.Host == "" {
		return fmt.Errorf("%w: host is required", client.ErrInvalidConfig)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", client.ErrInvalidConfig, cfg.Port)
	}
	return nil
}

// bindKeys registers every config key with viper so environment overrides
// are picked up even when the key is absent from the file.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"host",
		"username",
		"password",
		"port",
		"secure",
		"directory_path",
		"timeout",
	} {
		_ = v.BindEnv(key)
	}
}
