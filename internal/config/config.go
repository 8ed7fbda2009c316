// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the Health Diary configuration from YAML files,
// environment variables and CLI flags, in that order of precedence
// (flags win).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Database selects the storage backend and how to reach it.
type Database struct {
	// Type is sqlite, mysql or postgres.
	Type string `mapstructure:"type" yaml:"type"`
	// DSN is the remote connection string, unused for sqlite.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
	// LocalPath is the SQLite database file used locally and as the
	// fallback target when the remote backend is unreachable.
	LocalPath string `mapstructure:"local_path" yaml:"local_path"`
	// ForceLocal pins the app to the local SQLite file even when a
	// remote backend is configured.
	ForceLocal bool `mapstructure:"force_local" yaml:"force_local"`
}

// Config is the full application configuration.
type Config struct {
	Database Database `mapstructure:"database" yaml:"database"`
	// Language is the UI locale (en or ru).
	Language string `mapstructure:"language" yaml:"language"`
	Debug    bool   `mapstructure:"debug" yaml:"debug"`
	// SessionDays is the "remember me" session lifetime in days.
	SessionDays int `mapstructure:"session_days" yaml:"session_days"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":        "sqlite",
		"database.dsn":         "",
		"database.local_path":  "./healthdiary.db",
		"database.force_local": false,
		"language":             "en",
		"debug":                false,
		"session_days":         30,
	}
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "HealthDiary")
		default:
			configDir = "/etc/healthdiary"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "healthdiary")
	}

	return filepath.Join(configDir, "healthdiary.yaml"), nil
}

// Load resolves the configuration for a command invocation. An explicit
// config file path (from --config) has the highest file precedence; then
// the user and system config directories and the current directory are
// searched for healthdiary.yaml. Environment variables use the
// HEALTHDIARY_ prefix with dots replaced by underscores.
func Load(cmd *cobra.Command, configFile string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("healthdiary")
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file just means defaults; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("healthdiary")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteDefaultConfig writes a commented starter config to the user config
// directory unless one already exists. Returns the file path.
func WriteDefaultConfig() (string, error) {
	path, err := getConfigPath(false)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	c := Config{
		Database: Database{
			Type:      "sqlite",
			LocalPath: "./healthdiary.db",
		},
		Language:    "en",
		SessionDays: 30,
	}
	data, err := yaml.Marshal(&c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	// 0600 since the DSN may carry credentials.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// DBBackend maps the configured database type to a backend name,
// defaulting to sqlite for unknown values.
func (c Config) DBBackend() string {
	switch strings.ToLower(strings.TrimSpace(c.Database.Type)) {
	case "mysql", "mariadb":
		return "mysql"
	case "postgres", "postgresql":
		return "postgres"
	default:
		return "sqlite"
	}
}
