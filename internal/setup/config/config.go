package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrConfigFileNotFound is returned when config.toml cannot be found in any search path.
var ErrConfigFileNotFound = errors.New("could not find config file in any config path")

// Config represents the entire application configuration.
type Config struct {
	Debug       Debug       `koanf:"debug"`
	Discord     Discord     `koanf:"discord"`
	PostgreSQL  PostgreSQL  `koanf:"postgresql"`
	Redis       Redis       `koanf:"redis"`
	Enforcement Enforcement `koanf:"enforcement"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
}

// Discord contains Discord gateway configuration.
type Discord struct {
	// Bot token used to authenticate with the gateway.
	Token string `koanf:"token"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	DBName       string `koanf:"db_name"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"`
	MaxIdleTime  int    `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Enforcement contains tunables for the role enforcement engine.
type Enforcement struct {
	// Maximum members fetched per page during a sweep.
	PageSize int `koanf:"page_size"`
	// Minimum milliseconds between role mutation requests.
	MutationDelay int `koanf:"mutation_delay"`
	// Minimum milliseconds between member list page fetches.
	PaginationDelay int `koanf:"pagination_delay"`
	// Jitter in milliseconds applied on top of both delays.
	Jitter int `koanf:"jitter"`
	// Seconds before an abandoned sweep guard expires on its own.
	SweepGuardTTL int `koanf:"sweep_guard_ttl"`
}

// LoadConfig loads config.toml from the first search path that has one
// and returns the parsed configuration along with the path it was found in.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configPaths := []string{
		".rolewarden",
		homeDir + "/.rolewarden/config",
		"/etc/rolewarden/config",
		"/app/config",
		"config",
		".",
	}

	var usedConfigPath string

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/config.toml", path)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	if usedConfigPath == "" {
		return nil, "", fmt.Errorf("%w: config.toml", ErrConfigFileNotFound)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, usedConfigPath, nil
}
