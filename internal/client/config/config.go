package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/charadev96/officedesk/internal/client/domain"
)

const (
	StoreTOML   = "toml"
	StoreSQLite = "sqlite"

	appDir = "officedesk"
)

type Config struct {
	BaseURL   string        `toml:"baseURL" env:"BASE_URL"`
	Timeout   time.Duration `toml:"timeout" env:"TIMEOUT"`
	Store     string        `toml:"store" env:"STORE"`
	StorePath string        `toml:"storePath" env:"STORE_PATH"`
	TokenKey  string        `toml:"tokenKey" env:"TOKEN_KEY"`
	AdminRole string        `toml:"adminRole" env:"ADMIN_ROLE"`
	Debug     bool          `toml:"debug" env:"DEBUG"`
}

func Default() Config {
	return Config{
		BaseURL:   "http://localhost:8080",
		Timeout:   15 * time.Second,
		Store:     StoreTOML,
		TokenKey:  "token",
		AdminRole: domain.RoleAdmin,
	}
}

// DefaultPath is config.toml under the user configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appDir, "config.toml"), nil
}

// Load reads path on top of the defaults and then applies OFFICEDESK_*
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to load config '%s': %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read config '%s': %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "OFFICEDESK_"}); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.StorePath == "" {
		cfg.StorePath = filepath.Join(filepath.Dir(path), defaultStoreFile(cfg.Store))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("invalid config, baseURL must be set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid config, timeout must be positive")
	}
	if c.Store != StoreTOML && c.Store != StoreSQLite {
		return fmt.Errorf("invalid config, unknown store '%s' (must be %s or %s)", c.Store, StoreTOML, StoreSQLite)
	}
	if c.TokenKey == "" {
		return fmt.Errorf("invalid config, tokenKey must be set")
	}
	if c.AdminRole == "" {
		return fmt.Errorf("invalid config, adminRole must be set")
	}
	return nil
}

func defaultStoreFile(store string) string {
	if store == StoreSQLite {
		return "session.db"
	}
	return "session.toml"
}
