package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Paging   PagingConfig   `mapstructure:"paging"`
	Backend  BackendConfig  `mapstructure:"backend"`
	User     UserConfig     `mapstructure:"user"`
	Log      LogConfig      `mapstructure:"log"`
	Identity IdentityConfig `mapstructure:"identity"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DatabaseConfig selects the sqlite file and driver. Driver "sqlite3" is the
// cgo driver, "sqlite" the pure Go one.
type DatabaseConfig struct {
	Path   string `mapstructure:"path"`
	Driver string `mapstructure:"driver"`
}

// PagingConfig holds list pagination defaults.
type PagingConfig struct {
	PageSize int `mapstructure:"page_size"`
	Window   int `mapstructure:"window"`
}

// BackendConfig bounds record store and identity calls.
type BackendConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// UserConfig identifies the desk user. Role is used when the user record
// carries none.
type UserConfig struct {
	ID   string `mapstructure:"id"`
	Role string `mapstructure:"role"`
}

// LogConfig holds logging settings. An empty file disables logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// IdentityConfig lists the field suffixes that mark identity references.
type IdentityConfig struct {
	Suffixes []string `mapstructure:"suffixes"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Locale   string `mapstructure:"locale"`
	Currency string `mapstructure:"currency"`
}

const (
	DriverCgo    = "sqlite3"
	DriverPureGo = "sqlite"
)

func home() string { return os.Getenv("HOME") }

// DefaultPath returns the config file location, honouring RECRUITDESK_CONFIG.
func DefaultPath() string {
	if p := os.Getenv("RECRUITDESK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home(), ".config", "recruitdesk", "config.toml")
}

func setDefaults(v *viper.Viper) {
	share := filepath.Join(home(), ".local", "share", "recruitdesk")
	v.SetDefault("database.path", filepath.Join(share, "recruitdesk.db"))
	v.SetDefault("database.driver", DriverCgo)
	v.SetDefault("paging.page_size", 5)
	v.SetDefault("paging.window", 5)
	v.SetDefault("backend.timeout", "3s")
	v.SetDefault("user.id", "u-rhea")
	v.SetDefault("user.role", "default")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(share, "recruitdesk.log"))
	v.SetDefault("identity.suffixes", []string{"owner_id", "created_by_id", "last_modified_by_id"})
	v.SetDefault("ui.locale", "en-US")
	v.SetDefault("ui.currency", "USD")
}

// Load reads configuration from file and env. Env var overrides use prefix RECRUITDESK_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("RECRUITDESK_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home(), ".config", "recruitdesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RECRUITDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the app cannot run with.
func (c Config) Validate() error {
	if c.Paging.PageSize <= 0 {
		return fmt.Errorf("paging.page_size must be positive, got %d", c.Paging.PageSize)
	}
	if c.Paging.Window <= 0 {
		return fmt.Errorf("paging.window must be positive, got %d", c.Paging.Window)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %s", c.Backend.Timeout)
	}
	switch c.Database.Driver {
	case DriverCgo, DriverPureGo:
	default:
		return fmt.Errorf("database.driver %q: want %q or %q", c.Database.Driver, DriverCgo, DriverPureGo)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The settings screen uses it for the page size and the fallback role.
func Save(cfg Config) error {
	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("paging.page_size", cfg.Paging.PageSize)
	v.Set("paging.window", cfg.Paging.Window)
	v.Set("backend.timeout", cfg.Backend.Timeout.String())
	v.Set("user.id", cfg.User.ID)
	v.Set("user.role", cfg.User.Role)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("identity.suffixes", cfg.Identity.Suffixes)
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("ui.currency", cfg.UI.Currency)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
