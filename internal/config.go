package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Store backends.
const (
	BackendInflux = "influx"
	BackendSQLite = "sqlite"
)

// Config represents the application configuration. Values typically
// arrive through ${VAR} references expanded from the environment, so a
// deployment can be driven entirely by env vars (DB_HOST, DB_PORT,
// DB_NAME, VAULT_PATH, NOTES_DIR).
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	Store  StoreConfig       `yaml:"store"`
	Influx InfluxConfig      `yaml:"influx"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
}

// Validate validates the configuration. Only the selected backend's
// section is checked, so a sqlite run does not demand Influx settings.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	switch c.Store.Backend {
	case BackendInflux:
		return c.Influx.Validate()
	case BackendSQLite:
		return c.SQLite.Validate()
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// VaultConfig locates the daily notes inside the vault.
type VaultConfig struct {
	Path     string `yaml:"path"`
	NotesDir string `yaml:"notes_dir"` // relative to Path; empty means the vault root
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// StoreConfig selects the point-store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
}

// Validate validates the store selection. An empty backend defaults to
// influx, the deployment the tool was built for.
func (c *StoreConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = BackendInflux
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendInflux, BackendSQLite)),
	)
}

// InfluxConfig holds the InfluxDB connection settings.
type InfluxConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Database    string `yaml:"database"`
	Measurement string `yaml:"measurement"`
}

// Validate validates the InfluxDB configuration.
func (c *InfluxConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Database, validation.Required),
	)
}

// SQLiteConfig holds the local store path.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path:     "./vault",
			NotesDir: "daily",
		},
		Store: StoreConfig{
			Backend: BackendInflux,
		},
		Influx: InfluxConfig{
			Host:        "localhost",
			Port:        8086,
			Database:    "notes",
			Measurement: "notes",
		},
		SQLite: SQLiteConfig{
			Path: "./jera.db",
		},
	}
}
