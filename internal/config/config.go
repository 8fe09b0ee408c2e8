package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/Rana718/agriseed/internal/seeder"
)

type Config struct {
	Version    string   `json:"version" mapstructure:"version"`
	ExportPath string   `json:"export_path" mapstructure:"export_path"`
	Database   Database `json:"database" mapstructure:"database"`
	Seed       Seed     `json:"seed" mapstructure:"seed"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	Driver   string `json:"driver,omitempty" mapstructure:"driver"` // postgres only: pgx (default) or pq
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Seed struct {
	Users       int   `json:"users" mapstructure:"users"`
	Industries  int   `json:"industries" mapstructure:"industries"`
	Credits     int   `json:"credits" mapstructure:"credits"`
	Productions int   `json:"productions" mapstructure:"productions"`
	RandomSeed  int64 `json:"random_seed,omitempty" mapstructure:"random_seed"`
	FailFast    bool  `json:"fail_fast,omitempty" mapstructure:"fail_fast"`
}

// Load reads the config viper has collected and fills in defaults.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaults := seeder.DefaultOptions()

	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.ExportPath == "" {
		cfg.ExportPath = "db/export"
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if !v.IsSet("seed.users") {
		cfg.Seed.Users = defaults.Users
	}
	if !v.IsSet("seed.industries") {
		cfg.Seed.Industries = defaults.Industries
	}
	if !v.IsSet("seed.credits") {
		cfg.Seed.Credits = defaults.Credits
	}
	if !v.IsSet("seed.productions") {
		cfg.Seed.Productions = defaults.Productions
	}

	return &cfg, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	switch c.Database.Driver {
	case "", "pgx", "pq":
	default:
		return fmt.Errorf("unsupported database driver: %s. Supported drivers: pgx, pq", c.Database.Driver)
	}
	if c.Database.Driver != "" && c.Database.Provider != "postgresql" && c.Database.Provider != "postgres" {
		return fmt.Errorf("database driver can only be set for postgresql")
	}

	counts := map[string]int{
		"seed.users":       c.Seed.Users,
		"seed.industries":  c.Seed.Industries,
		"seed.credits":     c.Seed.Credits,
		"seed.productions": c.Seed.Productions,
	}
	for key, n := range counts {
		if n < 0 {
			return fmt.Errorf("%s cannot be negative", key)
		}
	}

	if c.ExportPath == "" {
		return fmt.Errorf("export_path cannot be empty")
	}

	return nil
}

// SeedOptions converts the seed section into seeder options.
func (c *Config) SeedOptions() seeder.Options {
	return seeder.Options{
		Users:       c.Seed.Users,
		Industries:  c.Seed.Industries,
		Credits:     c.Seed.Credits,
		Productions: c.Seed.Productions,
		Seed:        c.Seed.RandomSeed,
		FailFast:    c.Seed.FailFast,
	}
}

func (c *Config) EnsureDirectories() error {
	if c.ExportPath == "" || c.ExportPath == "." {
		return nil
	}
	if err := os.MkdirAll(c.ExportPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.ExportPath, err)
	}
	return nil
}
