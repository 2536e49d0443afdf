package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Driver string
		Path   string
		DSN    string
	}
	Auth struct {
		Header  string
		AdminID int64
	}
	Log struct {
		Level string
	}
	Metrics struct {
		Enabled bool
	}
	Backup struct {
		Bucket    string
		KeyPrefix string
		Keep      int
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	return load(".")
}

func load(dir string) (Config, error) {
	// variables already present in the environment win over .env
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("KEYED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:7777")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/keyed.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("auth.header", "Authorization")
	v.SetDefault("auth.adminid", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("backup.bucket", "")
	v.SetDefault("backup.keyprefix", "keyed-backups")
	v.SetDefault("backup.keep", 7)
	v.SetDefault("backup.region", "us-east-1")
	v.SetDefault("backup.endpoint", "")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(dir)
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.Auth.Header) == "" {
		return Config{}, fmt.Errorf("auth header name is required")
	}
	if cfg.Auth.AdminID <= 0 {
		return Config{}, fmt.Errorf("auth admin id must be positive")
	}

	return cfg, nil
}

// DataSource returns the connection string for the configured driver.
func (c Config) DataSource() string {
	if strings.EqualFold(c.Database.Driver, "postgres") {
		return c.Database.DSN
	}
	return c.Database.Path
}
