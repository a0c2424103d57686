package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server   `mapstructure:"server" yaml:"server"`
	Database Database `mapstructure:"db"     yaml:"db"`
	Log      Log      `mapstructure:"log"    yaml:"log"`
}

type Server struct {
	Addr            string        `mapstructure:"addr"             yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Database holds the connection parameters of the notes store. Driver is
// either "mysql" or "sqlite"; Path is only read by the sqlite driver.
type Database struct {
	Driver          string        `mapstructure:"driver"            yaml:"driver"`
	Host            string        `mapstructure:"host"              yaml:"host"`
	Port            int           `mapstructure:"port"              yaml:"port"`
	Name            string        `mapstructure:"name"              yaml:"name"`
	User            string        `mapstructure:"user"              yaml:"user"`
	Password        string        `mapstructure:"password"          yaml:"password"`
	Path            string        `mapstructure:"path"              yaml:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    yaml:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

type Log struct {
	Level    string      `mapstructure:"level"    yaml:"level"`
	JSON     bool        `mapstructure:"json"     yaml:"json"`
	NoColor  bool        `mapstructure:"no_color" yaml:"no_color"`
	File     string      `mapstructure:"file"     yaml:"file"`
	Rotation LogRotation `mapstructure:"rotation" yaml:"rotation"`
}

type LogRotation struct {
	MaxSize    int  `mapstructure:"max_size"    yaml:"max_size"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"     yaml:"max_age"`
	Compress   bool `mapstructure:"compress"    yaml:"compress"`
}

var envFiles = []string{".env", ".env.local"}

// Load reads .env files, the optional YAML file at path and the process
// environment into a Config. A nil v uses a fresh viper instance.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	for _, envFile := range envFiles {
		// Missing .env files are not an error.
		_ = godotenv.Load(envFile)
		if path != "" {
			_ = godotenv.Load(filepath.Join(filepath.Dir(path), envFile))
		}
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "mysql":
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("db.host and db.name are required for the mysql driver")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("db.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported db.driver %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("db.max_open_conns must be at least 1")
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Database.Password != "" {
		c.Database.Password = "********"
	}
	return c
}
