package config

import (
	"time"

	"github.com/spf13/viper"
)

func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":5000",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            3306,
			Name:            "notes",
			User:            "notes",
			Path:            "notes.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Log: Log{
			Level: "info",
			Rotation: LogRotation{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
			},
		},
	}
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)

	v.SetDefault("db.driver", defaults.Database.Driver)
	v.SetDefault("db.host", defaults.Database.Host)
	v.SetDefault("db.port", defaults.Database.Port)
	v.SetDefault("db.name", defaults.Database.Name)
	v.SetDefault("db.user", defaults.Database.User)
	v.SetDefault("db.password", defaults.Database.Password)
	v.SetDefault("db.path", defaults.Database.Path)
	v.SetDefault("db.max_open_conns", defaults.Database.MaxOpenConns)
	v.SetDefault("db.max_idle_conns", defaults.Database.MaxIdleConns)
	v.SetDefault("db.conn_max_lifetime", defaults.Database.ConnMaxLifetime)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.json", defaults.Log.JSON)
	v.SetDefault("log.no_color", defaults.Log.NoColor)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	v.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	v.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)
}
