package cliopt

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: SEARCHABLE_BACKEND,
// SEARCHABLE_PG_DSN, ...
const EnvPrefix = "SEARCHABLE"

// GlobalOptions are resolved once at the CLI root and passed to subcommands.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command and per-command code.
type GlobalOptions struct {
	Config string

	Backend      string
	SQLitePath   string
	SQLiteDriver string
	PostgresDSN  string
	PGSchema     string
	Mapping      string

	LogLevel  string
	LogFormat string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Backend:      "sqlite",
		SQLitePath:   ".",
		SQLiteDriver: "sqlite",
		Mapping:      "mapping.yaml",
		LogLevel:     "WARN",
		LogFormat:    "text",
	}
}

func BindGlobalFlags(fs *pflag.FlagSet, g *GlobalOptions) {
	fs.StringVar(&g.Config, "config", g.Config, "config file (yaml, json or toml)")

	fs.StringVar(&g.Backend, "backend", g.Backend, "backend: sqlite|postgres")
	fs.StringVar(&g.SQLitePath, "sqlite-path", g.SQLitePath, "sqlite directory or explicit .db file path")
	fs.StringVar(&g.SQLiteDriver, "sqlite-driver", g.SQLiteDriver, "database/sql driver: sqlite (pure Go) or sqlite3 (cgo)")
	fs.StringVar(&g.PostgresDSN, "pg-dsn", g.PostgresDSN, "postgres DSN")
	fs.StringVar(&g.PGSchema, "pg-schema", g.PGSchema, "postgres schema put first on search_path")
	fs.StringVar(&g.Mapping, "mapping", g.Mapping, "entity mapping file (yaml or json)")

	fs.StringVar(&g.LogLevel, "log-level", g.LogLevel, "log level: DEBUG|INFO|WARN|ERROR")
	fs.StringVar(&g.LogFormat, "log-format", g.LogFormat, "log format: text|json")
}

// Load resolves options with precedence flag > env > config file > default.
func Load(fs *pflag.FlagSet, g *GlobalOptions) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
		}
	}

	g.Config = v.GetString("config")
	g.Backend = v.GetString("backend")
	g.SQLitePath = v.GetString("sqlite-path")
	g.SQLiteDriver = v.GetString("sqlite-driver")
	g.PostgresDSN = v.GetString("pg-dsn")
	g.PGSchema = v.GetString("pg-schema")
	g.Mapping = v.GetString("mapping")
	g.LogLevel = v.GetString("log-level")
	g.LogFormat = v.GetString("log-format")
	return nil
}
