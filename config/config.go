package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Storage
	Database   DatabaseConfig
	Encryption EncryptionConfig

	// Providers
	OAuth    OAuthConfig
	Calendar CalendarConfig

	Middleware MiddlewareConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// DatabaseConfig selects the credential store backend.
type DatabaseConfig struct {
	Driver          string // postgres | memory
	DSN             string
	MigrationsDir   string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type EncryptionConfig struct {
	Key string
}

type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Tenant       string
}

type OAuthConfig struct {
	Google    OAuthProviderConfig
	Microsoft OAuthProviderConfig
}

type CalendarConfig struct {
	ProviderTimeout  time.Duration
	MaxParallel      int
	RefreshMargin    time.Duration
	GoogleCalendarID string
	MicrosoftBaseURL string
	DefaultTimeZone  string
}

type MiddlewareConfig struct {
	InternalKey     string
	RateLimitPerMin int
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Load loads configuration using Viper. A .env file, when present, is
// loaded into the process environment first.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.ShutdownTimeout = viper.GetDuration("http_server.shutdown_timeout")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Storage
	cfg.Database.Driver = strings.ToLower(viper.GetString("database.driver"))
	cfg.Database.DSN = viper.GetString("database.dsn")
	if dsn := viper.GetString("database_url"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	cfg.Database.MigrationsDir = viper.GetString("database.migrations_dir")
	cfg.Database.MaxOpenConns = viper.GetInt("database.max_open_conns")
	cfg.Database.MaxIdleConns = viper.GetInt("database.max_idle_conns")
	cfg.Database.ConnMaxLifetime = viper.GetDuration("database.conn_max_lifetime")
	cfg.Encryption.Key = viper.GetString("encryption.key")

	// OAuth
	cfg.OAuth.Google = loadOAuthProvider("oauth.google")
	cfg.OAuth.Microsoft = loadOAuthProvider("oauth.microsoft")

	// Calendar
	cfg.Calendar.ProviderTimeout = viper.GetDuration("calendar.provider_timeout")
	cfg.Calendar.MaxParallel = viper.GetInt("calendar.max_parallel")
	cfg.Calendar.RefreshMargin = viper.GetDuration("calendar.refresh_margin")
	cfg.Calendar.GoogleCalendarID = viper.GetString("calendar.google_calendar_id")
	cfg.Calendar.MicrosoftBaseURL = viper.GetString("calendar.microsoft_base_url")
	cfg.Calendar.DefaultTimeZone = viper.GetString("calendar.default_time_zone")

	// Middleware
	cfg.Middleware.InternalKey = viper.GetString("middleware.internal_key")
	cfg.Middleware.RateLimitPerMin = viper.GetInt("middleware.rate_limit_per_min")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadOAuthProvider(prefix string) OAuthProviderConfig {
	return OAuthProviderConfig{
		ClientID:     viper.GetString(prefix + ".client_id"),
		ClientSecret: viper.GetString(prefix + ".client_secret"),
		RedirectURL:  viper.GetString(prefix + ".redirect_url"),
		Scopes:       getList(prefix + ".scopes"),
		Tenant:       viper.GetString(prefix + ".tenant"),
	}
}

func (cfg *Config) validate() error {
	switch cfg.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", cfg.Database.Driver)
	}
	if cfg.Encryption.Key == "" {
		return fmt.Errorf("encryption.key is required")
	}
	if cfg.Calendar.MaxParallel < 0 {
		return fmt.Errorf("calendar.max_parallel must not be negative")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("http_server.shutdown_timeout", "10s")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("database.driver", DriverMemory)
	viper.SetDefault("database.migrations_dir", "migrations")
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "30m")

	viper.SetDefault("oauth.microsoft.tenant", "common")

	viper.SetDefault("calendar.provider_timeout", "10s")
	viper.SetDefault("calendar.max_parallel", 4)
	viper.SetDefault("calendar.refresh_margin", "120s")
	viper.SetDefault("calendar.google_calendar_id", "primary")
	viper.SetDefault("calendar.default_time_zone", "UTC")

	viper.SetDefault("middleware.rate_limit_per_min", 120)
}

// getList reads a yaml list or a comma separated env value, since viper
// does not parse arrays from env.
func getList(key string) []string {
	if _, ok := viper.Get(key).([]interface{}); ok {
		return viper.GetStringSlice(key)
	}
	var out []string
	for _, s := range strings.Split(viper.GetString(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
