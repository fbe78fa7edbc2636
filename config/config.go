// Package config loads runtime settings from the environment, an optional
// .env file and an optional config file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port string

	DBDriver string // "mysql" or "sqlite"
	DBDSN    string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	BcryptCost       int

	FirebaseCredentials string

	SeedDemo      bool
	SeedPasswords map[string]string

	ReminderSpec       string
	ReminderWindowDays int

	LogLevel  string
	LogFormat string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "pmdashboard.db")
	v.SetDefault("access_token_ttl", "30m")
	v.SetDefault("refresh_token_ttl", "168h")
	v.SetDefault("bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("seed_demo", false)
	v.SetDefault("seed_admin_password", "adminpass")
	v.SetDefault("seed_manager_password", "managerpass")
	v.SetDefault("seed_member_password", "memberpass")
	v.SetDefault("reminder_cron", "0 0 8 * * *")
	v.SetDefault("reminder_window_days", 3)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads .env (if present), then binds environment variables and an
// optional config file. Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Viper only consults the environment for keys it knows about.
	for _, key := range []string{"jwt_secret_key", "jwt_refresh_secret_key", "firebase_credentials"} {
		_ = v.BindEnv(key)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                v.GetString("port"),
		DBDriver:            strings.ToLower(v.GetString("db_driver")),
		DBDSN:               v.GetString("db_dsn"),
		JWTSecret:           v.GetString("jwt_secret_key"),
		JWTRefreshSecret:    v.GetString("jwt_refresh_secret_key"),
		AccessTokenTTL:      v.GetDuration("access_token_ttl"),
		RefreshTokenTTL:     v.GetDuration("refresh_token_ttl"),
		BcryptCost:          v.GetInt("bcrypt_cost"),
		FirebaseCredentials: v.GetString("firebase_credentials"),
		SeedDemo:            v.GetBool("seed_demo"),
		SeedPasswords: map[string]string{
			"admin":   v.GetString("seed_admin_password"),
			"manager": v.GetString("seed_manager_password"),
			"member":  v.GetString("seed_member_password"),
		},
		ReminderSpec:       v.GetString("reminder_cron"),
		ReminderWindowDays: v.GetInt("reminder_window_days"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.ReminderWindowDays < 0 {
		return fmt.Errorf("REMINDER_WINDOW_DAYS must not be negative")
	}
	return nil
}

// RequireSecrets reports an error when the JWT secrets are missing. Only the
// HTTP server needs them.
func (c *Config) RequireSecrets() error {
	if c.JWTSecret == "" || c.JWTRefreshSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY must be set")
	}
	return nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
