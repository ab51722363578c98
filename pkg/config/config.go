package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application configuration (read via Viper from env vars
// and optionally a .env file).
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	SMTP     SMTPConfig
	Frontend FrontendConfig
	Security SecurityConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// IsProduction reports whether the app runs in production mode. Controls the
// Secure cookie flag and error detail suppression.
func (c AppConfig) IsProduction() bool { return c.Env == "production" }

// DBConfig PostgreSQL settings. If DatabaseURL is set it is used as the full
// connection string; otherwise the DSN is built from the individual fields.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString returns DATABASE_URL when set, the built DSN otherwise.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds the PostgreSQL connection string, URL-encoding credentials.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig token settings. Access and refresh tokens are signed with
// independent secrets so neither can stand in for the other.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// HTTPConfig HTTP server settings.
type HTTPConfig struct {
	Host       string
	Port       int
	CORSOrigin string
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SMTPConfig outbound transactional email settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// FrontendConfig settings for links embedded in outbound email.
type FrontendConfig struct {
	URL string
}

// SecurityConfig password policy and session cookie settings.
type SecurityConfig struct {
	BcryptCost        int
	MinPasswordLength int
	CookieMaxAge      time.Duration
}

// Load reads configuration from environment variables (plus an optional .env
// file in the working directory). Env vars take precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "accounts-api"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "accounts"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			AccessSecret:  getString(v, "ACCESS_TOKEN_SECRET", ""),
			RefreshSecret: getString(v, "REFRESH_TOKEN_SECRET", ""),
			AccessTTL:     getDuration(v, "ACCESS_TOKEN_TTL", 30*24*time.Hour),
			RefreshTTL:    getDuration(v, "REFRESH_TOKEN_TTL", 30*24*time.Hour),
			Issuer:        getString(v, "JWT_ISSUER", "accounts-api"),
		},
		HTTP: HTTPConfig{
			Host:       getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:       getInt(v, "HTTP_PORT", 5000),
			CORSOrigin: getString(v, "CORS_ORIGIN", "http://localhost:3000"),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", "localhost"),
			Port:     getInt(v, "SMTP_PORT", 587),
			Username: getString(v, "SMTP_USERNAME", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "FROM_EMAIL", "no-reply@localhost"),
		},
		Frontend: FrontendConfig{
			URL: getString(v, "FRONTEND_URL", "http://localhost:3000"),
		},
		Security: SecurityConfig{
			BcryptCost:        getInt(v, "BCRYPT_COST", 12),
			MinPasswordLength: getInt(v, "MIN_PASSWORD_LENGTH", 6),
			CookieMaxAge:      getDuration(v, "COOKIE_MAX_AGE", 30*24*time.Hour),
		},
	}

	return cfg, cfg.validate()
}

// validate reports the secrets a deployment must provide. Development keeps
// going with a warning-level error from the caller's perspective: the server
// refuses to start only when a secret is empty outside development.
func (c *Config) validate() error {
	if c.App.Env == "development" {
		return nil
	}
	var missing []string
	if c.JWT.AccessSecret == "" {
		missing = append(missing, "ACCESS_TOKEN_SECRET")
	}
	if c.JWT.RefreshSecret == "" {
		missing = append(missing, "REFRESH_TOKEN_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d, err := time.ParseDuration(v.GetString(key)); err == nil {
			return d
		}
	}
	return def
}
