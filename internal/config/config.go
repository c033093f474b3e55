package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config aggregates runtime configuration for the dashboard.
type Config struct {
	App     AppConfig
	API     APIConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	UI      UIConfig
	Session SessionConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// APIConfig points at the remote ticket REST API.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// RedisConfig holds Redis connection values. An empty Addr keeps sessions in memory.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// UIConfig holds the layout constants of the ticket table and charts.
type UIConfig struct {
	RowHeight             int
	ChromeHeight          int
	MinRows               int
	MaxRows               int
	DefaultViewportHeight int
	ToastMillis           int
	CategoryLimit         int
	RecentDays            int
}

// SessionConfig controls the per-browser UI state.
type SessionConfig struct {
	CookieName             string
	TTLMinutes             int
	JanitorIntervalSeconds int
}

// Load reads configuration from an optional env file, environment variables and
// command line flags, in increasing order of precedence.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	envFile := fs.String("env-file", ".env", "dotenv file to load before reading the environment")
	addr := fs.String("addr", "", "listen address host:port (overrides APP_HOST/APP_PORT)")
	apiBase := fs.String("api-base-url", "", "ticket API base URL (overrides API_BASE_URL)")
	logLevel := fs.String("log-level", "", "log level (overrides LOG_LEVEL)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	_ = godotenv.Load(*envFile)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		API: APIConfig{
			BaseURL:        getEnv("API_BASE_URL", "http://localhost:3000/api"),
			TimeoutSeconds: getEnvAsInt("API_TIMEOUT_SECONDS", 15),
		},
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "ticket-dashboard:"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		UI: UIConfig{
			RowHeight:             getEnvAsInt("UI_ROW_HEIGHT", 52),
			ChromeHeight:          getEnvAsInt("UI_CHROME_HEIGHT", 390),
			MinRows:               getEnvAsInt("UI_MIN_ROWS", 5),
			MaxRows:               getEnvAsInt("UI_MAX_ROWS", 20),
			DefaultViewportHeight: getEnvAsInt("UI_DEFAULT_VIEWPORT_HEIGHT", 900),
			ToastMillis:           getEnvAsInt("UI_TOAST_MILLIS", 3500),
			CategoryLimit:         getEnvAsInt("UI_CATEGORY_LIMIT", 6),
			RecentDays:            getEnvAsInt("UI_RECENT_DAYS", 7),
		},
		Session: SessionConfig{
			CookieName:             getEnv("SESSION_COOKIE", "dashboard_session"),
			TTLMinutes:             getEnvAsInt("SESSION_TTL_MINUTES", 720),
			JanitorIntervalSeconds: getEnvAsInt("SESSION_JANITOR_INTERVAL_SECONDS", 60),
		},
	}

	if fs.Changed("addr") {
		host, port, err := net.SplitHostPort(*addr)
		if err != nil {
			return nil, fmt.Errorf("invalid --addr: %w", err)
		}
		cfg.App.Host, cfg.App.Port = host, port
	}
	if fs.Changed("api-base-url") {
		cfg.API.BaseURL = *apiBase
	}
	if fs.Changed("log-level") {
		cfg.Logger.Level = *logLevel
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q", c.API.BaseURL)
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.UI.RowHeight <= 0 {
		return fmt.Errorf("UI_ROW_HEIGHT must be positive, got %d", c.UI.RowHeight)
	}
	if c.UI.MinRows <= 0 || c.UI.MaxRows < c.UI.MinRows {
		return fmt.Errorf("invalid row bounds [%d,%d]", c.UI.MinRows, c.UI.MaxRows)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call timeout for the ticket API.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// ToastDuration returns how long a toast stays visible.
func (u UIConfig) ToastDuration() time.Duration {
	return time.Duration(u.ToastMillis) * time.Millisecond
}

// TTL returns the idle lifetime of a session.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// JanitorInterval returns how often idle in-memory sessions are swept.
func (s SessionConfig) JanitorInterval() time.Duration {
	return time.Duration(s.JanitorIntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
