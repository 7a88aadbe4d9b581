package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Log           LogConfig
	HTTP          HTTPConfig
	Feed          FeedConfig
	Scheduler     SchedulerConfig
	Notification  NotificationConfig
	DefaultTenant DefaultTenantConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// DSN builds the Postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TrustedProxies []string
}

// FeedConfig holds remote order feed settings
type FeedConfig struct {
	Enabled        bool
	BaseURL        string
	AccountID      string
	ClientID       string
	ClientSecret   string
	RequestTimeout time.Duration
	// TokenRefreshMargin refreshes the cached token this long before it
	// actually expires
	TokenRefreshMargin time.Duration
	// LookbackWindow bounds how far back each poll asks for orders
	LookbackWindow time.Duration
}

// SchedulerConfig holds feed poll scheduler configuration
type SchedulerConfig struct {
	Enabled           bool
	PollInterval      time.Duration
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// NotificationConfig holds the operator webhook settings
type NotificationConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
}

// DefaultTenantConfig names the store and vendor that auto-provisioned
// placeholder products are filed under. Both must exist; the server
// refuses to start the feed otherwise.
type DefaultTenantConfig struct {
	StoreID  string
	VendorID string
}

// StoreUUID parses the configured default store ID
func (c DefaultTenantConfig) StoreUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.StoreID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid defaulttenant.store_id: %w", err)
	}
	return id, nil
}

// VendorUUID parses the configured default vendor ID
func (c DefaultTenantConfig) VendorUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.VendorID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid defaulttenant.vendor_id: %w", err)
	}
	return id, nil
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STOCKROOM_ prefix (e.g., STOCKROOM_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("STOCKROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Feed: FeedConfig{
			Enabled:            v.GetBool("feed.enabled"),
			BaseURL:            v.GetString("feed.base_url"),
			AccountID:          v.GetString("feed.account_id"),
			ClientID:           v.GetString("feed.client_id"),
			ClientSecret:       v.GetString("feed.client_secret"),
			RequestTimeout:     v.GetDuration("feed.request_timeout"),
			TokenRefreshMargin: v.GetDuration("feed.token_refresh_margin"),
			LookbackWindow:     v.GetDuration("feed.lookback_window"),
		},
		Scheduler: SchedulerConfig{
			Enabled:           v.GetBool("scheduler.enabled"),
			PollInterval:      v.GetDuration("scheduler.poll_interval"),
			MaxConcurrentJobs: v.GetInt("scheduler.max_concurrent_jobs"),
			JobTimeout:        v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:     v.GetInt("scheduler.retry_attempts"),
			RetryDelay:        v.GetDuration("scheduler.retry_delay"),
		},
		Notification: NotificationConfig{
			Enabled:    v.GetBool("notification.enabled"),
			WebhookURL: v.GetString("notification.webhook_url"),
			Timeout:    v.GetDuration("notification.timeout"),
		},
		DefaultTenant: DefaultTenantConfig{
			StoreID:  v.GetString("defaulttenant.store_id"),
			VendorID: v.GetString("defaulttenant.vendor_id"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "stockroom-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "stockroom"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.Feed.RequestTimeout == 0 {
		cfg.Feed.RequestTimeout = 30 * time.Second
	}
	if cfg.Feed.TokenRefreshMargin == 0 {
		cfg.Feed.TokenRefreshMargin = 5 * time.Minute
	}
	if cfg.Feed.LookbackWindow == 0 {
		cfg.Feed.LookbackWindow = 24 * time.Hour
	}
	if cfg.Scheduler.PollInterval == 0 {
		cfg.Scheduler.PollInterval = 10 * time.Minute
	}
	if cfg.Scheduler.MaxConcurrentJobs == 0 {
		cfg.Scheduler.MaxConcurrentJobs = 2
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 5 * time.Minute
	}
	if cfg.Scheduler.RetryAttempts == 0 {
		cfg.Scheduler.RetryAttempts = 3
	}
	if cfg.Scheduler.RetryDelay == 0 {
		cfg.Scheduler.RetryDelay = 30 * time.Second
	}
	if cfg.Notification.Timeout == 0 {
		cfg.Notification.Timeout = 10 * time.Second
	}
}

// validate checks cross-field constraints that defaults cannot fix
func (cfg *Config) validate() error {
	if cfg.Feed.Enabled {
		if cfg.Feed.BaseURL == "" {
			return fmt.Errorf("feed.base_url is required when the feed is enabled")
		}
		if cfg.Feed.AccountID == "" {
			return fmt.Errorf("feed.account_id is required when the feed is enabled")
		}
		if cfg.Feed.ClientID == "" || cfg.Feed.ClientSecret == "" {
			return fmt.Errorf("feed.client_id and feed.client_secret are required when the feed is enabled")
		}
		if _, err := cfg.DefaultTenant.StoreUUID(); err != nil {
			return fmt.Errorf("defaulttenant.store_id is required when the feed is enabled: %w", err)
		}
		if _, err := cfg.DefaultTenant.VendorUUID(); err != nil {
			return fmt.Errorf("defaulttenant.vendor_id is required when the feed is enabled: %w", err)
		}
	}
	if cfg.Notification.Enabled && cfg.Notification.WebhookURL == "" {
		return fmt.Errorf("notification.webhook_url is required when notifications are enabled")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (cfg *Config) IsProduction() bool {
	return cfg.App.Env == "production"
}
