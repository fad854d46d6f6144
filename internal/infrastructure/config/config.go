package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration tree.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	HTTP     HTTPConfig
	ERP      ERPConfig
	Sync     SyncConfig
}

// LogConfig controls the zap logger setup.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds the Postgres connection and pool settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
}

// RedisConfig holds Redis connection settings for the product cache.
// The cache is optional; when Enabled is false an in-memory cache is used.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TrustedProxies []string
}

// ERPConfig holds the ERP OpenAPI connection settings.
type ERPConfig struct {
	BaseURL             string
	EngineCode          string
	EngineSecret        string
	InventorySchemaCode string
	MappingSchemaCode   string
	PageSize            int
	PageDelay           time.Duration
	MaxRetries          int
	RetryDelay          time.Duration
	TimeoutSeconds      int
}

// SyncConfig tunes the reconciliation pipeline.
type SyncConfig struct {
	// Interval between scheduled passes; zero disables the scheduler
	Interval time.Duration
	// SiteConcurrency bounds parallel sites per pass
	SiteConcurrency int
	// SKUWorkers bounds the per-site worker pool
	SKUWorkers int
	// DetailsCap bounds the stored per-SKU action log per site result
	DetailsCap int
	// PassTimeout caps one pass end to end
	PassTimeout time.Duration
	// StorefrontTimeout caps one storefront API call
	StorefrontTimeout time.Duration
}

// Load reads config.toml (from the working directory or /app) if present,
// then overlays environment variables carrying the STOCKSYNC_ prefix, e.g.
// STOCKSYNC_DATABASE_PASSWORD for database.password. Missing keys fall back
// to the defaults registered below.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("STOCKSYNC")
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
			TTL:      v.GetDuration("redis.ttl"),
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
		ERP: ERPConfig{
			BaseURL:             v.GetString("erp.base_url"),
			EngineCode:          v.GetString("erp.engine_code"),
			EngineSecret:        v.GetString("erp.engine_secret"),
			InventorySchemaCode: v.GetString("erp.inventory_schema_code"),
			MappingSchemaCode:   v.GetString("erp.mapping_schema_code"),
			PageSize:            v.GetInt("erp.page_size"),
			PageDelay:           v.GetDuration("erp.page_delay"),
			MaxRetries:          v.GetInt("erp.max_retries"),
			RetryDelay:          v.GetDuration("erp.retry_delay"),
			TimeoutSeconds:      v.GetInt("erp.timeout_seconds"),
		},
		Sync: SyncConfig{
			Interval:          v.GetDuration("sync.interval"),
			SiteConcurrency:   v.GetInt("sync.site_concurrency"),
			SKUWorkers:        v.GetInt("sync.sku_workers"),
			DetailsCap:        v.GetInt("sync.details_cap"),
			PassTimeout:       v.GetDuration("sync.pass_timeout"),
			StorefrontTimeout: v.GetDuration("sync.storefront_timeout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "stocksync-backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "stocksync")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.conn_max_idle_time", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.max_header_bytes", 1<<20)

	v.SetDefault("erp.inventory_schema_code", "INV001")
	v.SetDefault("erp.mapping_schema_code", "MAP001")
	v.SetDefault("erp.page_size", 500)
	v.SetDefault("erp.page_delay", 300*time.Millisecond)
	v.SetDefault("erp.max_retries", 2)
	v.SetDefault("erp.retry_delay", time.Second)
	v.SetDefault("erp.timeout_seconds", 30)

	v.SetDefault("sync.interval", time.Hour)
	v.SetDefault("sync.site_concurrency", 4)
	v.SetDefault("sync.sku_workers", 4)
	v.SetDefault("sync.details_cap", 200)
	v.SetDefault("sync.pass_timeout", 10*time.Minute)
	v.SetDefault("sync.storefront_timeout", 30*time.Second)
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) exceeds database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Sync.SiteConcurrency < 1 {
		return fmt.Errorf("sync.site_concurrency must be at least 1")
	}
	if c.Sync.SKUWorkers < 1 {
		return fmt.Errorf("sync.sku_workers must be at least 1")
	}

	// Credentials that are optional in development are mandatory once the
	// process claims to be production.
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.ERP.BaseURL == "" {
			return fmt.Errorf("erp.base_url is required in production")
		}
		if c.ERP.EngineCode == "" || c.ERP.EngineSecret == "" {
			return fmt.Errorf("erp.engine_code and erp.engine_secret are required in production")
		}
	}
	return nil
}

// DSN builds the Postgres connection URL, escaping user and password so
// credentials with reserved characters survive intact.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
