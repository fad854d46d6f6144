package erp

import (
	"errors"
	"time"
)

// Config holds configuration for the ERP query API.
type Config struct {
	// BaseURL is the ERP OpenApi root, e.g. "https://www.h3yun.com"
	BaseURL string
	// EngineCode identifies the ERP engine (sent as a header)
	EngineCode string
	// EngineSecret authorizes the calls (sent as a header)
	EngineSecret string
	// InventorySchemaCode is the schema holding inventory records
	InventorySchemaCode string
	// MappingSchemaCode is the schema holding ERP-SKU to storefront-SKU rows
	MappingSchemaCode string
	// PageSize is the row-range window per request
	PageSize int
	// PageDelay is the fixed inter-page delay. The ERP enforces an
	// undocumented rate limit; this delay dominates total pass latency and
	// must stay configurable.
	PageDelay time.Duration
	// MaxRetries is how often a transient page failure is retried
	MaxRetries int
	// RetryDelay is the pause before a retry
	RetryDelay time.Duration
	// TimeoutSeconds is the per-request HTTP timeout
	TimeoutSeconds int
}

// Errors for ERP configuration
var (
	ErrConfigMissingBaseURL      = errors.New("erp: base URL is required")
	ErrConfigMissingEngineCode   = errors.New("erp: engine code is required")
	ErrConfigMissingEngineSecret = errors.New("erp: engine secret is required")
	ErrConfigMissingSchemaCodes  = errors.New("erp: inventory and mapping schema codes are required")
)

// NewConfig creates an ERP configuration with defaults.
func NewConfig(baseURL, engineCode, engineSecret, inventorySchema, mappingSchema string) *Config {
	return &Config{
		BaseURL:             baseURL,
		EngineCode:          engineCode,
		EngineSecret:        engineSecret,
		InventorySchemaCode: inventorySchema,
		MappingSchemaCode:   mappingSchema,
		PageSize:            defaultPageSize,
		PageDelay:           defaultPageDelay,
		MaxRetries:          defaultMaxRetries,
		RetryDelay:          defaultRetryDelay,
		TimeoutSeconds:      30,
	}
}

const (
	defaultPageSize   = 500
	defaultPageDelay  = 300 * time.Millisecond
	defaultMaxRetries = 2
	defaultRetryDelay = time.Second
)

// Validate validates the configuration and applies defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.EngineCode == "" {
		return ErrConfigMissingEngineCode
	}
	if c.EngineSecret == "" {
		return ErrConfigMissingEngineSecret
	}
	if c.InventorySchemaCode == "" || c.MappingSchemaCode == "" {
		return ErrConfigMissingSchemaCodes
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	if c.PageDelay < 0 {
		c.PageDelay = defaultPageDelay
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
