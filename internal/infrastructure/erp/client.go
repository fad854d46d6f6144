package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stocksync/backend/internal/domain/stocksync"
)

// maxResponseSize is the maximum allowed response size from the ERP (10MB)
const maxResponseSize = 10 * 1024 * 1024

const (
	invokePath     = "/OpenApi/Invoke"
	actionLoadObjs = "LoadBizObjects"
)

// Client implements stocksync.InventorySource against the ERP's
// LoadBizObjects query endpoint. Requests are paged with a fixed row-range
// window and a fixed inter-page delay; an application-level failure flag
// aborts the fetch instead of surfacing partial data.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an ERP client with the given configuration.
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// FetchInventory returns every inventory record the ERP holds.
func (c *Client) FetchInventory(ctx context.Context) ([]stocksync.InventoryRecord, error) {
	rows, err := c.fetchAll(ctx, c.config.InventorySchemaCode)
	if err != nil {
		return nil, err
	}
	records := make([]stocksync.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.toInventoryRecord()
		if rec.ErpSku == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// FetchSkuMappings returns the full ERP-SKU to storefront-SKU table.
func (c *Client) FetchSkuMappings(ctx context.Context) ([]stocksync.MappingRecord, error) {
	rows, err := c.fetchAll(ctx, c.config.MappingSchemaCode)
	if err != nil {
		return nil, err
	}
	records := make([]stocksync.MappingRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.toMappingRecord()
		if rec.ErpSku == "" || rec.StorefrontSku == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// fetchAll pages through one schema. A page returning fewer rows than the
// page size is the last page; a full page always triggers one more request.
func (c *Client) fetchAll(ctx context.Context, schemaCode string) ([]bizObject, error) {
	var all []bizObject

	for from := 0; ; from += c.config.PageSize {
		page, err := c.fetchPageWithRetry(ctx, schemaCode, from, from+c.config.PageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)

		c.logger.Debug("Fetched ERP page",
			zap.String("schema_code", schemaCode),
			zap.Int("from_row", from),
			zap.Int("returned", len(page)),
		)

		if len(page) < c.config.PageSize {
			return all, nil
		}

		// Inter-page delay against the vendor's undocumented rate limit.
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", stocksync.ErrFetchAborted, ctx.Err())
		case <-time.After(c.config.PageDelay):
		}
	}
}

// fetchPageWithRetry retries transient transport failures. An
// application-level failure (Successful=false) is terminal: the ERP rejected
// the query and the partial result is unsafe.
func (c *Client) fetchPageWithRetry(ctx context.Context, schemaCode string, from, to int) ([]bizObject, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying ERP page fetch",
				zap.String("schema_code", schemaCode),
				zap.Int("from_row", from),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", stocksync.ErrFetchAborted, ctx.Err())
			case <-time.After(c.config.RetryDelay):
			}
		}

		page, err := c.fetchPage(ctx, schemaCode, from, to)
		if err == nil {
			return page, nil
		}
		if !isTransient(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", stocksync.ErrFetchAborted, lastErr)
}

func (c *Client) fetchPage(ctx context.Context, schemaCode string, from, to int) ([]bizObject, error) {
	filter, err := json.Marshal(loadFilter{
		FromRowNum:   from,
		ToRowNum:     to,
		RequireCount: false,
		Matcher:      loadMatcher{Type: "And", Matchers: []string{}},
	})
	if err != nil {
		return nil, fmt.Errorf("erp: failed to encode filter: %w", err)
	}

	body, err := json.Marshal(invokeRequest{
		ActionName: actionLoadObjs,
		SchemaCode: schemaCode,
		Filter:     string(filter),
	})
	if err != nil {
		return nil, fmt.Errorf("erp: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+invokePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("erp: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("EngineCode", c.config.EngineCode)
	req.Header.Set("EngineSecret", c.config.EngineSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &transientError{err: err}
	}

	if resp.StatusCode >= 500 {
		return nil, &transientError{err: fmt.Errorf("erp: HTTP %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", stocksync.ErrFetchAborted, resp.StatusCode)
	}

	var envelope invokeResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", stocksync.ErrFetchAborted, err)
	}
	if !envelope.Successful {
		return nil, fmt.Errorf("%w: %s", stocksync.ErrFetchAborted, envelope.ErrorMessage)
	}
	if envelope.ReturnData == nil {
		return nil, nil
	}
	return envelope.ReturnData.BizObjectArray, nil
}

// transientError marks transport-level failures that are worth retrying.
type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// Ensure Client implements the InventorySource port
var _ stocksync.InventorySource = (*Client)(nil)
