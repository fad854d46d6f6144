package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/stocksync/backend/internal/domain/stocksync"
)

// maxResponseSize is the maximum allowed response size from a storefront (10MB)
const maxResponseSize = 10 * 1024 * 1024

const productsPath = "/wp-json/wc/v3/products"

// WooClient implements stocksync.StorefrontGateway against WooCommerce's
// REST v3 product API. All calls use the site's stored key/secret as Basic
// auth; bad credentials surface as per-SKU lookup/update failures, never as
// a pipeline abort.
type WooClient struct {
	httpClient *http.Client
}

// NewWooClient creates a WooCommerce client with the given request timeout.
func NewWooClient(timeout time.Duration) *WooClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WooClient{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// wooProduct is the subset of WooCommerce's product payload the pipeline
// reads.
type wooProduct struct {
	ID          int64  `json:"id"`
	SKU         string `json:"sku"`
	StockStatus string `json:"stock_status"`
}

// wooStockUpdate is the PUT body for a stock status change. Stock quantity
// mirrors the status: 1 for instock, 0 for outofstock.
type wooStockUpdate struct {
	StockStatus   string `json:"stock_status"`
	ManageStock   bool   `json:"manage_stock"`
	StockQuantity int    `json:"stock_quantity"`
}

// LookupProduct finds a product by SKU via the site's product-search
// endpoint.
func (c *WooClient) LookupProduct(ctx context.Context, site *stocksync.Site, sku string) (*stocksync.StorefrontProduct, error) {
	endpoint := site.BaseURL + productsPath + "?sku=" + url.QueryEscape(sku)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", stocksync.ErrLookupFailed, err)
	}
	req.SetBasicAuth(site.APIKey, site.APISecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", stocksync.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", stocksync.ErrLookupFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", stocksync.ErrLookupFailed, resp.StatusCode)
	}

	var products []wooProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", stocksync.ErrLookupFailed, err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: sku %q", stocksync.ErrProductNotFound, sku)
	}

	p := products[0]
	return &stocksync.StorefrontProduct{
		ID:          p.ID,
		SKU:         p.SKU,
		StockStatus: stocksync.StockStatus(p.StockStatus),
	}, nil
}

// UpdateStock sets the product's stock status and quantity via the site's
// product-update endpoint.
func (c *WooClient) UpdateStock(ctx context.Context, site *stocksync.Site, productID int64, target stocksync.StockStatus) error {
	quantity := 0
	if target == stocksync.StockStatusInstock {
		quantity = 1
	}

	payload, err := json.Marshal(wooStockUpdate{
		StockStatus:   target.String(),
		ManageStock:   true,
		StockQuantity: quantity,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", stocksync.ErrUpdateFailed, err)
	}

	endpoint := fmt.Sprintf("%s%s/%d", site.BaseURL, productsPath, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", stocksync.ErrUpdateFailed, err)
	}
	req.SetBasicAuth(site.APIKey, site.APISecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", stocksync.ErrUpdateFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", stocksync.ErrUpdateFailed, resp.StatusCode)
	}
	return nil
}

// Ensure WooClient implements the StorefrontGateway port
var _ stocksync.StorefrontGateway = (*WooClient)(nil)
