package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksync/backend/internal/domain/stocksync"
)

func siteFor(t *testing.T, baseURL string) *stocksync.Site {
	t.Helper()
	site, err := stocksync.NewSite("Test Shop", baseURL, "ck_key", "cs_secret")
	require.NoError(t, err)
	return site
}

func TestWooClient_LookupProduct(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
			assert.Equal(t, "TSHIRT-1", r.URL.Query().Get("sku"))

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "ck_key", user)
			assert.Equal(t, "cs_secret", pass)

			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": 42, "sku": "TSHIRT-1", "stock_status": "outofstock"},
			})
		}))
		defer server.Close()

		client := NewWooClient(time.Second)
		product, err := client.LookupProduct(context.Background(), siteFor(t, server.URL), "TSHIRT-1")
		require.NoError(t, err)

		assert.Equal(t, int64(42), product.ID)
		assert.Equal(t, "TSHIRT-1", product.SKU)
		assert.Equal(t, stocksync.StockStatusOutofstock, product.StockStatus)
	})

	t.Run("zero results is NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("[]"))
		}))
		defer server.Close()

		client := NewWooClient(time.Second)
		_, err := client.LookupProduct(context.Background(), siteFor(t, server.URL), "MISSING")
		assert.ErrorIs(t, err, stocksync.ErrProductNotFound)
	})

	t.Run("remote error is LookupFailed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewWooClient(time.Second)
		_, err := client.LookupProduct(context.Background(), siteFor(t, server.URL), "ANY")
		assert.ErrorIs(t, err, stocksync.ErrLookupFailed)
	})

	t.Run("unreachable host is LookupFailed", func(t *testing.T) {
		client := NewWooClient(100 * time.Millisecond)
		site := siteFor(t, "http://127.0.0.1:1")
		_, err := client.LookupProduct(context.Background(), site, "ANY")
		assert.ErrorIs(t, err, stocksync.ErrLookupFailed)
	})
}

func TestWooClient_UpdateStock(t *testing.T) {
	t.Run("marks instock with quantity 1", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/wp-json/wc/v3/products/42", r.URL.Path)

			var body wooStockUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "instock", body.StockStatus)
			assert.True(t, body.ManageStock)
			assert.Equal(t, 1, body.StockQuantity)

			_, _ = w.Write([]byte(`{"id":42}`))
		}))
		defer server.Close()

		client := NewWooClient(time.Second)
		err := client.UpdateStock(context.Background(), siteFor(t, server.URL), 42, stocksync.StockStatusInstock)
		assert.NoError(t, err)
	})

	t.Run("marks outofstock with quantity 0", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body wooStockUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "outofstock", body.StockStatus)
			assert.Equal(t, 0, body.StockQuantity)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewWooClient(time.Second)
		err := client.UpdateStock(context.Background(), siteFor(t, server.URL), 7, stocksync.StockStatusOutofstock)
		assert.NoError(t, err)
	})

	t.Run("non-success response is UpdateFailed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewWooClient(time.Second)
		err := client.UpdateStock(context.Background(), siteFor(t, server.URL), 42, stocksync.StockStatusInstock)
		assert.ErrorIs(t, err, stocksync.ErrUpdateFailed)
	})
}
