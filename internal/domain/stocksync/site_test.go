package stocksync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSite(t *testing.T) {
	t.Run("valid site", func(t *testing.T) {
		site, err := NewSite("Main Shop", "https://shop.example.com/", "ck_key", "cs_secret")
		require.NoError(t, err)
		assert.Equal(t, "Main Shop", site.Name)
		assert.Equal(t, "https://shop.example.com", site.BaseURL, "trailing slash is trimmed")
		assert.True(t, site.Enabled)
		assert.NotEqual(t, site.ID.String(), "00000000-0000-0000-0000-000000000000")
	})

	tests := []struct {
		name    string
		site    [4]string // name, baseURL, key, secret
		wantErr error
	}{
		{"missing name", [4]string{"", "https://a.example.com", "k", "s"}, ErrSiteInvalidName},
		{"missing scheme", [4]string{"A", "a.example.com", "k", "s"}, ErrSiteInvalidBaseURL},
		{"unsupported scheme", [4]string{"A", "ftp://a.example.com", "k", "s"}, ErrSiteInvalidBaseURL},
		{"missing key", [4]string{"A", "https://a.example.com", "", "s"}, ErrSiteMissingAPIKey},
		{"missing secret", [4]string{"A", "https://a.example.com", "k", ""}, ErrSiteMissingAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSite(tt.site[0], tt.site[1], tt.site[2], tt.site[3])
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
