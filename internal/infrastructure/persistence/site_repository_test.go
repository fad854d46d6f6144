package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stocksync/backend/internal/domain/stocksync"
	"github.com/stocksync/backend/internal/infrastructure/persistence/models"
)

// setupStockSyncTestDB creates an in-memory SQLite database with the full
// schema for testing
func setupStockSyncTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.SiteModel{},
		&models.SiteFilterModel{},
		&models.SyncBatchModel{},
		&models.SyncSiteResultModel{},
	)
	require.NoError(t, err)

	return db
}

func mustNewSite(t *testing.T, name string) *stocksync.Site {
	t.Helper()
	site, err := stocksync.NewSite(name, "https://"+name+".example.com", "ck_test", "cs_test")
	require.NoError(t, err)
	return site
}

func TestGormSiteRepository_SaveAndFind(t *testing.T) {
	db := setupStockSyncTestDB(t)
	repo := NewGormSiteRepository(db)
	ctx := context.Background()

	site := mustNewSite(t, "shop-a")
	require.NoError(t, repo.Save(ctx, site))

	found, err := repo.FindByID(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, site.ID, found.ID)
	assert.Equal(t, "shop-a", found.Name)
	assert.Equal(t, "https://shop-a.example.com", found.BaseURL)
	assert.Equal(t, "ck_test", found.APIKey)
	assert.True(t, found.Enabled)
}

func TestGormSiteRepository_FindByID_NotFound(t *testing.T) {
	db := setupStockSyncTestDB(t)
	repo := NewGormSiteRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, stocksync.ErrSiteNotFound)
}

func TestGormSiteRepository_SaveUpdatesExisting(t *testing.T) {
	db := setupStockSyncTestDB(t)
	repo := NewGormSiteRepository(db)
	ctx := context.Background()

	site := mustNewSite(t, "shop-a")
	require.NoError(t, repo.Save(ctx, site))

	site.Enabled = false
	site.APISecret = "cs_rotated"
	require.NoError(t, repo.Save(ctx, site))

	found, err := repo.FindByID(ctx, site.ID)
	require.NoError(t, err)
	assert.False(t, found.Enabled)
	assert.Equal(t, "cs_rotated", found.APISecret)
}

func TestGormSiteRepository_FindEnabled(t *testing.T) {
	db := setupStockSyncTestDB(t)
	repo := NewGormSiteRepository(db)
	ctx := context.Background()

	enabled := mustNewSite(t, "shop-a")
	disabled := mustNewSite(t, "shop-b")
	disabled.Enabled = false
	require.NoError(t, repo.Save(ctx, enabled))
	require.NoError(t, repo.Save(ctx, disabled))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.FindEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "shop-a", active[0].Name)
}

func TestGormSiteRepository_Delete(t *testing.T) {
	db := setupStockSyncTestDB(t)
	repo := NewGormSiteRepository(db)
	ctx := context.Background()

	site := mustNewSite(t, "shop-a")
	require.NoError(t, repo.Save(ctx, site))
	require.NoError(t, repo.Delete(ctx, site.ID))

	_, err := repo.FindByID(ctx, site.ID)
	assert.ErrorIs(t, err, stocksync.ErrSiteNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, site.ID), stocksync.ErrSiteNotFound)
}
