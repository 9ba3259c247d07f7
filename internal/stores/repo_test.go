package stores

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sellerdesk/wb-sync/pkg/db/models"
	"github.com/sellerdesk/wb-sync/pkg/enums"
)

var repoTestSeq int

func setupStoresTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	repoTestSeq++
	dsn := fmt.Sprintf("file:stores_repo_test_%d?mode=memory&cache=shared", repoTestSeq)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Store{}))
	return conn
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupStoresTestDB(t))
	ctx := context.Background()

	store := &models.Store{
		Name:          "shop",
		SupplierID:    "supplier-1",
		ContentToken:  "content-token",
		StatisticsKey: "stats-key",
		OrdersToken:   "orders-token",
	}
	require.NoError(t, repo.Create(ctx, store))
	require.NotZero(t, store.ID)

	found, err := repo.FindByID(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, "shop", found.Name)
	assert.Equal(t, "supplier-1", found.SupplierID)
	assert.False(t, found.Disabled())
}

func TestRepositoryListActiveFiltersDisabled(t *testing.T) {
	repo := NewRepository(setupStoresTestDB(t))
	ctx := context.Background()

	active := &models.Store{Name: "active"}
	require.NoError(t, repo.Create(ctx, active))

	disabledAt := time.Now().UTC()
	suspended := &models.Store{
		Name:           "suspended",
		DisabledAt:     &disabledAt,
		DisabledReason: enums.StoreDisabledConnectFailed,
	}
	require.NoError(t, repo.Create(ctx, suspended))

	actives, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, actives, 1)
	assert.Equal(t, active.ID, actives[0].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryUpdatePersistsSyncStamps(t *testing.T) {
	repo := NewRepository(setupStoresTestDB(t))
	ctx := context.Background()

	store := &models.Store{Name: "shop"}
	require.NoError(t, repo.Create(ctx, store))

	syncedAt := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	store.LastProductsSyncAt = &syncedAt
	require.NoError(t, repo.Update(ctx, store))

	found, err := repo.FindByID(ctx, store.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastProductsSyncAt)
	assert.True(t, found.LastProductsSyncAt.Equal(syncedAt))
}

func TestRepositoryRejectsNilStore(t *testing.T) {
	repo := NewRepository(setupStoresTestDB(t))
	assert.Error(t, repo.Create(context.Background(), nil))
	assert.Error(t, repo.Update(context.Background(), nil))
}
