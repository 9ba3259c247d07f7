package stores

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sellerdesk/wb-sync/pkg/db/models"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID loads a store by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// ListActive returns all stores that are not disabled, oldest first.
func (r *Repository) ListActive(ctx context.Context) ([]models.Store, error) {
	var out []models.Store
	if err := r.db.WithContext(ctx).
		Where("disabled_at IS NULL").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every store, oldest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Store, error) {
	var out []models.Store
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update saves the provided store.
func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Save(store).Error
}
