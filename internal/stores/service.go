package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/sellerdesk/wb-sync/pkg/db/models"
	"github.com/sellerdesk/wb-sync/pkg/enums"
	"github.com/sellerdesk/wb-sync/pkg/logger"
)

type storeRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Store, error)
	ListActive(ctx context.Context) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

// Service exposes store lifecycle operations used by the sync worker.
type Service interface {
	ListActive(ctx context.Context) ([]models.Store, error)
	Disable(ctx context.Context, store *models.Store, reason enums.StoreDisabledReason) error
	Enable(ctx context.Context, store *models.Store) error
	MarkProductsSynced(ctx context.Context, store *models.Store, at time.Time) error
	MarkOrdersSynced(ctx context.Context, store *models.Store, at time.Time) error
}

type service struct {
	repo storeRepository
	logg *logger.Logger
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Store, error) {
	return s.repo.ListActive(ctx)
}

// Disable suspends syncing for a store. Already-disabled stores keep their
// original timestamp and reason.
func (s *service) Disable(ctx context.Context, store *models.Store, reason enums.StoreDisabledReason) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	if store.Disabled() {
		return nil
	}
	now := time.Now().UTC()
	store.DisabledAt = &now
	store.DisabledReason = reason
	if err := s.repo.Update(ctx, store); err != nil {
		return err
	}
	ctx = s.logg.WithStoreID(ctx, store.ID)
	s.logg.Warn(s.logg.WithField(ctx, "reason", string(reason)), "store disabled")
	return nil
}

// Enable lifts a previous suspension.
func (s *service) Enable(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	if !store.Disabled() {
		return nil
	}
	store.DisabledAt = nil
	store.DisabledReason = ""
	if err := s.repo.Update(ctx, store); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithStoreID(ctx, store.ID), "store enabled")
	return nil
}

func (s *service) MarkProductsSynced(ctx context.Context, store *models.Store, at time.Time) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	store.LastProductsSyncAt = &at
	return s.repo.Update(ctx, store)
}

func (s *service) MarkOrdersSynced(ctx context.Context, store *models.Store, at time.Time) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	store.LastOrdersSyncAt = &at
	return s.repo.Update(ctx, store)
}
