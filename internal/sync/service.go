package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/sellerdesk/wb-sync/internal/catalog"
	"github.com/sellerdesk/wb-sync/internal/orders"
	"github.com/sellerdesk/wb-sync/internal/stores"
	"github.com/sellerdesk/wb-sync/pkg/config"
	"github.com/sellerdesk/wb-sync/pkg/db/models"
	"github.com/sellerdesk/wb-sync/pkg/enums"
	"github.com/sellerdesk/wb-sync/pkg/errors"
	"github.com/sellerdesk/wb-sync/pkg/logger"
	"github.com/sellerdesk/wb-sync/pkg/wildberries"
)

// APIClient is the per-store surface of the marketplace client.
type APIClient interface {
	CheckConnection(ctx context.Context) (bool, error)
	ProductCards(ctx context.Context) ([]wildberries.Card, error)
	Orders(ctx context.Context, from, to time.Time) ([]wildberries.Order, error)
	Sales(ctx context.Context, from, to time.Time) ([]wildberries.Sale, error)
	OrderStatuses(ctx context.Context, from, to time.Time) ([]wildberries.OrderStatus, error)
}

// ClientFactory builds an API client for one store's credentials.
type ClientFactory func(creds wildberries.Credentials) APIClient

// Report counts the outcome of one batch: a record is processed, skipped
// (malformed payload) or failed (its transaction rolled back).
type Report struct {
	Processed int
	Skipped   int
	Failed    int
}

func (r Report) String() string {
	return fmt.Sprintf("processed=%d skipped=%d failed=%d", r.Processed, r.Skipped, r.Failed)
}

// Add merges another report's counters.
func (r *Report) Add(other Report) {
	r.Processed += other.Processed
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

// Service runs full sync passes over all active stores.
type Service struct {
	cfg       config.SyncConfig
	stores    stores.Service
	catalog   *catalog.Service
	orders    *orders.Service
	newClient ClientFactory
	logg      *logger.Logger
}

// NewService wires the batch orchestrator.
func NewService(cfg config.SyncConfig, storeSvc stores.Service, catalogSvc *catalog.Service, orderSvc *orders.Service, factory ClientFactory, logg *logger.Logger) (*Service, error) {
	if storeSvc == nil {
		return nil, fmt.Errorf("stores service required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if factory == nil {
		return nil, fmt.Errorf("client factory required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		cfg:       cfg,
		stores:    storeSvc,
		catalog:   catalogSvc,
		orders:    orderSvc,
		newClient: factory,
		logg:      logg,
	}, nil
}

func credentialsFor(store *models.Store) wildberries.Credentials {
	return wildberries.Credentials{
		SupplierID:    store.SupplierID,
		ContentToken:  store.ContentToken,
		StatisticsKey: store.StatisticsKey,
		OrdersToken:   store.OrdersToken,
	}
}

// gate runs the connection probe. A clean false disables the store; a
// passing probe re-enables a previously suspended one.
func (s *Service) gate(ctx context.Context, client APIClient, store *models.Store) (bool, error) {
	ok, err := client.CheckConnection(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		if err := s.stores.Disable(ctx, store, enums.StoreDisabledConnectFailed); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.stores.Enable(ctx, store); err != nil {
		return false, err
	}
	return true, nil
}

// SyncProducts pulls the full catalog of one store and upserts every card.
// One failed card does not stop the batch.
func (s *Service) SyncProducts(ctx context.Context, client APIClient, store *models.Store) (Report, error) {
	ctx = s.logg.WithStoreID(ctx, store.ID)

	cards, err := client.ProductCards(ctx)
	if err != nil {
		return Report{}, err
	}

	var report Report
	var errs error
	for _, card := range cards {
		if _, err := s.catalog.UpsertProductCard(ctx, store, card); err != nil {
			if coded := errors.As(err); coded != nil && coded.Code() == errors.CodeValidation {
				report.Skipped++
				s.logg.Warn(s.logg.WithField(ctx, "wb_product_id", card.ID), "skipped malformed card")
				continue
			}
			report.Failed++
			errs = multierr.Append(errs, err)
			s.logg.Error(ctx, "product card upsert failed", err)
			continue
		}
		report.Processed++
	}

	// The stamp advances only when no record rolled back.
	if report.Failed == 0 {
		if err := s.stores.MarkProductsSynced(ctx, store, time.Now().UTC()); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	s.logg.Info(s.logg.WithField(ctx, "report", report.String()), "product sync finished")
	return report, errs
}

// SyncOrders fetches the configured order window, joins the three feeds and
// upserts every aggregate order. One failed order does not stop the batch.
func (s *Service) SyncOrders(ctx context.Context, client APIClient, store *models.Store, rebuild bool) (Report, error) {
	ctx = s.logg.WithStoreID(ctx, store.ID)
	from, to := s.cfg.OrderWindow(time.Now().UTC())

	orderFeed, err := client.Orders(ctx, from, to)
	if err != nil {
		return Report{}, err
	}
	sales, err := client.Sales(ctx, from, to)
	if err != nil {
		return Report{}, err
	}
	statuses, err := client.OrderStatuses(ctx, from, to)
	if err != nil {
		return Report{}, err
	}

	var report Report
	var errs error
	for _, agg := range Join(orderFeed, sales, statuses) {
		if _, err := s.orders.UpsertOrder(ctx, store, agg, rebuild); err != nil {
			if coded := errors.As(err); coded != nil && coded.Code() == errors.CodeValidation {
				report.Skipped++
				s.logg.Warn(s.logg.WithOrderNumber(ctx, agg.OrderID), "skipped malformed order")
				continue
			}
			report.Failed++
			errs = multierr.Append(errs, err)
			s.logg.Error(s.logg.WithOrderNumber(ctx, agg.OrderID), "order upsert failed", err)
			continue
		}
		report.Processed++
	}

	if report.Failed == 0 {
		if err := s.stores.MarkOrdersSynced(ctx, store, time.Now().UTC()); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	s.logg.Info(s.logg.WithField(ctx, "report", report.String()), "order sync finished")
	return report, errs
}

// SyncStore runs the gate plus both passes for one store.
func (s *Service) SyncStore(ctx context.Context, store *models.Store, rebuild bool) (Report, error) {
	client := s.newClient(credentialsFor(store))

	ok, err := s.gate(ctx, client, store)
	if err != nil {
		return Report{}, err
	}
	if !ok {
		return Report{}, nil
	}

	var total Report
	var errs error

	report, err := s.SyncProducts(ctx, client, store)
	total.Add(report)
	errs = multierr.Append(errs, err)

	report, err = s.SyncOrders(ctx, client, store, rebuild)
	total.Add(report)
	errs = multierr.Append(errs, err)

	return total, errs
}

// SyncAllProducts runs the connection gate and the catalog pass for every
// active store.
func (s *Service) SyncAllProducts(ctx context.Context) (Report, error) {
	return s.forEachActive(ctx, func(ctx context.Context, client APIClient, store *models.Store) (Report, error) {
		return s.SyncProducts(ctx, client, store)
	})
}

// SyncAllOrders runs the connection gate and the order pass for every
// active store.
func (s *Service) SyncAllOrders(ctx context.Context, rebuild bool) (Report, error) {
	return s.forEachActive(ctx, func(ctx context.Context, client APIClient, store *models.Store) (Report, error) {
		return s.SyncOrders(ctx, client, store, rebuild)
	})
}

func (s *Service) forEachActive(ctx context.Context, pass func(ctx context.Context, client APIClient, store *models.Store) (Report, error)) (Report, error) {
	active, err := s.stores.ListActive(ctx)
	if err != nil {
		return Report{}, err
	}

	var total Report
	var errs error
	for i := range active {
		store := &active[i]
		client := s.newClient(credentialsFor(store))
		ok, err := s.gate(ctx, client, store)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		report, err := pass(ctx, client, store)
		total.Add(report)
		errs = multierr.Append(errs, err)
	}
	return total, errs
}

// SyncAll walks every active store. A failing store is recorded and the
// loop continues: the run is a partial sync, not a hard crash.
func (s *Service) SyncAll(ctx context.Context, rebuild bool) (Report, error) {
	active, err := s.stores.ListActive(ctx)
	if err != nil {
		return Report{}, err
	}

	var total Report
	var errs error
	for i := range active {
		report, err := s.SyncStore(ctx, &active[i], rebuild)
		total.Add(report)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return total, errs
}
