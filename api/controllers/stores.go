package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/sellerdesk/wb-sync/api/responses"
	"github.com/sellerdesk/wb-sync/pkg/db/models"
	pkgerrors "github.com/sellerdesk/wb-sync/pkg/errors"
	"github.com/sellerdesk/wb-sync/pkg/logger"
)

type storeLister interface {
	ListAll(ctx context.Context) ([]models.Store, error)
}

// StoreStatus is the ops view of one seller account: credentials are never
// echoed back, only sync health.
type StoreStatus struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	SupplierID         string     `json:"supplier_id"`
	Disabled           bool       `json:"disabled"`
	DisabledReason     string     `json:"disabled_reason,omitempty"`
	DisabledAt         *time.Time `json:"disabled_at,omitempty"`
	LastProductsSyncAt *time.Time `json:"last_products_sync_at,omitempty"`
	LastOrdersSyncAt   *time.Time `json:"last_orders_sync_at,omitempty"`
}

func StoreList(lister storeLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		all, err := lister.ListAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stores"))
			return
		}
		out := make([]StoreStatus, 0, len(all))
		for i := range all {
			store := &all[i]
			out = append(out, StoreStatus{
				ID:                 store.ID,
				Name:               store.Name,
				SupplierID:         store.SupplierID,
				Disabled:           store.Disabled(),
				DisabledReason:     string(store.DisabledReason),
				DisabledAt:         store.DisabledAt,
				LastProductsSyncAt: store.LastProductsSyncAt,
				LastOrdersSyncAt:   store.LastOrdersSyncAt,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
