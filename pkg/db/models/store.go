package models

import (
	"time"

	"github.com/sellerdesk/wb-sync/pkg/enums"
)

// Store represents one seller account on the marketplace. Credentials for
// the four upstream APIs live here so a single worker can serve many sellers.
type Store struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;default:''"`

	SupplierID    string `gorm:"column:supplier_id;not null;default:''"`
	ContentToken  string `gorm:"column:content_token;not null;default:''"`
	StatisticsKey string `gorm:"column:statistics_key;not null;default:''"`
	OrdersToken   string `gorm:"column:orders_token;not null;default:''"`

	DisabledAt     *time.Time                `gorm:"column:disabled_at"`
	DisabledReason enums.StoreDisabledReason `gorm:"column:disabled_reason;not null;default:''"`

	LastProductsSyncAt *time.Time `gorm:"column:last_products_sync_at"`
	LastOrdersSyncAt   *time.Time `gorm:"column:last_orders_sync_at"`

	ProductCards []ProductCard `gorm:"foreignKey:StoreID"`
	Orders       []Order       `gorm:"foreignKey:StoreID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Disabled reports whether syncing is currently suspended for the store.
func (s *Store) Disabled() bool {
	return s.DisabledAt != nil
}
