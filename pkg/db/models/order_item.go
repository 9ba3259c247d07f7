package models

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/sellerdesk/wb-sync/pkg/db/types"
)

// OrderItem is one line of an order, keyed by the upstream variant
// identifier. Financial columns are nullable: a line with no matching
// sales-report row keeps them null rather than zero.
type OrderItem struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID int64 `gorm:"column:order_id;not null;index:idx_order_items_order_chrt,priority:1"`

	WBCharacterID int64 `gorm:"column:wb_character_id;not null;default:0;index:idx_order_items_order_chrt,priority:2"`

	Quantity int64           `gorm:"column:quantity;not null;default:1"`
	Price    decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`

	Commission   *decimal.Decimal `gorm:"column:commission;type:numeric(12,2)"`
	DeliveryCost *decimal.Decimal `gorm:"column:delivery_cost;type:numeric(12,2)"`
	ReturnAmount *decimal.Decimal `gorm:"column:return_amount;type:numeric(12,2)"`
	PackingCost  *decimal.Decimal `gorm:"column:packing_cost;type:numeric(12,2)"`

	// ProductCardID is linked once and never overwritten by later syncs.
	ProductCardID *int64       `gorm:"column:product_card_id;index"`
	ProductCard   *ProductCard `gorm:"foreignKey:ProductCardID"`

	RawData  dbtypes.JSONMap `gorm:"column:raw_data;type:jsonb"`
	Checksum string          `gorm:"column:checksum;size:32;not null;default:''"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
