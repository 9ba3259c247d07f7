package models

import (
	"time"

	dbtypes "github.com/sellerdesk/wb-sync/pkg/db/types"
	"github.com/sellerdesk/wb-sync/pkg/enums"
)

// Order is one upstream order of a store, identified by the marketplace
// order number. Line items cascade with the order.
type Order struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID int64 `gorm:"column:store_id;not null;index:idx_orders_store_number,priority:1"`
	Number  int64 `gorm:"column:number;not null;index:idx_orders_store_number,priority:2"`

	Status      enums.OrderStatus `gorm:"column:status;not null;default:'awaiting_approve'"`
	PostingType enums.PostingType `gorm:"column:posting_type;not null;default:'wildberries_fbs'"`

	InProcessAt *time.Time `gorm:"column:in_process_at"`

	RawData  dbtypes.JSONMap `gorm:"column:raw_data;type:jsonb"`
	Checksum string          `gorm:"column:checksum;size:32;not null;default:''"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
