package models

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/sellerdesk/wb-sync/pkg/db/types"
	"github.com/sellerdesk/wb-sync/pkg/enums"
)

// ProductCard is one catalog entry of a store. Identity within a store is
// the upstream per-variant identifier (chrt_id); the composite SKU is kept
// for display and duplicate cleanup.
type ProductCard struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID int64 `gorm:"column:store_id;not null;index:idx_product_cards_store_chrt,priority:1"`

	SKU         string          `gorm:"column:sku;size:128;not null;default:'';index"`
	Name        string          `gorm:"column:name;size:256;not null;default:''"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0"`

	WBProductID   string `gorm:"column:wb_product_id;not null;default:''"`
	WBCharacterID int64  `gorm:"column:wb_character_id;not null;default:0;index:idx_product_cards_store_chrt,priority:2"`
	WBFBSSKU      int64  `gorm:"column:wb_fbs_sku;not null;default:0"`

	Status  enums.ProductCardStatus `gorm:"column:status;not null;default:'pending'"`
	ImageID *int64                  `gorm:"column:image_id"`

	RawData  dbtypes.JSONMap `gorm:"column:raw_data;type:jsonb"`
	Checksum string          `gorm:"column:checksum;size:32;not null;default:''"`

	Images []ProductCardImage `gorm:"foreignKey:ProductCardID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
