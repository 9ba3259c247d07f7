package models

// ProductCardImage is one remote image attached to a product card. Rows are
// reconciled against the card's current image URL set on every catalog sync.
type ProductCardImage struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ProductCardID int64  `gorm:"column:product_card_id;not null;index"`
	RemoteFileURL string `gorm:"column:remote_file_url;size:256;not null;default:'';index"`
}
