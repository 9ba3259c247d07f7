package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sellerdesk/wb-sync/pkg/db/models"
)

// Repository handles product card persistence. All methods run on the
// caller's transaction so one card is committed atomically.
type Repository struct{}

// NewRepository builds a catalog repository.
func NewRepository() *Repository {
	return &Repository{}
}

// FindByChrt returns the cards of a store matching the variant id, lowest
// id first.
func (r *Repository) FindByChrt(tx *gorm.DB, storeID, chrtID int64) ([]models.ProductCard, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var out []models.ProductCard
	if err := tx.
		Where("store_id = ? AND wb_character_id = ?", storeID, chrtID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindBySKU returns the cards of a store matching the composite SKU, lowest
// id first.
func (r *Repository) FindBySKU(tx *gorm.DB, storeID int64, sku string) ([]models.ProductCard, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var out []models.ProductCard
	if err := tx.
		Where("store_id = ? AND sku = ?", storeID, sku).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new card row.
func (r *Repository) Create(tx *gorm.DB, card *models.ProductCard) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if card == nil {
		return fmt.Errorf("card is required")
	}
	return tx.Create(card).Error
}

// Save persists the provided card.
func (r *Repository) Save(tx *gorm.DB, card *models.ProductCard) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if card == nil {
		return fmt.Errorf("card is required")
	}
	return tx.Save(card).Error
}

// Delete removes the given card rows and their images.
func (r *Repository) Delete(tx *gorm.DB, ids []int64) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("product_card_id IN ?", ids).
		Delete(&models.ProductCardImage{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.ProductCard{}).Error
}

// TouchUpdatedAt bumps only the card's updated_at column.
func (r *Repository) TouchUpdatedAt(tx *gorm.DB, cardID int64) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.ProductCard{}).
		Where("id = ?", cardID).
		UpdateColumn("updated_at", tx.NowFunc()).Error
}

// FindOrCreateImage returns the image row for (card, url), creating it when
// absent.
func (r *Repository) FindOrCreateImage(tx *gorm.DB, cardID int64, url string) (*models.ProductCardImage, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var image models.ProductCardImage
	err := tx.
		Where("product_card_id = ? AND remote_file_url = ?", cardID, url).
		First(&image).Error
	if err == nil {
		return &image, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	image = models.ProductCardImage{ProductCardID: cardID, RemoteFileURL: url}
	if err := tx.Create(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteImagesExcept removes the card's image rows whose id is not listed.
func (r *Repository) DeleteImagesExcept(tx *gorm.DB, cardID int64, keep []int64) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	query := tx.Where("product_card_id = ?", cardID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(&models.ProductCardImage{}).Error
}
