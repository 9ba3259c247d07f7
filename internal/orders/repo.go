package orders

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sellerdesk/wb-sync/pkg/db/models"
)

// Repository handles order persistence. All methods run on the caller's
// transaction so one order commits atomically.
type Repository struct{}

// NewRepository builds an orders repository.
func NewRepository() *Repository {
	return &Repository{}
}

// FindByNumber returns the orders of a store with the given number, lowest
// id first.
func (r *Repository) FindByNumber(tx *gorm.DB, storeID, number int64) ([]models.Order, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var out []models.Order
	if err := tx.
		Where("store_id = ? AND number = ?", storeID, number).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder inserts a new order row.
func (r *Repository) CreateOrder(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return tx.Create(order).Error
}

// SaveOrder persists the provided order.
func (r *Repository) SaveOrder(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return tx.Save(order).Error
}

// DeleteOrders removes the given order rows with their items.
func (r *Repository) DeleteOrders(tx *gorm.DB, ids []int64) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Order{}).Error
}

// FindItemsByChrt returns the items of an order matching the variant id,
// lowest id first.
func (r *Repository) FindItemsByChrt(tx *gorm.DB, orderID, chrtID int64) ([]models.OrderItem, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var out []models.OrderItem
	if err := tx.
		Where("order_id = ? AND wb_character_id = ?", orderID, chrtID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateItem inserts a new order item row.
func (r *Repository) CreateItem(tx *gorm.DB, item *models.OrderItem) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if item == nil {
		return fmt.Errorf("order item is required")
	}
	return tx.Create(item).Error
}

// SaveItem persists the provided order item.
func (r *Repository) SaveItem(tx *gorm.DB, item *models.OrderItem) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if item == nil {
		return fmt.Errorf("order item is required")
	}
	return tx.Save(item).Error
}

// DeleteItems removes the given order item rows.
func (r *Repository) DeleteItems(tx *gorm.DB, ids []int64) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("id IN ?", ids).Delete(&models.OrderItem{}).Error
}

// ListItems returns all items of an order, lowest id first.
func (r *Repository) ListItems(tx *gorm.DB, orderID int64) ([]models.OrderItem, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var out []models.OrderItem
	if err := tx.
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
