package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/sellerdesk/wb-sync/internal/catalog"
	"github.com/sellerdesk/wb-sync/pkg/checksum"
	"github.com/sellerdesk/wb-sync/pkg/db"
	"github.com/sellerdesk/wb-sync/pkg/db/models"
	dbtypes "github.com/sellerdesk/wb-sync/pkg/db/types"
	"github.com/sellerdesk/wb-sync/pkg/enums"
	"github.com/sellerdesk/wb-sync/pkg/errors"
	"github.com/sellerdesk/wb-sync/pkg/logger"
)

// PlaceholderSKU marks product cards created from an order line before the
// catalog sync has seen them.
const PlaceholderSKU = "#####"

// Service materializes aggregate orders into the local schema.
type Service struct {
	db    *db.Client
	repo  *Repository
	cards *catalog.Repository
	logg  *logger.Logger
}

// NewService builds an orders service.
func NewService(client *db.Client, repo *Repository, cards *catalog.Repository, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cards == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{db: client, repo: repo, cards: cards, logg: logg}, nil
}

// UpsertOrder materializes one aggregate order, one transaction per order.
// With rebuild false an unchanged checksum returns the stored row untouched.
func (s *Service) UpsertOrder(ctx context.Context, store *models.Store, agg AggregateOrder, rebuild bool) (*models.Order, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if agg.OrderID == 0 {
		return nil, errors.New(errors.CodeValidation, "aggregate order has no order id")
	}
	if len(agg.Items) == 0 {
		return nil, errors.New(errors.CodeValidation, "aggregate order has no items").
			WithDetails(map[string]any{"order_id": agg.OrderID})
	}

	orderSum, err := checksum.Sum(agg)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "checksum aggregate order")
	}

	ctx = s.logg.WithOrderNumber(s.logg.WithStoreID(ctx, store.ID), agg.OrderID)

	var result *models.Order
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.resolveOrder(ctx, tx, store.ID, agg)
		if err != nil {
			return err
		}

		if !rebuild && order.Checksum == orderSum {
			result = order
			return nil
		}

		for _, item := range agg.Items {
			if err := s.upsertItem(ctx, tx, store, order, agg, item, rebuild); err != nil {
				return err
			}
		}

		payload, err := toJSONMap(agg)
		if err != nil {
			return err
		}
		order.RawData = payload
		order.Checksum = orderSum
		if err := s.repo.SaveOrder(tx, order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveOrder finds the order for (store, number), creating it when missing
// and collapsing duplicates to the lowest id.
func (s *Service) resolveOrder(ctx context.Context, tx *gorm.DB, storeID int64, agg AggregateOrder) (*models.Order, error) {
	found, err := s.repo.FindByNumber(tx, storeID, agg.OrderID)
	if err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		created := agg.DateCreated
		order := &models.Order{
			StoreID:     storeID,
			Number:      agg.OrderID,
			Status:      enums.ParseWildberriesStatus(agg.Status),
			PostingType: enums.PostingTypeWildberriesFBS,
			InProcessAt: &created,
		}
		if err := s.repo.CreateOrder(tx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, errors.Wrap(errors.CodeConflict, err, "concurrent order insert")
			}
			return nil, err
		}
		return order, nil

	case 1:
		return &found[0], nil

	default:
		keep := found[0]
		drop := make([]int64, 0, len(found)-1)
		for _, dup := range found[1:] {
			drop = append(drop, dup.ID)
		}
		if err := s.repo.DeleteOrders(tx, drop); err != nil {
			return nil, err
		}
		s.logg.Warn(s.logg.WithField(ctx, "deleted", len(drop)), "collapsed duplicate orders")
		return &keep, nil
	}
}

func (s *Service) upsertItem(ctx context.Context, tx *gorm.DB, store *models.Store, order *models.Order, agg AggregateOrder, item AggregateItem, rebuild bool) error {
	itemSum, err := checksum.Sum(item)
	if err != nil {
		return errors.Wrap(errors.CodeValidation, err, "checksum order item")
	}

	row, err := s.resolveItem(ctx, tx, order.ID, item)
	if err != nil {
		return err
	}

	if !rebuild && row.Checksum == itemSum {
		return nil
	}

	quantity := item.Quantity
	if quantity == 0 {
		quantity = 1
	}
	row.Quantity = quantity
	row.Price = item.TotalPrice
	if fin := item.Financials; fin != nil {
		commission := fin.SupplierReward
		deliveryCost := fin.DeliveryRub
		returnAmount := fin.ReturnAmount
		row.Commission = &commission
		row.DeliveryCost = &deliveryCost
		row.ReturnAmount = &returnAmount
	} else {
		row.Commission = nil
		row.DeliveryCost = nil
		row.ReturnAmount = nil
	}

	payload, err := toJSONMap(item)
	if err != nil {
		return err
	}
	row.RawData = payload
	row.Checksum = itemSum

	// First write wins: a card linked by an earlier sync is never replaced.
	if row.ProductCardID == nil {
		card, err := s.resolvePlaceholderCard(ctx, tx, store.ID, agg, item)
		if err != nil {
			return err
		}
		row.ProductCardID = &card.ID
	}

	return s.repo.SaveItem(tx, row)
}

// resolveItem finds the item for (order, chrt), creating it when missing and
// collapsing duplicates to the lowest id.
func (s *Service) resolveItem(ctx context.Context, tx *gorm.DB, orderID int64, item AggregateItem) (*models.OrderItem, error) {
	found, err := s.repo.FindItemsByChrt(tx, orderID, item.ChrtID)
	if err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		row := &models.OrderItem{
			OrderID:       orderID,
			WBCharacterID: item.ChrtID,
			Quantity:      quantity,
			Price:         item.TotalPrice,
		}
		if err := s.repo.CreateItem(tx, row); err != nil {
			return nil, err
		}
		return row, nil

	case 1:
		return &found[0], nil

	default:
		keep := found[0]
		drop := make([]int64, 0, len(found)-1)
		for _, dup := range found[1:] {
			drop = append(drop, dup.ID)
		}
		if err := s.repo.DeleteItems(tx, drop); err != nil {
			return nil, err
		}
		s.logg.Warn(s.logg.WithField(ctx, "deleted", len(drop)), "collapsed duplicate order items")
		return &keep, nil
	}
}

// resolvePlaceholderCard finds the store's card for the line's variant id,
// creating a sentinel-SKU placeholder when the catalog has not delivered it
// yet.
func (s *Service) resolvePlaceholderCard(ctx context.Context, tx *gorm.DB, storeID int64, agg AggregateOrder, item AggregateItem) (*models.ProductCard, error) {
	found, err := s.cards.FindByChrt(tx, storeID, item.ChrtID)
	if err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		payload, err := toJSONMap(item)
		if err != nil {
			return nil, err
		}
		card := &models.ProductCard{
			StoreID:       storeID,
			SKU:           PlaceholderSKU,
			Name:          PlaceholderSKU,
			Price:         item.TotalPrice,
			WBCharacterID: item.ChrtID,
			WBFBSSKU:      item.NmID,
			RawData:       payload,
		}
		if err := s.cards.Create(tx, card); err != nil {
			return nil, err
		}
		return card, nil

	case 1:
		return &found[0], nil

	default:
		keep := found[0]
		drop := make([]int64, 0, len(found)-1)
		for _, dup := range found[1:] {
			drop = append(drop, dup.ID)
		}
		if err := s.cards.Delete(tx, drop); err != nil {
			return nil, err
		}
		s.logg.Warn(s.logg.WithField(ctx, "deleted", len(drop)), "collapsed duplicate product cards")
		return &keep, nil
	}
}

func toJSONMap(v any) (dbtypes.JSONMap, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "encode payload")
	}
	var out dbtypes.JSONMap
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "decode payload")
	}
	return out, nil
}
