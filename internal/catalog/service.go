package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/sellerdesk/wb-sync/pkg/checksum"
	"github.com/sellerdesk/wb-sync/pkg/db"
	"github.com/sellerdesk/wb-sync/pkg/db/models"
	dbtypes "github.com/sellerdesk/wb-sync/pkg/db/types"
	"github.com/sellerdesk/wb-sync/pkg/enums"
	"github.com/sellerdesk/wb-sync/pkg/errors"
	"github.com/sellerdesk/wb-sync/pkg/logger"
	"github.com/sellerdesk/wb-sync/pkg/wildberries"
)

// Service reconciles upstream catalog cards into local product cards.
type Service struct {
	db   *db.Client
	repo *Repository
	logg *logger.Logger
}

// NewService builds a catalog service.
func NewService(client *db.Client, repo *Repository, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{db: client, repo: repo, logg: logg}, nil
}

// UpsertProductCard materializes one upstream card into the store's catalog,
// one transaction per card. A checksum match is a no-op that only bumps
// updated_at. Cards without nomenclatures are rejected with a validation
// error so the caller can count them as skipped.
func (s *Service) UpsertProductCard(ctx context.Context, store *models.Store, card wildberries.Card) (*models.ProductCard, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if len(card.Nomenclatures) == 0 {
		return nil, errors.New(errors.CodeValidation, "card has no nomenclatures").
			WithDetails(map[string]any{"wb_product_id": card.ID})
	}

	sum, err := checksum.SumRaw(card.Raw)
	if err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "checksum card payload")
	}

	ctx = s.logg.WithStoreID(ctx, store.ID)

	var result *models.ProductCard
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, nom := range card.Nomenclatures {
			if len(nom.Variations) == 0 {
				s.logg.Warn(s.logg.WithField(ctx, "vendor_code", nom.VendorCode),
					"nomenclature has no variations, skipping")
				continue
			}

			sku := card.SupplierVendorCode + nom.VendorCode
			chrtID := nom.Variations[0].ChrtID

			existing, err := s.resolveCard(ctx, tx, store.ID, chrtID, sku)
			if err != nil {
				return err
			}

			if existing.Checksum == sum {
				if err := s.repo.TouchUpdatedAt(tx, existing.ID); err != nil {
					return err
				}
				result = existing
				return nil
			}

			if err := s.applyCard(tx, existing, card, nom, sku, sum); err != nil {
				return err
			}
			result = existing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveCard finds the card for (store, chrt), creating a bare row when
// missing and collapsing duplicates to the lowest id when more than one
// matches.
func (s *Service) resolveCard(ctx context.Context, tx *gorm.DB, storeID, chrtID int64, sku string) (*models.ProductCard, error) {
	cards, err := s.repo.FindByChrt(tx, storeID, chrtID)
	if err != nil {
		return nil, err
	}

	switch len(cards) {
	case 0:
		card := &models.ProductCard{
			StoreID:       storeID,
			SKU:           sku,
			WBCharacterID: chrtID,
		}
		if err := s.repo.Create(tx, card); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, errors.Wrap(errors.CodeConflict, err, "concurrent card insert")
			}
			return nil, err
		}
		return card, nil

	case 1:
		return &cards[0], nil

	default:
		return s.collapseDuplicates(ctx, tx, storeID, sku, cards)
	}
}

// collapseDuplicates keeps the row with the lowest id and deletes the rest.
func (s *Service) collapseDuplicates(ctx context.Context, tx *gorm.DB, storeID int64, sku string, fallback []models.ProductCard) (*models.ProductCard, error) {
	cards, err := s.repo.FindBySKU(tx, storeID, sku)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		cards = fallback
	}

	keep := cards[0]
	drop := make([]int64, 0, len(cards)-1)
	for _, dup := range cards[1:] {
		drop = append(drop, dup.ID)
	}
	if err := s.repo.Delete(tx, drop); err != nil {
		return nil, err
	}

	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"sku":     sku,
		"kept_id": keep.ID,
		"deleted": len(drop),
	}), "collapsed duplicate product cards")
	return &keep, nil
}

// applyCard overwrites the mutable fields and reconciles the image set.
func (s *Service) applyCard(tx *gorm.DB, card *models.ProductCard, raw wildberries.Card, nom wildberries.Nomenclature, sku, sum string) error {
	var payload dbtypes.JSONMap
	if err := json.Unmarshal(raw.Raw, &payload); err != nil {
		return errors.Wrap(errors.CodeValidation, err, "decode card payload")
	}

	card.SKU = sku
	card.Name = raw.Name()
	card.Description = raw.Description()
	card.Price = nom.Price()
	card.WBProductID = raw.ID.String()
	card.WBFBSSKU = nom.NmID
	card.Status = enums.ProductCardStatusProcessed
	card.RawData = payload
	card.Checksum = sum

	imageIDs := make([]int64, 0)
	for _, url := range nom.Images() {
		image, err := s.repo.FindOrCreateImage(tx, card.ID, url)
		if err != nil {
			return err
		}
		imageIDs = append(imageIDs, image.ID)
	}
	if err := s.repo.DeleteImagesExcept(tx, card.ID, imageIDs); err != nil {
		return err
	}
	if len(imageIDs) > 0 {
		card.ImageID = &imageIDs[0]
	} else {
		card.ImageID = nil
	}

	return s.repo.Save(tx, card)
}
