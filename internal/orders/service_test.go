package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sellerdesk/wb-sync/internal/catalog"
	"github.com/sellerdesk/wb-sync/pkg/db"
	"github.com/sellerdesk/wb-sync/pkg/db/models"
	"github.com/sellerdesk/wb-sync/pkg/enums"
	"github.com/sellerdesk/wb-sync/pkg/errors"
	"github.com/sellerdesk/wb-sync/pkg/logger"
	"github.com/sellerdesk/wb-sync/pkg/wildberries"
)

var testDBSeq int

func newTestDB(t *testing.T) *db.Client {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:orders_test_%d?mode=memory&cache=shared", testDBSeq)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Store{},
		&models.ProductCard{},
		&models.ProductCardImage{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db.NewWithConn(conn)
}

func newTestService(t *testing.T) (*Service, *db.Client) {
	t.Helper()
	client := newTestDB(t)
	svc, err := NewService(client, NewRepository(), catalog.NewRepository(),
		logger.New(logger.Options{ServiceName: "orders-test"}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, client
}

func seedStore(t *testing.T, client *db.Client) *models.Store {
	t.Helper()
	store := &models.Store{Name: "shop", SupplierID: "supplier-1"}
	if err := client.DB().Create(store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func baseAggregate() AggregateOrder {
	return AggregateOrder{
		OrderID:     123,
		DateCreated: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
		Status:      "12",
		Items: []AggregateItem{
			{
				ChrtID:     1,
				WBWhID:     7,
				TotalPrice: decimal.NewFromInt(10000).Div(decimal.NewFromInt(100)),
				NmID:       555,
				TsName:     "42",
				Quantity:   2,
				Financials: &wildberries.Financials{
					SupplierReward: decimal.NewFromInt(500),
					DeliveryRub:    decimal.NewFromInt(30),
					ReturnAmount:   decimal.NewFromInt(0),
				},
			},
		},
	}
}

func TestUpsertOrderEndToEnd(t *testing.T) {
	svc, client := newTestService(t)
	store := seedStore(t, client)

	order, err := svc.UpsertOrder(context.Background(), store, baseAggregate(), false)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if order.Number != 123 {
		t.Errorf("unexpected number %d", order.Number)
	}
	if order.Status != enums.OrderStatusAwaitingDeliver {
		t.Errorf("unexpected status %q", order.Status)
	}
	if order.PostingType != enums.PostingTypeWildberriesFBS {
		t.Errorf("unexpected posting type %q", order.PostingType)
	}
	if order.Checksum == "" {
		t.Error("expected order checksum to be set")
	}

	var items []models.OrderItem
	if err := client.DB().Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		t.Fatalf("load items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	item := items[0]
	if !item.Price.Equal(decimal.RequireFromString("100")) {
		t.Errorf("expected price 100.00, got %s", item.Price)
	}
	if item.Commission == nil || !item.Commission.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected commission 500, got %v", item.Commission)
	}
	if item.DeliveryCost == nil || !item.DeliveryCost.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected delivery cost 30, got %v", item.DeliveryCost)
	}
	if item.Quantity != 2 {
		t.Errorf("unexpected quantity %d", item.Quantity)
	}
	if item.ProductCardID == nil {
		t.Fatal("expected a linked product card")
	}

	var card models.ProductCard
	if err := client.DB().First(&card, *item.ProductCardID).Error; err != nil {
		t.Fatalf("load card: %v", err)
	}
	if card.SKU != PlaceholderSKU || card.Name != PlaceholderSKU {
		t.Errorf("expected placeholder card, got sku %q name %q", card.SKU, card.Name)
	}
	if card.WBFBSSKU != 555 || card.WBCharacterID != 1 {
		t.Errorf("unexpected placeholder identifiers %+v", card)
	}
}

func TestUpsertOrderIdempotent(t *testing.T) {
	svc, client := newTestService(t)
	store := seedStore(t, client)

	first, err := svc.UpsertOrder(context.Background(), store, baseAggregate(), false)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := svc.UpsertOrder(context.Background(), store, baseAggregate(), false)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same order row, got %d and %d", first.ID, second.ID)
	}

	var orderCount, itemCount int64
	client.DB().Model(&models.Order{}).Count(&orderCount)
	client.DB().Model(&models.OrderItem{}).Count(&itemCount)
	if orderCount != 1 || itemCount != 1 {
		t.Errorf("expected 1 order and 1 item, got %d and %d", orderCount, itemCount)
	}
}

func TestUpsertOrderChecksumShortCircuit(t *testing.T) {
	svc, client := newTestService(t)
	store := seedStore(t, client)

	first, err := svc.UpsertOrder(context.Background(), store, baseAggregate(), false)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Manual edit survives an unchanged-payload sync.
	if err := client.DB().Model(&models.OrderItem{}).
		Where("order_id = ?", first.ID).
		UpdateColumn("quantity", 99).Error; err != nil {
		t.Fatalf("manual edit: %v", err)
	}

	if _, err := svc.UpsertOrder(context.Background(), store, baseAggregate(), false); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	var item models.OrderItem
	if err := client.DB().Where("order_id = ?", first.ID).First(&item).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if item.Quantity != 99 {
		t.Errorf("short circuit rewrote item, quantity %d", item.Quantity)
	}

	// rebuild forces the overwrite through.
	if _, err := svc.UpsertOrder(context.Background(), store, baseAggregate(), true); err != nil {
		t.Fatalf("rebuild upsert: %v", err)
	}
	if err := client.DB().Where("order_id = ?", first.ID).First(&item).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if item.Quantity != 2 {
		t.Errorf("rebuild did not overwrite, quantity %d", item.Quantity)
	}
}

func TestUpsertOrderDuplicateCollapse(t *testing.T) {
	svc, client := newTestService(t)
	store := seedStore(t, client)

	dups := []models.Order{
		{StoreID: store.ID, Number: 123},
		{StoreID: store.ID, Number: 123},
	}
	for i := range dups {
		if err := client.DB().Create(&dups[i]).Error; err != nil {
			t.Fatalf("seed duplicate: %v", err)
		}
	}
	minID := dups[0].ID
	if dups[1].ID < minID {
		minID = dups[1].ID
	}

	got, err := svc.UpsertOrder(context.Background(), store, baseAggregate(), false)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got.ID != minID {
		t.Errorf("expected surviving row %d, got %d", minID, got.ID)
	}

	var count int64
	client.DB().Model(&models.Order{}).Where("number = ?", 123).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one surviving order, got %d", count)
	}
}

func TestUpsertOrderCardLinkFirstWriteWins(t *testing.T) {
	svc, client := newTestService(t)
	store := seedStore(t, client)

	existing := &models.ProductCard{StoreID: store.ID, SKU: "SVC-ART-9", WBCharacterID: 1}
	if err := client.DB().Create(existing).Error; err != nil {
		t.Fatalf("seed card: %v", err)
	}

	order, err := svc.UpsertOrder(context.Background(), store, baseAggregate(), false)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var item models.OrderItem
	if err := client.DB().Where("order_id = ?", order.ID).First(&item).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if item.ProductCardID == nil || *item.ProductCardID != existing.ID {
		t.Fatalf("expected existing card link %d, got %v", existing.ID, item.ProductCardID)
	}

	// A later rebuild never replaces the link.
	another := &models.ProductCard{StoreID: store.ID, SKU: "other", WBCharacterID: 1}
	if err := client.DB().Create(another).Error; err != nil {
		t.Fatalf("seed second card: %v", err)
	}
	if _, err := svc.UpsertOrder(context.Background(), store, baseAggregate(), true); err != nil {
		t.Fatalf("rebuild upsert: %v", err)
	}
	if err := client.DB().Where("order_id = ?", order.ID).First(&item).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if item.ProductCardID == nil || *item.ProductCardID != existing.ID {
		t.Errorf("card link was replaced: got %v", item.ProductCardID)
	}
}

func TestUpsertOrderNullFinancials(t *testing.T) {
	svc, client := newTestService(t)
	store := seedStore(t, client)

	agg := baseAggregate()
	agg.Items[0].Financials = nil

	order, err := svc.UpsertOrder(context.Background(), store, agg, false)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var item models.OrderItem
	if err := client.DB().Where("order_id = ?", order.ID).First(&item).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if item.Commission != nil || item.DeliveryCost != nil || item.ReturnAmount != nil {
		t.Errorf("expected null financials, got %+v", item)
	}
}

func TestUpsertOrderRejectsMalformedAggregates(t *testing.T) {
	svc, client := newTestService(t)
	store := seedStore(t, client)

	cases := []AggregateOrder{
		{OrderID: 0, Items: baseAggregate().Items},
		{OrderID: 123},
	}
	for _, agg := range cases {
		_, err := svc.UpsertOrder(context.Background(), store, agg, false)
		if err == nil {
			t.Fatalf("expected validation error for %+v", agg)
		}
		coded := errors.As(err)
		if coded == nil || coded.Code() != errors.CodeValidation {
			t.Fatalf("expected validation code, got %v", err)
		}
	}
}
