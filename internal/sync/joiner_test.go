package sync

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/wb-sync/pkg/wildberries"
)

func feedOrder(orderID string, whID int64, lines ...wildberries.OrderLine) wildberries.Order {
	return wildberries.Order{
		OrderID:     json.Number(orderID),
		DateCreated: "2024-05-02T10:00:00Z",
		WBWhID:      whID,
		Items:       lines,
	}
}

func feedSale(rid string, nmID int64, tsName string, quantity int64, fin wildberries.Financials) wildberries.Sale {
	return wildberries.Sale{
		Rid:        json.Number(rid),
		NmID:       nmID,
		TsName:     tsName,
		Quantity:   quantity,
		Financials: fin,
	}
}

func TestJoinLeftJoinsSales(t *testing.T) {
	orderFeed := []wildberries.Order{
		feedOrder("123", 7,
			wildberries.OrderLine{ChrtID: 1, Status: 1, Rid: "10", TotalPrice: 10000},
			wildberries.OrderLine{ChrtID: 2, Status: 1, Rid: "11", TotalPrice: 5000},
		),
	}
	sales := []wildberries.Sale{
		feedSale("10", 555, "42", 2, wildberries.Financials{SupplierReward: decimal.NewFromInt(500)}),
	}
	statuses := []wildberries.OrderStatus{{OrderID: 123, Status: 2}}

	aggregates := Join(orderFeed, sales, statuses)
	if len(aggregates) != 1 {
		t.Fatalf("expected one aggregate order, got %d", len(aggregates))
	}
	agg := aggregates[0]
	if agg.OrderID != 123 {
		t.Errorf("unexpected order id %d", agg.OrderID)
	}
	if agg.Status != "12" {
		t.Errorf("unexpected composite status %q", agg.Status)
	}
	if !agg.DateCreated.Equal(time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", agg.DateCreated)
	}
	if len(agg.Items) != 2 {
		t.Fatalf("expected two items, got %d", len(agg.Items))
	}

	matched := agg.Items[0]
	if matched.ChrtID != 1 {
		t.Fatalf("expected matched line first, got chrt %d", matched.ChrtID)
	}
	if !matched.TotalPrice.Equal(decimal.RequireFromString("100")) {
		t.Errorf("expected copecks conversion to 100, got %s", matched.TotalPrice)
	}
	if matched.NmID != 555 || matched.TsName != "42" || matched.Quantity != 2 {
		t.Errorf("unexpected sale columns %+v", matched)
	}
	if matched.Financials == nil || !matched.Financials.SupplierReward.Equal(decimal.NewFromInt(500)) {
		t.Errorf("unexpected financials %+v", matched.Financials)
	}

	unmatched := agg.Items[1]
	if unmatched.ChrtID != 2 {
		t.Fatalf("expected unmatched line second, got chrt %d", unmatched.ChrtID)
	}
	if unmatched.Financials != nil {
		t.Errorf("unmatched line must keep nil financials, got %+v", unmatched.Financials)
	}
	if !unmatched.TotalPrice.Equal(decimal.RequireFromString("50")) {
		t.Errorf("unexpected price %s", unmatched.TotalPrice)
	}
}

func TestJoinSumsDuplicateSaleRows(t *testing.T) {
	orderFeed := []wildberries.Order{
		feedOrder("123", 7,
			wildberries.OrderLine{ChrtID: 1, Status: 1, Rid: "10", TotalPrice: 10000},
		),
	}
	sales := []wildberries.Sale{
		feedSale("10", 555, "42", 2, wildberries.Financials{
			SupplierReward: decimal.NewFromInt(300),
			DeliveryRub:    decimal.NewFromInt(20),
		}),
		feedSale("10", 555, "42", 2, wildberries.Financials{
			SupplierReward: decimal.NewFromInt(200),
			DeliveryRub:    decimal.NewFromInt(10),
		}),
	}

	aggregates := Join(orderFeed, sales, nil)
	if len(aggregates) != 1 || len(aggregates[0].Items) != 1 {
		t.Fatalf("expected one order with one collapsed item, got %+v", aggregates)
	}
	item := aggregates[0].Items[0]
	if item.Financials == nil {
		t.Fatal("expected summed financials")
	}
	if !item.Financials.SupplierReward.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected supplier_reward 500, got %s", item.Financials.SupplierReward)
	}
	if !item.Financials.DeliveryRub.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected delivery_rub 30, got %s", item.Financials.DeliveryRub)
	}
}

func TestJoinKeepsDistinctSaleRowsApart(t *testing.T) {
	orderFeed := []wildberries.Order{
		feedOrder("123", 7,
			wildberries.OrderLine{ChrtID: 1, Status: 1, Rid: "10", TotalPrice: 10000},
		),
	}
	// Same rid but different sale columns: two physical lines.
	sales := []wildberries.Sale{
		feedSale("10", 555, "42", 1, wildberries.Financials{SupplierReward: decimal.NewFromInt(100)}),
		feedSale("10", 556, "43", 1, wildberries.Financials{SupplierReward: decimal.NewFromInt(200)}),
	}

	aggregates := Join(orderFeed, sales, nil)
	if len(aggregates) != 1 {
		t.Fatalf("expected one order, got %d", len(aggregates))
	}
	if len(aggregates[0].Items) != 2 {
		t.Fatalf("expected two distinct items, got %d", len(aggregates[0].Items))
	}
}

func TestJoinMissingStatusUsesSentinel(t *testing.T) {
	orderFeed := []wildberries.Order{
		feedOrder("123", 7,
			wildberries.OrderLine{ChrtID: 1, Status: 2, Rid: "10", TotalPrice: 1000},
		),
	}

	aggregates := Join(orderFeed, nil, nil)
	if len(aggregates) != 1 {
		t.Fatalf("expected one order, got %d", len(aggregates))
	}
	if aggregates[0].Status != "20" {
		t.Errorf("expected sentinel supply status 0, got %q", aggregates[0].Status)
	}
}

func TestJoinSplitsOrderByItemStatus(t *testing.T) {
	orderFeed := []wildberries.Order{
		feedOrder("123", 7,
			wildberries.OrderLine{ChrtID: 1, Status: 1, Rid: "10", TotalPrice: 1000},
			wildberries.OrderLine{ChrtID: 2, Status: 3, Rid: "11", TotalPrice: 1000},
		),
	}

	aggregates := Join(orderFeed, nil, nil)
	if len(aggregates) != 2 {
		t.Fatalf("expected two aggregates split by status, got %d", len(aggregates))
	}
	if aggregates[0].Status != "10" || aggregates[1].Status != "30" {
		t.Errorf("unexpected statuses %q %q", aggregates[0].Status, aggregates[1].Status)
	}
}

func TestJoinDropsUnparsableIdentifiers(t *testing.T) {
	orderFeed := []wildberries.Order{
		feedOrder("not-a-number", 7,
			wildberries.OrderLine{ChrtID: 1, Status: 1, Rid: "10", TotalPrice: 1000},
		),
		feedOrder("123", 7,
			wildberries.OrderLine{ChrtID: 1, Status: 1, Rid: "bad-rid", TotalPrice: 1000},
			wildberries.OrderLine{ChrtID: 2, Status: 1, Rid: "11", TotalPrice: 1000},
		),
	}

	aggregates := Join(orderFeed, nil, nil)
	if len(aggregates) != 1 {
		t.Fatalf("expected one surviving order, got %d", len(aggregates))
	}
	if len(aggregates[0].Items) != 1 || aggregates[0].Items[0].ChrtID != 2 {
		t.Fatalf("expected only the parsable line, got %+v", aggregates[0].Items)
	}
}
