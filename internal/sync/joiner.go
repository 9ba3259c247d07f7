package sync

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/wb-sync/internal/orders"
	"github.com/sellerdesk/wb-sync/pkg/wildberries"
)

var copecksPerUnit = decimal.NewFromInt(100)

type lineRow struct {
	orderID     int64
	dateCreated string
	status      string

	chrtID     int64
	whID       int64
	totalPrice decimal.Decimal
	nmID       int64
	tsName     string
	quantity   int64

	financials *wildberries.Financials
}

type orderKey struct {
	orderID     int64
	dateCreated string
	status      string
}

type itemKey struct {
	chrtID     int64
	whID       int64
	totalPrice string
	nmID       int64
	tsName     string
	quantity   int64
}

// Join reconciles the three feeds into aggregate orders. Line items are
// left-joined with sales by rid (unmatched lines keep nil financials) and
// with resolved statuses by order id (missing orders get the 0 sentinel).
// Duplicate financial rows describing the same physical line are summed.
// Lines with an unparsable order id or rid are dropped.
func Join(orderFeed []wildberries.Order, sales []wildberries.Sale, statuses []wildberries.OrderStatus) []orders.AggregateOrder {
	salesByRid := make(map[int64][]wildberries.Sale, len(sales))
	for _, sale := range sales {
		rid, err := sale.Rid.Int64()
		if err != nil {
			continue
		}
		salesByRid[rid] = append(salesByRid[rid], sale)
	}

	statusByOrder := make(map[int64]int64, len(statuses))
	for _, status := range statuses {
		statusByOrder[status.OrderID] = status.Status
	}

	rows := flatten(orderFeed, salesByRid, statusByOrder)
	return group(rows)
}

func flatten(orderFeed []wildberries.Order, salesByRid map[int64][]wildberries.Sale, statusByOrder map[int64]int64) []lineRow {
	var rows []lineRow
	for _, order := range orderFeed {
		orderID, err := order.OrderID.Int64()
		if err != nil {
			continue
		}
		supplyStatus := statusByOrder[orderID]

		for _, line := range order.Items {
			rid, err := line.Rid.Int64()
			if err != nil {
				continue
			}

			base := lineRow{
				orderID:     orderID,
				dateCreated: order.DateCreated,
				status:      fmt.Sprintf("%d%d", line.Status, supplyStatus),
				chrtID:      line.ChrtID,
				whID:        order.WBWhID,
				totalPrice:  decimal.NewFromInt(line.TotalPrice).Div(copecksPerUnit),
			}

			matched := salesByRid[rid]
			if len(matched) == 0 {
				rows = append(rows, base)
				continue
			}
			for _, sale := range matched {
				row := base
				row.nmID = sale.NmID
				row.tsName = sale.TsName
				row.quantity = sale.Quantity
				financials := sale.Financials
				row.financials = &financials
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func group(rows []lineRow) []orders.AggregateOrder {
	type itemAcc struct {
		item orders.AggregateItem
	}
	type orderAcc struct {
		order    orders.AggregateOrder
		itemKeys []itemKey
		items    map[itemKey]*itemAcc
	}

	var orderKeys []orderKey
	grouped := make(map[orderKey]*orderAcc)

	for _, row := range rows {
		ok := orderKey{orderID: row.orderID, dateCreated: row.dateCreated, status: row.status}
		acc, exists := grouped[ok]
		if !exists {
			acc = &orderAcc{
				order: orders.AggregateOrder{
					OrderID:     row.orderID,
					DateCreated: parseFeedTime(row.dateCreated),
					Status:      row.status,
				},
				items: make(map[itemKey]*itemAcc),
			}
			grouped[ok] = acc
			orderKeys = append(orderKeys, ok)
		}

		ik := itemKey{
			chrtID:     row.chrtID,
			whID:       row.whID,
			totalPrice: row.totalPrice.String(),
			nmID:       row.nmID,
			tsName:     row.tsName,
			quantity:   row.quantity,
		}
		slot, exists := acc.items[ik]
		if !exists {
			slot = &itemAcc{item: orders.AggregateItem{
				ChrtID:     row.chrtID,
				WBWhID:     row.whID,
				TotalPrice: row.totalPrice,
				NmID:       row.nmID,
				TsName:     row.tsName,
				Quantity:   row.quantity,
			}}
			acc.items[ik] = slot
			acc.itemKeys = append(acc.itemKeys, ik)
		}

		if row.financials != nil {
			if slot.item.Financials == nil {
				financials := *row.financials
				slot.item.Financials = &financials
			} else {
				slot.item.Financials.Add(*row.financials)
			}
		}
	}

	out := make([]orders.AggregateOrder, 0, len(orderKeys))
	for _, ok := range orderKeys {
		acc := grouped[ok]
		for _, ik := range acc.itemKeys {
			acc.order.Items = append(acc.order.Items, acc.items[ik].item)
		}
		out = append(out, acc.order)
	}
	return out
}

func parseFeedTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
