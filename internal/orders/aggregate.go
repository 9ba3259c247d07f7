package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/wb-sync/pkg/wildberries"
)

// AggregateOrder is the joined view of one upstream order: line items,
// financial data and the resolved composite status.
type AggregateOrder struct {
	OrderID     int64           `json:"order_id"`
	DateCreated time.Time       `json:"date_created"`
	Status      string          `json:"status"`
	Items       []AggregateItem `json:"items"`
}

// AggregateItem is one de-duplicated line of an aggregate order. TotalPrice
// is already converted from copecks to currency units. Financials is nil
// when no sales-report row matched the line.
type AggregateItem struct {
	ChrtID     int64           `json:"chrt_id"`
	WBWhID     int64           `json:"wb_wh_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	NmID       int64           `json:"nm_id"`
	TsName     string          `json:"ts_name"`
	Quantity   int64           `json:"quantity"`

	Financials *wildberries.Financials `json:"financials,omitempty"`
}
