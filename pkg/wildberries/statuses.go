package wildberries

import (
	"context"
	"time"

	"github.com/sellerdesk/wb-sync/pkg/errors"
)

const statusesPath = "/api/public/v1/supply_tasks/status"

// OrderStatuses fetches shipment-status events for [from, to) and resolves
// each order to one status: the event with the latest date wins, and on
// equal dates the later array position wins.
func (c *Client) OrderStatuses(ctx context.Context, from, to time.Time) ([]OrderStatus, error) {
	var out []supplyStatus
	resp, err := c.statuses.R().
		SetContext(ctx).
		SetHeader("X-Auth-Token", c.creds.OrdersToken).
		SetQueryParams(map[string]string{
			"date_start": from.Format(time.RFC3339),
			"date_end":   to.Format(time.RFC3339),
		}).
		SetResult(&out).
		Get(statusesPath)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "wildberries statuses request")
	}
	if !isSuccess(resp) {
		return nil, apiError(statusesPath, resp)
	}

	resolved := make([]OrderStatus, 0, len(out))
	for _, supply := range out {
		if len(supply.Items) == 0 {
			continue
		}
		orderID, err := supply.OrderID.Int64()
		if err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "wildberries statuses: bad order_id")
		}
		last := supply.Items[0]
		for _, event := range supply.Items[1:] {
			if !event.Date.Before(last.Date) {
				last = event
			}
		}
		resolved = append(resolved, OrderStatus{OrderID: orderID, Status: last.Status})
	}
	return resolved, nil
}
