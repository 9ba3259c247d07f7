package wildberries

import (
	"context"
	"time"

	"github.com/sellerdesk/wb-sync/pkg/errors"
)

const ordersPath = "/api/v1/orders"

// Orders fetches the FBS orders created inside [from, to).
func (c *Client) Orders(ctx context.Context, from, to time.Time) ([]Order, error) {
	var out []Order
	resp, err := c.orders.R().
		SetContext(ctx).
		SetHeader("X-Auth-Token", c.creds.OrdersToken).
		SetQueryParams(map[string]string{
			"date_start": from.Format(time.RFC3339),
			"date_end":   to.Format(time.RFC3339),
		}).
		SetResult(&out).
		Get(ordersPath)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "wildberries orders request")
	}
	if !isSuccess(resp) {
		return nil, apiError(ordersPath, resp)
	}
	return out, nil
}
