package wildberries

import (
	"context"
	"time"

	"github.com/sellerdesk/wb-sync/pkg/errors"
)

// CheckConnection probes all four endpoints with a minimal request and
// reports whether every one of them answered 2xx. A transport failure is
// returned as an error; a non-2xx answer is a clean false.
func (c *Client) CheckConnection(ctx context.Context) (bool, error) {
	now := time.Now().UTC()
	dayAgo := now.Add(-24 * time.Hour)

	contentResp, err := c.content.R().
		SetContext(ctx).
		SetHeader("Authorization", c.creds.ContentToken).
		SetHeader("Content-Type", "application/json").
		SetBody(newCardListRequest(c.creds.SupplierID, 0, 1)).
		Post(cardListPath)
	if err != nil {
		return false, errors.Wrap(errors.CodeDependency, err, "wildberries connection check: content")
	}

	ordersResp, err := c.orders.R().
		SetContext(ctx).
		SetHeader("X-Auth-Token", c.creds.OrdersToken).
		SetQueryParams(map[string]string{
			"date_start": dayAgo.Format(time.RFC3339),
			"date_end":   now.Format(time.RFC3339),
		}).
		Get(ordersPath)
	if err != nil {
		return false, errors.Wrap(errors.CodeDependency, err, "wildberries connection check: orders")
	}

	statusesResp, err := c.statuses.R().
		SetContext(ctx).
		SetHeader("X-Auth-Token", c.creds.OrdersToken).
		SetQueryParams(map[string]string{
			"date_start": dayAgo.Format(time.RFC3339),
			"date_end":   now.Format(time.RFC3339),
		}).
		Get(statusesPath)
	if err != nil {
		return false, errors.Wrap(errors.CodeDependency, err, "wildberries connection check: statuses")
	}

	salesResp, err := c.statistics.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":      c.creds.StatisticsKey,
			"dateFrom": now.Format(time.RFC3339),
			"dateTo":   now.Format(time.RFC3339),
		}).
		Get(salesReportPath)
	if err != nil {
		return false, errors.Wrap(errors.CodeDependency, err, "wildberries connection check: sales")
	}

	ok := isSuccess(contentResp) &&
		isSuccess(ordersResp) &&
		isSuccess(statusesResp) &&
		isSuccess(salesResp)
	return ok, nil
}
