package wildberries

import (
	"context"
	"time"

	"github.com/sellerdesk/wb-sync/pkg/errors"
)

const salesReportPath = "/api/v1/supplier/reportDetailByPeriod"

// Sales fetches the flat financial-report rows for [from, to).
func (c *Client) Sales(ctx context.Context, from, to time.Time) ([]Sale, error) {
	var out []Sale
	resp, err := c.statistics.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":      c.creds.StatisticsKey,
			"dateFrom": from.Format(time.RFC3339),
			"dateTo":   to.Format(time.RFC3339),
		}).
		SetResult(&out).
		Get(salesReportPath)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "wildberries sales report request")
	}
	if !isSuccess(resp) {
		return nil, apiError(salesReportPath, resp)
	}
	return out, nil
}
