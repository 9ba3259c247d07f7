package wildberries

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sellerdesk/wb-sync/pkg/config"
	"github.com/sellerdesk/wb-sync/pkg/errors"
	"github.com/sellerdesk/wb-sync/pkg/logger"
)

// Credentials holds the per-store secrets for the four upstream APIs.
type Credentials struct {
	SupplierID    string
	ContentToken  string
	StatisticsKey string
	OrdersToken   string
}

// Client talks to the four Wildberries seller APIs on behalf of one store.
type Client struct {
	content    *resty.Client
	orders     *resty.Client
	statistics *resty.Client
	statuses   *resty.Client

	creds    Credentials
	pageSize int
	logg     *logger.Logger
}

// NewClient builds a client bound to one store's credentials. Base URLs come
// from config so tests can point at local servers. A nil logger is replaced
// with a discarding one.
func NewClient(cfg config.WildberriesConfig, creds Credentials, logg *logger.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if logg == nil {
		logg = logger.Discard()
	}
	return &Client{
		content:    newResty(cfg.ContentBaseURL, cfg.HTTPTimeout, cfg.RetryCount),
		orders:     newResty(cfg.OrdersBaseURL, cfg.HTTPTimeout, cfg.RetryCount),
		statistics: newResty(cfg.StatisticsBaseURL, cfg.HTTPTimeout, cfg.RetryCount),
		statuses:   newResty(cfg.StatusesBaseURL, cfg.HTTPTimeout, cfg.RetryCount),
		creds:      creds,
		pageSize:   pageSize,
		logg:       logg,
	}
}

func newResty(baseURL string, timeout time.Duration, retryCount int) *resty.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "wb-sync/1.0")
	if retryCount > 0 {
		client.SetRetryCount(retryCount).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			})
	}
	return client
}

// apiError maps a non-2xx upstream response to a coded error.
func apiError(endpoint string, resp *resty.Response) error {
	code := errors.CodeDependency
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = errors.CodeUnauthorized
	case http.StatusTooManyRequests:
		code = errors.CodeRateLimit
	}
	return errors.New(code, fmt.Sprintf("wildberries %s: status %d", endpoint, resp.StatusCode())).
		WithDetails(map[string]any{"endpoint": endpoint, "status": resp.StatusCode()})
}

func isSuccess(resp *resty.Response) bool {
	return resp.StatusCode() >= 200 && resp.StatusCode() < 300
}
