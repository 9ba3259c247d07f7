package wildberries

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/sellerdesk/wb-sync/pkg/errors"
)

const cardListPath = "/card/list"

type cardListRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      string         `json:"id"`
	Params  cardListParams `json:"params"`
}

type cardListParams struct {
	SupplierID string        `json:"supplierID"`
	Query      cardListQuery `json:"query"`
}

type cardListQuery struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type cardListResponse struct {
	Result *cardListResult `json:"result"`
}

type cardListResult struct {
	Cursor cardListCursor    `json:"cursor"`
	Cards  []json.RawMessage `json:"cards"`
}

type cardListCursor struct {
	Total int `json:"total"`
}

func newCardListRequest(supplierID string, offset, limit int) cardListRequest {
	return cardListRequest{
		JSONRPC: "2.0",
		ID:      uuid.New().String(),
		Params: cardListParams{
			SupplierID: supplierID,
			Query:      cardListQuery{Offset: offset, Limit: limit},
		},
	}
}

func (c *Client) cardListPage(ctx context.Context, offset, limit int) (*cardListResult, error) {
	var out cardListResponse
	resp, err := c.content.R().
		SetContext(ctx).
		SetHeader("Authorization", c.creds.ContentToken).
		SetHeader("Content-Type", "application/json").
		SetBody(newCardListRequest(c.creds.SupplierID, offset, limit)).
		SetResult(&out).
		Post(cardListPath)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "wildberries card/list request")
	}
	if !isSuccess(resp) {
		return nil, apiError(cardListPath, resp)
	}
	if out.Result == nil {
		return nil, errors.New(errors.CodeDependency, "wildberries card/list: missing result")
	}
	return out.Result, nil
}

// ProductCards fetches the complete catalog. A one-card probe reads the
// cursor total, then the remaining pages are walked at the configured size.
func (c *Client) ProductCards(ctx context.Context) ([]Card, error) {
	probe, err := c.cardListPage(ctx, 0, 1)
	if err != nil {
		return nil, err
	}

	total := probe.Cursor.Total
	c.logg.Debug(c.logg.WithField(ctx, "total", total), "wildberries catalog size probed")
	if total <= 0 {
		return nil, nil
	}

	cards := make([]Card, 0, total)
	pages := (total + c.pageSize - 1) / c.pageSize
	for page := 0; page < pages; page++ {
		result, err := c.cardListPage(ctx, page*c.pageSize, c.pageSize)
		if err != nil {
			return nil, err
		}
		for _, raw := range result.Cards {
			var card Card
			if err := json.Unmarshal(raw, &card); err != nil {
				return nil, errors.Wrap(errors.CodeDependency, err, "wildberries card/list: decode card")
			}
			card.Raw = raw
			cards = append(cards, card)
		}
	}
	return cards, nil
}
