package lark

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Record is one Base row with raw field values as returned by the API.
type Record struct {
	RecordID string         `json:"record_id"`
	Fields   map[string]any `json:"fields"`
}

type recordsPage struct {
	HasMore   bool     `json:"has_more"`
	PageToken string   `json:"page_token"`
	Total     int      `json:"total"`
	Items     []Record `json:"items"`
}

// ListRecords fetches every record of the configured table, following page tokens.
func (c *Client) ListRecords(ctx context.Context) ([]Record, error) {
	path := fmt.Sprintf("/open-apis/bitable/v1/apps/%s/tables/%s/records",
		url.PathEscape(c.cfg.AppToken), url.PathEscape(c.cfg.TableID))

	var records []Record
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("page_size", strconv.Itoa(recordsPageSize))
		if c.cfg.ViewID != "" {
			query.Set("view_id", c.cfg.ViewID)
		}
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}

		var page recordsPage
		if err := c.getJSON(ctx, path, query, &page); err != nil {
			return nil, fmt.Errorf("failed to list records: %w", err)
		}
		records = append(records, page.Items...)

		if !page.HasMore || page.PageToken == "" || page.PageToken == pageToken {
			break
		}
		pageToken = page.PageToken
	}
	return records, nil
}
