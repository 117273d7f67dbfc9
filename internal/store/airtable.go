package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client writes story records to an Airtable table, one POST per record. The
// pipeline only writes; records are never read back.
type Client struct {
	baseURL    string
	token      string
	baseID     string
	table      string
	httpClient *http.Client
}

func NewClient(token, baseID, table string) *Client {
	return &Client{
		baseURL:    "https://api.airtable.com/v0",
		token:      token,
		baseID:     baseID,
		table:      table,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateRecord appends one record with the given column values.
func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) error {
	body, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return fmt.Errorf("airtable marshal: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(c.table))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("airtable request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("airtable send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("airtable status %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	return nil
}
