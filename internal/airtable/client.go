// Package airtable is a thin client for the Airtable REST API. It never
// interprets record fields: write payloads are forwarded byte for byte and
// response bodies are returned as-is.
package airtable

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

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const DefaultBaseURL = "https://api.airtable.com"

type Client struct {
	baseURL string // <api>/v0/<baseID>
	apiKey  string
	http    *http.Client
}

type Config struct {
	APIKey  string
	BaseID  string
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/") + "/v0/" + url.PathEscape(cfg.BaseID),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Request describes one call against a table. RecordID addresses a single
// record; Fields, when set, is sent as {"fields": Fields}.
type Request struct {
	Method   string
	Table    string
	RecordID string
	Fields   json.RawMessage
	Query    url.Values
}

// Do performs a single round trip and returns the JSON body whatever the
// status code. Callers inspect the body for an "error" member.
func (c *Client) Do(ctx context.Context, r Request) (json.RawMessage, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(r.Table)
	if r.RecordID != "" {
		endpoint += "/" + url.PathEscape(r.RecordID)
	}
	if len(r.Query) > 0 {
		endpoint += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Fields != nil {
		payload, err := sjson.SetRawBytes([]byte(`{}`), "fields", r.Fields)
		if err != nil {
			return nil, fmt.Errorf("building request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airtable %s %s: %w", r.Method, r.Table, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if !gjson.ValidBytes(respBody) {
		return nil, fmt.Errorf("airtable %s %s: non-JSON response (status %d)", r.Method, r.Table, resp.StatusCode)
	}

	if e := gjson.GetBytes(respBody, "error"); e.Exists() {
		log.Warn().
			Str("table", r.Table).
			Str("method", r.Method).
			Int("status", resp.StatusCode).
			Str("error", e.Raw).
			Msg("airtable returned an error body")
	}

	return json.RawMessage(respBody), nil
}

func (c *Client) List(ctx context.Context, table string, query url.Values) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Table: table, Query: query})
}

func (c *Client) Create(ctx context.Context, table string, fields json.RawMessage) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Table: table, Fields: fields})
}

func (c *Client) Update(ctx context.Context, table, recordID string, fields json.RawMessage) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Table: table, RecordID: recordID, Fields: fields})
}
