package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Record is one row from the REST table API. Keys preserves the key order
// of the JSON object as returned upstream, since that order becomes the
// column order of the final result.
type Record struct {
	Fields map[string]interface{}
	Keys   []string
}

// Eq is an equality filter on a single column.
type Eq struct {
	Column string
	Value  string
}

// RESTClient reads table resources from a PostgREST-style API: GET /table
// for a full scan, GET /table?col=eq.value for an equality filter.
type RESTClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRESTClient(baseURL, apiKey string, client *http.Client) *RESTClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

// Fetch returns all records of table matching the optional equality filter.
func (c *RESTClient) Fetch(ctx context.Context, table string, eq *Eq) ([]Record, error) {
	u := c.baseURL + "/" + url.PathEscape(table)
	if eq != nil {
		q := url.Values{}
		q.Set(eq.Column, "eq."+eq.Value)
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("fetch %s: status %d: %s", table, resp.StatusCode, snippet)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", table, err)
	}
	return decodeRecords(raw)
}

func decodeRecords(raw []byte) ([]Record, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	records := make([]Record, 0, len(elems))
	for _, e := range elems {
		var fields map[string]interface{}
		if err := json.Unmarshal(e, &fields); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		keys, err := objectKeys(e)
		if err != nil {
			return nil, fmt.Errorf("decode record keys: %w", err)
		}
		records = append(records, Record{Fields: fields, Keys: keys})
	}
	return records, nil
}

// objectKeys lists the top-level keys of a JSON object in document order.
func objectKeys(obj []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := t.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("record is not an object")
	}

	var keys []string
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token %v", kt)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := t.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		t, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := t.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
