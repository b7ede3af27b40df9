// Package aggregate fans out concurrent GET calls to backend services for
// the gateway's composite endpoints. Calls are isolated: one slow or failed
// backend never affects its siblings, and failures degrade to empty results.
package aggregate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cloudsound/gateway/internal/pipeline"
)

// Call describes one backend fetch in a fan-out.
type Call struct {
	Name  string
	URL   string
	Query url.Values
}

type Client struct {
	log     *slog.Logger
	http    *http.Client
	timeout time.Duration
}

func New(log *slog.Logger, transport http.RoundTripper, timeout time.Duration) *Client {
	return &Client{
		log:     log,
		http:    &http.Client{Transport: transport},
		timeout: timeout,
	}
}

// FetchAll issues every call concurrently and returns the decoded JSON body
// per call name. A failed call (transport error, non-2xx, undecodable body)
// yields a nil entry; it is logged at warning level and never propagated.
func (c *Client) FetchAll(ctx context.Context, calls ...Call) map[string]json.RawMessage {
	results := make([]json.RawMessage, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call Call) {
			defer wg.Done()
			results[i] = c.fetch(ctx, call)
		}(i, call)
	}
	wg.Wait()

	out := make(map[string]json.RawMessage, len(calls))
	for i, call := range calls {
		out[call.Name] = results[i]
	}
	return out
}

func (c *Client) fetch(ctx context.Context, call Call) json.RawMessage {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := call.URL
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.warn(call.Name, ctx, err.Error())
		return nil
	}
	if cid := pipeline.CorrelationID(ctx); cid != "" {
		req.Header.Set("X-Correlation-ID", cid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.warn(call.Name, ctx, err.Error())
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.warn(call.Name, ctx, "unexpected status "+resp.Status)
		return nil
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.warn(call.Name, ctx, err.Error())
		return nil
	}
	return raw
}

func (c *Client) warn(name string, ctx context.Context, msg string) {
	c.log.Warn("fetch_"+name+"_failed",
		slog.String("correlation_id", pipeline.CorrelationID(ctx)),
		slog.String("error", msg),
	)
}

// List decodes raw as a JSON array, truncated to limit when limit > 0.
// Anything that is not an array becomes an empty list.
func List(raw json.RawMessage, limit int) []json.RawMessage {
	if len(raw) == 0 {
		return []json.RawMessage{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []json.RawMessage{}
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Object returns raw when it is a JSON object, else an empty object.
func Object(raw json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") && json.Valid(raw) {
		return raw
	}
	return json.RawMessage("{}")
}
