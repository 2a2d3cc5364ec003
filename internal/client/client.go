// Package client wraps the memory backend's REST surface with a fixed
// timeout and JSON content negotiation. Calls are not retried and
// concurrent identical calls are not deduplicated; stale-response
// handling is the view layer's job.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/rcliao/memory-cartography/internal/model"
)

// Base URL resolution. Two env names are honored because deployed
// revisions disagree on which one they set; both fall back to the same
// default.
const (
	EnvBaseURL       = "MEMCART_API_URL"
	EnvBaseURLLegacy = "MEMCART_BACKEND_URL"
	DefaultBaseURL   = "http://localhost:8000/api"
)

// DefaultTimeout bounds every backend call.
const DefaultTimeout = 15 * time.Second

// PlaceholderImage is served when no image source can be resolved.
const PlaceholderImage = "/static/placeholder-memory.svg"

// Options configures a Client. Zero values pick the environment base URL
// and the default timeout.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client is a configured backend client.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// BaseURLFromEnv resolves the backend base URL from the environment.
func BaseURLFromEnv() string {
	if v := os.Getenv(EnvBaseURL); v != "" {
		return v
	}
	if v := os.Getenv(EnvBaseURLLegacy); v != "" {
		return v
	}
	return DefaultBaseURL
}

// New creates a client from explicit options.
func New(opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = BaseURLFromEnv()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     opts.Logger.With().Str("component", "client").Logger(),
	}
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Search fetches memories matching the query. The returned order is the
// server's; callers must not re-sort this result.
func (c *Client) Search(ctx context.Context, sessionID, query, memType string, sortBy model.SortBy) ([]model.Memory, error) {
	q := url.Values{}
	q.Set("query", query)
	if memType != "" {
		q.Set("memory_type", memType)
	}
	if sortBy != "" {
		q.Set("sort_by", string(sortBy))
	}
	if sessionID != "" {
		q.Set("session_id", sessionID)
	}

	var memories []model.Memory
	if _, err := c.do(ctx, http.MethodGet, "/memories/search", q, &memories); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	for i := range memories {
		memories[i].Normalize()
	}
	return memories, nil
}

type narrativeResponse struct {
	Text          string            `json:"text"`
	NarrativeText string            `json:"narrative_text"`
	Keywords      model.KeywordList `json:"keywords"`
}

// Narrative requests a generated summary of the result set for the query.
// Missing fields degrade to an empty narrative rather than an error.
func (c *Client) Narrative(ctx context.Context, sessionID, query, memType string) (model.Narrative, error) {
	q := url.Values{}
	q.Set("query", query)
	if memType != "" {
		q.Set("memory_type", memType)
	}
	if sessionID != "" {
		q.Set("session_id", sessionID)
	}

	var resp narrativeResponse
	if _, err := c.do(ctx, http.MethodGet, "/memories/narrative", q, &resp); err != nil {
		return model.Narrative{}, fmt.Errorf("narrative failed: %w", err)
	}

	text := resp.Text
	if text == "" {
		text = resp.NarrativeText
	}
	return model.Narrative{Text: text, Keywords: resp.Keywords}, nil
}

type weightResponse struct {
	NewWeight float64 `json:"new_weight"`
}

// AdjustWeight sends a relative weight delta and returns the server's
// authoritative new weight. The local value is never computed as
// old+delta; concurrent adjustments would drift.
func (c *Client) AdjustWeight(ctx context.Context, sessionID string, id int, adjustment float64) (float64, error) {
	q := url.Values{}
	q.Set("session_id", sessionID)
	q.Set("adjustment", strconv.FormatFloat(adjustment, 'f', -1, 64))

	var resp weightResponse
	path := fmt.Sprintf("/memories/%d/adjust_weight", id)
	if _, err := c.do(ctx, http.MethodPost, path, q, &resp); err != nil {
		return 0, fmt.Errorf("adjust weight failed: %w", err)
	}
	return resp.NewWeight, nil
}

// IncreaseWeight hits the legacy fixed-increment endpoint.
func (c *Client) IncreaseWeight(ctx context.Context, id int) (float64, error) {
	var resp weightResponse
	path := fmt.Sprintf("/memories/%d/increase_weight", id)
	if _, err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("increase weight failed: %w", err)
	}
	return resp.NewWeight, nil
}

// DecreaseWeight hits the legacy fixed-decrement endpoint.
func (c *Client) DecreaseWeight(ctx context.Context, id int) (float64, error) {
	var resp weightResponse
	path := fmt.Sprintf("/memories/%d/decrease_weight", id)
	if _, err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("decrease weight failed: %w", err)
	}
	return resp.NewWeight, nil
}

// UpdateLocation sends an inline location edit. Newer backends return the
// full updated record; older ones an empty body. A nil record tells the
// caller to fall back to the partial, local-only form of the merge.
func (c *Client) UpdateLocation(ctx context.Context, sessionID string, id int, location string) (*model.Memory, error) {
	q := url.Values{}
	q.Set("session_id", sessionID)
	q.Set("location", location)

	var updated model.Memory
	path := fmt.Sprintf("/memories/%d/update_location", id)
	decoded, err := c.do(ctx, http.MethodPost, path, q, &updated)
	if err != nil {
		return nil, fmt.Errorf("update location failed: %w", err)
	}
	if !decoded {
		return nil, nil
	}
	updated.Normalize()
	return &updated, nil
}

// ResetResult is the reset-weights collaborator's response.
type ResetResult struct {
	Status       string `json:"status"`
	UpdatedCount int    `json:"updated_count"`
	Message      string `json:"message"`
}

// ResetWeights resets every weight in the session back to its default.
func (c *Client) ResetWeights(ctx context.Context, sessionID string) (ResetResult, error) {
	q := url.Values{}
	q.Set("session_id", sessionID)

	var resp ResetResult
	if _, err := c.do(ctx, http.MethodPost, "/memories/reset_weights", q, &resp); err != nil {
		return ResetResult{}, fmt.Errorf("reset weights failed: %w", err)
	}
	return resp, nil
}

// ImageURL resolves the image source for a record: a server-supplied path
// appended to the backend origin, else a path constructed from session,
// type and filename (legacy per-type prefix when no session is known),
// else a static placeholder.
func (c *Client) ImageURL(sessionID string, m *model.Memory) string {
	origin := strings.TrimSuffix(c.baseURL, "/api")

	if m.ImageURL != "" {
		if strings.HasPrefix(m.ImageURL, "http://") || strings.HasPrefix(m.ImageURL, "https://") {
			return m.ImageURL
		}
		return origin + "/" + strings.TrimPrefix(m.ImageURL, "/")
	}

	if m.Filename != "" {
		if sessionID != "" && m.Type != "" {
			return fmt.Sprintf("%s/%s/%s/%s", origin, sessionID, m.Type, m.Filename)
		}
		if m.Type == model.TypePublic {
			return origin + "/public-photos/" + m.Filename
		}
		return origin + "/user-photos/" + m.Filename
	}

	return PlaceholderImage
}

// do executes one JSON request and decodes the response into out. The
// boolean reports whether a body was actually decoded: some older
// backends answer a 2xx with an empty body, which is not an error but
// leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, out interface{}) (bool, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	reqID := ulid.Make().String()
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("req_id", reqID).Str("path", path).Err(err).Msg("backend request failed")
		return false, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("req_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return false, fmt.Errorf("backend error %d: %s", resp.StatusCode, msg)
	}

	if out == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}
