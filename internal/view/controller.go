// Package view glues the remote client to the in-memory store: it owns
// the UI-facing state (records, narrative, error banner, reset notice)
// and keeps it consistent across overlapping asynchronous operations.
package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcliao/memory-cartography/internal/client"
	"github.com/rcliao/memory-cartography/internal/model"
	"github.com/rcliao/memory-cartography/internal/narrative"
	"github.com/rcliao/memory-cartography/internal/session"
	"github.com/rcliao/memory-cartography/internal/store"
)

// ErrEmptyQuery is the precondition failure for a blank search term. No
// request is attempted.
var ErrEmptyQuery = errors.New("Please enter a search query")

// genericErrMsg is shown when a failure carries no message of its own.
const genericErrMsg = "Something went wrong. Please try again."

// defaultNoticeTTL is how long the reset confirmation stays visible.
const defaultNoticeTTL = 3 * time.Second

// WeightStep is the fixed increment a single weight interaction sends.
const WeightStep = 0.1

// Options configures a Controller.
type Options struct {
	Client    *client.Client
	SessionID string
	Logger    zerolog.Logger

	// NoticeTTL overrides the reset-notice lifetime; tests shorten it.
	NoticeTTL time.Duration
}

// Controller holds all client-side state for one page session. Methods
// are safe for concurrent use; state transitions are serialized and a
// response from a superseded request is never applied.
type Controller struct {
	client *client.Client
	log    zerolog.Logger

	mu        sync.Mutex
	store     *store.Store
	sessionID string
	query     string
	memType   string
	narr      model.Narrative
	errMsg    string
	notice    string
	noticeTTL time.Duration

	// Generation tokens, one per operation family, captured at dispatch
	// and checked before a response is applied. Last-request-issued wins.
	searchSeq    uint64
	narrativeSeq uint64
	weightSeq    uint64
	locationSeq  uint64
	noticeSeq    uint64
}

// New creates a controller bound to one session.
func New(opts Options) *Controller {
	ttl := opts.NoticeTTL
	if ttl <= 0 {
		ttl = defaultNoticeTTL
	}
	return &Controller{
		client:    opts.Client,
		log:       opts.Logger.With().Str("component", "view").Logger(),
		store:     store.New(),
		sessionID: opts.SessionID,
		noticeTTL: ttl,
	}
}

// Search replaces the store with the backend's result set for the query.
// The server's order is kept verbatim. On failure the store is left
// untouched and the error banner is set.
func (c *Controller) Search(ctx context.Context, query, memType string) error {
	query = strings.TrimSpace(query)
	if err := c.precheck(query); err != nil {
		return err
	}

	c.mu.Lock()
	c.searchSeq++
	token := c.searchSeq
	sortBy := c.store.Criterion()
	sessionID := c.sessionID
	c.mu.Unlock()

	results, err := c.client.Search(ctx, sessionID, query, memType, sortBy)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.searchSeq {
		c.log.Debug().Uint64("token", token).Msg("search response superseded, dropped")
		return nil
	}
	if err != nil {
		c.setErrorLocked(err)
		return err
	}

	c.store.ReplaceAll(results)
	c.query = query
	c.memType = memType
	c.errMsg = ""
	return nil
}

// GenerateNarrative replaces the narrative state wholesale with a fresh
// summary of the result set. Malformed responses degrade to an empty
// narrative rather than an error.
func (c *Controller) GenerateNarrative(ctx context.Context, query, memType string) error {
	query = strings.TrimSpace(query)
	if err := c.precheck(query); err != nil {
		return err
	}

	c.mu.Lock()
	c.narrativeSeq++
	token := c.narrativeSeq
	sessionID := c.sessionID
	c.mu.Unlock()

	n, err := c.client.Narrative(ctx, sessionID, query, memType)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.narrativeSeq {
		c.log.Debug().Uint64("token", token).Msg("narrative response superseded, dropped")
		return nil
	}
	if err != nil {
		c.setErrorLocked(err)
		return err
	}

	c.narr = n
	c.errMsg = ""
	return nil
}

// AdjustWeight sends a relative delta for one record and applies the
// server's authoritative new weight, then re-sorts under the active
// criterion.
func (c *Controller) AdjustWeight(ctx context.Context, id int, delta float64) error {
	c.mu.Lock()
	sessionID := c.sessionID
	if sessionID == "" {
		c.setErrorLocked(session.ErrNoSession)
		c.mu.Unlock()
		return session.ErrNoSession
	}
	c.weightSeq++
	token := c.weightSeq
	c.mu.Unlock()

	newWeight, err := c.client.AdjustWeight(ctx, sessionID, id, delta)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.weightSeq {
		c.log.Debug().Uint64("token", token).Msg("weight response superseded, dropped")
		return nil
	}
	if err != nil {
		c.setErrorLocked(err)
		return err
	}

	c.store.ApplyWeight(id, newWeight)
	c.errMsg = ""
	return nil
}

// IncreaseWeight applies the primary interaction (+0.1).
func (c *Controller) IncreaseWeight(ctx context.Context, id int) error {
	return c.AdjustWeight(ctx, id, WeightStep)
}

// DecreaseWeight applies the secondary interaction (-0.1).
func (c *Controller) DecreaseWeight(ctx context.Context, id int) error {
	return c.AdjustWeight(ctx, id, -WeightStep)
}

// UpdateLocation applies an inline location edit. When the backend
// returns the full updated record every field is merged; otherwise only
// the location changes locally and the title is rewritten. Location
// edits never trigger a re-sort.
func (c *Controller) UpdateLocation(ctx context.Context, id int, newLocation string) error {
	c.mu.Lock()
	sessionID := c.sessionID
	if sessionID == "" {
		c.setErrorLocked(session.ErrNoSession)
		c.mu.Unlock()
		return session.ErrNoSession
	}
	c.locationSeq++
	token := c.locationSeq
	c.mu.Unlock()

	updated, err := c.client.UpdateLocation(ctx, sessionID, id, newLocation)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.locationSeq {
		c.log.Debug().Uint64("token", token).Msg("location response superseded, dropped")
		return nil
	}
	if err != nil {
		c.setErrorLocked(err)
		return err
	}

	if updated != nil {
		c.store.MergeRecord(*updated)
	} else {
		c.store.UpdateLocation(id, newLocation)
	}
	c.errMsg = ""
	return nil
}

// ResetWeights asks the backend to reset every weight in the session.
// Success shows a transient notice and, when a query is active with
// results, re-runs the search so the now-stale weights refresh.
func (c *Controller) ResetWeights(ctx context.Context) error {
	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()
	if sessionID == "" {
		c.setError(session.ErrNoSession)
		return session.ErrNoSession
	}

	res, err := c.client.ResetWeights(ctx, sessionID)
	if err != nil {
		c.setError(err)
		return err
	}

	if res.Status != "success" {
		msg := res.Message
		if msg == "" {
			msg = genericErrMsg
		}
		c.mu.Lock()
		c.errMsg = msg
		c.mu.Unlock()
		return errors.New(msg)
	}

	c.mu.Lock()
	c.notice = fmt.Sprintf("Reset %d memories successfully!", res.UpdatedCount)
	c.noticeSeq++
	seq := c.noticeSeq
	ttl := c.noticeTTL
	query, memType := c.query, c.memType
	hasResults := c.store.Len() > 0
	c.mu.Unlock()

	time.AfterFunc(ttl, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if seq == c.noticeSeq {
			c.notice = ""
		}
	})

	if query != "" && hasResults {
		return c.Search(ctx, query, memType)
	}
	return nil
}

// SetSortBy changes the active criterion and re-sorts the store.
func (c *Controller) SetSortBy(by model.SortBy) error {
	if !model.ValidSorts[by] {
		return fmt.Errorf("unknown sort criterion %q", by)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.SetCriterion(by)
	return nil
}

// Memories returns a copy of the current ordering.
func (c *Controller) Memories() []model.Memory {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Snapshot()
}

// Narrative returns the current narrative state.
func (c *Controller) Narrative() model.Narrative {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.narr
}

// RenderedNarrative returns the narrative text with keyword highlights
// applied and the markup sanitized.
func (c *Controller) RenderedNarrative() string {
	return narrative.Render(c.Narrative())
}

// ImageURL resolves the displayable image source for a record within
// this session.
func (c *Controller) ImageURL(m model.Memory) string {
	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()
	return c.client.ImageURL(sessionID, &m)
}

// SortBy returns the active sort criterion.
func (c *Controller) SortBy() model.SortBy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Criterion()
}

// Error returns the error banner content, empty when clear.
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Notice returns the transient confirmation message, empty when clear.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// Query returns the active search query.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// precheck enforces the preconditions shared by search and narrative:
// non-empty query and a resolved session. Failures set the banner and
// skip the network entirely.
func (c *Controller) precheck(query string) error {
	if query == "" {
		c.setError(ErrEmptyQuery)
		return ErrEmptyQuery
	}
	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()
	if sessionID == "" {
		c.setError(session.ErrNoSession)
		return session.ErrNoSession
	}
	return nil
}

func (c *Controller) setError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setErrorLocked(err)
}

func (c *Controller) setErrorLocked(err error) {
	msg := genericErrMsg
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	c.errMsg = msg
}
