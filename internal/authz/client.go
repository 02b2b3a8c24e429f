package authz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// State is the client-side snapshot of the last fetched resolution.
type State struct {
	Resolution
	Loading bool
}

// Client caches one fetched resolution for the lifetime of a page
// session. It starts in the loading state, performs exactly one fetch
// against the delivery endpoint, and fails closed on any fault: a
// failed fetch yields the empty non-admin triple, never stale
// privilege. Nothing is persisted beyond the Client's lifetime.
type Client struct {
	endpoint string
	httpc    *http.Client
	logger   *slog.Logger

	once sync.Once
	mu   sync.Mutex
	st   State
}

// NewClient constructs a Client for the given delivery endpoint URL.
// A nil httpc falls back to a client with a sane timeout.
func NewClient(endpoint string, httpc *http.Client, logger *slog.Logger) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		endpoint: endpoint,
		httpc:    httpc,
		logger:   logger,
		st:       State{Resolution: EmptyResolution(), Loading: true},
	}
}

// Load performs the one fetch for this page session. Later calls are
// no-ops; every gate observes the same loading-then-resolved ordering.
// A cancelled context simply discards the result, leaving the fail-
// closed state in place.
func (c *Client) Load(ctx context.Context) {
	c.once.Do(func() {
		c.setState(c.fetch(ctx))
	})
}

// Refetch forces a fresh fetch, used after a sign-in or sign-out.
func (c *Client) Refetch(ctx context.Context) {
	c.once.Do(func() {})
	c.setState(c.fetch(ctx))
}

// State returns the current snapshot.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st
}

// HasPermission tests one permission against the cached triple. False
// while loading.
func (c *Client) HasPermission(id string) bool {
	st := c.State()
	return !st.Loading && st.HasPermission(id)
}

// HasAnyPermission tests whether any listed permission is held.
func (c *Client) HasAnyPermission(ids ...string) bool {
	st := c.State()
	return !st.Loading && st.HasAnyPermission(ids...)
}

// HasAllPermissions tests whether every listed permission is held.
func (c *Client) HasAllPermissions(ids ...string) bool {
	st := c.State()
	return !st.Loading && st.HasAllPermissions(ids...)
}

// HasRole tests one role against the cached triple.
func (c *Client) HasRole(id string) bool {
	st := c.State()
	return !st.Loading && st.HasRole(id)
}

// IsAdmin reports the cached admin flag.
func (c *Client) IsAdmin() bool {
	st := c.State()
	return !st.Loading && st.IsAdmin
}

func (c *Client) setState(st State) {
	c.mu.Lock()
	c.st = st
	c.mu.Unlock()
}

func (c *Client) fetch(ctx context.Context) State {
	failed := State{Resolution: EmptyResolution(), Loading: false}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		c.warn("build permissions request", err)
		return failed
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.warn("fetch permissions", err)
		return failed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warn("fetch permissions", fmt.Errorf("unexpected status %d", resp.StatusCode))
		return failed
	}

	var res Resolution
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		c.warn("decode permissions", err)
		return failed
	}
	if res.Roles == nil {
		res.Roles = []string{}
	}
	if res.Permissions == nil {
		res.Permissions = []string{}
	}
	return State{Resolution: res, Loading: false}
}

func (c *Client) warn(msg string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, slog.Any("error", err))
	}
}
