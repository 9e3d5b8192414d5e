package tld

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultURL is IANA's authoritative TLD list.
const DefaultURL = "https://data.iana.org/TLD/tlds-alpha-by-domain.txt"

// maxListSize caps how much of a remote or local list is read.
const maxListSize = 1 << 20

// Loader opens a TLD list for reading.
type Loader func(ctx context.Context) (io.ReadCloser, error)

// FileLoader reads the list from a local file.
func FileLoader(path string) Loader {
	return func(ctx context.Context) (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// URLLoader fetches the list over HTTP. client may be nil.
func URLLoader(client *http.Client, url string) Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return func(ctx context.Context) (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
		}
		return resp.Body, nil
	}
}

// Cache is a refreshable TLD Source. Until the first successful load it
// answers from its fallback.
type Cache struct {
	load     Loader
	fallback Source
	limiter  *rate.Limiter
	logger   *zap.Logger

	set      atomic.Pointer[map[string]struct{}]
	version  atomic.Uint64
	loadedAt atomic.Int64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithFallback sets the Source consulted before the first load succeeds.
func WithFallback(s Source) CacheOption {
	return func(c *Cache) { c.fallback = s }
}

// WithRefreshLimit allows at most one Refresh per interval.
func WithRefreshLimit(interval time.Duration) CacheOption {
	return func(c *Cache) { c.limiter = rate.NewLimiter(rate.Every(interval), 1) }
}

// WithLogger sets the logger for load events.
func WithLogger(logger *zap.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache creates a Cache reading from load. Nothing is loaded until Load,
// Refresh or Run is called.
func NewCache(load Loader, opts ...CacheOption) *Cache {
	c := &Cache{
		load:     load,
		fallback: PublicSuffix{},
		limiter:  rate.NewLimiter(rate.Every(time.Minute), 1),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Contains implements Source.
func (c *Cache) Contains(tld string) bool {
	set := c.set.Load()
	if set == nil {
		return c.fallback.Contains(tld)
	}
	_, ok := (*set)[strings.ToLower(tld)]
	return ok
}

// Version counts successful loads. Zero means the fallback is in use.
func (c *Cache) Version() uint64 {
	return c.version.Load()
}

// LoadedAt returns when the current list was loaded.
func (c *Cache) LoadedAt() time.Time {
	ns := c.loadedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Load reads the list unconditionally. A failed load keeps the previous list.
func (c *Cache) Load(ctx context.Context) error {
	rc, err := c.load(ctx)
	if err != nil {
		return fmt.Errorf("opening tld list: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxListSize+1))
	if err != nil {
		return fmt.Errorf("reading tld list: %w", err)
	}
	if len(data) > maxListSize {
		return ErrListTooLarge
	}
	tlds, err := ParseList(bytes.NewReader(data))
	if err != nil {
		return err
	}

	set := make(map[string]struct{}, len(tlds))
	for _, t := range tlds {
		set[t] = struct{}{}
	}
	c.set.Store(&set)
	c.loadedAt.Store(time.Now().UnixNano())
	version := c.version.Add(1)

	c.logger.Info("tld list loaded",
		zap.Int("count", len(set)),
		zap.Uint64("version", version))
	return nil
}

// Refresh reloads the list, returning ErrThrottled when called more often
// than the refresh limit allows.
func (c *Cache) Refresh(ctx context.Context) error {
	if !c.limiter.Allow() {
		return ErrThrottled
	}
	return c.Load(ctx)
}

// Reload is Refresh that waits for the refresh limit instead of failing.
func (c *Cache) Reload(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("waiting for refresh limit: %w", err)
	}
	return c.Load(ctx)
}

// Run keeps the list fresh until ctx is done. While nothing has loaded yet
// it retries as often as the refresh limit allows; afterwards it refreshes
// every interval. Failures are logged and the previous list stays in use.
func (c *Cache) Run(ctx context.Context, interval time.Duration) error {
	for c.Version() == 0 {
		if err := c.Reload(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			c.logger.Warn("tld load retry failed", zap.Error(err))
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := c.Refresh(ctx)
			switch {
			case err == nil:
			case errors.Is(err, ErrThrottled):
				c.logger.Debug("tld refresh skipped, reloaded recently")
			default:
				c.logger.Warn("tld refresh failed",
					zap.Error(err),
					zap.Uint64("version", c.Version()))
			}
		}
	}
}
