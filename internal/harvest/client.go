// Package harvest downloads the museum archive from its GAMS repository:
// object ids from the context metadata, then per object the RELS-EXT content
// model, the TEI or LIDO source, the RDF datastream and the scan image.
package harvest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chpollin/km/internal/cache"
	"github.com/chpollin/km/internal/model"
	"github.com/chpollin/km/internal/worker"
)

// Response is one fetched datastream. ContentType is empty on cache hits; the
// cache only ever holds successful responses.
type Response struct {
	Body        []byte
	ContentType string
}

// Client is the rate-limited, cached, robots-aware HTTP client all archive
// fetches go through.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache
	limiter    *worker.Limiter
	robots     *RobotsChecker
	log        *logrus.Logger
}

// NewClient wires a client from the configuration. The cache may be nil to
// disable caching; robots is skipped when RespectRobots is off.
func NewClient(cfg *model.Config, responses cache.Cache, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.HTTP.Timeout},
		userAgent:  cfg.HTTP.UserAgent,
		maxBytes:   cfg.HTTP.MaxBodyBytes,
		cache:      responses,
		limiter:    worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		log:        log,
	}
	if cfg.RateLimit.RespectRobots {
		c.robots = NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}
	return c
}

// Fetch retrieves one URL. Cache hits skip the network entirely; misses go
// through robots and the per-host rate limiter.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	key := cache.Key(url)
	if c.cache != nil {
		if body, found := c.cache.Get(key); found {
			return &Response{Body: body}, nil
		}
	}

	if c.robots != nil {
		allowed, delay, err := c.robots.CanFetch(ctx, url)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", url)
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	if err := c.limiter.Wait(ctx, url); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(key, body, 0); err != nil {
			c.log.WithError(err).WithField("url", url).Warn("cache write failed")
		}
	}
	return &Response{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}
