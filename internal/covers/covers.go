// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package covers validates book cover-image URLs for the presentation
// layer. It sits entirely outside the recommendation engine; the engine
// never blocks on it.
package covers

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pdiddy/shelf-engine/internal/httputil"
	"github.com/pdiddy/shelf-engine/pkg/types"
)

// PlaceholderURL is rendered in place of a missing or broken cover.
const PlaceholderURL = "https://placehold.co/150x200?text=No+Image"

// Checker validates cover URLs and memoizes the ones found broken. The
// broken set lives for the process lifetime: catalog image hosts serve
// the same 1x1 placeholder for a dead URL on every request, so there is
// no point re-fetching within a session.
type Checker struct {
	client    *http.Client
	userAgent string

	mu     sync.Mutex
	broken map[string]bool
}

// NewChecker builds a Checker from the covers configuration. A zero
// timeout defaults to 5 seconds.
func NewChecker(cfg types.CoversConfig) *Checker {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		broken:    make(map[string]bool),
	}
}

// Valid reports whether url serves a usable cover image. Empty URLs,
// fetch failures, undecodable payloads, and 1x1 tracking placeholders
// all count as broken, and broken URLs are remembered.
func (c *Checker) Valid(ctx context.Context, url string) bool {
	if url == "" {
		return false
	}

	c.mu.Lock()
	known := c.broken[url]
	c.mu.Unlock()
	if known {
		return false
	}

	if err := c.fetch(ctx, url); err != nil {
		c.mu.Lock()
		c.broken[url] = true
		c.mu.Unlock()
		return false
	}
	return true
}

func (c *Checker) fetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %s", resp.Status)
	}

	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}
	if cfg.Width <= 1 && cfg.Height <= 1 {
		return fmt.Errorf("placeholder image %dx%d", cfg.Width, cfg.Height)
	}
	return nil
}

// URL returns the cover URL to render for a book: the book's own URL
// when it validates, the placeholder otherwise.
func (c *Checker) URL(ctx context.Context, book types.Book) string {
	if c.Valid(ctx, book.ImageURL) {
		return book.ImageURL
	}
	return PlaceholderURL
}
