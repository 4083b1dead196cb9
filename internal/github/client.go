// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/apex/log"
	"golang.org/x/time/rate"

	"github.com/staranto/gfctlgo/internal/cache"
)

// DefaultHost is the public GitHub REST v3 endpoint. GitHub Enterprise
// installs override it via --host or GFCTL_HOST.
const DefaultHost = "https://api.github.com"

// The public API allows 5000 authenticated requests/hour. Pacing client-side
// keeps bursty commands (dash) from tripping secondary rate limits.
const (
	requestsPerSecond = 5
	requestBurst      = 10
)

// APIError is returned when GitHub answers with a non-2xx status. It is an
// ordinary fetch failure: never cached, surfaced to every waiter.
type APIError struct {
	Status int
	URL    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: %s returned %d", e.URL, e.Status)
}

// Client fetches repository facts from the GitHub REST API, consulting the
// shared cache before every call. The zero value is not usable; construct
// with NewClient.
type Client struct {
	host    string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
}

// Option customizes a Client.
type Option func(*Client)

// WithHost overrides the API base URL.
func WithHost(host string) Option {
	return func(c *Client) {
		if host != "" {
			c.host = host
		}
	}
}

// WithToken sets the bearer token explicitly instead of reading the
// environment.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.token = token
		}
	}
}

// WithHTTPClient swaps the underlying http.Client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient constructs a Client around the given cache. The token defaults
// to GFCTL_TOKEN, then GITHUB_TOKEN.
func NewClient(cc *cache.Cache, opts ...Option) *Client {
	c := &Client{
		host:    DefaultHost,
		token:   firstEnv("GFCTL_TOKEN", "GITHUB_TOKEN"),
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		cache:   cc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs one paced API call and returns the raw body. Timeouts come
// from the http.Client and surface as plain errors.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := c.host + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, URL: url}
	}

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.Debugf("GET %s (%d bytes)", url, len(doc))
	return doc, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
