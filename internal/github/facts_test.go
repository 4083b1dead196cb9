// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/gfctlgo/internal/cache"
)

const commitDoc = `{
	"sha": "abc123",
	"commit": {
		"message": "fix flaky sweep test",
		"author": {"name": "Steve", "date": "2025-05-01T10:00:00Z"}
	},
	"parents": [{"sha": "p1"}]
}`

const pullsDoc = `[
	{
		"number": 42,
		"title": "Add bq command",
		"user": {"login": "steve"},
		"head": {"ref": "bq", "sha": "h1"},
		"base": {"ref": "main"},
		"draft": false,
		"updated_at": "2025-05-02T09:00:00Z"
	},
	{
		"number": 43,
		"title": "WIP dq",
		"user": {"login": "alice"},
		"head": {"ref": "dq", "sha": "h2"},
		"base": {"ref": "main"},
		"draft": true,
		"updated_at": "2025-05-03T09:00:00Z"
	}
]`

const branchesDoc = `[
	{"name": "main", "commit": {"sha": "abc123"}, "protected": true},
	{"name": "bq", "commit": {"sha": "h1"}, "protected": false}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *cache.Cache) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cc := cache.New(cache.Config{MaxSize: 100})
	t.Cleanup(func() { _ = cc.Close() })

	return NewClient(cc, WithHost(srv.URL), WithToken("test-token")), cc
}

func TestCommitShapedAndCachedForever(t *testing.T) {
	var hits atomic.Int32
	client, cc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/repos/org/repo/commits/abc123", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(commitDoc))
	})

	ctx := context.Background()
	c, err := client.Commit(ctx, "org/repo", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", c.SHA)
	assert.Equal(t, "Steve", c.Author)
	assert.Equal(t, "fix flaky sweep test", c.Message)
	assert.Equal(t, 1, c.ParentCount)

	// Second lookup is a cache hit.
	_, err = client.Commit(ctx, "org/repo", "abc123")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	// And the entry is under the expected namespaced key.
	_, ok := cc.Get("commit-details-org/repo-abc123")
	assert.True(t, ok)
}

func TestPullRequestsParsed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/org/repo/pulls", r.URL.Path)
		_, _ = w.Write([]byte(pullsDoc))
	})

	pulls, err := client.PullRequests(context.Background(), "org/repo")
	require.NoError(t, err)
	require.Len(t, pulls, 2)
	assert.Equal(t, 42, pulls[0].Number)
	assert.Equal(t, "steve", pulls[0].Author)
	assert.Equal(t, "main", pulls[0].BaseRef)
	assert.True(t, pulls[1].Draft)
}

func TestBranchesParsed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(branchesDoc))
	})

	branches, err := client.Branches(context.Background(), "org/repo")
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "main", branches[0].Name)
	assert.Equal(t, "abc123", branches[0].HeadSHA)
	assert.True(t, branches[0].Protected)
}

func TestConcurrentCommitLookupsCoalesce(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(commitDoc))
	})

	ctx := context.Background()
	const callers = 5

	var wg sync.WaitGroup
	errs := make([]error, callers)
	started := make(chan struct{}, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started <- struct{}{}
			_, errs[i] = client.Commit(ctx, "org/repo", "abc123")
		}(i)
	}
	for range callers {
		<-started
	}
	close(release)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, int32(1), hits.Load(), "concurrent lookups must share one fetch")
}

func TestNonSuccessStatusNotCached(t *testing.T) {
	var hits atomic.Int32
	client, cc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(commitDoc))
	})

	ctx := context.Background()
	_, err := client.Commit(ctx, "org/repo", "abc123")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Zero(t, cc.Stats().Total, "failures must not be cached")

	// The retry goes back to the network and succeeds.
	c, err := client.Commit(ctx, "org/repo", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", c.SHA)
	assert.Equal(t, int32(2), hits.Load())
}
