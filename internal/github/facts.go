// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/staranto/gfctlgo/internal/cache"
)

// Commit is the shaped view of one commit. A commit keyed by SHA is
// immutable, so commit lookups cache forever.
type Commit struct {
	SHA         string `jsonapi:"primary,commits"`
	Author      string `jsonapi:"attr,author"`
	AuthoredAt  string `jsonapi:"attr,authored_at"`
	Message     string `jsonapi:"attr,message"`
	ParentCount int    `jsonapi:"attr,parent_count"`
}

// PullRequest is the shaped view of one open pull request.
type PullRequest struct {
	ID        string `jsonapi:"primary,pulls"`
	Number    int    `jsonapi:"attr,number"`
	Title     string `jsonapi:"attr,title"`
	Author    string `jsonapi:"attr,author"`
	HeadRef   string `jsonapi:"attr,head_ref"`
	HeadSHA   string `jsonapi:"attr,head_sha"`
	BaseRef   string `jsonapi:"attr,base_ref"`
	Draft     bool   `jsonapi:"attr,draft"`
	UpdatedAt string `jsonapi:"attr,updated_at"`
}

// Branch is the shaped view of one branch head.
type Branch struct {
	Name      string `jsonapi:"primary,branches"`
	HeadSHA   string `jsonapi:"attr,head_sha"`
	Protected bool   `jsonapi:"attr,protected"`
}

// Commit returns the details of a single commit. The key is namespaced by
// kind, repo, and SHA; the class is Static because a SHA can never point at
// different content.
func (c *Client) Commit(ctx context.Context, repo, sha string) (*Commit, error) {
	key := fmt.Sprintf("commit-details-%s-%s", repo, sha)

	v, err := c.cache.Resolve(ctx, key, cache.Static, func(ctx context.Context) (any, error) {
		doc, err := c.get(ctx, fmt.Sprintf("/repos/%s/commits/%s", repo, sha))
		if err != nil {
			return nil, err
		}
		return parseCommit(gjson.ParseBytes(doc)), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Commit), nil
}

// RecentCommits returns the n most recent commits on the default branch.
// The set moves with every push, so it gets the Dynamic class.
func (c *Client) RecentCommits(ctx context.Context, repo string, n int) ([]*Commit, error) {
	key := "recent-commits-" + repo

	v, err := c.cache.Resolve(ctx, key, cache.Dynamic, func(ctx context.Context) (any, error) {
		doc, err := c.get(ctx, fmt.Sprintf("/repos/%s/commits?per_page=%d", repo, n))
		if err != nil {
			return nil, err
		}

		var commits []*Commit
		for _, item := range gjson.ParseBytes(doc).Array() {
			commits = append(commits, parseCommit(item))
		}
		return commits, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Commit), nil
}

// PullRequests returns the open pull requests for repo under the Dynamic
// class. The API pages at 100 items, so the fetch walks pages until a short
// one comes back and the whole set is cached as a unit.
func (c *Client) PullRequests(ctx context.Context, repo string) ([]*PullRequest, error) {
	key := "pull-requests-" + repo

	const pageSize = 100

	v, err := c.cache.Resolve(ctx, key, cache.Dynamic, func(ctx context.Context) (any, error) {
		var pulls []*PullRequest
		for page := 1; ; page++ {
			doc, err := c.get(ctx, fmt.Sprintf("/repos/%s/pulls?state=open&per_page=%d&page=%d", repo, pageSize, page))
			if err != nil {
				return nil, err
			}

			items := gjson.ParseBytes(doc).Array()
			for _, item := range items {
				pulls = append(pulls, &PullRequest{
					ID:        item.Get("number").String(),
					Number:    int(item.Get("number").Int()),
					Title:     item.Get("title").String(),
					Author:    item.Get("user.login").String(),
					HeadRef:   item.Get("head.ref").String(),
					HeadSHA:   item.Get("head.sha").String(),
					BaseRef:   item.Get("base.ref").String(),
					Draft:     item.Get("draft").Bool(),
					UpdatedAt: item.Get("updated_at").String(),
				})
			}

			if len(items) < pageSize {
				break
			}
		}
		return pulls, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*PullRequest), nil
}

// Branches returns the branch heads for repo. Branch pointers drift but not
// quickly, so they get the SemiStatic class.
func (c *Client) Branches(ctx context.Context, repo string) ([]*Branch, error) {
	key := "branch-heads-" + repo

	v, err := c.cache.Resolve(ctx, key, cache.SemiStatic, func(ctx context.Context) (any, error) {
		doc, err := c.get(ctx, fmt.Sprintf("/repos/%s/branches?per_page=100", repo))
		if err != nil {
			return nil, err
		}

		var branches []*Branch
		for _, item := range gjson.ParseBytes(doc).Array() {
			branches = append(branches, &Branch{
				Name:      item.Get("name").String(),
				HeadSHA:   item.Get("commit.sha").String(),
				Protected: item.Get("protected").Bool(),
			})
		}
		return branches, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Branch), nil
}

func parseCommit(item gjson.Result) *Commit {
	return &Commit{
		SHA:         item.Get("sha").String(),
		Author:      item.Get("commit.author.name").String(),
		AuthoredAt:  item.Get("commit.author.date").String(),
		Message:     item.Get("commit.message").String(),
		ParentCount: int(item.Get("parents.#").Int()),
	}
}
