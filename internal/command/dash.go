// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/gfctlgo/internal/github"
	"github.com/staranto/gfctlgo/internal/meta"
)

// DashCommandAction is the action handler for the "dash" subcommand. It
// fetches commits, pull requests and branch heads for the repository
// concurrently and renders one section per fact. The three fetches share the
// result cache, so a dash right after a cq/pq/bq is mostly cache hits, and
// two dashes racing each other collapse into single upstream calls.
func DashCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "dash", [][2]string{
		{"gfctl dash golang/go", "repository dashboard"},
		{"gfctl dash golang/go --limit 10 --rel", "shorter commit list, relative ages"},
	}) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(github.Commit{})) {
		return nil
	}

	client, repo, err := InitGitHubQuery(ctx, cmd)
	if err != nil {
		return err
	}

	var (
		commits  []*github.Commit
		pulls    []*github.PullRequest
		branches []*github.Branch
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		commits, err = client.RecentCommits(gctx, repo, cmd.Int("limit"))
		return err
	})
	g.Go(func() error {
		var err error
		pulls, err = client.PullRequests(gctx, repo)
		return err
	})
	g.Go(func() error {
		var err error
		branches, err = client.Branches(gctx, repo)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("%s commits --\n", repo)
	al := BuildAttrs(cmd, ".id:sha:-12", "author", "authored_at:when", "message:message:70")
	if err := EmitJSONAPISlice(commits, al, cmd); err != nil {
		return err
	}

	fmt.Printf("\n%s pulls --\n", repo)
	al = BuildAttrs(cmd, ".id:pr", "title:title:60", "author", "head_ref")
	if err := EmitJSONAPISlice(pulls, al, cmd); err != nil {
		return err
	}

	fmt.Printf("\n%s branches --\n", repo)
	al = BuildAttrs(cmd, ".id:branch", "head_sha:head:-12", "protected")
	if err := EmitJSONAPISlice(branches, al, cmd); err != nil {
		return err
	}

	LogCacheStats(cmd)
	return nil
}

// DashCommandBuilder constructs the cli.Command definition for the "dash"
// command, wiring flags, metadata, and the action/validator handlers.
func DashCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "dash",
		Usage:     "repository dashboard",
		UsageText: `gfctl dash [owner/repo] [options]`,
		Flags: []cli.Flag{
			NewHostFlag("dash", meta.Config.Source),
			NewRepoFlag("dash", meta.Config.Source),
			NewLimitFlag("dash", meta.Config.Source),
		},
		Action: DashCommandAction,
		Meta:   meta,
	}).Build()
}
