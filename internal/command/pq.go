// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/gfctlgo/internal/github"
	"github.com/staranto/gfctlgo/internal/meta"
)

// PqCommandAction is the action handler for the "pq" subcommand. It lists the
// open pull requests for the selected repository, supporting short-circuit
// behavior for --tldr and --schema, and emits results according to common
// output/attr flags.
func PqCommandAction(ctx context.Context, cmd *cli.Command) error {
	client, repo, err := InitGitHubQuery(ctx, cmd)
	if err != nil {
		return err
	}

	runner := &QueryActionRunner[*github.PullRequest]{
		CommandName:  "pq",
		SchemaType:   reflect.TypeOf(github.PullRequest{}),
		DefaultAttrs: []string{".id:pr", "title:title:60", "author", "head_ref", "updated_at:when"},
		Examples: [][2]string{
			{"gfctl pq golang/go", "list open pull requests"},
			{"gfctl pq golang/go --filter draft=false", "hide drafts"},
		},
		FetchFn: func(ctx context.Context, cmd *cli.Command) (
			[]*github.PullRequest,
			error,
		) {
			return client.PullRequests(ctx, repo)
		},
	}
	return runner.Run(ctx, cmd)
}

// PqCommandBuilder constructs the cli.Command definition for the "pq" command,
// wiring flags, metadata, and the action/validator handlers.
func PqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "pq",
		Usage:     "pull request query",
		UsageText: `gfctl pq [owner/repo] [options]`,
		Flags: []cli.Flag{
			NewHostFlag("pq", meta.Config.Source),
			NewRepoFlag("pq", meta.Config.Source),
		},
		Action: PqCommandAction,
		Meta:   meta,
	}).Build()
}
