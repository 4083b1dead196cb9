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

// CqCommandAction is the action handler for the "cq" subcommand. It lists the
// recent commits for the selected repository, or the details of a single
// commit when --sha is given, supporting short-circuit behavior for --tldr
// and --schema, and emits results according to common output/attr flags.
func CqCommandAction(ctx context.Context, cmd *cli.Command) error {
	client, repo, err := InitGitHubQuery(ctx, cmd)
	if err != nil {
		return err
	}

	runner := &QueryActionRunner[*github.Commit]{
		CommandName:  "cq",
		SchemaType:   reflect.TypeOf(github.Commit{}),
		DefaultAttrs: []string{".id:sha:-12", "author", "authored_at:when", "message:message:70"},
		Examples: [][2]string{
			{"gfctl cq golang/go", "list recent commits"},
			{"gfctl cq golang/go --sha 0cec59f", "details for one commit"},
			{"gfctl cq golang/go --limit 10 --rel", "ten commits with relative ages"},
		},
		FetchFn: func(ctx context.Context, cmd *cli.Command) (
			[]*github.Commit,
			error,
		) {
			// A --sha pins the query to one immutable commit. Those details
			// cache forever, everything else rides the short TTL.
			if sha := cmd.String("sha"); sha != "" {
				commit, err := client.Commit(ctx, repo, sha)
				if err != nil {
					return nil, err
				}
				return []*github.Commit{commit}, nil
			}
			return client.RecentCommits(ctx, repo, cmd.Int("limit"))
		},
	}
	return runner.Run(ctx, cmd)
}

// CqCommandBuilder constructs the cli.Command definition for the "cq" command,
// wiring flags, metadata, and the action/validator handlers.
func CqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "cq",
		Usage:     "commit query",
		UsageText: `gfctl cq [owner/repo] [options]`,
		Flags: []cli.Flag{
			NewHostFlag("cq", meta.Config.Source),
			NewRepoFlag("cq", meta.Config.Source),
			NewLimitFlag("cq", meta.Config.Source),
			&cli.StringFlag{
				Name:  "sha",
				Usage: "show details for a single commit",
			},
		},
		Action: CqCommandAction,
		Meta:   meta,
	}).Build()
}
