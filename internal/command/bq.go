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

// BqCommandAction is the action handler for the "bq" subcommand. It lists the
// branch heads for the selected repository, supporting short-circuit behavior
// for --tldr and --schema, and emits results according to common output/attr
// flags.
func BqCommandAction(ctx context.Context, cmd *cli.Command) error {
	client, repo, err := InitGitHubQuery(ctx, cmd)
	if err != nil {
		return err
	}

	runner := &QueryActionRunner[*github.Branch]{
		CommandName:  "bq",
		SchemaType:   reflect.TypeOf(github.Branch{}),
		DefaultAttrs: []string{".id:branch", "head_sha:head:-12", "protected"},
		Examples: [][2]string{
			{"gfctl bq golang/go", "list branch heads"},
			{"gfctl bq golang/go --filter protected=true", "protected branches only"},
		},
		FetchFn: func(ctx context.Context, cmd *cli.Command) (
			[]*github.Branch,
			error,
		) {
			return client.Branches(ctx, repo)
		},
	}
	return runner.Run(ctx, cmd)
}

// BqCommandBuilder constructs the cli.Command definition for the "bq" command,
// wiring flags, metadata, and the action/validator handlers.
func BqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "bq",
		Usage:     "branch query",
		UsageText: `gfctl bq [owner/repo] [options]`,
		Flags: []cli.Flag{
			NewHostFlag("bq", meta.Config.Source),
			NewRepoFlag("bq", meta.Config.Source),
		},
		Action: BqCommandAction,
		Meta:   meta,
	}).Build()
}
