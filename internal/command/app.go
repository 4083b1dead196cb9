// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/gfctlgo/internal/cache"
	"github.com/staranto/gfctlgo/internal/config"
	"github.com/staranto/gfctlgo/internal/meta"
)

func InitApp(ctx context.Context, args []string, cc *cache.Cache) (*cli.Command, error) {

	// The arg[1] immediately following the binary (arg[0]) is the gfctl
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load(ns)
	meta := meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
		Cache:   cc,
	}

	// See if the arg immediately following the command might be an owner/repo
	// positional. Anything that isn't a flag and has a slash in it qualifies.
	if len(args) > 2 && !strings.HasPrefix(args[2], "-") && strings.Contains(args[2], "/") {
		meta.Repo = args[2]
	}

	app := &cli.Command{
		Name:  "gfctl",
		Usage: "Git Facts Control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "gfctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		BqCommandBuilder(app, meta),
		CqCommandBuilder(app, meta),
		DashCommandBuilder(app, meta),
		DqCommandBuilder(app, meta),
		PqCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
