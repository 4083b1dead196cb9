// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/gfctlgo/internal/aws"
	"github.com/staranto/gfctlgo/internal/deploy"
	"github.com/staranto/gfctlgo/internal/meta"
)

// DqCommandAction is the action handler for the "dq" subcommand. It lists the
// current deployments from the manifest in S3, supporting short-circuit
// behavior for --tldr and --schema, and emits results according to common
// output/attr flags.
func DqCommandAction(ctx context.Context, cmd *cli.Command) error {
	bucket := cmd.String("bucket")
	if bucket == "" {
		return errors.New("no bucket specified; set --bucket or GFCTL_DEPLOY_BUCKET")
	}

	awsCfg, err := aws.LoadAWSConfig(ctx,
		aws.WithProfile(cmd.String("profile")),
		aws.WithRegion(cmd.String("region")),
	)
	if err != nil {
		return err
	}

	m := GetMeta(cmd)
	fetcher := deploy.NewFetcher(aws.NewS3(awsCfg), bucket, cmd.String("manifest"), m.Cache)

	runner := &QueryActionRunner[*deploy.Deployment]{
		CommandName:  "dq",
		SchemaType:   reflect.TypeOf(deploy.Deployment{}),
		DefaultAttrs: []string{".id:env", "app", "version", "sha:sha:-12", "deployed_at:when"},
		Examples: [][2]string{
			{"gfctl dq", "list deployments from the configured bucket"},
			{"gfctl dq --filter env=prod", "production rows only"},
		},
		FetchFn: func(ctx context.Context, cmd *cli.Command) (
			[]*deploy.Deployment,
			error,
		) {
			return fetcher.Deployments(ctx)
		},
	}
	return runner.Run(ctx, cmd)
}

// DqCommandBuilder constructs the cli.Command definition for the "dq" command,
// wiring flags, metadata, and the action/validator handlers.
func DqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "dq",
		Usage:     "deployment query",
		UsageText: `gfctl dq [options]`,
		Flags: []cli.Flag{
			NewBucketFlag("dq", meta.Config.Source),
			NewManifestFlag("dq", meta.Config.Source),
			&cli.StringFlag{
				Name:  "profile",
				Usage: "AWS shared config profile",
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "AWS region override",
			},
		},
		Action: DqCommandAction,
		Meta:   meta,
	}).Build()
}
