// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/gfctlgo/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var (
	cfg config.Type

	schemaFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}

	cacheStatsFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "cache-stats",
		Usage:       "log result cache statistics after the query",
		HideDefault: true,
	}
)

func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:  "rel",
			Usage: "show timestamps as relative ages",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"rel", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("rel", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewHostFlag constructs a cli.StringFlag for the "host" flag, optionally
// namespaced to a command and config file.  params[1] is the config file.
func NewHostFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "host",
		Usage: "API host to query. Overrides the default public endpoint",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GFCTL_HOST"),
			cli.EnvVar("GITHUB_API_URL"),
		),
		Value: "https://api.github.com",
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewRepoFlag constructs a cli.StringFlag for the "repo" flag, optionally
// namespaced to a command and config file. params[1] is the config file. The
// owner/repo positional on the command line takes precedence over this flag's
// config and env sources.
func NewRepoFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "repo",
		Aliases: []string{"r"},
		Usage:   "repository to query, as owner/repo",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GFCTL_REPO"),
			cli.EnvVar("GITHUB_REPOSITORY"),
		),
		Validator: func(value string) error {
			return FlagValidators(value, RepoValidator)
		},
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewLimitFlag constructs the "limit" flag used by list style queries.
func NewLimitFlag(params ...string) (flag *cli.IntFlag) {
	flag = &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"l"},
		Usage:   "limit results returned",
		Value:   30,
	}

	if len(params) == 2 {
		flag.Sources = cli.NewValueSourceChain(
			yaml.YAML(params[0]+"."+"limit", altsrc.StringSourcer(params[1])),
			yaml.YAML("limit", altsrc.StringSourcer(params[1])),
		)
	}

	return
}

// NewBucketFlag constructs the "bucket" flag naming the S3 bucket that holds
// the deploy manifest.
func NewBucketFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "bucket",
		Usage: "S3 bucket holding the deploy manifest",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GFCTL_DEPLOY_BUCKET"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewManifestFlag constructs the "manifest" flag naming the object key of the
// deploy manifest inside the bucket.
func NewManifestFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "manifest",
		Usage: "object key of the deploy manifest",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GFCTL_DEPLOY_MANIFEST"),
		),
		Value: "deploy/manifest.json",
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas checks if the given binary exists on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
