// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"reflect"

	"github.com/apex/log"
	"github.com/hashicorp/jsonapi"
	"github.com/urfave/cli/v3"

	"github.com/staranto/gfctlgo/internal/attrs"
	"github.com/staranto/gfctlgo/internal/github"
	"github.com/staranto/gfctlgo/internal/meta"
	"github.com/staranto/gfctlgo/internal/output"
)

// ShortCircuitTLDR checks the --tldr flag and, if present, runs
// `tldr gfctl <subcmd>` (falling back to the built-in examples table when no
// tldr client is installed) and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string, examples [][2]string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "gfctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		} else {
			output.DumpExamples(ctx, cmd, examples)
		}
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the JSON schema for the provided type when
// --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema("", t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitJSONAPISlice marshals a slice as JSONAPI and passes it to the common
// output routine.
func EmitJSONAPISlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	if err := jsonapi.MarshalPayload(&raw, results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	output.SliceDiceSpit(raw, al, cmd, "data", os.Stdout)
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// LogCacheStats logs a snapshot of the result cache when --cache-stats was
// requested. Pending is nearly always 0 here since the query has finished.
func LogCacheStats(cmd *cli.Command) {
	if !cmd.Bool("cache-stats") {
		return
	}
	m := GetMeta(cmd)
	if m.Cache == nil {
		return
	}
	s := m.Cache.Stats()
	log.Infof("cache: total=%d active=%d expired=%d pending=%d",
		s.Total, s.Active, s.Expired, s.Pending)
}

// ResolveRepo returns the owner/repo the command should query. The positional
// parsed in main wins, then the --repo flag with its env and config sources.
func ResolveRepo(cmd *cli.Command) (string, error) {
	m := GetMeta(cmd)
	if m.Repo != "" {
		return m.Repo, nil
	}
	if repo := cmd.String("repo"); repo != "" {
		return repo, nil
	}
	return "", errors.New("no repository specified; pass owner/repo or set --repo")
}

// InitGitHubQuery resolves the target repository and constructs the API
// client shared by the GitHub query commands.
func InitGitHubQuery(ctx context.Context, cmd *cli.Command) (*github.Client, string, error) {
	repo, err := ResolveRepo(cmd)
	if err != nil {
		return nil, "", err
	}

	m := GetMeta(cmd)
	client := github.NewClient(m.Cache, github.WithHost(cmd.String("host")))
	log.Debugf("client host: %v, repo: %v", cmd.String("host"), repo)

	return client, repo, nil
}

// QueryCommandBuilder is a helper that constructs a cli.Command for query
// subcommands (bq, cq, dash, dq, pq) using a consistent pattern.
// It accepts the command name, usage text, optional UsageText, custom flags,
// the action handler, and meta. The builder automatically wires metadata,
// adds tldr/schema/cache-stats flags, applies global flags, and sets up
// validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(qcb.Flags, append([]cli.Flag{
			tldrFlag,
			schemaFlag,
			cacheStatsFlag,
		}, NewGlobalFlags(qcb.Name)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner[T] encapsulates the common query action pattern for all
// query subcommands. It handles steps 1-4 and 6 (GetMeta, short-circuit
// checks, BuildAttrs, schema dumping, and output emission), with step 5
// (data fetching) provided by FetchFn.
type QueryActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	Examples     [][2]string
	FetchFn      func(context.Context, *cli.Command) ([]T, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	// Step 1: GetMeta + debug.
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Step 2: Short-circuit checks.
	if ShortCircuitTLDR(ctx, cmd, qar.CommandName, qar.Examples) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, qar.SchemaType) {
		return nil
	}

	// Step 3: BuildAttrs + debug.
	attrs := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", attrs)

	// Step 4: Fetch data.
	results, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	// Step 5: Emit + return.
	if err := EmitJSONAPISlice(results, attrs, cmd); err != nil {
		return err
	}

	LogCacheStats(cmd)
	return nil
}
