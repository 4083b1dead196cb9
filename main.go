// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/gfctlgo/internal/cache"
	"github.com/staranto/gfctlgo/internal/command"
	"github.com/staranto/gfctlgo/internal/config"
	mylog "github.com/staranto/gfctlgo/internal/log"
	"github.com/staranto/gfctlgo/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	cc := cache.New(cacheConfig())
	defer cc.Close() //nolint:errcheck

	app, err := command.InitApp(ctx, args, cc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// cacheConfig sizes the result cache from gfctl.yaml, falling back to the
// package defaults when the keys are absent.
func cacheConfig() cache.Config {
	maxSize, _ := config.GetInt("cache.max_size", cache.DefaultMaxSize)
	sweepMinutes, _ := config.GetInt("cache.sweep_minutes", 0)

	cfg := cache.Config{
		MaxSize:       maxSize,
		SweepInterval: cache.DefaultSweepInterval,
	}
	if sweepMinutes > 0 {
		cfg.SweepInterval = time.Duration(sweepMinutes) * time.Minute
	}
	return cfg
}

func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	// And the next arg might be an owner/repo positional.
	repoArg := ""
	argStartIdx := 2
	if len(args) > 2 && !strings.HasPrefix(args[2], "-") && strings.Contains(args[2], "/") {
		repoArg = args[2]
		argStartIdx = 3
	}

	defaultSet := "@defaults"

	// Scan through the args. If there is no @set, just use it and ignore this
	// default.
	for _, a := range args {
		if strings.HasPrefix(a, "@") {
			defaultSet = ""
			break
		}
	}

	// Now combine them back together.
	workingArgs := preamble
	if repoArg != "" {
		workingArgs = append(workingArgs, repoArg)
	}
	if defaultSet != "" {
		workingArgs = append(workingArgs, defaultSet)
	}

	if argStartIdx < len(args) {
		workingArgs = append(workingArgs, args[argStartIdx:]...)
	}

	args = workingArgs

	// Now scan through args for the @set to expand. If one was specified it
	// becomes the insertion point and the @set entry is removed from args.
	idx := 2
	set := "defaults"
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			idx += i
			args = append(args[:idx], args[idx+1:]...)
			break
		}
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range setArgs {
		parts := strings.Fields(arg)
		args = append(args[:idx], append(parts, args[idx:]...)...)
		idx += len(parts)
	}

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, args)
	return args
}
