// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/staranto/gfctlgo/internal/cache"
	"github.com/staranto/gfctlgo/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	// Cache is the process-wide result cache, constructed in main and shared
	// by every command through the cli metadata.
	Cache *cache.Cache
	// Repo is the optional owner/repo positional parsed from the command
	// line, e.g. "golang/go".
	Repo string
}
