// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package github fetches repository facts (commits, pull requests, branch
// heads) from the GitHub REST API through the shared result cache.
package github
