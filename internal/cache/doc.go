// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package cache provides the in-memory result cache that sits between gfctl
// commands and the remote APIs they query. It combines TTL expiration with
// in-flight request deduplication so that N concurrent requests for the same
// fact cost exactly one network call, and repeated invocations within a run
// cost none.
package cache
