// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package version carries the build version, stamped via -ldflags at release
// time.
package version

var Version = "dev"
