// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import "time"

// Class names a TTL preset. Callers pick the class that matches how quickly
// the underlying fact can change; the cache maps it to a concrete duration.
type Class int

const (
	// Static entries never expire. Use for facts keyed by an immutable
	// identifier, e.g. commit details keyed by SHA.
	Static Class = iota

	// SemiStatic entries live 30 minutes. Use for values that change
	// occasionally, e.g. a branch head.
	SemiStatic

	// Dynamic entries live 5 minutes. Use where freshness matters but the
	// upstream is rate limited, e.g. open pull requests.
	Dynamic
)

const (
	semiStaticTTL = 30 * time.Minute
	dynamicTTL    = 5 * time.Minute
)

// TTL returns the duration for the class. Zero means never expires.
func (c Class) TTL() time.Duration {
	switch c {
	case SemiStatic:
		return semiStaticTTL
	case Dynamic:
		return dynamicTTL
	default:
		return 0
	}
}

func (c Class) String() string {
	switch c {
	case Static:
		return "static"
	case SemiStatic:
		return "semi-static"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}
