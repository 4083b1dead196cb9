// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortDataset orders the result set in place per the --sort spec. The spec is
// a comma separated list of output keys, each optionally prefixed with - for
// descending order or ! for a case sensitive comparison. Later keys break
// ties left by earlier ones.
func SortDataset(dataset []map[string]interface{}, spec string) {
	if spec == "" || len(dataset) < 2 {
		return
	}

	type sortKey struct {
		key           string
		descending    bool
		caseSensitive bool
	}

	//nolint:prealloc
	var keys []sortKey

	for _, raw := range strings.Split(spec, ",") {
		k := sortKey{key: strings.TrimSpace(raw)}

		// Prefixes may stack ("-!name"), so strip until none remain.
		for {
			if strings.HasPrefix(k.key, "-") {
				k.descending = true
				k.key = k.key[1:]
				continue
			}
			if strings.HasPrefix(k.key, "!") {
				k.caseSensitive = true
				k.key = k.key[1:]
				continue
			}
			break
		}

		if k.key != "" {
			keys = append(keys, k)
		}
	}

	sort.SliceStable(dataset, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(dataset[i][k.key], dataset[j][k.key], k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareValues orders two cell values. Numbers compare numerically, anything
// else compares as its string rendering.
func compareValues(a, b interface{}, caseSensitive bool) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	as := InterfaceToString(a)
	bs := InterfaceToString(b)
	if !caseSensitive {
		as = strings.ToLower(as)
		bs = strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}

func toFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
