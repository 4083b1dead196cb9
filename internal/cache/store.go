// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry is the value stored in the insertion-order list elements. The key is
// kept here because eviction starts from list nodes. A zero expiresAt means
// the entry never expires.
type entry struct {
	key       string
	value     any
	createdAt time.Time
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// Store is a bounded map from key to value with per-entry TTL. A map gives
// O(1) lookup and a doubly-linked list maintains insertion order for
// eviction: Front is the oldest-inserted key, Back the newest.
//
// Store is safe for concurrent use. All operations run to completion under
// one mutex; nothing in here suspends.
type Store struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	order   *list.List
	now     func() time.Time
}

// NewStore constructs an empty store holding at most maxSize entries.
// maxSize <= 0 means unbounded.
func NewStore(maxSize int) *Store {
	return &Store{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get returns the value for key if an entry exists and is fresh. An expired
// entry is removed on access and reported as absent, the same as a miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if e.expired(s.now()) {
		s.removeLocked(el)
		return nil, false
	}
	return e.value, true
}

// Has reports whether a fresh entry exists for key, applying the same lazy
// expiry as Get.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set inserts or overwrites the entry for key. ttl == 0 means the entry
// never expires. Overwriting an existing key replaces the value, resets the
// expiry, and moves the key to the most-recently-inserted position; it never
// triggers eviction. Inserting a new key evicts the oldest-inserted entry
// first when the store is full.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if el, ok := s.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.createdAt = now
		e.expiresAt = expiresAt
		s.order.MoveToBack(el)
		return
	}

	if s.maxSize > 0 && len(s.items) >= s.maxSize {
		// Reclaim expired entries before sacrificing a live one.
		if s.sweepLocked(now) == 0 {
			if el := s.order.Front(); el != nil {
				s.removeLocked(el)
			}
		}
	}

	el := s.order.PushBack(&entry{
		key:       key,
		value:     value,
		createdAt: now,
		expiresAt: expiresAt,
	})
	s.items[key] = el
}

// Delete removes the entry for key if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		s.removeLocked(el)
	}
}

// Sweep scans every entry and removes the expired ones, returning how many
// were removed. The background sweeper calls this on an interval; tests call
// it directly.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// Len returns the current entry count, including entries that have expired
// but not yet been swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// counts returns total, active, and expired entry counts in one snapshot.
func (s *Store) counts() (total, active, expired int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	total = len(s.items)
	for el := s.order.Front(); el != nil; el = el.Next() {
		if el.Value.(*entry).expired(now) {
			expired++
		}
	}
	active = total - expired
	return
}

func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	var next *list.Element
	for el := s.order.Front(); el != nil; el = next {
		next = el.Next()
		if el.Value.(*entry).expired(now) {
			s.removeLocked(el)
			removed++
		}
	}
	return removed
}

func (s *Store) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	delete(s.items, e.key)
	s.order.Remove(el)
}
