package cache

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/apicache/observe"
)

// Store maps operations to their tables. Operations are identified by
// namespace and name together, never by their joined ID.
//
// Contract:
// - Concurrency: safe for concurrent use; each table has its own lock.
// - Ownership: a Store passed through Options is shared by every Cached
// built with it and outlives any single one of them.
type Store struct {
	mu     sync.RWMutex
	tables map[observe.OpMeta]*Table
	flight singleflight.Group
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{tables: make(map[observe.OpMeta]*Table)}
}

// Table returns the table of an operation, if it has one.
func (s *Store) Table(op observe.OpMeta) (*Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[op]
	return t, ok
}

// table returns the table of op, creating it on first use.
func (s *Store) table(op observe.OpMeta) *Table {
	if t, ok := s.Table(op); ok {
		return t
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[op]; ok {
		return t
	}
	t := newTable()
	s.tables[op] = t
	return t
}

// Operations returns all operations holding a table, sorted by namespace
// then name.
func (s *Store) Operations() []observe.OpMeta {
	s.mu.RLock()
	ops := make([]observe.OpMeta, 0, len(s.tables))
	for op := range s.tables {
		ops = append(ops, op)
	}
	s.mu.RUnlock()

	slices.SortFunc(ops, func(a, b observe.OpMeta) int {
		return cmp.Or(cmp.Compare(a.Namespace, b.Namespace), cmp.Compare(a.Name, b.Name))
	})
	return ops
}

// Len returns the number of entries across all tables.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.tables {
		n += t.Len()
	}
	return n
}

// Clear drops every table.
func (s *Store) Clear() {
	s.mu.Lock()
	s.tables = make(map[observe.OpMeta]*Table)
	s.mu.Unlock()
}

// drop removes the table of op. Idempotent.
func (s *Store) drop(op observe.OpMeta) {
	s.mu.Lock()
	delete(s.tables, op)
	s.mu.Unlock()
}

// flightID identifies one in-flight computation of key in op. Lengths
// prefix the variable parts so no two operations share a flight.
func flightID(op observe.OpMeta, key Key) string {
	return strconv.Itoa(len(op.Namespace)) + ":" + op.Namespace +
		strconv.Itoa(len(op.Name)) + ":" + op.Name + key.flightKey()
}

// Table is the ordered entry map of one operation, oldest entry first.
type Table struct {
	mu  sync.Mutex
	lru *simplelru.LRU[Key, Entry]
}

func newTable() *Table {
	// Size eviction is driven by the engine so that expired entries can be
	// swept first; the LRU itself is never full.
	lru, err := simplelru.NewLRU[Key, Entry](math.MaxInt, nil)
	if err != nil {
		panic(err)
	}
	return &Table{lru: lru}
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lru.Len()
}

// Keys returns the keys from least to most recently used.
func (t *Table) Keys() []Key {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lru.Keys()
}

// Peek returns the entry for key without touching its recency.
func (t *Table) Peek(key Key) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lru.Peek(key)
}

// lookup classifies key under s. Hits are moved to most-recent when the
// table is size bounded and trigger a sweep when PruneOnAccess is set.
func (t *Table) lookup(key Key, s Settings, now time.Time) (Entry, Outcome, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.lru.Peek(key)
	if !ok {
		return Entry{}, OutcomeMiss, 0
	}
	if IsExpired(e, s, now) {
		return e, OutcomeExpired, 0
	}

	if s.bounded() {
		t.lru.Get(key)
	}
	swept := 0
	if s.expires() && s.PruneOnAccess {
		swept = t.sweepLocked(s, now)
	}
	return e, OutcomeHit, swept
}

// store writes e as the most recent entry, sweeps expired entries and then
// evicts least recently used ones until the table fits MaxSize.
func (t *Table) store(key Key, e Entry, s Settings, now time.Time) (swept, evicted int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lru.Add(key, e)

	if s.expires() && (s.bounded() || s.PruneOnAccess) {
		swept = t.sweepLocked(s, now)
	}
	if s.bounded() {
		for t.lru.Len() > s.MaxSize {
			if _, _, ok := t.lru.RemoveOldest(); !ok {
				break
			}
			evicted++
		}
	}
	return swept, evicted
}

// sweep removes every entry expired under s at now.
func (t *Table) sweep(s Settings, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sweepLocked(s, now)
}

func (t *Table) sweepLocked(s Settings, now time.Time) int {
	if !s.expires() {
		return 0
	}
	n := 0
	for _, k := range t.lru.Keys() {
		if e, ok := t.lru.Peek(k); ok && IsExpired(e, s, now) {
			t.lru.Remove(k)
			n++
		}
	}
	return n
}

// remove deletes key. Idempotent.
func (t *Table) remove(key Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lru.Remove(key)
}
