package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type params struct {
	Async bool
}

type item struct {
	N int
}

type lookupOpts struct {
	Secret string `json:"secret"`
}

var errBackend = errors.New("backend unavailable")

// testAPI counts calls per operation.
type testAPI struct {
	mu    sync.Mutex
	calls map[string]int
	fail  int // number of upcoming Get calls that fail
}

func newTestAPI() *testAPI {
	return &testAPI{calls: make(map[string]int)}
}

func (a *testAPI) count(op string) {
	a.mu.Lock()
	a.calls[op]++
	a.mu.Unlock()
}

func (a *testAPI) Calls(op string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[op]
}

func (a *testAPI) Params(_ context.Context) (*params, error) {
	a.count("Params")
	return &params{Async: true}, nil
}

func (a *testAPI) Name(_ context.Context, id int) (string, error) {
	a.count("Name")
	if id == 1 {
		return "first", nil
	}
	return "some guy", nil
}

func (a *testAPI) Get(_ context.Context, n int) (*item, error) {
	a.count("Get")
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail > 0 {
		a.fail--
		return nil, errBackend
	}
	return &item{N: n}, nil
}

func (a *testAPI) Lookup(_ context.Context, id int, opts *lookupOpts) (string, error) {
	a.count("Lookup")
	if opts != nil {
		return opts.Secret, nil
	}
	if id == 1 {
		return "first", nil
	}
	return "some guy", nil
}

func mustWrap(t *testing.T, api *testAPI, opts Options) *Cached[*testAPI] {
	t.Helper()
	c, err := Wrap(api, opts)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	return c
}

// tableKeys returns the keys of op's table, oldest first.
func tableKeys(t *testing.T, c *Cached[*testAPI], op string) []Key {
	t.Helper()
	tbl, ok := StateOf(c).Store.Table(StateOf(c).Meta(op))
	if !ok {
		return nil
	}
	return tbl.Keys()
}

func keysOf(ns ...string) []Key {
	keys := make([]Key, len(ns))
	for i, n := range ns {
		keys[i] = StringKey(n)
	}
	return keys
}
