package cache

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jonwraymond/apicache/observe"
)

// Options configures Wrap. The zero value caches every bound operation
// forever in a fresh Store.
type Options struct {
	// Store holds the tables. Nil creates a Store owned by the Cached.
	Store *Store

	// Namespace prefixes operation IDs in the Store and in telemetry.
	// Wrappers sharing a Store and a Namespace share entries.
	Namespace string

	// Debug logs the outcome of every call at debug level. Without a
	// Logger in Instruments, lines go to stderr.
	Debug bool

	// Instruments receive metrics, spans and debug lines.
	Instruments observe.Instruments

	// Settings apply to every operation without an Override.
	Settings Settings

	// Overrides replace Settings entirely for the named operations.
	Overrides map[string]Override

	// KeyFunc is consulted after an operation's Override.KeyFunc and
	// before DefaultKey.
	KeyFunc GlobalKeyFunc

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Validate checks the global settings and every override.
func (o Options) Validate() error {
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(o.Overrides)) {
		if err := o.Overrides[name].Validate(); err != nil {
			return fmt.Errorf("override %q: %w", name, err)
		}
	}
	return nil
}

// State is the resolved configuration of a Cached together with its live
// Store and the original API value. Configuration fields must not be
// modified after Wrap returns.
type State[API any] struct {
	API       API
	Store     *Store
	Namespace string
	Debug     bool
	Settings  Settings
	Overrides map[string]Override
	KeyFunc   GlobalKeyFunc
}

// SettingsFor resolves the settings of op: its Override if present,
// otherwise the global Settings.
func (s *State[API]) SettingsFor(op string) Settings {
	if o, ok := s.Overrides[op]; ok {
		return o.Settings
	}
	return s.Settings
}

// Key derives the key a call to op with args is cached under.
func (s *State[API]) Key(op string, args ...any) Key {
	var local KeyFunc
	if o, ok := s.Overrides[op]; ok {
		local = o.KeyFunc
	}
	return deriveKey(local, s.KeyFunc, op, args)
}

// Meta returns the telemetry identity of op.
func (s *State[API]) Meta(op string) observe.OpMeta {
	return observe.OpMeta{Namespace: s.Namespace, Name: op}
}

// Cached memoizes the operations bound to it.
//
// Contract:
// - Concurrency: safe for concurrent use. Compute runs outside any lock.
// - Errors: errors returned by an operation are passed through unchanged
// and never cached.
type Cached[API any] struct {
	state *State[API]
	inst  observe.Instruments
	now   func() time.Time

	mu    sync.RWMutex
	bound map[string]struct{}
}

// Wrap binds api to a cache configured by opts.
// Operations are attached with Bind0..Bind3 or BindN.
func Wrap[API any](api API, opts Options) (*Cached[API], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	store := opts.Store
	if store == nil {
		store = NewStore()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	inst := opts.Instruments
	if opts.Debug && inst.Logger == nil {
		inst.Logger = observe.NewLogger("debug")
	}

	return &Cached[API]{
		state: &State[API]{
			API:       api,
			Store:     store,
			Namespace: opts.Namespace,
			Debug:     opts.Debug,
			Settings:  opts.Settings,
			Overrides: maps.Clone(opts.Overrides),
			KeyFunc:   opts.KeyFunc,
		},
		inst:  inst.WithDefaults(),
		now:   clock,
		bound: make(map[string]struct{}),
	}, nil
}

// API returns the original, unwrapped value.
func (c *Cached[API]) API() API {
	return c.state.API
}

// Operations returns the names bound to c, sorted.
func (c *Cached[API]) Operations() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.bound))
}

func (c *Cached[API]) cacheState() {}

// StateOf returns the live state of c.
func StateOf[API any](c *Cached[API]) *State[API] {
	return c.state
}

// IsCached reports whether v was returned by Wrap.
func IsCached(v any) bool {
	_, ok := v.(interface{ cacheState() })
	return ok
}

func (c *Cached[API]) register(name string) {
	if name == "" {
		return
	}
	c.mu.Lock()
	c.bound[name] = struct{}{}
	c.mu.Unlock()
}

type computeFunc func(ctx context.Context) (any, error)

// call runs one cached invocation of op.
func (c *Cached[API]) call(ctx context.Context, op string, args []any, fn computeFunc) (any, error) {
	if op == "" {
		return nil, ErrEmptyName
	}
	meta := c.state.Meta(op)
	s := c.state.SettingsFor(op)

	if s.Disabled {
		c.report(ctx, meta, OutcomeDisabled, Key{})
		return fn(ctx)
	}

	key := c.state.Key(op, args...)
	t := c.state.Store.table(meta)

	e, outcome, swept := t.lookup(key, s, c.now())
	c.report(ctx, meta, outcome, key)
	if outcome == OutcomeHit {
		c.inst.Metrics.RecordEviction(ctx, meta, observe.EvictExpired, swept)
		return e.Value, nil
	}

	if !s.SingleFlight {
		return c.compute(ctx, meta, outcome, t, key, s, fn)
	}
	v, err, _ := c.state.Store.flight.Do(flightID(meta, key), func() (any, error) {
		return c.compute(ctx, meta, outcome, t, key, s, fn)
	})
	return v, err
}

// compute executes fn and, on success, stores the result in t.
func (c *Cached[API]) compute(ctx context.Context, meta observe.OpMeta, outcome Outcome, t *Table, key Key, s Settings, fn computeFunc) (any, error) {
	spanCtx, span := c.inst.Tracer.StartSpan(ctx, meta, outcome.String())
	start := time.Now()
	v, err := fn(spanCtx)
	c.inst.Metrics.RecordCompute(ctx, meta, time.Since(start), err)
	c.inst.Tracer.EndSpan(span, err)
	if err != nil {
		return v, err
	}

	now := c.now()
	swept, evicted := t.store(key, Entry{Value: v, CachedAt: now}, s, now)
	c.inst.Metrics.RecordEviction(ctx, meta, observe.EvictExpired, swept)
	c.inst.Metrics.RecordEviction(ctx, meta, observe.EvictSize, evicted)
	return v, nil
}

func (c *Cached[API]) report(ctx context.Context, meta observe.OpMeta, outcome Outcome, key Key) {
	c.inst.Metrics.RecordLookup(ctx, meta, outcome.String())
	if !c.state.Debug {
		return
	}

	fields := []observe.Field{{Key: "outcome", Value: outcome.String()}}
	if outcome != OutcomeDisabled {
		fields = append(fields, observe.Field{Key: "key", Value: key.String()})
	}
	c.inst.Logger.WithOperation(meta).Debug(ctx, "cache "+outcome.String(), fields...)
}
