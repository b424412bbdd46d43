package cache

import (
	"context"

	"github.com/jonwraymond/apicache/observe"
)

// InvalidateAll drops every table in the Store, including tables written by
// other wrappers sharing it.
func (c *Cached[API]) InvalidateAll() {
	c.state.Store.Clear()
}

// Invalidate removes cached results of op. Without args the whole table of
// op is dropped; with args only the entry those args derive to is removed,
// using the same key resolution as a call. Unknown operations are ignored.
func (c *Cached[API]) Invalidate(op string, args ...any) {
	meta := c.state.Meta(op)
	if len(args) == 0 {
		c.state.Store.drop(meta)
		return
	}

	t, ok := c.state.Store.Table(meta)
	if !ok {
		return
	}
	t.remove(c.state.Key(op, args...))
}

// Prune removes expired entries from the table of every bound operation
// whose resolved settings carry a TTL. Operations without a TTL are not
// visited. It returns the number of entries removed.
func (c *Cached[API]) Prune(ctx context.Context) int {
	now := c.now()
	total := 0
	for _, op := range c.Operations() {
		s := c.state.SettingsFor(op)
		if !s.expires() {
			continue
		}
		meta := c.state.Meta(op)
		t, ok := c.state.Store.Table(meta)
		if !ok {
			continue
		}
		n := t.sweep(s, now)
		c.inst.Metrics.RecordEviction(ctx, meta, observe.EvictExpired, n)
		total += n
	}
	return total
}
