// Package cache memoizes the operations of an API value.
//
// Operations are bound explicitly with Bind0..Bind3 or BindN. Each bound
// operation gets its own LRU-ordered table inside a Store, keyed by a Key
// derived from the call arguments. Tables honour a TTL, a maximum size, or
// both; expired entries are always swept before size eviction so a live
// entry is never dropped in favour of a stale one.
//
// Concurrent identical misses all execute and the last completed write
// wins, unless Settings.SingleFlight is set for the operation.
package cache
