package cache

import (
	"fmt"
	"time"
)

// Settings configures caching for an operation.
//
// The zero value caches forever with no size bound.
type Settings struct {
	// Disabled bypasses the cache entirely. Disabled operations never read
	// or write their table.
	Disabled bool

	// TTL is how long an entry stays valid. Zero means entries never expire.
	TTL time.Duration

	// MaxSize bounds the number of entries in the operation's table.
	// Zero is the unset value and means unbounded; it is not rejected.
	// Only negative sizes fail Validate.
	MaxSize int

	// PruneOnAccess sweeps expired entries from the operation's table on
	// every access, hits included. Has no effect without a TTL. A sweep on
	// miss always happens when both TTL and MaxSize are set.
	PruneOnAccess bool

	// SingleFlight coalesces concurrent misses for the same key into one
	// execution whose result all callers share.
	SingleFlight bool
}

// Validate checks the settings for values that would make eviction undefined.
func (s Settings) Validate() error {
	if s.MaxSize < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxSize, s.MaxSize)
	}
	if s.TTL < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTTL, s.TTL)
	}
	return nil
}

// bounded reports whether size eviction applies.
func (s Settings) bounded() bool {
	return s.MaxSize > 0
}

// expires reports whether entries can go stale.
func (s Settings) expires() bool {
	return s.TTL > 0
}

// Override replaces the global Settings for one operation.
//
// An Override is all-or-nothing: fields left unset take their zero default,
// they are not inherited from the global Settings.
type Override struct {
	Settings

	// KeyFunc, when set, is consulted before the global key func.
	KeyFunc KeyFunc
}

// Entry is one cached result. Entries are replaced, never mutated.
type Entry struct {
	Value    any
	CachedAt time.Time
}

// IsExpired reports whether e is stale under s at now.
// An entry is still valid at exactly CachedAt+TTL.
func IsExpired(e Entry, s Settings, now time.Time) bool {
	if !s.expires() {
		return false
	}
	return now.After(e.CachedAt.Add(s.TTL))
}

// Outcome classifies a cache lookup.
type Outcome int

const (
	// OutcomeHit means a valid entry was returned.
	OutcomeHit Outcome = iota
	// OutcomeMiss means no entry existed and the operation ran.
	OutcomeMiss
	// OutcomeExpired means a stale entry existed and the operation ran.
	OutcomeExpired
	// OutcomeDisabled means caching is off for the operation.
	OutcomeDisabled
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	case OutcomeExpired:
		return "expired"
	case OutcomeDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}
