package cache

import (
	"testing"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type pointYX struct {
	Y int `json:"y"`
	X int `json:"x"`
}

type withFunc struct {
	F func()
}

func TestDefaultKey(t *testing.T) {
	var nilPoint *point

	tests := []struct {
		name string
		args []any
		want Key
	}{
		{"no args", nil, NoArgsKey},
		{"empty args", []any{}, NoArgsKey},
		{"ints", []any{1, 2}, StringKey("1-2")},
		{"string", []any{"abc"}, StringKey("abc")},
		{"bool", []any{true, false}, StringKey("true-false")},
		{"float", []any{1.5}, StringKey("1.5")},
		{"nil", []any{nil}, StringKey("null")},
		{"nil pointer", []any{nilPoint}, StringKey("null")},
		{"bytes", []any{[]byte("raw")}, StringKey("raw")},
		{"flat slice", []any{[]int{1, 2, 3}}, StringKey("1-2-3")},
		{"nested slices", []any{[]any{1, []any{2, 3}}, 4}, StringKey("1-2-3-4")},
		{"array", []any{[2]string{"a", "b"}}, StringKey("a-b")},
		{"empty nested slice", []any{[]int{}, 1}, StringKey("-1")},
		{"struct", []any{point{X: 1, Y: 2}}, StringKey(`{"x":1,"y":2}`)},
		{"struct pointer", []any{&point{X: 1, Y: 2}}, StringKey(`{"x":1,"y":2}`)},
		{"map", []any{map[string]int{"b": 2, "a": 1}}, StringKey(`{"a":1,"b":2}`)},
		{"mixed", []any{7, "x", point{}}, StringKey(`7-x-{"x":0,"y":0}`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DefaultKey(tc.args); got != tc.want {
				t.Errorf("DefaultKey(%v) = %v, want %v", tc.args, got, tc.want)
			}
		})
	}
}

// Field order is not canonicalised: equal data in differently ordered
// structs yields different keys.
func TestDefaultKey_StructFieldOrderMatters(t *testing.T) {
	a := DefaultKey([]any{point{X: 1, Y: 2}})
	b := DefaultKey([]any{pointYX{X: 1, Y: 2}})

	if a == b {
		t.Errorf("expected different keys, both %v", a)
	}
}

func TestDefaultKey_MapOrderIgnored(t *testing.T) {
	a := DefaultKey([]any{map[string]any{"b": 2, "a": 1, "c": 3}})
	b := DefaultKey([]any{map[string]any{"c": 3, "a": 1, "b": 2}})

	if a != b {
		t.Errorf("keys differ: %v vs %v", a, b)
	}
}

func TestDefaultKey_StringAndNumberCollide(t *testing.T) {
	if DefaultKey([]any{1}) != DefaultKey([]any{"1"}) {
		t.Error("numbers and strings share their canonical form")
	}
}

func TestDefaultKey_UnencodableFallsBack(t *testing.T) {
	v := withFunc{F: func() {}}

	a := DefaultKey([]any{v})
	b := DefaultKey([]any{v})

	if a != b {
		t.Errorf("fallback should be deterministic: %v vs %v", a, b)
	}
	if a.IsNoArgs() || a.String() == "" {
		t.Errorf("unexpected fallback key %v", a)
	}
}

// An empty nested sequence is an empty segment, never the no-args sentinel.
func TestDefaultKey_EmptyNestedSequence(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want Key
	}{
		{"leading", []any{[]int{}, 1}, StringKey("-1")},
		{"trailing", []any{1, []string{}}, StringKey("1-")},
		{"alone", []any{[]any{}}, StringKey("")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DefaultKey(tc.args)
			if got != tc.want {
				t.Errorf("DefaultKey(%v) = %q, want %q", tc.args, got, tc.want)
			}
			if got.IsNoArgs() {
				t.Error("empty nested sequence must not map to NoArgsKey")
			}
		})
	}
}

func TestNoArgsKey_Distinct(t *testing.T) {
	for _, s := range []string{"", "<no-args>", "\x00"} {
		if StringKey(s) == NoArgsKey {
			t.Errorf("StringKey(%q) equals NoArgsKey", s)
		}
		if StringKey(s).flightKey() == NoArgsKey.flightKey() {
			t.Errorf("StringKey(%q) shares the no-args flight key", s)
		}
	}
	if !NoArgsKey.IsNoArgs() {
		t.Error("NoArgsKey.IsNoArgs() = false")
	}
}

func TestDeriveKey_Fallbacks(t *testing.T) {
	local := func(args []any) (Key, bool) {
		if len(args) == 1 && args[0] == "alias" {
			return StringKey("L"), true
		}
		return Key{}, false
	}
	global := func(op string, args []any) (Key, bool) {
		if op == "G" {
			return StringKey("G"), true
		}
		return Key{}, false
	}

	tests := []struct {
		name   string
		local  KeyFunc
		global GlobalKeyFunc
		op     string
		args   []any
		want   Key
	}{
		{"local wins", local, global, "G", []any{"alias"}, StringKey("L")},
		{"local defers to global", local, global, "G", []any{1}, StringKey("G")},
		{"both defer", local, global, "op", []any{1}, StringKey("1")},
		{"none set", nil, nil, "op", nil, NoArgsKey},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := deriveKey(tc.local, tc.global, tc.op, tc.args); got != tc.want {
				t.Errorf("deriveKey() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHashedKey(t *testing.T) {
	long := make([]int, 500)
	a, ok := HashedKey("op", []any{long, "x"})
	if !ok {
		t.Fatal("HashedKey should key calls with arguments")
	}
	if len(a.String()) != 32 {
		t.Errorf("expected 32 hex digits, got %q", a.String())
	}

	b, _ := HashedKey("other", []any{long, "x"})
	if a != b {
		t.Error("digest should depend only on the arguments")
	}
	c, _ := HashedKey("op", []any{long, "y"})
	if a == c {
		t.Error("different arguments should hash differently")
	}

	if _, ok := HashedKey("op", nil); ok {
		t.Error("no-args calls should defer")
	}
	if got := deriveKey(nil, HashedKey, "op", nil); got != NoArgsKey {
		t.Errorf("no-args call keyed %v, want NoArgsKey", got)
	}
}
