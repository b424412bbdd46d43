package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/spaolacci/murmur3"
)

// KeySeparator joins the rendered segments of an argument list.
const KeySeparator = "-"

// Key identifies one cached result within an operation's table.
//
// A Key is either a string or the no-args sentinel. The sentinel never
// equals any string key, including the empty string.
type Key struct {
	value  string
	noArgs bool
}

// NoArgsKey is the key of every call made without arguments.
var NoArgsKey = Key{noArgs: true}

// StringKey returns a Key for s.
func StringKey(s string) Key {
	return Key{value: s}
}

// IsNoArgs reports whether k is the no-args sentinel.
func (k Key) IsNoArgs() bool {
	return k.noArgs
}

func (k Key) String() string {
	if k.noArgs {
		return "<no-args>"
	}
	return k.value
}

// KeyFunc derives a key from one operation's arguments.
// Returning ok=false defers to the next deriver.
type KeyFunc func(args []any) (key Key, ok bool)

// GlobalKeyFunc derives a key for any operation from its name and arguments.
// Returning ok=false defers to DefaultKey.
type GlobalKeyFunc func(op string, args []any) (key Key, ok bool)

// DefaultKey renders args into a dash separated key.
//
// Slices and arrays are flattened with the same separator, maps and structs
// are JSON encoded, everything else uses its fmt form. Struct fields encode
// in declaration order, so two struct types with the same fields in a
// different order produce different keys. Map keys are sorted by
// encoding/json.
func DefaultKey(args []any) Key {
	if len(args) == 0 {
		return NoArgsKey
	}
	return StringKey(renderSeq(args))
}

func renderSeq(args []any) string {
	segs := make([]string, len(args))
	for i, a := range args {
		segs[i] = render(a)
	}
	return strings.Join(segs, KeySeparator)
}

func render(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case []byte:
		return string(val)
	case []any:
		return renderSeq(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		segs := make([]string, rv.Len())
		for i := range segs {
			segs[i] = render(rv.Index(i).Interface())
		}
		return strings.Join(segs, KeySeparator)
	case reflect.Map, reflect.Struct:
		return encode(v)
	case reflect.Pointer:
		if rv.IsNil() {
			return "null"
		}
		switch rv.Elem().Kind() {
		case reflect.Map, reflect.Struct:
			return encode(v)
		}
		return render(rv.Elem().Interface())
	default:
		return fmt.Sprint(v)
	}
}

// encode falls back to fmt when the value cannot be represented as JSON.
func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// deriveKey applies the per-operation deriver, then the global one, then
// DefaultKey.
func deriveKey(local KeyFunc, global GlobalKeyFunc, op string, args []any) Key {
	if local != nil {
		if k, ok := local(args); ok {
			return k
		}
	}
	if global != nil {
		if k, ok := global(op, args); ok {
			return k
		}
	}
	return DefaultKey(args)
}

// flightKey distinguishes the sentinel from every string key.
func (k Key) flightKey() string {
	if k.noArgs {
		return "\x00"
	}
	return "s" + k.value
}

// HashedKey is a GlobalKeyFunc that keys every call by the 128-bit murmur3
// digest of its DefaultKey rendering. Use it when arguments render to long
// strings. Calls without arguments defer to NoArgsKey.
func HashedKey(_ string, args []any) (Key, bool) {
	if len(args) == 0 {
		return Key{}, false
	}
	h1, h2 := murmur3.Sum128([]byte(renderSeq(args)))
	return StringKey(fmt.Sprintf("%016x%016x", h1, h2)), true
}
