// Package prefs is the runtime side of generated preference factories and
// writers: a small typed key-value store with defaults.
package prefs

// Store reads typed preferences. A missing key, or a value that cannot be
// converted to the requested type, reads as the supplied default.
type Store interface {
	Contains(key string) bool
	Bool(key string, def bool) bool
	Float32(key string, def float32) float32
	Int32(key string, def int32) int32
	Int64(key string, def int64) int64
	String(key string, def string) string
	StringSet(key string, def map[string]struct{}) map[string]struct{}
	Edit() Editor
}

// Editor buffers typed writes until Commit
type Editor interface {
	PutBool(key string, v bool)
	PutFloat32(key string, v float32)
	PutInt32(key string, v int32)
	PutInt64(key string, v int64)
	PutString(key string, v string)
	PutStringSet(key string, v map[string]struct{})
	Remove(key string)
	Commit() error
}

// Nullable reads key with read, or returns nil when the key is absent
func Nullable[T any](s Store, key string, read func(string, T) T) *T {
	if !s.Contains(key) {
		return nil
	}
	var zero T
	v := read(key, zero)
	return &v
}

// NullableOr reads key with read, falling back to def when absent
func NullableOr[T any](s Store, key string, read func(string, T) T, def T) *T {
	v := read(key, def)
	return &v
}

// Set builds a string set from members
func Set(members ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}
