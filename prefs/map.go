package prefs

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// MapStore is an in-memory Store safe for concurrent use.
// Values loaded from text backends are kept as strings and parsed on read.
type MapStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMapStore returns a store holding a copy of values
func NewMapStore(values map[string]any) *MapStore {
	s := &MapStore{values: make(map[string]any, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *MapStore) get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MapStore) Contains(key string) bool {
	_, ok := s.get(key)
	return ok
}

func (s *MapStore) Bool(key string, def bool) bool {
	v, ok := s.get(key)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	return def
}

func (s *MapStore) Float32(key string, def float32) float32 {
	v, ok := s.get(key)
	if !ok {
		return def
	}
	switch f := v.(type) {
	case float32:
		return f
	case float64:
		return float32(f)
	case int:
		return float32(f)
	case string:
		if parsed, err := strconv.ParseFloat(f, 32); err == nil {
			return float32(parsed)
		}
	}
	return def
}

func (s *MapStore) Int64(key string, def int64) int64 {
	v, ok := s.get(key)
	if !ok {
		return def
	}
	switch i := v.(type) {
	case int64:
		return i
	case int32:
		return int64(i)
	case int:
		return int64(i)
	case uint64:
		if i <= math.MaxInt64 {
			return int64(i)
		}
	case string:
		if parsed, err := strconv.ParseInt(i, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func (s *MapStore) Int32(key string, def int32) int32 {
	if !s.Contains(key) {
		return def
	}
	i := s.Int64(key, math.MaxInt64)
	if i < math.MinInt32 || i > math.MaxInt32 {
		return def
	}
	return int32(i)
}

func (s *MapStore) String(key string, def string) string {
	v, ok := s.get(key)
	if !ok {
		return def
	}
	if str, ok := v.(string); ok {
		return str
	}
	return def
}

func (s *MapStore) StringSet(key string, def map[string]struct{}) map[string]struct{} {
	v, ok := s.get(key)
	if !ok {
		return def
	}
	switch set := v.(type) {
	case map[string]struct{}:
		return copySet(set)
	case []string:
		return Set(set...)
	case []any:
		members := make([]string, 0, len(set))
		for _, m := range set {
			str, ok := m.(string)
			if !ok {
				return def
			}
			members = append(members, str)
		}
		return Set(members...)
	case string:
		var members []string
		if err := yaml.Unmarshal([]byte(set), &members); err == nil {
			return Set(members...)
		}
	}
	return def
}

// Snapshot returns a copy of the stored values
func (s *MapStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *MapStore) Edit() Editor {
	return &mapEditor{store: s, puts: make(map[string]any)}
}

type mapEditor struct {
	store   *MapStore
	puts    map[string]any
	removes []string
}

func (e *mapEditor) put(key string, v any) {
	e.puts[key] = v
}

func (e *mapEditor) PutBool(key string, v bool)       { e.put(key, v) }
func (e *mapEditor) PutFloat32(key string, v float32) { e.put(key, v) }
func (e *mapEditor) PutInt32(key string, v int32)     { e.put(key, v) }
func (e *mapEditor) PutInt64(key string, v int64)     { e.put(key, v) }
func (e *mapEditor) PutString(key string, v string)   { e.put(key, v) }

func (e *mapEditor) PutStringSet(key string, v map[string]struct{}) {
	e.put(key, copySet(v))
}

func (e *mapEditor) Remove(key string) {
	delete(e.puts, key)
	e.removes = append(e.removes, key)
}

// Commit applies removals first, then puts, atomically
func (e *mapEditor) Commit() error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	for _, k := range e.removes {
		delete(e.store.values, k)
	}
	for k, v := range e.puts {
		e.store.values[k] = v
	}
	e.puts = make(map[string]any)
	e.removes = nil
	return nil
}

func copySet(set map[string]struct{}) map[string]struct{} {
	if set == nil {
		return nil
	}
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

func sortedMembers(set map[string]struct{}) []string {
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}

// String forms used by the text backends
func formatValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case int:
		return strconv.Itoa(t), nil
	case map[string]struct{}:
		return formatSet(sortedMembers(t))
	case []string:
		return formatSet(t)
	}
	out, err := yaml.Marshal(v)
	return strings.TrimSpace(string(out)), err
}

func formatSet(members []string) (string, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, m := range members {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: m, Tag: "!!str"})
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
