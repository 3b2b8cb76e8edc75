package prefs

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a flat YAML mapping into a new MapStore. Sequences become
// string sets.
func LoadYAML(r io.Reader) (*MapStore, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding preferences: %w", err)
	}
	return NewMapStore(raw), nil
}

// LoadYAMLFile is LoadYAML over a file; a missing file yields an empty store
func LoadYAMLFile(path string) (*MapStore, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewMapStore(nil), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

// SaveYAML writes the store as a flat YAML mapping with sorted keys
func SaveYAML(w io.Writer, s *MapStore) error {
	snapshot := s.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		var value yaml.Node
		v := snapshot[k]
		if set, ok := v.(map[string]struct{}); ok {
			v = sortedMembers(set)
		}
		if err := value.Encode(v); err != nil {
			return fmt.Errorf("encoding %s: %w", k, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &value)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	return enc.Close()
}

// SaveYAMLFile is SaveYAML into a file
func SaveYAMLFile(path string, s *MapStore) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := SaveYAML(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
