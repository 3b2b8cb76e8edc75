// Package resolve decides how each property of a request participates in
// a concern: through a column, a preference key, an adapter, or not at all.
package resolve

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"git.weirdcat.su/weirdcat/valuegen/internal/classify"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
)

// Column returns the column mapping of p, or nil when p is not column mapped
func Column(p types.Property) *types.ColumnMapping {
	if p.Annotations.Column == nil {
		return nil
	}
	return &types.ColumnMapping{Property: p, ExternalKey: p.Annotations.Column.Key}
}

// Preference returns the preference mapping of p, or nil when p is not
// preference mapped. An empty default is replaced with the zero literal
// of the property's kind; boxed kinds keep it empty (absent).
func Preference(p types.Property) *types.PreferenceMapping {
	if p.Annotations.Preference == nil {
		return nil
	}
	return &types.PreferenceMapping{
		Property:            p,
		ExternalKey:         p.Annotations.Preference.Key,
		DefaultValueLiteral: DefaultLiteral(classify.Classify(p.Type), p.Annotations.Preference.DefaultValue),
	}
}

// DefaultLiteral substitutes the zero literal for an empty raw default
func DefaultLiteral(class classify.Class, raw string) string {
	if raw != "" || class.Boxed {
		return raw
	}
	return classify.ZeroLiteral(class.Kind)
}

// ParseDefault parses a default literal according to class. The result is
// a bool, float64, int64, string, []string (sorted set members), or nil for
// an absent default.
func ParseDefault(class classify.Class, literal string) (any, error) {
	if literal == "" && (class.Boxed || classify.IsReference(class.Kind)) {
		if class.Kind == classify.String && !class.Boxed {
			return "", nil
		}
		return nil, nil
	}

	switch class.Kind {
	case classify.Boolean:
		v, err := strconv.ParseBool(literal)
		if err != nil {
			return nil, fmt.Errorf("parsing %q as bool: %w", literal, err)
		}
		return v, nil
	case classify.Float:
		v, err := strconv.ParseFloat(literal, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing %q as float32: %w", literal, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%q is not a finite float32", literal)
		}
		// Round-trip through the shortest float32 spelling to avoid
		// widening noise such as 0.10000000149011612.
		return strconv.ParseFloat(strconv.FormatFloat(v, 'g', -1, 32), 64)
	case classify.Int:
		v, err := strconv.ParseInt(literal, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing %q as int32: %w", literal, err)
		}
		return v, nil
	case classify.Long:
		v, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q as int64: %w", literal, err)
		}
		return v, nil
	case classify.String:
		return literal, nil
	case classify.StringSet:
		return parseSet(literal), nil
	default:
		return nil, fmt.Errorf("no default literal for kind %s", class.Kind)
	}
}

func parseSet(literal string) []string {
	seen := make(map[string]bool)
	var members []string
	for _, m := range strings.Split(literal, ",") {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}
