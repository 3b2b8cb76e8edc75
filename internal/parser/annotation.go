package parser

import (
	"fmt"
	"go/ast"
	"reflect"
	"strings"

	"github.com/go-openapi/inflect"

	"git.weirdcat.su/weirdcat/valuegen/internal/types"
)

// Directives are the type-level options read from a struct's doc comment
type Directives struct {
	Parcelable  bool
	Values      string
	ValuesInto  string
	PrefsWriter string
}

// Any reports whether at least one directive is present
func (d Directives) Any() bool {
	return d.Parcelable || d.Values != "" || d.ValuesInto != "" || d.PrefsWriter != ""
}

// ExtractDirectives reads //valuegen: lines from the doc comment
func ExtractDirectives(doc *ast.CommentGroup) (Directives, error) {
	var d Directives
	if doc == nil {
		return d, nil
	}

	for _, comment := range doc.List {
		text := strings.TrimSpace(comment.Text)

		if strings.HasPrefix(text, "//") {
			text = strings.TrimSpace(text[2:])
		} else if strings.HasPrefix(text, "/*") && strings.HasSuffix(text, "*/") {
			text = strings.TrimSpace(text[2 : len(text)-2])
		}

		directive, ok := strings.CutPrefix(text, "valuegen:")
		if !ok {
			continue
		}

		name, value, _ := strings.Cut(directive, "=")
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(name) {
		case "parcelable":
			d.Parcelable = true
		case "values":
			d.Values = value
		case "values-into":
			d.ValuesInto = value
		case "prefs-writer":
			d.PrefsWriter = value
		default:
			return d, fmt.Errorf("unknown directive %q", text)
		}
	}

	if d.Values != "" && d.ValuesInto != "" {
		return d, fmt.Errorf("values and values-into are mutually exclusive")
	}
	return d, nil
}

// ParseTag parses the key option of a struct tag into annotations.
// Options are comma separated; default= consumes the rest of the tag so
// defaults may contain commas. A bare column or pref derives the key from
// the field name. The tag "-" yields no annotations.
func ParseTag(tag, key, fieldName string) (types.Annotations, error) {
	var ann types.Annotations

	value, ok := reflect.StructTag(tag).Lookup(key)
	if !ok || value == "-" {
		return ann, nil
	}

	var defaultValue *string
	for rest := value; rest != ""; {
		var part string
		if strings.HasPrefix(strings.TrimSpace(rest), "default=") {
			part, rest = strings.TrimSpace(rest), ""
		} else {
			part, rest, _ = strings.Cut(rest, ",")
			part = strings.TrimSpace(part)
		}
		if part == "" {
			continue
		}

		name, arg, hasArg := strings.Cut(part, "=")
		switch name {
		case "column":
			if arg == "" {
				arg = inflect.Underscore(fieldName)
			}
			ann.Column = &types.ColumnAnnotation{Key: arg}
		case "pref":
			if arg == "" {
				arg = inflect.Underscore(fieldName)
			}
			ann.Preference = &types.PreferenceAnnotation{Key: arg}
		case "default":
			defaultValue = &arg
		case "adapter":
			if !hasArg || arg == "" {
				return ann, fmt.Errorf("adapter needs a type name")
			}
			ann.Adapter = &types.AdapterAnnotation{TypeName: arg}
		default:
			return ann, fmt.Errorf("unknown option %q", name)
		}
	}

	if defaultValue != nil {
		if ann.Preference == nil {
			return ann, fmt.Errorf("default requires pref")
		}
		ann.Preference.DefaultValue = *defaultValue
	}
	return ann, nil
}
