// Package classify maps declared property types onto the finite set of
// kinds the synthesizers know how to read and write.
package classify

import "git.weirdcat.su/weirdcat/valuegen/internal/types"

//go:generate go tool stringer -type=Kind

// Kind is the supported shape of a property type
type Kind int

const (
	Unsupported Kind = iota
	Boolean
	Int
	Long
	Short
	Float
	Double
	ByteArray
	String
	StringSet
	Custom
)

// Class is the result of classifying a type. Boxed marks the nullable
// (pointer) variant of a value kind.
type Class struct {
	Kind  Kind
	Boxed bool
}

var basicKinds = map[string]Kind{
	"bool":    Boolean,
	"int32":   Int,
	"int64":   Long,
	"int16":   Short,
	"float32": Float,
	"float64": Double,
	"string":  String,
}

// Classify returns the kind of a declared type. It looks only at the
// structure of the descriptor.
func Classify(t types.TypeDescriptor) Class {
	switch t.Form {
	case types.FormBasic:
		if k, ok := basicKinds[t.Name]; ok {
			return Class{Kind: k}
		}
		return Class{Kind: Unsupported}
	case types.FormPointer:
		if t.Elem != nil && t.Elem.Form == types.FormBasic {
			if k, ok := basicKinds[t.Elem.Name]; ok {
				return Class{Kind: k, Boxed: true}
			}
		}
		if t.Elem != nil && t.Elem.Form == types.FormNamed {
			return Class{Kind: Custom}
		}
		return Class{Kind: Unsupported}
	case types.FormSlice:
		if isByte(t.Elem) {
			return Class{Kind: ByteArray}
		}
		return Class{Kind: Unsupported}
	case types.FormMap:
		if isStringSet(t) {
			return Class{Kind: StringSet}
		}
		return Class{Kind: Unsupported}
	case types.FormNamed:
		return Class{Kind: Custom}
	default:
		return Class{Kind: Unsupported}
	}
}

func isByte(t *types.TypeDescriptor) bool {
	return t != nil && t.Form == types.FormBasic && (t.Name == "byte" || t.Name == "uint8")
}

func isStringSet(t types.TypeDescriptor) bool {
	return t.Key != nil && t.Key.Form == types.FormBasic && t.Key.Name == "string" &&
		t.Elem != nil && t.Elem.Form == types.FormEmptyStruct
}

// SupportsRow reports whether the row synthesizer can read and write kind
func SupportsRow(k Kind) bool {
	switch k {
	case ByteArray, Double, Float, Int, Long, Short, String:
		return true
	}
	return false
}

// SupportsPreference reports whether the preference synthesizer can read
// and write kind
func SupportsPreference(k Kind) bool {
	switch k {
	case Boolean, Float, Int, Long, String, StringSet:
		return true
	}
	return false
}

// ZeroLiteral returns the textual zero value of a kind. Reference kinds
// have no literal and return "".
func ZeroLiteral(k Kind) string {
	switch k {
	case Boolean:
		return "false"
	case Int, Long, Short:
		return "0"
	case Float, Double:
		return "0.0"
	}
	return ""
}

// IsReference reports whether the zero value of kind is the absent value
func IsReference(k Kind) bool {
	switch k {
	case ByteArray, String, StringSet, Custom, Unsupported:
		return true
	}
	return false
}
