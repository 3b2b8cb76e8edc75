package types

import "strings"

// Form is the structural shape of a TypeDescriptor
type Form int

const (
	FormOther Form = iota
	FormBasic
	FormNamed
	FormPointer
	FormSlice
	FormMap
	FormEmptyStruct
	FormInterface
)

// TypeDescriptor describes a declared Go type structurally.
// Basic types carry only Name, named types carry PkgPath and Name,
// pointers and slices carry Elem, maps carry Key and Elem.
type TypeDescriptor struct {
	Form    Form
	PkgPath string
	Name    string
	Elem    *TypeDescriptor
	Key     *TypeDescriptor
}

// Basic returns the descriptor of a predeclared type such as int32
func Basic(name string) TypeDescriptor {
	return TypeDescriptor{Form: FormBasic, Name: name}
}

// Named returns the descriptor of a named type declared in pkgPath
func Named(pkgPath, name string) TypeDescriptor {
	return TypeDescriptor{Form: FormNamed, PkgPath: pkgPath, Name: name}
}

// PointerTo returns the descriptor of *elem
func PointerTo(elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Form: FormPointer, Elem: &elem}
}

// SliceOf returns the descriptor of []elem
func SliceOf(elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Form: FormSlice, Elem: &elem}
}

// MapOf returns the descriptor of map[key]elem
func MapOf(key, elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Form: FormMap, Key: &key, Elem: &elem}
}

// EmptyStruct returns the descriptor of struct{}
func EmptyStruct() TypeDescriptor {
	return TypeDescriptor{Form: FormEmptyStruct}
}

// IsZero reports whether the descriptor was never set
func (t TypeDescriptor) IsZero() bool {
	return t.Form == FormOther && t.Name == "" && t.Elem == nil && t.Key == nil
}

// Equal reports structural identity
func (t TypeDescriptor) Equal(other TypeDescriptor) bool {
	if t.Form != other.Form || t.PkgPath != other.PkgPath || t.Name != other.Name {
		return false
	}
	if !equalPtr(t.Elem, other.Elem) {
		return false
	}
	return equalPtr(t.Key, other.Key)
}

func equalPtr(a, b *TypeDescriptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// String renders the Go spelling with full package paths
func (t TypeDescriptor) String() string {
	switch t.Form {
	case FormBasic:
		return t.Name
	case FormNamed:
		if t.PkgPath == "" {
			return t.Name
		}
		return t.PkgPath + "." + t.Name
	case FormPointer:
		return "*" + t.Elem.String()
	case FormSlice:
		return "[]" + t.Elem.String()
	case FormMap:
		return "map[" + t.Key.String() + "]" + t.Elem.String()
	case FormEmptyStruct:
		return "struct{}"
	case FormInterface:
		return "any"
	default:
		return t.Name
	}
}

// ShortString renders the type relative to the package at pkgPath
func (t TypeDescriptor) ShortString(pkgPath string) string {
	s := t.String()
	if pkgPath != "" {
		s = strings.ReplaceAll(s, pkgPath+".", "")
	}
	return s
}

// ColumnAnnotation opts a property into row mapping
type ColumnAnnotation struct {
	Key string
}

// PreferenceAnnotation opts a property into preference mapping.
// An empty DefaultValue means the zero value of the property's kind.
type PreferenceAnnotation struct {
	Key          string
	DefaultValue string
}

// AdapterAnnotation delegates conversion of a property to an adapter type.
// Type is nil when the referenced type could not be located.
type AdapterAnnotation struct {
	TypeName string
	Type     *AdapterType
}

// Annotations is the set of valuegen annotations attached to a property
type Annotations struct {
	Column     *ColumnAnnotation
	Preference *PreferenceAnnotation
	Adapter    *AdapterAnnotation
}

// Empty reports whether no annotation is present
func (a Annotations) Empty() bool {
	return a.Column == nil && a.Preference == nil && a.Adapter == nil
}

// Property is one field of a value type
type Property struct {
	Name        string
	Type        TypeDescriptor
	Annotations Annotations
}

// MethodSignature describes a function or method of an adapter type.
// Static functions are package-level functions of the adapter's package.
type MethodSignature struct {
	Name         string
	Static       bool
	Params       []TypeDescriptor
	Result       TypeDescriptor
	ReturnsError bool
}

// AdapterType lists the candidate functions and methods of an adapter
// in declaration order
type AdapterType struct {
	Type      TypeDescriptor
	Functions []MethodSignature
	Methods   []MethodSignature
}

// ColumnMapping binds a property to a column
type ColumnMapping struct {
	Property    Property
	ExternalKey string
}

// PreferenceMapping binds a property to a preference key
type PreferenceMapping struct {
	Property            Property
	ExternalKey         string
	DefaultValueLiteral string
}

// AdapterBinding binds a property to the resolved functions of its adapter
type AdapterBinding struct {
	Property    Property
	AdapterType TypeDescriptor
	Factory     MethodSignature
	Serializer  *MethodSignature
}

// MutatingSerializer reports whether the serializer writes into a
// caller supplied container
func (b AdapterBinding) MutatingSerializer() bool {
	return b.Serializer != nil && len(b.Serializer.Params) == 1
}

// PackageRef identifies the package a request's type is declared in
type PackageRef struct {
	Path string
	Name string
	Dir  string
}

// OutputMethod is a serialization method requested by the value type.
// Mutating methods receive the container and allocate it when nil.
type OutputMethod struct {
	Name     string
	Mutating bool
}

// Request is everything needed to generate code for one value type
type Request struct {
	Package          PackageRef
	TypeName         string
	Properties       []Property
	Parcelable       bool
	RowValues        *OutputMethod
	PreferenceWriter *OutputMethod
}

// Type returns the descriptor of the requested value type
func (r *Request) Type() TypeDescriptor {
	return Named(r.Package.Path, r.TypeName)
}

// HasAnnotation reports whether any property matches the predicate
func (r *Request) HasAnnotation(match func(Annotations) bool) bool {
	for _, p := range r.Properties {
		if match(p.Annotations) {
			return true
		}
	}
	return false
}
