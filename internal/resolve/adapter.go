package resolve

import (
	"fmt"

	"git.weirdcat.su/weirdcat/valuegen/internal/types"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

// RowSourcePath is the import path of the runtime row package
const RowSourcePath = "git.weirdcat.su/weirdcat/valuegen/rowsource"

var (
	// RowType is the row source handle adapter factories receive
	RowType = types.Named(RowSourcePath, "Row")
	// ValuesType is the output container adapter serializers produce
	ValuesType = types.Named(RowSourcePath, "Values")
)

// Error is a resolution failure carrying a diagnostic code
type Error struct {
	Code       string
	Message    string
	Suggestion string
}

func (e *Error) Error() string {
	return e.Message
}

// Diagnostic converts e into a diagnostic for typeName.property
func (e *Error) Diagnostic(typeName, property, concern string) validator.Diagnostic {
	return validator.Diagnostic{
		Type:       typeName,
		Property:   property,
		Concern:    concern,
		Code:       e.Code,
		Message:    e.Message,
		Severity:   validator.SeverityError,
		Suggestion: e.Suggestion,
	}
}

func factoryResults(adapter, declared types.TypeDescriptor) string {
	if declared.Equal(types.PointerTo(adapter)) {
		return fmt.Sprintf("%s or %s", adapter, declared)
	}
	return adapter.String()
}

// Adapter resolves the factory and, when wantSerializer is set, the
// serializer of the adapter bound to p. Lookup is by shape only: the first
// match in declaration order wins regardless of its name.
func Adapter(p types.Property, wantSerializer bool) (*types.AdapterBinding, error) {
	ann := p.Annotations.Adapter
	if ann == nil {
		return nil, nil
	}
	if ann.Type == nil {
		return nil, &Error{
			Code:       validator.CodeAdapterUnresolved,
			Message:    fmt.Sprintf("Failed to find adapter type %s", ann.TypeName),
			Suggestion: "Declare the adapter in the same package or qualify it as path/to/pkg.Type",
		}
	}

	adapter := ann.Type
	factory, ok := findFactory(adapter, p.Type)
	if !ok {
		return nil, &Error{
			Code: validator.CodeAdapterFactory,
			Message: fmt.Sprintf("Adapter %s has no package-level function taking a %s and returning %s",
				adapter.Type, RowType, factoryResults(adapter.Type, p.Type)),
			Suggestion: fmt.Sprintf("Add func(row rowsource.Row) (%s, error) to the adapter's package", adapter.Type.Name),
		}
	}

	binding := &types.AdapterBinding{
		Property:    p,
		AdapterType: adapter.Type,
		Factory:     factory,
	}

	if wantSerializer {
		serializer, ok := findSerializer(adapter)
		if !ok {
			return nil, &Error{
				Code:       validator.CodeAdapterSerializer,
				Message:    fmt.Sprintf("Adapter %s has no method returning %s", adapter.Type, ValuesType),
				Suggestion: "Add a method with signature () rowsource.Values or (rowsource.Values) rowsource.Values",
			}
		}
		binding.Serializer = &serializer
	}

	return binding, nil
}

// findFactory only considers functions tied to the adapter by their
// result, T or *T, the way go/doc groups constructors under a type
func findFactory(adapter *types.AdapterType, declared types.TypeDescriptor) (types.MethodSignature, bool) {
	ptr := types.PointerTo(adapter.Type)
	for _, fn := range adapter.Functions {
		if !fn.Static || len(fn.Params) != 1 || !fn.Params[0].Equal(RowType) {
			continue
		}
		if !fn.Result.Equal(adapter.Type) && !fn.Result.Equal(ptr) {
			continue
		}
		if fn.Result.Equal(adapter.Type) || fn.Result.Equal(declared) {
			return fn, true
		}
	}
	return types.MethodSignature{}, false
}

func findSerializer(adapter *types.AdapterType) (types.MethodSignature, bool) {
	for _, m := range adapter.Methods {
		if m.Static || m.ReturnsError || !m.Result.Equal(ValuesType) {
			continue
		}
		switch {
		case len(m.Params) == 0:
			return m, true
		case len(m.Params) == 1 && m.Params[0].Equal(ValuesType):
			return m, true
		}
	}
	return types.MethodSignature{}, false
}
