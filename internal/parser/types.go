package parser

import (
	gotypes "go/types"

	"git.weirdcat.su/weirdcat/valuegen/internal/types"
)

// describe converts a checked type into a structural descriptor.
// Shapes the generator cannot spell (generic instances, channels, arrays,
// non-empty structs and interfaces) become FormOther.
func describe(t gotypes.Type) types.TypeDescriptor {
	t = gotypes.Unalias(t)

	switch tt := t.(type) {
	case *gotypes.Basic:
		if tt.Kind() == gotypes.Invalid {
			return types.TypeDescriptor{Form: types.FormOther, Name: "invalid type"}
		}
		return types.Basic(tt.Name())

	case *gotypes.Named:
		if tt.TypeArgs().Len() > 0 {
			return types.TypeDescriptor{Form: types.FormOther, Name: tt.String()}
		}
		obj := tt.Obj()
		pkgPath := ""
		if obj.Pkg() != nil {
			pkgPath = obj.Pkg().Path()
		}
		return types.Named(pkgPath, obj.Name())

	case *gotypes.Pointer:
		return types.PointerTo(describe(tt.Elem()))

	case *gotypes.Slice:
		return types.SliceOf(describe(tt.Elem()))

	case *gotypes.Map:
		return types.MapOf(describe(tt.Key()), describe(tt.Elem()))

	case *gotypes.Struct:
		if tt.NumFields() == 0 {
			return types.EmptyStruct()
		}

	case *gotypes.Interface:
		if tt.Empty() {
			return types.TypeDescriptor{Form: types.FormInterface}
		}
	}

	return types.TypeDescriptor{Form: types.FormOther, Name: t.String()}
}

func isError(t gotypes.Type) bool {
	return gotypes.Identical(t, gotypes.Universe.Lookup("error").Type())
}
