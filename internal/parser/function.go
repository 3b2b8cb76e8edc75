package parser

import (
	gotypes "go/types"
	"sort"

	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
)

// adapterType collects the package-level functions of the adapter's
// package whose first result is T or *T, and the methods of *T, each in
// declaration order
func adapterType(named *gotypes.Named) *types.AdapterType {
	obj := named.Obj()
	at := &types.AdapterType{Type: describe(named)}

	if pkg := obj.Pkg(); pkg != nil {
		scope := pkg.Scope()
		var funcs []*gotypes.Func
		for _, name := range scope.Names() {
			if fn, ok := scope.Lookup(name).(*gotypes.Func); ok && constructs(fn, named) {
				funcs = append(funcs, fn)
			}
		}
		sortByPos(funcs)
		for _, fn := range funcs {
			at.Functions = append(at.Functions, signatureOf(fn, true))
		}
	}

	mset := gotypes.NewMethodSet(gotypes.NewPointer(named))
	methods := make([]*gotypes.Func, 0, mset.Len())
	for i := 0; i < mset.Len(); i++ {
		if fn, ok := mset.At(i).Obj().(*gotypes.Func); ok {
			methods = append(methods, fn)
		}
	}
	sortByPos(methods)
	for _, m := range methods {
		at.Methods = append(at.Methods, signatureOf(m, false))
	}

	logger.Debug("Adapter %s: %d functions, %d methods", at.Type, len(at.Functions), len(at.Methods))
	return at
}

// constructs reports whether fn returns named or a pointer to it
func constructs(fn *gotypes.Func, named *gotypes.Named) bool {
	results := fn.Type().(*gotypes.Signature).Results()
	if results.Len() == 0 {
		return false
	}
	t := gotypes.Unalias(results.At(0).Type())
	if ptr, ok := t.(*gotypes.Pointer); ok {
		t = gotypes.Unalias(ptr.Elem())
	}
	res, ok := t.(*gotypes.Named)
	return ok && res.Obj() == named.Obj()
}

func sortByPos(funcs []*gotypes.Func) {
	sort.SliceStable(funcs, func(i, j int) bool {
		if funcs[i].Pos() != funcs[j].Pos() {
			return funcs[i].Pos() < funcs[j].Pos()
		}
		return funcs[i].Name() < funcs[j].Name()
	})
}

// signatureOf flattens fn into a MethodSignature. Results other than
// T or (T, error) leave Result as FormOther so no resolver matches them.
func signatureOf(fn *gotypes.Func, static bool) types.MethodSignature {
	sig := fn.Type().(*gotypes.Signature)
	ms := types.MethodSignature{Name: fn.Name(), Static: static}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		ms.Params = append(ms.Params, describe(params.At(i).Type()))
	}
	if sig.Variadic() || sig.TypeParams().Len() > 0 {
		ms.Result = types.TypeDescriptor{Form: types.FormOther, Name: "variadic or generic"}
		return ms
	}

	results := sig.Results()
	switch {
	case results.Len() == 1:
		ms.Result = describe(results.At(0).Type())
	case results.Len() == 2 && isError(results.At(1).Type()):
		ms.Result = describe(results.At(0).Type())
		ms.ReturnsError = true
	default:
		ms.Result = types.TypeDescriptor{Form: types.FormOther, Name: sig.String()}
	}
	return ms
}
