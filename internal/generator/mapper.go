package generator

import (
	"go/token"
	gotypes "go/types"
	"path"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/resolve"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
)

// Runtime import paths referenced by generated code
const (
	RowSourcePath = resolve.RowSourcePath
	PrefsPath     = "git.weirdcat.su/weirdcat/valuegen/prefs"
	ParcelPath    = "git.weirdcat.su/weirdcat/valuegen/parcel"
)

// receiver is the receiver name of generated methods
const receiver = "x"

// Identifiers generated bodies declare or reference besides property locals
var reserved = map[string]bool{
	"row": true, "err": true, "fmt": true, "values": true,
	"in": true, "loader": true, "p": true, "e": true,
	"dest": true, "flags": true, "size": true,
	"rowsource": true, "prefs": true, "parcel": true,
}

// localNames returns one local identifier per property, in request order.
// Collisions with keywords, predeclared identifiers, reserved names,
// imported package names, and package-level names the generated bodies
// refer to are resolved by appending an underscore.
func localNames(req *types.Request, naming config.Naming) []string {
	taken := map[string]bool{
		req.TypeName:                                true,
		naming.ConstructorName(req.TypeName):        true,
		naming.RowFactoryName(req.TypeName):         true,
		naming.PreferencesFactoryName(req.TypeName): true,
		naming.CreatorName(req.TypeName):            true,
	}
	self := req.Package.Path
	for _, p := range req.Properties {
		collectNames(p.Type, self, taken)
		if ann := p.Annotations.Adapter; ann != nil && ann.Type != nil {
			collectNames(ann.Type.Type, self, taken)
			if local(ann.Type.Type, self) {
				for _, fn := range ann.Type.Functions {
					taken[fn.Name] = true
				}
			}
		}
	}

	names := make([]string, len(req.Properties))
	for i, p := range req.Properties {
		name := lowerCamel(p.Name)
		for reserved[name] || taken[name] || token.IsKeyword(name) || gotypes.Universe.Lookup(name) != nil {
			name += "_"
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// collectNames records the identifiers t is spelled with: the import
// name of foreign packages and the bare name of types declared in self
func collectNames(t types.TypeDescriptor, self string, into map[string]bool) {
	if t.Form == types.FormNamed {
		if local(t, self) {
			into[t.Name] = true
		} else {
			into[guessAlias(t.PkgPath)] = true
		}
	}
	if t.Elem != nil {
		collectNames(*t.Elem, self, into)
	}
	if t.Key != nil {
		collectNames(*t.Key, self, into)
	}
}

func local(t types.TypeDescriptor, self string) bool {
	for t.Form == types.FormPointer && t.Elem != nil {
		t = *t.Elem
	}
	return t.PkgPath == "" || t.PkgPath == self
}

// guessAlias approximates the import name jennifer picks for a path
func guessAlias(pkgPath string) string {
	alias := strings.ToLower(path.Base(pkgPath))
	alias = strings.TrimPrefix(alias, "go-")
	if i := strings.Index(alias, "."); i > 0 {
		alias = alias[:i]
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, alias)
}

// lowerCamel lowers the leading upper-case run of name, keeping the last
// letter of a longer run when it starts the next word (URLPath -> urlPath)
func lowerCamel(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n == len(runes):
		return strings.ToLower(name)
	case n > 1:
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// typeCode renders a descriptor as a jennifer type expression
func typeCode(t types.TypeDescriptor) *jen.Statement {
	switch t.Form {
	case types.FormBasic:
		return jen.Id(t.Name)
	case types.FormNamed:
		if t.PkgPath == "" {
			return jen.Id(t.Name)
		}
		return jen.Qual(t.PkgPath, t.Name)
	case types.FormPointer:
		return jen.Op("*").Add(typeCode(*t.Elem))
	case types.FormSlice:
		return jen.Index().Add(typeCode(*t.Elem))
	case types.FormMap:
		return jen.Map(typeCode(*t.Key)).Add(typeCode(*t.Elem))
	case types.FormEmptyStruct:
		return jen.Struct()
	case types.FormInterface:
		return jen.Interface()
	default:
		return jen.Id(t.Name)
	}
}

// qualFunc references a package-level function declared next to t
func qualFunc(t types.TypeDescriptor, name string) *jen.Statement {
	for t.Form == types.FormPointer && t.Elem != nil {
		t = *t.Elem
	}
	if t.PkgPath == "" {
		return jen.Id(name)
	}
	return jen.Qual(t.PkgPath, name)
}

// ifErrReturn renders: if err != nil { return <zero>, fmt.Errorf(format, args..., err) }
func ifErrReturn(zero jen.Code, format string, args ...jen.Code) jen.Code {
	callArgs := append([]jen.Code{jen.Lit(format)}, args...)
	callArgs = append(callArgs, jen.Err())
	return jen.If(jen.Err().Op("!=").Nil()).Block(
		jen.Return(zero, jen.Qual("fmt", "Errorf").Call(callArgs...)),
	)
}

func field(name string) *jen.Statement {
	return jen.Id(receiver).Dot(name)
}

// convert renders the conversion t(expr)
func convert(t types.TypeDescriptor, expr jen.Code) *jen.Statement {
	if t.Form == types.FormPointer {
		return jen.Parens(typeCode(t)).Parens(expr)
	}
	return typeCode(t).Parens(expr)
}

// zeroLocal declares name with the zero value of the property type
func zeroLocal(name string, p types.Property) jen.Code {
	return jen.Var().Id(name).Add(typeCode(p.Type))
}
