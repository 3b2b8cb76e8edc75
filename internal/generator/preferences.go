package generator

import (
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"

	"git.weirdcat.su/weirdcat/valuegen/internal/classify"
	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/resolve"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

type prefAccessor struct {
	get string
	put string
}

var prefAccessors = map[classify.Kind]prefAccessor{
	classify.Boolean:   {"Bool", "PutBool"},
	classify.Float:     {"Float32", "PutFloat32"},
	classify.Int:       {"Int32", "PutInt32"},
	classify.Long:      {"Int64", "PutInt64"},
	classify.String:    {"String", "PutString"},
	classify.StringSet: {"StringSet", "PutStringSet"},
}

// preferencesSynthesizer emits the preference factory and optional writer
type preferencesSynthesizer struct {
	naming config.Naming
}

func (s *preferencesSynthesizer) Concern() string {
	return config.ConcernPreferences
}

func (s *preferencesSynthesizer) Applicable(req *types.Request) bool {
	return req.HasAnnotation(func(a types.Annotations) bool {
		return a.Preference != nil
	})
}

func (s *preferencesSynthesizer) Synthesize(req *types.Request, d *validator.Diagnostics) []jen.Code {
	var failed validator.Diagnostics
	locals := localNames(req, s.naming)

	var body []jen.Code
	args := make([]jen.Code, len(req.Properties))
	for i, p := range req.Properties {
		name := locals[i]
		args[i] = jen.Id(name)

		m := resolve.Preference(p)
		if m == nil {
			body = append(body, zeroLocal(name, p))
			continue
		}

		class := classify.Classify(p.Type)
		if !classify.SupportsPreference(class.Kind) {
			failed.Errorf(req.TypeName, p.Name, validator.CodeUnsupportedType,
				"%s cannot be stored as a preference", p.Type)
			continue
		}

		def, err := resolve.ParseDefault(class, m.DefaultValueLiteral)
		if err != nil {
			failed.Errorf(req.TypeName, p.Name, validator.CodeInvalidDefault,
				"default for %s: %v", m.ExternalKey, err)
			continue
		}

		body = append(body, jen.Id(name).Op(":=").Add(preferenceRead(m, class, def)))
	}

	for i := range failed.Errors {
		failed.Errors[i].Concern = s.Concern()
	}
	d.Merge(failed)
	if failed.HasErrors() {
		return nil
	}

	factory := s.naming.PreferencesFactoryName(req.TypeName)
	body = append(body, jen.Return(constructorCall(s.naming.ConstructorName(req.TypeName), args)))

	code := []jen.Code{
		jen.Comment(fmt.Sprintf("%s reads a %s from a preference store", factory, req.TypeName)).Line().
			Func().Id(factory).Params(jen.Id("p").Qual(PrefsPath, "Store")).
			Op("*").Id(req.TypeName).
			Block(body...),
	}

	if req.PreferenceWriter != nil {
		code = append(code, preferenceWriter(req))
	}
	return code
}

func preferenceRead(m *types.PreferenceMapping, class classify.Class, def any) jen.Code {
	key := jen.Lit(m.ExternalKey)
	getter := jen.Id("p").Dot(prefAccessors[class.Kind].get)

	if class.Boxed {
		if def == nil {
			return jen.Qual(PrefsPath, "Nullable").Call(jen.Id("p"), key, getter)
		}
		return jen.Qual(PrefsPath, "NullableOr").Call(jen.Id("p"), key, getter, literal(def))
	}
	return getter.Call(key, literal(def))
}

// literal renders a parsed default value
func literal(v any) jen.Code {
	switch t := v.(type) {
	case nil:
		return jen.Nil()
	case int64:
		return jen.Id(strconv.FormatInt(t, 10))
	case []string:
		members := make([]jen.Code, len(t))
		for i, m := range t {
			members[i] = jen.Lit(m)
		}
		return jen.Qual(PrefsPath, "Set").Call(members...)
	default:
		return jen.Lit(t)
	}
}

// preferenceWriter emits func (x *T) Method(e prefs.Editor). A nil boxed
// property removes its key.
func preferenceWriter(req *types.Request) jen.Code {
	var body []jen.Code
	for _, p := range req.Properties {
		m := resolve.Preference(p)
		if m == nil {
			continue
		}
		class := classify.Classify(p.Type)
		put := prefAccessors[class.Kind].put
		key := jen.Lit(m.ExternalKey)

		if class.Boxed {
			body = append(body, jen.If(field(p.Name).Op("!=").Nil()).Block(
				jen.Id("e").Dot(put).Call(key, jen.Op("*").Add(field(p.Name))),
			).Else().Block(
				jen.Id("e").Dot("Remove").Call(jen.Lit(m.ExternalKey)),
			))
			continue
		}
		body = append(body, jen.Id("e").Dot(put).Call(key, field(p.Name)))
	}

	name := req.PreferenceWriter.Name
	return jen.Comment(fmt.Sprintf("%s writes the preference mapped properties of x to e", name)).Line().
		Func().Params(jen.Id(receiver).Op("*").Id(req.TypeName)).Id(name).
		Params(jen.Id("e").Qual(PrefsPath, "Editor")).
		Block(body...)
}
