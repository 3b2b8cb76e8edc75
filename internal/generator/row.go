package generator

import (
	"errors"
	"fmt"

	"github.com/dave/jennifer/jen"

	"git.weirdcat.su/weirdcat/valuegen/internal/classify"
	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/resolve"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

var rowAccessors = map[classify.Kind]string{
	classify.ByteArray: "Blob",
	classify.Double:    "Float64",
	classify.Float:     "Float32",
	classify.Int:       "Int32",
	classify.Long:      "Int64",
	classify.Short:     "Int16",
	classify.String:    "String",
}

// rowSynthesizer emits the row factory and the optional values serializer
type rowSynthesizer struct {
	naming config.Naming
}

func (s *rowSynthesizer) Concern() string {
	return config.ConcernRow
}

func (s *rowSynthesizer) Applicable(req *types.Request) bool {
	return req.HasAnnotation(func(a types.Annotations) bool {
		return a.Column != nil || a.Adapter != nil
	})
}

func (s *rowSynthesizer) Synthesize(req *types.Request, d *validator.Diagnostics) []jen.Code {
	var failed validator.Diagnostics
	locals := localNames(req, s.naming)
	bindings := make([]*types.AdapterBinding, len(req.Properties))

	var body []jen.Code
	args := make([]jen.Code, len(req.Properties))
	for i, p := range req.Properties {
		name := locals[i]
		args[i] = jen.Id(name)

		switch {
		case p.Annotations.Adapter != nil:
			b, err := resolve.Adapter(p, req.RowValues != nil)
			if err != nil {
				failed.Add(resolveDiagnostic(err, req.TypeName, p.Name, s.Concern()))
				continue
			}
			bindings[i] = b
			body = append(body, adapterRead(name, b)...)
			if !b.Factory.Result.Equal(p.Type) {
				args[i] = convert(p.Type, jen.Id(name))
			}

		case p.Annotations.Column != nil:
			class := classify.Classify(p.Type)
			if !classify.SupportsRow(class.Kind) {
				failed.Errorf(req.TypeName, p.Name, validator.CodeUnsupportedType,
					"%s cannot be read from a row", p.Type)
				continue
			}
			body = append(body, columnRead(name, resolve.Column(p), class)...)

		default:
			body = append(body, zeroLocal(name, p))
		}
	}

	for i := range failed.Errors {
		failed.Errors[i].Concern = s.Concern()
	}
	d.Merge(failed)
	if failed.HasErrors() {
		return nil
	}

	factory := s.naming.RowFactoryName(req.TypeName)
	body = append(body, jen.Return(constructorCall(s.naming.ConstructorName(req.TypeName), args), jen.Nil()))

	code := []jen.Code{
		jen.Comment(fmt.Sprintf("%s materializes a %s from the current row", factory, req.TypeName)).Line().
			Func().Id(factory).Params(jen.Id("row").Qual(RowSourcePath, "Row")).
			Params(jen.Op("*").Id(req.TypeName), jen.Error()).
			Block(body...),
	}

	if req.RowValues != nil {
		code = append(code, rowValues(req, bindings))
	}
	return code
}

func columnRead(name string, m *types.ColumnMapping, class classify.Class) []jen.Code {
	accessor := jen.Id("row").Dot(rowAccessors[class.Kind])

	var read jen.Code
	if class.Boxed {
		read = jen.Qual(RowSourcePath, "Nullable").Call(jen.Id("row"), jen.Lit(m.ExternalKey), accessor)
	} else {
		read = accessor.Call(jen.Lit(m.ExternalKey))
	}

	return []jen.Code{
		jen.List(jen.Id(name), jen.Err()).Op(":=").Add(read),
		ifErrReturn(jen.Nil(), "reading column %q: %w", jen.Lit(m.ExternalKey)),
	}
}

func adapterRead(name string, b *types.AdapterBinding) []jen.Code {
	call := qualFunc(b.AdapterType, b.Factory.Name).Call(jen.Id("row"))
	if !b.Factory.ReturnsError {
		return []jen.Code{jen.Id(name).Op(":=").Add(call)}
	}
	return []jen.Code{
		jen.List(jen.Id(name), jen.Err()).Op(":=").Add(call),
		ifErrReturn(jen.Nil(), fmt.Sprintf("adapting %s: %%w", b.Property.Name)),
	}
}

// rowValues emits the serializer requested with a values or values-into
// directive. Capacity counts column mapped properties only.
func rowValues(req *types.Request, bindings []*types.AdapterBinding) jen.Code {
	method := req.RowValues
	capacity := 0
	for _, p := range req.Properties {
		if p.Annotations.Column != nil && p.Annotations.Adapter == nil {
			capacity++
		}
	}
	alloc := jen.Make(jen.Qual(RowSourcePath, "Values"), jen.Lit(capacity))

	var body []jen.Code
	if method.Mutating {
		body = append(body, jen.If(jen.Id("values").Op("==").Nil()).Block(
			jen.Id("values").Op("=").Add(alloc),
		))
	} else {
		body = append(body, jen.Id("values").Op(":=").Add(alloc))
	}

	for i, p := range req.Properties {
		switch {
		case bindings[i] != nil:
			if b := bindings[i]; b.Serializer != nil {
				body = append(body, adapterWrite(b))
			}
		case p.Annotations.Column != nil:
			body = append(body, jen.Id("values").Dot("Put").Call(jen.Lit(p.Annotations.Column.Key), field(p.Name)))
		}
	}
	body = append(body, jen.Return(jen.Id("values")))

	var params []jen.Code
	if method.Mutating {
		params = append(params, jen.Id("values").Qual(RowSourcePath, "Values"))
	}

	return jen.Comment(fmt.Sprintf("%s returns the column values of x", method.Name)).Line().
		Func().Params(jen.Id(receiver).Op("*").Id(req.TypeName)).Id(method.Name).
		Params(params...).Qual(RowSourcePath, "Values").
		Block(body...)
}

// adapterWrite invokes the adapter serializer on the property. A property
// whose type is not the adapter type is converted through a pointer, which
// requires both to share an underlying type.
func adapterWrite(b *types.AdapterBinding) jen.Code {
	recv := field(b.Property.Name)
	declared := b.Property.Type
	if !declared.Equal(b.AdapterType) && !declared.Equal(types.PointerTo(b.AdapterType)) {
		recv = jen.Parens(jen.Op("*").Add(typeCode(b.AdapterType))).Parens(jen.Op("&").Add(field(b.Property.Name)))
	}

	if b.MutatingSerializer() {
		return recv.Dot(b.Serializer.Name).Call(jen.Id("values"))
	}
	return jen.Id("values").Dot("PutAll").Call(recv.Dot(b.Serializer.Name).Call())
}

func resolveDiagnostic(err error, typeName, property, concern string) validator.Diagnostic {
	var rerr *resolve.Error
	if errors.As(err, &rerr) {
		return rerr.Diagnostic(typeName, property, concern)
	}
	return validator.Diagnostic{
		Type:     typeName,
		Property: property,
		Concern:  concern,
		Code:     validator.CodeAdapterUnresolved,
		Message:  err.Error(),
		Severity: validator.SeverityError,
	}
}
