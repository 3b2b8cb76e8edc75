package generator

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

// parcelSynthesizer implements parcel.Parcelable for the value type and
// declares its creator
type parcelSynthesizer struct {
	naming config.Naming
}

func (s *parcelSynthesizer) Concern() string {
	return config.ConcernParcel
}

func (s *parcelSynthesizer) Applicable(req *types.Request) bool {
	return req.Parcelable
}

func (s *parcelSynthesizer) Synthesize(req *types.Request, _ *validator.Diagnostics) []jen.Code {
	recv := jen.Id(receiver).Op("*").Id(req.TypeName)

	describe := jen.Func().Params(recv.Clone()).Id("DescribeContents").Params().Int().Block(
		jen.Return(jen.Lit(0)),
	)

	var writes []jen.Code
	for _, p := range req.Properties {
		writes = append(writes, jen.If(
			jen.Err().Op(":=").Id("dest").Dot("WriteValue").Call(field(p.Name)),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(fmt.Sprintf("writing %s: %%w", p.Name)), jen.Err())),
		))
	}
	writes = append(writes, jen.Return(jen.Nil()))

	write := jen.Func().Params(recv.Clone()).Id("WriteToParcel").
		Params(jen.Id("dest").Op("*").Qual(ParcelPath, "Parcel"), jen.Id("flags").Int()).
		Error().
		Block(writes...)

	creator := s.naming.CreatorName(req.TypeName)
	ptr := jen.Op("*").Id(req.TypeName)

	return []jen.Code{
		describe,
		write,
		jen.Comment(fmt.Sprintf("%s reconstructs %s values written with WriteToParcel", creator, req.TypeName)).Line().
			Var().Id(creator).Op("=").Qual(ParcelPath, "Creator").Types(ptr.Clone()).Values(
			jen.Line().Id("CreateFromParcel").Op(":").Func().
				Params(jen.Id("in").Op("*").Qual(ParcelPath, "Parcel")).
				Params(ptr.Clone(), jen.Error()).
				Block(s.createBody(req)...),
			jen.Line().Id("NewArray").Op(":").Func().
				Params(jen.Id("size").Int()).
				Index().Add(ptr.Clone()).
				Block(jen.Return(jen.Make(jen.Index().Add(ptr.Clone()), jen.Id("size")))),
			jen.Line(),
		),
	}
}

func (s *parcelSynthesizer) createBody(req *types.Request) []jen.Code {
	locals := localNames(req, s.naming)

	var body []jen.Code
	if len(req.Properties) > 0 {
		body = append(body, jen.Id("loader").Op(":=").Qual(ParcelPath, "DefaultLoader"))
	}

	args := make([]jen.Code, len(req.Properties))
	for i, p := range req.Properties {
		args[i] = jen.Id(locals[i])
		body = append(body,
			jen.List(jen.Id(locals[i]), jen.Err()).Op(":=").
				Qual(ParcelPath, "ReadValue").Types(typeCode(p.Type)).Call(jen.Id("in"), jen.Id("loader")),
			ifErrReturn(jen.Nil(), fmt.Sprintf("reading %s: %%w", p.Name)),
		)
	}

	body = append(body, jen.Return(constructorCall(s.naming.ConstructorName(req.TypeName), args), jen.Nil()))
	return body
}
