package generator

import (
	"github.com/dave/jennifer/jen"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
)

// generateConstructor emits the forwarding constructor shared by every
// concern: one parameter per property, assigned positionally
func generateConstructor(req *types.Request, naming config.Naming) jen.Code {
	name := naming.ConstructorName(req.TypeName)
	locals := localNames(req, naming)

	params := make([]jen.Code, len(req.Properties))
	fields := make([]jen.Code, len(req.Properties))
	for i, p := range req.Properties {
		params[i] = jen.Id(locals[i]).Add(typeCode(p.Type))
		fields[i] = jen.Id(p.Name).Op(":").Id(locals[i])
	}

	return jen.Func().Id(name).Params(params...).Op("*").Id(req.TypeName).Block(
		jen.Return(jen.Op("&").Id(req.TypeName).Values(fields...)),
	)
}

// constructorCall renders name(args...) with the given argument expressions
func constructorCall(name string, args []jen.Code) *jen.Statement {
	return jen.Id(name).Call(args...)
}
