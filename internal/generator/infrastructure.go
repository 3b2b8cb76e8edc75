package generator

import (
	"github.com/dave/jennifer/jen"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
)

// Header is the first line of every generated file
const Header = "// Code generated by valuegen. DO NOT EDIT."

// newFile creates the output file with the generated-code header and a
// build constraint that hides it from the generator's own type checking
func newFile(ref types.PackageRef) *jen.File {
	f := jen.NewFilePathName(ref.Path, ref.Name)
	f.HeaderComment(Header)
	f.HeaderComment("//go:build !" + config.BuildTag)

	f.ImportName(RowSourcePath, "rowsource")
	f.ImportName(PrefsPath, "prefs")
	f.ImportName(ParcelPath, "parcel")
	return f
}

// generateRegistrations registers every parcel creator of the file with
// the default loader
func generateRegistrations(f *jen.File, creators []string) {
	if len(creators) == 0 {
		return
	}

	stmts := make([]jen.Code, len(creators))
	for i, c := range creators {
		stmts[i] = jen.Qual(ParcelPath, "Register").Call(jen.Id(c))
	}

	f.Func().Id("init").Params().Block(stmts...)
	f.Line()
}
