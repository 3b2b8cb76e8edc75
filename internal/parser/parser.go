package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	gotypes "go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

// Parser extracts generation requests from one loaded package
type Parser struct {
	cfg      *config.Config
	pkg      *packages.Package
	external map[string]*gotypes.Package
	diags    validator.Diagnostics
}

// ParsePackage returns a request for every top-level struct that carries a
// directive or a tagged field, in source order, together with the
// problems found in tags and directives
func ParsePackage(pkg *packages.Package, cfg *config.Config) ([]*types.Request, validator.Diagnostics) {
	p := &Parser{
		cfg:      cfg,
		pkg:      pkg,
		external: make(map[string]*gotypes.Package),
	}

	var requests []*types.Request
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if _, ok := typeSpec.Type.(*ast.StructType); !ok {
					continue
				}

				doc := typeSpec.Doc
				if doc == nil && len(genDecl.Specs) == 1 {
					doc = genDecl.Doc
				}
				if req := p.parseType(typeSpec, doc); req != nil {
					requests = append(requests, req)
				}
			}
		}
	}

	logger.Verbose("Found %d value types in %s", len(requests), pkg.PkgPath)
	return requests, p.diags
}

func (p *Parser) parseType(typeSpec *ast.TypeSpec, doc *ast.CommentGroup) *types.Request {
	name := typeSpec.Name.Name

	directives, err := ExtractDirectives(doc)
	if err != nil {
		p.diags.Errorf(name, "", validator.CodeInvalidTag, "%v", err)
	}

	obj, ok := p.pkg.Types.Scope().Lookup(name).(*gotypes.TypeName)
	if !ok {
		return nil
	}
	named, ok := obj.Type().(*gotypes.Named)
	if !ok {
		return nil
	}
	st, ok := named.Underlying().(*gotypes.Struct)
	if !ok {
		return nil
	}

	props := parseFields(name, st, p.cfg.TagKey, &p.diags)
	req := &types.Request{
		Package:    Ref(p.pkg),
		TypeName:   name,
		Properties: props,
		Parcelable: directives.Parcelable,
	}
	if !directives.Any() && !req.HasAnnotation(func(a types.Annotations) bool { return !a.Empty() }) {
		return nil
	}

	if named.TypeParams().Len() > 0 {
		logger.Warning("Skipping generic type %s", name)
		return nil
	}

	switch {
	case directives.Values != "":
		req.RowValues = &types.OutputMethod{Name: directives.Values}
	case directives.ValuesInto != "":
		req.RowValues = &types.OutputMethod{Name: directives.ValuesInto, Mutating: true}
	}
	if directives.PrefsWriter != "" {
		req.PreferenceWriter = &types.OutputMethod{Name: directives.PrefsWriter, Mutating: true}
	}
	p.warnUnusedDirectives(req)

	for i := range req.Properties {
		ann := req.Properties[i].Annotations.Adapter
		if ann == nil {
			continue
		}
		if adapter := p.lookupAdapter(ann.TypeName); adapter != nil {
			ann.Type = adapterType(adapter)
		}
	}

	logger.Verbose("Parsed %s (%d properties)", name, len(props))
	logger.Dump(name, req)
	return req
}

// warnUnusedDirectives flags output methods that would have nothing to write
func (p *Parser) warnUnusedDirectives(req *types.Request) {
	if req.RowValues != nil && !req.HasAnnotation(func(a types.Annotations) bool { return a.Column != nil || a.Adapter != nil }) {
		p.diags.Add(validator.Diagnostic{
			Type:       req.TypeName,
			Code:       validator.CodeUnusedDirective,
			Message:    fmt.Sprintf("%s has no column or adapter fields; %s is not generated", req.TypeName, req.RowValues.Name),
			Severity:   validator.SeverityWarning,
			Suggestion: "Tag a field with column or adapter, or drop the values directive",
		})
	}
	if req.PreferenceWriter != nil && !req.HasAnnotation(func(a types.Annotations) bool { return a.Preference != nil }) {
		p.diags.Add(validator.Diagnostic{
			Type:       req.TypeName,
			Code:       validator.CodeUnusedDirective,
			Message:    fmt.Sprintf("%s has no pref fields; %s is not generated", req.TypeName, req.PreferenceWriter.Name),
			Severity:   validator.SeverityWarning,
			Suggestion: "Tag a field with pref, or drop the prefs-writer directive",
		})
	}
}

// lookupAdapter finds the named type referenced by an adapter annotation:
// Type in the current package, or pkg.Type where pkg is an import name, a
// configured alias, or an import path
func (p *Parser) lookupAdapter(ref string) *gotypes.Named {
	scope := p.pkg.Types.Scope()
	name := ref
	if i := strings.LastIndex(ref, "."); i >= 0 {
		pkg := p.importedPackage(ref[:i])
		if pkg == nil {
			return nil
		}
		scope, name = pkg.Scope(), ref[i+1:]
	}

	tn, ok := scope.Lookup(name).(*gotypes.TypeName)
	if !ok {
		return nil
	}
	named, _ := gotypes.Unalias(tn.Type()).(*gotypes.Named)
	return named
}

func (p *Parser) importedPackage(qualifier string) *gotypes.Package {
	path := qualifier
	aliased := false
	if ip, ok := p.cfg.ImportPath(qualifier); ok {
		path, aliased = ip, true
	}

	for _, imp := range p.pkg.Types.Imports() {
		if imp.Path() == path || (!aliased && imp.Name() == qualifier) {
			return imp
		}
	}

	if !aliased && !strings.ContainsAny(path, "/.") {
		return nil
	}
	if pkg, ok := p.external[path]; ok {
		return pkg
	}
	pkg, err := LoadExternalPackage(Ref(p.pkg).Dir, path)
	if err != nil {
		logger.Debug("Adapter package %s: %v", path, err)
	}
	p.external[path] = pkg
	return pkg
}
