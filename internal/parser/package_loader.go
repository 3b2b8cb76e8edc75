package parser

import (
	"fmt"
	gotypes "go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// LoadPackages loads and type checks the packages matching patterns,
// relative to dir. Type errors are logged; a package is dropped only when
// it could not be checked at all.
func LoadPackages(dir string, patterns ...string) ([]*packages.Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	logger.Debug("Invoking packages.Load for: %s", strings.Join(patterns, " "))
	pkgs, err := packages.Load(&packages.Config{
		Mode:       loadMode,
		Dir:        dir,
		BuildFlags: []string{"-tags=" + config.BuildTag},
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	var loaded []*packages.Package
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			logger.Warning("%s: %s", pkg.PkgPath, e.Error())
		}
		if pkg.Types == nil || len(pkg.Syntax) == 0 {
			logger.Warning("Skipping %s: no type information", pkg.PkgPath)
			continue
		}
		logger.Debug("Package loaded: %s (files: %d)", pkg.PkgPath, len(pkg.Syntax))
		loaded = append(loaded, pkg)
	}

	if len(loaded) == 0 {
		return nil, fmt.Errorf("no packages found for: %s", strings.Join(patterns, " "))
	}
	return loaded, nil
}

// LoadExternalPackage loads the types of a package that is not imported by
// the package being generated, for adapters referenced by import path.
// The path is resolved from dir, the generated package's directory, so the
// same module and build tag apply.
func LoadExternalPackage(dir, importPath string) (*gotypes.Package, error) {
	logger.Debug("Loading package via go/packages: %s (from %s)", importPath, dir)

	pkgs, err := packages.Load(&packages.Config{
		Mode:       packages.NeedName | packages.NeedTypes,
		Dir:        dir,
		BuildFlags: []string{"-tags=" + config.BuildTag},
	}, importPath)
	if err != nil {
		return nil, fmt.Errorf("loading package %s: %w", importPath, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for import path: %s", importPath)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		var errMsgs []string
		for _, e := range pkg.Errors {
			errMsgs = append(errMsgs, e.Error())
		}
		return nil, fmt.Errorf("package errors: %s", strings.Join(errMsgs, "; "))
	}
	return pkg.Types, nil
}

// Ref returns the package identity recorded on requests
func Ref(pkg *packages.Package) types.PackageRef {
	ref := types.PackageRef{Path: pkg.PkgPath, Name: pkg.Name}
	if len(pkg.GoFiles) > 0 {
		ref.Dir = filepath.Dir(pkg.GoFiles[0])
	}
	return ref
}
