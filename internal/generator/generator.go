// Package generator turns generation requests into Go source. Each concern
// is a Synthesizer; a request that collects any error emits nothing.
package generator

import (
	"github.com/dave/jennifer/jen"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

// Result is the outcome of generating one package
type Result struct {
	File        *jen.File
	Diagnostics validator.Diagnostics
	Generated   []string
	Failed      []string
	Skipped     []string
}

// Empty reports whether nothing was emitted
func (r *Result) Empty() bool {
	return len(r.Generated) == 0
}

// Generate synthesizes the code of every request of one package. Types
// with errors in prior (from parsing or validation) are not emitted;
// their concerns still run so every problem is reported at once.
func Generate(ref types.PackageRef, requests []*types.Request, cfg *config.Config, prior validator.Diagnostics) *Result {
	res := &Result{File: newFile(ref)}
	table := Synthesizers(cfg)

	failedBefore := make(map[string]bool)
	for _, e := range prior.Errors {
		failedBefore[e.Type] = true
	}

	var creators []string
	for _, req := range requests {
		var d validator.Diagnostics
		var code []jen.Code
		produced := false

		for _, s := range table {
			if !s.Applicable(req) {
				continue
			}
			produced = true
			logger.Debug("  %s: synthesizing %s", req.TypeName, s.Concern())
			code = append(code, s.Synthesize(req, &d)...)
		}
		res.Diagnostics.Merge(d)

		switch {
		case d.HasErrors() || failedBefore[req.TypeName]:
			logger.Verbose("Not generating %s", req.TypeName)
			res.Failed = append(res.Failed, req.TypeName)
			continue
		case !produced:
			logger.Verbose("No applicable concern for %s", req.TypeName)
			res.Skipped = append(res.Skipped, req.TypeName)
			continue
		}

		res.File.Add(generateConstructor(req, cfg.Naming))
		res.File.Line()
		for _, c := range code {
			res.File.Add(c)
			res.File.Line()
		}
		if req.Parcelable && cfg.Enabled(config.ConcernParcel) {
			creators = append(creators, cfg.Naming.CreatorName(req.TypeName))
		}
		res.Generated = append(res.Generated, req.TypeName)
	}

	generateRegistrations(res.File, creators)
	return res
}
