package generator

import (
	"github.com/dave/jennifer/jen"

	"git.weirdcat.su/weirdcat/valuegen/internal/config"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

// Synthesizer produces the code of one concern for a request
type Synthesizer interface {
	Concern() string
	Applicable(req *types.Request) bool
	// Synthesize returns top-level declarations, or nil after recording
	// at least one error in d
	Synthesize(req *types.Request, d *validator.Diagnostics) []jen.Code
}

// Synthesizers returns the dispatch table in its fixed order: row,
// preferences, parcel. Concerns disabled in cfg are left out.
func Synthesizers(cfg *config.Config) []Synthesizer {
	all := []Synthesizer{
		&rowSynthesizer{naming: cfg.Naming},
		&preferencesSynthesizer{naming: cfg.Naming},
		&parcelSynthesizer{naming: cfg.Naming},
	}

	table := make([]Synthesizer, 0, len(all))
	for _, s := range all {
		if cfg.Enabled(s.Concern()) {
			table = append(table, s)
		}
	}
	return table
}
