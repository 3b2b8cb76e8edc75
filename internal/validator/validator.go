package validator

import (
	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
)

// ValidationResult holds the results of validation
type ValidationResult struct {
	Diagnostics
	Stats map[string]int
}

// IsValid returns true if there are no errors
func (r *ValidationResult) IsValid() bool {
	return !r.HasErrors()
}

// Validator checks request invariants before code generation
type Validator struct {
	requests []*types.Request
}

// NewValidator creates a new validator
func NewValidator(requests []*types.Request) *Validator {
	return &Validator{requests: requests}
}

// Validate performs validation
func (v *Validator) Validate() *ValidationResult {
	logger.Section("Validation")

	result := &ValidationResult{Stats: make(map[string]int)}
	result.Stats["total_types"] = len(v.requests)

	totalProperties := 0
	for _, req := range v.requests {
		totalProperties += len(req.Properties)
		logger.Verbose("Validating %s (%d properties)", req.TypeName, len(req.Properties))
		ValidateRequest(req, &result.Diagnostics)
	}

	result.Stats["total_properties"] = totalProperties
	result.Stats["errors"] = len(result.Errors)
	result.Stats["warnings"] = len(result.Warnings)

	Report(&result.Diagnostics)
	if result.IsValid() {
		logger.Success("Validation passed")
	}

	logger.Stats("Validation Statistics", map[string]any{
		"Types validated":      result.Stats["total_types"],
		"Properties validated": result.Stats["total_properties"],
		"Errors":               result.Stats["errors"],
		"Warnings":             result.Stats["warnings"],
	})

	return result
}

// ValidateRequest checks the invariants of a single request and records
// violations in d
func ValidateRequest(req *types.Request, d *Diagnostics) {
	if req.TypeName == "" {
		d.Add(Diagnostic{
			Code:     CodeEmptyType,
			Message:  "request has no type name",
			Severity: SeverityError,
		})
		return
	}

	seen := make(map[string]bool, len(req.Properties))
	for _, p := range req.Properties {
		if seen[p.Name] {
			d.Add(Diagnostic{
				Type:       req.TypeName,
				Property:   p.Name,
				Code:       CodeDuplicateProperty,
				Message:    "property declared more than once",
				Severity:   SeverityError,
				Suggestion: "Rename one of the properties; names determine constructor parameters",
			})
			continue
		}
		seen[p.Name] = true

		if p.Annotations.Adapter != nil && p.Annotations.Column != nil {
			d.Add(Diagnostic{
				Type:       req.TypeName,
				Property:   p.Name,
				Code:       CodeShadowedAnnotation,
				Message:    "adapter takes precedence over the column annotation when reading rows",
				Severity:   SeverityWarning,
				Suggestion: "Drop the column key or the adapter",
			})
		}

		logger.Debug("  Property %s: %s", p.Name, p.Type)
	}
}

// Report logs the collected diagnostics
func Report(d *Diagnostics) {
	if len(d.Warnings) > 0 {
		logger.Warning("Found %d warnings", len(d.Warnings))
		for _, w := range d.Warnings {
			logger.Warning("%s", w.Describe())
		}
	}

	if len(d.Errors) > 0 {
		logger.Error("Found %d errors; affected types will not be generated", len(d.Errors))
		for _, e := range d.Errors {
			logger.Error("%s", e.Describe())
		}
	}
}
