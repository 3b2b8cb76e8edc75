package validator

import (
	"errors"
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic codes
const (
	CodeAdapterUnresolved  = "adapter-unresolved"
	CodeAdapterFactory     = "adapter-factory"
	CodeAdapterSerializer  = "adapter-serializer"
	CodeUnsupportedType    = "unsupported-type"
	CodeInvalidDefault     = "invalid-default"
	CodeDuplicateProperty  = "duplicate-property"
	CodeEmptyType          = "empty-type"
	CodeShadowedAnnotation = "shadowed-annotation"
	CodeInvalidTag         = "invalid-tag"
	CodeUnusedDirective    = "unused-directive"
)

// Diagnostic is a generation-time problem tied to a value type and,
// when known, one of its properties
type Diagnostic struct {
	Type       string
	Property   string
	Concern    string
	Code       string
	Message    string
	Severity   Severity
	Suggestion string
}

func (d Diagnostic) Error() string {
	severityPrefix := "[ERROR]"
	if d.Severity == SeverityWarning {
		severityPrefix = "[WARN] "
	}
	return severityPrefix + " " + d.Describe()
}

// Describe renders the diagnostic without its severity prefix, for
// callers that print the severity themselves
func (d Diagnostic) Describe() string {
	target := d.Type
	if d.Property != "" {
		target += "." + d.Property
	}
	if d.Concern != "" {
		target += " (" + d.Concern + ")"
	}

	msg := fmt.Sprintf("%s: [%s] %s", target, d.Code, d.Message)

	if d.Suggestion != "" {
		msg += fmt.Sprintf("\n         Suggestion: %s", d.Suggestion)
	}

	return msg
}

// Diagnostics collects the diagnostics of one or more requests
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Add records d under its severity
func (d *Diagnostics) Add(diag Diagnostic) {
	if diag.Severity == SeverityWarning {
		d.Warnings = append(d.Warnings, diag)
		return
	}
	diag.Severity = SeverityError
	d.Errors = append(d.Errors, diag)
}

// Errorf records an error against typeName.property
func (d *Diagnostics) Errorf(typeName, property, code, format string, args ...any) {
	d.Add(Diagnostic{
		Type:     typeName,
		Property: property,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

// Warnf records a warning against typeName.property
func (d *Diagnostics) Warnf(typeName, property, code, format string, args ...any) {
	d.Add(Diagnostic{
		Type:     typeName,
		Property: property,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	})
}

// HasErrors returns true if any error was recorded
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge appends the diagnostics of other
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// Err returns the recorded errors as a single error, or nil
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.Error())
	}
	return errors.New(strings.Join(parts, "\n"))
}
