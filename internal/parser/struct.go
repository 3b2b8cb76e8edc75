package parser

import (
	gotypes "go/types"

	"git.weirdcat.su/weirdcat/valuegen/internal/logger"
	"git.weirdcat.su/weirdcat/valuegen/internal/types"
	"git.weirdcat.su/weirdcat/valuegen/internal/validator"
)

// parseFields turns the fields of st into properties in declaration order.
// Embedded and blank fields are not properties.
func parseFields(typeName string, st *gotypes.Struct, tagKey string, d *validator.Diagnostics) []types.Property {
	props := make([]types.Property, 0, st.NumFields())

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if field.Embedded() || field.Name() == "_" {
			logger.Debug("  Skipping field %s.%s", typeName, field.Name())
			continue
		}

		ann, err := ParseTag(st.Tag(i), tagKey, field.Name())
		if err != nil {
			d.Errorf(typeName, field.Name(), validator.CodeInvalidTag, "%s tag: %v", tagKey, err)
		}

		props = append(props, types.Property{
			Name:        field.Name(),
			Type:        describe(field.Type()),
			Annotations: ann,
		})
	}

	return props
}
