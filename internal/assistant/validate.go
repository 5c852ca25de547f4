package assistant

import (
	"fmt"
	"strings"

	"reglagen/pkg/schema"
)

// ValidateStructure enforces presence of the required top-level fields,
// non-emptiness of the free-text ones, and membership of the type enum.
// An unknown type is a rejection, never a coercion. All failures here are
// recoverable on the first attempt.
func ValidateStructure(c *candidate) error {
	for _, field := range schema.RequiredFields() {
		if _, ok := c.fields[field]; !ok {
			return newRecoverable(StageValidate,
				fmt.Sprintf("missing required field %q", field), nil)
		}
	}

	textFields := []struct {
		name  string
		value string
	}{
		{schema.FieldNombre, c.def.Nombre},
		{schema.FieldMensajeError, c.def.MensajeError},
		{schema.FieldDescripcion, c.def.Descripcion},
	}
	for _, f := range textFields {
		if strings.TrimSpace(f.value) == "" {
			return newRecoverable(StageValidate,
				fmt.Sprintf("field %q must be a non-empty string", f.name), nil)
		}
	}

	if !c.def.TipoDato.Valid() {
		return newRecoverable(StageValidate,
			fmt.Sprintf("unknown data type %q", c.def.TipoDato), nil)
	}

	return nil
}
