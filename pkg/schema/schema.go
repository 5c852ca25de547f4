// Package schema defines the "Regla de Campo" data model shared by the
// assistant pipeline, the rule store and the HTTP surface.
package schema

import (
	_ "embed"
	"encoding/json"
)

//go:embed regla_de_campo.schema.json
var reglaDeCampoSchema []byte

// ReglaDeCampoSchema returns the canonical JSON Schema for a rule definition.
// The prompt composer sends it either as a strict response_format payload or
// inlined as text, depending on what the completion transport supports.
func ReglaDeCampoSchema() json.RawMessage {
	return json.RawMessage(reglaDeCampoSchema)
}
