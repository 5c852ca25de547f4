package schema

import (
	"encoding/json"
)

// TipoDato is the data type a validation rule applies to.
type TipoDato string

const (
	TipoTexto              TipoDato = "Texto"
	TipoNumero             TipoDato = "Número"
	TipoDocumento          TipoDato = "Documento"
	TipoLista              TipoDato = "Lista"
	TipoListaCompleja      TipoDato = "Lista compleja"
	TipoTelefono           TipoDato = "Telefono"
	TipoCorreo             TipoDato = "Correo"
	TipoFecha              TipoDato = "Fecha"
	TipoDependencia        TipoDato = "Dependencia"
	TipoValidacionConjunta TipoDato = "Validación conjunta"
)

// AllTipos lists every supported data type.
func AllTipos() []TipoDato {
	return []TipoDato{
		TipoTexto,
		TipoNumero,
		TipoDocumento,
		TipoLista,
		TipoListaCompleja,
		TipoTelefono,
		TipoCorreo,
		TipoFecha,
		TipoDependencia,
		TipoValidacionConjunta,
	}
}

// Valid reports whether t is one of the supported data types.
func (t TipoDato) Valid() bool {
	for _, known := range AllTipos() {
		if t == known {
			return true
		}
	}
	return false
}

// ListFamily reports whether t is a list-style type. List-style rules carry
// value catalogs and get a larger share of the grounding context.
func (t TipoDato) ListFamily() bool {
	return t == TipoLista || t == TipoListaCompleja
}

// State tracks a rule definition candidate through the pipeline.
type State string

const (
	StateRaw        State = "raw"
	StateNormalized State = "normalized"
	StateAccepted   State = "accepted"
	StateRejected   State = "rejected"
)

// Wire field names of the "Regla de Campo" JSON object.
const (
	FieldNombre           = "Nombre de la regla"
	FieldTipoDato         = "Tipo de dato"
	FieldCampoObligatorio = "Campo obligatorio"
	FieldMensajeError     = "Mensaje de error"
	FieldDescripcion      = "Descripción"
	FieldEjemplo          = "Ejemplo"
	FieldHeader           = "Header"
	FieldRegla            = "Regla"
)

// RequiredFields returns the wire names every rule definition must carry.
func RequiredFields() []string {
	return []string{
		FieldNombre,
		FieldTipoDato,
		FieldCampoObligatorio,
		FieldMensajeError,
		FieldDescripcion,
		FieldEjemplo,
		FieldHeader,
		FieldRegla,
	}
}

// RuleDefinition is the structured artifact describing one data-validation
// rule ("Regla de Campo"). Regla is kept raw because its shape depends on
// TipoDato; the reconciliation engine interprets it per type.
type RuleDefinition struct {
	ID               string          `json:"id,omitempty"`
	Nombre           string          `json:"Nombre de la regla"`
	TipoDato         TipoDato        `json:"Tipo de dato"`
	CampoObligatorio bool            `json:"Campo obligatorio"`
	MensajeError     string          `json:"Mensaje de error"`
	Descripcion      string          `json:"Descripción"`
	Ejemplo          json.RawMessage `json:"Ejemplo"`
	Header           []string        `json:"Header"`
	Regla            json.RawMessage `json:"Regla"`

	// Estado is pipeline-internal and never serialized.
	Estado State `json:"-"`
	// NeedsReview flags candidates whose Header had to be synthesized from
	// the type name alone; persistence-time validation is the final gate.
	NeedsReview bool `json:"-"`
}
