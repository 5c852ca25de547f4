package assistant

import (
	"strings"

	"reglagen/pkg/schema"
)

// GateResult is the relevance gate's verdict on an inbound message.
type GateResult struct {
	Relevant bool
	Reason   string
}

// Validation-domain vocabulary, matched against the folded message. The gate
// is a cost control, not a security boundary: one hit is enough to let the
// message through, so uncertain messages fail toward usefulness.
var domainTerms = []string{
	// Spanish
	"regla", "valida", "longitud", "formato", "catalogo", "lista",
	"depend", "rango", "obligatorio", "requerido", "campo", "columna",
	"documento", "dni", "ruc", "fecha", "correo", "telefono", "numero",
	"texto", "minim", "maxim", "decimales", "poliza", "asegurad",
	"cobertura", "siniestro", "importacion", "plantilla",
	// English
	"rule", "validat", "length", "format", "catalog", "list ",
	"range", "required", "field", "column", "date", "email", "phone",
	"number", "digits", "import", "template",
}

// Patterns that identify common off-topic messages so the rejection reason
// can say something more useful than "no match".
var offTopicPatterns = []struct {
	pattern string
	reason  string
}{
	{"clima", "El mensaje parece una consulta sobre el clima, no sobre validación de datos."},
	{"weather", "El mensaje parece una consulta sobre el clima, no sobre validación de datos."},
	{"chiste", "El mensaje parece pedir entretenimiento, no una regla de validación."},
	{"joke", "El mensaje parece pedir entretenimiento, no una regla de validación."},
	{"receta", "El mensaje parece una consulta de cocina, no sobre validación de datos."},
	{"hola", "El mensaje parece un saludo sin una solicitud de regla de validación."},
	{"buenos dias", "El mensaje parece un saludo sin una solicitud de regla de validación."},
	{"buenas tardes", "El mensaje parece un saludo sin una solicitud de regla de validación."},
	{"hello", "El mensaje parece un saludo sin una solicitud de regla de validación."},
}

const genericOffTopicReason = "El mensaje no parece describir una regla de validación de datos. " +
	"Indica el campo a validar y la condición deseada: longitud, formato, " +
	"lista de valores permitidos, dependencia entre campos o rango numérico."

// CheckRelevance decides whether a message is in-domain before any
// completion call is made. Callers must not invoke the completion service
// when Relevant is false.
func CheckRelevance(message string) GateResult {
	folded := schema.FoldLabel(message)

	for _, term := range domainTerms {
		if strings.Contains(folded, term) {
			return GateResult{Relevant: true}
		}
	}

	for _, p := range offTopicPatterns {
		if strings.Contains(folded, p.pattern) {
			return GateResult{Relevant: false, Reason: p.reason}
		}
	}

	return GateResult{Relevant: false, Reason: genericOffTopicReason}
}
