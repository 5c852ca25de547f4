package assistant

import (
	"fmt"
	"strings"

	"reglagen/internal/llm"
	"reglagen/pkg/schema"
)

// systemDirective forces structured output; it is the first segment of every
// instruction bundle.
const systemDirective = "Eres un asistente que responde ÚNICAMENTE con JSON válido según el esquema " +
	"'Regla de Campo'. No incluyas texto fuera del JSON."

// taskInstruction enumerates the required fields and the domain framing.
// Kept as one block so composition stays deterministic.
const taskInstruction = "Analiza el mensaje del usuario y construye una definición de regla de validación " +
	"para campos de formularios usados en el sector InsurTech (tecnología aplicada a seguros). " +
	"En este sector los formularios suelen incluir datos de pólizas, clientes, riesgos, coberturas, " +
	"siniestros y entidades aseguradoras. " +
	"Debes responder con un JSON que cumpla EXACTAMENTE con el esquema 'Regla de Campo' e incluya " +
	"todas las propiedades requeridas: 'Nombre de la regla', 'Tipo de dato', 'Campo obligatorio', " +
	"'Mensaje de error', 'Descripción', 'Ejemplo', 'Header' y 'Regla'. " +
	"El 'Header' debe derivarse mecánicamente de 'Regla': nunca inventes etiquetas de Header que no " +
	"correspondan con las claves configuradas en 'Regla'. " +
	"Si el mensaje del usuario no especifica algún valor requerido, dedúcelo o propón uno coherente " +
	"con la terminología del sector asegurador. " +
	"Nunca uses textos genéricos como 'N/A' ni 'Por definir', y no dejes campos vacíos. " +
	"En 'Ejemplo' entrega un caso válido y uno inválido, lo más realistas posible."

const catalogRequestAdjustment = "El usuario pide un catálogo extenso de valores. Limita la respuesta a los " +
	"valores esenciales y representativos (máximo 20 entradas) en lugar de un listado exhaustivo."

const truncatedAdjustment = "El mensaje del usuario fue truncado por longitud. Prioriza la información " +
	"esencial: campo a validar, tipo de dato y condición principal de la regla."

// catalogRequestPatterns flag bulk-catalog requests ("list all X") that need
// scope-limiting adjustments.
var catalogRequestPatterns = []string{
	"lista todos", "lista todas", "listar todos", "listar todas",
	"todos los valores", "todas las opciones", "catalogo completo",
	"enumera todos", "enumera todas",
	"list all", "every possible value", "full catalog",
}

// DetectCatalogRequest reports whether the message asks for an exhaustive
// list of permitted values.
func DetectCatalogRequest(message string) bool {
	folded := schema.FoldLabel(message)
	for _, pattern := range catalogRequestPatterns {
		if strings.Contains(folded, pattern) {
			return true
		}
	}
	return false
}

// PromptInput carries everything the composer needs. Identical inputs always
// compose identical bundles.
type PromptInput struct {
	Message        string
	Catalog        string // assembled grounding catalog, may be empty
	CatalogRequest bool   // bulk-catalog request detected
	Truncated      bool   // message was truncated for the retry attempt
	InlineSchema   bool   // transport cannot enforce the schema itself
}

// ComposePrompt builds the ordered instruction bundle consumed by the
// completion step. No network call happens here.
func ComposePrompt(in PromptInput) *llm.CompletionRequest {
	instructions := []string{taskInstruction}

	if in.CatalogRequest {
		instructions = append(instructions, catalogRequestAdjustment)
	}
	if in.Truncated {
		instructions = append(instructions, truncatedAdjustment)
	}

	if in.InlineSchema {
		instructions = append(instructions, fmt.Sprintf(
			"El transporte actual no puede forzar el esquema automáticamente, así que debes "+
				"asegurarte manualmente de que la respuesta sea un JSON válido que cumpla "+
				"EXACTAMENTE con este JSON Schema: %s",
			schema.ReglaDeCampoSchema(),
		))
	}

	var contextEntries []string
	if in.Catalog != "" {
		contextEntries = append(contextEntries, in.Catalog)
	}

	req := &llm.CompletionRequest{
		System:       systemDirective,
		Instructions: instructions,
		Context:      contextEntries,
		Message:      in.Message,
	}
	if !in.InlineSchema {
		req.Schema = schema.ReglaDeCampoSchema()
	}
	return req
}

// maxRetryMessageRunes bounds the truncated message on the second attempt.
const maxRetryMessageRunes = 480

// truncateMessage cuts s to at most max runes, never splitting a rune, and
// appends an ellipsis when something was dropped.
func truncateMessage(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
