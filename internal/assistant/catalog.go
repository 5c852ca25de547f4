package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"reglagen/pkg/schema"
)

// Context caps. List-family rules carry the value catalogs users most often
// repeat, so they get the bigger share.
const (
	catalogMaxEntries = 15
	catalogMaxList    = 10
	catalogMaxOther   = 5
)

// catalogEntry is the compact projection of a stored rule used as grounding.
type catalogEntry struct {
	Nombre   string          `json:"Nombre de la regla"`
	TipoDato schema.TipoDato `json:"Tipo de dato"`
	Header   []string        `json:"Header,omitempty"`
	Regla    json.RawMessage `json:"Regla,omitempty"`
}

// AssembleContext turns recently stored rules (newest first) into a compact
// serialized catalog grouped by data type. It reads, never mutates; returns
// "" when there is nothing to ground on.
func AssembleContext(recent []schema.RuleDefinition) string {
	var listCount, otherCount int
	groups := make(map[schema.TipoDato][]catalogEntry)

	for _, rule := range recent {
		if listCount+otherCount >= catalogMaxEntries {
			break
		}
		if rule.TipoDato.ListFamily() {
			if listCount >= catalogMaxList {
				continue
			}
			listCount++
		} else {
			if otherCount >= catalogMaxOther {
				continue
			}
			otherCount++
		}
		groups[rule.TipoDato] = append(groups[rule.TipoDato], catalogEntry{
			Nombre:   rule.Nombre,
			TipoDato: rule.TipoDato,
			Header:   rule.Header,
			Regla:    rule.Regla,
		})
	}

	if listCount+otherCount == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Estas son las reglas de validación más recientes registradas en el sistema. ")
	sb.WriteString("Úsalas como conocimiento previo para mantener consistencia y evitar duplicados:\n")

	// Stable group order keeps prompt composition deterministic.
	for _, tipo := range schema.AllTipos() {
		entries, ok := groups[tipo]
		if !ok {
			continue
		}
		payload, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n%s\n", tipo, payload)
	}

	return sb.String()
}
