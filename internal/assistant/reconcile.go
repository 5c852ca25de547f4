package assistant

import (
	"log/slog"

	"reglagen/pkg/schema"
)

// Reconcile guarantees Header and Regla are mutually consistent for the
// candidate's data type, repairing or synthesizing Header when absent or
// malformed. The derived header is authoritative: whatever labels the model
// supplied are overwritten on mismatch.
//
// Re-running Reconcile on its own output is a fixed point.
func Reconcile(def *schema.RuleDefinition) error {
	tree, err := parseJSONTree(def.Regla)
	if err != nil {
		return newTerminal(StageReconcile, "Regla is not well-formed JSON", err)
	}
	if tree.kind != kindObject && tree.kind != kindArray {
		return newTerminal(StageReconcile, "Regla must be a JSON object or array", nil)
	}

	var derived []string
	switch {
	case def.TipoDato == schema.TipoDependencia:
		derived, err = deriveDependencyHeader(tree)
		if err != nil {
			return newTerminal(StageReconcile, err.Error(), nil)
		}
	case def.TipoDato.ListFamily():
		derived = deriveListHeader(tree)
	default:
		// Simple types: the canonical label vocabulary wins, regardless of
		// what the model produced.
		derived, _ = schema.CanonicalHeader(def.TipoDato)
	}

	if len(derived) == 0 {
		// Empty derivation, e.g. a malformed Regla the engine cannot read.
		// Synthesize a minimal header and leave the final word to the
		// persistence-time validator.
		def.Header = []string{string(def.TipoDato)}
		def.NeedsReview = true
		def.Estado = schema.StateNormalized
		return nil
	}

	if len(def.Header) > 0 && !equalLabels(def.Header, derived) {
		slog.Debug("model header replaced by derived header",
			"tipo", def.TipoDato,
			"model_header", def.Header,
			"derived_header", derived,
		)
	}
	def.Header = derived
	def.NeedsReview = false
	def.Estado = schema.StateNormalized
	return nil
}

// deriveListHeader reconstructs the column labels of a list rule from the
// first block of value combinations inside Regla. Column order follows the
// first combination's key order.
func deriveListHeader(tree jsonValue) []string {
	if tree.kind == kindArray {
		return headerFromCombinations(tree)
	}

	for _, m := range tree.members {
		if m.value.kind != kindArray || len(m.value.arr) == 0 {
			continue
		}
		if header := headerFromCombinations(m.value); header != nil {
			return header
		}
		if m.value.scalarArray() {
			// A single catalog column named after its key.
			return []string{m.key}
		}
	}
	return nil
}

func headerFromCombinations(arr jsonValue) []string {
	if len(arr.arr) == 0 || arr.arr[0].kind != kindObject {
		return nil
	}
	first := arr.arr[0]
	header := make([]string, 0, len(first.members))
	for _, m := range first.members {
		header = append(header, m.key)
	}
	return header
}

func equalLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
