package assistant

import (
	"fmt"

	"reglagen/pkg/schema"
)

// Dependency rules branch on the value of a conditioning field. Their Regla
// carries an ordered sequence of condition blocks under "reglas especifica";
// each block pairs a conditioning field/value with a dependent payload:
//
//	{"Tipo Documento": "DNI", "Documento": {"Longitud minima": 8, ...}}
//
// The conditioning member is the one with a scalar value whose key is not a
// data-type alias. Payload keys that alias a data type ("Texto", "Número",
// "Documento") name the dependent's type, not a field.

// deriveDependencyHeader rebuilds the Header of a dependency rule.
//
// If every dependent payload is a bare catalog of allowed values, the header
// is [conditioning field, dependent field]. As soon as one block carries
// internal constraint keys, the constrained style wins: the header is the
// conditioning field followed by the deduplicated leaf names, and the
// dependent field's own name is omitted (implied by position).
//
// An empty result (with nil error) means Regla had no usable condition
// blocks; the caller falls back to a synthesized header.
func deriveDependencyHeader(tree jsonValue) ([]string, error) {
	if tree.kind != kindObject {
		return nil, fmt.Errorf("dependency Regla must be a JSON object")
	}

	blocks, ok := tree.lookup(schema.LabelReglasEspecifica)
	if !ok || blocks.kind != kindArray || len(blocks.arr) == 0 {
		return nil, nil
	}

	var (
		conditioning  string
		dependentName string
		constrained   bool
	)
	leaves := newLabelSet()

	for i, block := range blocks.arr {
		if block.kind != kindObject {
			return nil, fmt.Errorf("condition block %d is not an object", i+1)
		}

		blockConditioning := ""
		for _, m := range block.members {
			if m.value.isScalar() {
				if _, isTypeAlias := schema.ResolveTipo(m.key); !isTypeAlias && blockConditioning == "" {
					blockConditioning = m.key
				}
				continue
			}

			// Non-scalar member: the dependent payload.
			if m.value.scalarArray() {
				// Bare catalog of allowed values.
				if dependentName == "" {
					dependentName = m.key
				}
				continue
			}
			if collectLeaves(m.value, leaves) {
				constrained = true
			}
			if dependentName == "" {
				dependentName = m.key
			}
		}

		if blockConditioning == "" {
			return nil, fmt.Errorf("condition block %d has no conditioning field", i+1)
		}
		if conditioning == "" {
			conditioning = blockConditioning
		}
	}

	if constrained {
		return append([]string{conditioning}, leaves.ordered()...), nil
	}
	if dependentName != "" {
		return []string{conditioning, dependentName}, nil
	}
	return []string{conditioning}, nil
}

// collectLeaves walks a dependent payload and records every leaf constraint
// name: a key whose value is a scalar. Objects are descended recursively
// (a dependent payload may nest another conditional level); arrays of
// scalars are catalogs, so their keys are not leaves. Reports whether any
// leaf was found.
func collectLeaves(v jsonValue, set *labelSet) bool {
	found := false
	switch v.kind {
	case kindObject:
		for _, m := range v.members {
			switch {
			case m.value.isScalar():
				set.add(m.key)
				found = true
			case m.value.scalarArray():
				// nested catalog, contributes no constraint keys
			default:
				if collectLeaves(m.value, set) {
					found = true
				}
			}
		}
	case kindArray:
		for _, elem := range v.arr {
			if collectLeaves(elem, set) {
				found = true
			}
		}
	}
	return found
}

// labelSet deduplicates labels case- and diacritic-insensitively while
// preserving insertion order and first-seen casing.
type labelSet struct {
	seen   map[string]struct{}
	labels []string
}

func newLabelSet() *labelSet {
	return &labelSet{seen: make(map[string]struct{})}
}

func (s *labelSet) add(label string) {
	key := schema.FoldLabel(label)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.labels = append(s.labels, label)
}

func (s *labelSet) ordered() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}
