package assistant

import (
	"encoding/json"
	"regexp"
	"strings"

	"reglagen/pkg/schema"
)

// candidate is a decoded rule definition plus the raw field set, kept so the
// structural validator can distinguish "absent" from "zero value".
type candidate struct {
	fields map[string]json.RawMessage
	def    schema.RuleDefinition
}

// NormalizeResponse cleans the raw completion text and decodes it into a
// candidate. Failures are recoverable: on attempt 1 they feed the retry.
func NormalizeResponse(raw string) (*candidate, error) {
	text := stripCodeFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		text = repairTrailingCommas(text)
		if err := json.Unmarshal([]byte(text), &fields); err != nil {
			return nil, newRecoverable(StageNormalize, "response is not a JSON object", err)
		}
	}

	var def schema.RuleDefinition
	if err := json.Unmarshal([]byte(text), &def); err != nil {
		return nil, newRecoverable(StageNormalize, "response does not decode into a rule definition", err)
	}
	def.Estado = schema.StateRaw

	return &candidate{fields: fields, def: def}, nil
}

// stripCodeFences removes a Markdown code-fence wrapper, keeping only the
// JSON payload between the first "{" and the last "}".
func stripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return text
	}

	cleaned := strings.Trim(s, "`")
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return cleaned[start : end+1]
}

// Conservative: only removes a comma when the next non-whitespace character
// closes the object or array.
var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// repairTrailingCommas fixes answers such as {"foo": 1,} or [1, 2,] that
// occasionally appear in model output.
func repairTrailingCommas(text string) string {
	return trailingCommaRe.ReplaceAllString(text, "$1")
}
