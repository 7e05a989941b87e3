package explain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/textnorm"
)

// MaxFieldRunes caps reason and message regardless of provider output.
const MaxFieldRunes = 600

const responseSchema = `{
  "type": "object",
  "properties": {
    "reason":  {"type": "string"},
    "message": {"type": "string"}
  },
  "required": ["reason", "message"],
  "additionalProperties": false
}`

var schema = mustSchema(responseSchema)

func mustSchema(s string) *gojsonschema.Schema {
	sc, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("explain: invalid response schema: %v", err))
	}
	return sc
}

// parseResponse validates the provider output against the two-field schema.
func parseResponse(raw string) (match.Explanation, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return match.Explanation{}, errors.New("empty response")
	}

	res, err := schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return match.Explanation{}, fmt.Errorf("decode response: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return match.Explanation{}, fmt.Errorf("response violates schema: %s", strings.Join(msgs, "; "))
	}

	var out match.Explanation
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return match.Explanation{}, fmt.Errorf("unmarshal response: %w", err)
	}
	out.Reason = textnorm.Truncate(strings.TrimSpace(out.Reason), MaxFieldRunes)
	out.Message = textnorm.Truncate(strings.TrimSpace(out.Message), MaxFieldRunes)
	return out, nil
}

// extractJSON strips Markdown code fences and any prose around the object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return strings.TrimSpace(raw)
	}
	return raw[start : end+1]
}
