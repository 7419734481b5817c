package service

import (
	"encoding/json"
	"strings"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
)

// ExtractJSONObject recovers a single JSON object from arbitrary model output,
// tolerating surrounding prose and code fences. The strict whole-text parse
// runs first so valid minified JSON with nested braces is never corrupted by
// the greedy substring fallback.
func ExtractJSONObject(raw string) (map[string]interface{}, error) {
	text := stripCodeFence(strings.TrimSpace(raw))

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		return payload, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		payload = nil
		if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err == nil {
			return payload, nil
		}
	}

	return nil, dto.NewError(dto.ErrModelOutputUnparseable, "no JSON object found in model output")
}

// stripCodeFence removes a surrounding ``` or ```json fence. Fenced replies
// that slip through are still recovered by the substring tier.
func stripCodeFence(text string) string {
	if len(text) < 6 || !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	if idx := strings.IndexByte(inner, '\n'); idx >= 0 {
		lang := strings.TrimSpace(inner[:idx])
		if lang == "" || strings.EqualFold(lang, "json") {
			inner = inner[idx+1:]
		}
	}
	return strings.TrimSpace(inner)
}
