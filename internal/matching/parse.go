package matching

import (
	"bytes"
	"encoding/json"
	"fmt"

	"procurement/internal/llm"
)

// Match предложение сервиса: поставщик, оценка 0..1 и обоснование
type Match struct {
	VendorID    int     `json:"vendor_id"`
	MatchScore  float64 `json:"match_score"`
	MatchReason string  `json:"match_reason"`
}

// ParseMatches разбирает ответ сервиса. Принимается список или объект с ключом "matches",
// опционально в блоке кода. Любая другая форма JSON дает пустой результат без ошибки.
func ParseMatches(text string) ([]Match, error) {
	body := []byte(llm.StripCodeFence(text))
	if !json.Valid(body) {
		return []Match{}, fmt.Errorf("matching response is not valid JSON")
	}

	body = bytes.TrimSpace(body)
	switch body[0] {
	case '[':
		var matches []Match
		if err := json.Unmarshal(body, &matches); err != nil {
			return []Match{}, fmt.Errorf("decode matches: %w", err)
		}
		return matches, nil
	case '{':
		var wrapped struct {
			Matches []Match `json:"matches"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return []Match{}, fmt.Errorf("decode matches: %w", err)
		}
		if wrapped.Matches == nil {
			return []Match{}, nil
		}
		return wrapped.Matches, nil
	default:
		return []Match{}, nil
	}
}
