package llm

import "strings"

// StripCodeFence возвращает содержимое первого блока ```json ... ``` или ``` ... ```.
// Текст без ограждения возвращается без изменений, за исключением пробелов по краям.
func StripCodeFence(text string) string {
	for _, marker := range []string{"```json", "```"} {
		_, rest, found := strings.Cut(text, marker)
		if !found {
			continue
		}
		body, _, _ := strings.Cut(rest, "```")
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(text)
}
