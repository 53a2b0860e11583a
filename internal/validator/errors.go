package validator

import (
	"html"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Error ошибки валидации по полям запроса
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, m := range e.Fields {
		msgs = append(msgs, m)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// Check возвращает *Error, если структура не проходит валидацию
func Check(v Validator, s any) error {
	if errs := v.ValidateStruct(s); errs != nil {
		return &Error{Fields: errs}
	}
	return nil
}

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup убирает HTML из пользовательского или сгенерированного текста
func StripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
