package llm_test

import (
	"testing"

	"procurement/internal/llm"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"json fence", "```json\n[1]\n```", "[1]"},
		{"plain fence", "here:\n```\n{\"a\":1}\n```\nthanks", `{"a":1}`},
		{"no fence", "  [2]  ", "[2]"},
		{"unterminated", "```json\n[3]", "[3]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.StripCodeFence(tt.in))
		})
	}
}
