package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DB_DSN", "POSTGRES_CONN", "SERVER_ADDRESS", "OPENAI_API_KEY",
		"LLM_ENABLED", "LLM_TIMEOUT", "LLM_MATCH_MODEL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/procurement")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress)
	assert.Equal(t, "postgres://localhost/procurement", cfg.DatabaseDSN)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.MatchModel)
	assert.Equal(t, "gpt-4", cfg.LLM.IntakeModel)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadLegacyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_CONN", "postgres://legacy/db")
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:9000")

	cfg, err := Load([]string{"--llm-enabled=false"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://legacy/db", cfg.DatabaseDSN)
	assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddress)
	assert.False(t, cfg.LLM.Enabled)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://env/db")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load([]string{
		"--db-dsn", "postgres://flag/db",
		"--llm-enabled=false",
		"--llm-timeout", "5s",
		"--log-format", "text",
	})
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag/db", cfg.DatabaseDSN)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{"no dsn", map[string]string{"OPENAI_API_KEY": "k"}, nil, "database DSN"},
		{"no key", map[string]string{"DB_DSN": "x"}, nil, "OPENAI_API_KEY"},
		{"bad format", map[string]string{"DB_DSN": "x"}, []string{"--llm-enabled=false", "--log-format", "xml"}, "unknown log format"},
		{"bad timeout", map[string]string{"DB_DSN": "x", "OPENAI_API_KEY": "k"}, []string{"--llm-timeout", "0s"}, "llm timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadUnknownFlag(t *testing.T) {
	clearEnv(t)
	_, err := Load([]string{"--no-such-flag"})
	require.Error(t, err)
}
