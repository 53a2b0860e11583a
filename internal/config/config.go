package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	DatabaseDSN     string
	LLM             LLMConfig
	Log             LogConfig
}

type LLMConfig struct {
	Enabled     bool
	APIKey      string
	BaseURL     string
	MatchModel  string
	IntakeModel string
	Timeout     time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Load читает .env (если есть), флаги и переменные окружения.
// Флаг "db-dsn" доступен как DB_DSN, "openai-api-key" как OPENAI_API_KEY и т.д.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	flags := pflag.NewFlagSet("procurement-server", pflag.ContinueOnError)

	// server
	flags.String("server-address", "0.0.0.0:8080", "HTTP listen address")
	flags.Duration("shutdown-timeout", 10*time.Second, "graceful shutdown timeout")

	// db
	flags.String("db-dsn", "", "PostgreSQL connection string")

	// llm
	flags.Bool("llm-enabled", true, "enable vendor matching and requisition drafting")
	flags.String("openai-api-key", "", "OpenAI API key")
	flags.String("llm-base-url", "", "OpenAI-compatible API base URL")
	flags.String("llm-match-model", "gpt-4o", "model used for vendor matching")
	flags.String("llm-intake-model", "gpt-4", "model used for requisition drafting")
	flags.Duration("llm-timeout", 60*time.Second, "timeout of a single completion")

	// logging
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "json", "json or text")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	// старые имена переменных
	v.BindEnv("db-dsn", "DB_DSN", "POSTGRES_CONN")
	v.BindEnv("server-address", "SERVER_ADDRESS")

	cfg := &Config{
		ServerAddress:   v.GetString("server-address"),
		ShutdownTimeout: v.GetDuration("shutdown-timeout"),
		DatabaseDSN:     v.GetString("db-dsn"),
		LLM: LLMConfig{
			Enabled:     v.GetBool("llm-enabled"),
			APIKey:      v.GetString("openai-api-key"),
			BaseURL:     v.GetString("llm-base-url"),
			MatchModel:  v.GetString("llm-match-model"),
			IntakeModel: v.GetString("llm-intake-model"),
			Timeout:     v.GetDuration("llm-timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log-level"),
			Format: v.GetString("log-format"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.ServerAddress == "" {
		problems = append(problems, "server address is not set")
	}
	if c.DatabaseDSN == "" {
		problems = append(problems, "database DSN is not set (DB_DSN or POSTGRES_CONN)")
	}
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		problems = append(problems, "OPENAI_API_KEY is not set (or disable with --llm-enabled=false)")
	}
	if c.LLM.Timeout <= 0 {
		problems = append(problems, "llm timeout must be positive")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		problems = append(problems, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
