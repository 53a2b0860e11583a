package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"procurement/internal/logger"
	"procurement/models"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
)

const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

type Message struct {
	Role    string
	Content string
}

// Request запрос к сервису генерации текста.
// Temperature == nil оставляет значение по умолчанию сервиса.
type Request struct {
	Model       string
	Messages    []Message
	Temperature *float32
	JSON        bool
}

// Client сервис генерации текста: сообщения на входе, один текст на выходе
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type OpenAIClient struct {
	client     *openai.Client
	httpClient *http.Client
	timeout    time.Duration
	logger     logger.LoggerInterface
}

func NewOpenAIClient(cfg Config, log logger.LoggerInterface) *OpenAIClient {
	httpClient := &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = httpClient

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(clientCfg),
		httpClient: httpClient,
		timeout:    cfg.Timeout,
		logger:     log,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: lo.Map(req.Messages, func(m Message, _ int) openai.ChatCompletionMessage {
			return openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
		}),
	}
	if req.Temperature != nil {
		chatReq.Temperature = *req.Temperature
		// поле с omitempty: ноль не дойдет до сервиса
		if chatReq.Temperature == 0 {
			chatReq.Temperature = math.SmallestNonzeroFloat32
		}
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "chat completion failed", "model", req.Model, "error", err)
		return "", fmt.Errorf("%w: %v", models.ErrLLMUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %v", models.ErrLLMUnavailable, errors.New("empty choices"))
	}

	c.logger.InfoContext(ctx, "chat completion done",
		"model", req.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}

// Close закрывает простаивающие соединения
func (c *OpenAIClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// Float32 вспомогательная функция для Request.Temperature
func Float32(v float32) *float32 {
	return &v
}
