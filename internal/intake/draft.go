package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"procurement/internal/llm"
	"procurement/internal/logger"
	"procurement/internal/validator"
	"procurement/models"
)

const DefaultModel = "gpt-4"

const systemPrompt = `You are a structured requisition generator. Return only a JSON object with exactly these keys:
"title" (short item name), "description" (longer explanation), "size" (dimensions, or empty string),
"quantity" (positive integer), "unit" (pcs, box, etc), "requester_name", "department",
"material_id", "justification", "approved_by".
Use an empty string for optional values that cannot be inferred. Do not include dates or any other keys.`

// draftPayload схема ответа сервиса
type draftPayload struct {
	Title         string `json:"title" validate:"required,max=255"`
	Description   string `json:"description" validate:"max=10000"`
	Size          string `json:"size" validate:"max=200"`
	Quantity      int    `json:"quantity" validate:"gte=1"`
	Unit          string `json:"unit" validate:"required,max=50"`
	RequesterName string `json:"requester_name" validate:"max=200"`
	Department    string `json:"department" validate:"max=200"`
	MaterialID    string `json:"material_id" validate:"max=100"`
	Justification string `json:"justification" validate:"max=5000"`
	ApprovedBy    string `json:"approved_by" validate:"max=200"`
}

// Draft черновик заявки для проверки человеком перед сохранением
type Draft struct {
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Size            string      `json:"size,omitempty"`
	Quantity        int         `json:"quantity"`
	Unit            string      `json:"unit"`
	RequesterName   string      `json:"requesterName,omitempty"`
	Department      string      `json:"department,omitempty"`
	MaterialID      string      `json:"materialId,omitempty"`
	Justification   string      `json:"justification,omitempty"`
	ApprovedBy      string      `json:"approvedBy,omitempty"`
	RequisitionDate models.Date `json:"requisitionDate"`
	RequiredBy      models.Date `json:"requiredBy"`
}

// Requisition переносит черновик в заявку; дополнительные поля попадают в описание
func (d *Draft) Requisition() models.Requisition {
	lines := []string{d.Description}
	extra := []struct{ label, value string }{
		{"Size", d.Size},
		{"Requester Name", d.RequesterName},
		{"Department", d.Department},
		{"Material ID", d.MaterialID},
		{"Justification for Requirement", d.Justification},
		{"Required By Date", d.RequiredBy.String()},
		{"Approved By", d.ApprovedBy},
	}
	for _, e := range extra {
		if e.value != "" {
			lines = append(lines, e.label+": "+e.value)
		}
	}

	return models.Requisition{
		Title:         d.Title,
		Description:   strings.TrimSpace(strings.Join(lines, "\n")),
		Quantity:      d.Quantity,
		Unit:          d.Unit,
		RequestDate:   d.RequisitionDate,
		GeneratedByAI: true,
	}
}

type Drafter struct {
	llm       llm.Client
	model     string
	logger    logger.LoggerInterface
	validator validator.Validator
	now       func() time.Time
}

type Option func(*Drafter)

func WithModel(model string) Option {
	return func(d *Drafter) {
		if model != "" {
			d.model = model
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Drafter) { d.now = now }
}

func NewDrafter(client llm.Client, log logger.LoggerInterface, opts ...Option) *Drafter {
	d := &Drafter{
		llm:       client,
		model:     DefaultModel,
		logger:    log.With("component", "intake"),
		validator: validator.NewValidator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Draft просит сервис составить заявку из свободного текста.
// Даты всегда сегодняшние и не запрашиваются у сервиса.
func (d *Drafter) Draft(ctx context.Context, request string) (*Draft, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, fmt.Errorf("%w: request text is empty", models.ErrInvalidInput)
	}
	if d.llm == nil {
		return nil, models.ErrLLMDisabled
	}

	d.logger.InfoContext(ctx, "drafting requisition", "chars", len(request))
	text, err := d.llm.Complete(ctx, llm.Request{
		Model: d.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: "Request: " + request},
		},
		Temperature: llm.Float32(0),
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	draft, err := d.Parse(text)
	if err != nil {
		d.logger.WarnContext(ctx, "rejected requisition draft", "error", err)
		return nil, err
	}
	return draft, nil
}

// Parse строго разбирает ответ: неизвестные ключи, неверные типы и пропущенные
// обязательные поля приводят к ErrMalformedDraft, значения по умолчанию не подставляются.
func (d *Drafter) Parse(text string) (*Draft, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(llm.StripCodeFence(text))))
	dec.DisallowUnknownFields()

	var p draftPayload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedDraft, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after object", models.ErrMalformedDraft)
	}

	for _, f := range []*string{&p.Title, &p.Description, &p.Size, &p.Unit, &p.RequesterName,
		&p.Department, &p.MaterialID, &p.Justification, &p.ApprovedBy} {
		*f = validator.StripMarkup(*f)
	}

	if err := validator.Check(d.validator, p); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedDraft, err)
	}

	today := models.NewDate(d.now())
	return &Draft{
		Title:           p.Title,
		Description:     p.Description,
		Size:            p.Size,
		Quantity:        p.Quantity,
		Unit:            p.Unit,
		RequesterName:   p.RequesterName,
		Department:      p.Department,
		MaterialID:      p.MaterialID,
		Justification:   p.Justification,
		ApprovedBy:      p.ApprovedBy,
		RequisitionDate: today,
		RequiredBy:      today,
	}, nil
}
