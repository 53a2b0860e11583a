package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"procurement/internal/llm"
	"procurement/internal/logger"
	"procurement/models"

	"github.com/samber/lo"
)

const (
	DefaultModel = "gpt-4o"
	MaxMatches   = 3
)

const systemPrompt = "You are a procurement specialist AI that matches requisitions to suitable vendors. " +
	"There can be more than one match. Return a list of dicts, even if you only have one return value."

type Store interface {
	ReplacePendingMatches(ctx context.Context, requisitionID int, matches []models.VendorMatch) (int, error)
	GetMatch(ctx context.Context, id int) (*models.VendorMatch, error)
	UpdateMatchStatus(ctx context.Context, id int, from, to models.DecisionStatus, at time.Time) error
}

type Service struct {
	llm    llm.Client
	store  Store
	model  string
	logger logger.LoggerInterface
	now    func() time.Time
}

type Option func(*Service)

func WithModel(model string) Option {
	return func(s *Service) {
		if model != "" {
			s.model = model
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(client llm.Client, store Store, log logger.LoggerInterface, opts ...Option) *Service {
	s := &Service{
		llm:    client,
		store:  store,
		model:  DefaultModel,
		logger: log.With("component", "matching"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildPrompt формирует запрос с деталями заявки и списком всех поставщиков
func BuildPrompt(req models.Requisition, vendors []models.Vendor) string {
	vendorData := strings.Join(lo.Map(vendors, func(v models.Vendor, _ int) string {
		return fmt.Sprintf("Vendor %d: %s\nDescription: %s", v.ID, v.Name, v.Description)
	}), "\n\n")

	var b strings.Builder
	b.WriteString("You are an AI procurement assistant that matches requisitions to the most suitable vendors ")
	b.WriteString("based on the requisition description and vendor capabilities.\n\n")
	b.WriteString("REQUISITION DETAILS:\n")
	fmt.Fprintf(&b, "Title: %s\n", req.Title)
	fmt.Fprintf(&b, "Description: %s\n", req.Description)
	fmt.Fprintf(&b, "Quantity: %d %s\n\n", req.Quantity, req.Unit)
	b.WriteString("AVAILABLE VENDORS:\n")
	b.WriteString(vendorData)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString("1. Analyze the requisition details and identify key requirements.\n")
	b.WriteString("2. Evaluate each vendor's suitability based on their description.\n")
	fmt.Fprintf(&b, "3. Select the top %d most suitable vendors for this requisition.\n", MaxMatches)
	b.WriteString("4. For each selected vendor, provide:\n")
	b.WriteString("   - Vendor ID\n")
	b.WriteString("   - Match score (0.0 to 1.0, where 1.0 is perfect match)\n")
	b.WriteString("   - A brief explanation of why this vendor is suitable\n\n")
	b.WriteString("OUTPUT FORMAT:\n")
	b.WriteString("Provide your response in JSON format as follows:\n")
	b.WriteString("[\n  {\n    \"vendor_id\": <id>,\n    \"match_score\": <score>,\n    \"match_reason\": \"<explanation>\"\n  },\n  ...\n]\n")
	b.WriteString("Do not include any other text in your response besides this JSON.\n")
	return b.String()
}

// Match запрашивает у сервиса подходящих поставщиков.
// При ошибке вызова или разбора возвращается пустой список и ошибка.
func (s *Service) Match(ctx context.Context, req models.Requisition, vendors []models.Vendor) ([]Match, error) {
	if s.llm == nil {
		return []Match{}, models.ErrLLMDisabled
	}
	if len(vendors) == 0 {
		return []Match{}, nil
	}

	s.logger.InfoContext(ctx, "matching vendors", "requisition_id", req.ID, "vendors", len(vendors))
	text, err := s.llm.Complete(ctx, llm.Request{
		Model: s.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: BuildPrompt(req, vendors)},
		},
	})
	if err != nil {
		return []Match{}, err
	}

	parsed, err := ParseMatches(text)
	if err != nil {
		s.logger.WarnContext(ctx, "unparseable matching response", "requisition_id", req.ID, "error", err)
		return []Match{}, fmt.Errorf("%w: %v", models.ErrLLMUnavailable, err)
	}

	return s.filter(ctx, parsed, vendors), nil
}

// filter оставляет поставщиков из списка с оценкой в [0,1], лучшие MaxMatches по оценке
func (s *Service) filter(ctx context.Context, parsed []Match, vendors []models.Vendor) []Match {
	known := lo.SliceToMap(vendors, func(v models.Vendor) (int, struct{}) { return v.ID, struct{}{} })

	kept := lo.Filter(parsed, func(m Match, _ int) bool {
		_, ok := known[m.VendorID]
		if !ok || m.MatchScore < 0 || m.MatchScore > 1 {
			s.logger.WarnContext(ctx, "dropping invalid match", "vendor_id", m.VendorID, "score", m.MatchScore)
			return false
		}
		return true
	})
	kept = lo.UniqBy(kept, func(m Match) int { return m.VendorID })

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].MatchScore > kept[j].MatchScore })
	if len(kept) > MaxMatches {
		kept = kept[:MaxMatches]
	}
	return kept
}

// SaveMatches заменяет нерешенные сопоставления заявки новыми.
// Сопоставления с принятым решением не затрагиваются.
func (s *Service) SaveMatches(ctx context.Context, requisitionID int, matches []Match) (int, error) {
	at := s.now()
	rows := lo.Map(matches, func(m Match, _ int) models.VendorMatch {
		return models.VendorMatch{
			RequisitionID: requisitionID,
			VendorID:      m.VendorID,
			MatchScore:    m.MatchScore,
			MatchReason:   m.MatchReason,
			Status:        models.StatusPending,
			CreatedAt:     at,
		}
	})

	n, err := s.store.ReplacePendingMatches(ctx, requisitionID, rows)
	if err != nil {
		s.logger.ErrorContext(ctx, "save matches failed", "requisition_id", requisitionID, "error", err)
		return 0, fmt.Errorf("save matches: %w", err)
	}
	s.logger.InfoContext(ctx, "matches saved", "requisition_id", requisitionID, "inserted", n)
	return n, nil
}

// UpdateStatus переводит сопоставление в новый статус по таблице переходов
func (s *Service) UpdateStatus(ctx context.Context, matchID int, to models.DecisionStatus) (*models.VendorMatch, error) {
	if !to.Valid() {
		return nil, models.ErrInvalidStatus
	}
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, m.Status, to)
	}

	at := s.now()
	if err := s.store.UpdateMatchStatus(ctx, matchID, m.Status, to, at); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "match status changed", "match_id", matchID, "from", m.Status, "to", to)
	m.Status = to
	m.ApprovedAt = nil
	if to != models.StatusPending {
		m.ApprovedAt = &at
	}
	return m, nil
}
