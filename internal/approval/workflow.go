package approval

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"procurement/db"
	"procurement/internal/logger"
	"procurement/models"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// AutoRejectNote пишется в решения по остальным предложениям заявки при одобрении одного из них
const AutoRejectNote = "Automatically rejected as another bid was selected"

// Tx операции, выполняемые внутри одной транзакции решения
type Tx interface {
	LockRequisition(ctx context.Context, requisitionID int) error
	BidAmounts(ctx context.Context, requisitionID int) (map[int]decimal.Decimal, error)
	UpsertApproval(ctx context.Context, a *models.BidApproval) error
}

type Store interface {
	WithApprovalTx(ctx context.Context, fn func(Tx) error) error
}

type sqlStore struct {
	storage *db.Storage
}

// NewSQLStore адаптирует db.Storage к Store
func NewSQLStore(storage *db.Storage) Store {
	return sqlStore{storage: storage}
}

func (s sqlStore) WithApprovalTx(ctx context.Context, fn func(Tx) error) error {
	return s.storage.WithTx(ctx, func(tx *db.Tx) error { return fn(tx) })
}

// Decision запрос на одобрение или отклонение предложения
type Decision struct {
	RequisitionID int    `json:"requisitionId" validate:"required,gt=0"`
	BidID         int    `json:"-"`
	ApprovedBy    string `json:"approvedBy" validate:"required,max=200"`
	Notes         string `json:"notes" validate:"max=2000"`
}

type Result struct {
	Approval         models.BidApproval `json:"approval"`
	Tier             Tier               `json:"tier"`
	RejectedSiblings []int              `json:"rejectedSiblings,omitempty"`
}

type Workflow struct {
	store  Store
	logger logger.LoggerInterface
	now    func() time.Time
}

type Option func(*Workflow)

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

func NewWorkflow(store Store, log logger.LoggerInterface, opts ...Option) *Workflow {
	w := &Workflow{store: store, logger: log, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Approve одобряет предложение и отклоняет все остальные предложения заявки в одной транзакции.
// Ранее принятые решения по соседним предложениям перезаписываются.
func (w *Workflow) Approve(ctx context.Context, d Decision) (*Result, error) {
	return w.decide(ctx, d, models.StatusApproved)
}

// Reject отклоняет только указанное предложение
func (w *Workflow) Reject(ctx context.Context, d Decision) (*Result, error) {
	return w.decide(ctx, d, models.StatusRejected)
}

func (w *Workflow) decide(ctx context.Context, d Decision, status models.DecisionStatus) (*Result, error) {
	d.ApprovedBy = strings.TrimSpace(d.ApprovedBy)
	if d.ApprovedBy == "" {
		return nil, models.ErrApproverRequired
	}

	log := w.logger.With("requisition_id", d.RequisitionID, "bid_id", d.BidID, "status", status)
	log.InfoContext(ctx, "recording bid decision", "approved_by", d.ApprovedBy)

	res := &Result{}
	err := w.store.WithApprovalTx(ctx, func(tx Tx) error {
		if err := tx.LockRequisition(ctx, d.RequisitionID); err != nil {
			return fmt.Errorf("lock requisition %d: %w", d.RequisitionID, err)
		}

		amounts, err := tx.BidAmounts(ctx, d.RequisitionID)
		if err != nil {
			return fmt.Errorf("load bids: %w", err)
		}
		if _, ok := amounts[d.BidID]; !ok {
			return fmt.Errorf("bid %d in requisition %d: %w", d.BidID, d.RequisitionID, models.ErrNotFound)
		}

		// уровень определяется максимальным предложением заявки, а не выбранным
		tier, err := ClassifyStrict(maxAmount(amounts))
		if err != nil {
			return err
		}
		res.Tier = tier

		at := w.now()
		res.Approval = models.BidApproval{
			RequisitionID: d.RequisitionID,
			VendorBidID:   d.BidID,
			ApprovalTier:  tier.Name,
			ApprovedBy:    d.ApprovedBy,
			ApprovedAt:    at,
			ApprovalNotes: d.Notes,
			Status:        status,
		}
		if err := tx.UpsertApproval(ctx, &res.Approval); err != nil {
			return fmt.Errorf("upsert approval: %w", err)
		}

		if status != models.StatusApproved {
			return nil
		}

		siblings := lo.Without(lo.Keys(amounts), d.BidID)
		slices.Sort(siblings)
		for _, id := range siblings {
			rejected := models.BidApproval{
				RequisitionID: d.RequisitionID,
				VendorBidID:   id,
				ApprovalTier:  tier.Name,
				ApprovedBy:    d.ApprovedBy,
				ApprovedAt:    at,
				ApprovalNotes: AutoRejectNote,
				Status:        models.StatusRejected,
			}
			if err := tx.UpsertApproval(ctx, &rejected); err != nil {
				return fmt.Errorf("reject sibling bid %d: %w", id, err)
			}
		}
		res.RejectedSiblings = siblings
		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, "bid decision failed", "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "bid decision recorded", "tier", res.Tier.Name, "rejected_siblings", len(res.RejectedSiblings))
	return res, nil
}

// RequiredTier уровень, необходимый для заявки по ее текущим предложениям
func (w *Workflow) RequiredTier(ctx context.Context, requisitionID int) (Tier, error) {
	var tier Tier
	err := w.store.WithApprovalTx(ctx, func(tx Tx) error {
		amounts, err := tx.BidAmounts(ctx, requisitionID)
		if err != nil {
			return err
		}
		if len(amounts) == 0 {
			return fmt.Errorf("bids for requisition %d: %w", requisitionID, models.ErrNotFound)
		}
		tier, err = ClassifyStrict(maxAmount(amounts))
		return err
	})
	return tier, err
}

func maxAmount(amounts map[int]decimal.Decimal) decimal.Decimal {
	return lo.MaxBy(lo.Values(amounts), func(a, b decimal.Decimal) bool {
		return a.GreaterThan(b)
	})
}
