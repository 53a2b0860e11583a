package approval

import (
	"context"
	"errors"
	"maps"
	"testing"
	"time"

	"procurement/internal/logger"
	"procurement/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore хранилище в памяти: транзакция работает с копией и применяется только при успехе
type memStore struct {
	requisitions map[int]bool
	bids         map[int]map[int]decimal.Decimal // requisition -> bid -> amount
	approvals    map[int]models.BidApproval      // bid -> decision
	failOnBid    int
}

func newMemStore() *memStore {
	return &memStore{
		requisitions: map[int]bool{},
		bids:         map[int]map[int]decimal.Decimal{},
		approvals:    map[int]models.BidApproval{},
	}
}

func (s *memStore) addBid(requisitionID, bidID int, amount string) {
	s.requisitions[requisitionID] = true
	if s.bids[requisitionID] == nil {
		s.bids[requisitionID] = map[int]decimal.Decimal{}
	}
	s.bids[requisitionID][bidID] = decimal.RequireFromString(amount)
}

func (s *memStore) WithApprovalTx(ctx context.Context, fn func(Tx) error) error {
	tx := &memTx{store: s, approvals: maps.Clone(s.approvals)}
	if err := fn(tx); err != nil {
		return err
	}
	s.approvals = tx.approvals
	return nil
}

type memTx struct {
	store     *memStore
	approvals map[int]models.BidApproval
}

func (t *memTx) LockRequisition(ctx context.Context, requisitionID int) error {
	if !t.store.requisitions[requisitionID] {
		return models.ErrNotFound
	}
	return nil
}

func (t *memTx) BidAmounts(ctx context.Context, requisitionID int) (map[int]decimal.Decimal, error) {
	return maps.Clone(t.store.bids[requisitionID]), nil
}

func (t *memTx) UpsertApproval(ctx context.Context, a *models.BidApproval) error {
	if a.VendorBidID == t.store.failOnBid {
		return errors.New("write failed")
	}
	a.ID = a.VendorBidID
	t.approvals[a.VendorBidID] = *a
	return nil
}

func (s *memStore) countStatus(status models.DecisionStatus) int {
	n := 0
	for _, a := range s.approvals {
		if a.Status == status {
			n++
		}
	}
	return n
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestWorkflow(store Store) *Workflow {
	return NewWorkflow(store, logger.NoOpLogger(), WithClock(func() time.Time { return fixedNow }))
}

func TestApproveRejectsSiblings(t *testing.T) {
	store := newMemStore()
	store.addBid(1, 10, "4000")
	store.addBid(1, 11, "30000")
	store.addBid(1, 12, "12000")
	w := newTestWorkflow(store)

	res, err := w.Approve(context.Background(), Decision{RequisitionID: 1, BidID: 10, ApprovedBy: "  Dana ", Notes: "cheapest"})
	require.NoError(t, err)

	// уровень по максимальному предложению 30000
	assert.Equal(t, "VP Level", res.Tier.Name)
	assert.Equal(t, []int{11, 12}, res.RejectedSiblings)

	approved := store.approvals[10]
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, "VP Level", approved.ApprovalTier)
	assert.Equal(t, "Dana", approved.ApprovedBy)
	assert.Equal(t, "cheapest", approved.ApprovalNotes)
	assert.Equal(t, fixedNow, approved.ApprovedAt)

	for _, id := range []int{11, 12} {
		a := store.approvals[id]
		assert.Equal(t, models.StatusRejected, a.Status)
		assert.Equal(t, AutoRejectNote, a.ApprovalNotes)
		assert.Equal(t, "VP Level", a.ApprovalTier)
		assert.Equal(t, "Dana", a.ApprovedBy)
	}
}

func TestApproveOverwritesPriorApprovals(t *testing.T) {
	store := newMemStore()
	store.addBid(1, 10, "100")
	store.addBid(1, 11, "200")
	store.approvals[10] = models.BidApproval{VendorBidID: 10, Status: models.StatusApproved}
	store.approvals[11] = models.BidApproval{VendorBidID: 11, Status: models.StatusApproved}

	_, err := newTestWorkflow(store).Approve(context.Background(), Decision{RequisitionID: 1, BidID: 11, ApprovedBy: "Lee"})
	require.NoError(t, err)

	assert.Equal(t, 1, store.countStatus(models.StatusApproved))
	assert.Equal(t, models.StatusApproved, store.approvals[11].Status)
	assert.Equal(t, models.StatusRejected, store.approvals[10].Status)
}

func TestRejectLeavesSiblingsUntouched(t *testing.T) {
	store := newMemStore()
	store.addBid(2, 20, "6000")
	store.addBid(2, 21, "7000")
	prior := models.BidApproval{VendorBidID: 21, Status: models.StatusApproved, ApprovedBy: "Kim", ApprovalNotes: "ok"}
	store.approvals[21] = prior

	res, err := newTestWorkflow(store).Reject(context.Background(), Decision{RequisitionID: 2, BidID: 20, ApprovedBy: "Lee", Notes: "late"})
	require.NoError(t, err)

	assert.Empty(t, res.RejectedSiblings)
	assert.Equal(t, "Division Director", res.Tier.Name)
	assert.Equal(t, models.StatusRejected, store.approvals[20].Status)
	assert.Equal(t, prior, store.approvals[21])
}

func TestDecisionRequiresApprover(t *testing.T) {
	store := newMemStore()
	store.addBid(1, 10, "100")
	w := newTestWorkflow(store)

	for _, name := range []string{"", "   "} {
		_, err := w.Approve(context.Background(), Decision{RequisitionID: 1, BidID: 10, ApprovedBy: name})
		assert.True(t, errors.Is(err, models.ErrApproverRequired))
		_, err = w.Reject(context.Background(), Decision{RequisitionID: 1, BidID: 10, ApprovedBy: name})
		assert.True(t, errors.Is(err, models.ErrApproverRequired))
	}
	assert.Empty(t, store.approvals)
}

func TestDecisionNotFound(t *testing.T) {
	store := newMemStore()
	store.addBid(1, 10, "100")
	store.addBid(2, 20, "100")
	w := newTestWorkflow(store)

	_, err := w.Approve(context.Background(), Decision{RequisitionID: 9, BidID: 10, ApprovedBy: "Lee"})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	// предложение другой заявки
	_, err = w.Approve(context.Background(), Decision{RequisitionID: 1, BidID: 20, ApprovedBy: "Lee"})
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.Empty(t, store.approvals)
}

func TestApproveIsAtomic(t *testing.T) {
	store := newMemStore()
	store.addBid(1, 10, "100")
	store.addBid(1, 11, "200")
	store.addBid(1, 12, "300")
	store.approvals[12] = models.BidApproval{VendorBidID: 12, Status: models.StatusApproved}
	store.failOnBid = 12

	_, err := newTestWorkflow(store).Approve(context.Background(), Decision{RequisitionID: 1, BidID: 10, ApprovedBy: "Lee"})
	require.Error(t, err)

	// ни одна запись транзакции не применена
	assert.Len(t, store.approvals, 1)
	assert.Equal(t, models.StatusApproved, store.approvals[12].Status)
}

func TestRequiredTier(t *testing.T) {
	store := newMemStore()
	store.addBid(1, 10, "4999.99")
	store.addBid(1, 11, "100000")
	w := newTestWorkflow(store)

	tier, err := w.RequiredTier(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "C-Suite", tier.Name)

	_, err = w.RequiredTier(context.Background(), 5)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
