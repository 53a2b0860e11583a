package matching

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"procurement/internal/llm"
	"procurement/internal/logger"
	"procurement/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply string
	err   error
	last  llm.Request
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.last = req
	return f.reply, f.err
}

// memMatchStore повторяет политику хранилища: pending заменяются, решенные остаются
type memMatchStore struct {
	nextID int
	rows   map[int]models.VendorMatch
}

func newMemMatchStore() *memMatchStore {
	return &memMatchStore{rows: map[int]models.VendorMatch{}}
}

func (s *memMatchStore) ReplacePendingMatches(ctx context.Context, requisitionID int, matches []models.VendorMatch) (int, error) {
	for id, m := range s.rows {
		if m.RequisitionID == requisitionID && m.Status == models.StatusPending {
			delete(s.rows, id)
		}
	}
	inserted := 0
	for _, m := range matches {
		if s.hasVendor(requisitionID, m.VendorID) {
			continue
		}
		s.nextID++
		m.ID = s.nextID
		s.rows[m.ID] = m
		inserted++
	}
	return inserted, nil
}

func (s *memMatchStore) hasVendor(requisitionID, vendorID int) bool {
	for _, m := range s.rows {
		if m.RequisitionID == requisitionID && m.VendorID == vendorID {
			return true
		}
	}
	return false
}

func (s *memMatchStore) GetMatch(ctx context.Context, id int) (*models.VendorMatch, error) {
	m, ok := s.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &m, nil
}

func (s *memMatchStore) UpdateMatchStatus(ctx context.Context, id int, from, to models.DecisionStatus, at time.Time) error {
	m := s.rows[id]
	if m.Status != from {
		return models.ErrInvalidTransition
	}
	m.Status = to
	s.rows[id] = m
	return nil
}

func (s *memMatchStore) byStatus(status models.DecisionStatus) []models.VendorMatch {
	var out []models.VendorMatch
	for _, m := range s.rows {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out
}

var (
	testRequisition = models.Requisition{ID: 7, Title: "Steel bolts", Description: "M8 zinc plated", Quantity: 500, Unit: "pcs"}
	testVendors     = []models.Vendor{
		{ID: 1, Name: "Bolt Co", Description: "Fasteners"},
		{ID: 2, Name: "Paper Inc", Description: "Office paper"},
		{ID: 3, Name: "Metal Works", Description: "Steel parts"},
		{ID: 4, Name: "Hardware Hub", Description: "General hardware"},
	}
)

func newTestService(client llm.Client, store Store) *Service {
	return NewService(client, store, logger.NoOpLogger(),
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }))
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(testRequisition, testVendors[:2])
	assert.Contains(t, prompt, "Title: Steel bolts")
	assert.Contains(t, prompt, "Description: M8 zinc plated")
	assert.Contains(t, prompt, "Quantity: 500 pcs")
	assert.Contains(t, prompt, "Vendor 1: Bolt Co\nDescription: Fasteners\n\nVendor 2: Paper Inc\nDescription: Office paper")
	assert.Contains(t, prompt, "top 3")
}

func TestMatchFiltersAndRanks(t *testing.T) {
	client := &fakeLLM{reply: "```json\n" + `[
		{"vendor_id": 1, "match_score": 0.6, "match_reason": "fasteners"},
		{"vendor_id": 99, "match_score": 0.99, "match_reason": "unknown vendor"},
		{"vendor_id": 3, "match_score": 0.9, "match_reason": "steel"},
		{"vendor_id": 2, "match_score": 1.7, "match_reason": "bad score"},
		{"vendor_id": 4, "match_score": 0.4, "match_reason": "hardware"},
		{"vendor_id": 1, "match_score": 0.1, "match_reason": "duplicate"}
	]` + "\n```"}
	svc := newTestService(client, newMemMatchStore())

	matches, err := svc.Match(context.Background(), testRequisition, testVendors)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, []int{3, 1, 4}, []int{matches[0].VendorID, matches[1].VendorID, matches[2].VendorID})

	assert.Equal(t, DefaultModel, client.last.Model)
	require.Len(t, client.last.Messages, 2)
	assert.Equal(t, llm.RoleSystem, client.last.Messages[0].Role)
	assert.True(t, strings.HasPrefix(client.last.Messages[0].Content, "You are a procurement specialist AI"))
}

func TestMatchSoftFailures(t *testing.T) {
	t.Run("service error", func(t *testing.T) {
		svc := newTestService(&fakeLLM{err: models.ErrLLMUnavailable}, newMemMatchStore())
		matches, err := svc.Match(context.Background(), testRequisition, testVendors)
		require.Error(t, err)
		assert.NotNil(t, matches)
		assert.Empty(t, matches)
	})

	t.Run("garbage response", func(t *testing.T) {
		svc := newTestService(&fakeLLM{reply: "I could not find anything"}, newMemMatchStore())
		matches, err := svc.Match(context.Background(), testRequisition, testVendors)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrLLMUnavailable))
		assert.Empty(t, matches)
	})

	t.Run("no vendors skips the call", func(t *testing.T) {
		client := &fakeLLM{err: errors.New("must not be called")}
		matches, err := newTestService(client, newMemMatchStore()).Match(context.Background(), testRequisition, nil)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("disabled", func(t *testing.T) {
		matches, err := newTestService(nil, newMemMatchStore()).Match(context.Background(), testRequisition, testVendors)
		assert.True(t, errors.Is(err, models.ErrLLMDisabled))
		assert.Empty(t, matches)
	})
}

func TestSaveMatchesTwicePreservesDecisions(t *testing.T) {
	store := newMemMatchStore()
	svc := newTestService(&fakeLLM{}, store)
	ctx := context.Background()

	n, err := svc.SaveMatches(ctx, 7, []Match{
		{VendorID: 1, MatchScore: 0.8, MatchReason: "a"},
		{VendorID: 2, MatchScore: 0.7, MatchReason: "b"},
		{VendorID: 3, MatchScore: 0.6, MatchReason: "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// решения между запусками
	_, err = svc.UpdateStatus(ctx, 1, models.StatusApproved)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, 2, models.StatusRejected)
	require.NoError(t, err)

	n, err = svc.SaveMatches(ctx, 7, []Match{
		{VendorID: 1, MatchScore: 0.5, MatchReason: "again"},
		{VendorID: 4, MatchScore: 0.9, MatchReason: "new"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	approved := store.byStatus(models.StatusApproved)
	require.Len(t, approved, 1)
	assert.Equal(t, 1, approved[0].VendorID)
	assert.Equal(t, 0.8, approved[0].MatchScore)

	rejected := store.byStatus(models.StatusRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, 2, rejected[0].VendorID)

	pending := store.byStatus(models.StatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, 4, pending[0].VendorID)
}

func TestUpdateStatusTransitions(t *testing.T) {
	store := newMemMatchStore()
	svc := newTestService(&fakeLLM{}, store)
	ctx := context.Background()
	_, err := svc.SaveMatches(ctx, 7, []Match{{VendorID: 1, MatchScore: 0.8}})
	require.NoError(t, err)

	m, err := svc.UpdateStatus(ctx, 1, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, m.Status)
	assert.NotNil(t, m.ApprovedAt)

	_, err = svc.UpdateStatus(ctx, 1, models.StatusRejected)
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))

	m, err = svc.UpdateStatus(ctx, 1, models.StatusPending)
	require.NoError(t, err)
	assert.Nil(t, m.ApprovedAt)

	_, err = svc.UpdateStatus(ctx, 1, "archived")
	assert.True(t, errors.Is(err, models.ErrInvalidStatus))

	_, err = svc.UpdateStatus(ctx, 42, models.StatusApproved)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
