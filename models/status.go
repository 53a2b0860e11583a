package models

import "fmt"

// DecisionStatus состояние сопоставления или решения по предложению
type DecisionStatus string

const (
	StatusPending  DecisionStatus = "pending"
	StatusApproved DecisionStatus = "approved"
	StatusRejected DecisionStatus = "rejected"
)

// Допустимые переходы. Решение можно отозвать только через pending.
var decisionTransitions = map[DecisionStatus][]DecisionStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPending},
	StatusRejected: {StatusPending},
}

func ParseDecisionStatus(s string) (DecisionStatus, error) {
	st := DecisionStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s DecisionStatus) Valid() bool {
	_, ok := decisionTransitions[s]
	return ok
}

// CanTransitionTo сообщает, разрешен ли переход s -> next
func (s DecisionStatus) CanTransitionTo(next DecisionStatus) bool {
	for _, allowed := range decisionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BidStatus отмечает, было ли предложение отправлено впервые или обновлено
type BidStatus string

const (
	BidSubmitted BidStatus = "submitted"
	BidUpdated   BidStatus = "updated"
)

var (
	Currencies    = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD"}
	DeliveryUnits = []string{"days", "weeks", "months"}
)
