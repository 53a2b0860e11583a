package approval

import (
	"procurement/models"

	"github.com/shopspring/decimal"
)

// Tier уровень полномочий, необходимый для одобрения суммы.
// Границы полуоткрытые: Lower <= amount < Upper; Upper == nil означает бесконечность.
type Tier struct {
	Name  string           `json:"name"`
	Level int              `json:"level"`
	Lower decimal.Decimal  `json:"lower"`
	Upper *decimal.Decimal `json:"upper,omitempty"`
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var tiers = []Tier{
	{Name: "Department Manager", Level: 1, Lower: decimal.Zero, Upper: bound(5000)},
	{Name: "Division Director", Level: 2, Lower: decimal.NewFromInt(5000), Upper: bound(25000)},
	{Name: "VP Level", Level: 3, Lower: decimal.NewFromInt(25000), Upper: bound(100000)},
	{Name: "C-Suite", Level: 4, Lower: decimal.NewFromInt(100000)},
}

// Tiers возвращает копию таблицы уровней в порядке возрастания
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

func (t Tier) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(t.Lower) {
		return false
	}
	return t.Upper == nil || amount.LessThan(*t.Upper)
}

// Classify возвращает первый уровень, в который попадает сумма.
// Отрицательная сумма не попадает ни в один и получает высший уровень.
func Classify(amount decimal.Decimal) Tier {
	for _, t := range tiers {
		if t.Contains(amount) {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// ClassifyStrict как Classify, но отклоняет отрицательные суммы
func ClassifyStrict(amount decimal.Decimal) (Tier, error) {
	if amount.IsNegative() {
		return Tier{}, models.ErrNegativeAmount
	}
	return Classify(amount), nil
}
