package cart

// BudgetLevel buckets budget usage for display.
type BudgetLevel string

const (
	BudgetUnset   BudgetLevel = "unset"
	BudgetWithin  BudgetLevel = "within"
	BudgetCaution BudgetLevel = "caution"
	BudgetOver    BudgetLevel = "over"
)

// cautionPercent is the usage above which a within-budget cart is flagged.
const cautionPercent = 80

type BudgetStatus struct {
	Budget       float64     `json:"budget"`
	FinalTotal   float64     `json:"finalTotal"`
	UsagePercent float64     `json:"usagePercent"`
	Remaining    float64     `json:"remaining"`
	OverBy       float64     `json:"overBy"`
	Level        BudgetLevel `json:"level"`
}

// BudgetStatus compares the final total against the budget.
func (c *Cart) BudgetStatus() BudgetStatus {
	return ComputeBudgetStatus(c.budget, c.FinalTotal())
}

func ComputeBudgetStatus(budget, finalTotal float64) BudgetStatus {
	status := BudgetStatus{Budget: budget, FinalTotal: finalTotal, Level: BudgetUnset}
	if budget <= 0 {
		return status
	}

	status.UsagePercent = finalTotal / budget * 100
	if status.UsagePercent > 100 {
		status.UsagePercent = 100
	}

	switch {
	case finalTotal > budget:
		status.Level = BudgetOver
		status.OverBy = finalTotal - budget
	case status.UsagePercent > cautionPercent:
		status.Level = BudgetCaution
		status.Remaining = budget - finalTotal
	default:
		status.Level = BudgetWithin
		status.Remaining = budget - finalTotal
	}
	return status
}
