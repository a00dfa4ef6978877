package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CycleWeekly    BillingCycle = "Weekly"
	CycleMonthly   BillingCycle = "Monthly"
	CycleQuarterly BillingCycle = "Quarterly"
	CycleYearly    BillingCycle = "Yearly"
)

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type (
	BillingCycle       string
	SubscriptionStatus string

	// Subscription is a recurring charge tracked by the subscription tool.
	Subscription struct {
		Meta
		Name            string             `json:"name"`
		Category        string             `json:"category"`
		BillingCycle    BillingCycle       `json:"billingCycle"`
		Amount          decimal.Decimal    `json:"amount"`
		NextBillingDate time.Time          `json:"nextBillingDate"`
		Status          SubscriptionStatus `json:"status"`
	}
)

// MonthlyEquivalent normalizes a charge to its per-month rate: weekly
// charges count four times, quarterly a third, yearly a twelfth. Unknown
// cycles are treated as monthly.
func MonthlyEquivalent(amount decimal.Decimal, cycle BillingCycle) decimal.Decimal {
	switch cycle {
	case CycleWeekly:
		return amount.Mul(decimal.NewFromInt(4))
	case CycleQuarterly:
		return amount.Div(decimal.NewFromInt(3))
	case CycleYearly:
		return amount.Div(decimal.NewFromInt(12))
	default:
		return amount
	}
}

// MonthlyEquivalent returns the subscription's normalized monthly cost.
func (s Subscription) MonthlyEquivalent() decimal.Decimal {
	return MonthlyEquivalent(s.Amount, s.BillingCycle)
}

// MonthlyTotal sums the monthly-equivalent cost of all active
// subscriptions.
func MonthlyTotal(subs []Subscription) decimal.Decimal {
	var total decimal.Decimal
	for _, s := range subs {
		if s.Status != SubscriptionActive {
			continue
		}
		total = total.Add(s.MonthlyEquivalent())
	}
	return total
}
