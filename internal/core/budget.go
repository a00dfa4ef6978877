package core

import "github.com/shopspring/decimal"

// budgetAlertThreshold is the spend percentage at which a budget starts
// warning, before it is actually exceeded.
var budgetAlertThreshold = decimal.NewFromInt(80)

// BudgetProgress is the derived view of one budget line: how much of the
// budgeted amount has been spent, whether it is overspent, and whether the
// warning threshold has been reached.
type BudgetProgress struct {
	Budgeted       decimal.Decimal `json:"budgeted"`
	Actual         decimal.Decimal `json:"actual"`
	Remaining      decimal.Decimal `json:"remaining"`
	Percent        decimal.Decimal `json:"percent"`
	IsOverBudget   bool            `json:"isOverBudget"`
	AlertTriggered bool            `json:"alertTriggered"`
}

// EvaluateBudget compares actual spend against the budgeted amount. A zero
// budget yields zero percent and no alert regardless of spend.
func EvaluateBudget(budgeted, actual decimal.Decimal) BudgetProgress {
	percent := PercentOf(actual, budgeted)
	return BudgetProgress{
		Budgeted:       budgeted,
		Actual:         actual,
		Remaining:      budgeted.Sub(actual),
		Percent:        percent,
		IsOverBudget:   actual.GreaterThan(budgeted),
		AlertTriggered: percent.GreaterThanOrEqual(budgetAlertThreshold),
	}
}
