package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"bizhub/internal/core"
)

type totalsRequest struct {
	Items    []core.LineItem `json:"items"`
	Discount core.Discount   `json:"discount"`
	Shipping decimal.Decimal `json:"shipping"`
	RoundOff bool            `json:"roundOff"`
	Currency string          `json:"currency"`
}

type totalsResponse struct {
	core.Totals
	FormattedGrandTotal string `json:"formattedGrandTotal,omitempty"`
}

// handleTotals derives invoice totals from the posted line items. Inputs
// are taken as-is; malformed bodies are the only rejection.
func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req totalsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := totalsResponse{
		Totals: core.ComputeTotals(req.Items, req.Discount, req.Shipping, req.RoundOff),
	}
	if req.Currency != "" {
		resp.FormattedGrandTotal = core.FormatAmount(resp.GrandTotal, req.Currency)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var goal core.Goal
	if err := decodeJSON(w, r, &goal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, core.EvaluateGoal(goal, time.Now()))
}

type budgetRequest struct {
	Budgeted decimal.Decimal `json:"budgeted"`
	Actual   decimal.Decimal `json:"actual"`
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, core.EvaluateBudget(req.Budgeted, req.Actual))
}

type monthlyTotalRequest struct {
	Subscriptions []core.Subscription `json:"subscriptions"`
}

type monthlyTotalResponse struct {
	MonthlyTotal decimal.Decimal `json:"monthlyTotal"`
}

func (s *Server) handleSubscriptionsMonthlyTotal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req monthlyTotalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, monthlyTotalResponse{
		MonthlyTotal: core.MonthlyTotal(req.Subscriptions),
	})
}
