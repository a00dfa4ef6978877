package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPaid     RecordStatus = "paid"
	StatusUnpaid   RecordStatus = "unpaid"
	StatusPending  RecordStatus = "pending"
	StatusReceived RecordStatus = "received"
	StatusOverdue  RecordStatus = "overdue"
	StatusPartial  RecordStatus = "partial"
)

const (
	ClientLead     ClientStatus = "lead"
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientLost     ClientStatus = "lost"
)

const (
	GoalFinancial GoalType = "financial"
	GoalPersonal  GoalType = "personal"
)

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type (
	RecordStatus string
	ClientStatus string
	GoalType     string
	Priority     string

	// Meta carries identity and timestamps shared by every stored entity.
	// CreatedAt is set once at creation; UpdatedAt is refreshed on every
	// mutation.
	Meta struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// LineItem is one row of an invoice or estimate. DiscountPercent is
	// optional; tools that only support an invoice-level discount leave it
	// zero.
	LineItem struct {
		ID              string          `json:"id"`
		Name            string          `json:"name"`
		Description     string          `json:"description,omitempty"`
		Quantity        decimal.Decimal `json:"quantity"`
		UnitPrice       decimal.Decimal `json:"unitPrice"`
		TaxPercent      decimal.Decimal `json:"taxPercent"`
		DiscountPercent decimal.Decimal `json:"discountPercent"`
	}

	// MoneyRecord is the shared base of every dated, categorized money entry
	// (expense, income, payment). The tool-specific trackers differ only in
	// which status values they use.
	MoneyRecord struct {
		Meta
		Date          time.Time       `json:"date"`
		Category      string          `json:"category"`
		Amount        decimal.Decimal `json:"amount"`
		Status        RecordStatus    `json:"status"`
		PaymentMethod string          `json:"paymentMethod,omitempty"`
		Description   string          `json:"description,omitempty"`
	}

	Client struct {
		Meta
		Name         string          `json:"name"`
		Email        string          `json:"email"`
		Company      string          `json:"company,omitempty"`
		Tags         []string        `json:"tags,omitempty"`
		Status       ClientStatus    `json:"status"`
		DealAmount   decimal.Decimal `json:"dealAmount"`
		TotalRevenue decimal.Decimal `json:"totalRevenue"`
	}

	Goal struct {
		Meta
		Name          string          `json:"name"`
		Type          GoalType        `json:"type"`
		TargetAmount  decimal.Decimal `json:"targetAmount"`
		CurrentAmount decimal.Decimal `json:"currentAmount"`
		TargetDate    time.Time       `json:"targetDate"`
		Priority      Priority        `json:"priority"`
	}
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyCategory = errors.New("empty category")
	ErrUnknownStatus = errors.New("unknown status")
)

func (s RecordStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusUnpaid, StatusPending, StatusReceived, StatusOverdue, StatusPartial:
		return true
	default:
		return false
	}
}

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientLead, ClientActive, ClientInactive, ClientLost:
		return true
	default:
		return false
	}
}

// RecordID returns the entity id.
func (m *Meta) RecordID() string { return m.ID }

// SetRecordID assigns the entity id.
func (m *Meta) SetRecordID(id string) { m.ID = id }

// Touch refreshes the update timestamp.
func (m *Meta) Touch(now time.Time) {
	m.UpdatedAt = now
}

// Stamp fills in creation and update timestamps, preserving an existing
// CreatedAt.
func (m *Meta) Stamp(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// AddToGoal increases the goal's current amount by the given delta. Negative
// deltas are ignored: progress is never silently decreased.
func (g *Goal) AddToGoal(delta decimal.Decimal, now time.Time) {
	if delta.Sign() < 0 {
		return
	}
	g.CurrentAmount = g.CurrentAmount.Add(delta)
	g.Touch(now)
}
