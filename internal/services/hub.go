package services

import (
	"context"
	"encoding/json"

	"bizhub/internal/core"
	"bizhub/internal/log"
	"bizhub/internal/store"
)

// Entity-type keys. Each key names one per-user collection in the
// document backend.
const (
	KindExpenses      = "expenseTracker"
	KindIncome        = "incomeTracker"
	KindPayments      = "paymentTracker"
	KindClients       = "clientCRM"
	KindGoals         = "goalTracker"
	KindSubscriptions = "subscriptionTracker"
)

// Hub owns the typed sync stores for one process, all sharing a single
// document backend.
type Hub struct {
	Expenses      *store.SyncStore[core.MoneyRecord, *core.MoneyRecord]
	Income        *store.SyncStore[core.MoneyRecord, *core.MoneyRecord]
	Payments      *store.SyncStore[core.MoneyRecord, *core.MoneyRecord]
	Clients       *store.SyncStore[core.Client, *core.Client]
	Goals         *store.SyncStore[core.Goal, *core.Goal]
	Subscriptions *store.SyncStore[core.Subscription, *core.Subscription]
}

func NewHub(backend store.DocumentStore, logger *log.Logger) *Hub {
	return &Hub{
		Expenses:      store.NewSyncStore[core.MoneyRecord](KindExpenses, backend, logger),
		Income:        store.NewSyncStore[core.MoneyRecord](KindIncome, backend, logger),
		Payments:      store.NewSyncStore[core.MoneyRecord](KindPayments, backend, logger),
		Clients:       store.NewSyncStore[core.Client](KindClients, backend, logger),
		Goals:         store.NewSyncStore[core.Goal](KindGoals, backend, logger),
		Subscriptions: store.NewSyncStore[core.Subscription](KindSubscriptions, backend, logger),
	}
}

// MoneyStore resolves a money-record kind ("expenseTracker",
// "incomeTracker", "paymentTracker") to its store.
func (h *Hub) MoneyStore(kind string) (*store.SyncStore[core.MoneyRecord, *core.MoneyRecord], bool) {
	switch kind {
	case KindExpenses:
		return h.Expenses, true
	case KindIncome:
		return h.Income, true
	case KindPayments:
		return h.Payments, true
	default:
		return nil, false
	}
}

// FailedWrites sums persistence failures across all stores.
func (h *Hub) FailedWrites() int64 {
	return h.Expenses.FailedWrites() +
		h.Income.FailedWrites() +
		h.Payments.FailedWrites() +
		h.Clients.FailedWrites() +
		h.Goals.FailedWrites() +
		h.Subscriptions.FailedWrites()
}

// Collection is a type-erased view of one sync store, enough for the
// snapshot service to subscribe and serialize without knowing the entity
// type.
type Collection struct {
	Kind      string
	Subscribe func(ctx context.Context, userID string, onChange func(payload []byte)) (store.CancelFunc, error)
}

// Collections returns the type-erased view of every store in the hub.
func (h *Hub) Collections() []Collection {
	return []Collection{
		collectionOf(h.Expenses),
		collectionOf(h.Income),
		collectionOf(h.Payments),
		collectionOf(h.Clients),
		collectionOf(h.Goals),
		collectionOf(h.Subscriptions),
	}
}

func collectionOf[U any, T interface {
	*U
	store.Record
}](s *store.SyncStore[U, T]) Collection {
	return Collection{
		Kind: s.Kind(),
		Subscribe: func(ctx context.Context, userID string, onChange func([]byte)) (store.CancelFunc, error) {
			return s.Subscribe(ctx, userID, func(records []T) {
				if onChange == nil {
					return
				}
				payload, err := json.Marshal(records)
				if err != nil {
					return
				}
				onChange(payload)
			})
		},
	}
}
