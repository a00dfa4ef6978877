package http

import (
	"net/http"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"bizhub/internal/core"
	"bizhub/internal/log"
	"bizhub/internal/middleware/authn"
	"bizhub/internal/services"
	"bizhub/internal/store"
)

// handleRecords routes /api/records/{kind}[/{id}|/summary]. The kind names
// the entity collection ("expenseTracker", "clientCRM", ...); all
// operations run against the authenticated user's collection.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	uid := authn.UserID(r.Context())
	s.followUser(uid)

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/records/"), "/")
	kind, tail, _ := strings.Cut(rest, "/")
	if kind == "" {
		writeError(w, http.StatusBadRequest, "record kind is required")
		return
	}

	if tail == "summary" {
		s.handleSummary(w, r, uid, kind)
		return
	}

	if mst, ok := s.hub.MoneyStore(kind); ok {
		serveRecords(s, mst, w, r, uid, tail)
		return
	}
	switch kind {
	case services.KindClients:
		serveRecords(s, s.hub.Clients, w, r, uid, tail)
	case services.KindGoals:
		serveRecords(s, s.hub.Goals, w, r, uid, tail)
	case services.KindSubscriptions:
		serveRecords(s, s.hub.Subscriptions, w, r, uid, tail)
	default:
		writeError(w, http.StatusNotFound, "unknown record kind")
	}
}

// serveRecords implements the CRUD method switch for one typed store.
// Persistence failures are logged and counted by the store, not surfaced:
// the optimistic local mutation is the response either way and the next
// backend snapshot settles divergence.
func serveRecords[U any, T interface {
	*U
	store.Record
}](s *Server, st *store.SyncStore[U, T], w http.ResponseWriter, r *http.Request, uid, id string) {
	ctx := r.Context()

	switch {
	case r.Method == http.MethodGet && id == "":
		respondJSON(w, http.StatusOK, st.Records(uid))

	case r.Method == http.MethodPost && id == "":
		var u U
		if err := decodeJSON(w, r, &u); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		rec := T(&u)
		if err := st.Add(ctx, uid, rec); err != nil {
			s.logger.WarnContext(ctx, "record saved locally only",
				log.FieldRecordKind, st.Kind(), log.FieldError, err)
		}
		s.InvalidateSummary(uid, st.Kind())
		respondJSON(w, http.StatusCreated, rec)

	case r.Method == http.MethodPut && id != "":
		var u U
		if err := decodeJSON(w, r, &u); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		rec := T(&u)
		rec.SetRecordID(id)
		if err := st.Update(ctx, uid, rec); err != nil {
			s.logger.WarnContext(ctx, "record updated locally only",
				log.FieldRecordKind, st.Kind(), log.FieldError, err)
		}
		s.InvalidateSummary(uid, st.Kind())
		respondJSON(w, http.StatusOK, rec)

	case r.Method == http.MethodDelete && id != "":
		var u U
		rec := T(&u)
		rec.SetRecordID(id)
		if err := st.Remove(ctx, uid, rec); err != nil {
			s.logger.WarnContext(ctx, "record removed locally only",
				log.FieldRecordKind, st.Kind(), log.FieldError, err)
		}
		s.InvalidateSummary(uid, st.Kind())
		w.WriteHeader(http.StatusNoContent)

	case id == "":
		methodNotAllowed(w, http.MethodGet, http.MethodPost)

	default:
		methodNotAllowed(w, http.MethodPut, http.MethodDelete)
	}
}

type summaryResponse struct {
	Kind       string               `json:"kind"`
	Count      int                  `json:"count"`
	Total      decimal.Decimal      `json:"total"`
	ByCategory []core.CategoryTotal `json:"byCategory"`
	Breakdown  []core.CategoryTotal `json:"breakdown"`
	ByMonth    []core.MonthTotal    `json:"byMonth"`
}

// handleSummary aggregates the live money-record list by category and
// month. Results are cached per (user, kind) until the next mutation.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, uid, kind string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	st, ok := s.hub.MoneyStore(kind)
	if !ok {
		writeError(w, http.StatusNotFound, "summaries exist for money-record kinds only")
		return
	}

	key := s.summaryKey(uid, kind)
	if cached, found := s.summaryCache.Get(key); found {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	ptrs := st.Records(uid)
	records := make([]core.MoneyRecord, 0, len(ptrs))
	for _, p := range ptrs {
		records = append(records, *p)
	}

	byCategory := core.GroupByCategory(records, nil)
	totals := make([]core.CategoryTotal, 0, len(byCategory))
	var total decimal.Decimal
	for cat, v := range byCategory {
		totals = append(totals, core.CategoryTotal{Category: cat, Total: v})
		total = total.Add(v)
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].Category < totals[j].Category
	})

	summary := summaryResponse{
		Kind:       kind,
		Count:      len(records),
		Total:      total,
		ByCategory: totals,
		Breakdown:  core.CategoryBreakdown(byCategory),
		ByMonth:    core.GroupByMonth(records),
	}
	s.summaryCache.Set(key, summary)
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) summaryKey(uid, kind string) string {
	return uid + "/" + kind
}

// InvalidateSummary drops the cached summary for one user's collection.
// Called after local mutations and wired into the snapshot subscriptions,
// so writes echoing in from other sessions evict stale aggregates too.
func (s *Server) InvalidateSummary(uid, kind string) {
	s.summaryCache.Delete(s.summaryKey(uid, kind))
}
