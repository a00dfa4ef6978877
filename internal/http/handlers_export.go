package http

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"bizhub/internal/core"
	"bizhub/internal/export"
	"bizhub/internal/log"
	"bizhub/internal/middleware/authn"
)

// handleExport serves /api/export/{kind}.csv (GET, CSV download) and
// /api/export/{kind}/spreadsheet (POST, push to the configured Google
// Sheet). Both operate on the authenticated user's live record list.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	uid := authn.UserID(r.Context())
	s.followUser(uid)

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/export/"), "/")
	if kind, ok := strings.CutSuffix(name, "/spreadsheet"); ok && kind != "" {
		s.exportSpreadsheet(w, r, uid, kind)
		return
	}
	kind, ok := strings.CutSuffix(name, ".csv")
	if !ok || kind == "" {
		writeError(w, http.StatusNotFound, "unknown export target")
		return
	}
	s.exportCSV(w, r, uid, kind)
}

// exportCSV renders the file fully in memory before any byte is written,
// so a failure yields one error response and never a truncated file.
func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request, uid, kind string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	columns, rows, ok := s.exportRows(uid, kind)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown record kind")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, columns, rows); err != nil {
		s.logger.ErrorContext(r.Context(), "export failed",
			log.FieldRecordKind, kind,
			log.FieldOperation, log.OpExport,
			log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := export.Filename(kind, time.Now().Format("2006-01-02"), "csv")
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// exportSpreadsheet pushes the record list to the configured Google Sheet,
// one worksheet per kind.
func (s *Server) exportSpreadsheet(w http.ResponseWriter, r *http.Request, uid, kind string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if s.spreadsheet == nil {
		writeError(w, http.StatusServiceUnavailable, "spreadsheet export is not configured")
		return
	}
	columns, rows, ok := s.exportRows(uid, kind)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown record kind")
		return
	}

	if err := s.spreadsheet.Export(r.Context(), kind, columns, rows); err != nil {
		s.logger.ErrorContext(r.Context(), "spreadsheet export failed",
			log.FieldRecordKind, kind,
			log.FieldOperation, log.OpExport,
			log.FieldError, err)
		writeError(w, http.StatusBadGateway, "export failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"exported": len(rows), "sheet": kind})
}

func (s *Server) exportRows(uid, kind string) (columns []string, rows [][]string, ok bool) {
	st, found := s.hub.MoneyStore(kind)
	if !found {
		return nil, nil, false
	}
	ptrs := st.Records(uid)
	records := make([]core.MoneyRecord, 0, len(ptrs))
	for _, p := range ptrs {
		records = append(records, *p)
	}
	columns, rows = export.RecordRows(records)
	return columns, rows, true
}
