package http

import (
	"net/http"

	"cashflow/internal/ledger"
	"cashflow/internal/log"
)

func (s *Server) handleGetBudgets(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.tracker.Budgets()).Write(w)
}

// handleUpdateBudgets replaces the whole configuration.
func (s *Server) handleUpdateBudgets(w http.ResponseWriter, r *http.Request) {
	var req BudgetsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.decodeError(w, r, log.OpUpdate, err)
		return
	}
	cfg, err := req.Budgets()
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	if _, err := s.tracker.Apply(r.Context(), ledger.UpdateBudgets{Budgets: cfg}); err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(s.tracker.Budgets()).Write(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.tracker.Apply(r.Context(), ledger.Export{})
	if err != nil {
		s.writeError(w, r, log.OpExport, err)
		return
	}
	NewJSONResponse().
		Raw(res.Document, contentTypeJSON).
		Attachment(res.Filename).
		Write(w)
}

// handleImport applies an export document. A malformed document answers
// 400 and leaves the state untouched.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.decodeError(w, r, log.OpImport, err)
		return
	}
	res, err := s.tracker.Apply(r.Context(), ledger.Import{Data: body})
	if err != nil {
		s.writeError(w, r, log.OpImport, err)
		return
	}
	NewJSONResponse().Body(map[string]any{
		"revision":     res.Revision,
		"transactions": len(s.tracker.Transactions(ledger.Filter{})),
		"budgets":      s.tracker.Budgets(),
	}).Write(w)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	res, err := s.tracker.Apply(r.Context(), ledger.Clear{})
	if err != nil {
		s.writeError(w, r, log.OpClear, err)
		return
	}
	log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).WarnContext(r.Context(), "All data cleared",
		log.FieldRevision, res.Revision)
	NewJSONResponse().Body(map[string]any{"revision": res.Revision}).Write(w)
}
