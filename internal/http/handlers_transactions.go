package http

import (
	"net/http"

	"cashflow/internal/core"
	"cashflow/internal/ledger"
	"cashflow/internal/log"
)

// handleListTransactions lists transactions newest first. Without year or
// month every period is returned.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ, err := ParseTypeParam(q, "type", "")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	f := ledger.Filter{Type: typ}
	if q.Has("year") || q.Has("month") {
		p, ok := s.period(w, r)
		if !ok {
			return
		}
		f.Period = &p
	}

	txs := s.tracker.Transactions(f)
	if txs == nil {
		txs = []core.Transaction{}
	}
	NewJSONResponse().Body(txs).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := s.tracker.Transaction(r.PathValue("id"))
	if !ok {
		NotFoundError("transaction not found").Write(w)
		return
	}
	NewJSONResponse().Body(tx).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.decodeError(w, r, log.OpCreate, err)
		return
	}
	tx, err := req.Transaction("")
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}

	res, err := s.tracker.Apply(r.Context(), ledger.AddTransaction{Transaction: tx})
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	s.logTransaction(r, "Transaction created", res)
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+res.Transaction.ID).
		Body(res.Transaction).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.decodeError(w, r, log.OpUpdate, err)
		return
	}
	tx, err := req.Transaction(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}

	res, err := s.tracker.Apply(r.Context(), ledger.UpdateTransaction{Transaction: tx})
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	s.logTransaction(r, "Transaction updated", res)
	NewJSONResponse().Body(res.Transaction).Write(w)
}

// handleDeleteTransaction answers 204 whether or not the id existed.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if _, err := s.tracker.Apply(r.Context(), ledger.DeleteTransaction{ID: r.PathValue("id")}); err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	NoContent().Write(w)
}

func (s *Server) logTransaction(r *http.Request, msg string, res ledger.Result) {
	tx := res.Transaction
	fields := log.NewFields().
		WithTransaction(tx.ID, string(tx.Type), tx.Category, tx.Amount.String()).
		ToSlice()
	fields = append(fields, log.FieldRevision, res.Revision)
	log.FromContext(r.Context()).WithComponent(log.ComponentHTTP).InfoContext(r.Context(), msg, fields...)
}
