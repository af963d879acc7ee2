package http

import (
	"errors"
	"net/http"
	"time"

	"cashflow/internal/aggregate"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
	"cashflow/internal/log"
	"cashflow/internal/snapshot"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports the tracker state and middleware counters.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	if s.tracker == nil {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	checks := map[string]any{"status": status}
	if s.tracker != nil {
		checks["revision"] = s.tracker.Revision()
		checks["transactions"] = len(s.tracker.Transactions(ledger.Filter{}))
	}
	checks["cache"] = s.dashboards.Stats()
	checks["rate_limit"] = s.limiter.GetMetrics()
	checks["security"] = s.detector.GetMetrics()
	checks["requests"] = s.tracer.GetMetrics()

	NewJSONResponse().Status(code).Body(checks).Write(w)
}

// period parses the period query params, answering 400 on failure.
func (s *Server) period(w http.ResponseWriter, r *http.Request) (core.Period, bool) {
	p, err := ParsePeriod(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return core.Period{}, false
	}
	return p, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := s.period(w, r)
	if !ok {
		return
	}
	NewJSONResponse().Body(s.dashboard(p)).Write(w)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	p, ok := s.period(w, r)
	if !ok {
		return
	}
	typ, err := ParseTypeParam(r.URL.Query(), "type", core.Expense)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	var cmp []aggregate.Comparison
	if typ == core.Income {
		cmp = s.tracker.Engine().IncomeComparison(p)
	} else {
		cmp = s.tracker.Engine().BudgetComparison(typ, p)
	}
	NewJSONResponse().Body(map[string]any{
		"period":     p,
		"type":       typ,
		"categories": cmp,
	}).Write(w)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	p, ok := s.period(w, r)
	if !ok {
		return
	}
	categories := ParseCategories(r.URL.Query(), aggregate.DefaultPerformanceCategories)
	NewJSONResponse().Body(map[string]any{
		"period":     p,
		"categories": s.tracker.Engine().BudgetPerformance(categories, p),
	}).Write(w)
}

func (s *Server) handleBudgetVsActual(w http.ResponseWriter, r *http.Request) {
	p, ok := s.period(w, r)
	if !ok {
		return
	}
	NewJSONResponse().Body(map[string]any{
		"period": p,
		"bars":   s.dashboard(p).BudgetVsActual,
	}).Write(w)
}

// handleCategories lists picker options for one type, or for all of them.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	typ, err := ParseTypeParam(r.URL.Query(), "type", "")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if typ != "" {
		NewJSONResponse().Body(core.CategoryOptions(typ)).Write(w)
		return
	}
	all := make(map[core.TransactionType][]core.CategoryOption)
	for _, t := range core.TransactionTypes() {
		all[t] = core.CategoryOptions(t)
	}
	NewJSONResponse().Body(all).Write(w)
}

// writeError maps ledger and domain errors to status codes. Anything
// unexpected is logged and answered with 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		ErrorResponse(http.StatusRequestEntityTooLarge, "request body too large").Write(w)
	case errors.Is(err, ledger.ErrNotFound):
		NotFoundError("transaction not found").Write(w)
	case errors.Is(err, ledger.ErrDuplicateID):
		ConflictError(err.Error()).Write(w)
	case errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrNegativeAmount),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, errMissingType):
		UnprocessableEntityError(err.Error()).Write(w)
	case errors.Is(err, snapshot.ErrMalformedDocument):
		BadRequestError(err.Error()).Write(w)
	default:
		s.structured.LogError(r.Context(), "Request failed", err, op,
			log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, ""))
		InternalServerError("internal error").Write(w)
	}
}

// decodeError answers a body that could not be decoded.
func (s *Server) decodeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) || errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidDate) {
		s.writeError(w, r, op, err)
		return
	}
	BadRequestError("invalid JSON body: " + err.Error()).Write(w)
}
