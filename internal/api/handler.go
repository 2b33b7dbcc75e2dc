package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/san-kum/eqsolve/internal/automation"
	"github.com/san-kum/eqsolve/internal/catalog"
	"github.com/san-kum/eqsolve/internal/resolver"
	"github.com/san-kum/eqsolve/internal/storage"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// Handler serves the catalog and resolver. History may be nil, in which
// case solves are not recorded.
type Handler struct {
	catalog   *catalog.Catalog
	resolver  *resolver.Resolver
	history   *storage.Store
	precision int
	logger    *slog.Logger
}

func NewHandler(
	cat *catalog.Catalog,
	r *resolver.Resolver,
	history *storage.Store,
	precision int,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		catalog:   cat,
		resolver:  r,
		history:   history,
		precision: precision,
		logger:    logger.With("component", "api"),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		h.logger.Error("failed to write health check response", "error", err)
	}
}

func (h *Handler) ListEquations(w http.ResponseWriter, r *http.Request) {
	var eqs []catalog.Equation
	if category := r.URL.Query().Get("category"); category != "" {
		eqs = h.catalog.ListCategory(category)
	} else {
		eqs = h.catalog.List()
	}
	h.respondJSON(w, http.StatusOK, eqs)
}

func (h *Handler) GetEquation(w http.ResponseWriter, r *http.Request) {
	eq, err := h.catalog.Get(chi.URLParam(r, "name"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, eq)
}

func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	precision := h.precision
	if req.Precision != nil {
		precision = *req.Precision
	}

	resp := SolveResponse{Equation: req.Equation, Formula: req.Formula, Unknown: req.SolveFor}

	var (
		res *resolver.Result
		err error
	)
	if req.Formula != "" {
		res, err = h.resolver.SolveDetailed(req.Formula, req.Known, req.SolveFor)
	} else {
		var eq catalog.Equation
		eq, err = h.catalog.Get(req.Equation)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		resp.Equation = eq.Name
		resp.Formula = eq.Formula
		resp.Unit = eq.Unit(req.SolveFor)
		res, err = eq.Solve(h.resolver, req.Known, req.SolveFor)
	}

	if id := h.record(resp, req.Known, res, err); id != "" {
		resp.HistoryID = id
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp.Value = resolver.Round(res.Value, precision)
	resp.Display = resolver.Format(res.Value, precision)
	resp.Iterations = res.Iterations
	resp.Residual = res.Residual
	if req.Trace {
		resp.Trace = res.Trace
	}

	h.logger.Debug("solved",
		"formula", resp.Formula,
		"unknown", resp.Unknown,
		"value", res.Value,
		"iterations", res.Iterations)

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	eq, err := h.catalog.Get(req.Equation)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	sweep := &automation.Sweep{
		Equation: eq,
		Known:    req.Known,
		Unknown:  req.SolveFor,
		Vary:     req.Vary,
		Min:      req.From,
		Max:      req.To,
		Points:   req.Points,
	}
	result, err := automation.RunSweep(r.Context(), sweep, h.resolver)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := SweepResponse{
		Equation: eq.Name,
		Vary:     result.Vary,
		Unknown:  result.Unknown,
		Points:   make([]SweepPoint, len(result.Points)),
		Failures: result.Failures(),
	}
	for i, p := range result.Points {
		pt := SweepPoint{Input: p.Input}
		if p.Err != nil {
			pt.Error = p.Err.Error()
		} else {
			v := resolver.Round(p.Value, h.precision)
			pt.Value = &v
		}
		resp.Points[i] = pt
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// record saves the attempt to history and returns its ID. Request errors
// are not recorded; only attempts that reached the solver are.
func (h *Handler) record(resp SolveResponse, known map[string]float64, res *resolver.Result, err error) string {
	if h.history == nil || (err != nil && MapErrorToStatusCode(err) != http.StatusUnprocessableEntity) {
		return ""
	}
	rec := storage.NewRecord(resp.Equation, resp.Formula, resp.Unknown, known, res, err)
	id, saveErr := h.history.Save(rec)
	if saveErr != nil {
		h.logger.Warn("failed to save history record", "error", saveErr)
		return ""
	}
	return id
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes the error body. 5xx responses are logged at error
// level, client errors at debug.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	attrs := []any{
		"status_code", status,
		"path", r.URL.Path,
		"method", r.Method,
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", attrs...)
	} else {
		h.logger.Debug("request rejected", attrs...)
	}

	h.respondJSON(w, status, ErrorResponse{Error: safeMessage(err), Kind: ErrorKind(err)})
}
