package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maplepay/paycalc/internal/calculation"
	"github.com/maplepay/paycalc/internal/domain"
	"github.com/maplepay/paycalc/internal/tables"
)

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	Engine *calculation.Engine
	Store  *tables.Store
}

// NewHandler creates a handler over the given store.
func NewHandler(store *tables.Store) *Handler {
	return &Handler{Engine: calculation.NewEngine(store), Store: store}
}

// Health responds 200 while the process is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Calculate runs one employee-period calculation.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "input", "malformed request body: "+err.Error())
		return
	}

	result, err := h.Engine.Calculate(req.Year, req.Edition, &req.Input, req.Ytd)
	if err != nil {
		writeCalcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CalculateBatch runs a whole pay run. Per-item failures are reported inside
// the 200 response; the run itself only fails on a malformed request.
func (h *Handler) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "input", "malformed request body: "+err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "input", "batch has no items")
		return
	}

	batch := h.Engine.CalculateBatch(req.Year, req.Edition, req.Items)
	writeJSON(w, http.StatusOK, batch)
}

// ListTables lists the loaded (year, edition) keys.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TablesResponse{Editions: h.Store.Editions()})
}

// GetTable returns one loaded tax-year config.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "input", "year must be an integer")
		return
	}
	cfg, err := h.Store.Lookup(year, domain.Edition(chi.URLParam(r, "edition")))
	if err != nil {
		writeError(w, http.StatusNotFound, "config", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// writeCalcError maps the engine's error taxonomy onto HTTP statuses: caller
// contract violations are 400s, table problems are 422s, anything else is a
// 500.
func writeCalcError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInput):
		writeError(w, http.StatusBadRequest, "input", err.Error())
	case errors.Is(err, domain.ErrConfig):
		writeError(w, http.StatusUnprocessableEntity, "config", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Kind: kind})
}
