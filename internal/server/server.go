// Package server exposes the amortization engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/loan-amortization/internal/schedule"
	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/output"
	"github.com/iwvelando/loan-amortization/pkg/store"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Options configures the handler returned by NewHandler.
type Options struct {
	MaxBodySize  int64
	MaxOverrides int
	Version      string
	Store        store.Store
	Limiter      *RateLimiter
	Now          func() time.Time
}

type handler struct {
	logger       *zap.Logger
	maxBodySize  int64
	maxOverrides int
	version      string
	store        store.Store
	now          func() time.Time
	metrics      *metrics
}

// NewHandler constructs the HTTP handler that serves the schedule and state API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	h := &handler{
		logger:       logger,
		maxBodySize:  opts.MaxBodySize,
		maxOverrides: opts.MaxOverrides,
		version:      trimmedVersion,
		store:        opts.Store,
		now:          opts.Now,
		metrics:      newMetrics(),
	}

	mux := http.NewServeMux()

	// Schedule computation
	mux.HandleFunc("POST /api/schedule", h.limitBody(h.metrics.instrument("schedule", h.handleSchedule)))
	mux.HandleFunc("POST /api/schedule/export", h.limitBody(h.metrics.instrument("export", h.handleExport)))

	// Persisted state
	mux.HandleFunc("POST /api/state", h.limitBody(h.metrics.instrument("state_save", h.handleSaveState)))
	mux.HandleFunc("GET /api/state/{key}", h.metrics.instrument("state_load", h.handleLoadState))
	mux.HandleFunc("DELETE /api/state/{key}", h.metrics.instrument("state_delete", h.handleDeleteState))

	// Metadata and operations
	mux.HandleFunc("GET /api/version", h.handleVersion)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", h.metrics.handler())

	if opts.Limiter != nil {
		return opts.Limiter.Middleware(mux)
	}
	return mux
}

type scheduleRequest struct {
	Key       string                     `json:"key,omitempty"`
	Inputs    amortization.RawLoanInputs `json:"inputs"`
	Overrides []amortization.RawOverride `json:"overrides,omitempty"`
	StartDate string                     `json:"startDate,omitempty"`
}

type scheduleResponse struct {
	Key string `json:"key,omitempty"`
	output.Report
	SavedAt  string `json:"savedAt,omitempty"`
	Duration string `json:"duration"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"

	_, result, ok := h.compute(w, r, op)
	if !ok {
		return
	}

	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.Int("rows", len(result.Schedule.Rows)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", result.Duration),
	)

	h.writeJSON(w, http.StatusOK, scheduleResponse{
		Report:   output.NewReport(result),
		Duration: result.Duration.String(),
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	_, result, ok := h.compute(w, r, op)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="amortization.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := output.CsvFormat(w, result); err != nil {
		h.logger.Error("failed to write CSV response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleSaveState(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveState"

	req, result, ok := h.compute(w, r, op)
	if !ok {
		return
	}

	key := strings.TrimSpace(req.Key)
	if key == "" {
		key = store.NewKey()
	}

	saved, err := store.SaveState(r.Context(), h.store, key, store.State{
		Inputs:    req.Inputs,
		Overrides: req.Overrides,
		StartDate: req.StartDate,
		Rows:      result.Schedule.Rows,
		Summary:   result.Summary,
	})
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), fmt.Sprintf("failed to save state: %v", err), op)
		return
	}

	h.logger.Info("state saved",
		zap.String("op", op),
		zap.String("key", key),
		zap.Int("rows", len(saved.Rows)),
	)

	h.writeJSON(w, http.StatusCreated, scheduleResponse{
		Key:      key,
		Report:   output.NewReport(result),
		SavedAt:  saved.SavedAt.Format(time.RFC3339),
		Duration: result.Duration.String(),
	})
}

type stateResponse struct {
	Key       string                     `json:"key"`
	Inputs    amortization.RawLoanInputs `json:"inputs"`
	Overrides []amortization.RawOverride `json:"overrides,omitempty"`
	StartDate string                     `json:"startDate,omitempty"`
	Rows      []output.ReportRow         `json:"rows"`
	Summary   amortization.Summary       `json:"summary"`
	SavedAt   string                     `json:"savedAt"`
}

func (h *handler) handleLoadState(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLoadState"
	key := r.PathValue("key")

	state, err := store.LoadState(r.Context(), h.store, key)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), fmt.Sprintf("failed to load state %q: %v", key, err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, stateResponse{
		Key:       key,
		Inputs:    state.Inputs,
		Overrides: state.Overrides,
		StartDate: state.StartDate,
		Rows:      output.NewReportRows(state.Rows),
		Summary:   state.Summary,
		SavedAt:   state.SavedAt.Format(time.RFC3339),
	})
}

func (h *handler) handleDeleteState(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteState"
	key := r.PathValue("key")

	if err := h.store.Delete(r.Context(), key); err != nil {
		h.respondErrorWithOp(w, statusFor(err), fmt.Sprintf("failed to delete state %q: %v", key, err), op)
		return
	}

	h.logger.Info("state deleted", zap.String("op", op), zap.String("key", key))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, fmt.Sprintf("store unavailable: %v", err), "server.handleHealth")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// limitBody caps the request body on the server's own ResponseWriter so an
// oversized body also closes the connection.
func (h *handler) limitBody(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
		next(w, r)
	}
}

// compute decodes the request body and runs the schedule. On failure the
// error response has already been written and ok is false.
func (h *handler) compute(w http.ResponseWriter, r *http.Request, op string) (scheduleRequest, schedule.Result, bool) {
	var req scheduleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return req, schedule.Result{}, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return req, schedule.Result{}, false
	}

	result, err := schedule.Compute(h.logger, schedule.Request{
		Loan:         req.Inputs,
		Overrides:    req.Overrides,
		StartDate:    req.StartDate,
		MaxOverrides: h.maxOverrides,
	}, h.now)
	if err != nil {
		h.metrics.observeCalculation(outcome(err), 0)
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return req, result, false
	}
	h.metrics.observeCalculation("ok", result.Duration)

	return req, result, true
}

func outcome(err error) string {
	switch amortization.KindOf(err) {
	case amortization.KindInvalidInputs:
		return "invalid_inputs"
	case amortization.KindDegenerateSchedule:
		return "degenerate_schedule"
	default:
		return "error"
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, amortization.ErrInvalidInputs), errors.Is(err, store.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, amortization.ErrDegenerateSchedule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
