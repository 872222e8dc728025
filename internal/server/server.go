// Package server exposes the projection engine over a JSON HTTP API. The
// baseline model is loaded once at startup and shared read-only across
// requests; each request builds its own series, so no locking is needed.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/population-forecast/internal/baseline"
	"github.com/iwvelando/population-forecast/internal/config"
	"github.com/iwvelando/population-forecast/internal/optimizer"
	"github.com/iwvelando/population-forecast/internal/projection"
	"github.com/iwvelando/population-forecast/pkg/output"
	"github.com/iwvelando/population-forecast/pkg/validation"
	"go.uber.org/zap"
)

type handler struct {
	logger      *zap.Logger
	engine      *projection.Engine
	defaults    *Config
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the projection API.
func NewHandler(logger *zap.Logger, engine *projection.Engine, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg, _ = LoadConfig("")
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		engine:      engine,
		defaults:    cfg,
		maxBodySize: cfg.BodySizeBytes(),
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()

	// Projection API endpoint
	mux.HandleFunc("/api/projection", h.handleProjection)

	// Solver API endpoint
	mux.HandleFunc("/api/solve", h.handleSolve)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type projectionRequest struct {
	BaseYear             int      `json:"baseYear"`
	EndYear              int      `json:"endYear"`
	AnchorStep           int      `json:"anchorStep"`
	TFR                  *float64 `json:"tfr"`
	LifeExpectancyMale   *float64 `json:"lifeExpectancyMale"`
	LifeExpectancyFemale *float64 `json:"lifeExpectancyFemale"`
	NetMigrationAnnual   *float64 `json:"netMigrationAnnual"`
}

type yearTotals struct {
	Total  int `json:"total"`
	Male   int `json:"male"`
	Female int `json:"female"`
}

type projectionResponse struct {
	Anchors      []int                     `json:"anchors"`
	AnchorSeries map[int]baseline.Snapshot `json:"anchorSeries"`
	AnnualSeries map[int]baseline.Snapshot `json:"annualSeries"`
	Totals       map[int]yearTotals        `json:"totals"`
	CSV          string                    `json:"csv"`
	Warnings     []string                  `json:"warnings,omitempty"`
	Duration     string                    `json:"duration"`
}

type solveRequest struct {
	projectionRequest
	Target config.Target `json:"target"`
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, err := h.decodeProjectionRequest(w, r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleProjection")
		return
	}

	warnings := validation.ValidateParameters(req.TFR, req.LifeExpectancyMale, req.LifeExpectancyFemale)

	result, err := h.engine.Project(projection.Request{
		BaseYear:   req.BaseYear,
		EndYear:    req.EndYear,
		AnchorStep: req.AnchorStep,
		Parameters: projection.Parameters{
			TFR:                  req.TFR,
			LifeExpectancyMale:   req.LifeExpectancyMale,
			LifeExpectancyFemale: req.LifeExpectancyFemale,
			NetMigrationAnnual:   req.NetMigrationAnnual,
		},
	})
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleProjection")
		return
	}

	totals := make(map[int]yearTotals, len(result.Anchors))
	for _, anchor := range result.Anchors {
		snap := result.AnchorSeries[anchor]
		totals[anchor] = yearTotals{Total: snap.Total(), Male: snap.MaleTotal(), Female: snap.FemaleTotal()}
	}

	elapsed := time.Since(start)
	response := projectionResponse{
		Anchors:      result.Anchors,
		AnchorSeries: result.AnchorSeries,
		AnnualSeries: result.AnnualSeries,
		Totals:       totals,
		CSV:          output.CsvString([]projection.ScenarioResult{{Name: "projection", Result: result}}),
		Warnings:     warnings,
		Duration:     elapsed.String(),
	}

	h.logger.Info("projection computed",
		zap.String("op", "server.handleProjection"),
		zap.Int("baseYear", req.BaseYear),
		zap.Int("anchors", len(result.Anchors)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, h.decodeErrorMessage(err), "server.handleSolve")
		return
	}
	h.applyDefaults(&req.projectionRequest)

	target := req.Target
	conf := &config.Configuration{
		BaseYear:   req.BaseYear,
		EndYear:    req.EndYear,
		AnchorStep: req.AnchorStep,
		Scenarios: []config.Scenario{
			{
				Name:                 "api",
				Active:               true,
				TFR:                  req.TFR,
				LifeExpectancyMale:   req.LifeExpectancyMale,
				LifeExpectancyFemale: req.LifeExpectancyFemale,
				NetMigrationAnnual:   req.NetMigrationAnnual,
				Target:               &target,
			},
		},
	}

	runner, err := optimizer.NewRunner(h.logger, h.engine, conf)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), "server.handleSolve")
		return
	}

	result, err := runner.Run()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleSolve")
		return
	}

	summaries := result.Summaries["api"]
	if len(summaries) == 0 {
		h.respondError(w, http.StatusBadRequest, "no solvable target in request", "server.handleSolve")
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("solver target evaluated",
		zap.String("op", "server.handleSolve"),
		zap.String("field", summaries[0].Field),
		zap.Bool("converged", summaries[0].Converged),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"solution": summaries[0],
		"duration": elapsed.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) decodeProjectionRequest(w http.ResponseWriter, r *http.Request) (*projectionRequest, error) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	// An empty body runs the baseline projection over the default years.
	var req projectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.New(h.decodeErrorMessage(err))
	}
	h.applyDefaults(&req)
	return &req, nil
}

func (h *handler) applyDefaults(req *projectionRequest) {
	if req.BaseYear == 0 {
		req.BaseYear = h.defaults.BaseYear
	}
	if req.EndYear == 0 {
		req.EndYear = h.defaults.EndYear
	}
	if req.AnchorStep == 0 {
		req.AnchorStep = h.defaults.AnchorStep
	}
}

func (h *handler) decodeErrorMessage(err error) string {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize)
	}
	return fmt.Sprintf("failed to decode request: %v", err)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
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
