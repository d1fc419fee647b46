// Package httpapi serves the classified equipment state as read-only JSON for a dashboard.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vibromon/internal/analysis"
	"vibromon/internal/service"
)

// SnapshotSource yields the current classified state of the measurement source.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*service.Snapshot, error)
}

// Handler maps API requests to snapshot lookups.
type Handler struct {
	source SnapshotSource
	logger zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(source SnapshotSource, logger zerolog.Logger) *Handler {
	return &Handler{source: source, logger: logger}
}

// RegisterRoutes mounts the equipment endpoints under the current router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/equipment", h.HandleListEquipment)
	r.Get("/equipment/{id}", h.HandleGetEquipment)
	r.Get("/summary", h.HandleSummary)
	r.Get("/classify", h.HandleClassify)
}

type equipmentList struct {
	Source   string                `json:"source"`
	LoadedAt time.Time             `json:"loadedAt"`
	Items    []analysis.Classified `json:"items"`
}

type equipmentDetail struct {
	analysis.Classified
	Latest float64         `json:"latest"`
	Limits analysis.Limits `json:"limits"`
}

type summaryResponse struct {
	Source   string           `json:"source"`
	LoadedAt time.Time        `json:"loadedAt"`
	Summary  analysis.Summary `json:"summary"`
}

type classifyResponse struct {
	analysis.Classification
	Vibration float64         `json:"vibration"`
	Power     float64         `json:"power"`
	Limits    analysis.Limits `json:"limits"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleListEquipment handles GET /api/v1/equipment with an optional ?zone= floor.
func (h *Handler) HandleListEquipment(w http.ResponseWriter, r *http.Request) {
	floor := analysis.ZoneA
	if raw := r.URL.Query().Get("zone"); raw != "" {
		z, err := analysis.ParseZone(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		floor = z
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, equipmentList{
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
		Items:    analysis.FilterMinZone(snap.Items, floor),
	})
}

// HandleGetEquipment handles GET /api/v1/equipment/{id}.
func (h *Handler) HandleGetEquipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	item, found := snap.Find(id)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("equipment %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, equipmentDetail{
		Classified: item,
		Latest:     item.Latest(),
		Limits:     item.Limits(),
	})
}

// HandleSummary handles GET /api/v1/summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
		Summary:  snap.Summary,
	})
}

// HandleClassify handles GET /api/v1/classify?vibration=&power=.
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	vibration, err := parseFinite(q.Get("vibration"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "vibration: "+err.Error())
		return
	}
	power, err := parseFinite(q.Get("power"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "power: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, classifyResponse{
		Classification: analysis.Classify(vibration, power),
		Vibration:      vibration,
		Power:          power,
		Limits:         analysis.LimitsFor(power),
	})
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (*service.Snapshot, bool) {
	snap, err := h.source.Snapshot(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("source unavailable")
		writeError(w, http.StatusServiceUnavailable, "measurement source unavailable")
		return nil, false
	}
	return snap, true
}

func parseFinite(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("query parameter is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be a finite number")
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
