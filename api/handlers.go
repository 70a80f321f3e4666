package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	analyticsapp "covidstats/internal/analytics/application"
	analyticsdomain "covidstats/internal/analytics/domain"
	exportapp "covidstats/internal/export/application"
	exportdomain "covidstats/internal/export/domain"
	recordsdomain "covidstats/internal/records/domain"
	shareddomain "covidstats/internal/shared/domain"
)

// Handlers contient les handlers HTTP en lecture seule
type Handlers struct {
	store         analyticsapp.SnapshotProvider
	viewService   *analyticsapp.ViewService
	exportService *exportapp.ExportService
	logger        *zap.Logger
}

// NewHandlers crée une nouvelle instance des handlers
func NewHandlers(
	store analyticsapp.SnapshotProvider,
	viewService *analyticsapp.ViewService,
	exportService *exportapp.ExportService,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		store:         store,
		viewService:   viewService,
		exportService: exportService,
		logger:        logger.Named("http"),
	}
}

// Routes enregistre les routes sur un nouveau mux
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/views", h.ListViews)
	mux.HandleFunc("GET /api/views/{name}", h.GetView)
	return mux
}

type healthResponse struct {
	Status       string `json:"status"`
	Snapshot     string `json:"snapshot,omitempty"`
	LoadedAt     string `json:"loaded_at,omitempty"`
	Cases        int    `json:"cases"`
	Vaccinations int    `json:"vaccinations"`
	Coverage     string `json:"coverage,omitempty"`
	Coercions    int    `json:"coercions"`
}

// Health handler pour GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot()
	if errors.Is(err, recordsdomain.ErrNoSnapshot) {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "loading"})
		return
	}
	if err != nil {
		h.internalError(w, "health", err)
		return
	}

	resp := healthResponse{
		Status:       "ok",
		Snapshot:     snap.ID().String(),
		LoadedAt:     snap.LoadedAt().UTC().Format(time.RFC3339),
		Cases:        snap.Cases().Len(),
		Vaccinations: snap.Vaccinations().Len(),
		Coverage:     coverageOf(snap.Coverage()),
		Coercions:    len(snap.Issues()),
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListViews handler pour GET /api/views
func (h *Handlers) ListViews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]analyticsdomain.ViewName{
		"views": h.viewService.Views(),
	})
}

// GetView handler pour GET /api/views/{name}?format=csv|json|parquet
func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	name := analyticsdomain.ViewName(r.PathValue("name"))

	format, err := exportdomain.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	job, err := exportdomain.NewExportJob(name, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.exportService.ExportBytes(r.Context(), job)
	switch {
	case errors.Is(err, analyticsdomain.ErrUnknownView):
		http.Error(w, fmt.Sprintf("unknown view %q", name), http.StatusNotFound)
		return
	case errors.Is(err, recordsdomain.ErrNoSnapshot):
		http.Error(w, "data not loaded yet", http.StatusServiceUnavailable)
		return
	case err != nil:
		h.internalError(w, "view "+string(name), err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format != exportdomain.ExportFormatJSON {
		w.Header().Set("Content-Disposition", "attachment; filename="+job.FileName())
	}
	_, _ = w.Write(data)
}

func (h *Handlers) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// coverageOf période couverte formatée, vide si aucune ligne
func coverageOf(dr shareddomain.DateRange) string {
	if dr.IsZero() {
		return ""
	}
	return dr.String()
}
