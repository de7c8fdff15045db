package http

import (
	"errors"
	"net/http"
	"strconv"

	apihttp "coopweigh/internal/api/http"
	"coopweigh/internal/auth"
	identity "coopweigh/internal/identity/domain"
	"coopweigh/internal/leaderboard/application"
	"coopweigh/internal/observability/metrics"
)

// Handler provides the /leaderboard endpoints.
type Handler struct {
	service *application.Service
}

// NewHandler constructs a handler.
func NewHandler(service *application.Service) (*Handler, error) {
	if service == nil {
		return nil, errors.New("leaderboard handler: nil service")
	}
	return &Handler{service: service}, nil
}

// EntryDTO is one ranked leaderboard position.
type EntryDTO struct {
	WorkerID       string  `json:"workerId"`
	WorkerName     string  `json:"workerName"`
	TotalWeightKg  float64 `json:"totalWeightKg"`
	TotalWeighings int64   `json:"totalWeighings"`
}

// ServeHTTP routes the /leaderboard surface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/leaderboard/top-collectors" && r.Method == http.MethodGet:
		h.handleTopCollectors(w, r)
	case r.URL.Path == "/leaderboard/report.pdf" && r.Method == http.MethodGet:
		h.handleReportPDF(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleTopCollectors(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.loadEntries(w, r)
	if !ok {
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, EntryDTO{
			WorkerID:       strconv.FormatInt(entry.WorkerID, 10),
			WorkerName:     entry.WorkerName,
			TotalWeightKg:  entry.TotalWeightKg,
			TotalWeighings: entry.TotalWeighings,
		})
	}
	apihttp.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.loadEntries(w, r)
	if !ok {
		return
	}

	data, err := BuildLeaderboardPDF(entries)
	if err != nil {
		apihttp.Error(w, http.StatusInternalServerError, "report failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="top-collectors.pdf"`)
	_, _ = w.Write(data)
}

func (h *Handler) loadEntries(w http.ResponseWriter, r *http.Request) ([]application.Entry, bool) {
	raw := auth.WorkerIDFromContext(r.Context())
	workerID, err := strconv.ParseInt(raw, 10, 64)
	if raw == "" || err != nil {
		apihttp.Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	entries, err := h.service.TopCollectors(r.Context(), workerID)
	metrics.ObserveLeaderboard(err == nil)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNoCooperative):
			apihttp.Error(w, http.StatusBadRequest, "no cooperative for the authenticated worker")
		case errors.Is(err, identity.ErrWorkerNotFound):
			apihttp.Error(w, http.StatusNotFound, "worker not found")
		default:
			apihttp.Error(w, http.StatusInternalServerError, "leaderboard failed")
		}
		return nil, false
	}
	return entries, true
}
