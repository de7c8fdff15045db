package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	apihttp "coopweigh/internal/api/http"
	"coopweigh/internal/audit"
	"coopweigh/internal/auth"
	catalog "coopweigh/internal/catalog/domain"
	identity "coopweigh/internal/identity/domain"
	"coopweigh/internal/observability/metrics"
	"coopweigh/internal/weighing/application"
	"coopweigh/internal/weighing/domain"
)

// Handler provides the /weighings endpoints.
type Handler struct {
	service     *application.Service
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *application.Service, auditLogger audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("weighing handler: nil service")
	}
	return &Handler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP routes the /weighings surface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/weighings" && r.Method == http.MethodPost:
		h.handleCreate(w, r)
	case r.URL.Path == "/weighings/me" && r.Method == http.MethodGet:
		h.handleHistory(w, r)
	case r.URL.Path == "/weighings/requests" && r.Method == http.MethodPost:
		h.handleQueueRequest(w, r)
	case r.URL.Path == "/weighings/export.csv" && r.Method == http.MethodGet:
		h.handleExportCSV(w, r)
	case r.URL.Path == "/weighings/export.xlsx" && r.Method == http.MethodGet:
		h.handleExportXLSX(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// MeasurementDTO is the weighing response shape.
type MeasurementDTO struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	MaterialID   string `json:"materialId"`
	MaterialName string `json:"materialName"`
	WeightGrams  int64  `json:"weightGrams"`
	CreatedAt    string `json:"createdAt"`
}

// grams accepts both a JSON number and a numeric string, as clients send both.
type grams float64

func (g *grams) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	text = strings.Trim(text, `"`)
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return errors.New("invalid weight")
	}
	*g = grams(value)
	return nil
}

type createRequest struct {
	MaterialID       string  `json:"materialId"`
	WeightGrams      grams   `json:"weightGrams"`
	DeviceExternalID *string `json:"deviceExternalId"`
	BagFilled        bool    `json:"bagFilled"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	workerID, ok := callerID(r)
	if !ok {
		apihttp.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createRequest
	if err := apihttp.Decode(r, &req); err != nil {
		apihttp.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.MaterialID) == "" {
		apihttp.Error(w, http.StatusBadRequest, "materialId is required")
		return
	}

	measurement, err := h.service.Create(r.Context(), workerID, application.CreateInput{
		MaterialIdentifier: req.MaterialID,
		WeightGrams:        float64(req.WeightGrams),
		DeviceExternalID:   req.DeviceExternalID,
		BagFilled:          req.BagFilled,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidWeight):
			apihttp.Error(w, http.StatusBadRequest, "weight must be greater than zero")
		case errors.Is(err, identity.ErrNoCooperative):
			apihttp.Error(w, http.StatusBadRequest, "no cooperative for the authenticated worker")
		case errors.Is(err, catalog.ErrMaterialNotFound):
			apihttp.Error(w, http.StatusNotFound, "material not found")
		default:
			apihttp.Error(w, http.StatusInternalServerError, "weighing creation failed")
		}
		return
	}

	metrics.ObserveWeighingCreated(measurement.Weight.Grams())
	apihttp.JSON(w, http.StatusOK, toMeasurementDTO(measurement))
	h.logAudit(r, workerID, measurement)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	workerID, ok := callerID(r)
	if !ok {
		apihttp.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	measurements, err := h.service.History(r.Context(), workerID)
	if err != nil {
		apihttp.Error(w, http.StatusInternalServerError, "history lookup failed")
		return
	}

	dtos := make([]MeasurementDTO, 0, len(measurements))
	for i := range measurements {
		dtos = append(dtos, toMeasurementDTO(&measurements[i]))
	}
	apihttp.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) handleQueueRequest(w http.ResponseWriter, r *http.Request) {
	workerID, ok := callerID(r)
	if !ok {
		apihttp.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID := h.service.QueueRequest(r.Context(), workerID)
	apihttp.JSON(w, http.StatusAccepted, map[string]string{
		"status":    "queued",
		"requestId": requestID,
	})
}

func (h *Handler) logAudit(r *http.Request, workerID int64, measurement *domain.Measurement) {
	if h.auditLogger == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{
		"material_id":  measurement.MaterialID,
		"weight_grams": measurement.Weight.Grams(),
	})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        strconv.FormatInt(workerID, 10),
		Action:       "weighing.create",
		ResourceType: "measurement",
		ResourceID:   strconv.FormatInt(measurement.ID, 10),
		Metadata:     meta,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func callerID(r *http.Request) (int64, bool) {
	raw := auth.WorkerIDFromContext(r.Context())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func toMeasurementDTO(measurement *domain.Measurement) MeasurementDTO {
	return MeasurementDTO{
		ID:           strconv.FormatInt(measurement.ID, 10),
		UserID:       strconv.FormatInt(measurement.WorkerID, 10),
		MaterialID:   strconv.FormatInt(measurement.MaterialID, 10),
		MaterialName: measurement.MaterialName,
		WeightGrams:  measurement.Weight.Grams(),
		CreatedAt:    measurement.CreatedAt.Format(time.RFC3339),
	}
}
