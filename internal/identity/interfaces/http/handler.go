package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	apihttp "coopweigh/internal/api/http"
	"coopweigh/internal/audit"
	"coopweigh/internal/auth"
	"coopweigh/internal/identity/application"
	"coopweigh/internal/identity/domain"
	"coopweigh/internal/observability/metrics"
)

const minPasswordLength = 6

// Handler provides the /auth endpoints.
type Handler struct {
	service     *application.Service
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *application.Service, auditLogger audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("identity handler: nil service")
	}
	return &Handler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP routes /auth/login and /auth/me.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/auth/login" && r.Method == http.MethodPost:
		h.handleLogin(w, r)
	case r.URL.Path == "/auth/me" && r.Method == http.MethodGet:
		h.handleMe(w, r)
	case r.URL.Path == "/auth/me" && r.Method == http.MethodPut:
		h.handleUpdate(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// UserDTO is the user payload shared by the auth endpoints.
type UserDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	CPF             string  `json:"cpf"`
	CooperativeID   *string `json:"cooperativeId"`
	CooperativeName *string `json:"cooperativeName"`
}

type loginRequest struct {
	CPF      string `json:"cpf"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string  `json:"accessToken"`
	User        UserDTO `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := apihttp.Decode(r, &req); err != nil {
		apihttp.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	token, profile, err := h.service.Login(r.Context(), req.CPF, req.Password)
	metrics.ObserveLogin(err == nil)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCPF) {
			apihttp.Error(w, http.StatusBadRequest, "cpf must have 11 digits")
			return
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			apihttp.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		apihttp.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	apihttp.JSON(w, http.StatusOK, loginResponse{AccessToken: token, User: toUserDTO(profile)})
	h.logAudit(r, profile.ID, "auth.login", nil)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	workerID, ok := callerID(r)
	if !ok {
		apihttp.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.service.Profile(r.Context(), workerID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkerNotFound) {
			apihttp.Error(w, http.StatusNotFound, "worker not found")
			return
		}
		apihttp.Error(w, http.StatusInternalServerError, "profile lookup failed")
		return
	}
	apihttp.JSON(w, http.StatusOK, toUserDTO(profile))
}

type updateRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}

type updateResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	workerID, ok := callerID(r)
	if !ok {
		apihttp.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateRequest
	if err := apihttp.Decode(r, &req); err != nil {
		apihttp.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg, ok := validateUpdate(req); !ok {
		apihttp.Error(w, http.StatusBadRequest, msg)
		return
	}

	update := domain.ProfileUpdate{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}
	profile, changed, err := h.service.UpdateProfile(r.Context(), workerID, update)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCurrentPasswordRequired):
			apihttp.Error(w, http.StatusBadRequest, "current password required to set a new password")
		case errors.Is(err, auth.ErrWrongPassword):
			apihttp.Error(w, http.StatusUnauthorized, "current password incorrect")
		case errors.Is(err, domain.ErrWorkerNotFound):
			apihttp.Error(w, http.StatusNotFound, "worker not found")
		default:
			apihttp.Error(w, http.StatusInternalServerError, "profile update failed")
		}
		return
	}

	message := "no changes applied"
	if changed {
		message = "profile updated"
		meta, _ := json.Marshal(map[string]bool{
			"name":     req.Name != nil,
			"email":    req.Email != nil,
			"password": req.NewPassword != nil,
		})
		h.logAudit(r, workerID, "profile.update", meta)
	}
	apihttp.JSON(w, http.StatusOK, updateResponse{Message: message, User: toUserDTO(profile)})
}

func validateUpdate(req updateRequest) (string, bool) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return "name must not be empty", false
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		return "invalid email", false
	}
	if req.CurrentPassword != nil && *req.CurrentPassword == "" {
		return "current password must not be empty", false
	}
	if req.NewPassword != nil && len(*req.NewPassword) < minPasswordLength {
		return "new password must have at least 6 characters", false
	}
	return "", true
}

func (h *Handler) logAudit(r *http.Request, workerID int64, action string, meta json.RawMessage) {
	if h.auditLogger == nil {
		return
	}
	actor := strconv.FormatInt(workerID, 10)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        actor,
		Action:       action,
		ResourceType: "worker",
		ResourceID:   actor,
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

func toUserDTO(profile *domain.WorkerProfile) UserDTO {
	dto := UserDTO{
		ID:              strconv.FormatInt(profile.ID, 10),
		Name:            profile.Name,
		Email:           profile.Email,
		CPF:             profile.CPF,
		CooperativeName: profile.CooperativeName,
	}
	if profile.CooperativeID != nil {
		id := strconv.FormatInt(*profile.CooperativeID, 10)
		dto.CooperativeID = &id
	}
	return dto
}
