package http

import (
	"errors"
	"net/http"
	"strconv"

	apihttp "coopweigh/internal/api/http"
	"coopweigh/internal/catalog/application"
)

// Handler serves GET /materials.
type Handler struct {
	resolver *application.Resolver
}

// NewHandler constructs a handler.
func NewHandler(resolver *application.Resolver) (*Handler, error) {
	if resolver == nil {
		return nil, errors.New("catalog handler: nil resolver")
	}
	return &Handler{resolver: resolver}, nil
}

// MaterialDTO is the catalog response shape.
type MaterialDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ServeHTTP handles GET /materials.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	materials, err := h.resolver.List(r.Context())
	if err != nil {
		apihttp.Error(w, http.StatusInternalServerError, "catalog lookup failed")
		return
	}

	dtos := make([]MaterialDTO, 0, len(materials))
	for _, material := range materials {
		dtos = append(dtos, MaterialDTO{
			ID:   strconv.FormatInt(material.ID, 10),
			Name: material.Name,
		})
	}
	apihttp.JSON(w, http.StatusOK, dtos)
}
