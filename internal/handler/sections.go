package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/middleware"
)

// SectionStore defines the database methods needed by kitchen section
// handlers. Satisfied by *database.Queries.
type SectionStore interface {
	ListActiveKitchenSections(ctx context.Context, restaurantID uuid.UUID) ([]database.KitchenSection, error)
	CreateKitchenSection(ctx context.Context, arg database.CreateKitchenSectionParams) (database.KitchenSection, error)
	UpdateKitchenSection(ctx context.Context, arg database.UpdateKitchenSectionParams) (database.KitchenSection, error)
}

// SectionHandler handles kitchen section endpoints.
type SectionHandler struct {
	store SectionStore
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(store SectionStore) *SectionHandler {
	return &SectionHandler{store: store}
}

// RegisterRoutes registers kitchen section endpoints on the given Chi router.
// Expected to be mounted behind Authenticate + RequireRestaurant.
func (h *SectionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/kitchen/sections", h.List)
	r.Post("/kitchen/sections", h.Create)
	r.Put("/kitchen/sections/{id}", h.Update)
}

type sectionRequest struct {
	Name      string `json:"name"`
	NameAr    string `json:"nameAr"`
	SortOrder int32  `json:"sortOrder"`
	IsActive  *bool  `json:"isActive"`
}

type sectionResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	NameAr    *string   `json:"nameAr,omitempty"`
	SortOrder int32     `json:"sortOrder"`
	IsActive  bool      `json:"isActive"`
}

// List handles GET /api/kitchen/sections.
func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	sections, err := h.store.ListActiveKitchenSections(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: list kitchen sections: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]sectionResponse, len(sections))
	for i, s := range sections {
		resp[i] = toSectionResponse(s)
	}
	writeSuccess(w, http.StatusOK, "", resp)
}

// Create handles POST /api/kitchen/sections.
func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	section, err := h.store.CreateKitchenSection(r.Context(), database.CreateKitchenSectionParams{
		RestaurantID: claims.RestaurantID,
		Name:         req.Name,
		NameAr:       textOrNull(req.NameAr),
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		log.Printf("ERROR: create kitchen section: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusCreated, "kitchen section created", toSectionResponse(section))
}

// Update handles PUT /api/kitchen/sections/{id}.
func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid section id")
		return
	}

	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	section, err := h.store.UpdateKitchenSection(r.Context(), database.UpdateKitchenSectionParams{
		ID:           id,
		RestaurantID: claims.RestaurantID,
		Name:         req.Name,
		NameAr:       textOrNull(req.NameAr),
		SortOrder:    req.SortOrder,
		IsActive:     active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "kitchen section not found")
			return
		}
		log.Printf("ERROR: update kitchen section: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "kitchen section updated", toSectionResponse(section))
}

func toSectionResponse(s database.KitchenSection) sectionResponse {
	resp := sectionResponse{
		ID:        s.ID,
		Name:      s.Name,
		SortOrder: s.SortOrder,
		IsActive:  s.IsActive,
	}
	if s.NameAr.Valid {
		resp.NameAr = &s.NameAr.String
	}
	return resp
}
