package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/middleware"
)

// QRCodeStore defines the database methods needed by QR code handlers.
// Satisfied by *database.Queries.
type QRCodeStore interface {
	GetQRCode(ctx context.Context, id uuid.UUID) (database.QRCode, error)
	ListQRCodesByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]database.QRCode, error)
	CreateQRCode(ctx context.Context, arg database.CreateQRCodeParams) (database.QRCode, error)
	SetQRCodeOccupied(ctx context.Context, arg database.SetQRCodeOccupiedParams) (database.QRCode, error)
}

// QRCodeHandler handles table QR code endpoints. Occupancy gates
// socket-originated dine-in orders, so seating a table goes through here.
type QRCodeHandler struct {
	store QRCodeStore
}

// NewQRCodeHandler creates a new QRCodeHandler.
func NewQRCodeHandler(store QRCodeStore) *QRCodeHandler {
	return &QRCodeHandler{store: store}
}

// RegisterRoutes registers QR code endpoints on the given Chi router.
// Expected to be mounted behind Authenticate + RequireRestaurant.
func (h *QRCodeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/qr-codes", h.List)
	r.Post("/qr-codes", h.Create)
	r.Put("/qr-codes/{id}/occupy", h.Occupy)
	r.Put("/qr-codes/{id}/release", h.Release)
}

// RegisterPublicRoutes registers the endpoint a scanned QR code resolves
// against. No auth: the code itself is the capability.
func (h *QRCodeHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/qr/{id}", h.Resolve)
}

type createQRCodeRequest struct {
	TableNumber string `json:"tableNumber"`
	QrCode      string `json:"qrCode"`
}

type qrCodeResponse struct {
	ID          uuid.UUID `json:"id"`
	TableNumber string    `json:"tableNumber"`
	QrCode      string    `json:"qrCode"`
	IsActive    bool      `json:"isActive"`
	IsOccupied  bool      `json:"isOccupied"`
	CreatedAt   time.Time `json:"createdAt"`
}

// List handles GET /api/qr-codes.
func (h *QRCodeHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	codes, err := h.store.ListQRCodesByRestaurant(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: list qr codes: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]qrCodeResponse, len(codes))
	for i, c := range codes {
		resp[i] = toQRCodeResponse(c)
	}
	writeSuccess(w, http.StatusOK, "", resp)
}

// Create handles POST /api/qr-codes.
func (h *QRCodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createQRCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TableNumber == "" {
		writeError(w, http.StatusBadRequest, "tableNumber is required")
		return
	}
	if req.QrCode == "" {
		writeError(w, http.StatusBadRequest, "qrCode is required")
		return
	}

	code, err := h.store.CreateQRCode(r.Context(), database.CreateQRCodeParams{
		RestaurantID: claims.RestaurantID,
		TableNumber:  req.TableNumber,
		QrCode:       req.QrCode,
	})
	if err != nil {
		log.Printf("ERROR: create qr code: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusCreated, "qr code created", toQRCodeResponse(code))
}

// Resolve handles GET /api/qr/{id}. The customer app calls it after a scan
// to learn which restaurant and table the session belongs to.
func (h *QRCodeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid qr code id")
		return
	}

	code, err := h.store.GetQRCode(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "qr code not found")
			return
		}
		log.Printf("ERROR: get qr code: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !code.IsActive {
		writeError(w, http.StatusNotFound, "qr code not found")
		return
	}

	writeSuccess(w, http.StatusOK, "", struct {
		qrCodeResponse
		RestaurantID uuid.UUID `json:"restaurantId"`
	}{toQRCodeResponse(code), code.RestaurantID})
}

// Occupy handles PUT /api/qr-codes/{id}/occupy.
func (h *QRCodeHandler) Occupy(w http.ResponseWriter, r *http.Request) {
	h.setOccupied(w, r, true)
}

// Release handles PUT /api/qr-codes/{id}/release.
func (h *QRCodeHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.setOccupied(w, r, false)
}

func (h *QRCodeHandler) setOccupied(w http.ResponseWriter, r *http.Request, occupied bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid qr code id")
		return
	}

	code, err := h.store.SetQRCodeOccupied(r.Context(), database.SetQRCodeOccupiedParams{
		ID:           id,
		RestaurantID: claims.RestaurantID,
		IsOccupied:   occupied,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "qr code not found")
			return
		}
		log.Printf("ERROR: set qr code occupancy: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "qr code updated", toQRCodeResponse(code))
}

func toQRCodeResponse(c database.QRCode) qrCodeResponse {
	return qrCodeResponse{
		ID:          c.ID,
		TableNumber: c.TableNumber,
		QrCode:      c.QrCode,
		IsActive:    c.IsActive,
		IsOccupied:  c.IsOccupied,
		CreatedAt:   c.CreatedAt,
	}
}
