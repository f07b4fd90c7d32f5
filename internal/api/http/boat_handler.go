package http

import (
	"net/http"

	"sailing-club-backend/internal/domain"
)

type createBoatRequest struct {
	Name        string       `json:"name" validate:"required,max=100"`
	Type        string       `json:"type" validate:"max=50"`
	RentalPrice domain.Money `json:"rental_price"`
	Description string       `json:"description"`
	ImageURL    string       `json:"image_url" validate:"omitempty,max=255"`
}

type updateBoatRequest struct {
	Name        *string            `json:"name" validate:"omitempty,max=100"`
	Type        *string            `json:"type" validate:"omitempty,max=50"`
	Status      *domain.BoatStatus `json:"status" validate:"omitempty,oneof=AVAILABLE RENTED MAINTENANCE"`
	RentalPrice *domain.Money      `json:"rental_price"`
	Description *string            `json:"description"`
	ImageURL    *string            `json:"image_url" validate:"omitempty,max=255"`
}

type returnBoatRequest struct {
	RentalID int32 `json:"rental_id" validate:"required,gt=0"`
}

func (h *handlers) listBoats(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := domain.BoatStatus(r.URL.Query().Get("status"))
	boats, err := h.Boats.ListBoats(r.Context(), status, skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boats)
}

func (h *handlers) getBoat(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	boat, err := h.Boats.GetBoat(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boat)
}

func (h *handlers) createBoat(w http.ResponseWriter, r *http.Request) {
	var req createBoatRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	boat := &domain.Boat{
		Name:        req.Name,
		Type:        req.Type,
		RentalPrice: req.RentalPrice,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := h.Boats.CreateBoat(r.Context(), principal(r), boat); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, boat)
}

func (h *handlers) updateBoat(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateBoatRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	boat, err := h.Boats.UpdateBoat(r.Context(), principal(r), id, domain.BoatUpdate{
		Name:        req.Name,
		Type:        req.Type,
		Status:      req.Status,
		RentalPrice: req.RentalPrice,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boat)
}

func (h *handlers) deleteBoat(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Boats.DeleteBoat(r.Context(), principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Status: "success", Message: "boat deleted"})
}

func (h *handlers) rentBoat(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.Rentals.Rent(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *handlers) returnBoat(w http.ResponseWriter, r *http.Request) {
	var req returnBoatRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	rental, err := h.Rentals.Return(r.Context(), principal(r), req.RentalID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *handlers) myRentals(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rentals, err := h.Rentals.ListMyRentals(r.Context(), principal(r), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *handlers) allRentals(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rentals, err := h.Rentals.ListAllRentals(r.Context(), principal(r), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}
