package http

import (
	"net/http"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/service"
)

type updateUserRequest struct {
	Email    *string          `json:"email" validate:"omitempty,email,max=100"`
	Phone    *string          `json:"phone" validate:"omitempty,max=20"`
	Password *string          `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *domain.UserRole `json:"role" validate:"omitempty,oneof=member admin"`
}

type adjustBalanceRequest struct {
	Amount      domain.Money `json:"amount"`
	Description string       `json:"description" validate:"max=255"`
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	users, err := h.Users.ListUsers(r.Context(), principal(r), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.Users.GetUser(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateUserRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	user, err := h.Users.UpdateUser(r.Context(), principal(r), id, service.UserUpdate{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Users.DeleteUser(r.Context(), principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Status: "success", Message: "user deleted"})
}

func (h *handlers) adjustBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req adjustBalanceRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	user, err := h.Ledger.AdminAdjustBalance(r.Context(), principal(r), id, req.Amount, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
