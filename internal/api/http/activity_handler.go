package http

import (
	"net/http"
	"time"

	"sailing-club-backend/internal/domain"
)

type createActivityRequest struct {
	Title           string    `json:"title" validate:"required,max=200"`
	Description     string    `json:"description"`
	Location        string    `json:"location" validate:"max=200"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" validate:"required"`
	MaxParticipants int32     `json:"max_participants" validate:"gte=0"`
}

type updateActivityRequest struct {
	Title           *string    `json:"title" validate:"omitempty,max=200"`
	Description     *string    `json:"description"`
	Location        *string    `json:"location" validate:"omitempty,max=200"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	MaxParticipants *int32     `json:"max_participants" validate:"omitempty,gte=0"`
}

type signupRequest struct {
	ActivityID int32 `json:"activity_id" validate:"required,gt=0"`
}

func (h *handlers) listActivities(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	activities, err := h.Activities.ListActivities(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *handlers) getActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	activity, err := h.Activities.GetActivity(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (h *handlers) createActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	activity := &domain.Activity{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
	}
	if err := h.Activities.CreateActivity(r.Context(), principal(r), activity); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

func (h *handlers) updateActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateActivityRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	activity, err := h.Activities.UpdateActivity(r.Context(), principal(r), id, domain.ActivityUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (h *handlers) deleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Activities.DeleteActivity(r.Context(), principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Status: "success", Message: "activity deleted"})
}

func (h *handlers) signUp(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	signup, err := h.Activities.SignUp(r.Context(), principal(r), req.ActivityID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signup)
}

func (h *handlers) cancelSignUp(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Activities.CancelSignUp(r.Context(), principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Status: "success", Message: "signup cancelled"})
}

func (h *handlers) checkIn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	signup, err := h.Activities.CheckIn(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signup)
}

func (h *handlers) mySignups(w http.ResponseWriter, r *http.Request) {
	signups, err := h.Activities.ListMySignups(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signups)
}

func (h *handlers) activitySignups(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	signups, err := h.Activities.ListSignups(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signups)
}
