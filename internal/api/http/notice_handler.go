package http

import (
	"net/http"

	"sailing-club-backend/internal/domain"
)

type createNoticeRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
}

type updateNoticeRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=100"`
	Content *string `json:"content"`
}

func (h *handlers) listNotices(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	notices, err := h.Notices.ListNotices(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notices)
}

func (h *handlers) getNotice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	notice, err := h.Notices.GetNotice(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notice)
}

func (h *handlers) createNotice(w http.ResponseWriter, r *http.Request) {
	var req createNoticeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	notice := &domain.Notice{Title: req.Title, Content: req.Content}
	if err := h.Notices.CreateNotice(r.Context(), principal(r), notice); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, notice)
}

func (h *handlers) updateNotice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateNoticeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	notice, err := h.Notices.UpdateNotice(r.Context(), principal(r), id, domain.NoticeUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notice)
}

func (h *handlers) deleteNotice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Notices.DeleteNotice(r.Context(), principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Status: "success", Message: "notice deleted"})
}
