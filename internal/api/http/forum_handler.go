package http

import (
	"net/http"

	"sailing-club-backend/internal/domain"
)

type createTagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

type createPostRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	TagID   *int32 `json:"tag_id" validate:"omitempty,gt=0"`
}

// updatePostRequest sets tag_id when it is positive and clears the tag when
// clear_tag is true.
type updatePostRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Content  *string `json:"content"`
	TagID    *int32  `json:"tag_id" validate:"omitempty,gt=0"`
	ClearTag bool    `json:"clear_tag"`
}

type createCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *handlers) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Forum.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *handlers) createTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	tag, err := h.Forum.CreateTag(r.Context(), principal(r), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// listPosts accepts an optional ?tag_id= filter.
func (h *handlers) listPosts(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var tagID *int32
	if r.URL.Query().Get("tag_id") != "" {
		v, err := queryInt32(r, "tag_id", 0)
		if err != nil || v == 0 {
			writeError(w, r, domain.InvalidArgument("invalid tag_id"))
			return
		}
		tagID = &v
	}
	posts, err := h.Forum.ListPosts(r.Context(), tagID, skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *handlers) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	post, err := h.Forum.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *handlers) createPost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	post := &domain.Post{Title: req.Title, Content: req.Content, TagID: req.TagID}
	if err := h.Forum.CreatePost(r.Context(), principal(r), post); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *handlers) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updatePostRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	post, err := h.Forum.UpdatePost(r.Context(), principal(r), id, domain.PostUpdate{
		Title:    req.Title,
		Content:  req.Content,
		TagID:    req.TagID,
		ClearTag: req.ClearTag,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *handlers) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Forum.DeletePost(r.Context(), principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Status: "success", Message: "post deleted"})
}

func (h *handlers) listComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	comments, err := h.Forum.ListComments(r.Context(), id, skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *handlers) createComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createCommentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	comment, err := h.Forum.CreateComment(r.Context(), principal(r), id, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *handlers) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Forum.DeleteComment(r.Context(), principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Status: "success", Message: "comment deleted"})
}
