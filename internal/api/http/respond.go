package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Status    string            `json:"status"`
	Code      domain.ErrorKind  `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type messageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindInvalidState,
		domain.KindDuplicate,
		domain.KindCapacityExceeded,
		domain.KindInsufficientFunds,
		domain.KindInvalidAmount,
		domain.KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a domain error to its HTTP status. Internal failures are
// logged with their cause and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	message := domain.MessageOf(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{
		Status:    "error",
		Code:      kind,
		Message:   message,
		RequestID: logger.RequestID(r.Context()),
	})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{
		Status:    "error",
		Code:      domain.KindInvalidArgument,
		Message:   "validation failed",
		RequestID: logger.RequestID(r.Context()),
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Details = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.Details[fe.Field()] = fmt.Sprintf("failed on '%s' tag", fe.Tag())
		}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

// decodeBody reads a single JSON object into dst and validates it. It writes
// the error response itself and reports false when the request is unusable.
func (h *handlers) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			writeError(w, r, derr)
			return false
		}
		writeError(w, r, domain.InvalidArgument("invalid request body"))
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, domain.InvalidArgument("request body must only contain a single JSON object"))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeValidationError(w, r, err)
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || v <= 0 {
		return 0, domain.InvalidArgument("invalid %s", name)
	}
	return int32(v), nil
}

func queryInt32(r *http.Request, name string, def int32) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return 0, domain.InvalidArgument("invalid %s", name)
	}
	return int32(v), nil
}

// paging reads the skip and limit query parameters.
func paging(r *http.Request) (skip, limit int32, err error) {
	if skip, err = queryInt32(r, "skip", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt32(r, "limit", 100); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}
