package http

import (
	"net/http"
	"strconv"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/service"
)

type createFinanceRequest struct {
	UserID      *int32             `json:"user_id" validate:"omitempty,gt=0"`
	Type        domain.FinanceType `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Amount      domain.Money       `json:"amount"`
	Description string             `json:"description" validate:"max=255"`
}

type balanceResponse struct {
	UserID   int32        `json:"user_id"`
	Username string       `json:"username"`
	Balance  domain.Money `json:"balance"`
}

type depositResponse struct {
	Status     string       `json:"status"`
	Message    string       `json:"message"`
	UserID     int32        `json:"user_id"`
	NewBalance domain.Money `json:"new_balance"`
}

func (h *handlers) listFinances(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	typ := domain.FinanceType(r.URL.Query().Get("type"))
	entries, err := h.Ledger.ListEntries(r.Context(), principal(r), typ, skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handlers) createFinance(w http.ResponseWriter, r *http.Request) {
	var req createFinanceRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	entry, err := h.Ledger.CreateEntry(r.Context(), principal(r), service.NewEntry{
		UserID:      req.UserID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *handlers) balance(w http.ResponseWriter, r *http.Request) {
	user, err := h.Ledger.Balance(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{UserID: user.ID, Username: user.Username, Balance: user.Balance})
}

// deposit takes its arguments from the query string:
// ?amount=50.00&user_id=3&description=...
// Without user_id the deposit credits the calling administrator.
func (h *handlers) deposit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := domain.MoneyFromString(q.Get("amount"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	p := principal(r)
	userID := p.UserID
	if raw := q.Get("user_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v <= 0 {
			writeError(w, r, domain.InvalidArgument("invalid user_id"))
			return
		}
		userID = int32(v)
	}
	user, err := h.Ledger.Deposit(r.Context(), p, userID, amount, q.Get("description"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, depositResponse{
		Status:     "success",
		Message:    "deposit recorded",
		UserID:     user.ID,
		NewBalance: user.Balance,
	})
}

func (h *handlers) report(w http.ResponseWriter, r *http.Request) {
	report, err := h.Ledger.Report(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
