package http

import (
	"net/http"

	"library-backend/internal/domain"
	"library-backend/internal/service"
)

type FineHandler struct {
	fineSvc service.FineService
}

func NewFineHandler(fineSvc service.FineService) *FineHandler {
	return &FineHandler{fineSvc: fineSvc}
}

func (h *FineHandler) ListMyFines(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var (
		fines []domain.Fine
		err   error
	)
	if r.URL.Query().Get("status") == "unpaid" {
		fines, err = h.fineSvc.ListUnpaidMemberFines(r.Context(), claims.MemberID)
	} else {
		fines, err = h.fineSvc.ListMemberFines(r.Context(), claims.MemberID)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fines)
}

func (h *FineHandler) PayFine(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid fine id"})
		return
	}

	// Admins may settle any member's fine at the front desk.
	memberID := claims.MemberID
	if claims.Role == domain.MemberRoleAdmin {
		memberID = 0
	}

	fine, err := h.fineSvc.PayFine(r.Context(), id, memberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fine)
}

func (h *FineHandler) GetFine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid fine id"})
		return
	}

	fine, err := h.fineSvc.GetFine(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fine)
}

type issueFineRequest struct {
	TransactionID int32  `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
	Reason        string `json:"reason"`
}

func (h *FineHandler) IssueFine(w http.ResponseWriter, r *http.Request) {
	var req issueFineRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	fine, err := h.fineSvc.IssueFine(r.Context(), req.TransactionID, req.AmountCents, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fine)
}

func (h *FineHandler) ListAllFines(w http.ResponseWriter, r *http.Request) {
	fines, err := h.fineSvc.ListAllFines(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fines)
}
