package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"library-backend/internal/domain"
	"library-backend/internal/service"
)

type CirculationHandler struct {
	circulationSvc service.CirculationService
}

func NewCirculationHandler(circulationSvc service.CirculationService) *CirculationHandler {
	return &CirculationHandler{circulationSvc: circulationSvc}
}

type circulationRequest struct {
	ISBN string `json:"isbn"`
}

func (h *CirculationHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	var req circulationRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	tx, err := h.circulationSvc.Borrow(r.Context(), req.ISBN, claims.MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *CirculationHandler) Return(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	var req circulationRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	tx, err := h.circulationSvc.Return(r.Context(), req.ISBN, claims.MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *CirculationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	var req circulationRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	res, err := h.circulationSvc.Reserve(r.Context(), req.ISBN, claims.MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *CirculationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid reservation id"})
		return
	}

	// Admins may cancel any member's reservation.
	memberID := claims.MemberID
	if claims.Role == domain.MemberRoleAdmin {
		memberID = 0
	}

	res, err := h.circulationSvc.CancelReservation(r.Context(), id, memberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *CirculationHandler) ListMyTransactions(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	transactions, err := h.circulationSvc.ListMemberTransactions(r.Context(), claims.MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *CirculationHandler) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	reservations, err := h.circulationSvc.ListMemberReservations(r.Context(), claims.MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *CirculationHandler) ListAllTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.circulationSvc.ListAllTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *CirculationHandler) ListAllReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.circulationSvc.ListAllReservations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}
