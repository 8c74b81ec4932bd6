package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"library-backend/internal/domain"
	"library-backend/internal/service"
)

type ReviewHandler struct {
	reviewSvc service.ReviewService
}

func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	isbn := mux.Vars(r)["isbn"]

	var req reviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	review, err := h.reviewSvc.AddReview(r.Context(), claims.MemberID, isbn, req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid review id"})
		return
	}

	var req reviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	review, err := h.reviewSvc.UpdateReview(r.Context(), id, claims.MemberID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid review id"})
		return
	}

	memberID := claims.MemberID
	if claims.Role == domain.MemberRoleAdmin {
		memberID = 0
	}

	if err := h.reviewSvc.DeleteReview(r.Context(), id, memberID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ReviewHandler) ListBookReviews(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]
	reviews, err := h.reviewSvc.ListBookReviews(r.Context(), isbn)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) ListMyReviews(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	reviews, err := h.reviewSvc.ListMemberReviews(r.Context(), claims.MemberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
