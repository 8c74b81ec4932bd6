package http

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/security"
)

var json = jsoniter.ConfigFastest

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrBookNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, domain.ErrFineNotFound),
		errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBookNotAvailable),
		errors.Is(err, domain.ErrAlreadyBorrowed),
		errors.Is(err, domain.ErrBorrowLimitExceeded),
		errors.Is(err, domain.ErrBookAvailable),
		errors.Is(err, domain.ErrReservationExists),
		errors.Is(err, domain.ErrReservationLimitExceeded),
		errors.Is(err, domain.ErrReservationNotActive),
		errors.Is(err, domain.ErrNoActiveBorrow),
		errors.Is(err, domain.ErrFineExists),
		errors.Is(err, domain.ErrFineAlreadyPaid),
		errors.Is(err, domain.ErrEmailExists),
		errors.Is(err, domain.ErrReviewExists),
		errors.Is(err, domain.ErrBookInCirculation),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrInventoryFull):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMemberInactive):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
