package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"library-backend/internal/security"
	"library-backend/internal/service"
)

// Handlers bundles the service dependencies the router needs.
type Handlers struct {
	Auth        service.AuthService
	Catalog     service.CatalogService
	Circulation service.CirculationService
	Fine        service.FineService
	Inventory   service.InventoryService
	Member      service.MemberService
	Review      service.ReviewService
	Tokens      security.TokenManager
}

// NewRouter builds the full API route table.
func NewRouter(h Handlers) *mux.Router {
	authHandler := NewAuthHandler(h.Auth, h.Member)
	catalogHandler := NewCatalogHandler(h.Catalog, h.Inventory)
	circulationHandler := NewCirculationHandler(h.Circulation)
	fineHandler := NewFineHandler(h.Fine)
	memberHandler := NewMemberHandler(h.Member)
	reviewHandler := NewReviewHandler(h.Review)
	authMw := NewAuthMiddleware(h.Tokens)

	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/books", catalogHandler.ListBooks).Methods("GET")
	api.HandleFunc("/books/{isbn}", catalogHandler.GetBook).Methods("GET")
	api.HandleFunc("/books/{isbn}/availability", catalogHandler.GetAvailability).Methods("GET")
	api.HandleFunc("/books/{isbn}/reviews", reviewHandler.ListBookReviews).Methods("GET")
	api.HandleFunc("/authors", catalogHandler.ListAuthors).Methods("GET")
	api.HandleFunc("/genres", catalogHandler.ListGenres).Methods("GET")

	// Authenticated member routes
	member := api.NewRoute().Subrouter()
	member.Use(authMw.Authenticate)
	member.HandleFunc("/circulation/borrow", circulationHandler.Borrow).Methods("POST")
	member.HandleFunc("/circulation/return", circulationHandler.Return).Methods("POST")
	member.HandleFunc("/circulation/reservations", circulationHandler.Reserve).Methods("POST")
	member.HandleFunc("/circulation/reservations/{id}", circulationHandler.CancelReservation).Methods("DELETE")
	member.HandleFunc("/me", memberHandler.GetMe).Methods("GET")
	member.HandleFunc("/me", memberHandler.UpdateMe).Methods("PUT")
	member.HandleFunc("/me/phones", memberHandler.AddPhone).Methods("POST")
	member.HandleFunc("/me/phones", memberHandler.RemovePhone).Methods("DELETE")
	member.HandleFunc("/me/transactions", circulationHandler.ListMyTransactions).Methods("GET")
	member.HandleFunc("/me/reservations", circulationHandler.ListMyReservations).Methods("GET")
	member.HandleFunc("/me/fines", fineHandler.ListMyFines).Methods("GET")
	member.HandleFunc("/me/reviews", reviewHandler.ListMyReviews).Methods("GET")
	member.HandleFunc("/fines/{id}/pay", fineHandler.PayFine).Methods("POST")
	member.HandleFunc("/books/{isbn}/reviews", reviewHandler.AddReview).Methods("POST")
	member.HandleFunc("/reviews/{id}", reviewHandler.UpdateReview).Methods("PUT")
	member.HandleFunc("/reviews/{id}", reviewHandler.DeleteReview).Methods("DELETE")

	// Admin routes
	admin := api.NewRoute().Subrouter()
	admin.Use(authMw.Authenticate, authMw.RequireAdmin)
	admin.HandleFunc("/books", catalogHandler.AddBook).Methods("POST")
	admin.HandleFunc("/books/{isbn}", catalogHandler.UpdateBook).Methods("PUT")
	admin.HandleFunc("/books/{isbn}", catalogHandler.DeleteBook).Methods("DELETE")
	admin.HandleFunc("/authors", catalogHandler.AddAuthor).Methods("POST")
	admin.HandleFunc("/genres", catalogHandler.AddGenre).Methods("POST")
	admin.HandleFunc("/members", memberHandler.ListMembers).Methods("GET")
	admin.HandleFunc("/members/{id}", memberHandler.GetMember).Methods("GET")
	admin.HandleFunc("/members/{id}/deactivate", memberHandler.DeactivateMember).Methods("POST")
	admin.HandleFunc("/transactions", circulationHandler.ListAllTransactions).Methods("GET")
	admin.HandleFunc("/reservations", circulationHandler.ListAllReservations).Methods("GET")
	admin.HandleFunc("/fines", fineHandler.ListAllFines).Methods("GET")
	admin.HandleFunc("/fines", fineHandler.IssueFine).Methods("POST")
	admin.HandleFunc("/fines/{id}", fineHandler.GetFine).Methods("GET")

	return r
}
