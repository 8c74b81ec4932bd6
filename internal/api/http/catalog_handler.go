package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"library-backend/internal/domain"
	"library-backend/internal/service"
)

type CatalogHandler struct {
	catalogSvc   service.CatalogService
	inventorySvc service.InventoryService
}

func NewCatalogHandler(catalogSvc service.CatalogService, inventorySvc service.InventoryService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc, inventorySvc: inventorySvc}
}

type addBookRequest struct {
	ISBN            string  `json:"isbn"`
	Title           string  `json:"title"`
	PublicationYear int     `json:"publication_year"`
	Publisher       string  `json:"publisher"`
	Language        string  `json:"language"`
	PageCount       int     `json:"page_count"`
	Description     string  `json:"description"`
	TotalCopies     int32   `json:"total_copies"`
	AuthorIDs       []int32 `json:"author_ids"`
	GenreIDs        []int32 `json:"genre_ids"`
}

func (h *CatalogHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	book := &domain.Book{
		ISBN:            req.ISBN,
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
		Publisher:       req.Publisher,
		Language:        req.Language,
		PageCount:       req.PageCount,
		Description:     req.Description,
		TotalCopies:     req.TotalCopies,
	}
	if err := h.catalogSvc.AddBook(r.Context(), book, req.AuthorIDs, req.GenreIDs); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

type bookResponse struct {
	*domain.Book
	Authors []domain.Author `json:"authors"`
	Genres  []domain.Genre  `json:"genres"`
}

func (h *CatalogHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]
	book, authors, genres, err := h.catalogSvc.GetBook(r.Context(), isbn)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookResponse{Book: book, Authors: authors, Genres: genres})
}

func (h *CatalogHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		books, err := h.catalogSvc.SearchBooks(r.Context(), q)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, books)
		return
	}

	books, err := h.catalogSvc.ListBooks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

type availabilityResponse struct {
	ISBN            string `json:"isbn"`
	AvailableCopies int32  `json:"available_copies"`
}

func (h *CatalogHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]
	copies, err := h.inventorySvc.Availability(r.Context(), isbn)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{ISBN: isbn, AvailableCopies: copies})
}

type updateBookRequest struct {
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	Publisher       string `json:"publisher"`
	Language        string `json:"language"`
	PageCount       int    `json:"page_count"`
	Description     string `json:"description"`
	TotalCopies     int32  `json:"total_copies"`
}

func (h *CatalogHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]
	var req updateBookRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	book := &domain.Book{
		ISBN:            isbn,
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
		Publisher:       req.Publisher,
		Language:        req.Language,
		PageCount:       req.PageCount,
		Description:     req.Description,
		TotalCopies:     req.TotalCopies,
	}
	if err := h.catalogSvc.UpdateBook(r.Context(), book); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *CatalogHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	isbn := mux.Vars(r)["isbn"]
	if err := h.catalogSvc.DeleteBook(r.Context(), isbn); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) AddAuthor(w http.ResponseWriter, r *http.Request) {
	var author domain.Author
	if err := decodeBody(r, &author); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.catalogSvc.AddAuthor(r.Context(), &author); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, author)
}

func (h *CatalogHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.catalogSvc.ListAuthors(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authors)
}

func (h *CatalogHandler) AddGenre(w http.ResponseWriter, r *http.Request) {
	var genre domain.Genre
	if err := decodeBody(r, &genre); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.catalogSvc.AddGenre(r.Context(), &genre); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, genre)
}

func (h *CatalogHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalogSvc.ListGenres(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}
