package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	httpapi "library-backend/internal/api/http"
	"library-backend/internal/config"
	"library-backend/internal/domain"
	"library-backend/internal/repository/memory"
	"library-backend/internal/security"
	"library-backend/internal/service"
)

type fixture struct {
	store  *memory.Store
	server *httptest.Server
	tokens security.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	tokens := security.NewTokenManager("test-secret-that-is-long-enough-to-sign", 60, 60*24*7)

	fineSvc := service.NewFineService(
		store.Fines(), store.Transactions(), store.Members(), store.Books(),
		nil, config.FinesConfig{RatePerDayCents: 100},
	)
	circulationSvc := service.NewCirculationService(
		store.Books(), store.Members(), store.Transactions(), store.Reservations(),
		nil, fineSvc,
		config.CirculationConfig{BorrowLimit: 5, ReservationLimit: 3, LoanPeriodDays: 14, ReservationWindowDays: 7},
	)

	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:        service.NewAuthService(store.Members(), tokens),
		Catalog:     service.NewCatalogService(store.Books(), store.Reservations()),
		Circulation: circulationSvc,
		Fine:        fineSvc,
		Inventory:   service.NewInventoryService(store.Books()),
		Member:      service.NewMemberService(store.Members()),
		Review:      service.NewReviewService(store.Reviews(), store.Books()),
		Tokens:      tokens,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &fixture{store: store, server: server, tokens: tokens}
}

func (f *fixture) seedBook(t *testing.T, isbn string, available, total int32) {
	t.Helper()
	err := f.store.Create(context.Background(), &domain.Book{
		ISBN:            isbn,
		Title:           "Test Book",
		AvailableCopies: available,
		TotalCopies:     total,
	})
	assert.NoError(t, err)
}

func (f *fixture) seedAdmin(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	admin := &domain.Member{
		Name:         "Admin",
		Email:        "admin@example.com",
		Role:         domain.MemberRoleAdmin,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	assert.NoError(t, f.store.CreateMember(context.Background(), admin))

	token, err := f.tokens.GenerateAccessToken(admin.ID, admin.Email, admin.Role)
	assert.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	assert.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPI_RegisterLoginBorrowFlow(t *testing.T) {
	f := newFixture(t)
	f.seedBook(t, "isbn-1", 1, 1)

	// Register
	resp := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"name":     "Reader",
		"email":    "reader@example.com",
		"password": "long-enough",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Login
	resp = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "reader@example.com",
		"password": "long-enough",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, resp, &login)
	assert.NotEmpty(t, login.AccessToken)

	// Borrow
	resp = f.do(t, http.MethodPost, "/api/v1/circulation/borrow", login.AccessToken, map[string]string{"isbn": "isbn-1"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var tx domain.Transaction
	decode(t, resp, &tx)
	assert.Equal(t, domain.TransactionStatusActive, tx.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), tx.DueDate, time.Minute)

	// The shelf is now empty.
	resp = f.do(t, http.MethodGet, "/api/v1/books/isbn-1/availability", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var avail struct {
		AvailableCopies int32 `json:"available_copies"`
	}
	decode(t, resp, &avail)
	assert.Equal(t, int32(0), avail.AvailableCopies)

	// Second borrow conflicts.
	resp = f.do(t, http.MethodPost, "/api/v1/circulation/borrow", login.AccessToken, map[string]string{"isbn": "isbn-1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Return
	resp = f.do(t, http.MethodPost, "/api/v1/circulation/return", login.AccessToken, map[string]string{"isbn": "isbn-1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_AuthRequired(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/api/v1/circulation/borrow", "", map[string]string{"isbn": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/v1/circulation/borrow", "garbage-token", map[string]string{"isbn": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_AdminOnlyRoutes(t *testing.T) {
	f := newFixture(t)
	adminToken := f.seedAdmin(t)

	// A plain member cannot create books.
	resp := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"name": "Reader", "email": "reader@example.com", "password": "long-enough",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "reader@example.com", "password": "long-enough",
	})
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, resp, &login)

	body := map[string]interface{}{"isbn": "isbn-new", "title": "New", "total_copies": 2}
	resp = f.do(t, http.MethodPost, "/api/v1/books", login.AccessToken, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The admin can.
	resp = f.do(t, http.MethodPost, "/api/v1/books", adminToken, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	book, err := f.store.GetByISBN(context.Background(), "isbn-new")
	assert.NoError(t, err)
	assert.Equal(t, int32(2), book.AvailableCopies)
}

func TestAPI_NotFoundAndUnknownBook(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/v1/books/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errBody struct {
		Error string `json:"error"`
	}
	decode(t, resp, &errBody)
	assert.NotEmpty(t, errBody.Error)
}

func TestAPI_ReviewLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seedBook(t, "isbn-r", 1, 1)

	resp := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"name": "Critic", "email": "critic@example.com", "password": "long-enough",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "critic@example.com", "password": "long-enough",
	})
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, resp, &login)

	resp = f.do(t, http.MethodPost, "/api/v1/books/isbn-r/reviews", login.AccessToken, map[string]interface{}{
		"rating": 5, "comment": "excellent",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var review domain.Review
	decode(t, resp, &review)

	// One review per member per book.
	resp = f.do(t, http.MethodPost, "/api/v1/books/isbn-r/reviews", login.AccessToken, map[string]interface{}{
		"rating": 4, "comment": "again",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/v1/books/isbn-r/reviews", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var reviews []domain.Review
	decode(t, resp, &reviews)
	assert.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
}
