// Package memory provides an in-memory store used by tests. It honors
// the same atomicity contracts as the postgres store: conditional
// availability updates and one-fine-per-transaction uniqueness, both
// under a single store lock.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"library-backend/internal/domain"
)

type Store struct {
	mu sync.Mutex

	books        map[string]*domain.Book
	members      map[int32]*domain.Member
	phones       map[int32][]string
	transactions map[int32]*domain.Transaction
	reservations map[int32]*domain.Reservation
	fines        map[int32]*domain.Fine
	finesByTx    map[int32]int32
	reviews      map[int32]*domain.Review
	authors      map[int32]*domain.Author
	genres       map[int32]*domain.Genre
	bookAuthors  map[string][]int32
	bookGenres   map[string][]int32

	nextID int32
}

func NewStore() *Store {
	return &Store{
		books:        make(map[string]*domain.Book),
		members:      make(map[int32]*domain.Member),
		phones:       make(map[int32][]string),
		transactions: make(map[int32]*domain.Transaction),
		reservations: make(map[int32]*domain.Reservation),
		fines:        make(map[int32]*domain.Fine),
		finesByTx:    make(map[int32]int32),
		reviews:      make(map[int32]*domain.Review),
		authors:      make(map[int32]*domain.Author),
		genres:       make(map[int32]*domain.Genre),
		bookAuthors:  make(map[string][]int32),
		bookGenres:   make(map[string][]int32),
	}
}

func (s *Store) nextSeq() int32 {
	s.nextID++
	return s.nextID
}

// Books

func (s *Store) Create(ctx context.Context, b *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	b.CreatedOn, b.UpdatedOn = now, now
	cp := *b
	s.books[b.ISBN] = &cp
	return nil
}

func (s *Store) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[isbn]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var books []domain.Book
	for _, b := range s.books {
		books = append(books, *b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func (s *Store) Search(ctx context.Context, query string) ([]domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var books []domain.Book
	for _, b := range s.books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Publisher), q) || b.ISBN == query {
			books = append(books, *b)
		}
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func (s *Store) Update(ctx context.Context, b *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.books[b.ISBN]
	if !ok {
		return domain.ErrBookNotFound
	}
	existing.Title = b.Title
	existing.PublicationYear = b.PublicationYear
	existing.Publisher = b.Publisher
	existing.Language = b.Language
	existing.PageCount = b.PageCount
	existing.Description = b.Description
	existing.AvailableCopies = b.AvailableCopies
	existing.TotalCopies = b.TotalCopies
	existing.UpdatedOn = time.Now()
	return nil
}

func (s *Store) Delete(ctx context.Context, isbn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[isbn]; !ok {
		return domain.ErrBookNotFound
	}
	delete(s.books, isbn)
	return nil
}

func (s *Store) DecrementAvailable(ctx context.Context, isbn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[isbn]
	if !ok {
		return domain.ErrBookNotFound
	}
	if b.AvailableCopies <= 0 {
		return domain.ErrOutOfStock
	}
	b.AvailableCopies--
	b.UpdatedOn = time.Now()
	return nil
}

func (s *Store) IncrementAvailable(ctx context.Context, isbn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[isbn]
	if !ok {
		return domain.ErrBookNotFound
	}
	if b.AvailableCopies >= b.TotalCopies {
		return domain.ErrInventoryFull
	}
	b.AvailableCopies++
	b.UpdatedOn = time.Now()
	return nil
}

// Authors and genres

func (s *Store) CreateAuthor(ctx context.Context, a *domain.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextSeq()
	cp := *a
	s.authors[a.ID] = &cp
	return nil
}

func (s *Store) GetAuthor(ctx context.Context, id int32) (*domain.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authors[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var authors []domain.Author
	for _, a := range s.authors {
		authors = append(authors, *a)
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].Name < authors[j].Name })
	return authors, nil
}

func (s *Store) CreateGenre(ctx context.Context, g *domain.Genre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.nextSeq()
	cp := *g
	s.genres[g.ID] = &cp
	return nil
}

func (s *Store) GetGenre(ctx context.Context, id int32) (*domain.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.genres[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *Store) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var genres []domain.Genre
	for _, g := range s.genres {
		genres = append(genres, *g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres, nil
}

func (s *Store) LinkAuthor(ctx context.Context, isbn string, authorID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.bookAuthors[isbn] {
		if id == authorID {
			return nil
		}
	}
	s.bookAuthors[isbn] = append(s.bookAuthors[isbn], authorID)
	return nil
}

func (s *Store) LinkGenre(ctx context.Context, isbn string, genreID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.bookGenres[isbn] {
		if id == genreID {
			return nil
		}
	}
	s.bookGenres[isbn] = append(s.bookGenres[isbn], genreID)
	return nil
}

func (s *Store) ListBookAuthors(ctx context.Context, isbn string) ([]domain.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var authors []domain.Author
	for _, id := range s.bookAuthors[isbn] {
		if a, ok := s.authors[id]; ok {
			authors = append(authors, *a)
		}
	}
	return authors, nil
}

func (s *Store) ListBookGenres(ctx context.Context, isbn string) ([]domain.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var genres []domain.Genre
	for _, id := range s.bookGenres[isbn] {
		if g, ok := s.genres[id]; ok {
			genres = append(genres, *g)
		}
	}
	return genres, nil
}

// Members

func (s *Store) CreateMember(ctx context.Context, m *domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members {
		if existing.Email == m.Email {
			return domain.ErrEmailExists
		}
	}
	m.ID = s.nextSeq()
	cp := *m
	s.members[m.ID] = &cp
	return nil
}

func (s *Store) GetMemberByID(ctx context.Context, id int32) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	cp := *m
	cp.Phones = append([]string(nil), s.phones[id]...)
	return &cp, nil
}

func (s *Store) GetMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.Email == email {
			cp := *m
			cp.Phones = append([]string(nil), s.phones[m.ID]...)
			return &cp, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (s *Store) ListMembers(ctx context.Context) ([]domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []domain.Member
	for _, m := range s.members {
		members = append(members, *m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (s *Store) UpdateMember(ctx context.Context, m *domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.members[m.ID]
	if !ok {
		return domain.ErrMemberNotFound
	}
	for id, other := range s.members {
		if id != m.ID && other.Email == m.Email {
			return domain.ErrEmailExists
		}
	}
	existing.Name = m.Name
	existing.Email = m.Email
	existing.Address = m.Address
	existing.Role = m.Role
	existing.PasswordHash = m.PasswordHash
	existing.IsActive = m.IsActive
	return nil
}

func (s *Store) DeleteMember(ctx context.Context, id int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(s.members, id)
	delete(s.phones, id)
	return nil
}

func (s *Store) AddPhone(ctx context.Context, memberID int32, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.phones[memberID] {
		if p == phone {
			return nil
		}
	}
	s.phones[memberID] = append(s.phones[memberID], phone)
	return nil
}

func (s *Store) RemovePhone(ctx context.Context, memberID int32, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.phones[memberID][:0]
	for _, p := range s.phones[memberID] {
		if p != phone {
			kept = append(kept, p)
		}
	}
	s.phones[memberID] = kept
	return nil
}

func (s *Store) ListPhones(ctx context.Context, memberID int32) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.phones[memberID]...), nil
}

// Transactions

func (s *Store) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextSeq()
	cp := *t
	s.transactions[t.ID] = &cp
	return nil
}

func (s *Store) GetTransactionByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Store) GetActiveTransaction(ctx context.Context, memberID int32, isbn string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.MemberID == memberID && t.ISBN == isbn && t.Outstanding() {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (s *Store) ListTransactionsByMember(ctx context.Context, memberID int32) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txs []domain.Transaction
	for _, t := range s.transactions {
		if t.MemberID == memberID {
			txs = append(txs, *t)
		}
	}
	sortTransactions(txs)
	return txs, nil
}

func (s *Store) ListAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txs []domain.Transaction
	for _, t := range s.transactions {
		txs = append(txs, *t)
	}
	sortTransactions(txs)
	return txs, nil
}

func (s *Store) ListTransactionsDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txs []domain.Transaction
	for _, t := range s.transactions {
		if !t.DueDate.Before(cutoff) {
			continue
		}
		if t.ReturnDate == nil || t.ReturnDate.After(t.DueDate) {
			txs = append(txs, *t)
		}
	}
	sortTransactions(txs)
	return txs, nil
}

func (s *Store) CountOutstandingByMember(ctx context.Context, memberID int32) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int32
	for _, t := range s.transactions {
		if t.MemberID == memberID && t.Outstanding() {
			count++
		}
	}
	return count, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[t.ID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	existing.Status = t.Status
	existing.DueDate = t.DueDate
	existing.ReturnDate = t.ReturnDate
	return nil
}

func sortTransactions(txs []domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })
}

// Reservations

func (s *Store) CreateReservation(ctx context.Context, res *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res.ID = s.nextSeq()
	cp := *res
	s.reservations[res.ID] = &cp
	return nil
}

func (s *Store) GetReservationByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (s *Store) GetActiveReservation(ctx context.Context, memberID int32, isbn string) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, res := range s.reservations {
		if res.MemberID == memberID && res.ISBN == isbn && res.Status == domain.ReservationStatusActive {
			cp := *res
			return &cp, nil
		}
	}
	return nil, domain.ErrReservationNotFound
}

func (s *Store) CountActiveReservationsByMember(ctx context.Context, memberID int32) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int32
	for _, res := range s.reservations {
		if res.MemberID == memberID && res.Status == domain.ReservationStatusActive {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountActiveReservationsByISBN(ctx context.Context, isbn string) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int32
	for _, res := range s.reservations {
		if res.ISBN == isbn && res.Status == domain.ReservationStatusActive {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListReservationsByMember(ctx context.Context, memberID int32) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Reservation
	for _, res := range s.reservations {
		if res.MemberID == memberID {
			out = append(out, *res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListAllReservations(ctx context.Context) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Reservation
	for _, res := range s.reservations {
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListActiveReservationsBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Reservation
	for _, res := range s.reservations {
		if res.Status == domain.ReservationStatusActive && res.ReservationDate.Before(cutoff) {
			out = append(out, *res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateReservation(ctx context.Context, res *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.reservations[res.ID]
	if !ok {
		return domain.ErrReservationNotFound
	}
	existing.Status = res.Status
	return nil
}

// Fines

func (s *Store) CreateFine(ctx context.Context, f *domain.Fine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.finesByTx[f.TransactionID]; exists {
		return domain.ErrFineExists
	}
	f.ID = s.nextSeq()
	cp := *f
	s.fines[f.ID] = &cp
	s.finesByTx[f.TransactionID] = f.ID
	return nil
}

func (s *Store) GetFineByID(ctx context.Context, id int32) (*domain.Fine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fines[id]
	if !ok {
		return nil, domain.ErrFineNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *Store) GetFineByTransactionID(ctx context.Context, transactionID int32) (*domain.Fine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.finesByTx[transactionID]
	if !ok {
		return nil, domain.ErrFineNotFound
	}
	cp := *s.fines[id]
	return &cp, nil
}

func (s *Store) ListFinesByMember(ctx context.Context, memberID int32) ([]domain.Fine, error) {
	return s.listFines(memberID, false)
}

func (s *Store) ListUnpaidFinesByMember(ctx context.Context, memberID int32) ([]domain.Fine, error) {
	return s.listFines(memberID, true)
}

func (s *Store) listFines(memberID int32, unpaidOnly bool) ([]domain.Fine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fines []domain.Fine
	for _, f := range s.fines {
		t, ok := s.transactions[f.TransactionID]
		if !ok || t.MemberID != memberID {
			continue
		}
		if unpaidOnly && f.Status != domain.FineStatusUnpaid {
			continue
		}
		fines = append(fines, *f)
	}
	sort.Slice(fines, func(i, j int) bool { return fines[i].ID < fines[j].ID })
	return fines, nil
}

func (s *Store) ListAllFines(ctx context.Context) ([]domain.Fine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fines []domain.Fine
	for _, f := range s.fines {
		fines = append(fines, *f)
	}
	sort.Slice(fines, func(i, j int) bool { return fines[i].ID < fines[j].ID })
	return fines, nil
}

func (s *Store) MarkFinePaid(ctx context.Context, fineID int32, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.fines[fineID]
	if !ok {
		return domain.ErrFineNotFound
	}
	if existing.Status == domain.FineStatusPaid {
		return domain.ErrFineAlreadyPaid
	}
	existing.Status = domain.FineStatusPaid
	existing.PaymentDate = &paidAt
	return nil
}

// Reviews

func (s *Store) CreateReview(ctx context.Context, rev *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reviews {
		if existing.MemberID == rev.MemberID && existing.ISBN == rev.ISBN {
			return domain.ErrReviewExists
		}
	}
	rev.ID = s.nextSeq()
	cp := *rev
	s.reviews[rev.ID] = &cp
	return nil
}

func (s *Store) GetReviewByID(ctx context.Context, id int32) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rev, ok := s.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	cp := *rev
	return &cp, nil
}

func (s *Store) GetReviewByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rev := range s.reviews {
		if rev.MemberID == memberID && rev.ISBN == isbn {
			cp := *rev
			return &cp, nil
		}
	}
	return nil, domain.ErrReviewNotFound
}

func (s *Store) ListReviewsByISBN(ctx context.Context, isbn string) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reviews []domain.Review
	for _, rev := range s.reviews {
		if rev.ISBN == isbn {
			reviews = append(reviews, *rev)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (s *Store) ListReviewsByMember(ctx context.Context, memberID int32) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reviews []domain.Review
	for _, rev := range s.reviews {
		if rev.MemberID == memberID {
			reviews = append(reviews, *rev)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (s *Store) UpdateReview(ctx context.Context, rev *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.reviews[rev.ID]
	if !ok {
		return domain.ErrReviewNotFound
	}
	existing.Rating = rev.Rating
	existing.Comment = rev.Comment
	return nil
}

func (s *Store) DeleteReview(ctx context.Context, id int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(s.reviews, id)
	return nil
}
