package postgres

import (
	"database/sql"

	"library-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookRepository
	repository.MemberRepository
	repository.TransactionRepository
	repository.ReservationRepository
	repository.FineRepository
	repository.ReviewRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		BookRepository:        NewBookRepository(db),
		MemberRepository:      NewMemberRepository(db),
		TransactionRepository: NewTransactionRepository(db),
		ReservationRepository: NewReservationRepository(db),
		FineRepository:        NewFineRepository(db),
		ReviewRepository:      NewReviewRepository(db),
	}
}
