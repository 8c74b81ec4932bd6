package domain

import "errors"

// Precondition and lookup failures returned by the services. Handlers
// map these to HTTP status codes; anything else is a persistence error
// and is surfaced as-is.
var (
	ErrBookNotFound        = errors.New("book not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrFineNotFound        = errors.New("fine not found")
	ErrReviewNotFound      = errors.New("review not found")

	ErrOutOfStock    = errors.New("no copies available")
	ErrInventoryFull = errors.New("available copies already at total owned")

	ErrBookNotAvailable         = errors.New("book is not available for borrowing")
	ErrAlreadyBorrowed          = errors.New("member already has this book on loan")
	ErrBorrowLimitExceeded      = errors.New("borrowing limit reached")
	ErrBookAvailable            = errors.New("book has available copies, borrow it instead of reserving")
	ErrReservationExists        = errors.New("member already has an active reservation for this book")
	ErrReservationLimitExceeded = errors.New("reservation limit reached")
	ErrReservationNotActive     = errors.New("reservation is not active")
	ErrNoActiveBorrow           = errors.New("no active borrow found for this book and member")

	ErrFineExists      = errors.New("a fine already exists for this transaction")
	ErrFineAlreadyPaid = errors.New("fine is already paid")

	ErrEmailExists        = errors.New("a member with this email already exists")
	ErrReviewExists       = errors.New("member already reviewed this book")
	ErrMemberInactive     = errors.New("member account is inactive")
	ErrBookInCirculation  = errors.New("book has active transactions or reservations")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("not allowed to act on this resource")
)
