package loan

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotBorrowed = errors.New("book is not borrowed")

// BorrowRecord is a loan event linking a book to a borrower. Returning the
// book sets ReturnedAt instead of deleting the row, so per-user history stays
// append-only while the open-loan set is just the rows with ReturnedAt nil.
type BorrowRecord struct {
	ID         string     `json:"id"`
	BookID     string     `json:"book"`
	UserID     string     `json:"user_id"`
	CreatedAt  time.Time  `json:"createdAt"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
}

// ReturnRecord is the append-only audit entry written on every return.
type ReturnRecord struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"createdAt"`
}

// PopularityEvent marks that a book was borrowed. One row per borrow event,
// never deleted, never deduped: popularity tracks borrow events, not distinct
// current borrowers.
type PopularityEvent struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book"`
	CreatedAt time.Time `json:"createdAt"`
}

type BorrowRequest struct {
	BookID string `json:"bookId" binding:"required,uuid"`
}

type ReturnRequest struct {
	BookID string `json:"bookId" binding:"required,uuid"`
}

func NewBorrowRecord(bookID, userID string) BorrowRecord {
	return BorrowRecord{
		ID:        uuid.NewString(),
		BookID:    bookID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

func NewReturnRecord(bookID, userID string) ReturnRecord {
	return ReturnRecord{
		ID:        uuid.NewString(),
		BookID:    bookID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

func NewPopularityEvent(bookID string) PopularityEvent {
	return PopularityEvent{
		ID:        uuid.NewString(),
		BookID:    bookID,
		CreatedAt: time.Now().UTC(),
	}
}
