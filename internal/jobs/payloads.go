package jobs

import "time"

// BorrowConfirmationPayload carries everything the worker needs to mail a
// borrower without touching the database again.
type BorrowConfirmationPayload struct {
	LoanID      string    `json:"loanId"`
	BookID      string    `json:"bookId"`
	BookTitle   string    `json:"bookTitle"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	RequestedAt time.Time `json:"requestedAt"`
}
