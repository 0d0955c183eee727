package notifications

import "context"

type SendBorrowConfirmationInput struct {
	Email     string
	Username  string
	BookID    string
	BookTitle string
	LoanID    string
}

type Notifier interface {
	SendBorrowConfirmation(ctx context.Context, input SendBorrowConfirmationInput) error
}
