package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"libraryhub/internal/config"
	"libraryhub/internal/domain/book"
	"libraryhub/internal/domain/loan"
	"libraryhub/internal/domain/user"
	"libraryhub/internal/http/middlewares"
	"libraryhub/internal/jobs"

	"github.com/gin-gonic/gin"
)

type BookReader interface {
	GetByID(ctx context.Context, id string) (book.Book, error)
}

type UserByIDReader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type LoansStore interface {
	Borrow(ctx context.Context, bookID, userID string) (loan.BorrowRecord, error)
	HistoryByUser(ctx context.Context, userID string) ([]loan.BorrowRecord, error)
	Return(ctx context.Context, bookID, userID string) (loan.ReturnRecord, error)
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, j jobs.Job) error
}

type CirculationHandler struct {
	books BookReader
	users UserByIDReader
	loans LoansStore
	queue JobEnqueuer
	log   *slog.Logger
}

func NewCirculationHandler(books BookReader, users UserByIDReader, loans LoansStore, queue JobEnqueuer, log *slog.Logger) *CirculationHandler {
	return &CirculationHandler{
		books: books,
		users: users,
		loans: loans,
		queue: queue,
		log:   log,
	}
}

func (h *CirculationHandler) Borrow(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req loan.BorrowRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	b, err := h.books.GetByID(cctx, req.BookID)

	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			RespondNotFound(ctx, "Book does not exist")
			return
		}
		RespondInternal(ctx, "Could not borrow book")
		return
	}

	rec, err := h.loans.Borrow(cctx, b.ID, userID)

	if err != nil {
		RespondInternal(ctx, "Could not borrow book")
		return
	}

	// The loan is committed; the confirmation mail is best-effort from here.
	h.enqueueConfirmation(cctx, rec, b)

	ctx.JSON(http.StatusOK, rec)
}

// enqueueConfirmation pushes the borrow-confirmation job onto the queue.
// Failures are logged and swallowed: a lost mail never fails the borrow.
func (h *CirculationHandler) enqueueConfirmation(ctx context.Context, rec loan.BorrowRecord, b book.Book) {
	if h.queue == nil {
		h.log.Debug("borrow notification skipped: no queue configured", "loan_id", rec.ID)
		return
	}

	borrower, err := h.users.GetByID(ctx, rec.UserID)

	if err != nil {
		h.log.Error("borrow notification skipped: borrower lookup failed",
			"loan_id", rec.ID, "err", err)
		return
	}

	payload, err := jobs.EncodePayload(jobs.JobBorrowConfirmation, jobs.BorrowConfirmationPayload{
		LoanID:      rec.ID,
		BookID:      b.ID,
		BookTitle:   b.Title,
		Email:       borrower.Email,
		Username:    borrower.Username,
		RequestedAt: time.Now().UTC(),
	})

	if err != nil {
		h.log.Error("borrow notification skipped: payload encode failed",
			"loan_id", rec.ID, "err", err)
		return
	}

	j, err := jobs.NewJob(jobs.JobBorrowConfirmation, payload)

	if err != nil {
		h.log.Error("borrow notification skipped: job build failed",
			"loan_id", rec.ID, "err", err)
		return
	}

	if err := h.queue.Enqueue(ctx, j); err != nil {
		h.log.Error("borrow notification enqueue failed",
			"loan_id", rec.ID, "err", err)
	}
}

func (h *CirculationHandler) History(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	records, err := h.loans.HistoryByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not fetch borrow history")
		return
	}

	ctx.JSON(http.StatusOK, records)
}

func (h *CirculationHandler) Return(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req loan.ReturnRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	ret, err := h.loans.Return(cctx, req.BookID, userID)

	if err != nil {
		if errors.Is(err, loan.ErrNotBorrowed) {
			RespondNotFound(ctx, "Book is not borrowed")
			return
		}
		RespondInternal(ctx, "Could not return book")
		return
	}

	ctx.JSON(http.StatusOK, ret)
}
