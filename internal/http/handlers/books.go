package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"libraryhub/internal/config"
	"libraryhub/internal/domain/book"

	"github.com/gin-gonic/gin"
)

type BooksStore interface {
	Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error)
	List(ctx context.Context) ([]book.Book, error)
	GetByID(ctx context.Context, id string) (book.Book, error)
	Update(ctx context.Context, id string, req book.UpdateBookRequest) (book.Book, error)
	Delete(ctx context.Context, id string) error
}

type BooksHandler struct {
	repo BooksStore
}

func NewBooksHandler(repo BooksStore) *BooksHandler {
	return &BooksHandler{repo: repo}
}

func (h *BooksHandler) CreateBook(ctx *gin.Context) {
	var req book.CreateBookRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	b, err := h.repo.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create book")
		return
	}

	ctx.JSON(http.StatusOK, b)
}

func (h *BooksHandler) ListBooks(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	books, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list books")
		return
	}

	ctx.JSON(http.StatusOK, books)
}

func (h *BooksHandler) GetBookByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	b, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			RespondNotFound(ctx, "Book not found")
			return
		}
		RespondInternal(ctx, "Could not fetch book")
		return
	}

	ctx.JSON(http.StatusOK, b)
}

func (h *BooksHandler) UpdateBook(ctx *gin.Context) {
	id := ctx.Param("id")

	var req book.UpdateBookRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	updated, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			RespondNotFound(ctx, "Book not found")
			return
		}
		RespondInternal(ctx, "Could not update book")
		return
	}

	// post-update record, not the pre-update one
	ctx.JSON(http.StatusOK, updated)
}

func (h *BooksHandler) DeleteBook(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			RespondNotFound(ctx, "Book not found")
			return
		}
		RespondInternal(ctx, "Could not delete book")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}
