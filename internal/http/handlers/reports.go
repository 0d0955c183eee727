package handlers

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/config"
	"libraryhub/internal/domain/loan"

	"github.com/gin-gonic/gin"
)

type LedgerReader interface {
	ListOpen(ctx context.Context) ([]loan.BorrowRecord, error)
	ListPopularity(ctx context.Context) ([]loan.PopularityEvent, error)
}

type ReportsHandler struct {
	ledger LedgerReader
}

func NewReportsHandler(ledger LedgerReader) *ReportsHandler {
	return &ReportsHandler{ledger: ledger}
}

// CurrentlyBorrowed lists every loan still out, across all users.
func (h *ReportsHandler) CurrentlyBorrowed(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	records, err := h.ledger.ListOpen(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not fetch borrowed report")
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// PopularBooks returns the raw borrow-event log projected to book
// references. Aggregation is deliberately left to the caller.
func (h *ReportsHandler) PopularBooks(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	events, err := h.ledger.ListPopularity(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not fetch popularity report")
		return
	}

	out := make([]gin.H, 0, len(events))

	for _, e := range events {
		out = append(out, gin.H{"book": e.BookID})
	}

	ctx.JSON(http.StatusOK, out)
}
