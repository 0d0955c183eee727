package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"libraryhub/internal/domain/loan"
	"libraryhub/internal/http/handlers"

	"github.com/google/uuid"
)

type fakeLedger struct {
	open       []loan.BorrowRecord
	popularity []loan.PopularityEvent
	err        error
}

func (f *fakeLedger) ListOpen(ctx context.Context) ([]loan.BorrowRecord, error) {
	return f.open, f.err
}

func (f *fakeLedger) ListPopularity(ctx context.Context) ([]loan.PopularityEvent, error) {
	return f.popularity, f.err
}

func TestCurrentlyBorrowed(t *testing.T) {
	open := []loan.BorrowRecord{
		loan.NewBorrowRecord(uuid.NewString(), uuid.NewString()),
		loan.NewBorrowRecord(uuid.NewString(), uuid.NewString()),
	}

	h := handlers.NewReportsHandler(&fakeLedger{open: open})
	r := setupRouter(http.MethodGet, "/api/reports/borrowed", h.CurrentlyBorrowed)

	w := doJSON(r, http.MethodGet, "/api/reports/borrowed", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var got []loan.BorrowRecord
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("could not parse body: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 open loans, got %d", len(got))
	}
}

func TestPopularBooksCountsEveryBorrowEvent(t *testing.T) {
	bookID := uuid.NewString()

	// the same book borrowed twice appears twice, no dedup
	ledger := &fakeLedger{
		popularity: []loan.PopularityEvent{
			loan.NewPopularityEvent(bookID),
			loan.NewPopularityEvent(bookID),
		},
	}

	h := handlers.NewReportsHandler(ledger)
	r := setupRouter(http.MethodGet, "/api/reports/popular", h.PopularBooks)

	w := doJSON(r, http.MethodGet, "/api/reports/popular", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var got []struct {
		Book string `json:"book"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("could not parse body: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	if got[0].Book != bookID || got[1].Book != bookID {
		t.Fatalf("entries do not reference the borrowed book: %+v", got)
	}
}

func TestPopularBooksEmptyIsArray(t *testing.T) {
	h := handlers.NewReportsHandler(&fakeLedger{})
	r := setupRouter(http.MethodGet, "/api/reports/popular", h.PopularBooks)

	w := doJSON(r, http.MethodGet, "/api/reports/popular", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}

	// an empty report serializes as [], not null
	if body := w.Body.String(); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestReportsStorageError(t *testing.T) {
	h := handlers.NewReportsHandler(&fakeLedger{err: errors.New("db down")})

	r := setupRouter(http.MethodGet, "/api/reports/borrowed", h.CurrentlyBorrowed)
	w := doJSON(r, http.MethodGet, "/api/reports/borrowed", "")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", w.Code)
	}
}
