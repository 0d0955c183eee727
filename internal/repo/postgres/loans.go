package postgres

import (
	"context"
	"errors"

	"libraryhub/internal/domain/loan"
	"libraryhub/internal/observability"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoansRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewLoansRepo(pool *pgxpool.Pool, prom *observability.Prom) *LoansRepo {
	return &LoansRepo{pool: pool, prom: prom}
}

func (r *LoansRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Borrow inserts the loan row and its popularity event in one transaction.
// The popularity event is written on every borrow, with no dedup against
// existing open loans for the same book.
func (r *LoansRepo) Borrow(ctx context.Context, bookID, userID string) (rec loan.BorrowRecord, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() { _ = tx.Rollback(ctx) }()

	rec = loan.NewBorrowRecord(bookID, userID)

	err = r.observe("loans.borrow.insert", func() error {
		_, e := tx.Exec(ctx,
			`INSERT INTO loans (id, book_id, user_id, created_at)
			 VALUES ($1,$2,$3,$4)`,
			rec.ID, rec.BookID, rec.UserID, rec.CreatedAt,
		)
		return e
	})

	if err != nil {
		return loan.BorrowRecord{}, err
	}

	pop := loan.NewPopularityEvent(bookID)

	err = r.observe("loans.borrow.popularity", func() error {
		_, e := tx.Exec(ctx,
			`INSERT INTO popularity_events (id, book_id, created_at)
			 VALUES ($1,$2,$3)`,
			pop.ID, pop.BookID, pop.CreatedAt,
		)
		return e
	})

	if err != nil {
		return loan.BorrowRecord{}, err
	}

	err = tx.Commit(ctx)

	if err != nil {
		return loan.BorrowRecord{}, err
	}

	return rec, nil
}

// HistoryByUser returns every borrow event for a user, open or returned,
// in insertion order.
func (r *LoansRepo) HistoryByUser(ctx context.Context, userID string) ([]loan.BorrowRecord, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("loans.history_by_user", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id, book_id, user_id, created_at, returned_at
			 FROM loans
			 WHERE user_id = $1
			 ORDER BY created_at ASC, id ASC`,
			userID,
		)
		return err
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanBorrowRecords(rows)
}

// Return closes one open loan for the book (any borrower's; ownership is not
// checked, matching the documented find-one-and-delete policy) and writes the
// return audit row in the same transaction. No open loan => ErrNotBorrowed.
func (r *LoansRepo) Return(ctx context.Context, bookID, userID string) (ret loan.ReturnRecord, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var closedID string

	err = r.observe("loans.return.close", func() error {
		return tx.QueryRow(ctx,
			`UPDATE loans
			 SET returned_at = NOW()
			 WHERE id = (
				SELECT id FROM loans
				WHERE book_id = $1 AND returned_at IS NULL
				ORDER BY created_at ASC, id ASC
				LIMIT 1
				FOR UPDATE SKIP LOCKED
			 )
			 RETURNING id`,
			bookID,
		).Scan(&closedID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.ReturnRecord{}, loan.ErrNotBorrowed
		}

		return loan.ReturnRecord{}, err
	}

	ret = loan.NewReturnRecord(bookID, userID)

	err = r.observe("loans.return.audit", func() error {
		_, e := tx.Exec(ctx,
			`INSERT INTO returns (id, book_id, user_id, created_at)
			 VALUES ($1,$2,$3,$4)`,
			ret.ID, ret.BookID, ret.UserID, ret.CreatedAt,
		)
		return e
	})

	if err != nil {
		return loan.ReturnRecord{}, err
	}

	err = tx.Commit(ctx)

	if err != nil {
		return loan.ReturnRecord{}, err
	}

	return ret, nil
}

// ListOpen returns every loan still out, across all users.
func (r *LoansRepo) ListOpen(ctx context.Context) ([]loan.BorrowRecord, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("loans.list_open", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id, book_id, user_id, created_at, returned_at
			 FROM loans
			 WHERE returned_at IS NULL
			 ORDER BY created_at ASC, id ASC`,
		)
		return err
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanBorrowRecords(rows)
}

// ListPopularity returns the raw borrow-event log. No aggregation happens
// here; ranking is left to the caller.
func (r *LoansRepo) ListPopularity(ctx context.Context) ([]loan.PopularityEvent, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("loans.list_popularity", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id, book_id, created_at
			 FROM popularity_events
			 ORDER BY created_at ASC, id ASC`,
		)
		return err
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]loan.PopularityEvent, 0)

	for rows.Next() {
		var p loan.PopularityEvent

		err = rows.Scan(&p.ID, &p.BookID, &p.CreatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, p)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return out, nil
}

func scanBorrowRecords(rows pgx.Rows) ([]loan.BorrowRecord, error) {
	out := make([]loan.BorrowRecord, 0)

	for rows.Next() {
		var rec loan.BorrowRecord

		err := rows.Scan(&rec.ID, &rec.BookID, &rec.UserID, &rec.CreatedAt, &rec.ReturnedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, rec)
	}

	err := rows.Err()

	if err != nil {
		return nil, err
	}

	return out, nil
}
