package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"libraryhub/internal/domain/book"
	"libraryhub/internal/observability"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BooksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewBooksRepo(pool *pgxpool.Pool, prom *observability.Prom) *BooksRepo {
	return &BooksRepo{pool: pool, prom: prom}
}

func (r *BooksRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *BooksRepo) Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
	b := book.NewFromCreateRequest(req)

	err := r.observe("books.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO books (id, title, author, details, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			b.ID, b.Title, b.Author, b.Details, b.CreatedAt, b.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return book.Book{}, err
	}

	return b, nil
}

func (r *BooksRepo) List(ctx context.Context) ([]book.Book, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("books.list", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id, title, author, details, created_at, updated_at
			 FROM books
			 ORDER BY created_at ASC, id ASC`,
		)
		return err
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]book.Book, 0)

	for rows.Next() {
		var b book.Book

		err = rows.Scan(&b.ID, &b.Title, &b.Author, &b.Details, &b.CreatedAt, &b.UpdatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, b)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *BooksRepo) GetByID(ctx context.Context, id string) (book.Book, error) {
	var b book.Book

	err := r.observe("books.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, author, details, created_at, updated_at
			 FROM books
			 WHERE id = $1`,
			id,
		).Scan(&b.ID, &b.Title, &b.Author, &b.Details, &b.CreatedAt, &b.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}

		return book.Book{}, err
	}

	return b, nil
}

// Update applies a partial update and returns the post-update record.
func (r *BooksRepo) Update(ctx context.Context, id string, req book.UpdateBookRequest) (book.Book, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	argsPosition := 2

	if req.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argsPosition))
		args = append(args, *req.Title)
		argsPosition++
	}

	if req.Author != nil {
		sets = append(sets, fmt.Sprintf("author = $%d", argsPosition))
		args = append(args, *req.Author)
		argsPosition++
	}

	if req.Details != nil {
		sets = append(sets, fmt.Sprintf("details = $%d", argsPosition))
		args = append(args, *req.Details)
		argsPosition++
	}

	query := `UPDATE books SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING id, title, author, details, created_at, updated_at`

	var b book.Book

	err := r.observe("books.update", func() error {
		return r.pool.QueryRow(ctx, query, args...).Scan(
			&b.ID,
			&b.Title,
			&b.Author,
			&b.Details,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}

		return book.Book{}, err
	}

	return b, nil
}

func (r *BooksRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("books.delete", func() error {
		tag, e := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)

		if e != nil {
			return e
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return book.ErrNotFound
	}

	return nil
}
