package book

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateBookRequest) Book {
	now := time.Now().UTC()

	return Book{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Author:    req.Author,
		Details:   req.Details,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
