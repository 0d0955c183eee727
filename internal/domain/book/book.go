package book

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("book not found")

type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateBookRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Author  string `json:"author" binding:"required,min=1,max=120"`
	Details string `json:"details" binding:"required,max=2000"`
}

// UpdateBookRequest is a partial update: nil fields are left untouched.
type UpdateBookRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Author  *string `json:"author" binding:"omitempty,min=1,max=120"`
	Details *string `json:"details" binding:"omitempty,max=2000"`
}
