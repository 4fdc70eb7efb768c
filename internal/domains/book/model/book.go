package model

import (
	"time"

	"github.com/google/uuid"
)

// Book is a catalog entry. JSON field names match the existing web client.
type Book struct {
	ID          uuid.UUID `json:"_id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Author      string    `json:"author" db:"author"`
	Genre       string    `json:"genre" db:"genre"`
	Description string    `json:"description" db:"description"`
	CreatedBy   uuid.UUID `json:"createdBy" db:"created_by"` // user who added the book, audit only
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// BookFilter is the repository-level query for listing books.
// Author and Genre are case-insensitive substring matches; empty means no filter.
type BookFilter struct {
	Author string
	Genre  string
	Offset int
	Limit  int
}
