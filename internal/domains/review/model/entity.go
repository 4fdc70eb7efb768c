package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is one user's rating of one book. At most one exists per (BookID, UserID).
type Review struct {
	ID      uuid.UUID `json:"_id"`
	BookID  uuid.UUID `json:"book"`
	UserID  uuid.UUID `json:"user"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserInfo is the author of a review as shown on the book detail page.
type UserInfo struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name"`
}

// ReviewWithUser is a review with its author resolved.
type ReviewWithUser struct {
	ID      uuid.UUID `json:"_id"`
	BookID  uuid.UUID `json:"book"`
	User    UserInfo  `json:"user"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingStatistics aggregates every review of a book.
type RatingStatistics struct {
	Count int64
	Sum   int64
}
