package model

import "errors"

// Repository-level errors
var (
	ErrBookNotFound    = errors.New("book not found")
	ErrCreatorNotFound = errors.New("book creator does not exist")
)

// MsgBookNotFound is the caller-facing message for a missing book.
const MsgBookNotFound = "Book not found"
