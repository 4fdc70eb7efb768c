package model

import "errors"

// Errors
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("already reviewed this book")
	ErrBookNotFound    = errors.New("reviewed book does not exist")
)

// Caller-facing messages
const (
	MsgReviewNotFound  = "Review not found"
	MsgAlreadyReviewed = "You have already reviewed this book"
	MsgNotOwner        = "You can only modify your own reviews"
	MsgBookNotFound    = "Book not found"
)
