package model

const (
	// Rating
	MinRating = 1
	MaxRating = 5

	// Content limits
	MaxCommentLength = 2000

	MsgReviewDeleted = "Review deleted successfully"
)
