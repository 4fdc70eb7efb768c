package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateReviewRequest is the body of POST /books/:id/reviews.
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating,
			validation.Required.Error("rating is required"),
			validation.Min(MinRating).Error("rating must be between 1 and 5"),
			validation.Max(MaxRating).Error("rating must be between 1 and 5"),
		),
		validation.Field(&r.Comment, validation.RuneLength(0, MaxCommentLength)),
	)
}

// UpdateReviewRequest only touches the fields that are present.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating,
			validation.When(r.Rating != nil,
				validation.Required.Error("rating must be between 1 and 5"),
				validation.Min(MinRating).Error("rating must be between 1 and 5"),
				validation.Max(MaxRating).Error("rating must be between 1 and 5"),
			),
		),
		validation.Field(&r.Comment, validation.RuneLength(0, MaxCommentLength)),
	)
}

// Apply copies the provided fields onto review.
func (r UpdateReviewRequest) Apply(review *Review) {
	if r.Rating != nil {
		review.Rating = *r.Rating
	}
	if r.Comment != nil {
		review.Comment = *r.Comment
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type DeleteReviewResponse struct {
	Message string `json:"message"`
}
