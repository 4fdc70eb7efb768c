package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/infrastructure/mongodb"
)

type reviewDocument struct {
	ID        string    `bson:"_id"`
	Book      string    `bson:"book"`
	User      string    `bson:"user"`
	Rating    int       `bson:"rating"`
	Comment   string    `bson:"comment"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// reviewWithAuthor is the output of the $lookup pipeline.
type reviewWithAuthor struct {
	reviewDocument `bson:",inline"`
	Author         *struct {
		Name string `bson:"name"`
	} `bson:"author"`
}

func newReviewDocument(r *model.Review) reviewDocument {
	return reviewDocument{
		ID:        r.ID.String(),
		Book:      r.BookID.String(),
		User:      r.UserID.String(),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (d reviewDocument) toModel() (*model.Review, error) {
	ids := make([]uuid.UUID, 3)
	for i, raw := range []string{d.ID, d.Book, d.User} {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt id %q on review %s: %w", raw, d.ID, err)
		}
		ids[i] = id
	}
	return &model.Review{
		ID:        ids[0],
		BookID:    ids[1],
		UserID:    ids[2],
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

type mongoReviewRepository struct {
	reviews *mongo.Collection
	books   *mongo.Collection
}

func NewMongoReviewRepository(db *mongo.Database) ReviewRepository {
	return &mongoReviewRepository{
		reviews: db.Collection(mongodb.CollectionReviews),
		books:   db.Collection(mongodb.CollectionBooks),
	}
}

func (r *mongoReviewRepository) Create(ctx context.Context, review *model.Review) error {
	// Mongo has no foreign keys; the unique (book, user) index still makes the
	// insert itself the only duplicate check.
	n, err := r.books.CountDocuments(ctx, bson.M{"_id": review.BookID.String()})
	if err != nil {
		return fmt.Errorf("failed to check book: %w", err)
	}
	if n == 0 {
		return model.ErrBookNotFound
	}

	if _, err := r.reviews.InsertOne(ctx, newReviewDocument(review)); err != nil {
		if mongodb.IsDuplicateKey(err, mongodb.IndexReviewsBookUser) {
			return model.ErrAlreadyReviewed
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *mongoReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var doc reviewDocument
	if err := r.reviews.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return doc.toModel()
}

func (r *mongoReviewRepository) Update(ctx context.Context, review *model.Review) error {
	update := bson.M{"$set": bson.M{
		"rating":    review.Rating,
		"comment":   review.Comment,
		"updatedAt": review.UpdatedAt,
	}}

	res, err := r.reviews.UpdateByID(ctx, review.ID.String(), update)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *mongoReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.reviews.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *mongoReviewRepository) ListByBook(
	ctx context.Context,
	bookID uuid.UUID,
	offset, limit int,
) ([]model.ReviewWithUser, int, error) {
	match := bson.M{"book": bookID.String()}

	total, err := r.reviews.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	if total == 0 || int64(offset) >= total {
		return []model.ReviewWithUser{}, int(total), nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: int64(offset)}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         mongodb.CollectionUsers,
			"localField":   "user",
			"foreignField": "_id",
			"as":           "author",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$author", "preserveNullAndEmptyArrays": true}}},
	}

	cursor, err := r.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []reviewWithAuthor
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reviews: %w", err)
	}

	reviews := make([]model.ReviewWithUser, 0, len(docs))
	for _, doc := range docs {
		rv, err := doc.toModel()
		if err != nil {
			return nil, 0, err
		}
		item := model.ReviewWithUser{
			ID:        rv.ID,
			BookID:    rv.BookID,
			User:      model.UserInfo{ID: rv.UserID},
			Rating:    rv.Rating,
			Comment:   rv.Comment,
			CreatedAt: rv.CreatedAt,
			UpdatedAt: rv.UpdatedAt,
		}
		if doc.Author != nil {
			item.User.Name = doc.Author.Name
		}
		reviews = append(reviews, item)
	}

	return reviews, int(total), nil
}

func (r *mongoReviewRepository) GetBookStatistics(ctx context.Context, bookID uuid.UUID) (model.RatingStatistics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"book": bookID.String()}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"sum":   bson.M{"$sum": "$rating"},
		}}},
	}

	cursor, err := r.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return model.RatingStatistics{}, fmt.Errorf("failed to get review statistics: %w", err)
	}
	defer cursor.Close(ctx)

	var out []struct {
		Count int64 `bson:"count"`
		Sum   int64 `bson:"sum"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return model.RatingStatistics{}, fmt.Errorf("failed to decode review statistics: %w", err)
	}
	if len(out) == 0 {
		return model.RatingStatistics{}, nil
	}
	return model.RatingStatistics{Count: out[0].Count, Sum: out[0].Sum}, nil
}
