package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/infrastructure/mongodb"
	"bookreview-backend/internal/shared/utils"
)

// bookDocument is the stored shape; ids are kept as canonical UUID strings.
type bookDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Author      string    `bson:"author"`
	Genre       string    `bson:"genre"`
	Description string    `bson:"description"`
	CreatedBy   string    `bson:"createdBy"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func newBookDocument(b *model.Book) bookDocument {
	return bookDocument{
		ID:          b.ID.String(),
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Description: b.Description,
		CreatedBy:   b.CreatedBy.String(),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (d bookDocument) toModel() (model.Book, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Book{}, fmt.Errorf("corrupt book id %q: %w", d.ID, err)
	}
	createdBy, err := uuid.Parse(d.CreatedBy)
	if err != nil {
		return model.Book{}, fmt.Errorf("corrupt createdBy on book %s: %w", d.ID, err)
	}
	return model.Book{
		ID:          id,
		Title:       d.Title,
		Author:      d.Author,
		Genre:       d.Genre,
		Description: d.Description,
		CreatedBy:   createdBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type mongoRepository struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) BookRepository {
	return &mongoRepository{
		coll:  db.Collection(mongodb.CollectionBooks),
		users: db.Collection(mongodb.CollectionUsers),
	}
}

func (r *mongoRepository) Create(ctx context.Context, book *model.Book) error {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": book.CreatedBy.String()})
	if err != nil {
		return fmt.Errorf("failed to check creator: %w", err)
	}
	if n == 0 {
		return model.ErrCreatorNotFound
	}

	if _, err := r.coll.InsertOne(ctx, newBookDocument(book)); err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var doc bookDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	book, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *mongoRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	query := bson.M{}
	if filter.Author != "" {
		query["author"] = bson.M{"$regex": utils.ContainsRegex(filter.Author)}
	}
	if filter.Genre != "" {
		query["genre"] = bson.M{"$regex": utils.ContainsRegex(filter.Genre)}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count books failed: %w", err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))

	books, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return books, int(total), nil
}

func (r *mongoRepository) Search(ctx context.Context, query string, limit int) ([]model.Book, error) {
	pattern := utils.ContainsRegex(query)
	filter := bson.M{"$or": bson.A{
		bson.M{"title": bson.M{"$regex": pattern}},
		bson.M{"author": bson.M{"$regex": pattern}},
	}}

	return r.find(ctx, filter, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
}

func (r *mongoRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]model.Book, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find books failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books failed: %w", err)
	}

	books := make([]model.Book, 0, len(docs))
	for _, doc := range docs {
		b, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}
