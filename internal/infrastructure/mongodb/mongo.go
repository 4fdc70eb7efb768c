package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	CollectionUsers   = "users"
	CollectionBooks   = "books"
	CollectionReviews = "reviews"
)

// Index names, also used to classify duplicate key errors.
const (
	IndexUsersEmail      = "users_email_key"
	IndexReviewsBookUser = "reviews_book_user_key"
)

// MongoDB owns the client and the application database handle.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database

	uri            string
	dbName         string
	connectTimeout time.Duration
}

func NewMongoDB(uri, dbName string, connectTimeout time.Duration) *MongoDB {
	return &MongoDB{
		uri:            uri,
		dbName:         dbName,
		connectTimeout: connectTimeout,
	}
}

// Connect opens the client and verifies the primary is reachable.
func (m *MongoDB) Connect(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, m.connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(m.uri).
		SetConnectTimeout(m.connectTimeout).
		SetServerSelectionTimeout(m.connectTimeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("mongo ping: %w", err)
	}

	m.Client = client
	m.Database = client.Database(m.dbName)

	log.Info().Str("database", m.dbName).Msg("[MONGO] Connected")
	return nil
}

// EnsureIndexes creates the indexes the repositories rely on, including the
// unique (book, user) index that enforces one review per user per book.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(IndexUsersEmail),
			},
		},
		CollectionBooks: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		},
		CollectionReviews: {
			{
				Keys:    bson.D{{Key: "book", Value: 1}, {Key: "user", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(IndexReviewsBookUser),
			},
			{Keys: bson.D{{Key: "book", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := m.Database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func (m *MongoDB) HealthCheck(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("mongo client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) Close() {
	if m.Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("[MONGO] Disconnect failed")
	}
}
