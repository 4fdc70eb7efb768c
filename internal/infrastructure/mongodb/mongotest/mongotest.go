// Package mongotest connects repository tests to a MongoDB named by MONGO_URI.
package mongotest

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"bookreview-backend/internal/infrastructure/mongodb"
)

// NewDatabase returns a fresh database with the application indexes. The
// database is dropped when the test ends. It skips in -short mode or when
// MONGO_URI is unset.
func NewDatabase(t testing.TB) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo in -short mode")
	}
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	name := "book_reviews_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	m := mongodb.NewMongoDB(uri, name, 10*time.Second)
	if err := m.Connect(ctx); err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	if err := m.EnsureIndexes(ctx); err != nil {
		m.Close()
		t.Fatalf("create indexes: %v", err)
	}

	t.Cleanup(func() {
		_ = m.Database.Drop(context.Background())
		m.Close()
	})
	return m.Database
}
