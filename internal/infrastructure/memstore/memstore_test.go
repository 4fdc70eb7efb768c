package memstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   uuid.UUID
	Name string
}

func TestPutGetScan(t *testing.T) {
	db := New()
	ctx := context.Background()
	a, b := row{uuid.New(), "a"}, row{uuid.New(), "b"}

	require.NoError(t, db.Write(ctx, func(tx *Tx) error {
		tx.Put("rows", a.ID, a)
		tx.Put("rows", b.ID, b)
		return nil
	}))

	require.NoError(t, db.Read(ctx, func(tx *Tx) error {
		got, ok := Get[row](tx, "rows", a.ID)
		assert.True(t, ok)
		assert.Equal(t, "a", got.Name)

		_, ok = Get[row](tx, "rows", uuid.New())
		assert.False(t, ok)

		onlyB := Scan(tx, "rows", func(r row) bool { return r.Name == "b" })
		assert.Equal(t, []row{b}, onlyB)
		assert.Len(t, Scan[row](tx, "rows", nil), 2)
		return nil
	}))
}

func TestClaimIsExclusive(t *testing.T) {
	db := New()
	ctx := context.Background()

	const workers = 16
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = db.Write(ctx, func(tx *Tx) error {
				if tx.Claim("idx", "key", uuid.New()) {
					wins.Add(1)
				}
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestReleaseFreesKey(t *testing.T) {
	db := New()
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	require.NoError(t, db.Write(ctx, func(tx *Tx) error {
		assert.True(t, tx.Claim("idx", "k", first))
		assert.True(t, tx.Claim("idx", "k", first))
		assert.False(t, tx.Claim("idx", "k", second))
		tx.Release("idx", "k")
		assert.True(t, tx.Claim("idx", "k", second))

		owner, ok := tx.Lookup("idx", "k")
		assert.True(t, ok)
		assert.Equal(t, second, owner)
		return nil
	}))
}

func TestClosedAndCancelled(t *testing.T) {
	db := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, db.Read(ctx, func(*Tx) error { return nil }), context.Canceled)

	db.Close()
	assert.ErrorIs(t, db.HealthCheck(context.Background()), ErrClosed)
	assert.ErrorIs(t, db.Write(context.Background(), func(*Tx) error { return nil }), ErrClosed)
}
