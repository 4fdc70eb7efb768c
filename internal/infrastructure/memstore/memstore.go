// Package memstore is an in-process store used by tests and STORE_DRIVER=memory.
//
// Rows are kept by value in per-table maps. Unique constraints are modelled as
// named key sets that are claimed inside the same write lock as the insert, so
// a duplicate is rejected atomically just like a unique index would.
package memstore

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Table names, mirroring the SQL tables and Mongo collections.
const (
	TableUsers   = "users"
	TableBooks   = "books"
	TableReviews = "reviews"
)

var ErrClosed = errors.New("memstore: closed")

type DB struct {
	mu     sync.RWMutex
	closed bool
	tables map[string]map[uuid.UUID]any
	unique map[string]map[string]uuid.UUID
}

func New() *DB {
	return &DB{
		tables: make(map[string]map[uuid.UUID]any),
		unique: make(map[string]map[string]uuid.UUID),
	}
}

// Tx is the view of the store handed to Read and Write callbacks.
// It must not be retained after the callback returns.
type Tx struct {
	db       *DB
	writable bool
}

// Read runs fn under the shared lock.
func (db *DB) Read(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return ErrClosed
	}
	return fn(&Tx{db: db})
}

// Write runs fn under the exclusive lock.
func (db *DB) Write(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrClosed
	}
	return fn(&Tx{db: db, writable: true})
}

func (tx *Tx) mustWrite() {
	if !tx.writable {
		panic("memstore: write inside Read")
	}
}

// Put inserts or replaces a row.
func (tx *Tx) Put(table string, id uuid.UUID, row any) {
	tx.mustWrite()
	t, ok := tx.db.tables[table]
	if !ok {
		t = make(map[uuid.UUID]any)
		tx.db.tables[table] = t
	}
	t[id] = row
}

func (tx *Tx) Delete(table string, id uuid.UUID) bool {
	tx.mustWrite()
	t := tx.db.tables[table]
	if _, ok := t[id]; !ok {
		return false
	}
	delete(t, id)
	return true
}

// Claim reserves key in the named unique index for id. It returns false if
// another row already holds the key.
func (tx *Tx) Claim(index, key string, id uuid.UUID) bool {
	tx.mustWrite()
	idx, ok := tx.db.unique[index]
	if !ok {
		idx = make(map[string]uuid.UUID)
		tx.db.unique[index] = idx
	}
	if owner, taken := idx[key]; taken && owner != id {
		return false
	}
	idx[key] = id
	return true
}

func (tx *Tx) Release(index, key string) {
	tx.mustWrite()
	delete(tx.db.unique[index], key)
}

// Lookup returns the id holding key in the named unique index.
func (tx *Tx) Lookup(index, key string) (uuid.UUID, bool) {
	id, ok := tx.db.unique[index][key]
	return id, ok
}

func (tx *Tx) Exists(table string, id uuid.UUID) bool {
	_, ok := tx.db.tables[table][id]
	return ok
}

// Get returns the row stored under id, typed as T.
func Get[T any](tx *Tx, table string, id uuid.UUID) (T, bool) {
	row, ok := tx.db.tables[table][id]
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := row.(T)
	return v, ok
}

// Scan returns every row of table that satisfies keep, in no particular order.
// A nil keep returns all rows.
func Scan[T any](tx *Tx, table string, keep func(T) bool) []T {
	rows := make([]T, 0, len(tx.db.tables[table]))
	for _, row := range tx.db.tables[table] {
		v, ok := row.(T)
		if !ok {
			continue
		}
		if keep == nil || keep(v) {
			rows = append(rows, v)
		}
	}
	return rows
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return ErrClosed
	}
	return nil
}

func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.closed = true
	log.Info().Msg("[MEMSTORE] Closed")
}
