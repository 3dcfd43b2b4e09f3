// Package kv implements the Environment & Transactions layer: a
// process-locked, memory-mapped embedded key/value store organized into
// named sub-databases (bbolt buckets), with MVCC-style reader/writer
// transactions. Every higher-level component (entry store, filekey
// index, term index, range index, collection) is built on top of an
// Environment.
package kv

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.etcd.io/bbolt"

	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

const (
	dataFileName = "rarian.db"
	lockFileName = ".rarian.lock"

	// RootBucket stands in for the LMDB-style "unnamed database" every
	// environment has by default: schema records and range-index blobs
	// live here, keyed by the names the schema gives them.
	RootBucket = "_root"
)

// Environment is rooted at a filesystem directory. It owns a
// process-wide lock (so two processes never open the same environment
// concurrently) and the single underlying bbolt database file. bbolt
// itself supplies the MVCC semantics this layer names: one writable
// transaction at a time, unlimited concurrent read-only transactions,
// snapshot-consistent reads.
type Environment struct {
	dir  string
	db   *bbolt.DB
	lock *flock.Flock
}

// Options configures Open.
type Options struct {
	// ReadOnly opens the environment without acquiring the writer lock,
	// for inspection tools that never write.
	ReadOnly bool
}

// Open acquires the directory lock and opens (creating if absent) the
// bbolt database file rooted at dir.
func Open(dir string, opts Options) (*Environment, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, rarianerrors.IOError("failed to create environment directory", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	var locked bool
	var err error
	if opts.ReadOnly {
		locked, err = lock.TryRLock()
	} else {
		locked, err = lock.TryLock()
	}
	if err != nil {
		return nil, rarianerrors.New(rarianerrors.ErrCodeEnvLocked, "failed to acquire environment lock", err)
	}
	if !locked {
		return nil, rarianerrors.New(rarianerrors.ErrCodeEnvLocked, "environment is locked by another process", nil)
	}

	db, err := bbolt.Open(filepath.Join(dir, dataFileName), 0o644, &bbolt.Options{ReadOnly: opts.ReadOnly})
	if err != nil {
		_ = lock.Unlock()
		return nil, rarianerrors.New(rarianerrors.ErrCodeTxnFailed, "failed to open environment data file", err)
	}

	return &Environment{dir: dir, db: db, lock: lock}, nil
}

// Close releases the database file and the directory lock.
func (e *Environment) Close() error {
	dbErr := e.db.Close()
	lockErr := e.lock.Unlock()
	if dbErr != nil {
		return rarianerrors.Wrap(rarianerrors.ErrCodeIO, dbErr)
	}
	if lockErr != nil {
		return rarianerrors.Wrap(rarianerrors.ErrCodeIO, lockErr)
	}
	return nil
}

// Dir returns the environment's root directory.
func (e *Environment) Dir() string {
	return e.dir
}

// View runs fn inside a read-only transaction. Any error fn returns
// aborts the (no-op) transaction and is propagated to the caller.
func (e *Environment) View(fn func(*Tx) error) error {
	return e.db.View(func(boltTx *bbolt.Tx) error {
		return fn(newTx(boltTx, false))
	})
}

// Update runs fn inside the single writable transaction. Writers are
// strictly serialized by bbolt's own writer lock: a second Update call
// blocks until the first commits or aborts. If fn returns an error, all
// writes made during fn (including pending reservations) are discarded
// and never become visible — commit atomicity covers every bucket
// touched by the transaction.
func (e *Environment) Update(fn func(*Tx) error) error {
	return e.db.Update(func(boltTx *bbolt.Tx) error {
		tx := newTx(boltTx, true)
		if err := fn(tx); err != nil {
			return err
		}
		return tx.flushReservations()
	})
}
