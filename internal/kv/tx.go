package kv

import (
	"bytes"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

// Tx wraps a single bbolt transaction, read-only or writable. Buckets
// are addressed by name; every sub-database a higher-level package
// needs (entries, filekeys, a term-index database, a range-index
// database, the schema record) lives in its own bucket inside the one
// environment file.
type Tx struct {
	bolt     *bbolt.Tx
	writable bool
	pending  map[string]map[string][]byte
}

func newTx(boltTx *bbolt.Tx, writable bool) *Tx {
	return &Tx{bolt: boltTx, writable: writable}
}

// Writable reports whether this transaction may mutate buckets.
func (t *Tx) Writable() bool {
	return t.writable
}

// CreateBucketIfNotExists creates the named bucket, or returns the
// existing one if it is already present.
func (t *Tx) CreateBucketIfNotExists(name string) error {
	_, err := t.bolt.CreateBucketIfNotExists([]byte(name))
	if err != nil {
		return rarianerrors.Wrap(rarianerrors.ErrCodeTxnFailed, err)
	}
	return nil
}

// DeleteBucket removes the named bucket entirely.
func (t *Tx) DeleteBucket(name string) error {
	if err := t.bolt.DeleteBucket([]byte(name)); err != nil {
		return rarianerrors.Wrap(rarianerrors.ErrCodeTxnFailed, err)
	}
	return nil
}

func (t *Tx) bucket(name string) (*bbolt.Bucket, error) {
	b := t.bolt.Bucket([]byte(name))
	if b == nil {
		return nil, rarianerrors.New(rarianerrors.ErrCodeNotFound, "bucket does not exist: "+name, nil)
	}
	return b, nil
}

// Get looks up key in the named bucket. A pending Reserve write against
// the same bucket/key is consulted first, so a writer observes its own
// uncommitted writes within the same transaction. Returns an
// ErrCodeNotFound error if the key is absent from both pending writes
// and the bucket, or the bucket itself doesn't exist. The returned
// slice is only valid for the lifetime of the transaction; callers that
// need to retain it must copy.
func (t *Tx) Get(bucketName string, key []byte) ([]byte, error) {
	if t.pending != nil {
		if bucket, ok := t.pending[bucketName]; ok {
			if v, ok := bucket[string(key)]; ok {
				return v, nil
			}
		}
	}

	b, err := t.bucket(bucketName)
	if err != nil {
		return nil, err
	}
	v := b.Get(key)
	if v == nil {
		return nil, rarianerrors.NotFound("key not found", nil)
	}
	return v, nil
}

// Put stores value under key in the named bucket, creating the bucket
// first if necessary.
func (t *Tx) Put(bucketName string, key, value []byte) error {
	if err := t.CreateBucketIfNotExists(bucketName); err != nil {
		return err
	}
	b, err := t.bucket(bucketName)
	if err != nil {
		return err
	}
	if err := b.Put(key, value); err != nil {
		return rarianerrors.Wrap(rarianerrors.ErrCodeTxnFailed, err)
	}
	return nil
}

// Delete removes key from the named bucket. Deleting an absent key is
// not an error.
func (t *Tx) Delete(bucketName string, key []byte) error {
	b, err := t.bucket(bucketName)
	if err != nil {
		if rarianerrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if err := b.Delete(key); err != nil {
		return rarianerrors.Wrap(rarianerrors.ErrCodeTxnFailed, err)
	}
	return nil
}

// ForEach visits every key/value pair in the named bucket in ascending
// raw-byte key order, stopping early if fn returns an error. Pending
// Reserve writes against this bucket are merged in (and take priority
// over the committed value for a key appearing in both), so a writer
// observes its own uncommitted writes within the same transaction. A
// bucket that doesn't exist yet in bbolt but has pending writes is
// still visited rather than treated as empty.
func (t *Tx) ForEach(bucketName string, fn func(key, value []byte) error) error {
	combined := make(map[string][]byte)

	if b := t.bolt.Bucket([]byte(bucketName)); b != nil {
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			combined[string(k)] = v
		}
	}

	if t.pending != nil {
		for k, v := range t.pending[bucketName] {
			combined[k] = v
		}
	}

	if len(combined) == 0 {
		return nil
	}

	keys := make([]string, 0, len(combined))
	for k := range combined {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := fn([]byte(k), combined[k]); err != nil {
			return err
		}
	}
	return nil
}

// Reserve stashes a caller-filled buffer of the given length to be
// written into bucketName under key when the transaction commits. See
// reserve.go for the rationale.
func (t *Tx) Reserve(bucketName string, key []byte, length int) ([]byte, error) {
	if !t.writable {
		return nil, rarianerrors.New(rarianerrors.ErrCodeTxnFailed, "cannot reserve in a read-only transaction", nil)
	}
	if t.pending == nil {
		t.pending = make(map[string]map[string][]byte)
	}
	if t.pending[bucketName] == nil {
		t.pending[bucketName] = make(map[string][]byte)
	}
	buf := make([]byte, length)
	t.pending[bucketName][string(key)] = buf
	return buf, nil
}

// flushReservations writes every buffer stashed by Reserve into its
// owning bucket. Called once, just before the underlying bbolt
// transaction commits.
func (t *Tx) flushReservations() error {
	if len(t.pending) == 0 {
		return nil
	}

	buckets := make([]string, 0, len(t.pending))
	for name := range t.pending {
		buckets = append(buckets, name)
	}
	sort.Strings(buckets)

	for _, bucketName := range buckets {
		if err := t.CreateBucketIfNotExists(bucketName); err != nil {
			return err
		}
		b, err := t.bucket(bucketName)
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(t.pending[bucketName]))
		for k := range t.pending[bucketName] {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return bytes.Compare([]byte(keys[i]), []byte(keys[j])) < 0 })

		for _, k := range keys {
			if err := b.Put([]byte(k), t.pending[bucketName][k]); err != nil {
				return rarianerrors.Wrap(rarianerrors.ErrCodeTxnFailed, err)
			}
		}
	}
	return nil
}
