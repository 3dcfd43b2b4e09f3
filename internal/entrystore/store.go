package entrystore

import (
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/uid"
)

// Store binds the entry-store operations to one collection's entries
// bucket (named after the collection itself).
type Store struct {
	bucket string
}

// New returns a Store bound to bucketName, the sub-database the
// collection's entries live in.
func New(bucketName string) *Store {
	return &Store{bucket: bucketName}
}

// Create materializes the (initially empty) bucket, for use by a
// collection's create path.
func (s *Store) Create(tx *kv.Tx) error {
	return tx.CreateBucketIfNotExists(s.bucket)
}

// Put reserves a slot for the serialized entry under u's 16-byte key
// and encodes in place.
func (s *Store) Put(tx *kv.Tx, u uid.UID, entry Entry) error {
	encoded := Encode(entry)
	buf, err := tx.Reserve(s.bucket, u.Bytes(), len(encoded))
	if err != nil {
		return err
	}
	copy(buf, encoded)
	return nil
}

// Get fetches and decodes the entry stored under u. Returns an
// ErrCodeNotFound error if absent.
func (s *Store) Get(tx *kv.Tx, u uid.UID) (Entry, error) {
	raw, err := tx.Get(s.bucket, u.Bytes())
	if err != nil {
		return Entry{}, err
	}
	return Decode(raw)
}

// Iter visits every (uuid, entry) pair ordered by raw key bytes —
// lexicographic over the 16-byte UUID encoding.
func (s *Store) Iter(tx *kv.Tx, fn func(u uid.UID, entry Entry) error) error {
	return tx.ForEach(s.bucket, func(key, value []byte) error {
		u, err := uid.FromBytes(key)
		if err != nil {
			return err
		}
		entry, err := Decode(value)
		if err != nil {
			return err
		}
		return fn(u, entry)
	})
}
