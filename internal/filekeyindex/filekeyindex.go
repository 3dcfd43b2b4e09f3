// Package filekeyindex implements the filekey reverse index: filekey
// string to 16-byte UUID, used exclusively by the collection's insert
// path for de-duplication.
package filekeyindex

import (
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/uid"
)

// Index binds filekey-index operations to one collection's filekeys
// bucket (named "<collection>_filekeys").
type Index struct {
	bucket string
}

// New returns an Index bound to bucketName.
func New(bucketName string) *Index {
	return &Index{bucket: bucketName}
}

// Create materializes the (initially empty) bucket.
func (idx *Index) Create(tx *kv.Tx) error {
	return tx.CreateBucketIfNotExists(idx.bucket)
}

// Put records that filekey belongs to u, overwriting any prior owner.
func (idx *Index) Put(tx *kv.Tx, filekey string, u uid.UID) error {
	return tx.Put(idx.bucket, []byte(filekey), u.Bytes())
}

// Get looks up the UUID owning filekey. Returns an ErrCodeNotFound
// error if filekey has never been indexed.
func (idx *Index) Get(tx *kv.Tx, filekey string) (uid.UID, error) {
	raw, err := tx.Get(idx.bucket, []byte(filekey))
	if err != nil {
		return uid.UID{}, err
	}
	return uid.FromBytes(raw)
}
