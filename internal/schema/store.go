package schema

import (
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

// keyFor returns the key a collection named name's schema is stored
// under inside kv.RootBucket.
func keyFor(name string) []byte {
	return []byte(name + "_schema")
}

// Put writes s under its own name. Used by collection creation.
func Put(tx *kv.Tx, s Schema) error {
	encoded := Encode(s)
	buf, err := tx.Reserve(kv.RootBucket, keyFor(s.Name), len(encoded))
	if err != nil {
		return err
	}
	copy(buf, encoded)
	return nil
}

// Get reads and decodes the schema stored for collection name. Returns
// an ErrCodeNotFound error if no such collection has been created.
func Get(tx *kv.Tx, name string) (Schema, error) {
	raw, err := tx.Get(kv.RootBucket, keyFor(name))
	if err != nil {
		return Schema{}, err
	}
	s, err := Decode(raw)
	if err != nil {
		return Schema{}, err
	}
	if err := s.CheckVersion(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Exists reports whether a schema is already stored for name.
func Exists(tx *kv.Tx, name string) (bool, error) {
	_, err := tx.Get(kv.RootBucket, keyFor(name))
	if err != nil {
		if rarianerrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
