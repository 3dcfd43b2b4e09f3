// Package rangeindex implements the range index: an in-memory ordered
// map from int64 to UUID, persisted as a single serialized blob and
// rewritten whole on every mutation within the same transaction.
package rangeindex

import (
	"github.com/google/btree"

	"github.com/Aman-CERP/rarian/internal/binenc"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
	"github.com/Aman-CERP/rarian/internal/uid"
)

// Entry is one (value, uuid) pair held by the range index.
type Entry struct {
	Value int64
	UID   uid.UID
}

// treeDegree is the B-tree branching factor; this index is rebuilt
// from its serialized form on every operation, so it is not
// performance-critical.
const treeDegree = 32

func entryLess(a, b Entry) bool {
	return a.Value < b.Value
}

// Index binds range-index operations to the schema-given key the
// serialized blob lives under, inside the collection's top-level
// sub-database.
type Index struct {
	rootBucket string
	name       string
}

// New returns an Index. rootBucket is the fixed bucket standing in for
// the environment's unnamed top-level sub-database; name is the
// schema-declared RangeTree name the blob is stored under.
func New(rootBucket, name string) *Index {
	return &Index{rootBucket: rootBucket, name: name}
}

// Create materializes an empty blob under the index's key.
func (idx *Index) Create(tx *kv.Tx) error {
	return idx.store(tx, btree.NewG[Entry](treeDegree, entryLess))
}

// Insert places (value → u) into the map, overwriting any existing
// entry with the same value (collisions are not supported by this
// shape: the map holds one UUID per value, and the later insert wins),
// then rewrites the whole blob.
func (idx *Index) Insert(tx *kv.Tx, value int64, u uid.UID) error {
	tree, err := idx.load(tx)
	if err != nil {
		return err
	}
	tree.ReplaceOrInsert(Entry{Value: value, UID: u})
	return idx.store(tx, tree)
}

// Range returns every (value, uuid) pair with value satisfying both
// bounds, in ascending value order.
func (idx *Index) Range(tx *kv.Tx, lower, upper Bound) ([]Entry, error) {
	tree, err := idx.load(tx)
	if err != nil {
		return nil, err
	}

	var out []Entry
	tree.Ascend(func(e Entry) bool {
		if !lower.satisfiesLower(e.Value) {
			return true
		}
		if !upper.satisfiesUpper(e.Value) {
			return false
		}
		out = append(out, e)
		return true
	})
	return out, nil
}

func (idx *Index) load(tx *kv.Tx) (*btree.BTreeG[Entry], error) {
	raw, err := tx.Get(idx.rootBucket, []byte(idx.name))
	if err != nil {
		if rarianerrors.IsNotFound(err) {
			return btree.NewG[Entry](treeDegree, entryLess), nil
		}
		return nil, err
	}
	return decodeTree(raw)
}

func (idx *Index) store(tx *kv.Tx, tree *btree.BTreeG[Entry]) error {
	encoded := encodeTree(tree)
	buf, err := tx.Reserve(idx.rootBucket, []byte(idx.name), len(encoded))
	if err != nil {
		return err
	}
	copy(buf, encoded)
	return nil
}

func encodeTree(tree *btree.BTreeG[Entry]) []byte {
	enc := binenc.NewEncoder()
	enc.WriteUint32(uint32(tree.Len()))
	tree.Ascend(func(e Entry) bool {
		enc.WriteInt64(e.Value)
		enc.WriteBytes(e.UID.Bytes())
		return true
	})
	return enc.Bytes()
}

func decodeTree(buf []byte) (*btree.BTreeG[Entry], error) {
	d := binenc.NewDecoder(buf, rarianerrors.ErrCodeEntryDecode)
	count, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}

	tree := btree.NewG[Entry](treeDegree, entryLess)
	for i := uint32(0); i < count; i++ {
		value, err := d.ReadInt64()
		if err != nil {
			return nil, err
		}
		rawUID, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		u, err := uid.FromBytes(rawUID)
		if err != nil {
			return nil, err
		}
		tree.ReplaceOrInsert(Entry{Value: value, UID: u})
	}
	return tree, nil
}
