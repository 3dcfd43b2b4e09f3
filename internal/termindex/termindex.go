// Package termindex implements the term index: a sub-database mapping
// stemmed tokens to Matches, a compactly-serialized set of UUIDs.
package termindex

import (
	"sort"

	"github.com/Aman-CERP/rarian/internal/binenc"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
	"github.com/Aman-CERP/rarian/internal/tokenizer"
	"github.com/Aman-CERP/rarian/internal/uid"
)

// Matches is the set of UUIDs stored under one token.
type Matches map[uid.UID]struct{}

// Index binds term-index operations to one collection's stemmed-token
// sub-database.
type Index struct {
	bucket string
}

// New returns an Index bound to bucketName, the schema-declared
// StemmedTerm sub-database name.
func New(bucketName string) *Index {
	return &Index{bucket: bucketName}
}

// Create materializes the (initially empty) sub-database.
func (idx *Index) Create(tx *kv.Tx) error {
	return tx.CreateBucketIfNotExists(idx.bucket)
}

// IndexValue tokenizes s (lowercase, split, trim, stem, stopword-drop)
// and records u under every surviving token. Order of tokens has no
// semantic effect: the index encodes membership, not counts, so
// indexing the same value for the same UUID twice is idempotent.
func (idx *Index) IndexValue(tx *kv.Tx, u uid.UID, s string) error {
	for _, token := range tokenizer.Tokenize(s) {
		if err := idx.addMatch(tx, token, u); err != nil {
			return err
		}
	}
	return nil
}

func (idx *Index) addMatch(tx *kv.Tx, token string, u uid.UID) error {
	matches, err := idx.readMatches(tx, token)
	if err != nil {
		return err
	}
	if matches == nil {
		matches = Matches{}
	}
	if _, ok := matches[u]; ok {
		return nil
	}
	matches[u] = struct{}{}
	return idx.writeMatches(tx, token, matches)
}

// Lookup stems needle as a single word (matching the write-side
// stemming step, without the split/trim steps the full pipeline
// applies) and returns the stored Matches, or the empty set on miss.
func (idx *Index) Lookup(tx *kv.Tx, needle string) (Matches, error) {
	stemmed := tokenizer.Stem(needle)
	matches, err := idx.readMatches(tx, stemmed)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		return Matches{}, nil
	}
	return matches, nil
}

func (idx *Index) readMatches(tx *kv.Tx, token string) (Matches, error) {
	raw, err := tx.Get(idx.bucket, []byte(token))
	if err != nil {
		if rarianerrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeMatches(raw)
}

// writeMatches persists matches under token. A stored Matches value is
// never the empty set: writing an empty set deletes the key instead.
func (idx *Index) writeMatches(tx *kv.Tx, token string, matches Matches) error {
	if len(matches) == 0 {
		return tx.Delete(idx.bucket, []byte(token))
	}
	encoded := encodeMatches(matches)
	buf, err := tx.Reserve(idx.bucket, []byte(token), len(encoded))
	if err != nil {
		return err
	}
	copy(buf, encoded)
	return nil
}

func encodeMatches(matches Matches) []byte {
	ids := make([]uid.UID, 0, len(matches))
	for u := range matches {
		ids = append(ids, u)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })

	enc := binenc.NewEncoder()
	enc.WriteUint32(uint32(len(ids)))
	for _, u := range ids {
		enc.WriteBytes(u.Bytes())
	}
	return enc.Bytes()
}

func decodeMatches(buf []byte) (Matches, error) {
	d := binenc.NewDecoder(buf, rarianerrors.ErrCodeEntryDecode)
	count, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	matches := make(Matches, count)
	for i := uint32(0); i < count; i++ {
		raw, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		u, err := uid.FromBytes(raw)
		if err != nil {
			return nil, err
		}
		matches[u] = struct{}{}
	}
	return matches, nil
}
