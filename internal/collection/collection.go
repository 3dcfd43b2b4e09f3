// Package collection implements the Collection (Database): the
// orchestrator that binds one named schema to its entry store, filekey
// index, and declared term/range indices, and drives the
// de-duplicating insert algorithm across all of them inside one write
// transaction.
package collection

import (
	"github.com/Aman-CERP/rarian/internal/entrystore"
	"github.com/Aman-CERP/rarian/internal/filekeyindex"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/rangeindex"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
	"github.com/Aman-CERP/rarian/internal/schema"
	"github.com/Aman-CERP/rarian/internal/termindex"
	"github.com/Aman-CERP/rarian/internal/uid"
)

// Collection binds a schema to its companion sub-databases and
// materialized index handles.
type Collection struct {
	Name         string
	Schema       schema.Schema
	entries      *entrystore.Store
	filekeys     *filekeyindex.Index
	termIndices  map[metadata.AttributeKey]*termindex.Index
	rangeIndices map[metadata.AttributeKey]*rangeindex.Index
}

func filekeysBucketName(name string) string {
	return name + "_filekeys"
}

func bind(name string, s schema.Schema) *Collection {
	termIndices := make(map[metadata.AttributeKey]*termindex.Index)
	rangeIndices := make(map[metadata.AttributeKey]*rangeindex.Index)

	for key, desc := range s.Attributes {
		switch desc.Kind {
		case schema.StemmedTerm:
			termIndices[key] = termindex.New(desc.Name)
		case schema.RangeTree:
			rangeIndices[key] = rangeindex.New(kv.RootBucket, desc.Name)
		}
	}

	return &Collection{
		Name:         name,
		Schema:       s,
		entries:      entrystore.New(name),
		filekeys:     filekeyindex.New(filekeysBucketName(name)),
		termIndices:  termIndices,
		rangeIndices: rangeIndices,
	}
}

// Create writes the schema under "<name>_schema", creates the
// "<name>_filekeys" and "<name>" sub-databases, and materializes empty
// scaffolding for every declared index.
func Create(tx *kv.Tx, name string, s schema.Schema) (*Collection, error) {
	s.Name = name
	if s.Version == (schema.Version{}) {
		s.Version = schema.CurrentVersion
	}

	if err := schema.Put(tx, s); err != nil {
		return nil, err
	}

	c := bind(name, s)

	if err := c.entries.Create(tx); err != nil {
		return nil, err
	}
	if err := c.filekeys.Create(tx); err != nil {
		return nil, err
	}
	for _, idx := range c.termIndices {
		if err := idx.Create(tx); err != nil {
			return nil, err
		}
	}
	for _, idx := range c.rangeIndices {
		if err := idx.Create(tx); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Open reads and decodes the schema, then rebinds all companion
// sub-database and index handles. Fails with NotFound if the schema
// key is absent.
func Open(tx *kv.Tx, name string) (*Collection, error) {
	s, err := schema.Get(tx, name)
	if err != nil {
		return nil, err
	}
	return bind(name, s), nil
}

// Get fetches the entry stored under u. Fails with NotFound if absent.
func (c *Collection) Get(tx *kv.Tx, u uid.UID) (entrystore.Entry, error) {
	return c.entries.Get(tx, u)
}

// IterEntries visits every (uuid, entry) pair ordered by raw key
// bytes.
func (c *Collection) IterEntries(tx *kv.Tx, fn func(u uid.UID, entry entrystore.Entry) error) error {
	return c.entries.Iter(tx, fn)
}

// InsertRaw force-inserts entry at a specific UUID, indexing every
// declared attribute present in entry's metadata and recording its
// filekeys, without running the de-duplication decision.
func (c *Collection) InsertRaw(tx *kv.Tx, u uid.UID, entry entrystore.Entry) error {
	if len(entry.Files) == 0 {
		return rarianerrors.New(rarianerrors.ErrCodeEmptyFileSet, "entry must have at least one file reference", nil)
	}

	if err := c.indexAttributes(tx, u, entry.Metadata); err != nil {
		return err
	}
	if err := c.entries.Put(tx, u, entry); err != nil {
		return err
	}
	for _, f := range entry.Files {
		if err := c.filekeys.Put(tx, f.Filekey, u); err != nil {
			return err
		}
	}
	return nil
}

// Insert runs the de-duplicating insert path and returns the UUID the
// entry ends up stored under:
//  1. Generate a fresh UUID u.
//  2. Look up every file reference's filekey in the filekey index,
//     collecting the set of previously-known UUIDs touched.
//  3. Zero hits: proceed with u. Exactly one distinct hit u': merge
//     into u' (union of file references, metadata overwritten
//     field-by-field by the new entry). Two or more distinct hits:
//     fail with TriplicateEntry.
//  4. Index every declared attribute present in the entry.
//  5. Write the serialized entry under the resulting UUID.
//  6. Write filekey -> uuid for every file reference.
//
// All six sub-steps occur inside the caller's write transaction.
func (c *Collection) Insert(tx *kv.Tx, entry entrystore.Entry) (uid.UID, error) {
	if len(entry.Files) == 0 {
		return uid.UID{}, rarianerrors.New(rarianerrors.ErrCodeEmptyFileSet, "entry must have at least one file reference", nil)
	}

	hits, err := c.distinctFilekeyOwners(tx, entry)
	if err != nil {
		return uid.UID{}, err
	}

	switch len(hits) {
	case 0:
		u, err := uid.New()
		if err != nil {
			return uid.UID{}, err
		}
		if err := c.InsertRaw(tx, u, entry); err != nil {
			return uid.UID{}, err
		}
		return u, nil

	case 1:
		target := hits[0]
		existing, err := c.entries.Get(tx, target)
		if err != nil {
			return uid.UID{}, err
		}
		merged := entrystore.Entry{
			Files:    entrystore.UnionFiles(existing.Files, entry.Files),
			Metadata: mergeMetadata(existing.Metadata, entry.Metadata),
		}
		if err := c.InsertRaw(tx, target, merged); err != nil {
			return uid.UID{}, err
		}
		return target, nil

	default:
		return uid.UID{}, rarianerrors.New(rarianerrors.ErrCodeTriplicate,
			"entry's file set overlaps two or more previously distinct entries", nil)
	}
}

// distinctFilekeyOwners returns the distinct UUIDs already owning any
// of entry's filekeys, in first-seen order.
func (c *Collection) distinctFilekeyOwners(tx *kv.Tx, entry entrystore.Entry) ([]uid.UID, error) {
	var hits []uid.UID
	seen := make(map[uid.UID]bool)

	for _, filekey := range entry.Filekeys() {
		owner, err := c.filekeys.Get(tx, filekey)
		if err != nil {
			if rarianerrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if !seen[owner] {
			seen[owner] = true
			hits = append(hits, owner)
		}
	}
	return hits, nil
}

// mergeMetadata overwrites existing's values with incoming's, field by
// field, keeping any key only existing declares.
func mergeMetadata(existing, incoming metadata.Map) metadata.Map {
	merged := metadata.Map{}
	for _, v := range existing {
		merged.Set(v)
	}
	for _, v := range incoming {
		merged.Set(v)
	}
	return merged
}

// indexAttributes dispatches every metadata value present in m to its
// declared index. IntMap indices require an integer-tagged value;
// Term indices require a string or string-list-tagged value;
// otherwise TypeError.
func (c *Collection) indexAttributes(tx *kv.Tx, u uid.UID, m metadata.Map) error {
	for key, value := range m {
		if idx, ok := c.rangeIndices[key]; ok {
			if value.Kind != metadata.KindInt {
				return rarianerrors.New(rarianerrors.ErrCodeTagMismatch,
					"range-indexed attribute requires an integer value", nil)
			}
			if err := idx.Insert(tx, value.Int, u); err != nil {
				return err
			}
		}
		if idx, ok := c.termIndices[key]; ok {
			strs := value.Strings()
			if strs == nil {
				return rarianerrors.New(rarianerrors.ErrCodeTagMismatch,
					"term-indexed attribute requires a string or string-list value", nil)
			}
			for _, s := range strs {
				if err := idx.IndexValue(tx, u, s); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// TermIndex returns the term index declared for key, if any.
func (c *Collection) TermIndex(key metadata.AttributeKey) (*termindex.Index, bool) {
	idx, ok := c.termIndices[key]
	return idx, ok
}

// RangeIndex returns the range index declared for key, if any.
func (c *Collection) RangeIndex(key metadata.AttributeKey) (*rangeindex.Index, bool) {
	idx, ok := c.rangeIndices[key]
	return idx, ok
}
