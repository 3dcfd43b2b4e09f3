// Package schema implements the per-collection Schema: the immutable
// attribute-to-index-description map that a collection is created
// with, plus its YAML source form and its compact-binary storage form.
package schema

import (
	"github.com/Aman-CERP/rarian/internal/binenc"
	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

// IndexKind distinguishes the two index descriptions an attribute can
// declare.
type IndexKind uint8

const (
	// RangeTree declares an integer range index.
	RangeTree IndexKind = iota
	// StemmedTerm declares a tokenized inverted index.
	StemmedTerm
)

// IndexDescription names the sub-database (StemmedTerm) or blob key
// (RangeTree) an attribute's index is stored under.
type IndexDescription struct {
	Kind IndexKind
	// Name is the RangeTree blob's key, or the StemmedTerm bucket's
	// name, depending on Kind.
	Name string
}

// Version is the (major, minor) pair of the engine version that last
// wrote this schema. A major-version mismatch on open is a Codec
// error, never a forward-read attempt.
type Version struct {
	Major uint16
	Minor uint16
}

// CurrentVersion is the version collection Create writes into a new
// schema that carries the zero Version; a schema with a non-zero Version
// is stored with the version it already has.
var CurrentVersion = Version{Major: 0, Minor: 1}

// Schema is immutable after a collection is created with it.
type Schema struct {
	Name        string
	Description string
	Version     Version
	Attributes  map[metadata.AttributeKey]IndexDescription
}

// CheckVersion fails with ErrCodeSchemaVersion if s's major version
// does not match the engine's current major version.
func (s Schema) CheckVersion() error {
	if s.Version.Major != CurrentVersion.Major {
		return rarianerrors.New(rarianerrors.ErrCodeSchemaVersion,
			"schema major version does not match engine version", nil)
	}
	return nil
}

// Encode serializes s as compact binary: name, description, version,
// then attribute count and each (key, kind, name) triple sorted
// ascending by attribute key for determinism.
func Encode(s Schema) []byte {
	enc := binenc.NewEncoder()
	enc.WriteString(s.Name)
	enc.WriteString(s.Description)
	enc.WriteUint32(uint32(s.Version.Major))
	enc.WriteUint32(uint32(s.Version.Minor))

	keys := make([]metadata.AttributeKey, 0, len(s.Attributes))
	for k := range s.Attributes {
		keys = append(keys, k)
	}
	sortKeys(keys)

	enc.WriteUint32(uint32(len(keys)))
	for _, k := range keys {
		desc := s.Attributes[k]
		enc.WriteUint8(uint8(k))
		enc.WriteUint8(uint8(desc.Kind))
		enc.WriteString(desc.Name)
	}
	return enc.Bytes()
}

// Decode reverses Encode. ErrCodeSchemaDecode on structural failure.
func Decode(buf []byte) (Schema, error) {
	d := binenc.NewDecoder(buf, rarianerrors.ErrCodeSchemaDecode)

	name, err := d.ReadString()
	if err != nil {
		return Schema{}, err
	}
	description, err := d.ReadString()
	if err != nil {
		return Schema{}, err
	}
	major, err := d.ReadUint32()
	if err != nil {
		return Schema{}, err
	}
	minor, err := d.ReadUint32()
	if err != nil {
		return Schema{}, err
	}
	count, err := d.ReadUint32()
	if err != nil {
		return Schema{}, err
	}

	attrs := make(map[metadata.AttributeKey]IndexDescription, count)
	for i := uint32(0); i < count; i++ {
		keyByte, err := d.ReadUint8()
		if err != nil {
			return Schema{}, err
		}
		kindByte, err := d.ReadUint8()
		if err != nil {
			return Schema{}, err
		}
		idxName, err := d.ReadString()
		if err != nil {
			return Schema{}, err
		}
		attrs[metadata.AttributeKey(keyByte)] = IndexDescription{Kind: IndexKind(kindByte), Name: idxName}
	}

	return Schema{Name: name, Description: description, Version: Version{Major: uint16(major), Minor: uint16(minor)}, Attributes: attrs}, nil
}

func sortKeys(keys []metadata.AttributeKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}
