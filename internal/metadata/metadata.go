// Package metadata implements the closed attribute-key enumeration and
// tagged value model for entry metadata: each attribute key has a fixed
// value shape (string, signed 64-bit integer, or a string list for
// multi-valued term attributes), and a value always carries its own key
// tag so a map of values can be validated against its keys.
package metadata

import (
	"github.com/Aman-CERP/rarian/internal/binenc"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

// AttributeKey is a closed enumeration tag naming a metadata slot.
type AttributeKey uint8

const (
	Title AttributeKey = iota
	Artist
	Date
	Comment
	Description
	Album
	TrackNumber
	Albumartist
	// Genre is a supplemental attribute key carried over from the
	// original implementation's Metakey enumeration; it follows the
	// same closed tagged-value discipline as every other key.
	Genre

	attributeKeyCount
)

var attributeKeyNames = [attributeKeyCount]string{
	Title:       "Title",
	Artist:      "Artist",
	Date:        "Date",
	Comment:     "Comment",
	Description: "Description",
	Album:       "Album",
	TrackNumber: "TrackNumber",
	Albumartist: "Albumartist",
	Genre:       "Genre",
}

// String renders the attribute key's canonical name.
func (k AttributeKey) String() string {
	if int(k) < 0 || int(k) >= int(attributeKeyCount) {
		return "Unknown"
	}
	return attributeKeyNames[k]
}

// ParseAttributeKey resolves a canonical attribute key name (as used in
// schema YAML and entry export, case-sensitive) to its AttributeKey.
func ParseAttributeKey(name string) (AttributeKey, error) {
	for i, n := range attributeKeyNames {
		if n == name {
			return AttributeKey(i), nil
		}
	}
	return 0, rarianerrors.New(rarianerrors.ErrCodeBadMetakey, "unknown attribute key: "+name, nil)
}

// IntKeys are the attribute keys whose value shape is a signed integer.
var IntKeys = map[AttributeKey]bool{
	Date:        true,
	TrackNumber: true,
}

// StringKeys are the attribute keys whose value shape is string or
// string-list (both are "string-like" for StemmedTerm indexing).
var StringKeys = map[AttributeKey]bool{
	Title:       true,
	Artist:      true,
	Comment:     true,
	Description: true,
	Album:       true,
	Albumartist: true,
	Genre:       true,
}

// Kind identifies which shape a Value carries.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindStringList
)

// Value is a tagged attribute value: Kind must match the shape allowed
// for Key, enforced by the constructors below.
type Value struct {
	Key  AttributeKey
	Kind Kind

	Str     string
	Int     int64
	StrList []string
}

// NewString constructs a string-valued attribute. Fails with TypeError
// if key is not a string-shaped attribute.
func NewString(key AttributeKey, s string) (Value, error) {
	if !StringKeys[key] {
		return Value{}, tagMismatch(key, "string")
	}
	return Value{Key: key, Kind: KindString, Str: s}, nil
}

// NewInt constructs an integer-valued attribute. Fails with TypeError if
// key is not an integer-shaped attribute.
func NewInt(key AttributeKey, v int64) (Value, error) {
	if !IntKeys[key] {
		return Value{}, tagMismatch(key, "int")
	}
	return Value{Key: key, Kind: KindInt, Int: v}, nil
}

// NewStringList constructs a multi-valued string attribute (e.g. several
// artists on one entry). Fails with TypeError if key is not
// string-shaped.
func NewStringList(key AttributeKey, values []string) (Value, error) {
	if !StringKeys[key] {
		return Value{}, tagMismatch(key, "string list")
	}
	cp := make([]string, len(values))
	copy(cp, values)
	return Value{Key: key, Kind: KindStringList, StrList: cp}, nil
}

func tagMismatch(key AttributeKey, wantShape string) error {
	return rarianerrors.New(rarianerrors.ErrCodeTagMismatch,
		"attribute "+key.String()+" does not accept a "+wantShape+" value", nil).
		WithDetail("attribute", key.String())
}

// Strings returns the value's string tokens regardless of whether it was
// constructed as a single string or a string list, for term-index
// dispatch ("a multi-value variant is iterated and all elements are
// indexed").
func (v Value) Strings() []string {
	switch v.Kind {
	case KindString:
		return []string{v.Str}
	case KindStringList:
		return v.StrList
	default:
		return nil
	}
}

// Map is a mapping from attribute key to its tagged value, with the
// invariant that each key present maps to a value whose tag matches it
// (each key present at most once).
type Map map[AttributeKey]Value

// Set stores a value under its own key (v.Key). It does no checking of
// its own; the New* constructors are what check the key against the
// value's shape.
func (m Map) Set(v Value) {
	m[v.Key] = v
}

// Equal reports whether two maps hold equal values for the same keys.
func (m Map) Equal(other Map) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		ov, ok := other[k]
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	return true
}

func valueEqual(a, b Value) bool {
	if a.Key != b.Key || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindString:
		return a.Str == b.Str
	case KindInt:
		return a.Int == b.Int
	case KindStringList:
		if len(a.StrList) != len(b.StrList) {
			return false
		}
		for i := range a.StrList {
			if a.StrList[i] != b.StrList[i] {
				return false
			}
		}
		return true
	}
	return false
}

// Encode serializes a Map as a list of tagged values (not a native map),
// so the on-disk form is ordered deterministically: entries are written
// in ascending AttributeKey order.
func Encode(e *binenc.Encoder, m Map) {
	keys := make([]AttributeKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortKeys(keys)

	e.WriteUint32(uint32(len(keys)))
	for _, k := range keys {
		v := m[k]
		e.WriteUint8(uint8(k))
		e.WriteUint8(uint8(v.Kind))
		switch v.Kind {
		case KindString:
			e.WriteString(v.Str)
		case KindInt:
			e.WriteInt64(v.Int)
		case KindStringList:
			e.WriteUint32(uint32(len(v.StrList)))
			for _, s := range v.StrList {
				e.WriteString(s)
			}
		}
	}
}

// Decode rebuilds the keyed Map from its tagged-value list form.
func Decode(d *binenc.Decoder) (Map, error) {
	count, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	m := make(Map, count)
	for i := uint32(0); i < count; i++ {
		keyByte, err := d.ReadUint8()
		if err != nil {
			return nil, err
		}
		kindByte, err := d.ReadUint8()
		if err != nil {
			return nil, err
		}
		key := AttributeKey(keyByte)
		kind := Kind(kindByte)

		var v Value
		switch kind {
		case KindString:
			s, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			v = Value{Key: key, Kind: kind, Str: s}
		case KindInt:
			n, err := d.ReadInt64()
			if err != nil {
				return nil, err
			}
			v = Value{Key: key, Kind: kind, Int: n}
		case KindStringList:
			listLen, err := d.ReadUint32()
			if err != nil {
				return nil, err
			}
			list := make([]string, listLen)
			for j := range list {
				s, err := d.ReadString()
				if err != nil {
					return nil, err
				}
				list[j] = s
			}
			v = Value{Key: key, Kind: kind, StrList: list}
		default:
			return nil, rarianerrors.New(rarianerrors.ErrCodeEntryDecode, "unknown value kind tag", nil)
		}
		m[key] = v
	}
	return m, nil
}

func sortKeys(keys []AttributeKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}
