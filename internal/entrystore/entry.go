// Package entrystore implements the entry store: UUID to serialized
// Entry persistence inside one bbolt bucket.
package entrystore

import "github.com/Aman-CERP/rarian/internal/metadata"

// FormatKey is a closed enumeration of the keys an entry's file
// reference carries alongside its filekey.
type FormatKey uint8

const (
	// MimeType is the only FormatKey the initial corpus defines.
	MimeType FormatKey = iota
	formatKeyCount
)

var formatKeyNames = [formatKeyCount]string{
	MimeType: "MimeType",
}

func (k FormatKey) String() string {
	if int(k) >= len(formatKeyNames) {
		return "Unknown"
	}
	return formatKeyNames[k]
}

// FileRef pairs a content-addressed filekey with a small format map.
// Equality considers only the filekey: several physical files can
// encode the same logical work, and from the index's point of view
// they are the same reference.
type FileRef struct {
	Filekey string
	Format  map[FormatKey]string
}

// NewFileRef constructs a FileRef with an empty format map.
func NewFileRef(filekey string) FileRef {
	return FileRef{Filekey: filekey, Format: make(map[FormatKey]string)}
}

// Equal compares two file references by filekey only.
func (f FileRef) Equal(other FileRef) bool {
	return f.Filekey == other.Filekey
}

// Entry is the immutable-per-insert unit this store persists: a
// deduplicated, non-empty set of file references plus a typed
// metadata map.
type Entry struct {
	Files    []FileRef
	Metadata metadata.Map
}

// Filekeys returns the distinct filekeys referenced by this entry, in
// the order they first appear.
func (e Entry) Filekeys() []string {
	seen := make(map[string]bool, len(e.Files))
	out := make([]string, 0, len(e.Files))
	for _, f := range e.Files {
		if seen[f.Filekey] {
			continue
		}
		seen[f.Filekey] = true
		out = append(out, f.Filekey)
	}
	return out
}

// DedupFiles returns a copy of files with later duplicate filekeys
// dropped, preserving first-seen order.
func DedupFiles(files []FileRef) []FileRef {
	seen := make(map[string]bool, len(files))
	out := make([]FileRef, 0, len(files))
	for _, f := range files {
		if seen[f.Filekey] {
			continue
		}
		seen[f.Filekey] = true
		out = append(out, f)
	}
	return out
}

// UnionFiles merges two file-reference sets, deduplicating by filekey
// and keeping a's format entries on collision.
func UnionFiles(a, b []FileRef) []FileRef {
	merged := make([]FileRef, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	return DedupFiles(merged)
}
