package entrystore

import (
	"github.com/Aman-CERP/rarian/internal/binenc"
	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

// Encode serializes an Entry as: file count, then each FileRef (filekey
// string, format-entry count, then key/value pairs), followed by the
// metadata map's own list-of-tagged-values encoding.
func Encode(e Entry) []byte {
	enc := binenc.NewEncoder()

	enc.WriteUint32(uint32(len(e.Files)))
	for _, f := range e.Files {
		enc.WriteString(f.Filekey)
		enc.WriteUint8(uint8(len(f.Format)))

		keys := make([]FormatKey, 0, len(f.Format))
		for k := range f.Format {
			keys = append(keys, k)
		}
		sortFormatKeys(keys)
		for _, k := range keys {
			enc.WriteUint8(uint8(k))
			enc.WriteString(f.Format[k])
		}
	}

	metadata.Encode(enc, e.Metadata)
	return enc.Bytes()
}

// Decode reverses Encode. ErrCodeEntryDecode on any structural failure.
func Decode(buf []byte) (Entry, error) {
	d := binenc.NewDecoder(buf, rarianerrors.ErrCodeEntryDecode)

	fileCount, err := d.ReadUint32()
	if err != nil {
		return Entry{}, err
	}

	files := make([]FileRef, 0, fileCount)
	for i := uint32(0); i < fileCount; i++ {
		filekey, err := d.ReadString()
		if err != nil {
			return Entry{}, err
		}
		formatCount, err := d.ReadUint8()
		if err != nil {
			return Entry{}, err
		}
		format := make(map[FormatKey]string, formatCount)
		for j := uint8(0); j < formatCount; j++ {
			keyByte, err := d.ReadUint8()
			if err != nil {
				return Entry{}, err
			}
			val, err := d.ReadString()
			if err != nil {
				return Entry{}, err
			}
			format[FormatKey(keyByte)] = val
		}
		files = append(files, FileRef{Filekey: filekey, Format: format})
	}

	m, err := metadata.Decode(d)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Files: files, Metadata: m}, nil
}

func sortFormatKeys(keys []FormatKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}
