// Package uid wraps UUID generation and the 16-byte little-endian
// encoding rarian uses for entry identity throughout the storage layer.
package uid

import (
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

// Size is the byte length of an encoded UID.
const Size = 16

// UID is the 128-bit identity of an entry.
type UID [Size]byte

// New generates a fresh v4 UUID backed by a cryptographic random source.
func New() (UID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return UID{}, rarianerrors.Wrap(rarianerrors.ErrCodeInternal, err)
	}
	var out UID
	copy(out[:], u[:])
	return out, nil
}

// Parse decodes a UID from its canonical 8-4-4-4-12 hex string form.
func Parse(s string) (UID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UID{}, rarianerrors.New(rarianerrors.ErrCodeMalformedUUID, "malformed uuid string: "+s, err)
	}
	var out UID
	copy(out[:], u[:])
	return out, nil
}

// FromBytes decodes a UID from a 16-byte little-endian key as found on disk.
func FromBytes(b []byte) (UID, error) {
	if len(b) != Size {
		return UID{}, rarianerrors.New(rarianerrors.ErrCodeMalformedUUID, "uuid key is not 16 bytes", nil)
	}
	var out UID
	copy(out[:], b)
	return out, nil
}

// Bytes returns the 16-byte little-endian key form used for storage keys.
func (u UID) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, u[:])
	return out
}

// String renders the canonical 8-4-4-4-12 hex form.
func (u UID) String() string {
	return uuid.UUID(u).String()
}

// Compare returns -1, 0, or 1 ordering two UIDs by raw byte value, matching
// the lexicographic ordering the entry store iterates its keys in.
func (u UID) Compare(other UID) int {
	for i := range u {
		if u[i] != other[i] {
			if u[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// IsZero reports whether u is the zero UID.
func (u UID) IsZero() bool {
	return u == UID{}
}

// MustParse is Parse but panics on error; useful in tests.
func MustParse(s string) UID {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// HexPrefix returns the leading n hex characters of the canonical form,
// mainly useful for short display purposes in CLI output.
func (u UID) HexPrefix(n int) string {
	full := hex.EncodeToString(u[:])
	if n > len(full) {
		n = len(full)
	}
	return full[:n]
}
