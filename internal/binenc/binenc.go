// Package binenc implements the small length-prefixed binary encoding
// rarian's storage components share: metadata values, entries, schemas,
// term-index Matches sets, and the range-index blob. Keeping one codec
// here avoids five copies of the same framing logic.
package binenc

import (
	"encoding/binary"

	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

// Encoder appends length-prefixed fields to an in-memory buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// WriteUint8 appends a single byte.
func (e *Encoder) WriteUint8(v uint8) {
	e.buf = append(e.buf, v)
}

// WriteUint32 appends a big-endian uint32.
func (e *Encoder) WriteUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// WriteInt64 appends a big-endian int64.
func (e *Encoder) WriteInt64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	e.buf = append(e.buf, b[:]...)
}

// WriteBytes appends a uint32 length prefix followed by raw bytes.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteUint32(uint32(len(b)))
	e.buf = append(e.buf, b...)
}

// WriteString appends a uint32 length prefix followed by UTF-8 bytes.
func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

// Bytes returns the encoded buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Decoder reads fields written by Encoder back out of a byte slice,
// returning a Codec-category error (the caller-chosen code) on any
// truncation or malformed framing.
type Decoder struct {
	buf  []byte
	pos  int
	code string
}

// NewDecoder returns a Decoder over buf. code is the rarianerrors code
// used for any decode failure (callers pick the code matching what they
// are decoding, e.g. ErrCodeEntryDecode or ErrCodeSchemaDecode).
func NewDecoder(buf []byte, code string) *Decoder {
	return &Decoder{buf: buf, code: code}
}

func (d *Decoder) fail(msg string) error {
	return rarianerrors.New(d.code, msg, nil)
}

// ReadUint8 reads a single byte.
func (d *Decoder) ReadUint8() (uint8, error) {
	if d.pos+1 > len(d.buf) {
		return 0, d.fail("unexpected end of buffer reading uint8")
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

// ReadUint32 reads a big-endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	if d.pos+4 > len(d.buf) {
		return 0, d.fail("unexpected end of buffer reading uint32")
	}
	v := binary.BigEndian.Uint32(d.buf[d.pos : d.pos+4])
	d.pos += 4
	return v, nil
}

// ReadInt64 reads a big-endian int64.
func (d *Decoder) ReadInt64() (int64, error) {
	if d.pos+8 > len(d.buf) {
		return 0, d.fail("unexpected end of buffer reading int64")
	}
	v := int64(binary.BigEndian.Uint64(d.buf[d.pos : d.pos+8]))
	d.pos += 8
	return v, nil
}

// ReadBytes reads a uint32-prefixed byte slice.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	if d.pos+int(n) > len(d.buf) {
		return nil, d.fail("unexpected end of buffer reading bytes")
	}
	v := make([]byte, n)
	copy(v, d.buf[d.pos:d.pos+int(n)])
	d.pos += int(n)
	return v, nil
}

// ReadString reads a uint32-prefixed UTF-8 string.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// Done reports whether the decoder has consumed the entire buffer.
func (d *Decoder) Done() bool {
	return d.pos >= len(d.buf)
}
