package binenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip_AllFieldTypes(t *testing.T) {
	e := NewEncoder()
	e.WriteUint8(7)
	e.WriteUint32(123456)
	e.WriteInt64(-9000)
	e.WriteString("raspberry")
	e.WriteBytes([]byte{1, 2, 3})

	d := NewDecoder(e.Bytes(), "ERR_999_TEST")

	u8, err := d.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), u8)

	u32, err := d.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(123456), u32)

	i64, err := d.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-9000), i64)

	s, err := d.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "raspberry", s)

	b, err := d.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)

	assert.True(t, d.Done())
}

func TestDecoder_TruncatedBufferFails(t *testing.T) {
	d := NewDecoder([]byte{1, 2}, "ERR_999_TEST")
	_, err := d.ReadUint32()
	require.Error(t, err)
}

func TestDecoder_TruncatedStringFails(t *testing.T) {
	e := NewEncoder()
	e.WriteUint32(10) // claims 10 bytes follow
	e.WriteUint8(1)   // only 1 provided

	d := NewDecoder(e.Bytes(), "ERR_999_TEST")
	_, err := d.ReadBytes()
	require.Error(t, err)
}
