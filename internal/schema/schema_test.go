package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

func sampleSchema() Schema {
	return Schema{
		Name:        "music",
		Description: "a music collection",
		Version:     CurrentVersion,
		Attributes: map[metadata.AttributeKey]IndexDescription{
			metadata.Title: {Kind: StemmedTerm, Name: "title_idx"},
			metadata.Date:  {Kind: RangeTree, Name: "date_idx"},
		},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	s := sampleSchema()
	decoded, err := Decode(Encode(s))
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
}

func TestCheckVersion_RejectsMajorMismatch(t *testing.T) {
	s := sampleSchema()
	s.Version.Major = CurrentVersion.Major + 1
	err := s.CheckVersion()
	require.Error(t, err)
	assert.Equal(t, rarianerrors.ErrCodeSchemaVersion, rarianerrors.GetCode(err))
}

func TestParseYAML_MirrorsSourceForm(t *testing.T) {
	data := []byte(`
name: music
description: a test collection
version: [0, 1]
attributes:
  Title: { StemmedTerm: { dbname: title_idx } }
  Date:  { RangeTree:   { name: date_idx } }
`)
	s, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "music", s.Name)
	assert.Equal(t, IndexDescription{Kind: StemmedTerm, Name: "title_idx"}, s.Attributes[metadata.Title])
	assert.Equal(t, IndexDescription{Kind: RangeTree, Name: "date_idx"}, s.Attributes[metadata.Date])
}

func TestParseYAML_UnknownAttributeFails(t *testing.T) {
	data := []byte(`
name: music
version: [0, 1]
attributes:
  Bogus: { StemmedTerm: { dbname: x } }
`)
	_, err := ParseYAML(data)
	require.Error(t, err)
	assert.Equal(t, rarianerrors.ErrCodeBadMetakey, rarianerrors.GetCode(err))
}

func TestToYAML_ThenParseYAML_RoundTrips(t *testing.T) {
	s := sampleSchema()
	data, err := ToYAML(s)
	require.NoError(t, err)

	decoded, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, s.Name, decoded.Name)
	assert.Equal(t, s.Attributes, decoded.Attributes)
}

func openTestEnv(t *testing.T) *kv.Environment {
	t.Helper()
	env, err := kv.Open(t.TempDir(), kv.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	env := openTestEnv(t)
	s := sampleSchema()

	err := env.Update(func(tx *kv.Tx) error {
		return Put(tx, s)
	})
	require.NoError(t, err)

	err = env.View(func(tx *kv.Tx) error {
		got, err := Get(tx, "music")
		require.NoError(t, err)
		assert.Equal(t, s, got)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_Get_MissingIsNotFound(t *testing.T) {
	env := openTestEnv(t)

	err := env.View(func(tx *kv.Tx) error {
		_, err := Get(tx, "nonexistent")
		return err
	})
	require.Error(t, err)
	assert.True(t, rarianerrors.IsNotFound(err))
}

func TestStore_Exists(t *testing.T) {
	env := openTestEnv(t)

	err := env.View(func(tx *kv.Tx) error {
		exists, err := Exists(tx, "music")
		require.NoError(t, err)
		assert.False(t, exists)
		return nil
	})
	require.NoError(t, err)

	err = env.Update(func(tx *kv.Tx) error {
		return Put(tx, sampleSchema())
	})
	require.NoError(t, err)

	err = env.View(func(tx *kv.Tx) error {
		exists, err := Exists(tx, "music")
		require.NoError(t, err)
		assert.True(t, exists)
		return nil
	})
	require.NoError(t, err)
}
