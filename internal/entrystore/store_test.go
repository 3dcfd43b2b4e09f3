package entrystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
	"github.com/Aman-CERP/rarian/internal/uid"
)

func openTestEnv(t *testing.T) *kv.Environment {
	t.Helper()
	env, err := kv.Open(t.TempDir(), kv.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestEncodeDecode_RoundTripsFilesAndMetadata(t *testing.T) {
	ref := NewFileRef("SHA256E-s10--abcd.mp3")
	ref.Format[MimeType] = "audio/mpeg"

	title, err := metadata.NewString(metadata.Title, "The Raspberry Pi 4")
	require.NoError(t, err)
	m := metadata.Map{}
	m.Set(title)

	entry := Entry{Files: []FileRef{ref}, Metadata: m}

	decoded, err := Decode(Encode(entry))
	require.NoError(t, err)

	require.Len(t, decoded.Files, 1)
	assert.Equal(t, "SHA256E-s10--abcd.mp3", decoded.Files[0].Filekey)
	assert.Equal(t, "audio/mpeg", decoded.Files[0].Format[MimeType])
	assert.True(t, m.Equal(decoded.Metadata))
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	env := openTestEnv(t)
	store := New("mycollection")

	u, err := uid.New()
	require.NoError(t, err)
	entry := Entry{Files: []FileRef{NewFileRef("fk1")}}

	err = env.Update(func(tx *kv.Tx) error {
		return store.Put(tx, u, entry)
	})
	require.NoError(t, err)

	err = env.View(func(tx *kv.Tx) error {
		got, err := store.Get(tx, u)
		require.NoError(t, err)
		assert.Equal(t, "fk1", got.Files[0].Filekey)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_Get_MissingIsNotFound(t *testing.T) {
	env := openTestEnv(t)
	store := New("mycollection")

	u, err := uid.New()
	require.NoError(t, err)

	err = env.View(func(tx *kv.Tx) error {
		_, err := store.Get(tx, u)
		return err
	})
	require.Error(t, err)
	assert.True(t, rarianerrors.IsNotFound(err))
}

func TestStore_Iter_OrdersByRawKeyBytes(t *testing.T) {
	env := openTestEnv(t)
	store := New("mycollection")

	var uids []uid.UID
	err := env.Update(func(tx *kv.Tx) error {
		for i := 0; i < 5; i++ {
			u, err := uid.New()
			if err != nil {
				return err
			}
			uids = append(uids, u)
			if err := store.Put(tx, u, Entry{Files: []FileRef{NewFileRef("fk")}}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	var seen []uid.UID
	err = env.View(func(tx *kv.Tx) error {
		return store.Iter(tx, func(u uid.UID, entry Entry) error {
			seen = append(seen, u)
			return nil
		})
	})
	require.NoError(t, err)
	require.Len(t, seen, 5)
	for i := 1; i < len(seen); i++ {
		assert.LessOrEqual(t, seen[i-1].Compare(seen[i]), 0)
	}
}
