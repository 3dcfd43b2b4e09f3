package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/rarian/internal/entrystore"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/rangeindex"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
	"github.com/Aman-CERP/rarian/internal/schema"
	"github.com/Aman-CERP/rarian/internal/uid"
)

func openTestEnv(t *testing.T) *kv.Environment {
	t.Helper()
	env, err := kv.Open(t.TempDir(), kv.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func musicSchema() schema.Schema {
	return schema.Schema{
		Name:        "music",
		Description: "test",
		Version:     schema.CurrentVersion,
		Attributes: map[metadata.AttributeKey]schema.IndexDescription{
			metadata.Title: {Kind: schema.StemmedTerm, Name: "title_idx"},
			metadata.Date:  {Kind: schema.RangeTree, Name: "date_idx"},
		},
	}
}

func entryWithTitleAndDate(t *testing.T, filekey, title string, date int64) entrystore.Entry {
	t.Helper()
	m := metadata.Map{}
	titleVal, err := metadata.NewString(metadata.Title, title)
	require.NoError(t, err)
	m.Set(titleVal)
	dateVal, err := metadata.NewInt(metadata.Date, date)
	require.NoError(t, err)
	m.Set(dateVal)
	return entrystore.Entry{Files: []entrystore.FileRef{entrystore.NewFileRef(filekey)}, Metadata: m}
}

func TestCreate_MaterializesScaffolding(t *testing.T) {
	env := openTestEnv(t)

	err := env.Update(func(tx *kv.Tx) error {
		_, err := Create(tx, "music", musicSchema())
		return err
	})
	require.NoError(t, err)

	err = env.View(func(tx *kv.Tx) error {
		c, err := Open(tx, "music")
		require.NoError(t, err)
		assert.Equal(t, "music", c.Name)
		return nil
	})
	require.NoError(t, err)
}

func TestOpen_MissingSchemaIsNotFound(t *testing.T) {
	env := openTestEnv(t)

	err := env.View(func(tx *kv.Tx) error {
		_, err := Open(tx, "nonexistent")
		return err
	})
	require.Error(t, err)
	assert.True(t, rarianerrors.IsNotFound(err))
}

func TestInsert_ThenGet(t *testing.T) {
	env := openTestEnv(t)

	var collectionName = "music"
	err := env.Update(func(tx *kv.Tx) error {
		_, err := Create(tx, collectionName, musicSchema())
		return err
	})
	require.NoError(t, err)

	var inserted entrystore.Entry
	var id uid.UID
	err = env.Update(func(tx *kv.Tx) error {
		c, err := Open(tx, collectionName)
		if err != nil {
			return err
		}
		inserted = entryWithTitleAndDate(t, "fk1", "The Raspberry Pi 4", 1557784800)
		id, err = c.Insert(tx, inserted)
		return err
	})
	require.NoError(t, err)

	err = env.View(func(tx *kv.Tx) error {
		c, err := Open(tx, collectionName)
		if err != nil {
			return err
		}
		got, err := c.Get(tx, id)
		require.NoError(t, err)
		assert.True(t, inserted.Metadata.Equal(got.Metadata))
		assert.Equal(t, inserted.Files, got.Files)
		return nil
	})
	require.NoError(t, err)
}

func TestInsert_IndexCoverage_TermAndRange(t *testing.T) {
	env := openTestEnv(t)

	err := env.Update(func(tx *kv.Tx) error {
		_, err := Create(tx, "music", musicSchema())
		return err
	})
	require.NoError(t, err)

	err = env.Update(func(tx *kv.Tx) error {
		c, err := Open(tx, "music")
		if err != nil {
			return err
		}
		entry := entryWithTitleAndDate(t, "fk1", "The Raspberry Pi 4", 1557784800)
		_, err = c.Insert(tx, entry)
		return err
	})
	require.NoError(t, err)

	err = env.View(func(tx *kv.Tx) error {
		c, err := Open(tx, "music")
		require.NoError(t, err)

		titleIdx, ok := c.TermIndex(metadata.Title)
		require.True(t, ok)
		matches, err := titleIdx.Lookup(tx, "raspberri")
		require.NoError(t, err)
		assert.Len(t, matches, 1)

		dateIdx, ok := c.RangeIndex(metadata.Date)
		require.True(t, ok)
		entries, err := dateIdx.Range(tx, rangeindex.InclusiveBound(1557784800), rangeindex.InclusiveBound(1557784800))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestInsert_DedupMerge_UnionsFiles(t *testing.T) {
	env := openTestEnv(t)

	err := env.Update(func(tx *kv.Tx) error {
		_, err := Create(tx, "music", musicSchema())
		return err
	})
	require.NoError(t, err)

	var firstID, secondID string
	err = env.Update(func(tx *kv.Tx) error {
		c, err := Open(tx, "music")
		if err != nil {
			return err
		}

		e1 := entryWithTitleAndDate(t, "fA", "A", 100)
		u1, err := c.Insert(tx, e1)
		if err != nil {
			return err
		}
		firstID = u1.String()

		e2 := entrystore.Entry{
			Files: []entrystore.FileRef{entrystore.NewFileRef("fA"), entrystore.NewFileRef("fB")},
		}
		title2, err := metadata.NewString(metadata.Title, "A v2")
		if err != nil {
			return err
		}
		e2.Metadata = metadata.Map{}
		e2.Metadata.Set(title2)

		u2, err := c.Insert(tx, e2)
		if err != nil {
			return err
		}
		secondID = u2.String()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	err = env.View(func(tx *kv.Tx) error {
		c, err := Open(tx, "music")
		require.NoError(t, err)

		u1, err := c.filekeys.Get(tx, "fA")
		require.NoError(t, err)
		u2, err := c.filekeys.Get(tx, "fB")
		require.NoError(t, err)
		assert.Equal(t, u1, u2)

		entry, err := c.Get(tx, u1)
		require.NoError(t, err)
		assert.Len(t, entry.Files, 2)
		assert.Equal(t, "A v2", entry.Metadata[metadata.Title].Str)
		return nil
	})
	require.NoError(t, err)
}

func TestInsert_TriplicateRejected(t *testing.T) {
	env := openTestEnv(t)

	err := env.Update(func(tx *kv.Tx) error {
		_, err := Create(tx, "music", musicSchema())
		return err
	})
	require.NoError(t, err)

	err = env.Update(func(tx *kv.Tx) error {
		c, err := Open(tx, "music")
		if err != nil {
			return err
		}
		if _, err := c.Insert(tx, entryWithTitleAndDate(t, "fA", "A", 1)); err != nil {
			return err
		}
		_, err = c.Insert(tx, entryWithTitleAndDate(t, "fB", "B", 2))
		return err
	})
	require.NoError(t, err)

	err = env.Update(func(tx *kv.Tx) error {
		c, err := Open(tx, "music")
		if err != nil {
			return err
		}
		entry := entrystore.Entry{
			Files: []entrystore.FileRef{entrystore.NewFileRef("fA"), entrystore.NewFileRef("fB")},
		}
		_, err = c.Insert(tx, entry)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, rarianerrors.ErrCodeTriplicate, rarianerrors.GetCode(err))
}

func TestInsert_EmptyFileSetRejected(t *testing.T) {
	env := openTestEnv(t)

	err := env.Update(func(tx *kv.Tx) error {
		_, err := Create(tx, "music", musicSchema())
		return err
	})
	require.NoError(t, err)

	err = env.Update(func(tx *kv.Tx) error {
		c, err := Open(tx, "music")
		if err != nil {
			return err
		}
		_, err = c.Insert(tx, entrystore.Entry{})
		return err
	})
	require.Error(t, err)
	assert.Equal(t, rarianerrors.ErrCodeEmptyFileSet, rarianerrors.GetCode(err))
}
