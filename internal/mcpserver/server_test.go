package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/rarian/internal/collection"
	"github.com/Aman-CERP/rarian/internal/entrystore"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/metadata"
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

func setupMusicCollection(t *testing.T, env *kv.Environment) string {
	t.Helper()
	const name = "music"

	err := env.Update(func(tx *kv.Tx) error {
		s := schema.Schema{
			Name:    name,
			Version: schema.CurrentVersion,
			Attributes: map[metadata.AttributeKey]schema.IndexDescription{
				metadata.Title: {Kind: schema.StemmedTerm, Name: "title_idx"},
			},
		}
		c, err := collection.Create(tx, name, s)
		if err != nil {
			return err
		}

		title, err := metadata.NewString(metadata.Title, "raspberry recipes")
		if err != nil {
			return err
		}
		m := metadata.Map{}
		m.Set(title)

		_, err = c.Insert(tx, entrystore.Entry{
			Files:    []entrystore.FileRef{entrystore.NewFileRef("f1")},
			Metadata: m,
		})
		return err
	})
	require.NoError(t, err)
	return name
}

func TestHandleSearch_ReturnsMatchingUUID(t *testing.T) {
	env := openTestEnv(t)
	collName := setupMusicCollection(t, env)
	s := NewServer(env, nil)

	_, out, err := s.handleSearch(context.Background(), nil, SearchInput{
		Collection: collName,
		Query:      "raspberry",
	})
	require.NoError(t, err)
	assert.Len(t, out.UUIDs, 1)
}

func TestHandleSearch_MissingCollectionParamFails(t *testing.T) {
	env := openTestEnv(t)
	s := NewServer(env, nil)

	_, _, err := s.handleSearch(context.Background(), nil, SearchInput{Query: "x"})
	require.Error(t, err)
}

func TestHandleSearch_UnknownCollectionIsMapped(t *testing.T) {
	env := openTestEnv(t)
	s := NewServer(env, nil)

	_, _, err := s.handleSearch(context.Background(), nil, SearchInput{
		Collection: "missing",
		Query:      "x",
	})
	require.Error(t, err)
	mcpErr, ok := err.(*MCPError)
	require.True(t, ok)
	assert.Equal(t, errCodeNotFound, mcpErr.Code)
}

func TestHandleGetEntry_ReturnsDecodedEntry(t *testing.T) {
	env := openTestEnv(t)
	collName := setupMusicCollection(t, env)
	s := NewServer(env, nil)

	var id string
	err := env.View(func(tx *kv.Tx) error {
		c, err := collection.Open(tx, collName)
		require.NoError(t, err)
		var found bool
		err = c.IterEntries(tx, func(u uid.UID, entry entrystore.Entry) error {
			if !found {
				id = u.String()
				found = true
			}
			return nil
		})
		return err
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, out, err := s.handleGetEntry(context.Background(), nil, GetEntryInput{
		Collection: collName,
		UUID:       id,
	})
	require.NoError(t, err)
	require.Len(t, out.Files, 1)
	assert.Equal(t, "f1", out.Files[0].Filekey)
}

func TestHandleGetEntry_MalformedUUIDIsInvalidParams(t *testing.T) {
	env := openTestEnv(t)
	collName := setupMusicCollection(t, env)
	s := NewServer(env, nil)

	_, _, err := s.handleGetEntry(context.Background(), nil, GetEntryInput{
		Collection: collName,
		UUID:       "not-a-uuid",
	})
	require.Error(t, err)
	mcpErr, ok := err.(*MCPError)
	require.True(t, ok)
	assert.Equal(t, errCodeInvalidParams, mcpErr.Code)
}
