package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestOpen_CreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "records.json")

	c, err := Open[record](path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
	assert.NoError(t, c.Ping(context.Background()))
}

func TestMutate_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	ctx := context.Background()

	c, err := Open[record](path, Options{})
	require.NoError(t, err)

	err = c.Mutate(ctx, func(items []record) ([]record, error) {
		return append(items, record{ID: "1", Name: "first"}, record{ID: "2", Name: "second"}), nil
	})
	require.NoError(t, err)

	reopened, err := Open[record](path, Options{})
	require.NoError(t, err)

	var got []record
	reopened.Read(func(items []record) {
		got = append(got, items...)
	})
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "second", got[1].Name)
}

func TestMutate_ErrorLeavesCollectionUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	ctx := context.Background()

	c, err := Open[record](path, Options{})
	require.NoError(t, err)
	require.NoError(t, c.Mutate(ctx, func(items []record) ([]record, error) {
		return append(items, record{ID: "1"}), nil
	}))

	boom := errors.New("boom")
	err = c.Mutate(ctx, func(items []record) ([]record, error) {
		items[0].Name = "changed"
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	c.Read(func(items []record) {
		require.Len(t, items, 1)
		assert.Empty(t, items[0].Name)
	})
}

func TestOpen_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open[record](path, Options{})
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestOpen_EmptyFileIsEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	c, err := Open[record](path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestPing_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	c, err := Open[record](path, Options{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	assert.Error(t, c.Ping(context.Background()))
}
