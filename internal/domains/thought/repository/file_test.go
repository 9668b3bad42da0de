package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"happy-thoughts/internal/domains/thought/model"
	"happy-thoughts/internal/infrastructure/filestore"
)

func newFileRepo(t *testing.T) (ThoughtRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thoughts.json")
	repo, err := NewFileThoughtRepository(path, filestore.Options{})
	require.NoError(t, err)
	return repo, path
}

func seed(t *testing.T, repo ThoughtRepository, n int) []*model.Thought {
	t.Helper()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := make([]*model.Thought, 0, n)
	for i := 0; i < n; i++ {
		th := &model.Thought{
			ID:        fmt.Sprintf("id-%02d", i),
			Message:   fmt.Sprintf("thought number %d", i),
			Tags:      []string{"general"},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Insert(context.Background(), th))
		out = append(out, th)
	}
	return out
}

func TestFileRepository_InsertAndFind(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()
	seed(t, repo, 1)

	got, err := repo.FindByID(ctx, "id-00")
	require.NoError(t, err)
	assert.Equal(t, "thought number 0", got.Message)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrThoughtNotFound)

	err = repo.Insert(ctx, &model.Thought{ID: "id-00"})
	assert.ErrorIs(t, err, model.ErrDuplicateThought)
}

func TestFileRepository_ReturnsCopies(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()
	seed(t, repo, 1)

	got, err := repo.FindByID(ctx, "id-00")
	require.NoError(t, err)
	got.Tags[0] = "mutated"
	got.Hearts = 99

	again, err := repo.FindByID(ctx, "id-00")
	require.NoError(t, err)
	assert.Equal(t, "general", again.Tags[0])
	assert.Equal(t, 0, again.Hearts)
}

func TestFileRepository_UpdateAndDelete(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()
	seed(t, repo, 2)

	th, err := repo.FindByID(ctx, "id-01")
	require.NoError(t, err)
	th.Hearts = 4
	require.NoError(t, repo.Update(ctx, th))

	got, err := repo.FindByID(ctx, "id-01")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Hearts)

	assert.ErrorIs(t, repo.Update(ctx, &model.Thought{ID: "nope"}), model.ErrThoughtNotFound)

	require.NoError(t, repo.Delete(ctx, "id-00"))
	assert.ErrorIs(t, repo.Delete(ctx, "id-00"), model.ErrThoughtNotFound)

	n, err := repo.Count(ctx, CountOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFileRepository_FindAllOrdering(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()
	seed(t, repo, 5)

	oldest, err := repo.FindAll(ctx, FindOptions{})
	require.NoError(t, err)
	require.Len(t, oldest, 5)
	assert.Equal(t, "id-00", oldest[0].ID)
	assert.Equal(t, "id-04", oldest[4].ID)

	newest, err := repo.FindAll(ctx, FindOptions{Newest: true, Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, "id-03", newest[0].ID)
	assert.Equal(t, "id-02", newest[1].ID)

	beyond, err := repo.FindAll(ctx, FindOptions{Newest: true, Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestFileRepository_NewestTieBreaksOnInsertion(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Insert(ctx, &model.Thought{ID: id, CreatedAt: now}))
	}

	got, err := repo.FindAll(ctx, FindOptions{Newest: true})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestFileRepository_FilterByOwnerAndTag(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()
	owner := "6F1C2A7E-0000-4000-8000-000000000001"

	require.NoError(t, repo.Insert(ctx, &model.Thought{ID: "1", Tags: []string{"food"}, OwnerID: &owner}))
	require.NoError(t, repo.Insert(ctx, &model.Thought{ID: "2", Tags: []string{"work"}, OwnerID: &owner}))
	require.NoError(t, repo.Insert(ctx, &model.Thought{ID: "3", Tags: []string{"food"}}))

	mine, err := repo.FindAll(ctx, FindOptions{OwnerID: "6f1c2a7e-0000-4000-8000-000000000001"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	food, err := repo.FindAll(ctx, FindOptions{Tag: "FOOD"})
	require.NoError(t, err)
	assert.Len(t, food, 2)

	n, err := repo.Count(ctx, CountOptions{OwnerID: owner, Tag: "food"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFileRepository_SurvivesReopen(t *testing.T) {
	repo, path := newFileRepo(t)
	ctx := context.Background()
	seeded := seed(t, repo, 3)

	reopened, err := NewFileThoughtRepository(path, filestore.Options{})
	require.NoError(t, err)

	all, err := reopened.FindAll(ctx, FindOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, th := range all {
		assert.Equal(t, seeded[i].ID, th.ID)
		assert.True(t, seeded[i].CreatedAt.Equal(th.CreatedAt))
	}
	assert.NoError(t, reopened.Ping(ctx))
}
