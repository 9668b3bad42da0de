package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"happy-thoughts/internal/domains/thought/model"
	"happy-thoughts/internal/domains/thought/repository"
	"happy-thoughts/internal/domains/thought/service"
	"happy-thoughts/internal/infrastructure/filestore"
	"happy-thoughts/internal/shared/middleware"
	"happy-thoughts/pkg/jwt"
)

const (
	alice = "11111111-1111-4111-8111-111111111111"
	bob   = "22222222-2222-4222-8222-222222222222"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type fakeEnqueuer struct {
	calls int
}

func (f *fakeEnqueuer) EnqueueBackfill(ctx context.Context) (string, error) {
	f.calls++
	return "task-1", nil
}

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	jwt      *jwt.Manager
	repo     repository.ThoughtRepository
	enqueuer *fakeEnqueuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := repository.NewFileThoughtRepository(filepath.Join(t.TempDir(), "thoughts.json"), filestore.Options{})
	require.NoError(t, err)

	svc := service.NewThoughtService(repo, nil, service.Options{})
	manager := jwt.NewManager("test-secret", "happy-thoughts", time.Hour, time.Hour)
	enqueuer := &fakeEnqueuer{}
	h := NewThoughtHandler(svc, enqueuer)

	router := gin.New()
	auth := middleware.AuthMiddleware(manager)

	thoughts := router.Group("/thoughts")
	thoughts.Use(middleware.OptionalAuthMiddleware(manager))
	thoughts.GET("", h.ListThoughts)
	thoughts.GET("/trending", h.GetTrending)
	thoughts.GET("/tags/:tag", h.GetByTag)
	thoughts.GET("/:id", h.GetThought)
	thoughts.POST("", h.CreateThought)
	thoughts.POST("/:id/like", h.LikeThought)
	thoughts.PATCH("/:id", auth, h.UpdateThought)
	thoughts.DELETE("/:id", auth, h.DeleteThought)

	router.GET("/tags", h.ListTags)
	router.GET("/me/thoughts", auth, h.ListMyThoughts)
	router.POST("/admin/backfill", auth, middleware.AdminMiddleware(), h.BackfillTags)

	return &testServer{t: t, router: router, jwt: manager, repo: repo, enqueuer: enqueuer}
}

func (s *testServer) token(userID, role string) string {
	s.t.Helper()
	token, err := s.jwt.GenerateAccessToken(userID, "user-"+userID[:4], role)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *testServer) create(token, message string) model.ThoughtResponse {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/thoughts", token, gin.H{"message": message})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var out model.ThoughtResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	return out
}

func TestCreateThought(t *testing.T) {
	s := newTestServer(t)

	t.Run("anonymous", func(t *testing.T) {
		out := s.create("", "Pizza night with friends")
		assert.NotEmpty(t, out.ID)
		assert.Nil(t, out.OwnerID)
		assert.Contains(t, out.Tags, "food")
		assert.Zero(t, out.Hearts)
	})

	t.Run("authenticated", func(t *testing.T) {
		out := s.create(s.token(alice, "user"), "Debugging golang all day")
		require.NotNil(t, out.OwnerID)
		assert.Equal(t, alice, *out.OwnerID)
	})

	t.Run("too short", func(t *testing.T) {
		w, env := s.do(http.MethodPost, "/thoughts", "", gin.H{"message": "hey"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, model.ErrCodeValidation, env.Error.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		// optional auth ignores a bad token
		w, _ := s.do(http.MethodPost, "/thoughts", "not-a-token", gin.H{"message": "Still counts as anonymous"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestGetThought_NotFound(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodGet, "/thoughts/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, model.ErrCodeNotFound, env.Error.Code)
}

func TestListThoughts(t *testing.T) {
	s := newTestServer(t)
	for _, msg := range []string{"first happy thought", "second happy thought", "third happy thought"} {
		s.create("", msg)
	}

	w, env := s.do(http.MethodGet, "/thoughts?page=1&limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out model.ListThoughtsResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Len(t, out.Thoughts, 2)
	assert.Equal(t, 3, out.Pagination.TotalCount)
	assert.Equal(t, 2, out.Pagination.TotalPages)
	assert.True(t, out.Pagination.HasNext)
	assert.Equal(t, "third happy thought", out.Thoughts[0].Message)

	w, _ = s.do(http.MethodGet, "/thoughts?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/thoughts?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByTag(t *testing.T) {
	s := newTestServer(t)
	s.create("", "Pizza night with friends")
	s.create("", "Rainy weather again today")

	w, env := s.do(http.MethodGet, "/thoughts/tags/FOOD", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out []model.ThoughtResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Pizza night with friends", out[0].Message)

	w, env = s.do(http.MethodGet, "/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags struct {
		Tags []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tags))
	assert.Contains(t, tags.Tags, "food")
	assert.Contains(t, tags.Tags, "weather")
}

func TestLikeThought(t *testing.T) {
	s := newTestServer(t)
	created := s.create("", "Sunny morning walk in the park")
	path := "/thoughts/" + created.ID + "/like"

	t.Run("anonymous likes accumulate", func(t *testing.T) {
		s.do(http.MethodPost, path, "", nil)
		w, env := s.do(http.MethodPost, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var out model.ThoughtResponse
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, 2, out.Hearts)
		assert.False(t, out.LikedByMe)
	})

	t.Run("authenticated like toggles", func(t *testing.T) {
		token := s.token(bob, "user")

		_, env := s.do(http.MethodPost, path, token, nil)
		var out model.ThoughtResponse
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, 3, out.Hearts)
		assert.True(t, out.LikedByMe)

		_, env = s.do(http.MethodPost, path, token, nil)
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, 2, out.Hearts)
		assert.False(t, out.LikedByMe)
	})

	t.Run("unknown id", func(t *testing.T) {
		w, _ := s.do(http.MethodPost, "/thoughts/missing/like", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateThought(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.token(alice, "user")
	owned := s.create(aliceToken, "Pizza night with friends")
	anon := s.create("", "Nobody owns this thought")
	path := "/thoughts/" + owned.ID

	t.Run("unauthenticated", func(t *testing.T) {
		w, env := s.do(http.MethodPatch, path, "", gin.H{"message": "Changed my mind"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("not the owner", func(t *testing.T) {
		w, env := s.do(http.MethodPatch, path, s.token(bob, "user"), gin.H{"message": "Changed my mind"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, model.ErrCodeForbidden, env.Error.Code)
	})

	t.Run("anonymous thought", func(t *testing.T) {
		w, _ := s.do(http.MethodPatch, "/thoughts/"+anon.ID, aliceToken, gin.H{"message": "Claiming this one"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner reclassifies", func(t *testing.T) {
		w, env := s.do(http.MethodPatch, path, aliceToken, gin.H{"message": "Rainy weather again today"})
		require.Equal(t, http.StatusOK, w.Code)

		var out model.ThoughtResponse
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, "Rainy weather again today", out.Message)
		assert.Contains(t, out.Tags, "weather")
		assert.NotContains(t, out.Tags, "food")
	})

	t.Run("invalid message", func(t *testing.T) {
		w, _ := s.do(http.MethodPatch, path, aliceToken, gin.H{"message": "no"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		w, _ := s.do(http.MethodPatch, "/thoughts/missing", aliceToken, gin.H{"message": "Hello there"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteThought(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.token(alice, "user")
	owned := s.create(aliceToken, "Temporary thought here")
	path := "/thoughts/" + owned.ID

	w, _ := s.do(http.MethodDelete, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodDelete, path, s.token(bob, "user"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(http.MethodDelete, path, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = s.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodDelete, path, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMyThoughts(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.token(alice, "user")
	s.create(aliceToken, "Alice thought number one")
	s.create(s.token(bob, "user"), "Bob thought number one")
	s.create("", "Anonymous thought here")

	w, env := s.do(http.MethodGet, "/me/thoughts", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out model.ListThoughtsResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.Thoughts, 1)
	assert.Equal(t, "Alice thought number one", out.Thoughts[0].Message)
}

func TestBackfillTags(t *testing.T) {
	s := newTestServer(t)

	now := time.Now().UTC()
	require.NoError(t, s.repo.Insert(context.Background(), &model.Thought{
		ID:        "legacy-1",
		Message:   "Pizza for dinner",
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	t.Run("requires admin", func(t *testing.T) {
		w, _ := s.do(http.MethodPost, "/admin/backfill", s.token(alice, "user"), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	admin := s.token(bob, "admin")

	t.Run("inline", func(t *testing.T) {
		w, env := s.do(http.MethodPost, "/admin/backfill", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var out model.BackfillResponse
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, 1, out.Updated)

		w, _ = s.do(http.MethodGet, "/thoughts/legacy-1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("async", func(t *testing.T) {
		w, env := s.do(http.MethodPost, "/admin/backfill?async=true", admin, nil)
		require.Equal(t, http.StatusAccepted, w.Code)

		var out model.BackfillResponse
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.True(t, out.Queued)
		assert.Equal(t, "task-1", out.TaskID)
		assert.Equal(t, 1, s.enqueuer.calls)
	})
}

func TestBackfillTags_AsyncWithoutQueue(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo, err := repository.NewFileThoughtRepository(filepath.Join(t.TempDir(), "thoughts.json"), filestore.Options{})
	require.NoError(t, err)
	manager := jwt.NewManager("test-secret", "happy-thoughts", time.Hour, time.Hour)
	h := NewThoughtHandler(service.NewThoughtService(repo, nil, service.Options{}), nil)

	router := gin.New()
	router.POST("/admin/backfill", middleware.AuthMiddleware(manager), middleware.AdminMiddleware(), h.BackfillTags)
	s := &testServer{t: t, router: router, jwt: manager, repo: repo}

	w, env := s.do(http.MethodPost, "/admin/backfill?async=true", s.token(bob, "admin"), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "JOB_001", env.Error.Code)

	// the inline path still works on the single-process file store
	w, _ = s.do(http.MethodPost, "/admin/backfill", s.token(bob, "admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
