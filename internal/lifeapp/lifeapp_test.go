package lifeapp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoCreateStampsReservedFields(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, 7, Application{
		"applicant": map[string]any{"age": 34, "smoker": false},
		"_id":       "client-supplied-must-be-ignored",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.NotEqual(t, "client-supplied-must-be-ignored", id)

	doc, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, doc[FieldID])
	assert.Equal(t, int64(7), doc[FieldUserID])
	assert.Equal(t, StatusDraft, doc[FieldStatus])
	assert.IsType(t, time.Time{}, doc[FieldCreatedAt])
}

func TestMemoryRepoPatch(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	id, err := repo.Create(ctx, 7, Application{"coverage": 100000})
	require.NoError(t, err)

	err = repo.Patch(ctx, id, Application{
		"coverage": 250000,
		"status":   "submitted",
		"user_id":  int64(999), // reserved, must not change
	})
	require.NoError(t, err)

	doc, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 250000, doc["coverage"])
	assert.Equal(t, "submitted", doc[FieldStatus])
	assert.Equal(t, int64(7), doc[FieldUserID])

	assert.ErrorIs(t, repo.Patch(ctx, "missing", Application{"x": 1}), ErrNotFound)
}

func TestMemoryRepoListByUserNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	_, err := repo.Create(ctx, 7, Application{"n": 1})
	require.NoError(t, err)
	_, err = repo.Create(ctx, 8, Application{"n": 2})
	require.NoError(t, err)
	second, err := repo.Create(ctx, 7, Application{"n": 3})
	require.NoError(t, err)
	// force distinct timestamps
	repo.mu.Lock()
	repo.docs[second][FieldCreatedAt] = time.Now().UTC().Add(time.Minute)
	repo.mu.Unlock()

	list, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0][FieldID])
}

func newLifeRouter() (*gin.Engine, *MemoryRepo) {
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	r := gin.New()
	RegisterRoutes(r, repo)
	return r, repo
}

func TestApplicationEndpoints(t *testing.T) {
	r, _ := newLifeRouter()

	body, _ := json.Marshal(map[string]any{
		"userId":    7,
		"applicant": map[string]any{"age": 34},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/life-insurance", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["applicationId"]
	require.NotEmpty(t, id)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/life-insurance/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	patch, _ := json.Marshal(map[string]any{"status": "submitted"})
	req = httptest.NewRequest(http.MethodPatch, "/api/life-insurance/"+id, bytes.NewReader(patch))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/7/life-insurance", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "submitted", list[0]["status"])
}

func TestCreateApplicationRequiresUserID(t *testing.T) {
	r, _ := newLifeRouter()
	body, _ := json.Marshal(map[string]any{"applicant": map[string]any{}})
	req := httptest.NewRequest(http.MethodPost, "/api/life-insurance", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMissingApplication(t *testing.T) {
	r, _ := newLifeRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/life-insurance/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
