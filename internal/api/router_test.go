package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-bot/internal/api/handlers/health"
	recipeHandler "recipe-bot/internal/api/handlers/recipe"
	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/infrastructure/config"
	"recipe-bot/internal/infrastructure/storage"
	"recipe-bot/internal/pkg/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Version: "1.2.3", Profile: config.ProfileYouTube}}
}

func seededStore(t *testing.T) storage.Store[recipe.VideoRecipe] {
	t.Helper()
	s := storage.NewMemoryStore[recipe.VideoRecipe]()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, r := range []recipe.VideoRecipe{
		{ID: "a", Name: "Pasta", Ingredients: []string{"basil"}, OriginalLanguage: recipe.LangEnglish},
		{ID: "b", Name: "Борщ", Ingredients: []string{"свёкла"}, OriginalLanguage: recipe.LangRussian},
		{ID: "c", Name: "Basil soup", Ingredients: []string{"water"}, OriginalLanguage: recipe.LangEnglish},
	} {
		r.CreatedAt = base.Add(time.Duration(i) * 24 * time.Hour)
		require.NoError(t, s.Save(context.Background(), r))
	}
	return s
}

func do(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func listIDs(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp recipeHandler.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	ids := make([]string, len(resp.Recipes))
	for i, r := range resp.Recipes {
		ids[i] = r.ID
	}
	return ids
}

func TestHealthEndpoints(t *testing.T) {
	router := SetupRouter(testConfig(), Deps{
		Stats: func() map[string]interface{} { return map[string]interface{}{"sessions": 3} },
	})

	w := do(t, router, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var body health.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, config.ProfileYouTube, body.Profile)
	assert.Equal(t, 3.0, body.Stats["sessions"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, router, "/live")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "/api/v1/recipes")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadiness(t *testing.T) {
	ok := health.Check{Name: "store", Ping: func(ctx context.Context) error { return nil }}
	down := health.Check{Name: "redis", Ping: func(ctx context.Context) error { return errors.New("refused") }}

	w := do(t, SetupRouter(testConfig(), Deps{Checks: []health.Check{ok}}), "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"ok"`)

	w = do(t, SetupRouter(testConfig(), Deps{Checks: []health.Check{ok, down}}), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"unavailable"`)
}

func TestRecipeAPI(t *testing.T) {
	router := SetupRouter(testConfig(), Deps{VideoStore: seededStore(t)})

	tests := []struct {
		name   string
		target string
		status int
		ids    []string
	}{
		{name: "list newest first", target: "/api/v1/recipes", status: http.StatusOK, ids: []string{"c", "b", "a"}},
		{name: "limit", target: "/api/v1/recipes?limit=1", status: http.StatusOK, ids: []string{"c"}},
		{name: "lang", target: "/api/v1/recipes?lang=EN", status: http.StatusOK, ids: []string{"c", "a"}},
		{name: "since date", target: "/api/v1/recipes?since=2025-06-02", status: http.StatusOK, ids: []string{"c", "b"}},
		{name: "lang and until", target: "/api/v1/recipes?lang=en&until=2025-06-02T12:00:00Z", status: http.StatusOK, ids: []string{"a"}},
		{name: "search with ingredients", target: "/api/v1/recipes/search?q=BASIL", status: http.StatusOK, ids: []string{"c", "a"}},
		{name: "search names only", target: "/api/v1/recipes/search?q=basil&ingredients=false", status: http.StatusOK, ids: []string{"c"}},
		{name: "search miss", target: "/api/v1/recipes/search?q=sushi", status: http.StatusOK, ids: []string{}},
		{name: "search without q", target: "/api/v1/recipes/search", status: http.StatusBadRequest},
		{name: "bad since", target: "/api/v1/recipes?since=yesterday", status: http.StatusBadRequest},
		{name: "bad limit", target: "/api/v1/recipes?limit=-3", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.target)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.ids != nil {
				assert.Equal(t, tt.ids, listIDs(t, w))
			}
			if tt.status == http.StatusBadRequest {
				var e common.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
				assert.Equal(t, common.ErrCodeInvalidRequest, e.Code)
			}
		})
	}
}

func TestRecipeAPIGet(t *testing.T) {
	router := SetupRouter(testConfig(), Deps{VideoStore: seededStore(t)})

	w := do(t, router, "/api/v1/recipes/b")
	require.Equal(t, http.StatusOK, w.Code)
	var r recipe.VideoRecipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	assert.Equal(t, "Борщ", r.Name)

	w = do(t, router, "/api/v1/recipes/zzz")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
