// Package recipe serves the read-only JSON view of extracted recipes.
package recipe

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "recipe-bot/internal/core/recipe"
	"recipe-bot/internal/infrastructure/storage"
	"recipe-bot/internal/pkg/common"
)

// maxPageSize caps the limit query parameter.
const maxPageSize = 100

// ListResponse wraps a page of recipes.
type ListResponse struct {
	Total   int                  `json:"total"`
	Recipes []domain.VideoRecipe `json:"recipes"`
}

// Handler reads from the shared recipe store.
type Handler struct {
	store storage.Store[domain.VideoRecipe]
}

func NewHandler(store storage.Store[domain.VideoRecipe]) *Handler {
	return &Handler{store: store}
}

func badRequest(c *gin.Context, message string, err error) {
	resp := common.ErrorResponse{Code: common.ErrCodeInvalidRequest, Message: message}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func storeFailure(c *gin.Context, err error) {
	common.LogError("Recipe store read failed",
		zap.String("request_id", requestid.Get(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	_ = c.Error(err)
	c.JSON(http.StatusServiceUnavailable, common.ErrorResponse{
		Code:    common.ErrCodeStore,
		Message: common.ErrStoreUnavailable.Message,
	})
}

// parseTime accepts RFC 3339 timestamps or plain dates.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func page(c *gin.Context, recipes []domain.VideoRecipe) (ListResponse, bool) {
	limit := maxPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive integer", err)
			return ListResponse{}, false
		}
		if n < limit {
			limit = n
		}
	}
	total := len(recipes)
	if len(recipes) > limit {
		recipes = recipes[:limit]
	}
	return ListResponse{Total: total, Recipes: recipes}, true
}

// HandleList serves GET /api/v1/recipes with optional lang, since and
// until filters.
func (h *Handler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()

	var since, until time.Time
	var err error
	if raw := c.Query("since"); raw != "" {
		if since, err = parseTime(raw); err != nil {
			badRequest(c, "since must be an RFC 3339 timestamp or a date", err)
			return
		}
	}
	if raw := c.Query("until"); raw != "" {
		if until, err = parseTime(raw); err != nil {
			badRequest(c, "until must be an RFC 3339 timestamp or a date", err)
			return
		}
	}

	// the store filters on one axis at a time; a language filter narrows
	// the time window in memory
	lang := strings.ToLower(c.Query("lang"))
	var recipes []domain.VideoRecipe
	if lang != "" {
		recipes, err = h.store.FilterByLanguage(ctx, lang)
	} else {
		recipes, err = h.store.FilterByCreated(ctx, since, until)
	}
	if err != nil {
		storeFailure(c, err)
		return
	}
	if lang != "" {
		recipes = createdWithin(recipes, since, until)
	}

	resp, ok := page(c, recipes)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

func createdWithin(recipes []domain.VideoRecipe, since, until time.Time) []domain.VideoRecipe {
	out := make([]domain.VideoRecipe, 0, len(recipes))
	for _, r := range recipes {
		if !since.IsZero() && r.CreatedAt.Before(since) {
			continue
		}
		if !until.IsZero() && r.CreatedAt.After(until) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// HandleSearch serves GET /api/v1/recipes/search?q=&ingredients=.
// Ingredient matching is on unless ingredients=false.
func (h *Handler) HandleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		badRequest(c, "q is required", nil)
		return
	}

	includeIngredients := true
	if raw := c.Query("ingredients"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "ingredients must be a boolean", err)
			return
		}
		includeIngredients = v
	}

	recipes, err := h.store.Search(c.Request.Context(), query, includeIngredients)
	if err != nil {
		storeFailure(c, err)
		return
	}

	resp, ok := page(c, recipes)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGet serves GET /api/v1/recipes/:id.
func (h *Handler) HandleGet(c *gin.Context) {
	id := c.Param("id")
	r, ok, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		storeFailure(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrCodeNotFound,
			Message: "recipe not found",
		})
		return
	}
	c.JSON(http.StatusOK, r)
}
