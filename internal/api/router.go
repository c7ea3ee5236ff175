// Package api is the bot's HTTP side: health probes and, for the youtube
// profile, a read-only recipe API.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-bot/internal/api/handlers/health"
	recipeHandler "recipe-bot/internal/api/handlers/recipe"
	"recipe-bot/internal/api/middleware"
	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/infrastructure/config"
	"recipe-bot/internal/infrastructure/storage"
	"recipe-bot/internal/pkg/common"
)

// requestTimeout bounds every API request.
const requestTimeout = 30 * time.Second

// Deps are the components the router exposes. VideoStore is nil in the
// manual profile, which serves probes only.
type Deps struct {
	Checks     []health.Check
	Stats      func() map[string]interface{}
	VideoStore storage.Store[recipe.VideoRecipe]
}

// SetupRouter builds the gin engine.
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.Timeout(requestTimeout))

	healthHandler := health.NewHandler(cfg.App.Version, cfg.App.Profile, deps.Stats, deps.Checks...)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	if deps.VideoStore != nil {
		h := recipeHandler.NewHandler(deps.VideoStore)
		api := router.Group("/api/v1")
		{
			api.GET("/recipes", h.HandleList)
			api.GET("/recipes/search", h.HandleSearch)
			api.GET("/recipes/:id", h.HandleGet)
		}
	}

	common.LogInfo("Router setup completed",
		zap.String("profile", cfg.App.Profile),
		zap.Bool("recipe_api", deps.VideoStore != nil),
		zap.Int("readiness_checks", len(deps.Checks)),
	)

	return router
}
