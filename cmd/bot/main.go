package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"recipe-bot/internal/api"
	"recipe-bot/internal/api/handlers/health"
	"recipe-bot/internal/bot"
	"recipe-bot/internal/core/ai/cache"
	"recipe-bot/internal/core/ai/llm"
	"recipe-bot/internal/core/ai/service"
	"recipe-bot/internal/core/conversation"
	"recipe-bot/internal/core/extraction"
	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/core/transcript"
	"recipe-bot/internal/infrastructure/config"
	"recipe-bot/internal/infrastructure/storage"
	"recipe-bot/internal/pkg/common"
)

const shutdownTimeout = 5 * time.Second

// openStore picks Redis when REDIS_URL is set and the in-process map
// otherwise.
func openStore[T storage.Record](cfg config.RedisConfig) (storage.Store[T], error) {
	if cfg.URL == "" {
		common.LogInfo("Using in-memory recipe store")
		return storage.NewMemoryStore[T](), nil
	}
	client, err := storage.NewRedisClient(cfg.URL)
	if err != nil {
		return nil, err
	}
	common.LogInfo("Using Redis recipe store", zap.String("namespace", cfg.Namespace))
	return storage.NewRedisStore[T](client, cfg.Namespace), nil
}

func main() {
	// load config
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// the logger needs the config
	if err := common.InitLogger(cfg.LogLevel, cfg.App.Name); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("Configuration loaded",
		zap.String("profile", cfg.App.Profile),
		zap.String("llm_api_key", common.MaskAPIKey(cfg.LLM.APIKey)),
		zap.String("llm_model", cfg.LLM.Model),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// connect to Telegram
	tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		common.LogFatal("Failed to connect to Telegram", zap.Error(err))
	}
	tg.Debug = cfg.Telegram.DebugTransport
	common.LogInfo("Authorized on Telegram", zap.String("username", tg.Self.UserName))

	// completion cache; nil when disabled
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	llmClient := llm.NewClient(cfg.LLM)
	ai := service.NewService(cache.Wrap(llmClient, cacheManager, service.CacheablePurposes...))
	defer llmClient.Close()

	var (
		handler bot.Handler
		checks  []health.Check
		deps    api.Deps
		closers []func() error
	)
	stats := map[string]func() interface{}{}
	if cacheManager != nil {
		stats["cache"] = func() interface{} { return cacheManager.GetStats() }
	}

	// wire the profile
	switch cfg.App.Profile {
	case config.ProfileManual:
		store, err := openStore[recipe.Recipe](cfg.Redis)
		if err != nil {
			common.LogFatal("Failed to open recipe store", zap.Error(err))
		}
		closers = append(closers, store.Close)
		checks = append(checks, health.Check{Name: "store", Ping: store.Ping})

		sessions := conversation.NewSessionStore()
		stats["sessions"] = func() interface{} { return sessions.Len() }
		handler = bot.NewManualHandler(tg, conversation.NewMachine(sessions, store, ai))

	case config.ProfileYouTube:
		store, err := openStore[recipe.VideoRecipe](cfg.Redis)
		if err != nil {
			common.LogFatal("Failed to open recipe store", zap.Error(err))
		}
		closers = append(closers, store.Close)
		checks = append(checks, health.Check{Name: "store", Ping: store.Ping})
		deps.VideoStore = store

		transcripts := transcript.NewClient(cfg.Transcript)
		closers = append(closers, transcripts.Close)
		handler = bot.NewYouTubeHandler(tg, extraction.NewPipeline(transcripts, ai, store), store)
	}

	// ops HTTP server
	var srv *http.Server
	if cfg.Server.Enabled {
		deps.Checks = checks
		deps.Stats = func() map[string]interface{} {
			out := make(map[string]interface{}, len(stats))
			for name, fn := range stats {
				out[name] = fn()
			}
			return out
		}

		srv = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      api.SetupRouter(cfg, deps),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		go func() {
			common.LogInfo("Starting HTTP server",
				zap.Int("port", cfg.Server.Port),
				zap.String("version", cfg.App.Version),
				zap.String("env", cfg.App.Env),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				common.LogError("HTTP server failed", zap.Error(err))
				stop()
			}
		}()
	}

	// blocks until SIGINT/SIGTERM
	if err := bot.New(tg, handler, cfg.Telegram.Concurrency, cfg.Telegram.PollTimeout).Run(ctx); err != nil {
		common.LogError("Bot exited with error", zap.Error(err))
	}

	common.LogInfo("Shutting down bot...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			common.LogError("HTTP server forced to shutdown", zap.Error(err))
		}
	}

	// release stores and clients
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			common.LogWarn("Close failed", zap.Error(err))
		}
	}
}
