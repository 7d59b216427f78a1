package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tindahan-cloud/prodsearch/internal/config"
	"github.com/tindahan-cloud/prodsearch/internal/domain"
	logpkg "github.com/tindahan-cloud/prodsearch/internal/logger"
	"github.com/tindahan-cloud/prodsearch/internal/metrics"
	"github.com/tindahan-cloud/prodsearch/internal/repository/embcache"
	"github.com/tindahan-cloud/prodsearch/internal/repository/postgres"
	chiTransport "github.com/tindahan-cloud/prodsearch/internal/transport/chi"
	openaiTransport "github.com/tindahan-cloud/prodsearch/internal/transport/openai"
	"github.com/tindahan-cloud/prodsearch/internal/usecase/filtermap"
	"github.com/tindahan-cloud/prodsearch/internal/usecase/rewrite"
	searchuc "github.com/tindahan-cloud/prodsearch/internal/usecase/search"
	"github.com/tindahan-cloud/prodsearch/internal/version"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting prodsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	ctx := context.Background()

	pool, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	repo := postgres.New(pool, cfg.Embedding.Dimensions)

	embedder := buildEmbedder(cfg, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	rewriter := buildRewriter(cfg, logger)
	mapper := filtermap.New(filtermap.ModeLenient)

	searchSvc := searchuc.New(rewriter, mapper, embedder, repo, logger)
	if cfg.Search.NegationThreshold > 0 {
		searchSvc = searchSvc.WithNegationScoring(searchuc.LexicalScorer{}, cfg.Search.NegationThreshold)
	}

	server := chiTransport.NewServer(searchSvc, repo, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached.
func buildEmbedder(cfg config.Config, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second

	var cache embcache.Cache
	switch cfg.Cache.Driver {
	case "redis":
		client, err := embcache.NewRedisClient(cfg.Cache.Addrs, cfg.Cache.Password)
		if err != nil {
			logger.Fatal("Failed to connect redis cache", zap.Error(err))
		}
		cache = embcache.NewRedisCache(client, ttl, logger)
	default:
		cache = embcache.NewMemoryCache(cfg.Cache.Capacity, ttl)
	}

	return embcache.New(base, cache, metrics.EmbeddingCacheTotal, logger)
}

// buildRewriter assembles the query rewriter: LLM extraction with pattern
// fallback, or pattern-only when the LLM path is disabled.
func buildRewriter(cfg config.Config, logger *zap.Logger) *rewrite.Rewriter {
	var primary rewrite.Extractor
	if cfg.Rewrite.LLMEnabled {
		chat := openaiTransport.NewChatClient(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, cfg.Rewrite.Model)
		primary = rewrite.NewLLMExtractor(chat, time.Duration(cfg.Rewrite.TimeoutSec)*time.Second, logger)
	}
	fallback := cfg.Rewrite.FallbackEnabled == nil || *cfg.Rewrite.FallbackEnabled
	return rewrite.New(primary, fallback, logger)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
