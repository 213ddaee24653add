package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"petchat-ai/internal/adapters/auth/jwtauth"
	"petchat-ai/internal/adapters/completion/anthropicgen"
	"petchat-ai/internal/adapters/completion/canned"
	"petchat-ai/internal/adapters/completion/gemini"
	pg "petchat-ai/internal/adapters/storage/postgres"
	"petchat-ai/internal/platform/config"
	"petchat-ai/internal/platform/logger"
	"petchat-ai/internal/platform/ratelimit"
	"petchat-ai/internal/ports/auth"
	"petchat-ai/internal/ports/completion"
	"petchat-ai/internal/router"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	appLog := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "petchat-api",
	})

	// Sin JWT_SECRET queda en modo dev: X-Debug-User-ID o demo-user.
	var verifier auth.AuthVerifier
	if cfg.JWTSecret != "" {
		v, err := jwtauth.New(jwtauth.Options{Secret: cfg.JWTSecret})
		if err != nil {
			log.Fatalf("jwt verifier error: %v", err)
		}
		verifier = v
	} else {
		appLog.Warn("auth in dev mode, set JWT_SECRET for production", nil)
	}

	var gen completion.Generator
	switch cfg.CompletionProvider {
	case config.ProviderGemini:
		gen, err = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderAnthropic:
		gen, err = anthropicgen.New(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		gen = canned.New()
		appLog.Warn("completion in canned mode, set GEMINI_API_KEY or ANTHROPIC_API_KEY", nil)
	}
	if err != nil {
		log.Fatalf("completion provider error: %v", err)
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Fatalf("postgres error: %v", err)
		}
		defer db.Close()
	}

	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" {
		limiter, err = ratelimit.NewFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "petchat:chat", cfg.ChatPerMinute, time.Minute,
		)
		if err != nil {
			log.Fatalf("rate limiter error: %v", err)
		}
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Completion:   gen,
		Log:          appLog,
		ChatLimiter:  limiter,
	})

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // los completions pueden tardar
	}

	appLog.Info("starting server", map[string]any{
		"addr":     addr,
		"provider": cfg.CompletionProvider,
	})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
