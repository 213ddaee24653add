package router

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"petchat-ai/internal/adapters/completion/canned"
	mem "petchat-ai/internal/adapters/storage/memory"
	pg "petchat-ai/internal/adapters/storage/postgres"
	"petchat-ai/internal/domain/chat"
	"petchat-ai/internal/domain/pets"
	"petchat-ai/internal/middleware"
	"petchat-ai/internal/platform/logger"
	"petchat-ai/internal/platform/ratelimit"
	"petchat-ai/internal/ports/auth"
	"petchat-ai/internal/ports/completion"
)

const apiVersion = "1.0.0"

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: si viene nil, usa el generator canned (dev/tests).
	Completion completion.Generator

	// Opcional: logger para el request log. Nil => sin request log.
	Log logger.Logger

	// Opcional: limiter para POST /chat. Nil => sin rate limit.
	ChatLimiter *ratelimit.FixedWindowLimiter
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if opts.Log != nil {
		r.Use(middleware.RequestLog(opts.Log))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/", healthHandler)
	r.Get("/health", healthHandler)

	// UI de swagger (apunta al doc.json default del handler).
	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		petRepo  pets.Repository
		convRepo chat.Repository
		convs    pets.Conversations
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				if opts.Log != nil {
					opts.Log.Warn("DB_DSN set but postgres unavailable, using in-memory storage", map[string]any{
						"error": err.Error(),
					})
				}
			} else {
				db = opened
			}
		}
	}

	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		pgConvs := pg.NewConversationsRepo(db)
		convRepo = pgConvs
		convs = pgConvs
	} else {
		petRepo = mem.NewPetRepo()
		memConvs := mem.NewConversationRepo()
		convRepo = memConvs
		convs = memConvs
	}

	gen := opts.Completion
	if gen == nil {
		gen = canned.New()
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo, convs)
	chatSvc := chat.NewService(convRepo, petsSvc, gen)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)

	if opts.ChatLimiter != nil {
		r.Group(func(g chi.Router) {
			g.Use(middleware.RateLimit(opts.ChatLimiter))
			chat.RegisterRoutes(g, chatSvc)
		})
	} else {
		chat.RegisterRoutes(r, chatSvc)
	}

	return r
}

type healthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "healthy",
		Version:   apiVersion,
		Timestamp: time.Now().UTC(),
	})
}
