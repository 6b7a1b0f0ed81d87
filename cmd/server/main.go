// cmd/server/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	mux_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planora/planora-server/internal/auth"
	"github.com/planora/planora-server/internal/config"
	"github.com/planora/planora-server/internal/handlers"
	"github.com/planora/planora-server/internal/middleware"
	"github.com/planora/planora-server/internal/ratelimit"
	"github.com/planora/planora-server/internal/store/postgres"
)

func main() {
	// --- Load config (config.yaml + env overrides) ---
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// --- Connect to Postgres ---
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	st := postgres.New(pool)
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	// --- Rate limiter (Redis); optional in development ---
	var limiter *ratelimit.Limiter
	if cfg.Redis.URL != "" {
		limiter, err = ratelimit.New(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("redis error: %v", err)
		}
		defer limiter.Close()
	}

	// --- Credential resolver against the hosted auth provider ---
	resolver := auth.NewResolver(auth.NewJWTVerifier(cfg.Auth.JWTSecret), cfg.Auth.ProjectRef)

	// --- Router ---
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(mux_middleware.Logger)
	mux.Use(mux_middleware.Recoverer)

	// --- CORS middleware ---
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Cookie"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handlers.RegisterRoutes(mux, st, resolver, limiter)

	// Health root
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})

	// --- Start server ---
	addr := ":" + cfg.Port
	log.Printf("listening on %s (BASE_URL=%s)", addr, cfg.BaseURL)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
