package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	api "github.com/mind-engage/quizengine/internal/api/http"
	auth "github.com/mind-engage/quizengine/internal/auth/middleware"
	"github.com/mind-engage/quizengine/internal/config"
	"github.com/mind-engage/quizengine/internal/db"
	"github.com/mind-engage/quizengine/internal/grading"
	"github.com/mind-engage/quizengine/internal/logger"
	"github.com/mind-engage/quizengine/internal/quiz"
	"github.com/mind-engage/quizengine/internal/session"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("db", cfg.DBDriver).
		Msg("starting quizd")

	// --- Store ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		store session.Store
		dbh   *sql.DB
	)
	if cfg.DBDriver == "memory" {
		store = session.NewMemoryStore()
	} else {
		var err error
		dbh, err = db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("db open failed")
		}
		defer dbh.Close()
		store = session.NewSQLStore(dbh)
	}

	svc := session.NewService(store,
		session.WithQuizOptions(
			quiz.WithValidators(grading.NewRegistry(grading.WithMaxEditDistance(cfg.FuzzyMaxEdit))),
			quiz.WithFreeTextGrader(grading.KeywordGrader{}),
		),
		session.WithExercisePrefix(cfg.ExercisePrefix),
		session.WithLogger(log),
	)
	if cfg.AuthorPassHash == "" {
		log.Warn().Msg("AUTHOR_PASS_HASH not set; author login disabled")
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, hlog.NewHandler(log), middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Sessions:       svc,
		Auth:           auth.NewAuthService(cfg.HMACSecret),
		Labels:         cfg.Labels,
		AuthorUser:     cfg.AuthorUser,
		AuthorPassHash: cfg.AuthorPassHash,
		AllowGuests:    cfg.AllowGuests,
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if dbh != nil {
			if err := dbh.PingContext(r.Context()); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(200)
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
