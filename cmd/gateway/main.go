package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/courseflow/quiz-service/internal/api/http"
	auth "github.com/courseflow/quiz-service/internal/auth/middleware"
	"github.com/courseflow/quiz-service/internal/config"
	"github.com/courseflow/quiz-service/internal/db"
	"github.com/courseflow/quiz-service/internal/logging"
	"github.com/courseflow/quiz-service/internal/quiz"
	"github.com/courseflow/quiz-service/internal/rbac"
)

func main() {
	cfg := config.FromEnv()
	slog.SetDefault(logging.New(os.Stdout, cfg.LogLevel))

	// --- Quiz store (per-course scope) ---
	var store quiz.Store
	switch cfg.DBDriver {
	case "memory":
		store = quiz.NewMemoryStore(cfg.CourseID)
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			slog.Error("db open failed", "err", err)
			os.Exit(1)
		}
		store = quiz.NewSQLStore(dbh, cfg.CourseID)
	}

	// Live attempt sessions are in-memory only; they do not survive restarts.
	attempts := quiz.NewAttemptStore()

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.AdminUser, cfg.AdminPassHash))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Authoring
		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", api.CreateQuizHandler(store))
		pr.With(rbac.Require("quiz:edit")).
			Patch("/quizzes/{quizID}", api.UpdateQuizHandler(store))
		pr.With(rbac.Require("quiz:delete")).
			Delete("/quizzes/{quizID}", api.DeleteQuizHandler(store))
		pr.With(rbac.Require("quiz:publish")).
			Post("/quizzes/{quizID}/publish", api.TogglePublishHandler(store))
		pr.With(rbac.Require("quiz:edit")).
			Post("/quizzes/{quizID}/questions", api.AddQuestionHandler(store))
		pr.With(rbac.Require("quiz:edit")).
			Patch("/quizzes/{quizID}/questions/{questionID}", api.UpdateQuestionHandler(store))
		pr.With(rbac.Require("quiz:edit")).
			Delete("/quizzes/{quizID}/questions/{questionID}", api.DeleteQuestionHandler(store))

		// Reading (answer keys stripped for students)
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", api.ListQuizzesHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}/availability", api.AvailabilityHandler(store))

		// Taking
		pr.With(rbac.Require("attempt:create")).
			Post("/quizzes/{quizID}/attempts", api.CreateAttemptHandler(store, attempts))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", api.GetAttemptHandler(attempts))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/answers", api.RecordAnswerHandler(attempts))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/navigate", api.NavigateHandler(attempts))
		pr.With(rbac.Require("attempt:submit")).
			Post("/attempts/{attemptID}/submit", api.SubmitAttemptHandler(attempts))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	slog.Info("listening", "addr", cfg.HTTPAddr, "course", cfg.CourseID, "db", cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}
