package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/exam-bank/exambank/internal/api/http"
	auth "github.com/exam-bank/exambank/internal/auth/middleware"
	"github.com/exam-bank/exambank/internal/config"
	"github.com/exam-bank/exambank/internal/db"
	"github.com/exam-bank/exambank/internal/exam"
	"github.com/exam-bank/exambank/internal/rbac"
	"github.com/exam-bank/exambank/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := api.EnsureAdmin(ctx, dbh, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	store := exam.NewSQLStore(dbh, cfg.DBDriver)
	gen := exam.NewGenerator(store)
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", api.LoginHandler(dbh, authSvc))

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("user:create")).Post("/users", api.CreateUserHandler(dbh))

		pr.Route("/subjects", func(sr chi.Router) {
			sr.With(rbac.Require("subject:view")).Get("/", api.ListSubjectsHandler(store))
			sr.With(rbac.Require("subject:view")).Get("/{subjectID}", api.GetSubjectHandler(store))
			sr.With(rbac.Require("subject:create")).Post("/", api.CreateSubjectHandler(store))
		})

		pr.Route("/questions", func(qr chi.Router) {
			qr.With(rbac.Require("question:view")).Get("/", api.ListQuestionsHandler(store))
			qr.With(rbac.Require("question:view")).Get("/{questionID}", api.GetQuestionHandler(store))
			qr.With(rbac.Require("question:create")).Post("/", api.CreateQuestionHandler(store))
			qr.With(rbac.Require("question:update")).Put("/{questionID}", api.UpdateQuestionHandler(store))
			qr.With(rbac.Require("question:delete")).Delete("/{questionID}", api.DeleteQuestionHandler(store))
		})

		pr.Route("/import", func(ir chi.Router) {
			ir.With(rbac.Require("import:run")).Post("/preview", api.PreviewDocxHandler(cfg.MaxUploadBytes))
			ir.With(rbac.Require("import:run")).Post("/docx", api.ImportDocxHandler(store, cfg.MaxUploadBytes))
		})

		pr.Route("/exams", func(er chi.Router) {
			er.With(rbac.Require("exam:view")).Get("/", api.ListExamsHandler(store))
			er.With(rbac.Require("exam:view")).Get("/{examID}", api.GetExamHandler(store))
			er.With(rbac.Require("exam:create")).Post("/", api.CreateExamHandler(store, gen))
			er.With(rbac.Require("version:create")).Post("/{examID}/versions", api.AddExamVersionHandler(store, gen))
		})

		pr.Route("/versions", func(vr chi.Router) {
			vr.With(rbac.Require("version:view")).Get("/{versionID}", api.GetExamVersionHandler(store))
			vr.With(rbac.Require("version:view")).Get("/{versionID}/questions", api.ShuffledViewHandler(gen))
		})

		pr.Route("/assets", func(ar chi.Router) {
			ar.With(rbac.Require("asset:create")).Post("/", api.UploadAssetHandler(bs))
			ar.With(rbac.RequireAny("asset:view", "question:view")).Get("/{key}", api.GetAssetHandler(bs))
			ar.With(rbac.Require("asset:delete")).Delete("/{key}", api.DeleteAssetHandler(bs))
		})
	})

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
