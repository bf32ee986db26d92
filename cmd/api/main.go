package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/campdir/campdir-api/internal/config"
	"github.com/campdir/campdir-api/internal/geocode"
	"github.com/campdir/campdir-api/internal/handler"
	"github.com/campdir/campdir-api/internal/mailer"
	"github.com/campdir/campdir-api/internal/middleware"
	"github.com/campdir/campdir-api/internal/repository"
	"github.com/campdir/campdir-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logger := slog.Default()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.InitSchema(context.Background(), db); err != nil {
		slog.Error("schema initialization failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	bootcampRepo := repository.NewBootcampRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	geocoder := geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderKey)
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail, logger)

	coordinator := service.NewCoordinator(courseRepo, bootcampRepo, logger)
	authService := service.NewAuthService(userRepo, mail, cfg.JWTSecret, cfg.JWTExpiry, cfg.AppURL, logger)
	bootcampService := service.NewBootcampService(bootcampRepo, userRepo, geocoder, coordinator, logger)
	courseService := service.NewCourseService(courseRepo, bootcampRepo, userRepo, coordinator, logger)

	authHandler := handler.NewAuthHandler(authService, cfg.JWTExpiry, cfg.Env == "production")
	bootcampHandler := handler.NewBootcampHandler(bootcampService, cfg.UploadDir, cfg.MaxUploadSize)
	courseHandler := handler.NewCourseHandler(courseService)

	r := chi.NewRouter()
	r.Use(middleware.Logger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// public reads
	r.Get("/api/v1/bootcamps", bootcampHandler.HandleList)
	r.Get("/api/v1/bootcamps/radius/{zipcode}/{distance}", bootcampHandler.HandleWithinRadius)
	r.Get("/api/v1/bootcamps/{id}", bootcampHandler.HandleGet)
	r.Get("/api/v1/bootcamps/{id}/courses", courseHandler.HandleListByBootcamp)
	r.Get("/api/v1/courses", courseHandler.HandleList)
	r.Get("/api/v1/courses/{id}", courseHandler.HandleGet)

	// credential endpoints are rate limited per IP
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/v1/auth/register", authHandler.HandleRegister)
		r.Post("/api/v1/auth/login", authHandler.HandleLogin)
		r.Post("/api/v1/auth/forgotpassword", authHandler.HandleForgotPassword)
		r.Put("/api/v1/auth/resetpassword/{resettoken}", authHandler.HandleResetPassword)
	})

	// authenticated mutations
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Get("/api/v1/auth/me", authHandler.HandleMe)

		r.Post("/api/v1/bootcamps", bootcampHandler.HandleCreate)
		r.Put("/api/v1/bootcamps/{id}", bootcampHandler.HandleUpdate)
		r.Delete("/api/v1/bootcamps/{id}", bootcampHandler.HandleDelete)
		r.Put("/api/v1/bootcamps/{id}/photo", bootcampHandler.HandlePhotoUpload)

		r.Post("/api/v1/bootcamps/{id}/courses", courseHandler.HandleCreate)
		r.Put("/api/v1/courses/{id}", courseHandler.HandleUpdate)
		r.Delete("/api/v1/courses/{id}", courseHandler.HandleDelete)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
