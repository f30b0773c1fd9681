//	@title			Review Board API
//	@version		1.0
//	@description	Review management backend with pluggable image storage (local disk or S3-compatible object store).
//
//	@host		localhost:8080
//	@BasePath	/api/v1

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/reviewboard/service/internal/config"
	"github.com/reviewboard/service/internal/db"
	"github.com/reviewboard/service/internal/images"
	appMiddleware "github.com/reviewboard/service/internal/middleware"
	"github.com/reviewboard/service/internal/review"
	"github.com/reviewboard/service/internal/storage"

	_ "github.com/reviewboard/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	store, imageHandler, err := buildStorage(cfg)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	// Wire dependencies: repository → service → handler
	reviewRepo := review.NewRepository(pool)
	reviewSvc := review.NewService(reviewRepo, store)
	reviewHandler := review.NewHandler(reviewSvc, cfg.MaxUploadBytes)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Public image surface, per storage variant
	r.Mount(cfg.PublicImagePrefix, imageHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.List)
			r.Post("/", reviewHandler.Create)
			r.Get("/{id}", reviewHandler.Get)
			r.Put("/{id}", reviewHandler.Update)
			r.Delete("/{id}", reviewHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s, storage=%s)", cfg.Port, cfg.AppEnv, cfg.StorageType)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}

// buildStorage constructs exactly one storage backend from configuration,
// along with the HTTP handler that serves its objects at the public prefix.
func buildStorage(cfg *config.Config) (storage.Storage, http.Handler, error) {
	switch cfg.StorageType {
	case config.StorageLocal:
		local, err := storage.NewLocal(cfg.UploadDir, cfg.PublicImagePrefix)
		if err != nil {
			return nil, nil, err
		}
		h := http.StripPrefix(cfg.PublicImagePrefix, images.LocalDir(local.Root()))
		return local, h, nil

	case config.StorageMinio:
		remote, err := storage.NewMinio(
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.PublicImagePrefix,
			cfg.StorageUseSSL,
		)
		if err != nil {
			return nil, nil, err
		}
		proxy := images.NewHandler(remote)
		r := chi.NewRouter()
		r.Get("/{key}", proxy.Serve)
		return remote, r, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_TYPE %q (want %q or %q)",
			cfg.StorageType, config.StorageLocal, config.StorageMinio)
	}
}
