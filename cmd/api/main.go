package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-board-backend/config"
	_ "job-board-backend/docs" // Important for Swagger
	"job-board-backend/internal/delivery/http/middleware"
	v1 "job-board-backend/internal/delivery/http/v1"
	"job-board-backend/internal/domain"
	"job-board-backend/internal/repository/memory"
	"job-board-backend/internal/repository/postgres"
	"job-board-backend/internal/usecase"
	"job-board-backend/pkg/auth"
	"job-board-backend/pkg/database"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/redis"
	"job-board-backend/pkg/security"
	"job-board-backend/pkg/storage"
	"job-board-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type repositories struct {
	users domain.UserRepository
	jobs  domain.JobRepository
	apps  domain.ApplicationRepository
	admin domain.AdminRepository
}

// @title           Job Board API
// @version         1.0
// @description     Job board backend: seekers apply to jobs, employers post jobs and review applications.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	secLogger := security.InitSecurityLogger("job-board-backend", cfg.Environment)
	defer secLogger.Sync()
	logger.Log.Info("Starting job board backend", "port", cfg.Port, "env", cfg.Environment)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if !validation.RegisterGinValidators() {
		logger.Log.Warn("Custom validators not registered; gin binding engine is not validator/v10")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]usecase.HealthCheck{}

	// 3. Setup Storage
	var repos repositories
	switch cfg.DBDriver {
	case "memory":
		logger.Log.Warn("Using in-memory store; data is lost on restart")
		s := memory.NewStore()
		repos = repositories{
			users: memory.NewUserRepository(s),
			jobs:  memory.NewJobRepository(s),
			apps:  memory.NewApplicationRepository(s),
			admin: memory.NewAdminRepository(s),
		}
	default:
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if cfg.DBAutoMigrate {
			if err := postgres.Migrate(ctx, dbPool); err != nil {
				logger.Log.Error("Failed to apply schema", "error", err)
				os.Exit(1)
			}
		}

		repos = repositories{
			users: postgres.NewUserRepository(dbPool),
			jobs:  postgres.NewJobRepository(dbPool),
			apps:  postgres.NewApplicationRepository(dbPool),
			admin: postgres.NewAdminRepository(dbPool),
		}
		checks["database"] = dbPool.Ping
	}

	// 4. Setup Redis (optional, rate limiting)
	var counter middleware.Counter
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting in memory only", "error", err)
		} else {
			counter = middleware.NewRedisCounter(redis.Client())
			checks["redis"] = redis.HealthCheck
			defer redis.Close()
		}
	}
	fallback := middleware.NewMemoryCounter()
	fallback.StartSweeper(ctx, 5*time.Minute)

	// 5. Setup Resume Storage
	var (
		resumes domain.ResumeStorage
		uploads http.Handler
	)
	switch cfg.StorageDriver {
	case "s3":
		s3Store, err := storage.NewS3Storage(ctx, storage.S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Log.Error("Failed to set up S3 storage", "error", err)
			os.Exit(1)
		}
		resumes = s3Store
		checks["storage"] = s3Store.Ping
	default:
		local, err := storage.NewLocalStorage(cfg.LocalStorageDir, cfg.LocalStorageURL, []byte(cfg.JWTSecret))
		if err != nil {
			logger.Log.Error("Failed to set up local storage", "error", err)
			os.Exit(1)
		}
		resumes = local
		uploads = local
	}

	// 6. Setup UseCases
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		logger.Log.Error("Failed to set up token service", "error", err)
		os.Exit(1)
	}

	authUC := usecase.NewAuthUsecase(repos.users, auth.NewBcryptHasher(cfg.BcryptCost))
	jobUC := usecase.NewJobUsecase(repos.jobs, repos.apps, resumes)
	applicationUC := usecase.NewApplicationUsecase(repos.apps, repos.jobs, resumes, usecase.ApplicationConfig{
		MaxResumeBytes: cfg.ResumeMaxBytes,
		ResumeURLTTL:   cfg.ResumeURLTTL,
	})
	dashboardUC := usecase.NewDashboardUsecase(repos.users, repos.jobs, repos.apps)
	adminUC := usecase.NewAdminUsecase(repos.users, repos.jobs, repos.apps, repos.admin)
	healthUC := usecase.NewHealthUsecase(checks)

	// 7. Bootstrap administrator
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		admin, err := authUC.EnsureAdmin(ctx, domain.RegisterInput{
			Username: cfg.AdminUsername,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
			Role:     cfg.AdminRole,
		})
		if err != nil {
			logger.Log.Error("Failed to ensure administrator account", "error", err)
			os.Exit(1)
		}
		logger.Log.Info("Administrator account ready", "user_id", admin.ID)
	}

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		DashboardUC:   dashboardUC,
		AdminUC:       adminUC,
		HealthUC:      healthUC,
		Tokens:        tokens,
		RateLimiter:   middleware.NewRateLimiter(counter, fallback),
		Config:        cfg,
		Uploads:       uploads,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
