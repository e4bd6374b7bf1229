package v1

import (
	"net/http"
	"time"

	"job-board-backend/config"
	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Tokens signs and verifies session tokens.
type Tokens interface {
	TokenIssuer
	middleware.TokenValidator
}

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	DashboardUC   domain.DashboardUsecase
	AdminUC       domain.AdminUsecase
	HealthUC      usecase.HealthUsecase
	Tokens        Tokens
	RateLimiter   *middleware.RateLimiter
	Config        *config.Config
	// Uploads serves signed local resume links under /uploads. Nil with S3.
	Uploads http.Handler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware([]string{cfg.FrontendURL}, cfg.IsProduction())) // CORS must be first
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		checks := deps.HealthUC.Check(c.Request.Context())
		if checks["status"] != "ok" {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", checks)
			return
		}
		response.Success(c, http.StatusOK, "System operational", checks)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	loginLimit := deps.RateLimiter.Middleware(middleware.LoginConfig(cfg.RateLimitLoginThreshold, window))
	uploadLimit := deps.RateLimiter.Middleware(middleware.UploadConfig(cfg.RateLimitUploadThreshold, window))

	v1 := r.Group("/v1")
	v1.Use(deps.RateLimiter.Middleware(middleware.GlobalConfig(cfg.RateLimitGlobalThreshold, window)))
	v1.Use(middleware.CSRFMiddleware(cfg.CookieSecure, "/v1/auth/login", "/v1/auth/register"))

	public := v1.Group("")
	public.Use(middleware.OptionalAuth(deps.Tokens, deps.AuthUC))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.AuthUC))
	{
		NewAuthHandler(public, protected, loginLimit, deps.AuthUC, deps.Tokens, cfg.CookieSecure)
		NewJobHandler(public, protected, deps.JobUC, deps.ApplicationUC)
		NewApplicationHandler(protected, uploadLimit, deps.ApplicationUC, cfg.ResumeMaxBytes)
		NewDashboardHandler(protected, deps.DashboardUC)
		NewAdminHandler(protected, deps.AdminUC)
	}

	// Links come from ResumeLink, so the ViewApplication gate has already run.
	if deps.Uploads != nil {
		r.GET("/uploads/*filepath", gin.WrapH(http.StripPrefix("/uploads", deps.Uploads)))
	}

	return r
}
