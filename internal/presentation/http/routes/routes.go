package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scrapworks/junkshop-api/internal/application/service"
	"github.com/scrapworks/junkshop-api/internal/config"
	domainRepo "github.com/scrapworks/junkshop-api/internal/domain/repository"
	"github.com/scrapworks/junkshop-api/internal/presentation/http/handler"
	"github.com/scrapworks/junkshop-api/internal/presentation/http/middleware"
	"github.com/scrapworks/junkshop-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Transaction *handler.TransactionHandler
	Business    *handler.BusinessHandler
	Upload      *handler.UploadHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	AccessGate      *service.AccessGate
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Stored session images are served from here
	router.Static("/storage", deps.Cfg.Storage.Path)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		registerProfileRoutes(protected, h)
		registerBusinessDirectoryRoutes(protected, h)

		// Business-scoped routes: the caller's membership is resolved once
		// and every query below is confined to their current business
		scoped := protected.Group("")
		scoped.Use(middleware.BusinessMiddleware(deps.AccessGate))

		// Per-business rate limiter
		rateLimiter := middleware.NewBusinessRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		scoped.Use(rateLimiter.Middleware())

		registerScopedRoutes(scoped, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuthURL)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProfileRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.Me)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)
}

// registerBusinessDirectoryRoutes covers operations that work across the
// caller's businesses and therefore run before the business scope is set
func registerBusinessDirectoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	businesses := protected.Group("/businesses")
	{
		businesses.POST("", h.Business.Create)
		businesses.GET("", h.Business.List)
		businesses.POST("/:id/switch", h.Business.Switch)
	}

	protected.POST("/invitations/accept", h.Business.AcceptInvitation)
}

func registerScopedRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	business := scoped.Group("/business")
	{
		business.GET("", h.Business.Current)
		business.GET("/members", h.Business.Members)
		business.POST("/invitations", h.Business.Invite)
		business.DELETE("/members/:userId", h.Business.RemoveMember)
		business.PUT("/members/:userId/role", h.Business.UpdateMemberRole)
	}

	transactions := scoped.Group("/transactions")
	{
		idempotency := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		})

		transactions.GET("", h.Transaction.List)
		transactions.POST("", idempotency, h.Transaction.Create)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.PATCH("/:id", h.Transaction.Update)
		transactions.POST("/:id/mark-paid", h.Transaction.MarkPaid)
		transactions.POST("/:id/cancel", h.Transaction.Cancel)
		transactions.DELETE("/:id", h.Transaction.Delete)
	}

	scoped.POST("/uploads/images", h.Upload.UploadImage)
}
