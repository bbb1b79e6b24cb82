package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/scrapworks/junkshop-api/internal/application/service"
	"github.com/scrapworks/junkshop-api/internal/config"
	"github.com/scrapworks/junkshop-api/internal/infrastructure/database"
	"github.com/scrapworks/junkshop-api/internal/infrastructure/repository"
	"github.com/scrapworks/junkshop-api/internal/presentation/http/handler"
	"github.com/scrapworks/junkshop-api/internal/presentation/http/routes"
	"github.com/scrapworks/junkshop-api/pkg/email"
	"github.com/scrapworks/junkshop-api/pkg/oauth"
	"github.com/scrapworks/junkshop-api/pkg/upload"
	"github.com/scrapworks/junkshop-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db, cfg.Bootstrap.DefaultBusinessName); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Initialize Google sign-in
	googleProvider := oauth.NewGoogleProvider(
		cfg.OAuth.GoogleClientID,
		cfg.OAuth.GoogleClientSecret,
		cfg.OAuth.GoogleRedirectURL,
	)

	// Initialize image store
	uploadStore := upload.NewStore(cfg.Storage.Path, cfg.Storage.PublicBaseURL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, googleProvider)
	businessService := service.NewBusinessService(businessRepo, userRepo, invitationRepo, emailService, service.BusinessServiceConfig{
		DefaultBusinessName: cfg.Bootstrap.DefaultBusinessName,
		BootstrapOwnerEmail: cfg.Bootstrap.OwnerEmail,
		InvitationTTL:       cfg.Invitation.ExpiryHours,
	})
	transactionService := service.NewTransactionService(transactionRepo)
	accessGate := service.NewAccessGate(businessService)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Business:    handler.NewBusinessHandler(businessService),
		Upload:      handler.NewUploadHandler(uploadStore),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		AccessGate:      accessGate,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
