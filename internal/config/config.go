package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Storage    StorageConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	Email      EmailConfig
	OAuth      OAuthConfig
	Bootstrap  BootstrapConfig
	Invitation InvitationConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type StorageConfig struct {
	Path          string
	PublicBaseURL string
	UploadMaxSize int64
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type BootstrapConfig struct {
	DefaultBusinessName string
	OwnerEmail          string
}

type InvitationConfig struct {
	ExpiryHours time.Duration
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "junkshop-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "junkshop")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Manila")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("STORAGE_PATH", "./storage")
	viper.SetDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/storage")
	viper.SetDefault("UPLOAD_MAX_SIZE", 5242880)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("EMAIL_FROM_NAME", "Junkshop")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("BOOTSTRAP_DEFAULT_BUSINESS_NAME", "Main Junkshop")
	viper.SetDefault("INVITATION_EXPIRY_HOURS", 168)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Storage: StorageConfig{
			Path:          viper.GetString("STORAGE_PATH"),
			PublicBaseURL: viper.GetString("STORAGE_PUBLIC_BASE_URL"),
			UploadMaxSize: viper.GetInt64("UPLOAD_MAX_SIZE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: rateLimitConfig(),
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("EMAIL_FROM_NAME"),
			FromEmail:    viper.GetString("EMAIL_FROM_ADDRESS"),
			FrontendURL:  viper.GetString("FRONTEND_URL"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		},
		Bootstrap: BootstrapConfig{
			DefaultBusinessName: viper.GetString("BOOTSTRAP_DEFAULT_BUSINESS_NAME"),
			OwnerEmail:          viper.GetString("BOOTSTRAP_OWNER_EMAIL"),
		},
		Invitation: InvitationConfig{
			ExpiryHours: time.Duration(viper.GetInt("INVITATION_EXPIRY_HOURS")) * time.Hour,
		},
	}
}

// rateLimitConfig reads the rate limiter settings. Non-positive values would
// produce a zero or infinite refill rate, so both fall back to their defaults.
func rateLimitConfig() RateLimitConfig {
	requests := viper.GetInt("RATE_LIMIT_REQUESTS")
	if requests <= 0 {
		log.Printf("Warning: RATE_LIMIT_REQUESTS must be positive, falling back to 100")
		requests = 100
	}
	duration := viper.GetInt("RATE_LIMIT_DURATION")
	if duration <= 0 {
		log.Printf("Warning: RATE_LIMIT_DURATION must be positive, falling back to 60")
		duration = 60
	}
	return RateLimitConfig{Requests: requests, Duration: duration}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
