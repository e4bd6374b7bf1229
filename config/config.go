package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	FrontendURL string

	// Storage backends
	DBDriver      string // "postgres" or "memory"
	DBUrl         string
	DBAutoMigrate bool

	// Sessions
	JWTSecret    string
	JWTIssuer    string
	TokenTTL     time.Duration
	CookieSecure bool
	BcryptCost   int

	// Bootstrap administrator, created at startup when username and password are set
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	AdminRole     string

	// Resume storage
	StorageDriver     string // "s3" or "local"
	LocalStorageDir   string
	LocalStorageURL   string
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	ResumeMaxBytes    int64
	ResumeURLTTL      time.Duration

	// Redis Configuration
	RedisURL      string
	RedisPassword string

	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	RateLimitUploadThreshold int
}

func LoadConfig() (*Config, error) {
	// Only effective locally; missing .env is fine in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBUrl:         getEnv("DATABASE_URL", ""),
		DBAutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTIssuer:    getEnv("JWT_ISSUER", "job-board"),
		TokenTTL:     getEnvDuration("TOKEN_TTL", 24*time.Hour),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		BcryptCost:   getEnvInt("BCRYPT_COST", 12),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminRole:     getEnv("ADMIN_ROLE", "employer"),

		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		LocalStorageDir:   getEnv("LOCAL_STORAGE_DIR", "./uploads"),
		LocalStorageURL:   strings.TrimRight(getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/uploads"), "/"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		ResumeMaxBytes:    int64(getEnvInt("RESUME_MAX_BYTES", 5<<20)),
		ResumeURLTTL:      getEnvDuration("RESUME_URL_TTL", 15*time.Minute),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitUploadThreshold: getEnvInt("RATE_LIMIT_UPLOAD_THRESHOLD", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres":
		if c.DBUrl == "" {
			return errors.New("config: DATABASE_URL is required when DB_DRIVER=postgres")
		}
	case "memory":
	default:
		return errors.New("config: DB_DRIVER must be postgres or memory")
	}

	switch c.StorageDriver {
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("config: S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	case "local":
	default:
		return errors.New("config: STORAGE_DRIVER must be s3 or local")
	}

	if len(c.JWTSecret) < 16 {
		return errors.New("config: JWT_SECRET must be at least 16 characters")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings such as "15m" or "24h".
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
