package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server Server
	DB     DB
	Redis  Redis
	Auth   Auth
	SMTP   SMTP
	GitHub GitHub
	App    App
}

type Server struct {
	Port       string
	CORSOrigin string
	UploadDir  string
	PublicDir  string
}

type DB struct {
	DSN      string
	MaxConns int
	MinConns int
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Auth struct {
	JWTSecret string
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	FromName string
	// ContactEmail receives new contact-form notifications.
	ContactEmail string
}

type GitHub struct {
	Token    string
	Username string
}

type App struct {
	Environment string
	Version     string
}

func Load() *Config {
	// Load .env if present (ignored in production deployments)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: Server{
			Port:       getEnv("PORT", "4000"),
			CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
			UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
			PublicDir:  getEnv("PUBLIC_DIR", "public"),
		},
		DB: DB{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: Auth{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		SMTP: SMTP{
			Host:         getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:         getEnvAsInt("SMTP_PORT", 587),
			User:         getEnv("SMTP_USER", ""),
			Password:     getEnv("SMTP_PASS", ""),
			FromName:     getEnv("SMTP_FROM_NAME", "Portfolio"),
			ContactEmail: getEnv("CONTACT_EMAIL", ""),
		},
		GitHub: GitHub{
			Token:    getEnv("GITHUB_TOKEN", ""),
			Username: getEnv("GITHUB_USERNAME", "hafizkhan902"),
		},
		App: App{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	return cfg
}

func (c *Config) Validate() error {
	if c.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
