package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	HTTPPort    string

	DBDSN          string
	MigrationsPath string

	MongoURI string
	MongoDB  string

	JWTSecret string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	FrontendURL string
	BackendURL  string

	PaymentStoreID   string
	PaymentStorePass string
	PaymentLive      bool

	UploadDir string
}

func Load() (*Config, error) {
	// .env is optional, plain environment variables win in deployments
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		Environment:      getEnv("ENV", "development"),
		HTTPPort:         getEnv("PORT", "4000"),
		DBDSN:            os.Getenv("DB_DSN"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "db/migrations"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "clinixnote"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		MailFrom:         getEnv("MAIL_FROM", "no-reply@clinixnote.com"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:5173"),
		BackendURL:       getEnv("BACKEND_URL", "http://localhost:4000"),
		PaymentStoreID:   os.Getenv("PAYMENT_STORE_ID"),
		PaymentStorePass: os.Getenv("PAYMENT_STORE_PASS"),
		PaymentLive:      getEnv("PAYMENT_LIVE", "false") == "true",
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
