package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultCommissionRate = 0.15

type Settings struct {
	Port    string
	AppEnv  string
	BaseURL string

	DatabaseURL string
	JWTSecret   string

	PlatformCommissionRate float64

	PaymentProvider    string
	PayPalAPIBaseURL   string
	PayPalClientID     string
	PayPalClientSecret string
	PayPalCurrency     string
	MidtransServerKey  string
	MidtransProduction bool

	CloudinaryURL string
	UploadDir     string

	BrevoAPIKey     string
	EmailSender     string
	EmailSenderName string

	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	rate, err := commissionRate(os.Getenv("PLATFORM_COMMISSION_RATE"))
	if err != nil {
		return nil, err
	}

	return &Settings{
		Port:                   getEnv("PORT", "8080"),
		AppEnv:                 strings.ToLower(getEnv("APP_ENV", "production")),
		BaseURL:                strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTSecret:              jwtSecret,
		PlatformCommissionRate: rate,
		PaymentProvider:        strings.ToLower(getEnv("PAYMENT_PROVIDER", "paypal")),
		PayPalAPIBaseURL:       getEnv("PAYPAL_API_BASE_URL", "https://api-m.sandbox.paypal.com"),
		PayPalClientID:         getEnv("PAYPAL_CLIENT_ID", ""),
		PayPalClientSecret:     getEnv("PAYPAL_CLIENT_SECRET", ""),
		PayPalCurrency:         getEnv("PAYPAL_CURRENCY", "USD"),
		MidtransServerKey:      getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransProduction:     getEnvBool("MIDTRANS_PRODUCTION", false),
		CloudinaryURL:          getEnv("CLOUDINARY_URL", ""),
		UploadDir:              getEnv("UPLOAD_DIR", "./uploads"),
		BrevoAPIKey:            getEnv("BREVO_API_KEY", ""),
		EmailSender:            getEnv("EMAIL_SENDER", ""),
		EmailSenderName:        getEnv("EMAIL_SENDER_NAME", ""),
		AdminEmail:             getEnv("ADMIN_EMAIL", ""),
		AdminPassword:          getEnv("ADMIN_PASSWORD", ""),
		AdminFullName:          getEnv("ADMIN_FULL_NAME", "Site Admin"),
	}, nil
}

func (s *Settings) IsProduction() bool {
	return s != nil && s.AppEnv == "production"
}

func commissionRate(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultCommissionRate, nil
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("PLATFORM_COMMISSION_RATE must be a number: %w", err)
	}
	if rate < 0 || rate > 1 {
		return 0, fmt.Errorf("PLATFORM_COMMISSION_RATE must be between 0 and 1, got %v", rate)
	}
	return rate, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
