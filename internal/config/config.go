package config

import (
	"crypto/rsa"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	JWTPrivateKey *rsa.PrivateKey
	JWTPublicKey  *rsa.PublicKey
	TokenTTL      time.Duration
	DatabaseURL   string
	RedisAddress  string
	RedisPassword string
	Port          string

	CORSAllowedOrigins []string
	RateLimitPerSecond int

	BootstrapAdminUsername string
	BootstrapAdminPassword string
}

func Load() *Config {
	// A missing .env file is fine; real deployments inject the environment.
	_ = godotenv.Load()

	privateKeyPath := getEnv("PRIVATE_KEY_PATH", "/etc/certs/private.pem")
	privateKey, err := loadPrivateKey(privateKeyPath)
	if err != nil {
		panic("Failed to load private key: " + err.Error())
	}

	publicKeyPath := getEnv("PUBLIC_KEY_PATH", "/etc/certs/public.pem")
	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		panic("Failed to load public key: " + err.Error())
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	return &Config{
		AppEnv:                 getEnv("APP_ENV", "production"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		JWTPrivateKey:          privateKey,
		JWTPublicKey:           publicKey,
		TokenTTL:               time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		DatabaseURL:            dbURL,
		RedisAddress:           getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		Port:                   getEnv("PORT", "8080"),
		CORSAllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitPerSecond:     getEnvInt("RATE_LIMIT_PER_SECOND", 20),
		BootstrapAdminUsername: os.Getenv("BOOTSTRAP_ADMIN_USERNAME"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return privateKey, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
