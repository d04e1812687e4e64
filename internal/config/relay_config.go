package config

import (
	"os"

	"github.com/joho/godotenv"
)

// RelayConfig holds configuration for the outbox relay service.
// This is a minimal config that only includes what the relay needs.
type RelayConfig struct {
	AppEnv          string
	LogLevel        string
	DatabaseURL     string
	RabbitMQURL     string
	EventsQueueName string
	HealthPort      string
}

func LoadRelayConfig() *RelayConfig {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		AppEnv:          getEnv("APP_ENV", "production"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabaseURL:     dbURL,
		RabbitMQURL:     rabbitURL,
		EventsQueueName: getEnv("EVENTS_QUEUE_NAME", "clinic-events"),
		HealthPort:      getEnv("RELAY_HEALTH_PORT", "8090"),
	}
}
