package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Assistant AssistantConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

// StorageConfig configura o slot único onde o snapshot do estado é salvo.
// Backend "file" (padrão) ou "redis".
type StorageConfig struct {
	Backend       string
	FilePath      string
	Key           string
	RedisURL      string
	RedisPassword string
	RedisDB       int
}

type AssistantConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Carregar .env se existir
	if err := godotenv.Load(); err != nil {
		// Não é crítico se o arquivo .env não existir
	}

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "file"),
			FilePath:      getEnv("STORAGE_FILE_PATH", "data/gestor_urbano_state.json"),
			Key:           getEnv("STORAGE_KEY", "gestor_urbano_state"),
			RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
		Assistant: AssistantConfig{
			APIKey:  getEnv("ASSISTANT_API_KEY", ""),
			Model:   getEnv("ASSISTANT_MODEL", "gpt-4-turbo-preview"),
			BaseURL: getEnv("ASSISTANT_BASE_URL", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
