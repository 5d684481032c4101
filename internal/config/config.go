package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"entitysearch/database"
	"entitysearch/enrichment"
)

// Config конфигурация сервера
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База данных
	DatabasePath string `json:"database_path"`
	BaseName     string `json:"base_name"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Внешний реестр
	Registry *enrichment.RegistryConfig `json:"registry"`

	// Кэш ответов реестра
	RegistryCache *enrichment.CacheConfig `json:"registry_cache"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:            getEnv("SERVER_PORT", "9999"),
		DatabasePath:    getEnv("DATABASE_PATH", "search_data.db"),
		BaseName:        getEnv("DATABASE_BASE_NAME", "main"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		Registry: &enrichment.RegistryConfig{
			BaseURL:     getEnv("REGISTRY_BASE_URL", ""),
			Endpoint:    getEnv("REGISTRY_ENDPOINT", "registry"),
			APIKey:      getEnv("REGISTRY_API_KEY", ""),
			Timeout:     getEnvDuration("REGISTRY_TIMEOUT", 30*time.Second),
			MaxRequests: getEnvInt("REGISTRY_MAX_REQUESTS", 100),
			Enabled:     getEnvBool("REGISTRY_ENABLED", false),
		},
		RegistryCache: &enrichment.CacheConfig{
			Enabled:         getEnvBool("REGISTRY_CACHE_ENABLED", true),
			TTL:             getEnvDuration("REGISTRY_CACHE_TTL", time.Hour),
			CleanupInterval: getEnvDuration("REGISTRY_CACHE_CLEANUP", 10*time.Minute),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("не указан порт сервера")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("не указан путь к базе данных")
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max_open_conns должен быть положительным, получено %d", c.MaxOpenConns)
	}
	if c.Registry != nil && c.Registry.Enabled && c.Registry.BaseURL == "" {
		return fmt.Errorf("внешний реестр включен, но base_url не указан")
	}
	return nil
}

// DBConfig возвращает конфигурацию пула соединений
func (c *Config) DBConfig() database.DBConfig {
	return database.DBConfig{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
