// config.go
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/logger"

	"gopkg.in/yaml.v2"
)

// GetEnv returns the environment value for key, or fallback when unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
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

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() *entity.Config {
	return &entity.Config{
		Env: "development",
		Server: entity.ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		},
		Database: entity.DatabaseConfig{
			Driver:  "postgres",
			Host:    "localhost",
			User:    "postgres",
			DBName:  "favefit",
			Port:    "5432",
			SSLMode: "disable",
			Path:    "favefit.db",
		},
		LLM: entity.LLMConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 120,
			MaxTokens:      16000,
		},
		Market: entity.MarketConfig{
			CacheTTLHours: 24,
		},
	}
}

// ReadConfig reads the configuration from the YAML file on top of the defaults.
func ReadConfig(filePath string) (*entity.Config, error) {
	config := Default()

	data, err := os.ReadFile(filePath)
	if err != nil {
		logger.Error("unable to read file", "path", filePath, "error", err)
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		logger.Error("unable to unmarshal YAML", "path", filePath, "error", err)
		return nil, err
	}

	return config, nil
}

// Load builds the configuration from an optional YAML file and then applies
// environment overrides. A missing file is not an error.
func Load(filePath string) (*entity.Config, error) {
	config := Default()
	if filePath != "" {
		fileConfig, err := ReadConfig(filePath)
		switch {
		case err == nil:
			config = fileConfig
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("Config file not found, using defaults and env", "path", filePath)
		default:
			return nil, err
		}
	}
	applyEnv(config)
	return config, nil
}

func applyEnv(c *entity.Config) {
	c.Env = GetEnv("ENV", c.Env)

	c.Server.Port = GetEnv("PORT", c.Server.Port)
	c.Server.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	c.Database.Driver = GetEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = GetEnv("DB_HOST", c.Database.Host)
	c.Database.User = GetEnv("DB_USER", c.Database.User)
	c.Database.Password = GetEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = GetEnv("DB_NAME", c.Database.DBName)
	c.Database.Port = GetEnv("DB_PORT", c.Database.Port)
	c.Database.SSLMode = GetEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.Path = GetEnv("DB_PATH", c.Database.Path)
	c.Database.Debug = getEnvBool("DB_DEBUG", c.Database.Debug)

	c.LLM.APIKey = GetEnv("LLM_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = GetEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = GetEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.TimeoutSeconds = getEnvInt("LLM_TIMEOUT_SECONDS", c.LLM.TimeoutSeconds)
	c.LLM.MaxTokens = getEnvInt("LLM_MAX_TOKENS", c.LLM.MaxTokens)

	c.Redis.Addr = GetEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = GetEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.Market.CheapIngredients = getEnvList("MARKET_CHEAP_INGREDIENTS", c.Market.CheapIngredients)
	c.Market.CacheTTLHours = getEnvInt("MARKET_CACHE_TTL_HOURS", c.Market.CacheTTLHours)

	c.Auth.JWTSecret = GetEnv("JWT_SECRET", c.Auth.JWTSecret)
}
