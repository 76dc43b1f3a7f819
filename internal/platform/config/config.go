package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	CORSAllowedOrigins []string

	BackendURL      string
	BackendTimeout  time.Duration
	DefaultLanguage string
	MaxWorkspaces   int

	DBURL      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ListingCacheTTL        time.Duration
	ListingCacheSize       int
	ListingRefreshInterval time.Duration

	LogLevel string
	LogFile  string
}

// AppConfig holds the configuration loaded by the last call to Load.
var AppConfig *Config

func Load() *Config {
	// a missing .env is fine, the environment is the source of truth
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:                getEnv("API_PORT", "8080"),
		JWTKey:                 []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:                 time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		CORSAllowedOrigins:     getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		BackendURL:             strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:3000/api/v1"), "/"),
		BackendTimeout:         getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
		DefaultLanguage:        getEnv("DEFAULT_LANGUAGE", "javascript"),
		MaxWorkspaces:          getEnvAsInt("MAX_WORKSPACES", 32),
		DBURL:                  getEnv("DB_URL", ""),
		DBHost:                 getEnv("DB_HOST", ""),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", "user"),
		DBPassword:             getEnv("DB_PASSWORD", "password"),
		DBName:                 getEnv("DB_NAME", "spidyleet_client"),
		DBSslMode:              getEnv("DB_SSLMODE", "disable"),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		ListingCacheTTL:        getEnvAsDuration("LISTING_CACHE_TTL", time.Minute),
		ListingCacheSize:       getEnvAsInt("LISTING_CACHE_SIZE", 128),
		ListingRefreshInterval: getEnvAsDuration("LISTING_REFRESH_INTERVAL", 5*time.Minute),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFile:                getEnv("LOG_FILE", ""),
	}

	switch {
	case cfg.DBURL != "":
		cfg.DBConnStr = cfg.DBURL
	case cfg.DBHost != "":
		cfg.DBConnStr = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSslMode,
		)
	}

	AppConfig = cfg
	return cfg
}

// HasDatabase reports whether attempt history should be kept in postgres.
func (c *Config) HasDatabase() bool {
	return c.DBConnStr != ""
}

// HasRedis reports whether the listing cache should be shared through redis.
func (c *Config) HasRedis() bool {
	return c.RedisAddr != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
