package config

import (
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	DBDriver string
	DBName   string

	PrivateKeyPath string
	PublicKeyPath  string
	TokenTTL       time.Duration

	AdminUsername      string
	AdminPassword      string
	PublicRegistration bool
	HashWorkers        int

	RedisAddr string
	RedisDB   int
	RedisPass string

	StaticDir   string
	LogLevel    string
	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	return &Config{
		ServerPort:         getEnv("PORT", "3000"),
		DBDriver:           getEnv("DB_DRIVER", "sqlite"),
		DBName:             getEnv("DBNAME", "./passport.sqlite"),
		PrivateKeyPath:     getEnv("PRIVATE_KEY_PATH", "demo.rsa"),
		PublicKeyPath:      getEnv("PUBLIC_KEY_PATH", "demo.rsa.pub"),
		TokenTTL:           getEnvDuration("JWT_TTL", 0),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", "admin"),
		PublicRegistration: getEnvBool("PUBLIC_REGISTRATION", false),
		HashWorkers:        getEnvInt("HASH_WORKERS", runtime.NumCPU()),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		StaticDir:          getEnv("STATIC_DIR", "bower_components"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SwaggerHost:        os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
