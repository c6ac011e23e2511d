package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort          string
	JWTKey           []byte
	JWTExp           time.Duration
	HTTPWriteTimeout time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Judge0URL     string
	Judge0APIKey  string
	Judge0Timeout time.Duration

	SubmitCooldown time.Duration

	LogLevel  string
	LogFormat string
}

var AppConfig *Config

// requestTimeoutMargin is how long before the server write deadline a request context is cancelled.
const requestTimeoutMargin = 5 * time.Second

// RequestTimeout is the per-request deadline. It expires before HTTPWriteTimeout so a handler
// can still persist its result and answer with a 504 while the connection is writable.
func (c *Config) RequestTimeout() time.Duration {
	if c.HTTPWriteTimeout > 2*requestTimeoutMargin {
		return c.HTTPWriteTimeout - requestTimeoutMargin
	}
	return c.HTTPWriteTimeout / 2
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:          getEnv("API_PORT", "8080"),
		JWTKey:           []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:           time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		HTTPWriteTimeout: time.Duration(getEnvAsInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)) * time.Second,
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "user"),
		DBPassword:       getEnv("DB_PASSWORD", "password"),
		DBName:           getEnv("DB_NAME", "contest_judge"),
		DBSslMode:        getEnv("DB_SSLMODE", "disable"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "contest_judge"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		Judge0URL:        getEnv("JUDGE0_URL", "http://localhost:2358"),
		Judge0APIKey:     getEnv("JUDGE0_API_KEY", ""),
		Judge0Timeout:    secondsToDuration(getEnvAsFloat("JUDGE0_TIMEOUT_SECONDS", 30)),
		SubmitCooldown:   time.Duration(getEnvAsInt("SUBMIT_COOLDOWN_SECONDS", 0)) * time.Second,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
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

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
