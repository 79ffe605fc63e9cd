package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer    string        // Issuer claim for session tokens (default: resumeforge)
	JWTSecret string        // Required: HS256 signing secret
	JWTTTL    time.Duration // Session token lifetime (default: 7 days)

	DatabaseDriver string // sqlite or mongo (default: sqlite)
	DatabaseFile   string // SQLite database file (default: ./resumeforge.db)
	MongoURI       string // Mongo connection string (when driver=mongo)
	MongoDatabase  string // Mongo database name (default: resumeforge)

	PepperFile string // Optional: path to password pepper file

	SMTPHost     string // Empty disables delivery; codes are logged instead
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	CORSOrigin string // Allowed browser origin (default: http://localhost:5173)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)

	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-code sweep interval (default: 1h)
	OTPTTL               time.Duration // One-time code validity (default: 10m)
}

func LoadConfig() Config {
	return Config{
		Issuer:    getEnvOrDefault("JWT_ISSUER", "resumeforge"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getEnvDurationOrDefault("JWT_TTL", 7*24*time.Hour),

		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "resumeforge.db"),
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnvOrDefault("MONGO_DATABASE", "resumeforge"),

		PepperFile: os.Getenv("PEPPER_FILE"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "ResumeForge <no-reply@resumeforge.local>"),

		CORSOrigin: getEnvOrDefault("CORS_ORIGIN", "http://localhost:5173"),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		OTPTTL:               getEnvDurationOrDefault("OTP_TTL", 10*time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Accept bare integers as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
