package utils

import (
	"os"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`
	DBTimeZone string `yaml:"DB_TIMEZONE"`

	// Server
	AppPort     string `yaml:"APP_PORT"`
	AppURL      string `yaml:"APP_URL"`
	CORSOrigins string `yaml:"CORS_ORIGINS"`
	LogFile     string `yaml:"LOG_FILE"`

	// Identity tokens
	AuthMode          string `yaml:"AUTH_MODE"`
	FirebaseProjectID string `yaml:"FIREBASE_PROJECT_ID"`
	JWTSecret         string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Gemini API configuration
	GeminiAPIKey string `yaml:"GEMINI_API_KEY"`
	GeminiModel  string `yaml:"GEMINI_MODEL"`

	// Food database and its cache
	OpenFoodFactsURL string `yaml:"OPENFOODFACTS_URL"`
	RedisAddr        string `yaml:"REDIS_ADDR"`
	RedisPassword    string `yaml:"REDIS_PASSWORD"`
	RedisDB          string `yaml:"REDIS_DB"`
}

var config Config

// LoadConfig reads .env (if present) and config.yaml. Environment
// variables win over YAML values in GetConfig.
func LoadConfig() {
	LoadConfigFrom("config.yaml")
}

func LoadConfigFrom(path string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnw("error reading .env file", "error", err)
	}

	file, err := os.ReadFile(path)
	if err != nil {
		log.Warnw("error reading YAML file, falling back to environment", "path", path, "error", err)
		return
	}

	var parsed Config
	if err := yaml.Unmarshal(file, &parsed); err != nil {
		log.Errorw("error parsing YAML file", "path", path, "error", err)
		return
	}
	config = parsed
}

// GetConfigOr returns GetConfig(key), or def when the key is unset.
func GetConfigOr(key, def string) string {
	if v := GetConfig(key); v != "" {
		return v
	}
	return def
}

func GetConfig(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_SSLMODE":
		return config.DBSSLMode
	case "DB_TIMEZONE":
		return config.DBTimeZone
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "CORS_ORIGINS":
		return config.CORSOrigins
	case "LOG_FILE":
		return config.LogFile
	case "AUTH_MODE":
		return config.AuthMode
	case "FIREBASE_PROJECT_ID":
		return config.FirebaseProjectID
	case "JWT_SECRET":
		return config.JWTSecret
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "GEMINI_API_KEY":
		return config.GeminiAPIKey
	case "GEMINI_MODEL":
		return config.GeminiModel
	case "OPENFOODFACTS_URL":
		return config.OpenFoodFactsURL
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "REDIS_DB":
		return config.RedisDB
	default:
		return ""
	}
}
