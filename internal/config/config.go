package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Topics   TopicConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	Bucket          string
	UseSSL          bool
	UploadExpiryMin int
}

type TopicConfig struct {
	ReplyTopic string
	TitleTopic string
}

type AIConfig struct {
	GatewayBaseURL string
	GatewayAPIKey  string
	TitleModel     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
			AccessKey:       getEnv("S3_ACCESS_KEY", ""),
			SecretKey:       getEnv("S3_SECRET_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", "chat-uploads"),
			UseSSL:          getEnvAsBool("S3_USE_SSL", false),
			UploadExpiryMin: getEnvAsInt("S3_UPLOAD_EXPIRY_MINUTES", 15),
		},
		Topics: TopicConfig{
			ReplyTopic: getEnv("GENERATE_REPLY_TOPIC_NAME", "GENERATE_AI_REPLY"),
			TitleTopic: getEnv("GENERATE_TITLE_TOPIC_NAME", "GENERATE_THREAD_TITLE"),
		},
		Ai: AIConfig{
			GatewayBaseURL: getEnv("AI_GATEWAY_BASE_URL", ""),
			GatewayAPIKey:  getEnv("AI_GATEWAY_API_KEY", ""),
			TitleModel:     getEnv("AI_TITLE_MODEL", "vertex/gemini-2.0-flash-001"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
