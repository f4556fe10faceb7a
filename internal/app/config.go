package app

import (
	"time"

	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/utils"
)

type Config struct {
	Port             string
	Environment      string
	SessionSecretKey string
	SessionTTL       time.Duration
	AllowOrigins     []string

	StorageDriver string
	UploadDir     string
	AvatarFont    string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func LoadConfig(log *logger.Logger) Config {
	sessionTTLSeconds := utils.GetEnvAsInt("SESSION_TTL", 86400, log)
	return Config{
		Port:             utils.GetEnv("PORT", "5000", log),
		Environment:      utils.GetEnv("APP_ENV", "development", log),
		SessionSecretKey: utils.GetEnv("SESSION_SECRET_KEY", "defaultsecret", log),
		SessionTTL:       time.Duration(sessionTTLSeconds) * time.Second,
		AllowOrigins:     []string{utils.GetEnv("FRONTEND_URL", "http://localhost:5173", log)},

		StorageDriver: utils.GetEnv("STORAGE_DRIVER", "local", log),
		UploadDir:     utils.GetEnv("UPLOAD_DIR", "uploads", log),
		AvatarFont:    utils.GetEnv("AVATAR_FONT", "", log),

		MinioEndpoint:  utils.GetEnv("MINIO_ENDPOINT", "localhost:9000", log),
		MinioAccessKey: utils.GetEnv("MINIO_ACCESS_KEY", "", log),
		MinioSecretKey: utils.GetEnv("MINIO_SECRET_KEY", "", log),
		MinioBucket:    utils.GetEnv("MINIO_BUCKET", "material-images", log),
		MinioUseSSL:    utils.GetEnv("MINIO_USE_SSL", "false", log) == "true",

		RedisAddr:     utils.GetEnv("REDIS_ADDR", "", log),
		RedisPassword: utils.GetEnv("REDIS_PASSWORD", "", log),
		RedisDB:       utils.GetEnvAsInt("REDIS_DB", 0, log),
	}
}
