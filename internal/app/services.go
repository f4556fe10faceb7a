package app

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/services"
	"github.com/yungbote/material-inventory-backend/internal/sessions"
	"github.com/yungbote/material-inventory-backend/internal/storage"
)

type Services struct {
	Session   services.SessionService
	Auth      services.AuthService
	Dropdown  services.DropdownService
	Material  services.MaterialService
	Image     services.ImageService
	Dashboard services.DashboardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, imageStore storage.ImageStore, sessionStore sessions.Store) (Services, error) {
	log.Info("Wiring services...")

	sessionService := services.NewSessionService(sessionStore, cfg.SessionSecretKey, cfg.SessionTTL, log)

	// Avatars are optional: without a font file, new users simply get none.
	var avatarService services.AvatarService
	if cfg.AvatarFont != "" {
		var err error
		avatarService, err = services.NewAvatarService(imageStore, cfg.AvatarFont, log)
		if err != nil {
			return Services{}, fmt.Errorf("init avatar service: %w", err)
		}
	} else {
		log.Info("AVATAR_FONT not set, skipping avatar generation")
	}

	return Services{
		Session:   sessionService,
		Auth:      services.NewAuthService(db, log, reposet.User, sessionService, avatarService),
		Dropdown:  services.NewDropdownService(db, log, reposet.Dropdown, reposet.Material),
		Material:  services.NewMaterialService(db, log, reposet.Material, reposet.Dropdown, imageStore),
		Image:     services.NewImageService(db, log, reposet.Material, reposet.Dropdown, imageStore),
		Dashboard: services.NewDashboardService(db, log, reposet.Material, reposet.Dropdown),
	}, nil
}

func wireImageStore(ctx context.Context, log *logger.Logger, cfg Config) (storage.ImageStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageDriver)) {
	case "", storage.DriverLocal:
		return storage.NewLocalStore(cfg.UploadDir, log)
	case storage.DriverMinio:
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func wireSessionStore(log *logger.Logger, cfg Config) (sessions.Store, error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, using in-memory session store")
		return sessions.NewMemoryStore(), nil
	}
	return sessions.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
}
