package app

import (
	"strings"

	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/material-inventory-backend/internal/http"
	"github.com/yungbote/material-inventory-backend/internal/storage"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	serveUploads := strings.ToLower(strings.TrimSpace(cfg.StorageDriver)) != storage.DriverMinio
	return apphttp.NewRouter(apphttp.RouterConfig{
		ServiceName:      "material-inventory-backend",
		AllowOrigins:     cfg.AllowOrigins,
		UploadDir:        cfg.UploadDir,
		ServeUploads:     serveUploads,
		HealthHandler:    handlerset.Health,
		AuthHandler:      handlerset.Auth,
		DropdownHandler:  handlerset.Dropdown,
		MaterialHandler:  handlerset.Material,
		DashboardHandler: handlerset.Dashboard,
		AuthMiddleware:   middlewareset.Auth,
	})
}
