package app

import (
	"github.com/yungbote/material-inventory-backend/internal/http/handlers"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dropdown  *handlers.DropdownHandler
	Material  *handlers.MaterialHandler
	Dashboard *handlers.DashboardHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    handlers.NewHealthHandler(),
		Auth:      handlers.NewAuthHandler(log, serviceset.Auth, serviceset.Session),
		Dropdown:  handlers.NewDropdownHandler(log, serviceset.Dropdown),
		Material:  handlers.NewMaterialHandler(log, serviceset.Material, serviceset.Image),
		Dashboard: handlers.NewDashboardHandler(log, serviceset.Dashboard),
	}
}
