package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/material-inventory-backend/internal/data/repos"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
)

type Repos struct {
	User     repos.UserRepo
	Dropdown repos.DropdownRepo
	Material repos.MaterialRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Dropdown: repos.NewDropdownRepo(db, log),
		Material: repos.NewMaterialRepo(db, log),
	}
}
