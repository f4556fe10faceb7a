package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/material-inventory-backend/internal/data/repos"
	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
)

// recentMaterialLimit caps the dashboard's recent-materials strip.
const recentMaterialLimit = 12

type DashboardStats struct {
	TotalMaterials      int64                 `json:"totalMaterials"`
	ActiveMaterials     int64                 `json:"activeMaterials"`
	TotalDivisions      int64                 `json:"totalDivisions"`
	MaterialsByDivision []repos.DivisionCount `json:"materialsByDivision"`
	RecentMaterials     []*MaterialView       `json:"recentMaterials"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	db           *gorm.DB
	log          *logger.Logger
	materialRepo repos.MaterialRepo
	dropdownRepo repos.DropdownRepo
}

func NewDashboardService(db *gorm.DB, baseLog *logger.Logger, materialRepo repos.MaterialRepo, dropdownRepo repos.DropdownRepo) DashboardService {
	return &dashboardService{
		db:           db,
		log:          baseLog.With("service", "DashboardService"),
		materialRepo: materialRepo,
		dropdownRepo: dropdownRepo,
	}
}

// Stats fans the independent aggregate queries out; the report may reflect
// concurrent mutations partially, which is acceptable for a dashboard.
func (ds *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		MaterialsByDivision: []repos.DivisionCount{},
		RecentMaterials:     []*MaterialView{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := ds.materialRepo.CountAll(gctx, nil)
		if err != nil {
			return fmt.Errorf("count materials: %w", err)
		}
		stats.TotalMaterials = total
		return nil
	})
	g.Go(func() error {
		active, err := ds.materialRepo.CountActive(gctx, nil)
		if err != nil {
			return fmt.Errorf("count active materials: %w", err)
		}
		stats.ActiveMaterials = active
		return nil
	})
	g.Go(func() error {
		divisions, err := ds.dropdownRepo.CountByType(gctx, nil, domain.DropdownTypeDivision)
		if err != nil {
			return fmt.Errorf("count divisions: %w", err)
		}
		stats.TotalDivisions = divisions
		return nil
	})
	g.Go(func() error {
		byDivision, err := ds.materialRepo.CountActiveByDivision(gctx, nil)
		if err != nil {
			return fmt.Errorf("count materials by division: %w", err)
		}
		if byDivision != nil {
			stats.MaterialsByDivision = byDivision
		}
		return nil
	})
	g.Go(func() error {
		recent, err := ds.materialRepo.Recent(gctx, nil, recentMaterialLimit)
		if err != nil {
			return fmt.Errorf("load recent materials: %w", err)
		}
		views, err := resolveMaterialViews(gctx, ds.dropdownRepo, recent)
		if err != nil {
			return err
		}
		stats.RecentMaterials = views
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
