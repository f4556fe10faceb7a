package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/material-inventory-backend/internal/data/repos"
	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/platform/apierr"
)

// DropdownOptions groups both vocabularies for the combined endpoint.
type DropdownOptions struct {
	Divisions  []*domain.Dropdown `json:"divisions"`
	Placements []*domain.Dropdown `json:"placements"`
}

type DropdownService interface {
	ListByType(ctx context.Context, dropdownType string) ([]*domain.Dropdown, error)
	ListAll(ctx context.Context) (*DropdownOptions, error)
	Create(ctx context.Context, dropdownType, label, value string) (*domain.Dropdown, error)
	Update(ctx context.Context, id uuid.UUID, label, value string) (*domain.Dropdown, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type dropdownService struct {
	db           *gorm.DB
	log          *logger.Logger
	dropdownRepo repos.DropdownRepo
	materialRepo repos.MaterialRepo
}

func NewDropdownService(db *gorm.DB, baseLog *logger.Logger, dropdownRepo repos.DropdownRepo, materialRepo repos.MaterialRepo) DropdownService {
	return &dropdownService{
		db:           db,
		log:          baseLog.With("service", "DropdownService"),
		dropdownRepo: dropdownRepo,
		materialRepo: materialRepo,
	}
}

func (ds *dropdownService) ListByType(ctx context.Context, dropdownType string) ([]*domain.Dropdown, error) {
	if !domain.ValidDropdownType(dropdownType) {
		return nil, apierr.InvalidArgument(`Type must be "division" or "placement"`)
	}
	options, err := ds.dropdownRepo.ListByType(ctx, nil, dropdownType, true)
	if err != nil {
		return nil, fmt.Errorf("list dropdowns: %w", err)
	}
	return options, nil
}

func (ds *dropdownService) ListAll(ctx context.Context) (*DropdownOptions, error) {
	divisions, err := ds.dropdownRepo.ListByType(ctx, nil, domain.DropdownTypeDivision, true)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	placements, err := ds.dropdownRepo.ListByType(ctx, nil, domain.DropdownTypePlacement, true)
	if err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}
	return &DropdownOptions{Divisions: divisions, Placements: placements}, nil
}

func (ds *dropdownService) Create(ctx context.Context, dropdownType, label, value string) (*domain.Dropdown, error) {
	dropdownType = strings.TrimSpace(dropdownType)
	label = strings.TrimSpace(label)
	value = strings.TrimSpace(value)
	if dropdownType == "" || label == "" || value == "" {
		return nil, apierr.InvalidArgument("Please provide type, label, and value")
	}
	if !domain.ValidDropdownType(dropdownType) {
		return nil, apierr.InvalidArgument(`Type must be "division" or "placement"`)
	}

	existing, err := ds.dropdownRepo.FindByTypeValue(ctx, nil, dropdownType, value, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check existing dropdown: %w", err)
	}
	if existing != nil {
		return nil, apierr.Conflict("%s with value %q already exists", dropdownType, value)
	}

	option := &domain.Dropdown{
		ID:       uuid.New(),
		Type:     dropdownType,
		Label:    label,
		Value:    value,
		IsActive: true,
	}
	if err := ds.dropdownRepo.Create(ctx, nil, option); err != nil {
		if repos.IsDuplicate(err) {
			return nil, apierr.Conflict("%s with value %q already exists", dropdownType, value)
		}
		return nil, fmt.Errorf("create dropdown: %w", err)
	}
	ds.log.Info("Dropdown created", "label", option.Label, "type", option.Type)
	return option, nil
}

// Update changes label and/or value; an empty argument leaves the field
// untouched. A value change re-checks uniqueness within the type.
func (ds *dropdownService) Update(ctx context.Context, id uuid.UUID, label, value string) (*domain.Dropdown, error) {
	label = strings.TrimSpace(label)
	value = strings.TrimSpace(value)

	var updated *domain.Dropdown
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		option, err := ds.dropdownRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("load dropdown: %w", err)
		}
		if option == nil {
			return apierr.NotFound("Dropdown not found")
		}

		if value != "" && value != option.Value {
			existing, err := ds.dropdownRepo.FindByTypeValue(ctx, tx, option.Type, value, option.ID)
			if err != nil {
				return fmt.Errorf("check existing dropdown: %w", err)
			}
			if existing != nil {
				return apierr.Conflict("%s with value %q already exists", option.Type, value)
			}
			option.Value = value
		}
		if label != "" {
			option.Label = label
		}

		if err := ds.dropdownRepo.Save(ctx, tx, option); err != nil {
			if repos.IsDuplicate(err) {
				return apierr.Conflict("%s with value %q already exists", option.Type, value)
			}
			return fmt.Errorf("save dropdown: %w", err)
		}
		updated = option
		return nil
	})
	if err != nil {
		return nil, err
	}
	ds.log.Info("Dropdown updated", "label", updated.Label)
	return updated, nil
}

// Delete removes an option unless any material still references it.
func (ds *dropdownService) Delete(ctx context.Context, id uuid.UUID) error {
	option, err := ds.dropdownRepo.GetByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("load dropdown: %w", err)
	}
	if option == nil {
		return apierr.NotFound("Dropdown not found")
	}

	count, err := ds.materialRepo.CountByDropdown(ctx, nil, option.ID, option.Type)
	if err != nil {
		return fmt.Errorf("count referencing materials: %w", err)
	}
	if count > 0 {
		field := "divisionId"
		if option.Type == domain.DropdownTypePlacement {
			field = "placementId"
		}
		return apierr.Conflict("Cannot delete. This %s is used by %d material(s) via %s", option.Type, count, field)
	}

	if err := ds.dropdownRepo.Delete(ctx, nil, option.ID); err != nil {
		return fmt.Errorf("delete dropdown: %w", err)
	}
	ds.log.Info("Dropdown deleted", "label", option.Label)
	return nil
}
