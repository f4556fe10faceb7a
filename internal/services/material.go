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
	"github.com/yungbote/material-inventory-backend/internal/storage"
)

// DropdownRef is the resolved shape of a referenced dropdown option.
type DropdownRef struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Value string    `json:"value"`
}

// MaterialView is a material with its division and placement resolved.
type MaterialView struct {
	domain.Material
	Division  *DropdownRef `json:"division,omitempty"`
	Placement *DropdownRef `json:"placement,omitempty"`
}

type MaterialPage struct {
	Materials  []*MaterialView `json:"materials"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}

type MaterialCreateInput struct {
	MaterialName   string
	MaterialNumber string
	DivisionID     uuid.UUID
	PlacementID    uuid.UUID
	Function       string
}

// MaterialUpdateInput carries a partial update; nil fields are untouched.
type MaterialUpdateInput struct {
	MaterialName   *string
	MaterialNumber *string
	DivisionID     *uuid.UUID
	PlacementID    *uuid.UUID
	Function       *string
}

type MaterialService interface {
	List(ctx context.Context, filter repos.ListFilter) (*MaterialPage, error)
	Get(ctx context.Context, id uuid.UUID) (*MaterialView, error)
	Create(ctx context.Context, input MaterialCreateInput) (*MaterialView, error)
	Update(ctx context.Context, id uuid.UUID, input MaterialUpdateInput) (*MaterialView, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*MaterialView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type materialService struct {
	db           *gorm.DB
	log          *logger.Logger
	materialRepo repos.MaterialRepo
	dropdownRepo repos.DropdownRepo
	imageStore   storage.ImageStore
}

func NewMaterialService(db *gorm.DB, baseLog *logger.Logger, materialRepo repos.MaterialRepo, dropdownRepo repos.DropdownRepo, imageStore storage.ImageStore) MaterialService {
	return &materialService{
		db:           db,
		log:          baseLog.With("service", "MaterialService"),
		materialRepo: materialRepo,
		dropdownRepo: dropdownRepo,
		imageStore:   imageStore,
	}
}

func (ms *materialService) List(ctx context.Context, filter repos.ListFilter) (*MaterialPage, error) {
	materials, total, err := ms.materialRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}

	views, err := resolveMaterialViews(ctx, ms.dropdownRepo, materials)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &MaterialPage{
		Materials:  views,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (ms *materialService) Get(ctx context.Context, id uuid.UUID) (*MaterialView, error) {
	material, err := ms.materialRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load material: %w", err)
	}
	if material == nil {
		return nil, apierr.NotFound("Material not found")
	}
	return ms.resolveOne(ctx, material)
}

func (ms *materialService) Create(ctx context.Context, input MaterialCreateInput) (*MaterialView, error) {
	input.MaterialName = strings.TrimSpace(input.MaterialName)
	input.MaterialNumber = strings.TrimSpace(input.MaterialNumber)
	if input.MaterialName == "" || input.MaterialNumber == "" ||
		input.DivisionID == uuid.Nil || input.PlacementID == uuid.Nil {
		return nil, apierr.InvalidArgument("Please provide all required fields")
	}

	existing, err := ms.materialRepo.FindByNumber(ctx, nil, input.MaterialNumber, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check existing number: %w", err)
	}
	if existing != nil {
		return nil, apierr.Conflict("Material number already exists")
	}

	if err := ms.validateDropdownRef(ctx, nil, input.DivisionID, domain.DropdownTypeDivision); err != nil {
		return nil, err
	}
	if err := ms.validateDropdownRef(ctx, nil, input.PlacementID, domain.DropdownTypePlacement); err != nil {
		return nil, err
	}

	material := &domain.Material{
		ID:             uuid.New(),
		MaterialName:   input.MaterialName,
		MaterialNumber: input.MaterialNumber,
		DivisionID:     input.DivisionID,
		PlacementID:    input.PlacementID,
		Function:       strings.TrimSpace(input.Function),
		IsActive:       true,
	}
	material.SetImageList(nil)

	if err := ms.materialRepo.Create(ctx, nil, material); err != nil {
		if repos.IsDuplicate(err) {
			return nil, apierr.Conflict("Material number already exists")
		}
		return nil, fmt.Errorf("create material: %w", err)
	}
	ms.log.Info("Material created", "name", material.MaterialName, "number", material.MaterialNumber)
	return ms.resolveOne(ctx, material)
}

func (ms *materialService) Update(ctx context.Context, id uuid.UUID, input MaterialUpdateInput) (*MaterialView, error) {
	var updated *domain.Material
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		material, err := ms.materialRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("load material: %w", err)
		}
		if material == nil {
			return apierr.NotFound("Material not found")
		}

		if input.MaterialNumber != nil {
			number := strings.TrimSpace(*input.MaterialNumber)
			if number != "" && number != material.MaterialNumber {
				existing, err := ms.materialRepo.FindByNumber(ctx, tx, number, material.ID)
				if err != nil {
					return fmt.Errorf("check existing number: %w", err)
				}
				if existing != nil {
					return apierr.Conflict("Material number already exists")
				}
				material.MaterialNumber = number
			}
		}
		if input.MaterialName != nil {
			if name := strings.TrimSpace(*input.MaterialName); name != "" {
				material.MaterialName = name
			}
		}
		if input.DivisionID != nil && *input.DivisionID != uuid.Nil {
			if err := ms.validateDropdownRef(ctx, tx, *input.DivisionID, domain.DropdownTypeDivision); err != nil {
				return err
			}
			material.DivisionID = *input.DivisionID
		}
		if input.PlacementID != nil && *input.PlacementID != uuid.Nil {
			if err := ms.validateDropdownRef(ctx, tx, *input.PlacementID, domain.DropdownTypePlacement); err != nil {
				return err
			}
			material.PlacementID = *input.PlacementID
		}
		if input.Function != nil {
			material.Function = strings.TrimSpace(*input.Function)
		}

		if err := ms.materialRepo.Save(ctx, tx, material); err != nil {
			if repos.IsDuplicate(err) {
				return apierr.Conflict("Material number already exists")
			}
			return fmt.Errorf("save material: %w", err)
		}
		updated = material
		return nil
	})
	if err != nil {
		return nil, err
	}
	ms.log.Info("Material updated", "name", updated.MaterialName)
	return ms.resolveOne(ctx, updated)
}

func (ms *materialService) ToggleActive(ctx context.Context, id uuid.UUID) (*MaterialView, error) {
	var updated *domain.Material
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		material, err := ms.materialRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("load material: %w", err)
		}
		if material == nil {
			return apierr.NotFound("Material not found")
		}
		material.IsActive = !material.IsActive
		if err := ms.materialRepo.Save(ctx, tx, material); err != nil {
			return fmt.Errorf("save material: %w", err)
		}
		updated = material
		return nil
	})
	if err != nil {
		return nil, err
	}
	ms.log.Info("Material status toggled", "name", updated.MaterialName, "active", updated.IsActive)
	return ms.resolveOne(ctx, updated)
}

// Delete hard-deletes the record, then removes the backing files. File
// removal failures are logged, never fatal: an orphaned file is recoverable,
// a record pointing at a deleted row is not.
func (ms *materialService) Delete(ctx context.Context, id uuid.UUID) error {
	material, err := ms.materialRepo.GetByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("load material: %w", err)
	}
	if material == nil {
		return apierr.NotFound("Material not found")
	}

	if err := ms.materialRepo.Delete(ctx, nil, material.ID); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}

	for _, img := range material.ImageList() {
		if err := ms.imageStore.Delete(ctx, img.URL); err != nil {
			ms.log.Warn("Failed to delete image file (orphaned, flag for cleanup)", "url", img.URL, "error", err)
		}
	}
	ms.log.Info("Material deleted", "name", material.MaterialName)
	return nil
}

func (ms *materialService) validateDropdownRef(ctx context.Context, tx *gorm.DB, id uuid.UUID, dropdownType string) error {
	option, err := ms.dropdownRepo.GetByID(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("load %s option: %w", dropdownType, err)
	}
	if option == nil || option.Type != dropdownType {
		return apierr.InvalidArgument("%sId must reference an existing %s option", dropdownType, dropdownType)
	}
	return nil
}

func (ms *materialService) resolveOne(ctx context.Context, material *domain.Material) (*MaterialView, error) {
	views, err := resolveMaterialViews(ctx, ms.dropdownRepo, []*domain.Material{material})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// resolveMaterialViews batch-loads the referenced dropdown options and
// attaches them. A dangling reference resolves to a nil ref rather than an
// error; listing must not break on it.
func resolveMaterialViews(ctx context.Context, dropdownRepo repos.DropdownRepo, materials []*domain.Material) ([]*MaterialView, error) {
	idSet := make(map[uuid.UUID]struct{}, len(materials)*2)
	for _, m := range materials {
		idSet[m.DivisionID] = struct{}{}
		idSet[m.PlacementID] = struct{}{}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	options, err := dropdownRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve dropdown refs: %w", err)
	}
	refs := make(map[uuid.UUID]*DropdownRef, len(options))
	for _, option := range options {
		refs[option.ID] = &DropdownRef{ID: option.ID, Label: option.Label, Value: option.Value}
	}

	views := make([]*MaterialView, len(materials))
	for i, m := range materials {
		views[i] = &MaterialView{
			Material:  *m,
			Division:  refs[m.DivisionID],
			Placement: refs[m.PlacementID],
		}
	}
	return views, nil
}
