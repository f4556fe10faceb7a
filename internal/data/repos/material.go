package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
)

// ListFilter narrows a material listing. Zero values mean "no filter";
// inactive materials are intentionally included.
type ListFilter struct {
	Search      string
	DivisionID  uuid.UUID
	PlacementID uuid.UUID
	Page        int
	Limit       int
}

// DivisionCount is one row of the dashboard's per-division breakdown.
type DivisionCount struct {
	Division string `json:"division"`
	Count    int64  `json:"count"`
}

type MaterialRepo interface {
	Create(ctx context.Context, tx *gorm.DB, material *domain.Material) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Material, error)
	FindByNumber(ctx context.Context, tx *gorm.DB, number string, excludeID uuid.UUID) (*domain.Material, error)
	Save(ctx context.Context, tx *gorm.DB, material *domain.Material) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*domain.Material, int64, error)
	CountByDropdown(ctx context.Context, tx *gorm.DB, dropdownID uuid.UUID, dropdownType string) (int64, error)
	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
	CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
	CountActiveByDivision(ctx context.Context, tx *gorm.DB) ([]DivisionCount, error)
	Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.Material, error)
}

type materialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMaterialRepo(db *gorm.DB, baseLog *logger.Logger) MaterialRepo {
	return &materialRepo{db: db, log: baseLog.With("repo", "MaterialRepo")}
}

func (r *materialRepo) Create(ctx context.Context, tx *gorm.DB, material *domain.Material) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(material).Error
}

func (r *materialRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Material, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var material domain.Material
	if err := transaction.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) FindByNumber(ctx context.Context, tx *gorm.DB, number string, excludeID uuid.UUID) (*domain.Material, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).Where("material_number = ?", number)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var material domain.Material
	if err := query.First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) Save(ctx context.Context, tx *gorm.DB, material *domain.Material) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(material).Error
}

func (r *materialRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&domain.Material{}, "id = ?", id).Error
}

func (r *materialRepo) List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*domain.Material, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&domain.Material{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(material_name) LIKE ? OR LOWER(material_number) LIKE ?", pattern, pattern)
	}
	if filter.DivisionID != uuid.Nil {
		query = query.Where("division_id = ?", filter.DivisionID)
	}
	if filter.PlacementID != uuid.Nil {
		query = query.Where("placement_id = ?", filter.PlacementID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var results []*domain.Material
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *materialRepo) CountByDropdown(ctx context.Context, tx *gorm.DB, dropdownID uuid.UUID, dropdownType string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	column := "division_id"
	if dropdownType == domain.DropdownTypePlacement {
		column = "placement_id"
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Material{}).
		Where(column+" = ?", dropdownID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *materialRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&domain.Material{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *materialRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Material{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *materialRepo) CountActiveByDivision(ctx context.Context, tx *gorm.DB) ([]DivisionCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []DivisionCount
	if err := transaction.WithContext(ctx).
		Table("material").
		Select("dropdown.label AS division, COUNT(*) AS count").
		Joins("JOIN dropdown ON dropdown.id = material.division_id").
		Where("material.is_active = ?", true).
		Group("dropdown.label").
		Order("count DESC, division ASC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *materialRepo) Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.Material, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.Material
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
