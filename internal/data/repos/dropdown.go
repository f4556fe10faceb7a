package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
)

type DropdownRepo interface {
	Create(ctx context.Context, tx *gorm.DB, option *domain.Dropdown) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Dropdown, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Dropdown, error)
	ListByType(ctx context.Context, tx *gorm.DB, dropdownType string, activeOnly bool) ([]*domain.Dropdown, error)
	FindByTypeValue(ctx context.Context, tx *gorm.DB, dropdownType, value string, excludeID uuid.UUID) (*domain.Dropdown, error)
	Save(ctx context.Context, tx *gorm.DB, option *domain.Dropdown) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountByType(ctx context.Context, tx *gorm.DB, dropdownType string) (int64, error)
}

type dropdownRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDropdownRepo(db *gorm.DB, baseLog *logger.Logger) DropdownRepo {
	return &dropdownRepo{db: db, log: baseLog.With("repo", "DropdownRepo")}
}

func (r *dropdownRepo) Create(ctx context.Context, tx *gorm.DB, option *domain.Dropdown) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(option).Error
}

func (r *dropdownRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Dropdown, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var option domain.Dropdown
	if err := transaction.WithContext(ctx).First(&option, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

func (r *dropdownRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Dropdown, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.Dropdown
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dropdownRepo) ListByType(ctx context.Context, tx *gorm.DB, dropdownType string, activeOnly bool) ([]*domain.Dropdown, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).Where("type = ?", dropdownType)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var results []*domain.Dropdown
	if err := query.Order("label ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dropdownRepo) FindByTypeValue(ctx context.Context, tx *gorm.DB, dropdownType, value string, excludeID uuid.UUID) (*domain.Dropdown, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Where("type = ? AND value = ?", dropdownType, value)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var option domain.Dropdown
	if err := query.First(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

func (r *dropdownRepo) Save(ctx context.Context, tx *gorm.DB, option *domain.Dropdown) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(option).Error
}

func (r *dropdownRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&domain.Dropdown{}, "id = ?", id).Error
}

func (r *dropdownRepo) CountByType(ctx context.Context, tx *gorm.DB, dropdownType string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Dropdown{}).
		Where("type = ?", dropdownType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
