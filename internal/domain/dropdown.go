package domain

import (
	"time"

	"github.com/google/uuid"
)

// The two managed dropdown vocabularies.
const (
	DropdownTypeDivision  = "division"
	DropdownTypePlacement = "placement"
)

func ValidDropdownType(t string) bool {
	return t == DropdownTypeDivision || t == DropdownTypePlacement
}

// Dropdown is one label/value option of a vocabulary. (type, value) is
// unique across all options; the index is the authoritative enforcement,
// service-level pre-checks only produce friendlier messages.
type Dropdown struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Type     string    `gorm:"not null;uniqueIndex:idx_dropdown_type_value" json:"type"`
	Label    string    `gorm:"not null" json:"label"`
	Value    string    `gorm:"not null;uniqueIndex:idx_dropdown_type_value" json:"value"`
	IsActive bool      `gorm:"not null" json:"isActive"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Dropdown) TableName() string { return "dropdown" }
