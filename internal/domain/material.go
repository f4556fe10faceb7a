package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MaxImagesPerMaterial caps the owned image list.
const MaxImagesPerMaterial = 5

// MaterialImage is an owned sub-document of a Material. It has no lifecycle
// of its own: every mutation goes through the owning material's update path.
type MaterialImage struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	IsPrimary bool      `json:"isPrimary"`
}

type Material struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MaterialName   string    `gorm:"not null" json:"materialName"`
	MaterialNumber string    `gorm:"uniqueIndex;not null" json:"materialNumber"`
	DivisionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"divisionId"`
	PlacementID    uuid.UUID `gorm:"type:uuid;not null;index" json:"placementId"`
	Function       string    `json:"function,omitempty"`

	// Stored as one JSONB column so every image mutation is a single row
	// update; the single-primary and max-5 invariants hold within that
	// update.
	Images datatypes.JSONType[[]MaterialImage] `gorm:"type:jsonb" json:"images"`

	// No column default: the create path sets it, and a default would
	// silently re-enable rows written with IsActive=false.
	IsActive bool `gorm:"not null" json:"isActive"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Material) TableName() string { return "material" }

// ImageList returns the decoded image list, never nil.
func (m *Material) ImageList() []MaterialImage {
	imgs := m.Images.Data()
	if imgs == nil {
		return []MaterialImage{}
	}
	return imgs
}

// SetImageList replaces the owned image list.
func (m *Material) SetImageList(imgs []MaterialImage) {
	if imgs == nil {
		imgs = []MaterialImage{}
	}
	m.Images = datatypes.NewJSONType(imgs)
}
