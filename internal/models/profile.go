package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile stores each nested section as a JSON column. The typed section
// structs live in internal/types.
type Profile struct {
	BaseModel

	UserID uint `gorm:"uniqueIndex;not null"`

	PersonalInfo   datatypes.JSON `gorm:"type:jsonb"`
	Education      datatypes.JSON `gorm:"type:jsonb"`
	WorkExperience datatypes.JSON `gorm:"type:jsonb"`
	Projects       datatypes.JSON `gorm:"type:jsonb"`
	Skills         datatypes.JSON `gorm:"type:jsonb"`
	Certifications datatypes.JSON `gorm:"type:jsonb"`
	Languages      datatypes.JSON `gorm:"type:jsonb"`

	Completeness int `gorm:"not null;default:0"`
	LastUpdated  time.Time
}
