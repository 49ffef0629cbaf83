package models

import (
	"time"

	"gorm.io/datatypes"
)

// CV is a point-in-time copy of the owner's profile. ProfileSnapshot is
// written once at creation and never touched afterwards, so later profile
// edits cannot leak into an already generated version.
type CV struct {
	BaseModel

	UserID      uint   `gorm:"not null;index"`
	VersionName string `gorm:"not null"`
	Description string

	GeneratedDate   time.Time      `gorm:"not null"`
	LatexCode       string         `gorm:"type:text"`
	ProfileSnapshot datatypes.JSON `gorm:"type:jsonb"`
	UsageCount      int            `gorm:"not null;default:0"`
}
