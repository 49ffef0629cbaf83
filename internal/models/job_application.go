package models

import (
	"time"

	"gorm.io/datatypes"
)

type JobApplication struct {
	BaseModel

	UserID   uint   `gorm:"not null;index:idx_applications_user_status,priority:1;index:idx_applications_user_date,priority:1"`
	Company  string `gorm:"not null"`
	Position string `gorm:"not null"`
	Location string

	ApplicationDate time.Time `gorm:"not null;index:idx_applications_user_date,priority:2,sort:desc"`
	Status          string    `gorm:"not null;default:Applied;index:idx_applications_user_status,priority:2"`

	// Deleting a CV leaves this dangling on purpose; readers resolve a
	// missing CV to null.
	CVVersionID *uint

	JobDescription string `gorm:"type:text;not null"`
	ApplicationURL string
	Notes          string `gorm:"type:text"`

	InterviewDates datatypes.JSON `gorm:"type:jsonb"`
	Salary         datatypes.JSON `gorm:"type:jsonb"`
	JobType        string         `gorm:"default:Full-Time"`
}

// IsActive reports whether the application is still in play.
func (a *JobApplication) IsActive() bool {
	return a.Status != "Rejected" && a.Status != "Withdrawn"
}
