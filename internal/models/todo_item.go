package models

import (
	"time"

	"gorm.io/datatypes"
)

type TodoItem struct {
	BaseModel

	UserID      uint   `gorm:"not null;index:idx_todos_user_status,priority:1;index:idx_todos_user_category,priority:1"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`

	Category string `gorm:"not null;default:General;index:idx_todos_user_category,priority:2"`
	Priority string `gorm:"not null;default:Medium"`
	Status   string `gorm:"not null;default:Todo;index:idx_todos_user_status,priority:2"`

	RelatedSkill         string
	RelatedApplicationID *uint

	DueDate       *time.Time
	CompletedDate *time.Time
	Progress      int `gorm:"not null;default:0"`

	Resources datatypes.JSON `gorm:"type:jsonb"`
}
