package models

import "time"

// RefreshToken holds the sha256 hash of an issued refresh token. The raw
// value only ever lives in the client's httpOnly cookie.
type RefreshToken struct {
	BaseModel

	TokenHash string    `gorm:"uniqueIndex;not null"`
	UserID    uint      `gorm:"not null;index"`
	IsValid   bool      `gorm:"not null;default:true"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
