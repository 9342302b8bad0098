package models

import (
	"time"
)

type Review struct {
	ID        uint `gorm:"primaryKey"`
	RecipeID  uint `gorm:"not null;index"`
	UserID    uint `gorm:"not null"`
	Rating    int  `gorm:"not null"` // 1-5, enforced by the review service
	Comment   string
	CreatedAt time.Time
}
