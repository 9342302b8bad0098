package models

import (
	"time"
)

// Recipe holds the relational metadata for a brewing recipe. The row is
// the index: the full payload (temperature, pressure, grind size and
// any free-form fields) lives in the JSON document referenced by
// FilePath. Every row has exactly one document.
type Recipe struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	AuthorID uint   `gorm:"not null"`
	FilePath string `gorm:"not null"`
	// DifficultyLevel is added by the add-difficulty-level migration;
	// the base schema creates recipes without it.
	DifficultyLevel string
	CreatedAt       time.Time

	Author User `gorm:"foreignKey:AuthorID"`
}

// DifficultyLevels lists the accepted values for Recipe.DifficultyLevel.
var DifficultyLevels = []string{"beginner", "intermediate", "expert"}

// ValidDifficulty reports whether level is one of the accepted values.
func ValidDifficulty(level string) bool {
	for _, l := range DifficultyLevels {
		if l == level {
			return true
		}
	}
	return false
}
