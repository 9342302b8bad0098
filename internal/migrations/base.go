package migrations

import (
	"fmt"
	"time"

	"github.com/brewstack/coffeecli/internal/models"
	"gorm.io/gorm"
)

// The base schema predates the migration chain: users, recipes (without
// difficulty_level, which the first migration owns), reviews, and the
// revision-tracking table. The structs below pin the recipes table to
// its pre-migration shape; AutoMigrate never drops columns, so running
// EnsureBaseSchema against an upgraded store is a no-op.

type baseRecipe struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	AuthorID  uint   `gorm:"not null"`
	FilePath  string `gorm:"not null"`
	CreatedAt time.Time
}

func (baseRecipe) TableName() string { return "recipes" }

// EnsureBaseSchema creates the pre-migration tables if they are absent.
func EnsureBaseSchema(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&baseRecipe{},
		&models.Review{},
		&models.SchemaRevision{},
	)
	if err != nil {
		return fmt.Errorf("creating base schema: %w", err)
	}
	return nil
}
