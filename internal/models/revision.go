package models

import (
	"time"
)

// SchemaRevision records the migration revision currently applied to
// the store. The table holds at most one row; an empty table means the
// base schema with no migrations applied.
type SchemaRevision struct {
	ID        uint   `gorm:"primaryKey"`
	Revision  string `gorm:"not null"`
	UpdatedAt time.Time
}
