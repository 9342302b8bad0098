package models

import (
	"time"
)

type Ingredient struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Type       string `gorm:"not null"` // "bean", "additive", ...
	Origin     string
	RoastLevel string
	CreatedAt  time.Time
}

// RecipeIngredient links a recipe to an ingredient with a quantity.
type RecipeIngredient struct {
	RecipeID     uint    `gorm:"primaryKey"`
	IngredientID uint    `gorm:"primaryKey"`
	Quantity     float64 `gorm:"not null"`
	Unit         string  `gorm:"not null"` // "g", "ml", ...
	CreatedAt    time.Time

	Ingredient Ingredient `gorm:"foreignKey:IngredientID"`
}

// RecipeIngredientDetail is the read shape for a recipe's ingredient
// list: the ingredient row joined with its quantity and unit.
type RecipeIngredientDetail struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Origin       string  `json:"origin,omitempty"`
	RoastLevel   string  `json:"roast_level,omitempty"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}
