package migrations

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/brewstack/coffeecli/internal/documents"
	"github.com/brewstack/coffeecli/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Revision ids, in chain order.
const (
	RevAddDifficultyLevel   = "add-difficulty-level"
	RevNormalizeTemperature = "normalize-temperature"
	RevAddIngredientTables  = "add-ingredient-tables"
)

// Chain returns the full migration chain, root first.
func Chain() []Migration {
	return []Migration{
		{
			ID:        RevAddDifficultyLevel,
			Parent:    "",
			Upgrade:   upgradeAddDifficultyLevel,
			Downgrade: downgradeAddDifficultyLevel,
		},
		{
			ID:        RevNormalizeTemperature,
			Parent:    RevAddDifficultyLevel,
			Upgrade:   upgradeNormalizeTemperature,
			Downgrade: downgradeNormalizeTemperature,
		},
		{
			ID:        RevAddIngredientTables,
			Parent:    RevNormalizeTemperature,
			Upgrade:   upgradeAddIngredientTables,
			Downgrade: downgradeAddIngredientTables,
		},
	}
}

// --- add-difficulty-level ------------------------------------------------

// recipeNullableDifficulty pins the recipes table with the new column
// still nullable, for the add step.
type recipeNullableDifficulty struct {
	DifficultyLevel *string
}

func (recipeNullableDifficulty) TableName() string { return "recipes" }

// recipeRequiredDifficulty pins the tightened shape for AlterColumn.
type recipeRequiredDifficulty struct {
	DifficultyLevel string `gorm:"not null"`
}

func (recipeRequiredDifficulty) TableName() string { return "recipes" }

// upgradeAddDifficultyLevel adds difficulty_level as nullable, backs
// existing rows up to "intermediate", verifies no NULLs remain and then
// tightens the column to NOT NULL. The verification makes a skipped or
// partial backfill fail loudly instead of constraining a table that
// still holds NULLs.
func upgradeAddDifficultyLevel(tx *gorm.DB, _ *documents.Store) error {
	if err := tx.Migrator().AddColumn(&recipeNullableDifficulty{}, "DifficultyLevel"); err != nil {
		return fmt.Errorf("adding difficulty_level column: %w", err)
	}

	res := tx.Table("recipes").
		Where("difficulty_level IS NULL").
		Update("difficulty_level", "intermediate")
	if res.Error != nil {
		return fmt.Errorf("backfilling difficulty_level: %w", res.Error)
	}
	log.WithField("rows", res.RowsAffected).Info("Backfilled difficulty_level")

	var remaining int64
	if err := tx.Table("recipes").Where("difficulty_level IS NULL").Count(&remaining).Error; err != nil {
		return fmt.Errorf("verifying backfill: %w", err)
	}
	if remaining > 0 {
		return fmt.Errorf("%d recipes still have NULL difficulty_level after backfill", remaining)
	}

	if err := tx.Migrator().AlterColumn(&recipeRequiredDifficulty{}, "DifficultyLevel"); err != nil {
		return fmt.Errorf("tightening difficulty_level to NOT NULL: %w", err)
	}
	return nil
}

func downgradeAddDifficultyLevel(tx *gorm.DB, _ *documents.Store) error {
	if err := tx.Migrator().DropColumn(&recipeNullableDifficulty{}, "DifficultyLevel"); err != nil {
		return fmt.Errorf("dropping difficulty_level column: %w", err)
	}
	return nil
}

// --- normalize-temperature -----------------------------------------------

// upgradeNormalizeTemperature rewrites every recipe document, replacing
// the numeric temperature with a fixed-2-decimal string. Rounding works
// on the decimal literal from the document (half away from zero), never
// on a binary float, so 92.455 becomes "92.46" and 92.5 becomes
// "92.50". Documents without a temperature key are left untouched.
func upgradeNormalizeTemperature(_ *gorm.DB, docs *documents.Store) error {
	return docs.RewriteAll(func(doc map[string]interface{}) (map[string]interface{}, bool, error) {
		raw, ok := doc["temperature"]
		if !ok {
			return doc, false, nil
		}
		num, ok := raw.(json.Number)
		if !ok {
			// Already a string, or some shape this step does not own.
			return doc, false, nil
		}
		d, err := decimal.NewFromString(num.String())
		if err != nil {
			return nil, false, fmt.Errorf("temperature %q is not numeric: %w", num.String(), err)
		}
		doc["temperature"] = d.StringFixed(2)
		return doc, true, nil
	})
}

// downgradeNormalizeTemperature parses the temperature string back to a
// float, dropping the fixed-precision guarantee.
func downgradeNormalizeTemperature(_ *gorm.DB, docs *documents.Store) error {
	return docs.RewriteAll(func(doc map[string]interface{}) (map[string]interface{}, bool, error) {
		str, ok := doc["temperature"].(string)
		if !ok {
			return doc, false, nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, false, fmt.Errorf("temperature %q is not parseable: %w", str, err)
		}
		doc["temperature"] = f
		return doc, true, nil
	})
}

// --- add-ingredient-tables -----------------------------------------------

var baselineIngredients = []models.Ingredient{
	{Name: "Arábica Colombia", Type: "bean", Origin: "Colombia", RoastLevel: "medium"},
	{Name: "Robusta Vietnam", Type: "bean", Origin: "Vietnam", RoastLevel: "dark"},
	{Name: "Arábica Ethiopia", Type: "bean", Origin: "Ethiopia", RoastLevel: "light"},
}

func upgradeAddIngredientTables(tx *gorm.DB, _ *documents.Store) error {
	if err := tx.Migrator().CreateTable(&models.Ingredient{}, &models.RecipeIngredient{}); err != nil {
		return fmt.Errorf("creating ingredient tables: %w", err)
	}

	seed := make([]models.Ingredient, len(baselineIngredients))
	copy(seed, baselineIngredients)
	if err := tx.Create(&seed).Error; err != nil {
		return fmt.Errorf("seeding baseline ingredients: %w", err)
	}
	log.WithField("count", len(seed)).Info("Seeded baseline ingredients")
	return nil
}

// downgradeAddIngredientTables drops both tables. The seed rows are
// re-derivable from the baseline list, so the loss is acceptable.
func downgradeAddIngredientTables(tx *gorm.DB, _ *documents.Store) error {
	if err := tx.Migrator().DropTable(&models.RecipeIngredient{}, &models.Ingredient{}); err != nil {
		return fmt.Errorf("dropping ingredient tables: %w", err)
	}
	return nil
}
