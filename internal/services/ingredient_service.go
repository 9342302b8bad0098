package services

import (
	"errors"
	"fmt"

	"github.com/brewstack/coffeecli/internal/models"
	"gorm.io/gorm"
)

type IngredientService interface {
	// GetIngredients returns every ingredient, in insertion order.
	GetIngredients() ([]models.Ingredient, error)
	// LinkIngredient attaches an ingredient to a recipe with a quantity.
	LinkIngredient(recipeID, ingredientID uint, quantity float64, unit string) error
	// GetIngredientsForRecipe returns the recipe's ingredient list with
	// quantities and units.
	GetIngredientsForRecipe(recipeID uint) ([]models.RecipeIngredientDetail, error)
}

type ingredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) IngredientService {
	return &ingredientService{db: db}
}

func (s *ingredientService) GetIngredients() ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := s.db.Order("id").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *ingredientService) LinkIngredient(recipeID, ingredientID uint, quantity float64, unit string) error {
	return linkIngredient(s.db, recipeID, ingredientID, quantity, unit)
}

// linkIngredient is the transaction-friendly form used by the recipe
// facade, which links ingredients inside the same transaction that
// creates the recipe row.
func linkIngredient(db *gorm.DB, recipeID, ingredientID uint, quantity float64, unit string) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %v", models.ErrConstraintViolation, quantity)
	}

	var recipe models.Recipe
	if err := db.Select("id").First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: recipe %d does not exist", models.ErrConstraintViolation, recipeID)
		}
		return err
	}
	var ingredient models.Ingredient
	if err := db.Select("id").First(&ingredient, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: ingredient %d does not exist", models.ErrConstraintViolation, ingredientID)
		}
		return err
	}

	link := models.RecipeIngredient{
		RecipeID:     recipeID,
		IngredientID: ingredientID,
		Quantity:     quantity,
		Unit:         unit,
	}
	if err := db.Create(&link).Error; err != nil {
		return fmt.Errorf("%w: linking ingredient %d to recipe %d: %v", models.ErrConstraintViolation, ingredientID, recipeID, err)
	}
	return nil
}

func (s *ingredientService) GetIngredientsForRecipe(recipeID uint) ([]models.RecipeIngredientDetail, error) {
	var details []models.RecipeIngredientDetail
	err := s.db.Table("recipe_ingredients").
		Select("recipe_ingredients.ingredient_id, ingredients.name, ingredients.type, ingredients.origin, ingredients.roast_level, recipe_ingredients.quantity, recipe_ingredients.unit").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id = ?", recipeID).
		Order("recipe_ingredients.ingredient_id").
		Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}
