// Package services implements the entity-store operations and the
// recipe facade that external callers (the CLI, tests) go through. The
// facade is the only place that touches both stores for one operation:
// the document store holds the recipe payload, the relational store
// holds the row that indexes it.
package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brewstack/coffeecli/internal/documents"
	"github.com/brewstack/coffeecli/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// IngredientLink names an ingredient usage extracted from a recipe
// payload before the payload is written to the document store.
type IngredientLink struct {
	IngredientID uint
	Quantity     float64
	Unit         string
}

type RecipeService interface {
	// CreateRecipe writes the payload to the document store, indexes it
	// with a recipe row, and links any ingredients listed in the
	// payload's "ingredients" key. Returns the new recipe id.
	CreateRecipe(payload map[string]interface{}, authorID uint) (uint, error)
	// GetRecipe returns the merged recipe record, or (nil, nil) when no
	// recipe has that id.
	GetRecipe(id uint) (map[string]interface{}, error)
}

type recipeService struct {
	db          *gorm.DB
	docs        *documents.Store
	ingredients IngredientService
	reviews     ReviewService
}

func NewRecipeService(db *gorm.DB, docs *documents.Store, ingredients IngredientService, reviews ReviewService) RecipeService {
	return &recipeService{
		db:          db,
		docs:        docs,
		ingredients: ingredients,
		reviews:     reviews,
	}
}

// CreateRecipe writes the document first and the row second. The two
// stores share no transaction: if the row insert fails the document is
// already on disk, and removal is a logged best-effort step, not a
// guarantee.
func (s *recipeService) CreateRecipe(payload map[string]interface{}, authorID uint) (uint, error) {
	name, _ := payload["name"].(string)
	if name == "" {
		return 0, fmt.Errorf("%w: recipe name is required", models.ErrValidation)
	}
	difficulty, _ := payload["difficulty_level"].(string)
	if !models.ValidDifficulty(difficulty) {
		return 0, fmt.Errorf("%w: difficulty_level must be one of %v, got %q", models.ErrValidation, models.DifficultyLevels, difficulty)
	}

	var author models.User
	if err := s.db.Select("id").First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: author %d does not exist", models.ErrConstraintViolation, authorID)
		}
		return 0, err
	}

	links, err := extractIngredientLinks(payload)
	if err != nil {
		return 0, err
	}

	doc := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if k == "ingredients" {
			continue
		}
		doc[k] = v
	}

	filePath, err := s.docs.Save(doc)
	if err != nil {
		return 0, err
	}

	recipe := models.Recipe{
		Name:            name,
		AuthorID:        authorID,
		FilePath:        filePath,
		DifficultyLevel: difficulty,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		for _, l := range links {
			if err := linkIngredient(tx, recipe.ID, l.IngredientID, l.Quantity, l.Unit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithFields(logrus.Fields{
			"file":  filePath,
			"error": err.Error(),
		}).Warn("Recipe row insert failed, removing orphaned document")
		if derr := s.docs.Delete(filePath); derr != nil {
			log.WithError(derr).Warn("Orphaned document cleanup failed")
		}
		return 0, err
	}

	log.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"name":      name,
	}).Info("Recipe created")
	return recipe.ID, nil
}

func (s *recipeService) GetRecipe(id uint) (map[string]interface{}, error) {
	var row models.Recipe
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Absent is a valid answer, not an error.
			return nil, nil
		}
		return nil, err
	}

	doc, err := s.docs.Load(row.FilePath)
	if err != nil {
		return nil, err
	}

	doc["id"] = row.ID
	doc["created_at"] = row.CreatedAt
	if row.DifficultyLevel != "" {
		doc["difficulty_level"] = row.DifficultyLevel
	}

	// The ingredient tables arrive with the last migration; older
	// schemas simply have no ingredient list to merge.
	if s.db.Migrator().HasTable(&models.Ingredient{}) {
		details, err := s.ingredients.GetIngredientsForRecipe(id)
		if err != nil {
			return nil, err
		}
		doc["ingredients"] = details
	}

	reviews, err := s.reviews.GetReviewsForRecipe(id)
	if err != nil {
		return nil, err
	}
	doc["reviews"] = reviews

	return doc, nil
}

// extractIngredientLinks pulls the "ingredients" entry out of a recipe
// payload. Callers may pass either []IngredientLink directly or the
// JSON shape: a list of objects with ingredient_id, quantity and unit.
func extractIngredientLinks(payload map[string]interface{}) ([]IngredientLink, error) {
	raw, ok := payload["ingredients"]
	if !ok {
		return nil, nil
	}

	if links, ok := raw.([]IngredientLink); ok {
		return links, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: ingredients must be a list", models.ErrValidation)
	}

	links := make([]IngredientLink, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: ingredients[%d] must be an object", models.ErrValidation, i)
		}
		id, ok := toFloat(entry["ingredient_id"])
		if !ok || id <= 0 {
			return nil, fmt.Errorf("%w: ingredients[%d] needs a positive ingredient_id", models.ErrValidation, i)
		}
		qty, ok := toFloat(entry["quantity"])
		if !ok {
			return nil, fmt.Errorf("%w: ingredients[%d] needs a numeric quantity", models.ErrValidation, i)
		}
		unit, _ := entry["unit"].(string)
		links = append(links, IngredientLink{
			IngredientID: uint(id),
			Quantity:     qty,
			Unit:         unit,
		})
	}
	return links, nil
}

// toFloat coerces the numeric shapes a payload value can arrive in.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case uint:
		return float64(n), true
	default:
		return 0, false
	}
}
