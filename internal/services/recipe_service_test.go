package services

import (
	"encoding/json"
	"testing"

	"github.com/brewstack/coffeecli/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFacade(t *testing.T) (RecipeService, UserService, ReviewService, IngredientService) {
	db, docs := setupTestDB(t)
	users := NewUserService(db)
	ingredients := NewIngredientService(db)
	reviews := NewReviewService(db)
	recipes := NewRecipeService(db, docs, ingredients, reviews)
	return recipes, users, reviews, ingredients
}

func asFloat(t *testing.T, v interface{}) float64 {
	t.Helper()
	num, ok := v.(json.Number)
	require.True(t, ok, "expected json.Number, got %T", v)
	f, err := num.Float64()
	require.NoError(t, err)
	return f
}

func TestCreateAndGetRecipeRoundTrip(t *testing.T) {
	recipes, users, _, _ := newFacade(t)

	authorID, err := users.CreateUser("joe", "joe@coffee.com")
	require.NoError(t, err)

	payload := map[string]interface{}{
		"name":             "Espresso",
		"temperature":      93.5,
		"pressure":         9.0,
		"grind_size":       "fine",
		"dose":             18.0,
		"yield":            36.0,
		"time":             25.0,
		"difficulty_level": "intermediate",
	}

	recipeID, err := recipes.CreateRecipe(payload, authorID)
	require.NoError(t, err)
	assert.NotZero(t, recipeID)

	got, err := recipes.GetRecipe(recipeID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Espresso", got["name"])
	assert.Equal(t, "fine", got["grind_size"])
	assert.Equal(t, "intermediate", got["difficulty_level"])
	assert.InDelta(t, 93.5, asFloat(t, got["temperature"]), 0.001)
	assert.InDelta(t, 9.0, asFloat(t, got["pressure"]), 0.001)
	assert.InDelta(t, 18.0, asFloat(t, got["dose"]), 0.001)
	assert.InDelta(t, 36.0, asFloat(t, got["yield"]), 0.001)
	assert.InDelta(t, 25.0, asFloat(t, got["time"]), 0.001)

	// Injected metadata
	assert.EqualValues(t, recipeID, got["id"])
	assert.Contains(t, got, "created_at")
}

func TestGetRecipeAbsent(t *testing.T) {
	recipes, _, _, _ := newFacade(t)

	got, err := recipes.GetRecipe(12345)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateRecipeUnknownAuthor(t *testing.T) {
	recipes, _, _, _ := newFacade(t)

	payload := map[string]interface{}{
		"name":             "Espresso",
		"difficulty_level": "beginner",
	}
	_, err := recipes.CreateRecipe(payload, 999)
	assert.ErrorIs(t, err, models.ErrConstraintViolation)
}

func TestCreateRecipeInvalidDifficulty(t *testing.T) {
	recipes, users, _, _ := newFacade(t)

	authorID, err := users.CreateUser("joe", "joe@coffee.com")
	require.NoError(t, err)

	payload := map[string]interface{}{
		"name":             "Espresso",
		"difficulty_level": "impossible",
	}
	_, err = recipes.CreateRecipe(payload, authorID)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateRecipeMissingName(t *testing.T) {
	recipes, users, _, _ := newFacade(t)

	authorID, err := users.CreateUser("joe", "joe@coffee.com")
	require.NoError(t, err)

	_, err = recipes.CreateRecipe(map[string]interface{}{"difficulty_level": "expert"}, authorID)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestLinkIngredientValidation(t *testing.T) {
	recipes, users, _, ingredients := newFacade(t)

	authorID, err := users.CreateUser("joe", "joe@coffee.com")
	require.NoError(t, err)

	recipeID, err := recipes.CreateRecipe(map[string]interface{}{
		"name":             "Espresso",
		"difficulty_level": "beginner",
	}, authorID)
	require.NoError(t, err)

	// Non-positive quantity
	err = ingredients.LinkIngredient(recipeID, 1, 0, "g")
	assert.ErrorIs(t, err, models.ErrConstraintViolation)

	// Unknown ingredient
	err = ingredients.LinkIngredient(recipeID, 999, 18, "g")
	assert.ErrorIs(t, err, models.ErrConstraintViolation)

	// Unknown recipe
	err = ingredients.LinkIngredient(999, 1, 18, "g")
	assert.ErrorIs(t, err, models.ErrConstraintViolation)

	// Valid link
	err = ingredients.LinkIngredient(recipeID, 1, 18, "g")
	assert.NoError(t, err)
}

func TestEndToEndScenario(t *testing.T) {
	recipes, users, reviews, _ := newFacade(t)

	authorID, err := users.CreateUser("joe", "joe@coffee.com")
	require.NoError(t, err)

	// The baseline ingredients are seeded by the migration chain with
	// ids 1..3.
	payload := map[string]interface{}{
		"name":             "Espresso",
		"temperature":      93.5,
		"pressure":         9.0,
		"grind_size":       "fine",
		"dose":             18.0,
		"yield":            36.0,
		"time":             25.0,
		"difficulty_level": "intermediate",
		"ingredients": []IngredientLink{
			{IngredientID: 1, Quantity: 18, Unit: "g"},
			{IngredientID: 3, Quantity: 2, Unit: "g"},
		},
	}

	recipeID, err := recipes.CreateRecipe(payload, authorID)
	require.NoError(t, err)

	_, err = reviews.AddReview(recipeID, authorID, 5, "Great")
	require.NoError(t, err)

	got, err := recipes.GetRecipe(recipeID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Espresso", got["name"])
	assert.InDelta(t, 93.5, asFloat(t, got["temperature"]), 0.001)

	// The ingredients list must not leak into the stored document; it
	// comes back from the relational store instead.
	details, ok := got["ingredients"].([]models.RecipeIngredientDetail)
	require.True(t, ok)
	require.Len(t, details, 2)
	assert.Equal(t, "Arábica Colombia", details[0].Name)
	assert.EqualValues(t, 18, details[0].Quantity)
	assert.Equal(t, "g", details[0].Unit)
	assert.Equal(t, "Arábica Ethiopia", details[1].Name)

	gotReviews, ok := got["reviews"].([]models.Review)
	require.True(t, ok)
	require.Len(t, gotReviews, 1)
	assert.Equal(t, 5, gotReviews[0].Rating)
	assert.Equal(t, "Great", gotReviews[0].Comment)
}

func TestCreateRecipeRollsBackLinksOnFailure(t *testing.T) {
	recipes, users, _, _ := newFacade(t)

	authorID, err := users.CreateUser("joe", "joe@coffee.com")
	require.NoError(t, err)

	// Second link references a missing ingredient; the whole relational
	// write must roll back.
	payload := map[string]interface{}{
		"name":             "Espresso",
		"difficulty_level": "beginner",
		"ingredients": []IngredientLink{
			{IngredientID: 1, Quantity: 18, Unit: "g"},
			{IngredientID: 999, Quantity: 1, Unit: "g"},
		},
	}

	_, err = recipes.CreateRecipe(payload, authorID)
	assert.ErrorIs(t, err, models.ErrConstraintViolation)

	// No recipe row survived the rollback
	got, err := recipes.GetRecipe(1)
	require.NoError(t, err)
	assert.Nil(t, got)
}
