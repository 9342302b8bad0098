package services

import (
	"errors"
	"fmt"

	"github.com/brewstack/coffeecli/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReviewService interface {
	// AddReview records a rating (1-5) and optional comment for a recipe.
	AddReview(recipeID, userID uint, rating int, comment string) (uint, error)
	// GetReviewsForRecipe returns all reviews for a recipe, oldest first.
	GetReviewsForRecipe(recipeID uint) ([]models.Review, error)
}

type reviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) ReviewService {
	return &reviewService{db: db}
}

func (s *reviewService) AddReview(recipeID, userID uint, rating int, comment string) (uint, error) {
	if rating < 1 || rating > 5 {
		return 0, fmt.Errorf("%w: rating must be between 1 and 5, got %d", models.ErrValidation, rating)
	}

	var recipe models.Recipe
	if err := s.db.Select("id").First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: recipe %d does not exist", models.ErrConstraintViolation, recipeID)
		}
		return 0, err
	}
	var user models.User
	if err := s.db.Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: user %d does not exist", models.ErrConstraintViolation, userID)
		}
		return 0, err
	}

	review := models.Review{
		RecipeID: recipeID,
		UserID:   userID,
		Rating:   rating,
		Comment:  comment,
	}
	if err := s.db.Create(&review).Error; err != nil {
		return 0, err
	}

	log.WithFields(logrus.Fields{
		"review_id": review.ID,
		"recipe_id": recipeID,
		"rating":    rating,
	}).Info("Review added")
	return review.ID, nil
}

func (s *reviewService) GetReviewsForRecipe(recipeID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Where("recipe_id = ?", recipeID).Order("id").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
