package services

import (
	"errors"
	"fmt"

	"github.com/brewstack/coffeecli/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserService interface {
	// CreateUser registers a new user and returns its generated id.
	CreateUser(username, email string) (uint, error)
	// GetUserByID retrieves a user by its id.
	GetUserByID(id uint) (*models.User, error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) CreateUser(username, email string) (uint, error) {
	if username == "" || email == "" {
		return 0, fmt.Errorf("%w: username and email are required", models.ErrValidation)
	}

	var existing models.User
	err := s.db.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return 0, fmt.Errorf("%w: username or email already registered", models.ErrConstraintViolation)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	user := models.User{Username: username, Email: email}
	if err := s.db.Create(&user).Error; err != nil {
		return 0, err
	}

	log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": username,
	}).Info("User created")
	return user.ID, nil
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", models.ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}
