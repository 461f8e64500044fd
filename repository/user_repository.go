package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kaushalkumar0001/StressLess/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateEmail is returned by CreateUser when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUserByEmail(ctx context.Context, user *models.User) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser inserts a new account. A taken email yields ErrDuplicateEmail.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil || user.Email == "" {
		log.Printf("ERROR: [UserRepository] CreateUser: user email cannot be empty.")
		return errors.New("user email cannot be empty")
	}
	existing, err := r.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Printf("WARN: [UserRepository] CreateUser: email '%s' is already registered.", user.Email)
		return ErrDuplicateEmail
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("ERROR: [UserRepository] Failed to create user '%s': %v", user.Email, err)
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	log.Printf("INFO: [UserRepository] Created user ID %s (%s).", user.ID, user.Email)
	return nil
}

// GetUserByID returns (nil, nil) when the user does not exist.
func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [UserRepository] Failed to fetch user ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to fetch user ID %s: %w", id, err)
	}
	return &user, nil
}

// GetUserByEmail returns (nil, nil) when no account uses the email.
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [UserRepository] Failed to fetch user by email %s: %v", email, err)
		return nil, fmt.Errorf("failed to fetch user by email %s: %w", email, err)
	}
	return &user, nil
}

// UpsertUserByEmail creates the account or refreshes its profile fields when
// the email already exists, then returns the stored row.
func (r *userRepository) UpsertUserByEmail(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil || user.Email == "" {
		return nil, errors.New("user email cannot be empty")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "photo_url", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		log.Printf("ERROR: [UserRepository] Failed to upsert user '%s': %v", user.Email, err)
		return nil, fmt.Errorf("failed to upsert user %s: %w", user.Email, err)
	}

	// On conflict the struct keeps the ID generated for the discarded insert; re-fetch the real row.
	current, err := r.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("user %s missing after upsert", user.Email)
	}
	log.Printf("INFO: [UserRepository] Upserted user ID %s (%s).", current.ID, current.Email)
	return current, nil
}
