package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
)

// Repository persists shopper accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertByPhone finds the user for a phone number, creating the row on first
// login, and stamps last_login_at.
func (r *Repository) UpsertByPhone(ctx context.Context, phone string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error
	switch {
	case err == nil:
		if updateErr := r.db.WithContext(ctx).
			Model(&user).
			UpdateColumn("last_login_at", now).Error; updateErr != nil {
			return nil, updateErr
		}
		user.LastLoginAt = &now
		return &user, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ID:          uuid.New(),
			Phone:       phone,
			LastLoginAt: &now,
		}
		if createErr := r.db.WithContext(ctx).Create(&user).Error; createErr != nil {
			return nil, createErr
		}
		return &user, nil

	default:
		return nil, err
	}
}

// FindByID loads a user.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
