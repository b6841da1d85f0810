package coupons

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
)

// Repository provides access to the coupon table.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByCode loads a coupon by its case-insensitive code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// DeactivateExpired flips is_active off for coupons past their expiry.
// Returns the number of rows changed.
func (r *Repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, now).
		UpdateColumn("is_active", false)
	return result.RowsAffected, result.Error
}
