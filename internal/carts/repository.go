package carts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
)

// Repository persists cart snapshots. One active cart exists per session;
// converted carts are kept for order history and cleaned up by cron.
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

// FindActiveBySession loads the session's active cart with its items.
func (r *Repository) FindActiveBySession(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("session_id = ? AND status = ?", sessionID, enums.CartStatusActive).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new active cart for the session.
func (r *Repository) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = enums.CartStatusActive
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// UpsertItem writes one line snapshot, replacing any existing line for the
// same product.
func (r *Repository) UpsertItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity", "unit_price_cents", "original_price_cents", "max_per_order", "updated_at",
			}),
		}).
		Create(item).Error
}

// DeleteItem removes one product's line from the cart.
func (r *Repository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}

// ClearItems removes every line from the cart.
func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// SetCoupon stores (or clears, with nil) the applied coupon code.
func (r *Repository) SetCoupon(ctx context.Context, cartID uuid.UUID, code *string) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		UpdateColumn("coupon_code", code).Error
}

// AttachUser links an authenticated user to the session's cart.
func (r *Repository) AttachUser(ctx context.Context, cartID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		UpdateColumn("user_id", userID).Error
}

// MarkConverted flags the cart as checked out.
func (r *Repository) MarkConverted(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		UpdateColumn("status", enums.CartStatusConverted).Error
}

// DeleteAbandonedBefore removes guest carts untouched since the cutoff.
// Returns the number of carts removed; items cascade.
func (r *Repository) DeleteAbandonedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND user_id IS NULL AND updated_at < ?", enums.CartStatusActive, cutoff).
		Delete(&models.CartRecord{})
	return result.RowsAffected, result.Error
}
