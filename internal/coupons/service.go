package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quickcartlabs/quickcart-backend/internal/pricing"
	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
	"github.com/quickcartlabs/quickcart-backend/pkg/money"
)

// Service resolves coupon codes into pricing rules.
type Service interface {
	Lookup(ctx context.Context, code string) (*pricing.Coupon, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a coupon service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Lookup finds an active, in-window coupon by code. Unknown, inactive, and
// out-of-window codes are indistinguishable to the caller.
func (s *service) Lookup(ctx context.Context, code string) (*pricing.Coupon, error) {
	record, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeCouponNotFound, "coupon code not recognized")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	if !s.redeemable(record) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponNotFound, "coupon code not recognized")
	}
	return toRule(record), nil
}

func (s *service) redeemable(record *models.Coupon) bool {
	if !record.IsActive {
		return false
	}
	now := s.now()
	if record.StartsAt != nil && now.Before(*record.StartsAt) {
		return false
	}
	if record.ExpiresAt != nil && now.After(*record.ExpiresAt) {
		return false
	}
	return true
}

func toRule(record *models.Coupon) *pricing.Coupon {
	rule := &pricing.Coupon{
		Code:        record.Code,
		Kind:        record.Kind,
		Value:       record.Value,
		MinSubtotal: money.Cents(record.MinSubtotalCents),
	}
	if record.MaxDiscountCents != nil {
		rule.MaxDiscount = money.Cents(*record.MaxDiscountCents)
	}
	return rule
}
