package carts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickcartlabs/quickcart-backend/internal/catalog"
	"github.com/quickcartlabs/quickcart-backend/internal/pricing"
	"github.com/quickcartlabs/quickcart-backend/pkg/config"
	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
	"github.com/quickcartlabs/quickcart-backend/pkg/metrics"
	"github.com/quickcartlabs/quickcart-backend/pkg/money"
)

// Service manages session carts. All arithmetic is delegated to the pricing
// engine; this layer resolves products and coupons, persists snapshots after
// each successful mutation, and turns persistence failures into non-fatal
// warnings so the in-memory cart stays authoritative for the response.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*CartView, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*CartView, error)
	UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, sessionID string) (*CartView, error)
	ApplyCoupon(ctx context.Context, sessionID, code string) (*CartView, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*CartView, error)
	AttachUser(ctx context.Context, sessionID string, userID uuid.UUID) error
	Snapshot(ctx context.Context, sessionID string) (*Snapshot, error)
	Params() pricing.Params
}

// Snapshot exposes the loaded cart to the checkout flow.
type Snapshot struct {
	Record   *models.CartRecord
	Cart     pricing.Cart
	Coupon   *pricing.Coupon
	Products map[uuid.UUID]models.Product
}

type couponResolver interface {
	Lookup(ctx context.Context, code string) (*pricing.Coupon, error)
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
	coupons     couponResolver
	params      pricing.Params
	logg        *logger.Logger
	metrics     *metrics.CartMetrics
}

// NewService constructs a cart service.
func NewService(
	repo *Repository,
	catalogRepo *catalog.Repository,
	coupons couponResolver,
	cfg config.PricingConfig,
	logg *logger.Logger,
	cartMetrics *metrics.CartMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		catalogRepo: catalogRepo,
		coupons:     coupons,
		params: pricing.Params{
			FreeDeliveryThreshold: money.Cents(cfg.FreeDeliveryThresholdCents),
			FlatDeliveryFee:       money.Cents(cfg.FlatDeliveryFeeCents),
			TaxRate:               money.BasisPointsRate(cfg.TaxRateBPS),
		},
		logg:    logg,
		metrics: cartMetrics,
	}, nil
}

func storageWarning() Warning {
	return Warning{
		Code:    string(pkgerrors.CodeStorage),
		Message: "cart could not be saved; your changes are kept for this session",
	}
}

// loadOrCreate fetches the session's active cart, creating one if absent. A
// failing store yields a nil record plus a warning; the caller continues with
// an in-memory cart.
func (s *service) loadOrCreate(ctx context.Context, sessionID string) (*models.CartRecord, []Warning) {
	record, err := s.repo.FindActiveBySession(ctx, sessionID)
	if err == nil {
		return record, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, createErr := s.repo.Create(ctx, &models.CartRecord{SessionID: sessionID})
		if createErr == nil {
			return created, nil
		}
		err = createErr
	}
	s.logg.Error(ctx, "loading cart snapshot", err)
	return nil, []Warning{storageWarning()}
}

func engineCart(items []models.CartItem) pricing.Cart {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		var original money.Cents
		if item.OriginalPriceCents != nil {
			original = money.Cents(*item.OriginalPriceCents)
		}
		lines = append(lines, pricing.Line{
			ProductID:     item.ProductID.String(),
			UnitPrice:     money.Cents(item.UnitPriceCents),
			OriginalPrice: original,
			Quantity:      item.Quantity,
			MaxPerOrder:   item.MaxPerOrder,
		})
	}
	return pricing.NewCart(lines...)
}

// buildView prices the cart and assembles the response. A coupon that no
// longer applies (removed, expired, or minimum unmet after cart changes)
// degrades to an uncouponed quote with a warning instead of failing the read.
func (s *service) buildView(ctx context.Context, sessionID string, record *models.CartRecord, cart pricing.Cart, warnings []Warning) (*CartView, error) {
	var coupon *pricing.Coupon
	var couponCode *string
	if record != nil && record.CouponCode != nil {
		rule, err := s.coupons.Lookup(ctx, *record.CouponCode)
		if err != nil {
			warnings = append(warnings, Warning{
				Code:    string(pkgerrors.CodeCouponNotFound),
				Message: "applied coupon is no longer available and was removed",
			})
			if clearErr := s.repo.SetCoupon(ctx, record.ID, nil); clearErr != nil {
				s.logg.Error(ctx, "clearing stale coupon", clearErr)
			}
		} else {
			coupon = rule
			couponCode = record.CouponCode
		}
	}

	result, err := pricing.Quote(cart, coupon, s.params)
	if err != nil {
		var minErr *pricing.CouponMinimumError
		if !errors.As(err, &minErr) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pricing cart")
		}
		// keep the code so adding more items re-activates the coupon
		warnings = append(warnings, Warning{
			Code:    string(pkgerrors.CodeCouponMinimum),
			Message: minErr.Error(),
		})
		result, err = pricing.Quote(cart, nil, s.params)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pricing cart")
		}
	}
	s.metrics.IncQuote()

	items, itemWarnings := s.itemViews(ctx, cart)
	warnings = append(warnings, itemWarnings...)

	return &CartView{
		SessionID:  sessionID,
		Items:      items,
		CouponCode: couponCode,
		Pricing:    toPricingView(result),
		Warnings:   warnings,
	}, nil
}

func (s *service) itemViews(ctx context.Context, cart pricing.Cart) ([]ItemView, []Warning) {
	lines := cart.Lines()
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if id, err := uuid.Parse(line.ProductID); err == nil {
			ids = append(ids, id)
		}
	}

	var warnings []Warning
	products, err := s.catalogRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logg.Error(ctx, "resolving cart products", err)
		products = map[uuid.UUID]models.Product{}
		warnings = append(warnings, storageWarning())
	}

	views := make([]ItemView, 0, len(lines))
	for _, line := range lines {
		id, err := uuid.Parse(line.ProductID)
		if err != nil {
			continue
		}
		view := ItemView{
			ProductID:      id,
			Quantity:       line.Quantity,
			UnitPriceCents: int64(line.UnitPrice),
			LineTotalCents: int64(line.UnitPrice.MulInt(line.Quantity)),
			MaxPerOrder:    line.MaxPerOrder,
		}
		if line.OriginalPrice > 0 {
			original := int64(line.OriginalPrice)
			view.OriginalPriceCents = &original
		}
		if product, ok := products[id]; ok {
			view.Name = product.Name
			view.Unit = product.Unit
			view.ImageURL = product.ImageURL
		}
		views = append(views, view)
	}
	return views, warnings
}

func (s *service) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	record, warnings := s.loadOrCreate(ctx, sessionID)
	var cart pricing.Cart
	if record != nil {
		cart = engineCart(record.Items)
	}
	return s.buildView(ctx, sessionID, record, cart, warnings)
}

func (s *service) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*CartView, error) {
	product, err := s.catalogRepo.FindActiveByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product.StockQty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock")
	}

	record, warnings := s.loadOrCreate(ctx, sessionID)
	var cart pricing.Cart
	if record != nil {
		cart = engineCart(record.Items)
	}

	maxQty := product.MaxPerOrder
	if product.StockQty < maxQty {
		maxQty = product.StockQty
	}

	var original money.Cents
	if product.OriginalPriceCents != nil {
		original = money.Cents(*product.OriginalPriceCents)
	}

	cart, clamped, err := cart.AddLine(productID.String(), money.Cents(product.PriceCents), original, quantity, maxQty)
	if err != nil {
		return nil, mapPricingError(err)
	}
	if clamped {
		warnings = append(warnings, Warning{
			Code:    string(pkgerrors.CodeQuantityLimit),
			Message: fmt.Sprintf("quantity adjusted to the limit of %d per order", maxQty),
		})
	}

	if record != nil {
		// persist the merged line, not the catalog row: an existing line keeps
		// its snapshot price even when the live price has moved since
		line, _ := cart.Line(productID.String())
		item := &models.CartItem{
			CartID:         record.ID,
			ProductID:      productID,
			Quantity:       line.Quantity,
			UnitPriceCents: int64(line.UnitPrice),
			MaxPerOrder:    maxQty,
		}
		if line.OriginalPrice > 0 {
			original := int64(line.OriginalPrice)
			item.OriginalPriceCents = &original
		}
		if err := s.repo.UpsertItem(ctx, item); err != nil {
			s.logg.Error(ctx, "persisting cart item", err)
			warnings = append(warnings, storageWarning())
		}
	}

	return s.buildView(ctx, sessionID, record, cart, warnings)
}

func (s *service) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*CartView, error) {
	record, warnings := s.loadOrCreate(ctx, sessionID)
	var cart pricing.Cart
	if record != nil {
		cart = engineCart(record.Items)
	}

	line, ok := cart.Line(productID.String())
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	cart, err := cart.SetQuantity(productID.String(), quantity, line.MaxPerOrder)
	if err != nil {
		return nil, mapPricingError(err)
	}

	if record != nil {
		if quantity <= 0 {
			if err := s.repo.DeleteItem(ctx, record.ID, productID); err != nil {
				s.logg.Error(ctx, "removing cart item", err)
				warnings = append(warnings, storageWarning())
			}
		} else {
			item := &models.CartItem{
				CartID:         record.ID,
				ProductID:      productID,
				Quantity:       quantity,
				UnitPriceCents: int64(line.UnitPrice),
				MaxPerOrder:    line.MaxPerOrder,
			}
			if line.OriginalPrice > 0 {
				original := int64(line.OriginalPrice)
				item.OriginalPriceCents = &original
			}
			if err := s.repo.UpsertItem(ctx, item); err != nil {
				s.logg.Error(ctx, "persisting cart item", err)
				warnings = append(warnings, storageWarning())
			}
		}
	}

	return s.buildView(ctx, sessionID, record, cart, warnings)
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*CartView, error) {
	record, warnings := s.loadOrCreate(ctx, sessionID)
	var cart pricing.Cart
	if record != nil {
		cart = engineCart(record.Items)
	}

	cart = cart.RemoveLine(productID.String())

	if record != nil {
		if err := s.repo.DeleteItem(ctx, record.ID, productID); err != nil {
			s.logg.Error(ctx, "removing cart item", err)
			warnings = append(warnings, storageWarning())
		}
	}

	return s.buildView(ctx, sessionID, record, cart, warnings)
}

func (s *service) Clear(ctx context.Context, sessionID string) (*CartView, error) {
	record, warnings := s.loadOrCreate(ctx, sessionID)

	if record != nil {
		if err := s.repo.ClearItems(ctx, record.ID); err != nil {
			s.logg.Error(ctx, "clearing cart", err)
			warnings = append(warnings, storageWarning())
		}
		if err := s.repo.SetCoupon(ctx, record.ID, nil); err != nil {
			s.logg.Error(ctx, "clearing coupon", err)
		}
		record.CouponCode = nil
	}

	return s.buildView(ctx, sessionID, record, pricing.Cart{}, warnings)
}

func (s *service) ApplyCoupon(ctx context.Context, sessionID, code string) (*CartView, error) {
	record, warnings := s.loadOrCreate(ctx, sessionID)
	var cart pricing.Cart
	if record != nil {
		cart = engineCart(record.Items)
	}

	rule, err := s.coupons.Lookup(ctx, code)
	if err != nil {
		s.metrics.IncCoupon("unknown")
		return nil, err
	}

	// price with the candidate coupon before storing it; scenario: minimum
	// not met must reject the application outright
	if _, err := pricing.Quote(cart, rule, s.params); err != nil {
		s.metrics.IncCoupon("rejected")
		return nil, mapPricingError(err)
	}

	if record != nil {
		if err := s.repo.SetCoupon(ctx, record.ID, &rule.Code); err != nil {
			s.logg.Error(ctx, "storing coupon", err)
			warnings = append(warnings, storageWarning())
		}
		record.CouponCode = &rule.Code
	}
	s.metrics.IncCoupon("applied")

	return s.buildView(ctx, sessionID, record, cart, warnings)
}

func (s *service) RemoveCoupon(ctx context.Context, sessionID string) (*CartView, error) {
	record, warnings := s.loadOrCreate(ctx, sessionID)
	var cart pricing.Cart
	if record != nil {
		cart = engineCart(record.Items)
		if err := s.repo.SetCoupon(ctx, record.ID, nil); err != nil {
			s.logg.Error(ctx, "clearing coupon", err)
			warnings = append(warnings, storageWarning())
		}
		record.CouponCode = nil
	}

	return s.buildView(ctx, sessionID, record, cart, warnings)
}

func (s *service) AttachUser(ctx context.Context, sessionID string, userID uuid.UUID) error {
	record, err := s.repo.FindActiveBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if err := s.repo.AttachUser(ctx, record.ID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attaching user to cart")
	}
	return nil
}

// Snapshot loads the cart for checkout. Unlike the view paths, a failing
// store is fatal here: an order must not be placed off an unverifiable cart.
func (s *service) Snapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	record, err := s.repo.FindActiveBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	cart := engineCart(record.Items)
	if cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	ids := make([]uuid.UUID, 0, len(record.Items))
	for _, item := range record.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalogRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving cart products")
	}

	var coupon *pricing.Coupon
	if record.CouponCode != nil {
		rule, err := s.coupons.Lookup(ctx, *record.CouponCode)
		if err != nil {
			return nil, err
		}
		coupon = rule
	}

	return &Snapshot{
		Record:   record,
		Cart:     cart,
		Coupon:   coupon,
		Products: products,
	}, nil
}

// Params exposes the store pricing parameters for authoritative repricing at
// checkout.
func (s *service) Params() pricing.Params {
	return s.params
}

func mapPricingError(err error) error {
	var limitErr *pricing.QuantityLimitError
	if errors.As(err, &limitErr) {
		return pkgerrors.New(pkgerrors.CodeQuantityLimit, "quantity exceeds the per-order limit").
			WithDetails(map[string]any{
				"productId": limitErr.ProductID,
				"requested": limitErr.Requested,
				"limit":     limitErr.Limit,
			})
	}
	var minErr *pricing.CouponMinimumError
	if errors.As(err, &minErr) {
		return pkgerrors.New(pkgerrors.CodeCouponMinimum, minErr.Error()).
			WithDetails(map[string]any{
				"code":             minErr.Code,
				"minSubtotalCents": int64(minErr.MinSubtotal),
				"subtotalCents":    int64(minErr.Subtotal),
				"shortfallCents":   int64(minErr.Shortfall),
			})
	}
	if errors.Is(err, pricing.ErrInvalidQuantity) {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if errors.Is(err, pricing.ErrUnknownCoupon) {
		return pkgerrors.New(pkgerrors.CodeCouponNotFound, "coupon code not recognized")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pricing cart")
}
