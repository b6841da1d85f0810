package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickcartlabs/quickcart-backend/internal/carts"
	"github.com/quickcartlabs/quickcart-backend/internal/catalog"
	"github.com/quickcartlabs/quickcart-backend/internal/orders"
	"github.com/quickcartlabs/quickcart-backend/internal/pricing"
	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
	"github.com/quickcartlabs/quickcart-backend/pkg/metrics"
)

// Input is the validated checkout request.
type Input struct {
	PaymentMethod enums.PaymentMethod
}

// Service places orders. The cart is repriced server-side at placement; the
// client never supplies totals. Payment settlement is simulated: the chosen
// method is recorded and the order confirms immediately.
type Service interface {
	PlaceOrder(ctx context.Context, sessionID string, userID uuid.UUID, input Input) (*orders.OrderView, error)
}

type cartLoader interface {
	Snapshot(ctx context.Context, sessionID string) (*carts.Snapshot, error)
	Params() pricing.Params
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx          txRunner
	cartSvc     cartLoader
	cartRepo    *carts.Repository
	catalogRepo *catalog.Repository
	orderRepo   *orders.Repository
	logg        *logger.Logger
	metrics     *metrics.CartMetrics
	now         func() time.Time
}

// NewService constructs a checkout service.
func NewService(
	tx txRunner,
	cartSvc cartLoader,
	cartRepo *carts.Repository,
	catalogRepo *catalog.Repository,
	orderRepo *orders.Repository,
	logg *logger.Logger,
	cartMetrics *metrics.CartMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:          tx,
		cartSvc:     cartSvc,
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		orderRepo:   orderRepo,
		logg:        logg,
		metrics:     cartMetrics,
		now:         time.Now,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, sessionID string, userID uuid.UUID, input Input) (*orders.OrderView, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}

	snapshot, err := s.cartSvc.Snapshot(ctx, sessionID)
	if err != nil {
		s.metrics.IncCheckout("rejected")
		return nil, err
	}

	if err := s.validateStock(snapshot); err != nil {
		s.metrics.IncCheckout("rejected")
		return nil, err
	}

	// authoritative reprice; stale client-side totals never reach the order
	result, err := pricing.Quote(snapshot.Cart, snapshot.Coupon, s.cartSvc.Params())
	if err != nil {
		s.metrics.IncCheckout("rejected")
		return nil, mapQuoteError(err)
	}

	now := s.now()
	order := s.buildOrder(snapshot, result, sessionID, userID, input.PaymentMethod, now)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}
		catalogTx := s.catalogRepo.WithTx(tx)
		for _, line := range snapshot.Cart.Lines() {
			productID, parseErr := uuid.Parse(line.ProductID)
			if parseErr != nil {
				return fmt.Errorf("parsing product id %q: %w", line.ProductID, parseErr)
			}
			if err := catalogTx.DecrementStock(ctx, productID, line.Quantity); err != nil {
				return fmt.Errorf("decrementing stock for %s: %w", line.ProductID, err)
			}
		}
		cartTx := s.cartRepo.WithTx(tx)
		if err := cartTx.MarkConverted(ctx, snapshot.Record.ID); err != nil {
			return fmt.Errorf("marking cart converted: %w", err)
		}
		if err := cartTx.SetCoupon(ctx, snapshot.Record.ID, nil); err != nil {
			return fmt.Errorf("resetting coupon: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.IncCheckout("rejected")
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// the stock guard lost a race with a concurrent checkout
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for one or more items")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	s.metrics.IncCheckout("placed")
	s.logg.Info(s.logg.WithField(ctx, "orderReference", order.Reference), "order placed")
	return orders.ToView(order), nil
}

func (s *service) validateStock(snapshot *carts.Snapshot) error {
	type shortage struct {
		ProductID string `json:"productId"`
		Requested int    `json:"requested"`
		Available int    `json:"available"`
	}
	var shortages []shortage

	for _, line := range snapshot.Cart.Lines() {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			continue
		}
		product, ok := snapshot.Products[productID]
		if !ok || !product.IsActive {
			shortages = append(shortages, shortage{ProductID: line.ProductID, Requested: line.Quantity})
			continue
		}
		if product.StockQty < line.Quantity {
			shortages = append(shortages, shortage{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: product.StockQty,
			})
		}
	}

	if len(shortages) > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for one or more items").
			WithDetails(map[string]any{"items": shortages})
	}
	return nil
}

func (s *service) buildOrder(
	snapshot *carts.Snapshot,
	result pricing.PricingResult,
	sessionID string,
	userID uuid.UUID,
	method enums.PaymentMethod,
	now time.Time,
) *models.Order {
	lines := snapshot.Cart.Lines()
	items := make([]models.OrderLineItem, 0, len(lines))
	for _, line := range lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			continue
		}
		name := ""
		if product, ok := snapshot.Products[productID]; ok {
			name = product.Name
		}
		items = append(items, models.OrderLineItem{
			ProductID:      productID,
			ProductName:    name,
			Quantity:       line.Quantity,
			UnitPriceCents: int64(line.UnitPrice),
			LineTotalCents: int64(line.UnitPrice.MulInt(line.Quantity)),
		})
	}

	order := &models.Order{
		Reference:           newReference(now),
		UserID:              userID,
		SessionID:           sessionID,
		Status:              enums.OrderStatusConfirmed,
		PaymentMethod:       method,
		SubtotalCents:       int64(result.Subtotal),
		SavingsCents:        int64(result.Savings),
		DeliveryFeeCents:    int64(result.DeliveryFee),
		TaxCents:            int64(result.Tax),
		CouponDiscountCents: int64(result.CouponDiscount),
		TotalCents:          int64(result.Total),
		Timeline:            orders.DefaultTimeline(now),
		LineItems:           items,
		PlacedAt:            now,
	}
	if snapshot.Coupon != nil {
		code := snapshot.Coupon.Code
		order.CouponCode = &code
	}
	return order
}

// newReference builds the public order reference, e.g. ORD1767285722000.
func newReference(now time.Time) string {
	return fmt.Sprintf("ORD%d", now.UnixMilli())
}

func mapQuoteError(err error) error {
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
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pricing cart")
}
