package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
)

// LineItemView is one frozen product line of a placed order.
type LineItemView struct {
	ProductID      uuid.UUID `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	LineTotalCents int64     `json:"lineTotalCents"`
}

// OrderView is a placed order as served to clients.
type OrderView struct {
	Reference           string                `json:"reference"`
	Status              enums.OrderStatus     `json:"status"`
	PaymentMethod       enums.PaymentMethod   `json:"paymentMethod"`
	SubtotalCents       int64                 `json:"subtotalCents"`
	SavingsCents        int64                 `json:"savingsCents"`
	DeliveryFeeCents    int64                 `json:"deliveryFeeCents"`
	TaxCents            int64                 `json:"taxCents"`
	CouponCode          *string               `json:"couponCode,omitempty"`
	CouponDiscountCents int64                 `json:"couponDiscountCents"`
	TotalCents          int64                 `json:"totalCents"`
	Items               []LineItemView        `json:"items"`
	Timeline            []models.TimelineStep `json:"timeline"`
	PlacedAt            time.Time             `json:"placedAt"`
}

// ToView maps a stored order onto the read model.
func ToView(order *models.Order) *OrderView {
	items := make([]LineItemView, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		items = append(items, LineItemView{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return &OrderView{
		Reference:           order.Reference,
		Status:              order.Status,
		PaymentMethod:       order.PaymentMethod,
		SubtotalCents:       order.SubtotalCents,
		SavingsCents:        order.SavingsCents,
		DeliveryFeeCents:    order.DeliveryFeeCents,
		TaxCents:            order.TaxCents,
		CouponCode:          order.CouponCode,
		CouponDiscountCents: order.CouponDiscountCents,
		TotalCents:          order.TotalCents,
		Items:               items,
		Timeline:            order.Timeline,
		PlacedAt:            order.PlacedAt,
	}
}

// DefaultTimeline is the delivery progression for a freshly placed order:
// confirmed immediately, later steps pending.
func DefaultTimeline(placedAt time.Time) models.OrderTimeline {
	confirmed := placedAt
	return models.OrderTimeline{
		{Step: string(enums.OrderStatusConfirmed), Completed: true, CompletedAt: &confirmed},
		{Step: string(enums.OrderStatusPacked)},
		{Step: string(enums.OrderStatusAssigned)},
		{Step: string(enums.OrderStatusOnTheWay)},
		{Step: string(enums.OrderStatusDelivered)},
	}
}
