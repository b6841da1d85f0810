package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  reference TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  session_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'confirmed',
  payment_method TEXT NOT NULL,
  subtotal_cents INTEGER NOT NULL,
  savings_cents INTEGER NOT NULL DEFAULT 0,
  delivery_fee_cents INTEGER NOT NULL DEFAULT 0,
  tax_cents INTEGER NOT NULL DEFAULT 0,
  coupon_code TEXT,
  coupon_discount_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL,
  timeline TEXT,
  placed_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	require.NoError(t, db.Exec("DELETE FROM order_line_items").Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	return db
}

func buildOrder(userID uuid.UUID, reference string, placedAt time.Time) *models.Order {
	return &models.Order{
		Reference:     reference,
		UserID:        userID,
		SessionID:     "session-" + reference,
		Status:        enums.OrderStatusConfirmed,
		PaymentMethod: enums.PaymentMethodCOD,
		SubtotalCents: 42900,
		TotalCents:    45800,
		Timeline:      DefaultTimeline(placedAt),
		PlacedAt:      placedAt,
		LineItems: []models.OrderLineItem{
			{
				ProductID:      uuid.New(),
				ProductName:    "Toor Dal",
				Quantity:       3,
				UnitPriceCents: 14300,
				LineTotalCents: 42900,
			},
		},
	}
}

func TestCreateAssignsIDsAndLinksLineItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, buildOrder(uuid.New(), "ORD1000", time.Now().UTC()))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	require.Len(t, created.LineItems, 1)
	assert.NotEqual(t, uuid.Nil, created.LineItems[0].ID)
	assert.Equal(t, created.ID, created.LineItems[0].OrderID)
}

func TestFindByReferenceScopedToUser(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	_, err := repo.Create(ctx, buildOrder(owner, "ORD2000", time.Now().UTC()))
	require.NoError(t, err)

	found, err := repo.FindByReference(ctx, owner, "ORD2000")
	require.NoError(t, err)
	assert.Equal(t, "ORD2000", found.Reference)
	require.Len(t, found.LineItems, 1)
	assert.Equal(t, "Toor Dal", found.LineItems[0].ProductName)

	// another user must not see it
	_, err = repo.FindByReference(ctx, uuid.New(), "ORD2000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, buildOrder(owner, "ORD3000", base))
	require.NoError(t, err)
	_, err = repo.Create(ctx, buildOrder(owner, "ORD3001", base.Add(2*time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, buildOrder(uuid.New(), "ORD3002", base.Add(time.Hour)))
	require.NoError(t, err)

	listed, err := repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "ORD3001", listed[0].Reference)
	assert.Equal(t, "ORD3000", listed[1].Reference)
}

func TestServiceMapsMissingOrderToNotFound(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), uuid.New(), "ORD9999")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceListReturnsViews(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	owner := uuid.New()
	order := buildOrder(owner, "ORD4000", time.Now().UTC())
	code := "SAVE20"
	order.CouponCode = &code
	order.CouponDiscountCents = 10000
	_, err = repo.Create(ctx, order)
	require.NoError(t, err)

	views, err := svc.ListOrders(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.EqualValues(t, 45800, views[0].TotalCents)
	require.NotNil(t, views[0].CouponCode)
	assert.Equal(t, "SAVE20", *views[0].CouponCode)
	require.Len(t, views[0].Timeline, 5)
}
