package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  alt_name TEXT,
  brand TEXT NOT NULL,
  category TEXT NOT NULL,
  unit TEXT NOT NULL,
  keywords TEXT NOT NULL DEFAULT '{}',
  price_cents INTEGER NOT NULL,
  original_price_cents INTEGER,
  max_per_order INTEGER NOT NULL DEFAULT 10,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec("DELETE FROM products").Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, mutate func(*models.Product)) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:          uuid.New(),
		SKU:         uuid.NewString(),
		Name:        "Toned Milk",
		Brand:       "Gokul",
		Category:    enums.ProductCategoryDairy,
		Unit:        "1 L",
		Keywords:    []string{"milk"},
		PriceCents:  6600,
		MaxPerOrder: 10,
		StockQty:    50,
		IsActive:    true,
	}
	if mutate != nil {
		mutate(product)
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestFindActiveByIDSkipsInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	active := seedProduct(t, db, nil)
	inactive := seedProduct(t, db, func(p *models.Product) {
		p.IsActive = false
		p.Name = "Delisted"
	})

	found, err := repo.FindActiveByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, found.ID)

	_, err = repo.FindActiveByID(ctx, inactive.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateStoresInactiveFlagExplicitly(t *testing.T) {
	db := setupCatalogTestDB(t)

	inactive := seedProduct(t, db, func(p *models.Product) {
		p.IsActive = false
	})

	// the false must reach the row; a column default would flip it to active
	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", inactive.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestListFiltersByCategory(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, nil)
	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Onion"
		p.Category = enums.ProductCategoryVegetables
	})

	category := enums.ProductCategoryVegetables
	listed, err := repo.List(ctx, ListFilters{Category: &category})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Onion", listed[0].Name)
}

func TestListSearchMatchesNameAltNameAndKeywords(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Onion"
		alt := "Pyaaz"
		p.AltName = &alt
		p.Keywords = []string{"onion", "pyaaz"}
	})
	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Tomato"
		p.Keywords = []string{"tamatar"}
	})

	byAltName, err := repo.List(ctx, ListFilters{Search: "pyaaz"})
	require.NoError(t, err)
	require.Len(t, byAltName, 1)
	assert.Equal(t, "Onion", byAltName[0].Name)

	byKeyword, err := repo.List(ctx, ListFilters{Search: "TAMATAR"})
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
	assert.Equal(t, "Tomato", byKeyword[0].Name)
}

func TestListSortsByPriceAndDiscount(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Cheap"
		p.PriceCents = 1000
	})
	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Deal"
		p.PriceCents = 5000
		original := int64(9000)
		p.OriginalPriceCents = &original
	})
	seedProduct(t, db, func(p *models.Product) {
		p.Name = "Premium"
		p.PriceCents = 20000
	})

	asc, err := repo.List(ctx, ListFilters{Sort: SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, "Cheap", asc[0].Name)
	assert.Equal(t, "Premium", asc[2].Name)

	desc, err := repo.List(ctx, ListFilters{Sort: SortPriceDesc})
	require.NoError(t, err)
	assert.Equal(t, "Premium", desc[0].Name)

	byDiscount, err := repo.List(ctx, ListFilters{Sort: SortDiscount})
	require.NoError(t, err)
	assert.Equal(t, "Deal", byDiscount[0].Name)
}

func TestDecrementStockGuardsAgainstOverdraw(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, func(p *models.Product) {
		p.StockQty = 3
	})

	require.NoError(t, repo.DecrementStock(ctx, product.ID, 2))

	err := repo.DecrementStock(ctx, product.ID, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.StockQty)
}
