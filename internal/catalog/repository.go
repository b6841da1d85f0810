package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickcartlabs/quickcart-backend/pkg/db/models"
	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
)

// SortOrder names the supported product list orderings.
type SortOrder string

const (
	SortDefault   SortOrder = ""
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortDiscount  SortOrder = "discount"
)

// ListFilters narrows a product listing.
type ListFilters struct {
	Category *enums.ProductCategory
	Search   string
	Sort     SortOrder
	Limit    int
	Offset   int
}

// Repository provides read access to the product catalog.
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

// FindByID loads a product regardless of active state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveByID loads a product that is currently listed.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns active products matching the filters, in the requested order.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}

	if term := strings.TrimSpace(filters.Search); term != "" {
		needle := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(alt_name, '')) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(CAST(keywords AS TEXT)) LIKE ?",
			needle, needle, needle, needle,
		)
	}

	switch filters.Sort {
	case SortPriceAsc:
		query = query.Order("price_cents ASC")
	case SortPriceDesc:
		query = query.Order("price_cents DESC")
	case SortDiscount:
		query = query.Order("COALESCE(original_price_cents - price_cents, 0) DESC")
	default:
		query = query.Order("name ASC")
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// FindByIDs loads products in bulk, keyed by ID. Missing IDs are absent from
// the result rather than an error.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	byID := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// DecrementStock reduces a product's stock by the ordered quantity. The guard
// clause keeps stock from going negative under concurrent checkouts.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty >= ?", id, qty).
		UpdateColumn("stock_qty", gorm.Expr("stock_qty - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
