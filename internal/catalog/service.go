package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
)

// Service exposes catalog read operations.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, filters ListFilters) ([]ProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return toDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, filters ListFilters) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *toDTO(&products[i]))
	}
	return dtos, nil
}
