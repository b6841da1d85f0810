package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
)

// Service exposes order history reads.
type Service interface {
	ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderView, error)
	GetOrder(ctx context.Context, userID uuid.UUID, reference string) (*OrderView, error)
}

type service struct {
	repo *Repository
}

// NewService constructs an orders service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	views := make([]OrderView, 0, len(records))
	for i := range records {
		views = append(views, *ToView(&records[i]))
	}
	return views, nil
}

func (s *service) GetOrder(ctx context.Context, userID uuid.UUID, reference string) (*OrderView, error) {
	record, err := s.repo.FindByReference(ctx, userID, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return ToView(record), nil
}
