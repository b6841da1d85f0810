package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quickcartlabs/quickcart-backend/api/responses"
	"github.com/quickcartlabs/quickcart-backend/api/validators"
	catalogsvc "github.com/quickcartlabs/quickcart-backend/internal/catalog"
	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// ProductList serves the browsable catalog with filtering, search and sort.
func ProductList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filters, err := parseListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products": products,
			"limit":    filters.Limit,
			"offset":   filters.Offset,
		})
	}
}

// ProductDetail serves one active product by id.
func ProductDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func parseListFilters(r *http.Request) (catalogsvc.ListFilters, error) {
	filters := catalogsvc.ListFilters{
		Search: strings.TrimSpace(r.URL.Query().Get("q")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").WithDetails(map[string]any{"field": "category"})
		}
		filters.Category = &category
	}

	switch sort := catalogsvc.SortOrder(strings.TrimSpace(r.URL.Query().Get("sort"))); sort {
	case catalogsvc.SortDefault, catalogsvc.SortPriceAsc, catalogsvc.SortPriceDesc, catalogsvc.SortDiscount:
		filters.Sort = sort
	default:
		return filters, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort order").WithDetails(map[string]any{"field": "sort"})
	}

	limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
	if err != nil {
		return filters, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<20)
	if err != nil {
		return filters, err
	}
	filters.Limit = limit
	filters.Offset = offset
	return filters, nil
}
