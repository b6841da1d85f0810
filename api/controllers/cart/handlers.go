package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quickcartlabs/quickcart-backend/api/middleware"
	"github.com/quickcartlabs/quickcart-backend/api/responses"
	"github.com/quickcartlabs/quickcart-backend/api/validators"
	cartsvc "github.com/quickcartlabs/quickcart-backend/internal/carts"
	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
)

type addItemBody struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type updateItemBody struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type applyCouponBody struct {
	Code string `json:"code" validate:"required,min=1,max=32"`
}

// Fetch returns the priced view of the session's cart.
func Fetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handleCartView(w, r, svc, logg, func(sessionID string) (*cartsvc.CartView, error) {
			return svc.GetCart(r.Context(), sessionID)
		})
	}
}

// AddItem puts a product in the cart, clamping to the per-order limit.
func AddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemBody
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		handleCartView(w, r, svc, logg, func(sessionID string) (*cartsvc.CartView, error) {
			return svc.AddItem(r.Context(), sessionID, payload.ProductID, payload.Quantity)
		})
	}
}

// UpdateItem sets an exact quantity; zero removes the line.
func UpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		var payload updateItemBody
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		handleCartView(w, r, svc, logg, func(sessionID string) (*cartsvc.CartView, error) {
			return svc.UpdateItem(r.Context(), sessionID, productID, payload.Quantity)
		})
	}
}

// RemoveItem drops a line; removing an absent product is a no-op.
func RemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		handleCartView(w, r, svc, logg, func(sessionID string) (*cartsvc.CartView, error) {
			return svc.RemoveItem(r.Context(), sessionID, productID)
		})
	}
}

// Clear empties the cart and resets any applied coupon.
func Clear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handleCartView(w, r, svc, logg, func(sessionID string) (*cartsvc.CartView, error) {
			return svc.Clear(r.Context(), sessionID)
		})
	}
}

// ApplyCoupon attaches a coupon code; minimum-subtotal failures are rejected
// with the shortfall in the details.
func ApplyCoupon(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload applyCouponBody
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		handleCartView(w, r, svc, logg, func(sessionID string) (*cartsvc.CartView, error) {
			return svc.ApplyCoupon(r.Context(), sessionID, payload.Code)
		})
	}
}

// RemoveCoupon detaches the stored coupon code.
func RemoveCoupon(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handleCartView(w, r, svc, logg, func(sessionID string) (*cartsvc.CartView, error) {
			return svc.RemoveCoupon(r.Context(), sessionID)
		})
	}
}

func handleCartView(
	w http.ResponseWriter,
	r *http.Request,
	svc cartsvc.Service,
	logg *logger.Logger,
	op func(sessionID string) (*cartsvc.CartView, error),
) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing session id"))
		return
	}
	view, err := op(sessionID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, view)
}
