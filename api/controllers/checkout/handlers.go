package checkout

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/quickcartlabs/quickcart-backend/api/middleware"
	"github.com/quickcartlabs/quickcart-backend/api/responses"
	"github.com/quickcartlabs/quickcart-backend/api/validators"
	checkoutsvc "github.com/quickcartlabs/quickcart-backend/internal/checkout"
	"github.com/quickcartlabs/quickcart-backend/pkg/enums"
	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
)

type placeOrderBody struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

// PlaceOrder converts the session's cart into a confirmed order. Totals come
// from a server-side reprice of the stored cart, never from the request.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to place an order"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing session id"))
			return
		}

		var payload placeOrderBody
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.PlaceOrder(r.Context(), sessionID, userID, checkoutsvc.Input{
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}
