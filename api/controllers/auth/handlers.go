package auth

import (
	"net/http"

	"github.com/quickcartlabs/quickcart-backend/api/middleware"
	"github.com/quickcartlabs/quickcart-backend/api/responses"
	"github.com/quickcartlabs/quickcart-backend/api/validators"
	authsvc "github.com/quickcartlabs/quickcart-backend/internal/auth"
	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
)

type otpRequestBody struct {
	Phone string `json:"phone" validate:"required,min=8,max=16"`
}

type otpVerifyBody struct {
	Phone string `json:"phone" validate:"required,min=8,max=16"`
	Code  string `json:"code" validate:"required,len=6"`
}

// OTPRequest sends (or in demo mode, returns) a one-time code for the phone.
func OTPRequest(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload otpRequestBody
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		challenge, err := svc.RequestOTP(r.Context(), payload.Phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, challenge)
	}
}

// OTPVerify exchanges a valid code for an access token. The guest cart bound
// to the session header is adopted by the logged-in shopper.
func OTPVerify(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload otpVerifyBody
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		result, err := svc.VerifyOTP(r.Context(), payload.Phone, payload.Code, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
