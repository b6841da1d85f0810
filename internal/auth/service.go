package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	pkgauth "github.com/quickcartlabs/quickcart-backend/pkg/auth"
	"github.com/quickcartlabs/quickcart-backend/pkg/config"
	pkgerrors "github.com/quickcartlabs/quickcart-backend/pkg/errors"
	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
	"github.com/quickcartlabs/quickcart-backend/pkg/security"
)

const (
	otpLength          = 6
	maxRequestsPerHour = 10
)

// OTPChallenge is the response to an OTP request. DemoCode is populated only
// outside production, mirroring the storefront's demo login flow.
type OTPChallenge struct {
	ResendAfterSeconds int    `json:"resendAfterSeconds"`
	ExpiresInSeconds   int    `json:"expiresInSeconds"`
	DemoCode           string `json:"demoCode,omitempty"`
}

// UserView is the authenticated shopper as served to clients.
type UserView struct {
	ID    uuid.UUID `json:"id"`
	Phone string    `json:"phone"`
	Name  *string   `json:"name,omitempty"`
	Email *string   `json:"email,omitempty"`
}

// LoginResult carries the minted access token.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserView  `json:"user"`
}

// Service implements the mocked OTP login flow: a code per phone number with
// a TTL, a resend window, and an attempt cap, stored hashed in redis.
type Service interface {
	RequestOTP(ctx context.Context, phone string) (*OTPChallenge, error)
	VerifyOTP(ctx context.Context, phone, code, sessionID string) (*LoginResult, error)
}

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Del(ctx context.Context, keys ...string) error
	OTPKey(phone string) string
	OTPResendKey(phone string) string
	RateLimitKey(scope string) string
}

type cartAttacher interface {
	AttachUser(ctx context.Context, sessionID string, userID uuid.UUID) error
}

type service struct {
	store  otpStore
	repo   *Repository
	carts  cartAttacher
	appCfg config.AppConfig
	otpCfg config.OTPConfig
	jwtCfg config.JWTConfig
	logg   *logger.Logger
	now    func() time.Time
}

// NewService constructs the auth service. The cart attacher may be nil when
// cart adoption on login is not wanted.
func NewService(
	store otpStore,
	repo *Repository,
	carts cartAttacher,
	appCfg config.AppConfig,
	otpCfg config.OTPConfig,
	jwtCfg config.JWTConfig,
	logg *logger.Logger,
) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("otp store required")
	}
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:  store,
		repo:   repo,
		carts:  carts,
		appCfg: appCfg,
		otpCfg: otpCfg,
		jwtCfg: jwtCfg,
		logg:   logg,
		now:    time.Now,
	}, nil
}

func (s *service) attemptsKey(phone string) string {
	return s.store.RateLimitKey("otp_verify:" + phone)
}

func (s *service) requestsKey(phone string) string {
	return s.store.RateLimitKey("otp_request:" + phone)
}

func (s *service) RequestOTP(ctx context.Context, phone string) (*OTPChallenge, error) {
	firstInWindow, err := s.store.SetNX(ctx, s.store.OTPResendKey(phone), "1", s.otpCfg.ResendWindow)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reaching otp store")
	}
	if !firstInWindow {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "please wait before requesting another code").
			WithDetails(map[string]any{"resendAfterSeconds": int(s.otpCfg.ResendWindow.Seconds())})
	}

	requests, err := s.store.IncrWithTTL(ctx, s.requestsKey(phone), time.Hour)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reaching otp store")
	}
	if requests > maxRequestsPerHour {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many codes requested, try again later")
	}

	code := s.otpCfg.DemoCode
	if s.appCfg.IsProd() {
		code, err = security.GenerateOTP(otpLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating otp")
		}
	}

	hash, err := security.HashOTP(code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing otp")
	}
	if err := s.store.Set(ctx, s.store.OTPKey(phone), hash, s.otpCfg.TTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing otp")
	}
	// a fresh code resets the attempt budget
	if err := s.store.Del(ctx, s.attemptsKey(phone)); err != nil {
		s.logg.Error(ctx, "resetting otp attempts", err)
	}

	// a real deployment would hand the code to an SMS gateway here
	challenge := &OTPChallenge{
		ResendAfterSeconds: int(s.otpCfg.ResendWindow.Seconds()),
		ExpiresInSeconds:   int(s.otpCfg.TTL.Seconds()),
	}
	if !s.appCfg.IsProd() {
		challenge.DemoCode = code
	}
	return challenge, nil
}

func (s *service) VerifyOTP(ctx context.Context, phone, code, sessionID string) (*LoginResult, error) {
	attempts, err := s.store.IncrWithTTL(ctx, s.attemptsKey(phone), s.otpCfg.TTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reaching otp store")
	}
	if s.otpCfg.MaxAttempts > 0 && attempts > int64(s.otpCfg.MaxAttempts) {
		if err := s.store.Del(ctx, s.store.OTPKey(phone)); err != nil {
			s.logg.Error(ctx, "discarding otp after attempt cap", err)
		}
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, request a new code")
	}

	stored, err := s.store.Get(ctx, s.store.OTPKey(phone))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "code expired or was never requested")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reaching otp store")
	}

	matches, err := security.VerifyOTP(code, stored)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying otp")
	}
	if !matches {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "incorrect code")
	}

	if err := s.store.Del(ctx, s.store.OTPKey(phone), s.store.OTPResendKey(phone), s.attemptsKey(phone)); err != nil {
		s.logg.Error(ctx, "consuming otp", err)
	}

	now := s.now()
	user, err := s.repo.UpsertByPhone(ctx, phone, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upserting user")
	}

	if s.carts != nil && sessionID != "" {
		if err := s.carts.AttachUser(ctx, sessionID, user.ID); err != nil {
			s.logg.Error(ctx, "adopting session cart", err)
		}
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID:    user.ID,
		Phone:     user.Phone,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.Expiration()),
		User: UserView{
			ID:    user.ID,
			Phone: user.Phone,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}
