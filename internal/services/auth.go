package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lipish/corexia/internal/data/sessions"
	"github.com/lipish/corexia/internal/observability"
	"github.com/lipish/corexia/internal/platform/ctxutil"
	"github.com/lipish/corexia/internal/platform/logger"
)

const tokenIssuer = "corexia"

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Name      string
	Email     string
}

type AuthService interface {
	// Login accepts any non-empty email; the password is not checked.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	revocations  sessions.RevocationStore
	jwtSecretKey []byte
	accessTTL    time.Duration
	now          func() time.Time
}

type accessClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

func NewAuthService(
	log *logger.Logger,
	revocations sessions.RevocationStore,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	if revocations == nil {
		revocations = sessions.NewDisabledRevocationStore()
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		revocations:  revocations,
		jwtSecretKey: []byte(jwtSecretKey),
		accessTTL:    accessTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		observability.Current().IncAuthEvent("login_rejected")
		return nil, unauthorized("email is required")
	}
	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		name = "user"
	}

	issuedAt := as.now()
	expiresAt := issuedAt.Add(as.accessTTL)
	claims := accessClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    tokenIssuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.jwtSecretKey)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	observability.Current().IncAuthEvent("login")
	as.log.Info("login", "email", email, "token_id", claims.ID)
	return &LoginResult{Token: signed, ExpiresAt: expiresAt, Name: name, Email: email}, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenID == "" {
		return unauthorized("no authenticated token in context")
	}
	ttl := rd.ExpiresAt.Sub(as.now())
	if err := as.revocations.Revoke(ctx, rd.TokenID, ttl); err != nil {
		as.log.Warn("token revocation failed", "token_id", rd.TokenID, "error", err)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	observability.Current().IncAuthEvent("logout")
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ctx, unauthorized("token expired")
		}
		return ctx, unauthorized("invalid token")
	}
	if !parsed.Valid || claims.ID == "" || claims.Subject == "" {
		return ctx, unauthorized("invalid token")
	}

	revoked, err := as.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		as.log.Warn("revocation lookup failed", "token_id", claims.ID, "error", err)
		return ctx, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if revoked {
		return ctx, unauthorized("token revoked")
	}

	rd := &ctxutil.RequestData{
		TokenID: claims.ID,
		Email:   claims.Subject,
		Name:    claims.Name,
	}
	if claims.ExpiresAt != nil {
		rd.ExpiresAt = claims.ExpiresAt.Time
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}
