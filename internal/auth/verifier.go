package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"realtime-service/internal/models"
	"realtime-service/internal/repositories"
)

var (
	ErrMissingToken = errors.New("auth: token required")
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrExpiredToken = errors.New("auth: token expired")
	ErrUnknownUser  = errors.New("auth: user not found")
)

// Verifier turns a bearer credential into a verified user identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.UserIdentity, error)
}

// TokenClaims mirrors the JWT payload issued by the platform's auth routes.
type TokenClaims struct {
	UserID int `json:"userId"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 tokens and resolves the user's display
// attributes from the user table.
type JWTVerifier struct {
	signingSecret []byte
	issuer        string
	users         repositories.UserRepository
	clock         func() time.Time
}

// JWTVerifierConfig describes how to validate platform-issued tokens.
type JWTVerifierConfig struct {
	SigningSecret []byte
	Issuer        string
	Clock         func() time.Time
}

// NewJWTVerifier constructs a verifier with the provided configuration.
func NewJWTVerifier(cfg JWTVerifierConfig, users repositories.UserRepository) (*JWTVerifier, error) {
	if len(cfg.SigningSecret) == 0 {
		return nil, errors.New("auth: signing secret required")
	}
	if users == nil {
		return nil, errors.New("auth: user repository required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &JWTVerifier{
		signingSecret: append([]byte(nil), cfg.SigningSecret...),
		issuer:        strings.TrimSpace(cfg.Issuer),
		users:         users,
		clock:         clock,
	}, nil
}

// Verify validates the token and returns the authenticated identity.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (models.UserIdentity, error) {
	token := strings.TrimSpace(tokenString)
	if token == "" {
		return models.UserIdentity{}, ErrMissingToken
	}

	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("%w: unexpected signing algorithm %s", ErrInvalidToken, t.Method.Alg())
			}
			return v.signingSecret, nil
		},
		jwt.WithTimeFunc(v.clock),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.UserIdentity{}, ErrExpiredToken
		}
		return models.UserIdentity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if parsed == nil || !parsed.Valid {
		return models.UserIdentity{}, ErrInvalidToken
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return models.UserIdentity{}, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return models.UserIdentity{}, ErrInvalidToken
	}

	user, err := v.users.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.UserIdentity{}, ErrUnknownUser
		}
		return models.UserIdentity{}, fmt.Errorf("auth: resolve user: %w", err)
	}
	return user, nil
}
