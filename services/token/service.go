package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/OliveroJ16/inventory-system-api/config"
	"github.com/OliveroJ16/inventory-system-api/services/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrPurposeMismatch  = errors.New("token purpose mismatch")
)

// Purpose tags a token as usable for ordinary requests or for refresh only.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

type Claims struct {
	UserID  string  `json:"user_id"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed HS256 tokens. It performs no I/O;
// the signing key and TTLs are fixed at construction.
type Service struct {
	config *config.Config
	logger *logging.Service
	now    func() time.Time
}

func NewService(cfg *config.Config, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the time source. Intended for expiry tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) AccessExpiry() time.Duration {
	return s.config.JWT.AccessExpiry
}

func (s *Service) RefreshExpiry() time.Duration {
	return s.config.JWT.RefreshExpiry
}

// GenerateAccessToken mints a short-lived token proving recent authentication.
func (s *Service) GenerateAccessToken(userID string) (string, error) {
	return s.generate(userID, PurposeAccess, s.config.JWT.AccessExpiry)
}

// GenerateRefreshToken mints a longer-lived token usable only to obtain a
// new access/refresh pair.
func (s *Service) GenerateRefreshToken(userID string) (string, error) {
	return s.generate(userID, PurposeRefresh, s.config.JWT.RefreshExpiry)
}

func (s *Service) generate(userID string, purpose Purpose, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.config.JWT.Issuer,
			Subject:   userID,
			Audience:  []string{s.config.JWT.Issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.config.JWT.SecretKey))
	if err != nil {
		s.logger.Error("failed to sign token",
			zap.String("purpose", string(purpose)),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s token: %w", purpose, err)
	}

	return signed, nil
}

// ValidateToken verifies signature and expiry and checks that the token was
// minted for the expected purpose. An access token presented where a refresh
// token is required (or vice versa) fails with ErrPurposeMismatch.
func (s *Service) ValidateToken(tokenString string, expected Purpose) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() == "none" {
			return nil, errors.New("'none' algorithm is not allowed")
		}

		if t.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected algorithm: expected HS256, got %s", t.Method.Alg())
		}

		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid algorithm family: %v", t.Header["alg"])
		}

		return []byte(s.config.JWT.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		s.logger.Warn("token validation failed", zap.Error(err))

		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Purpose != expected {
		s.logger.Warn("token purpose mismatch",
			zap.String("expected", string(expected)),
			zap.String("got", string(claims.Purpose)))
		return nil, ErrPurposeMismatch
	}

	return claims, nil
}
