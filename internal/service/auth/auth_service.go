package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/errors"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

const issuer = "canvass-api"

// Service implements the AuthService interface with HS256 bearer tokens
type Service struct {
	secret []byte
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new auth service
func NewService(secret string, logger *logger.Logger) service.AuthService {
	return &Service{
		secret: []byte(secret),
		logger: logger,
		now:    time.Now,
	}
}

// ValidateToken verifies the signature and expiry of a bearer token and
// returns the actor id carried in its subject.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	if len(s.secret) == 0 {
		s.logger.Error("JWT secret not configured")
		return "", errors.NewAuthenticationError("Token validation not configured")
	}
	if !isJWTToken(tokenString) {
		return "", errors.NewAuthenticationError("Unrecognized token format")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		s.logger.WithError(err).Debug("Failed to validate JWT token")
		return "", errors.NewAuthenticationError("Invalid or expired token")
	}

	if claims.Subject == "" {
		return "", errors.NewAuthenticationError("Invalid token: no actor identifier")
	}
	return claims.Subject, nil
}

// IssueToken signs a token for actorID valid for ttl
func (s *Service) IssueToken(actorID string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.NewInternalError("Token signing not configured", nil)
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   actorID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.NewInternalError("Failed to sign token", err)
	}
	return signed, nil
}

// isJWTToken reports whether token has exactly three dot-separated segments
func isJWTToken(token string) bool {
	if len(token) == 0 {
		return false
	}

	dotCount := 0
	for _, char := range token {
		if char == '.' {
			dotCount++
		}
	}
	return dotCount == 2
}
