package utils

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims identifies the authenticated host.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Scope  string    `json:"scope"`
	jwt.RegisteredClaims
}

func GenerateToken(secret, issuer string, userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = constants.TokenTTL
	}
	now := time.Now()
	claims := TokenClaims{
		UserID: userID,
		Email:  email,
		Scope:  constants.ScopeTokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateAndParseToken(tokenString, secret string) (*TokenClaims, *errors.AppError) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if stdErrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "Token expired", err)
		}
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "Invalid token", err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "Invalid token", nil)
	}
	if claims.Scope != constants.ScopeTokenAccess {
		return nil, errors.NewAppError(errors.ErrForbidden, "Token scope not allowed", nil)
	}
	return claims, nil
}

// GetTokenFromHeader extracts the bearer token from an Authorization header value.
func GetTokenFromHeader(header string) (string, *errors.AppError) {
	if header == "" {
		return "", errors.NewAppError(errors.ErrMissingAuthorizationHeader, "Missing authorization header", nil)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.NewAppError(errors.ErrInvalidTokenFormat, "Invalid authorization header format", nil)
	}
	return strings.TrimSpace(parts[1]), nil
}
