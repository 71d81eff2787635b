package utils

import (
	"testing"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateToken(testSecret, "tests", userID, "host@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, appErr := ValidateAndParseToken(token, testSecret)
	if appErr != nil {
		t.Fatalf("ValidateAndParseToken: %v", appErr)
	}
	if claims.UserID != userID || claims.Email != "host@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _ := GenerateToken(testSecret, "tests", uuid.New(), "", time.Hour)
	_, appErr := ValidateAndParseToken(token, "other")
	if appErr == nil || appErr.Code != errors.ErrInvalidTokenFormat {
		t.Fatalf("expected invalid token error, got %v", appErr)
	}
}

func TestParseTokenReportsExpiry(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	claims := TokenClaims{
		UserID: uuid.New(),
		Scope:  constants.ScopeTokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, appErr := ValidateAndParseToken(token, testSecret); appErr == nil || appErr.Code != errors.ErrTokenExpired {
		t.Fatalf("expected expired token error, got %v", appErr)
	}
}

func TestGenerateTokenDefaultsTTL(t *testing.T) {
	token, _ := GenerateToken(testSecret, "tests", uuid.New(), "", 0)
	if _, appErr := ValidateAndParseToken(token, testSecret); appErr != nil {
		t.Fatalf("token with default ttl should be valid: %v", appErr)
	}
}

func TestGetTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
		code   errors.ErrorCode
	}{
		{"Bearer abc.def", "abc.def", 0},
		{"bearer abc", "abc", 0},
		{"", "", errors.ErrMissingAuthorizationHeader},
		{"Basic abc", "", errors.ErrInvalidTokenFormat},
		{"Bearer ", "", errors.ErrInvalidTokenFormat},
	}
	for _, tt := range tests {
		got, appErr := GetTokenFromHeader(tt.header)
		if tt.code != 0 {
			if appErr == nil || appErr.Code != tt.code {
				t.Errorf("GetTokenFromHeader(%q) error = %v, want code %d", tt.header, appErr, tt.code)
			}
			continue
		}
		if appErr != nil || got != tt.want {
			t.Errorf("GetTokenFromHeader(%q) = %q, %v", tt.header, got, appErr)
		}
	}
}

func TestGenerateRequestIDAlphabet(t *testing.T) {
	id := GenerateRequestID()
	if len(id) != 26 {
		t.Fatalf("len = %d", len(id))
	}
	for _, r := range id {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'v') {
			t.Fatalf("id %q contains %q outside base32hex", id, r)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	for in, want := range map[string]bool{
		"guest@example.com": true,
		"":                  false,
		"not-an-email":      false,
		"Guest <g@x.io>":    false,
	} {
		if got := IsValidEmail(in); got != want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", in, got, want)
		}
	}
}
