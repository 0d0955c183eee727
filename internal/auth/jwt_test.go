package auth_test

import (
	"errors"
	"testing"
	"time"

	"libraryhub/internal/auth"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key"

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	token, err := m.Issue("user-42", "admin")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.UserID != "user-42" {
		t.Fatalf("got userID %q, want %q", claims.UserID, "user-42")
	}

	if claims.Role != "admin" {
		t.Fatalf("got role %q, want %q", claims.Role, "admin")
	}

	if claims.ExpiresAt == nil {
		t.Fatalf("expected expiry to be set")
	}

	ttl := time.Until(claims.ExpiresAt.Time)

	if ttl > time.Hour || ttl < 59*time.Minute {
		t.Fatalf("expected ~1h ttl, got %v", ttl)
	}
}

// expiredToken signs a token with the same secret but an exp in the past.
func expiredToken(t *testing.T) string {
	t.Helper()

	past := time.Now().UTC().Add(-2 * time.Hour)

	claims := auth.Claims{
		UserID: "user-42",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
			Subject:   "user-42",
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("could not sign test token: %v", err)
	}

	return raw
}

func TestVerifyClassifiesFailures(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)
	other := auth.NewManager("a-different-secret", time.Hour)

	otherToken, err := other.Issue("user-42", "user")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "expired", token: expiredToken(t), wantErr: auth.ErrExpired},
		{name: "wrong_signature", token: otherToken, wantErr: auth.ErrInvalidSignature},
		{name: "malformed", token: "not.a.jwt", wantErr: auth.ErrMalformed},
		{name: "empty", token: "", wantErr: auth.ErrMalformed},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)

			if err == nil {
				t.Fatalf("expected error, got nil")
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
