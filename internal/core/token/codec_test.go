package token

import (
	"testing"
	"time"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

func testCodec(t *testing.T, secret string, ttl time.Duration) *Codec {
	t.Helper()
	c, err := NewCodec(secret, "HS256", "task-tracker", "task-tracker-clients", "session", ttl)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:    7,
		Email: "joe@example.com",
		Role:  domain.RoleUser,
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := testCodec(t, "access-secret", time.Hour)

	signed, err := c.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := c.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.AccountID != 7 {
		t.Fatalf("expected account id 7, got %d", claims.AccountID)
	}
	if claims.Email != "joe@example.com" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if claims.Role != string(domain.RoleUser) {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if claims.Issuer != "task-tracker" || claims.Subject != "session" {
		t.Fatalf("unexpected registered claims: %+v", claims.RegisteredClaims)
	}
}

func TestCodec_ExpiredToken(t *testing.T) {
	c := testCodec(t, "access-secret", -time.Minute)

	signed, err := c.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := c.Verify(signed); err != ErrVerification {
		t.Fatalf("expected ErrVerification for expired token, got %v", err)
	}
}

func TestCodec_CrossClassSecrets(t *testing.T) {
	access := testCodec(t, "access-secret", time.Hour)
	refresh := testCodec(t, "refresh-secret", 24*time.Hour)

	accessToken, err := access.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	refreshToken, err := refresh.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := refresh.Verify(accessToken); err != ErrVerification {
		t.Fatalf("access token must not verify against refresh secret, got %v", err)
	}
	if _, err := access.Verify(refreshToken); err != ErrVerification {
		t.Fatalf("refresh token must not verify against access secret, got %v", err)
	}
}

func TestCodec_ClaimMismatch(t *testing.T) {
	issue := testCodec(t, "secret", time.Hour)
	signed, err := issue.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name                      string
		issuer, audience, subject string
	}{
		{"issuer", "other-issuer", "task-tracker-clients", "session"},
		{"audience", "task-tracker", "other-audience", "session"},
		{"subject", "task-tracker", "task-tracker-clients", "other-subject"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verify, err := NewCodec("secret", "HS256", tc.issuer, tc.audience, tc.subject, time.Hour)
			if err != nil {
				t.Fatalf("NewCodec: %v", err)
			}
			if _, err := verify.Verify(signed); err != ErrVerification {
				t.Fatalf("expected ErrVerification for %s mismatch, got %v", tc.name, err)
			}
		})
	}
}

func TestCodec_GarbageToken(t *testing.T) {
	c := testCodec(t, "secret", time.Hour)
	if _, err := c.Verify("not-a-token"); err != ErrVerification {
		t.Fatalf("expected ErrVerification, got %v", err)
	}
}

func TestNewCodec_RejectsBadConfig(t *testing.T) {
	if _, err := NewCodec("", "HS256", "iss", "aud", "sub", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewCodec("secret", "HS999", "iss", "aud", "sub", time.Hour); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}
	if _, err := NewCodec("secret", "RS256", "iss", "aud", "sub", time.Hour); err == nil {
		t.Fatalf("expected error for asymmetric algorithm")
	}
}
