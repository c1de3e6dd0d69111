// Package token implements the signed-claims codec used for access and
// refresh tokens. A Codec is bound to a single token class: its own secret
// and validity window, with the issuer/audience/subject shared by both
// classes. Tokens are never stored server-side; validity is determined
// entirely by signature and claim checks at verification time, so revocation
// before natural expiry is not possible.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// ErrVerification is returned for every verification failure — bad signature,
// expired token, mismatched issuer/audience/subject. Callers cannot tell
// which check failed.
var ErrVerification = errors.New("token verification failed")

// Claims is the payload embedded in every issued token.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Codec signs and verifies tokens of one class (access or refresh).
type Codec struct {
	secret   []byte
	method   jwt.SigningMethod
	issuer   string
	audience string
	subject  string
	ttl      time.Duration
}

// NewCodec builds a Codec. Only symmetric HMAC algorithms are accepted; an
// unknown or non-HMAC algorithm identifier is a configuration error and
// should be fatal at startup.
func NewCodec(secret, algorithm, issuer, audience, subject string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token: algorithm %q is not symmetric", algorithm)
	}
	return &Codec{
		secret:   []byte(secret),
		method:   method,
		issuer:   issuer,
		audience: audience,
		subject:  subject,
		ttl:      ttl,
	}, nil
}

// TTL returns the validity window tokens are issued with.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue produces a signed token asserting the account's id, email, and role.
func (c *Codec) Issue(account *domain.Account) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			Subject:   c.subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		AccountID: account.ID,
		Email:     account.Email,
		Role:      string(account.Role),
	}

	t := jwt.NewWithClaims(c.method, claims)
	return t.SignedString(c.secret)
}

// Verify checks signature integrity, expiry, and exact issuer/audience/
// subject match. Every failure collapses into ErrVerification.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithSubject(c.subject),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrVerification
	}
	return claims, nil
}
