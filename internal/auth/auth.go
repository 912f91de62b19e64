// Package auth verifies bearer tokens and carries the verified identity
// through the request context.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is who the token says the caller is. Email and UID are trusted.
type Identity struct {
	Email string `json:"email"`
	UID   string `json:"uid"`
	Admin bool   `json:"admin"`
}

var (
	ErrUnauthorized = errors.New("unauthorized: no token provided or malformed token")
	ErrTokenExpired = errors.New("unauthorized: token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Verifier turns a bearer credential into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type claims struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HMAC-signed tokens. Emails listed in AdminEmails are
// granted the admin role regardless of the token claim.
type JWTVerifier struct {
	Secret      []byte
	Issuer      string
	AdminEmails map[string]bool
}

func NewJWTVerifier(secret, issuer string, adminEmails []string) *JWTVerifier {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &JWTVerifier{Secret: []byte(secret), Issuer: issuer, AdminEmails: admins}
}

func (v *JWTVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrUnauthorized
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return v.Secret, nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, ErrTokenExpired
	case err != nil:
		return Identity{}, ErrInvalidToken
	}
	if c.Email == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		Email: c.Email,
		UID:   c.Subject,
		Admin: c.Admin || v.AdminEmails[strings.ToLower(c.Email)],
	}, nil
}

// Sign issues a token for id; used by ricemartctl and tests.
func (v *JWTVerifier) Sign(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Email: id.Email,
		Admin: id.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			Issuer:    v.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.Secret)
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity set by Middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// BearerToken extracts the credential from an Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// Middleware rejects requests without a valid bearer token. onError writes
// the rejection so the HTTP layer keeps control of the response format.
func Middleware(v Verifier, onError func(w http.ResponseWriter, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := v.Verify(r.Context(), BearerToken(r))
			if err != nil {
				onError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
