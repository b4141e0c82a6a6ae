// Package auth decodes and validates bearer credentials into a Principal.
// It never issues tokens; it only verifies what the auth backend signed.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel error kinds returned by Verify. Route-level guards translate
// these into HTTP responses; the pipeline auth stage swallows all of them.
var (
	ErrMalformedAuth = errors.New("malformed authorization header")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
)

// RoleAdmin is the privileged role value; any other value (including the
// zero value, normalized to RoleUser) is unprivileged.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the identity extracted from a verified credential. It is
// read-only after creation and lives only for the request.
type Principal struct {
	Subject string
	Email   string
	Role    string
	Exp     time.Time
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// claims is the JWT payload shape this gateway expects from the auth
// backend: a registered subject/expiry plus an optional email and role.
type claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier decodes Authorization header values into Principals using a
// configured symmetric key and algorithm.
type Verifier struct {
	secret    []byte
	algorithm string
}

// NewVerifier constructs a Verifier. algorithm is currently expected to be
// "HS256"; other HMAC variants are accepted by the underlying library but
// untested here.
func NewVerifier(secret, algorithm string) *Verifier {
	if algorithm == "" {
		algorithm = "HS256"
	}
	return &Verifier{secret: []byte(secret), algorithm: algorithm}
}

// Verify decodes and validates an Authorization header value, returning a
// Principal on success or one of ErrMalformedAuth/ErrInvalidToken/
// ErrExpiredToken on failure.
func (v *Verifier) Verify(authorizationHeader string) (Principal, error) {
	token, err := v.extractBearer(authorizationHeader)
	if err != nil {
		return Principal{}, err
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{v.algorithm}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrExpiredToken
		}
		return Principal{}, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return Principal{}, ErrInvalidToken
	}

	subject := c.Subject
	if subject == "" {
		return Principal{}, ErrInvalidToken
	}

	role := c.Role
	if role == "" {
		role = RoleUser
	}

	var exp time.Time
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time
	}

	return Principal{
		Subject: subject,
		Email:   c.Email,
		Role:    role,
		Exp:     exp,
	}, nil
}

func (v *Verifier) extractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMalformedAuth
	}
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMalformedAuth
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrMalformedAuth
	}
	return token, nil
}
