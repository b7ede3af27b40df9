package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. Callers decide whether a failure is fatal:
// the pipeline auth stage downgrades all of these to "unauthenticated",
// route guards translate them to 401 responses.
var (
	ErrMalformedAuth = errors.New("missing or malformed authorization header")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the identity carried by a verified bearer token. It is
// read-only after creation and lives for the request.
type Principal struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time
}

func (p *Principal) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }

// Verifier decodes and validates bearer credentials with a shared
// symmetric key. Verification is purely in-memory; it never blocks.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret []byte, algorithm string) *Verifier {
	if algorithm == "" {
		algorithm = "HS256"
	}
	return &Verifier{
		secret: secret,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{algorithm})),
	}
}

// Verify checks an Authorization header value and returns the Principal it
// carries. The scheme comparison is case-insensitive per RFC 7235.
func (v *Verifier) Verify(authorization string) (*Principal, error) {
	const scheme = "bearer "
	if len(authorization) <= len(scheme) || !strings.EqualFold(authorization[:len(scheme)], scheme) {
		return nil, ErrMalformedAuth
	}
	raw := strings.TrimSpace(authorization[len(scheme):])
	if raw == "" {
		return nil, ErrMalformedAuth
	}

	claims := jwt.MapClaims{}
	tok, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	p := &Principal{Subject: sub, Role: RoleUser}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		p.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Time
	}
	return p, nil
}
