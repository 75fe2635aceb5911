// Package token reads the claims of backend-issued access tokens.
//
// Tokens are JWTs: three dot-separated base64url segments. Only the header and
// payload are decoded, the signature is left to the backend, which checks it
// on every API call.
package token

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/charadev96/officedesk/internal/client/domain"
)

type Claims struct {
	Subject string
	// Role is the effective role: the first entry of the role claim.
	Role      string
	Roles     []string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired reports whether the token is no longer valid at now. A token whose
// exp equals now is expired.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// Decode extracts the claims of raw without verifying its signature. Every
// failure wraps domain.ErrDecode.
func Decode(raw string) (Claims, error) {
	var (
		claims  Claims
		payload accessClaims
	)
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &payload); err != nil {
		return claims, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	if payload.Subject == "" {
		return claims, fmt.Errorf("%w: missing sub claim", domain.ErrDecode)
	}
	if payload.ExpiresAt == nil {
		return claims, fmt.Errorf("%w: missing exp claim", domain.ErrDecode)
	}
	if len(payload.Role) == 0 || payload.Role[0] == "" {
		return claims, fmt.Errorf("%w: missing role claim", domain.ErrDecode)
	}

	claims = Claims{
		Subject:   payload.Subject,
		Role:      payload.Role[0],
		Roles:     []string(payload.Role),
		ExpiresAt: payload.ExpiresAt.Time,
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time
	}
	return claims, nil
}

type accessClaims struct {
	jwt.RegisteredClaims
	Role roleClaim `json:"role"`
}

// roleClaim only accepts a JSON array of strings. A bare string is rejected
// rather than coerced.
type roleClaim []string

func (r *roleClaim) UnmarshalJSON(data []byte) error {
	var roles []string
	if err := json.Unmarshal(data, &roles); err != nil {
		return fmt.Errorf("role claim must be an array of strings: %w", err)
	}
	*r = roles
	return nil
}
