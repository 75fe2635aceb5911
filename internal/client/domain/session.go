package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

var (
	// ErrDecode marks a token whose structure or claims cannot be read.
	ErrDecode = errors.New("malformed token")
	// ErrExpired marks a well-formed token whose exp claim has passed.
	ErrExpired = errors.New("token expired")

	ErrUnauthenticated = errors.New("not signed in")
	ErrForbidden       = errors.New("administrator role required")
)

type SessionState int

const (
	StateUnknown SessionState = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

type User struct {
	Username string
	Role     string
}

// Session is the signed-in identity derived from a persisted token.
type Session struct {
	User      User
	RawToken  string
	ExpiresAt time.Time
}
