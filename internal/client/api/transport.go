package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/charadev96/officedesk/internal/client/domain"
)

const HeaderRequestID = "X-Request-ID"

type skipAuthKey struct{}

// withoutAuth marks requests that must not carry the session token.
func withoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipAuthKey{}, true)
}

func skipAuth(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuthKey{}).(bool)
	return skip
}

type requestIDTransport struct {
	next http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(HeaderRequestID) != "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set(HeaderRequestID, uuid.NewString())
	return t.next.RoundTrip(req)
}

type loggingTransport struct {
	next   http.RoundTripper
	logger *zerolog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	event := t.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Dur("elapsed", time.Since(start))
	if err != nil {
		event.Err(err).Msg("request failed")
		return resp, err
	}
	event.Int("status", resp.StatusCode).Msg("request completed")
	return resp, nil
}

// bearerTransport attaches the session token when one exists. Requests
// without a session go out bare and the backend decides.
type bearerTransport struct {
	next    http.RoundTripper
	session Session
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if skipAuth(req.Context()) {
		return t.next.RoundTrip(req)
	}
	tok, err := t.session.Token(req.Context())
	if errors.Is(err, domain.ErrUnauthenticated) {
		return t.next.RoundTrip(req)
	}
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, err
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+tok)
	return t.next.RoundTrip(req)
}

// unauthorizedTransport signs the session out when the backend rejects the
// token it was sent.
type unauthorizedTransport struct {
	next    http.RoundTripper
	session Session
	logger  *zerolog.Logger
}

func (t *unauthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode == http.StatusUnauthorized && req.Header.Get("Authorization") != "" {
		t.logger.Warn().
			Str("path", req.URL.Path).
			Msg("token rejected by backend, signing out")
		if err := t.session.SignOut(req.Context()); err != nil {
			t.logger.Error().
				Err(err).
				Msg("failed to sign out")
		}
	}
	return resp, nil
}
