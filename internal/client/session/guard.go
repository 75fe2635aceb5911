package session

import (
	"context"

	"github.com/charadev96/officedesk/internal/client/domain"
)

// RequireAuthenticated fails with domain.ErrUnauthenticated unless a live
// session exists.
func (m *Manager) RequireAuthenticated(ctx context.Context) error {
	_, err := m.Token(ctx)
	return err
}

// RequireAdmin additionally fails with domain.ErrForbidden for non-admin roles.
func (m *Manager) RequireAdmin(ctx context.Context) error {
	if err := m.RequireAuthenticated(ctx); err != nil {
		return err
	}
	if !m.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
