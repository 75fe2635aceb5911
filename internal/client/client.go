package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/charadev96/officedesk/internal/client/api"
	"github.com/charadev96/officedesk/internal/client/domain"
	"github.com/charadev96/officedesk/internal/client/session"
)

type Client struct {
	Session *session.Manager
	API     *api.Client
	Logger  *zerolog.Logger
}

func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	tok, err := c.API.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to log in as '%s': %w", username, err)
	}
	if err := c.Session.SignIn(ctx, tok); err != nil {
		return nil, err
	}

	c.Logger.Info().
		Str("username", username).
		Str("address", c.API.BaseURL).
		Msg("logged in")

	return c.Session.CurrentUser(), nil
}

func (c *Client) Logout(ctx context.Context) error {
	user := c.Session.CurrentUser()
	if err := c.Session.SignOut(ctx); err != nil {
		return err
	}
	if user != nil {
		c.Logger.Info().
			Str("username", user.Username).
			Msg("logged out")
	}
	return nil
}

// Dashboard is everything the landing view shows. Employees is only filled
// for administrators.
type Dashboard struct {
	User       domain.User
	Summary    domain.AnalyticsSummary
	Attendance []domain.AttendanceRecord
	Expenses   []domain.Expense
	Employees  []domain.Employee
}

func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	dash := Dashboard{}
	if err := c.Session.RequireAuthenticated(ctx); err != nil {
		return dash, err
	}
	user := c.Session.CurrentUser()
	if user == nil {
		return dash, domain.ErrUnauthenticated
	}
	dash.User = *user

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := c.API.AnalyticsSummary(ctx)
		if err != nil {
			return fmt.Errorf("failed to get analytics summary: %w", err)
		}
		dash.Summary = sum
		return nil
	})
	g.Go(func() error {
		recs, err := c.API.ListAttendance(ctx)
		if err != nil {
			return fmt.Errorf("failed to get attendance: %w", err)
		}
		dash.Attendance = recs
		return nil
	})
	g.Go(func() error {
		exps, err := c.API.ListExpenses(ctx)
		if err != nil {
			return fmt.Errorf("failed to get expenses: %w", err)
		}
		dash.Expenses = exps
		return nil
	})
	if c.Session.IsAdmin() {
		g.Go(func() error {
			emps, err := c.API.ListEmployees(ctx)
			if err != nil {
				return fmt.Errorf("failed to get employees: %w", err)
			}
			dash.Employees = emps
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			c.Logger.Warn().
				Msg("session rejected while loading dashboard")
		}
		return dash, err
	}
	return dash, nil
}
