package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charadev96/officedesk/internal/client"
	"github.com/charadev96/officedesk/internal/client/domain"
)

type command struct {
	client *client.Client
	out    io.Writer

	// confirm defaults to promptConfirm.
	confirm func(label string) (bool, error)
}

func (c *command) dispatch(ctx context.Context, args []string) error {
	name, rest := args[0], args[1:]
	sub := "list"
	if len(rest) > 0 {
		sub = rest[0]
	}

	switch name {
	case "login":
		return c.login(ctx, rest)
	case "logout":
		return c.client.Logout(ctx)
	case "whoami":
		return c.whoami(ctx)
	case "dashboard":
		return c.dashboard(ctx)
	case "employees":
		return c.employees(ctx, sub, rest)
	case "expenses":
		return c.expenses(ctx, sub, rest)
	case "attendance":
		return c.attendance(ctx, sub)
	}
	return fmt.Errorf("unknown command '%s'", name)
}

func (c *command) login(ctx context.Context, args []string) error {
	var (
		username string
		err      error
	)
	if len(args) > 0 {
		username = args[0]
	} else if username, err = promptText("Username", nonEmpty); err != nil {
		return err
	}
	password, err := promptPassword()
	if err != nil {
		return err
	}

	user, err := c.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Signed in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func (c *command) whoami(ctx context.Context) error {
	if err := c.client.Session.RequireAuthenticated(ctx); err != nil {
		return err
	}
	snap := c.client.Session.Snapshot()
	if snap.User == nil {
		return domain.ErrUnauthenticated
	}
	fmt.Fprintf(c.out, "%s (%s)", snap.User.Username, snap.User.Role)
	if snap.Admin {
		fmt.Fprint(c.out, " [admin]")
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *command) dashboard(ctx context.Context) error {
	dash, err := c.client.Dashboard(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Welcome, %s\n\n", dash.User.Username)
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Employees\t%d\n", dash.Summary.EmployeeCount)
	fmt.Fprintf(w, "Present today\t%d\n", dash.Summary.PresentToday)
	fmt.Fprintf(w, "Attendance rate\t%.1f%%\n", dash.Summary.AttendanceRate*100)
	fmt.Fprintf(w, "Expenses total\t%.2f\n", dash.Summary.ExpenseTotal)
	for category, total := range dash.Summary.ExpensesByCategory {
		fmt.Fprintf(w, "  %s\t%.2f\n", category, total)
	}
	fmt.Fprintf(w, "Attendance records\t%d\n", len(dash.Attendance))
	fmt.Fprintf(w, "Expense records\t%d\n", len(dash.Expenses))
	if dash.Employees != nil {
		fmt.Fprintf(w, "Employee records\t%d\n", len(dash.Employees))
	}
	return w.Flush()
}

func (c *command) employees(ctx context.Context, sub string, args []string) error {
	if err := c.client.Session.RequireAdmin(ctx); err != nil {
		return err
	}
	backend := c.client.API

	switch sub {
	case "list":
		emps, err := backend.ListEmployees(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tDEPARTMENT\tPOSITION\tHIRED")
		for _, e := range emps {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.FullName(), e.Email, e.Department, e.Position, formatDate(e.HiredAt))
		}
		return w.Flush()
	case "add":
		emp, err := promptEmployee()
		if err != nil {
			return err
		}
		created, err := backend.CreateEmployee(ctx, emp)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Created employee %d (%s)\n", created.ID, created.FullName())
		return nil
	case "show":
		id, err := parseID("employees show", args)
		if err != nil {
			return err
		}
		e, err := backend.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "ID\t%d\n", e.ID)
		fmt.Fprintf(w, "Name\t%s\n", e.FullName())
		fmt.Fprintf(w, "Email\t%s\n", e.Email)
		fmt.Fprintf(w, "Department\t%s\n", e.Department)
		fmt.Fprintf(w, "Position\t%s\n", e.Position)
		fmt.Fprintf(w, "Salary\t%.2f\n", e.Salary)
		fmt.Fprintf(w, "Hired\t%s\n", formatDate(e.HiredAt))
		return w.Flush()
	case "rm":
		id, err := parseID("employees rm", args)
		if err != nil {
			return err
		}
		if ok, err := c.confirmed(fmt.Sprintf("Delete employee %d", id)); err != nil || !ok {
			return err
		}
		return backend.DeleteEmployee(ctx, id)
	}
	return fmt.Errorf("unknown employees command '%s'", sub)
}

func (c *command) expenses(ctx context.Context, sub string, args []string) error {
	if err := c.client.Session.RequireAuthenticated(ctx); err != nil {
		return err
	}
	backend := c.client.API

	switch sub {
	case "list":
		exps, err := backend.ListExpenses(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
		for _, e := range exps {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n",
				e.ID, formatDate(e.Date), e.Category, e.Amount, e.Description)
		}
		return w.Flush()
	case "add":
		exp, err := promptExpense()
		if err != nil {
			return err
		}
		created, err := backend.CreateExpense(ctx, exp)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Recorded expense %d\n", created.ID)
		return nil
	case "rm":
		id, err := parseID("expenses rm", args)
		if err != nil {
			return err
		}
		if ok, err := c.confirmed(fmt.Sprintf("Delete expense %d", id)); err != nil || !ok {
			return err
		}
		if err := backend.DeleteExpense(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted expense %d\n", id)
		return nil
	}
	return fmt.Errorf("unknown expenses command '%s'", sub)
}

func (c *command) attendance(ctx context.Context, sub string) error {
	if err := c.client.Session.RequireAuthenticated(ctx); err != nil {
		return err
	}
	backend := c.client.API

	switch sub {
	case "list":
		recs, err := backend.ListAttendance(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tEMPLOYEE\tIN\tOUT\tSTATUS")
		for _, r := range recs {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
				formatDate(r.Date), r.EmployeeID, formatClock(r.CheckIn), formatClock(r.CheckOut), r.Status)
		}
		return w.Flush()
	case "in", "out":
		punch, at := backend.CheckIn, func(r domain.AttendanceRecord) time.Time { return r.CheckIn }
		if sub == "out" {
			punch, at = backend.CheckOut, func(r domain.AttendanceRecord) time.Time { return r.CheckOut }
		}
		rec, err := punch(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Checked %s at %s (%s)\n", sub, formatClock(at(rec)), rec.Status)
		return nil
	}
	return fmt.Errorf("unknown attendance command '%s'", sub)
}

func (c *command) confirmed(label string) (bool, error) {
	if c.confirm != nil {
		return c.confirm(label)
	}
	return promptConfirm(label)
}

// parseID reads the record id following the subcommand in args.
func parseID(cmd string, args []string) (int64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: %s <id>", cmd)
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id '%s'", args[1])
	}
	return id, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func formatClock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("15:04")
}
