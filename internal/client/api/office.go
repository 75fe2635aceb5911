package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charadev96/officedesk/internal/client/domain"
)

type employee struct {
	ID         int64   `json:"id,omitempty"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	Salary     float64 `json:"salary"`
	HiredAt    apiTime `json:"hireDate"`
}

type expense struct {
	ID          int64   `json:"id,omitempty"`
	EmployeeID  int64   `json:"employeeId"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Date        apiTime `json:"date"`
}

type attendanceRecord struct {
	ID         int64                   `json:"id"`
	EmployeeID int64                   `json:"employeeId"`
	Date       apiTime                 `json:"date"`
	CheckIn    apiTime                 `json:"checkIn"`
	CheckOut   apiTime                 `json:"checkOut"`
	Status     domain.AttendanceStatus `json:"status"`
}

type analyticsSummary struct {
	EmployeeCount      int                `json:"totalEmployees"`
	ExpenseTotal       float64            `json:"totalExpenses"`
	ExpensesByCategory map[string]float64 `json:"expensesByCategory"`
	AttendanceRate     float64            `json:"attendanceRate"`
	PresentToday       int                `json:"presentToday"`
}

func (c *Client) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var reply []employee
	if err := c.do(ctx, http.MethodGet, "/api/employees", nil, &reply); err != nil {
		return nil, err
	}
	out := make([]domain.Employee, 0, len(reply))
	if err := copyInto(&out, &reply); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEmployee(ctx context.Context, id int64) (domain.Employee, error) {
	var (
		reply employee
		out   domain.Employee
	)
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/employees/%d", id), nil, &reply); err != nil {
		return out, err
	}
	err := copyInto(&out, &reply)
	return out, err
}

func (c *Client) CreateEmployee(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	return c.saveEmployee(ctx, http.MethodPost, "/api/employees", e)
}

func (c *Client) UpdateEmployee(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	return c.saveEmployee(ctx, http.MethodPut, fmt.Sprintf("/api/employees/%d", e.ID), e)
}

func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/employees/%d", id), nil, nil)
}

func (c *Client) saveEmployee(ctx context.Context, method, path string, e domain.Employee) (domain.Employee, error) {
	var (
		req   employee
		reply employee
		out   domain.Employee
	)
	if err := copyInto(&req, &e); err != nil {
		return out, err
	}
	if err := c.do(ctx, method, path, req, &reply); err != nil {
		return out, err
	}
	err := copyInto(&out, &reply)
	return out, err
}

func (c *Client) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	var reply []expense
	if err := c.do(ctx, http.MethodGet, "/api/expenses", nil, &reply); err != nil {
		return nil, err
	}
	out := make([]domain.Expense, 0, len(reply))
	if err := copyInto(&out, &reply); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	var (
		req   expense
		reply expense
		out   domain.Expense
	)
	if err := copyInto(&req, &e); err != nil {
		return out, err
	}
	if err := c.do(ctx, http.MethodPost, "/api/expenses", req, &reply); err != nil {
		return out, err
	}
	err := copyInto(&out, &reply)
	return out, err
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil, nil)
}

func (c *Client) ListAttendance(ctx context.Context) ([]domain.AttendanceRecord, error) {
	var reply []attendanceRecord
	if err := c.do(ctx, http.MethodGet, "/api/attendance", nil, &reply); err != nil {
		return nil, err
	}
	out := make([]domain.AttendanceRecord, 0, len(reply))
	if err := copyInto(&out, &reply); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CheckIn(ctx context.Context) (domain.AttendanceRecord, error) {
	return c.punch(ctx, "/api/attendance/check-in")
}

func (c *Client) CheckOut(ctx context.Context) (domain.AttendanceRecord, error) {
	return c.punch(ctx, "/api/attendance/check-out")
}

func (c *Client) punch(ctx context.Context, path string) (domain.AttendanceRecord, error) {
	var (
		reply attendanceRecord
		out   domain.AttendanceRecord
	)
	if err := c.do(ctx, http.MethodPost, path, nil, &reply); err != nil {
		return out, err
	}
	err := copyInto(&out, &reply)
	return out, err
}

func (c *Client) AnalyticsSummary(ctx context.Context) (domain.AnalyticsSummary, error) {
	var (
		reply analyticsSummary
		out   domain.AnalyticsSummary
	)
	if err := c.do(ctx, http.MethodGet, "/api/analytics/summary", nil, &reply); err != nil {
		return out, err
	}
	err := copyInto(&out, &reply)
	return out, err
}
