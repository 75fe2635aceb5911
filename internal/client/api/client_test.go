package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charadev96/officedesk/internal/client/domain"
)

type fakeSession struct {
	mu        sync.Mutex
	token     string
	signedOut int
}

func (s *fakeSession) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", domain.ErrUnauthenticated
	}
	return s.token, nil
}

func (s *fakeSession) SignOut(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.signedOut++
	return nil
}

func newTestClient(t *testing.T, sess Session, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", sess, Options{Timeout: 5 * time.Second})
}

func TestLogin(t *testing.T) {
	sess := &fakeSession{token: "stale"}
	c := newTestClient(t, sess, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))

		var req loginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "s3cret", req.Password)

		json.NewEncoder(w).Encode(map[string]string{"token": "issued"})
	})

	tok, err := c.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "issued", tok)
}

func TestLoginBadCredentialsKeepsSession(t *testing.T) {
	sess := &fakeSession{token: "current"}
	c := newTestClient(t, sess, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	_, err := c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "Bad credentials")
	assert.Zero(t, sess.signedOut)
}

func TestBearerHeader(t *testing.T) {
	sess := &fakeSession{token: "abc.def.ghi"}
	c := newTestClient(t, sess, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc.def.ghi", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})

	_, err := c.ListEmployees(context.Background())
	require.NoError(t, err)
}

func TestRequestWithoutSession(t *testing.T) {
	sess := &fakeSession{}
	c := newTestClient(t, sess, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ListExpenses(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, sess.signedOut)
}

func TestUnauthorizedSignsOut(t *testing.T) {
	sess := &fakeSession{token: "revoked"}
	c := newTestClient(t, sess, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ListAttendance(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, 1, sess.signedOut)
}

func TestForbidden(t *testing.T) {
	sess := &fakeSession{token: "user"}
	c := newTestClient(t, sess, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Access Denied"))
	})

	err := c.DeleteEmployee(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, err.Error(), "Access Denied")
	assert.Zero(t, sess.signedOut)
}

type failingSession struct{}

func (failingSession) Token(context.Context) (string, error) {
	return "", errors.New("store unavailable")
}

func (failingSession) SignOut(context.Context) error {
	return nil
}

func TestTokenFailureAbortsRequest(t *testing.T) {
	called := false
	c := newTestClient(t, failingSession{}, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.AnalyticsSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
	assert.False(t, called)
}

type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

func TestTokenFailureClosesRequestBody(t *testing.T) {
	rt := &bearerTransport{next: http.DefaultTransport, session: failingSession{}}
	body := &trackedBody{Reader: strings.NewReader(`{"amount": 1}`)}
	req, err := http.NewRequest(http.MethodPost, "http://backend.invalid/api/expenses", body)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, body.closed)
}

func TestGetEmployee(t *testing.T) {
	c := newTestClient(t, &fakeSession{token: "t"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/employees/4", r.URL.Path)
		w.Write([]byte(`{"id": 4, "firstName": "Barbara", "lastName": "Liskov", "hireDate": "2019-09-01"}`))
	})

	emp, err := c.GetEmployee(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Barbara Liskov", emp.FullName())
	assert.Equal(t, time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC), emp.HiredAt)
}

func TestDeleteExpense(t *testing.T) {
	c := newTestClient(t, &fakeSession{token: "t"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/expenses/11", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteExpense(context.Background(), 11))
}

func TestListEmployees(t *testing.T) {
	c := newTestClient(t, &fakeSession{token: "t"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/employees", r.URL.Path)
		w.Write([]byte(`[
			{"id": 1, "firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
			 "department": "Engineering", "position": "Lead", "salary": 9100.5, "hireDate": "2021-04-01"},
			{"id": 2, "firstName": "Alan", "lastName": "Turing", "hireDate": null}
		]`))
	})

	employees, err := c.ListEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, int64(1), employees[0].ID)
	assert.Equal(t, "Ada Lovelace", employees[0].FullName())
	assert.Equal(t, "Engineering", employees[0].Department)
	assert.Equal(t, 9100.5, employees[0].Salary)
	assert.Equal(t, time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC), employees[0].HiredAt)
	assert.True(t, employees[1].HiredAt.IsZero())
}

func TestCreateEmployee(t *testing.T) {
	c := newTestClient(t, &fakeSession{token: "t"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Grace", body["firstName"])
		assert.Equal(t, "2024-01-15T00:00:00Z", body["hireDate"])
		assert.NotContains(t, body, "id")

		body["id"] = 7
		json.NewEncoder(w).Encode(body)
	})

	created, err := c.CreateEmployee(context.Background(), domain.Employee{
		FirstName: "Grace",
		LastName:  "Hopper",
		HiredAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, "Hopper", created.LastName)
	assert.True(t, created.HiredAt.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
}

func TestUpdateEmployeePath(t *testing.T) {
	c := newTestClient(t, &fakeSession{token: "t"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/employees/12", r.URL.Path)
		w.Write([]byte(`{"id": 12, "firstName": "Edsger"}`))
	})

	updated, err := c.UpdateEmployee(context.Background(), domain.Employee{ID: 12, FirstName: "Edsger"})
	require.NoError(t, err)
	assert.Equal(t, "Edsger", updated.FirstName)
}

func TestCheckIn(t *testing.T) {
	c := newTestClient(t, &fakeSession{token: "t"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/attendance/check-in", r.URL.Path)
		w.Write([]byte(`{"id": 5, "employeeId": 1, "date": "2026-03-02", "checkIn": "2026-03-02T09:01:30", "status": "LATE"}`))
	})

	rec, err := c.CheckIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceLate, rec.Status)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 1, 30, 0, time.UTC), rec.CheckIn)
	assert.True(t, rec.CheckOut.IsZero())
}

func TestAnalyticsSummary(t *testing.T) {
	c := newTestClient(t, &fakeSession{token: "t"}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalEmployees": 42, "totalExpenses": 1234.5,
			"expensesByCategory": {"TRAVEL": 1000, "OFFICE": 234.5},
			"attendanceRate": 0.93, "presentToday": 39}`))
	})

	sum, err := c.AnalyticsSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, sum.EmployeeCount)
	assert.Equal(t, 1234.5, sum.ExpenseTotal)
	assert.Equal(t, 1000.0, sum.ExpensesByCategory["TRAVEL"])
	assert.Equal(t, 39, sum.PresentToday)
}

func TestMalformedResponse(t *testing.T) {
	c := newTestClient(t, &fakeSession{token: "t"}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"date": "yesterday"}`))
	})

	_, err := c.CheckOut(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}
