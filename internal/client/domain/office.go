package domain

import (
	"time"
)

type Employee struct {
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	Department string
	Position   string
	Salary     float64
	HiredAt    time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type Expense struct {
	ID          int64
	EmployeeID  int64
	Description string
	Category    string
	Amount      float64
	Date        time.Time
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
)

type AttendanceRecord struct {
	ID         int64
	EmployeeID int64
	Date       time.Time
	CheckIn    time.Time
	CheckOut   time.Time
	Status     AttendanceStatus
}

type AnalyticsSummary struct {
	EmployeeCount      int
	ExpenseTotal       float64
	ExpensesByCategory map[string]float64
	AttendanceRate     float64
	PresentToday       int
}
