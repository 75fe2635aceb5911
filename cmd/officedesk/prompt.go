package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"

	"github.com/charadev96/officedesk/internal/client/domain"
)

var (
	departments = []string{"Engineering", "Finance", "Human Resources", "Operations", "Sales"}
	categories  = []string{"TRAVEL", "MEALS", "OFFICE", "TRAINING", "OTHER"}
)

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value required")
	}
	return nil
}

func isAmount(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("not a number")
	}
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func isDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("expected YYYY-MM-DD")
	}
	return nil
}

func promptText(label string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}
	value, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt '%s' failed: %w", label, err)
	}
	return strings.TrimSpace(value), nil
}

func promptPassword() (string, error) {
	p := promptui.Prompt{
		Label:    "Password",
		Mask:     '*',
		Validate: nonEmpty,
	}
	value, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt 'Password' failed: %w", err)
	}
	return value, nil
}

func promptSelect(label string, items []string) (string, error) {
	s := promptui.Select{
		Label: label,
		Items: items,
	}
	_, value, err := s.Run()
	if err != nil {
		return "", fmt.Errorf("prompt '%s' failed: %w", label, err)
	}
	return value, nil
}

func promptConfirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("prompt '%s' failed: %w", label, err)
	}
	return true, nil
}

func promptDate(label string) (time.Time, error) {
	value, err := promptText(label+" (YYYY-MM-DD, empty for today)", isDate)
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(time.DateOnly, value)
}

func promptEmployee() (domain.Employee, error) {
	var (
		emp domain.Employee
		err error
	)
	if emp.FirstName, err = promptText("First name", nonEmpty); err != nil {
		return emp, err
	}
	if emp.LastName, err = promptText("Last name", nonEmpty); err != nil {
		return emp, err
	}
	if emp.Email, err = promptText("Email", nonEmpty); err != nil {
		return emp, err
	}
	if emp.Department, err = promptSelect("Department", departments); err != nil {
		return emp, err
	}
	if emp.Position, err = promptText("Position", nonEmpty); err != nil {
		return emp, err
	}
	salary, err := promptText("Salary", isAmount)
	if err != nil {
		return emp, err
	}
	if emp.Salary, err = strconv.ParseFloat(salary, 64); err != nil {
		return emp, err
	}
	emp.HiredAt, err = promptDate("Hire date")
	return emp, err
}

func promptExpense() (domain.Expense, error) {
	var (
		exp domain.Expense
		err error
	)
	if exp.Description, err = promptText("Description", nonEmpty); err != nil {
		return exp, err
	}
	if exp.Category, err = promptSelect("Category", categories); err != nil {
		return exp, err
	}
	amount, err := promptText("Amount", isAmount)
	if err != nil {
		return exp, err
	}
	if exp.Amount, err = strconv.ParseFloat(amount, 64); err != nil {
		return exp, err
	}
	exp.Date, err = promptDate("Date")
	return exp, err
}
