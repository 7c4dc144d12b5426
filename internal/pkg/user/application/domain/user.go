package user

import (
	"errors"
	"strings"
)

// Domain-level errors for user records.
var (
	ErrNotFound = errors.New("user: user not found")
	ErrExists   = errors.New("user: email already exists")
)

// ValidationError collects input rule violations for user attributes.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "user: invalid input: " + strings.Join(e.Violations, ". ")
}

// User is the durable user record, keyed by email.
type User struct {
	Email  string `db:"email" json:"email"`
	Name   string `db:"name" json:"name"`
	Age    int    `db:"age" json:"age"`
	Gender string `db:"gender" json:"gender"`
}

// NewUser validates the raw attributes and returns a record ready to be
// persisted. All violations are collected into a single ValidationError.
func NewUser(email, name string, age int, gender string) (*User, error) {
	var violations []string

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		violations = append(violations, "please provide a valid email")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		violations = append(violations, "please provide a valid name")
	}
	if age <= 0 {
		violations = append(violations, "please provide a valid age")
	}
	gender = strings.TrimSpace(gender)
	if gender == "" {
		violations = append(violations, "please provide a valid gender")
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return &User{Email: email, Name: name, Age: age, Gender: gender}, nil
}
