package user

import (
	"errors"
	"testing"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  a@b.com ", " Alice ", 30, "female")
	if err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}
	if u.Email != "a@b.com" || u.Name != "Alice" {
		t.Errorf("fields not trimmed: %+v", u)
	}

	cases := []struct {
		name   string
		email  string
		uname  string
		age    int
		gender string
	}{
		{"missing email", "", "Alice", 30, "female"},
		{"bad email", "not-an-email", "Alice", 30, "female"},
		{"missing name", "a@b.com", "  ", 30, "female"},
		{"zero age", "a@b.com", "Alice", 0, "female"},
		{"missing gender", "a@b.com", "Alice", 30, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.email, tc.uname, tc.age, tc.gender)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}
