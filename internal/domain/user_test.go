package domain

import (
	"testing"
	"time"
)

func TestNewUser(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	user, err := NewUser(" Ada ", "Ada@Example.COM", "longenough1", RoleUser, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Name != "Ada" {
		t.Errorf("Expected trimmed name, got %q", user.Name)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Expected normalized email, got %q", user.Email)
	}
	if !user.Active {
		t.Error("Expected new user to be active")
	}
	if user.IsAdmin() {
		t.Error("Expected user role")
	}
	if !user.CreatedAt.Equal(now) || !user.UpdatedAt.Equal(now) {
		t.Error("Expected timestamps to equal now")
	}
}

func TestUserValidate(t *testing.T) {
	valid := User{
		Name:           "Ada",
		Email:          "ada@example.com",
		Role:           RoleAdmin,
		HashedPassword: "$2a$10$hash",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cases := map[string]func(u *User){
		"empty name":      func(u *User) { u.Name = "" },
		"empty email":     func(u *User) { u.Email = "" },
		"no at sign":      func(u *User) { u.Email = "ada.example.com" },
		"no domain dot":   func(u *User) { u.Email = "ada@example" },
		"two at signs":    func(u *User) { u.Email = "a@b@example.com" },
		"unknown role":    func(u *User) { u.Role = "owner" },
		"no password":     func(u *User) { u.HashedPassword = "" },
		"short password":  func(u *User) { u.Password = "short" },
		"oversized input": func(u *User) { u.Password = string(make([]byte, 73)) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			u := valid
			mutate(&u)
			err := u.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if _, ok := err.(*ValidationError); !ok {
				t.Errorf("Expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestUserActor(t *testing.T) {
	u := User{ID: 4, Role: RoleAdmin}
	a := u.Actor()
	if a.ID != 4 || !a.IsAdmin() {
		t.Errorf("Unexpected actor %+v", a)
	}
}
