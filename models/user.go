package models

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of access levels in the system.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "gerente"
	RoleEmployee Role = "funcionario"
)

// ParseRole converts a stored role string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// HasRole reports whether the user holds one of the allowed roles.
func HasRole(user *User, allowed ...Role) bool {
	if user == nil {
		return false
	}
	for _, role := range allowed {
		if user.Role == role {
			return true
		}
	}
	return false
}

// User represents a system user
type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SetPassword hashes and stores the given plaintext password
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the given plaintext password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager reports whether the user is a manager
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// UserForm represents form data for creating/updating users
type UserForm struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// Validate validates the user form data. When requirePassword is false the
// password may be left empty to keep the current one.
func (f *UserForm) Validate(requirePassword bool) []string {
	var errors []string

	if f.Username == "" {
		errors = append(errors, "Username is required")
	}
	if len(f.Username) > 64 {
		errors = append(errors, "Username must be less than 64 characters")
	}
	if f.Name == "" {
		errors = append(errors, "Name is required")
	}
	if f.Email == "" {
		errors = append(errors, "Email is required")
	} else if !isValidEmail(f.Email) {
		errors = append(errors, "Email format is invalid")
	}
	if requirePassword && len(f.Password) < 6 {
		errors = append(errors, "Password must be at least 6 characters")
	}
	if f.Password != "" && len(f.Password) < 6 {
		errors = append(errors, "Password must be at least 6 characters")
	}
	if _, err := ParseRole(f.Role); err != nil {
		errors = append(errors, "Role is invalid")
	}

	return errors
}

// ProfileForm represents form data for a user updating their own profile
type ProfileForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate validates the profile form data
func (f *ProfileForm) Validate() []string {
	var errors []string

	if f.Name == "" {
		errors = append(errors, "Name is required")
	}
	if f.Email == "" {
		errors = append(errors, "Email is required")
	} else if !isValidEmail(f.Email) {
		errors = append(errors, "Email format is invalid")
	}
	if f.NewPassword != "" {
		if f.CurrentPassword == "" {
			errors = append(errors, "Current password is required to change password")
		}
		if len(f.NewPassword) < 6 {
			errors = append(errors, "New password must be at least 6 characters")
		}
	}

	return errors
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	// Simple validation: must contain @ and at least one dot after @
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			if atIndex != -1 {
				return false // Multiple @ symbols
			}
			atIndex = i
		}
	}

	if atIndex == -1 || atIndex == 0 || atIndex == len(email)-1 {
		return false // No @, or @ at start/end
	}

	// Check for dot after @
	for i := atIndex + 1; i < len(email); i++ {
		if email[i] == '.' && i < len(email)-1 {
			return true
		}
	}

	return false
}
