package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
)

// UserService interface defines user management business logic
type UserService interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Create(ctx context.Context, form *models.UserForm) (*models.User, error)
	Update(ctx context.Context, id int, form *models.UserForm) (*models.User, error)
	SetActive(ctx context.Context, id int, active bool) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, form *models.ProfileForm) (*models.User, error)
	EnsureAdmin(ctx context.Context, username, email, password string) error
}

// userService implements UserService interface
type userService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetAll retrieves all users
func (s *userService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAll(ctx)
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid user ID: %d", id)
	}
	return s.userRepo.GetByID(ctx, id)
}

// Create creates a new user with validation
func (s *userService) Create(ctx context.Context, form *models.UserForm) (*models.User, error) {
	if errs := form.Validate(true); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	if existing, err := s.userRepo.GetByUsername(ctx, form.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("user with username %s already exists", form.Username)
	}
	if existing, err := s.userRepo.GetByEmail(ctx, form.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("user with email %s already exists", form.Email)
	}

	role, err := models.ParseRole(form.Role)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: strings.TrimSpace(form.Username),
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Role:     role,
		Active:   form.Active,
	}
	if err := user.SetPassword(form.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Update updates an existing user. An empty password keeps the current one.
func (s *userService) Update(ctx context.Context, id int, form *models.UserForm) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid user ID: %d", id)
	}

	if errs := form.Validate(false); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if form.Username != user.Username {
		if existing, err := s.userRepo.GetByUsername(ctx, form.Username); err == nil && existing != nil && existing.ID != id {
			return nil, fmt.Errorf("user with username %s already exists", form.Username)
		}
	}

	role, err := models.ParseRole(form.Role)
	if err != nil {
		return nil, err
	}

	user.Username = strings.TrimSpace(form.Username)
	user.Name = strings.TrimSpace(form.Name)
	user.Email = strings.TrimSpace(form.Email)
	user.Role = role
	user.Active = form.Active
	if form.Password != "" {
		if err := user.SetPassword(form.Password); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// SetActive activates or deactivates a user account. Deactivation is the
// preferred alternative to deletion so the audit trail keeps its actor.
func (s *userService) SetActive(ctx context.Context, id int, active bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if user.Active == active {
		if active {
			return nil, fmt.Errorf("user is already active")
		}
		return nil, fmt.Errorf("user is already inactive")
	}

	user.Active = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UpdateProfile lets a user change their own name, email and password
func (s *userService) UpdateProfile(ctx context.Context, id int, form *models.ProfileForm) (*models.User, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if form.NewPassword != "" {
		if !user.CheckPassword(form.CurrentPassword) {
			return nil, fmt.Errorf("current password is incorrect")
		}
		if err := user.SetPassword(form.NewPassword); err != nil {
			return nil, err
		}
	}

	user.Name = strings.TrimSpace(form.Name)
	user.Email = strings.TrimSpace(form.Email)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// EnsureAdmin creates the bootstrap administrator account when it does not
// exist yet. Called at startup when ADMIN_USERNAME/ADMIN_PASSWORD are set.
func (s *userService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil // already present
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	admin := &models.User{
		Username: username,
		Name:     "Administrador",
		Email:    email,
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}
