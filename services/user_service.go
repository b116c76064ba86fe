package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/store"
	"github.com/yeremiapane/restaurant-pos/ticketing"
	"github.com/yeremiapane/restaurant-pos/utils"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// StaffRoles are the roles an admin may hand out.
var StaffRoles = []string{models.RoleAdmin, models.RoleWaiter, models.RoleBar, models.RoleKitchen}

type UserService struct {
	Users store.UserStore
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{Users: users}
}

type CreateUserInput struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Roles    []string `json:"roles" binding:"required"`
}

// Authenticate checks a password against the stored bcrypt hash.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.Users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ticketing.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !user.IsActive {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// CreateStaff adds a user to businessID with roles drawn from StaffRoles.
func (s *UserService) CreateStaff(ctx context.Context, businessID string, createdBy uint, in CreateUserInput) (models.User, error) {
	if len(in.Roles) == 0 {
		return models.User{}, fmt.Errorf("%w: at least one role is required", ticketing.ErrInvalidArgument)
	}
	for _, role := range in.Roles {
		if !validStaffRole(role) {
			return models.User{}, fmt.Errorf("%w: unknown role %q, use one of %s", ticketing.ErrInvalidArgument, role, strings.Join(StaffRoles, ", "))
		}
	}
	return s.create(ctx, businessID, createdBy, in)
}

// EnsureSuperAdmin creates the platform account on first start. It is a
// no-op once any superadmin exists.
func (s *UserService) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := s.Users.CountUsers(ctx, models.SystemBusinessID)
	if err != nil || n > 0 {
		return err
	}
	_, err = s.create(ctx, models.SystemBusinessID, 0, CreateUserInput{
		Name:     "Super Admin",
		Email:    email,
		Password: password,
		Roles:    []string{models.RoleSuperAdmin},
	})
	return err
}

func (s *UserService) create(ctx context.Context, businessID string, createdBy uint, in CreateUserInput) (models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		BusinessID: businessID,
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Password:   string(hashed),
		Roles:      in.Roles,
		IsActive:   true,
		CreatedBy:  createdBy,
	}
	if _, err := s.Users.GetUserByEmail(ctx, user.Email); err == nil {
		return models.User{}, fmt.Errorf("%w: email %s is already registered", ticketing.ErrInvalidState, user.Email)
	}
	if err := s.Users.CreateUser(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"business_id": businessID,
		"user_id":     user.ID,
		"roles":       user.Roles,
	}).Info("User created")
	return user, nil
}

func validStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}
