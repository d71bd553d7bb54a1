package services

import (
	"context"
	"errors"
	"regexp"

	"moaqeb-backend/internal/auth"
	"moaqeb-backend/internal/cache"
	"moaqeb-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// UserStore persists office and employee accounts
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	ListEmployees(ctx context.Context, officeID int) ([]*models.User, error)
	DeleteEmployee(ctx context.Context, officeID, employeeID int) error
	UpdatePassword(ctx context.Context, userID int, hash string) error
}

// AccountCreator opens the office's starter cash account
type AccountCreator interface {
	Create(ctx context.Context, a *models.BankAccount) error
}

// SalaryGuard reports an employee's salary config, if one exists
type SalaryGuard interface {
	GetByEmployee(ctx context.Context, officeID, employeeID int) (*models.SalaryConfig, error)
}

type UserService struct {
	Users    UserStore
	Accounts AccountCreator
	Salaries SalaryGuard
	JWT      *auth.JWTManager
}

func NewUserService(users UserStore, accounts AccountCreator, salaries SalaryGuard, jwt *auth.JWTManager) *UserService {
	return &UserService{Users: users, Accounts: accounts, Salaries: salaries, JWT: jwt}
}

// Signup registers a new office. Every office starts with a cash
// account so transactions can be recorded before any bank is added.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.OfficeName == "" {
		return nil, errors.New("office name is required")
	}
	if !phonePattern.MatchString(req.Phone) {
		return nil, errors.New("invalid phone number")
	}
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		OfficeName:   req.OfficeName,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         models.RoleMember,
		ReferredBy:   req.ReferredBy,
		IsActive:     true,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	cash := &models.BankAccount{OfficeID: user.ID, Name: "نقداً كاش"}
	if err := s.Accounts.Create(ctx, cash); err != nil {
		return nil, err
	}

	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token. A Redis hit on the
// credential hash skips the bcrypt comparison.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.Users.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, errors.New("invalid phone or password")
	}
	if !user.IsActive {
		return nil, errors.New("account is disabled")
	}

	if cachedID, ok := cache.GetCachedAuth(ctx, req.Phone, req.Password); !ok || cachedID != user.ID {
		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			return nil, errors.New("invalid phone or password")
		}
		cache.CacheAuth(ctx, req.Phone, req.Password, user.ID)
	}

	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// CreateEmployee adds a sub-account under a golden office
func (s *UserService) CreateEmployee(ctx context.Context, owner *models.User, req *models.CreateEmployeeRequest) (*models.User, error) {
	if owner.Role != models.RoleGolden {
		return nil, errors.New("employee accounts require a golden subscription")
	}
	if !phonePattern.MatchString(req.Phone) {
		return nil, errors.New("invalid phone number")
	}
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	parentID := owner.ID
	emp := &models.User{
		OfficeName:   req.OfficeName,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         models.RoleEmployee,
		ParentID:     &parentID,
		IsActive:     true,
	}
	if err := s.Users.Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *UserService) ListEmployees(ctx context.Context, officeID int) ([]*models.User, error) {
	return s.Users.ListEmployees(ctx, officeID)
}

// DeleteEmployee removes an employee account. An employee with a live
// salary config must be terminated first so nothing is still owed.
func (s *UserService) DeleteEmployee(ctx context.Context, officeID, employeeID int) error {
	cfg, err := s.Salaries.GetByEmployee(ctx, officeID, employeeID)
	switch {
	case err == nil && !cfg.IsStopped:
		return errors.New("employee salary must be terminated first")
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		return err
	}
	return s.Users.DeleteEmployee(ctx, officeID, employeeID)
}

// ChangePassword rehashes and invalidates the cached credentials
func (s *UserService) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error {
	if !auth.VerifyPassword(user.PasswordHash, oldPassword) {
		return errors.New("current password is incorrect")
	}
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	cache.InvalidateAuth(ctx, user.Phone, oldPassword)
	return nil
}
