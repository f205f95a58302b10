package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Yamine-coder/gestion-rh-sub010/internal/dto"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/model"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/jwt"
)

// ── Auth errors ──

var (
	ErrAuthBadCredentials   = errors.New("invalid email or password")
	ErrAuthEmployeeInactive = errors.New("employee account is deactivated")
	ErrEmployeeNotFound     = errors.New("employee not found")
)

// AuthService authenticates employees at the API boundary.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	employee, err := s.repo.Employee.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthBadCredentials
		}
		s.logger.Error("look up employee failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrAuthBadCredentials
	}

	if !employee.IsActive {
		return nil, ErrAuthEmployeeInactive
	}

	token, err := s.jwtMgr.GenerateAccessToken(employee.EmployeeID, employee.Role)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		Employee:    toEmployeeResponse(employee),
	}, nil
}

func (s *authService) Me(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("look up employee failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

func toEmployeeResponse(e *model.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:       e.EmployeeID,
		FullName: e.FullName,
		Email:    e.Email,
		Role:     e.Role,
		IsActive: e.IsActive,
	}
}
