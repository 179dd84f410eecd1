package auth

import (
	"context"
	"errors"
	"time"

	autherrors "mohr/internal/auth/errors"
	"mohr/internal/employee"
	"mohr/internal/user"
	usererrors "mohr/internal/user/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
}

type service struct {
	userRepo     user.Repository
	employeeRepo employee.Repository
	jwtSecret    string
	tokenTTL     time.Duration
	logger       *zap.Logger
}

func NewService(
	userRepo user.Repository,
	employeeRepo employee.Repository,
	jwtSecret string,
	tokenTTL time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		logger:       l,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	u, err := s.userRepo.FindActiveByUsername(ctx, req.Username)
	if err != nil {
		// Same error for unknown user and bad password.
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	resp := AuthResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}

	if e, err := s.employeeRepo.FindByUserID(ctx, u.ID.String()); err == nil {
		resp.EmployeeID = e.ID.String()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return LoginResponse{}, err
	}

	token, err := s.generateToken(resp)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return LoginResponse{}, err
	}

	s.logger.Info("login success",
		zap.String("user_id", resp.ID),
		zap.String("role", resp.Role),
	)

	return LoginResponse{Token: token, User: resp}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, usererrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}

	resp := AuthResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}

	if e, err := s.employeeRepo.FindByUserID(ctx, u.ID.String()); err == nil {
		resp.EmployeeID = e.ID.String()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResponse{}, err
	}

	return resp, nil
}

func (s *service) generateToken(id AuthResponse) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     id.ID,
		"employee_id": id.EmployeeID,
		"role":        id.Role,
		"exp":         time.Now().Add(s.tokenTTL).Unix(),
		"iat":         time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
