package employee

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "mohr/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	employeeOptionsKey = "employees:options"
	employeeOptionsTTL = 5 * time.Minute
)

// Directory is the narrow lookup the leave module depends on.
type Directory interface {
	FindActive(ctx context.Context, id string) (*Employee, error)
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Directory
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, includeInactive bool) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOption, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) FindActive(ctx context.Context, id string) (*Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeeerrors.ErrEmployeeNotFound
	}

	e, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("create employee requested",
		zap.String("employee_number", req.EmployeeNumber),
		zap.String("email", req.Email),
	)

	if taken, err := s.repo.CountByEmployeeNumber(ctx, req.EmployeeNumber); err != nil {
		return EmployeeResponse{}, err
	} else if taken > 0 {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNumberTaken
	}

	if taken, err := s.repo.CountByEmail(ctx, req.Email); err != nil {
		return EmployeeResponse{}, err
	} else if taken > 0 {
		return EmployeeResponse{}, employeeerrors.ErrEmailTaken
	}

	e := &Employee{
		ID:             uuid.New(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		EmployeeNumber: req.EmployeeNumber,
		Email:          req.Email,
		Department:     req.Department,
		Position:       req.Position,
		Salary:         req.Salary,
		IsActive:       true,
	}

	if req.HireDate != "" {
		hireDate, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
		}
		e.HireDate = &hireDate
	}
	if req.ManagerID != nil && *req.ManagerID != "" {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
		}
		e.ManagerID = &managerID
	}
	if req.UserID != nil && *req.UserID != "" {
		userID, err := uuid.Parse(*req.UserID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
		}
		e.UserID = &userID
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)
	s.logger.Info("create employee success", zap.String("employee_id", e.ID.String()))

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, includeInactive bool) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx, includeInactive)
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

// GetOptions serves the picker list from Redis; concurrent misses are
// collapsed into a single database read via singleflight.
func (s *service) GetOptions(ctx context.Context) ([]EmployeeOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, employeeOptionsKey).Result(); err == nil {
			var options []EmployeeOption
			if err := json.Unmarshal([]byte(cached), &options); err == nil {
				return options, nil
			}
		}
	}

	v, err, _ := s.sf.Do(employeeOptionsKey, func() (any, error) {
		employees, err := s.repo.FindAll(ctx, false)
		if err != nil {
			return nil, err
		}

		options := make([]EmployeeOption, len(employees))
		for i, e := range employees {
			options[i] = EmployeeOption{ID: e.ID.String(), FullName: e.FullName()}
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(options); err == nil {
				s.rdb.Set(ctx, employeeOptionsKey, payload, employeeOptionsTTL)
			}
		}
		return options, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	if req.Email != e.Email {
		if taken, err := s.repo.CountByEmail(ctx, req.Email); err != nil {
			return EmployeeResponse{}, err
		} else if taken > 0 {
			return EmployeeResponse{}, employeeerrors.ErrEmailTaken
		}
	}

	e.FirstName = req.FirstName
	e.LastName = req.LastName
	e.Email = req.Email
	e.Department = req.Department
	e.Position = req.Position
	e.Salary = req.Salary

	if req.HireDate != "" {
		hireDate, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
		}
		e.HireDate = &hireDate
	}
	if req.ManagerID != nil && *req.ManagerID != "" {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
		}
		e.ManagerID = &managerID
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed",
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)
	return mapToResponse(*e), nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return err
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.invalidateOptions(ctx)
	s.logger.Info("employee deactivated", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.Del(ctx, employeeOptionsKey)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		EmployeeNumber: e.EmployeeNumber,
		Email:          e.Email,
		Department:     e.Department,
		Position:       e.Position,
		Salary:         e.Salary,
		IsActive:       e.IsActive,
	}
	if e.UserID != nil {
		v := e.UserID.String()
		resp.UserID = &v
	}
	if e.HireDate != nil {
		resp.HireDate = e.HireDate.Format("2006-01-02")
	}
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}
