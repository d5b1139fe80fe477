package balance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	balanceerrors "go-leavehub/internal/balance/errors"
)

type BalanceResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	Allocated   string `json:"allocated"`
	Used        string `json:"used"`
	Pending     string `json:"pending"`
	Available   string `json:"available"`
}

// Service is the read surface; writes go through Ledger only.
//
//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetForEmployee(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetForEmployee(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, balanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}
	if year < 2000 || year > time.Now().UTC().Year()+1 {
		return nil, balanceerrors.ErrInvalidYear
	}

	balances, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID, year)
	if err != nil {
		s.logger.Error("list balances failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, err
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:          b.ID.String(),
		CompanyID:   b.CompanyID.String(),
		EmployeeID:  b.EmployeeID.String(),
		LeaveTypeID: b.LeaveTypeID.String(),
		Year:        b.Year,
		Allocated:   b.Allocated.String(),
		Used:        b.Used.String(),
		Pending:     b.Pending.String(),
		Available:   b.Available().String(),
	}
}
