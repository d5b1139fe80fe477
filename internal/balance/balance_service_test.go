package balance_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-leavehub/internal/balance"
	balanceerrors "go-leavehub/internal/balance/errors"
)

func TestBalanceService_GetForEmployee(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		key := balance.Key{
			CompanyID:   companyID,
			EmployeeID:  employeeID,
			LeaveTypeID: uuid.New().String(),
			Year:        2026,
		}
		repo := &fakeBalanceRepository{}
		stored := row(key, "20", "5", "2")

		svc := balance.NewService(&fakeReadRepository{
			fakeBalanceRepository: repo,
			rows:                  []balance.LeaveBalance{*stored},
		})

		resp, err := svc.GetForEmployee(ctx, companyID, employeeID, 2026)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "20", resp[0].Allocated)
		assert.Equal(t, "5", resp[0].Used)
		assert.Equal(t, "2", resp[0].Pending)
		assert.Equal(t, "13", resp[0].Available)
		assert.Equal(t, 2026, resp[0].Year)
	})

	t.Run("negative invalid employee id", func(t *testing.T) {
		svc := balance.NewService(&fakeBalanceRepository{})

		_, err := svc.GetForEmployee(ctx, companyID, "not-a-uuid", 2026)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative year out of range", func(t *testing.T) {
		svc := balance.NewService(&fakeBalanceRepository{})

		_, err := svc.GetForEmployee(ctx, companyID, employeeID, 1999)

		assert.ErrorIs(t, err, balanceerrors.ErrInvalidYear)
	})
}

type fakeReadRepository struct {
	*fakeBalanceRepository
	rows []balance.LeaveBalance
}

func (f *fakeReadRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]balance.LeaveBalance, error) {
	return f.rows, nil
}
