package balance_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"go-leavehub/internal/balance"
	"go-leavehub/internal/shared/apperror"
)

type fakeBalanceRepository struct {
	findForUpdateFn func(ctx context.Context, key balance.Key) (*balance.LeaveBalance, error)
	insertFn        func(ctx context.Context, b *balance.LeaveBalance) (bool, error)
	updateAmountsFn func(ctx context.Context, b *balance.LeaveBalance) error
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository { return f }

func (f *fakeBalanceRepository) FindForUpdate(ctx context.Context, key balance.Key) (*balance.LeaveBalance, error) {
	if f.findForUpdateFn != nil {
		return f.findForUpdateFn(ctx, key)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBalanceRepository) Insert(ctx context.Context, b *balance.LeaveBalance) (bool, error) {
	if f.insertFn != nil {
		return f.insertFn(ctx, b)
	}
	return true, nil
}

func (f *fakeBalanceRepository) UpdateAmounts(ctx context.Context, b *balance.LeaveBalance) error {
	if f.updateAmountsFn != nil {
		return f.updateAmountsFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]balance.LeaveBalance, error) {
	return nil, nil
}

func testKey() balance.Key {
	return balance.Key{
		CompanyID:   uuid.New().String(),
		EmployeeID:  uuid.New().String(),
		LeaveTypeID: uuid.New().String(),
		Year:        2026,
	}
}

func row(key balance.Key, allocated, used, pending string) *balance.LeaveBalance {
	a, _ := decimal.NewFromString(allocated)
	u, _ := decimal.NewFromString(used)
	p, _ := decimal.NewFromString(pending)
	return &balance.LeaveBalance{
		ID:          uuid.New(),
		CompanyID:   uuid.MustParse(key.CompanyID),
		EmployeeID:  uuid.MustParse(key.EmployeeID),
		LeaveTypeID: uuid.MustParse(key.LeaveTypeID),
		Year:        key.Year,
		Allocated:   a,
		Used:        u,
		Pending:     p,
	}
}

func TestLedger_GetOrInit(t *testing.T) {
	ctx := context.Background()
	key := testKey()

	t.Run("existing row is returned as is", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				return row(k, "20", "5", "2"), nil
			},
		}
		ledger := balance.NewLedger(repo)

		b, err := ledger.GetOrInit(ctx, nil, key, decimal.NewFromInt(20))

		assert.NoError(t, err)
		assert.Equal(t, "13", b.Available().String())
	})

	t.Run("first access seeds the default allotment", func(t *testing.T) {
		var inserted *balance.LeaveBalance
		calls := 0
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				calls++
				if calls == 1 {
					return nil, sql.ErrNoRows
				}
				return inserted, nil
			},
			insertFn: func(ctx context.Context, b *balance.LeaveBalance) (bool, error) {
				inserted = b
				return true, nil
			},
		}
		ledger := balance.NewLedger(repo)

		b, err := ledger.GetOrInit(ctx, nil, key, decimal.NewFromInt(12))

		assert.NoError(t, err)
		assert.Equal(t, "12", b.Allocated.String())
		assert.True(t, b.Used.IsZero())
		assert.True(t, b.Pending.IsZero())
		assert.Equal(t, 2, calls)
	})

	t.Run("lost insert race re-reads the winner", func(t *testing.T) {
		winner := row(key, "20", "3", "0")
		calls := 0
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				calls++
				if calls == 1 {
					return nil, sql.ErrNoRows
				}
				return winner, nil
			},
			insertFn: func(ctx context.Context, b *balance.LeaveBalance) (bool, error) {
				return false, nil
			},
		}
		ledger := balance.NewLedger(repo)

		b, err := ledger.GetOrInit(ctx, nil, key, decimal.NewFromInt(20))

		assert.NoError(t, err)
		assert.Equal(t, winner.ID, b.ID)
		assert.Equal(t, "3", b.Used.String())
	})
}

func TestLedger_Reserve(t *testing.T) {
	ctx := context.Background()
	key := testKey()

	t.Run("success moves days into pending", func(t *testing.T) {
		var saved *balance.LeaveBalance
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				return row(k, "20", "5", "2"), nil
			},
			updateAmountsFn: func(ctx context.Context, b *balance.LeaveBalance) error {
				saved = b
				return nil
			},
		}
		ledger := balance.NewLedger(repo)

		b, err := ledger.Reserve(ctx, nil, key, decimal.NewFromInt(3), true)

		assert.NoError(t, err)
		assert.Equal(t, "5", b.Pending.String())
		assert.Equal(t, "5", b.Used.String())
		assert.NotNil(t, saved)
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		updateCalled := false
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				return row(k, "20", "15", "3"), nil
			},
			updateAmountsFn: func(ctx context.Context, b *balance.LeaveBalance) error {
				updateCalled = true
				return nil
			},
		}
		ledger := balance.NewLedger(repo)

		_, err := ledger.Reserve(ctx, nil, key, decimal.NewFromInt(3), true)

		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInsufficientBalance, appErr.Code)
		assert.False(t, updateCalled)
	})

	t.Run("exact remaining balance is allowed", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				return row(k, "20", "15", "3"), nil
			},
		}
		ledger := balance.NewLedger(repo)

		b, err := ledger.Reserve(ctx, nil, key, decimal.NewFromInt(2), true)

		assert.NoError(t, err)
		assert.Equal(t, "5", b.Pending.String())
		assert.True(t, b.Available().IsZero())
	})

	t.Run("uncapped reserve may overdraw", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				return row(k, "0", "0", "0"), nil
			},
		}
		ledger := balance.NewLedger(repo)

		b, err := ledger.Reserve(ctx, nil, key, decimal.NewFromInt(30), false)

		assert.NoError(t, err)
		assert.Equal(t, "30", b.Pending.String())
	})

	t.Run("half day granularity", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				return row(k, "1", "0", "0.5"), nil
			},
		}
		ledger := balance.NewLedger(repo)

		b, err := ledger.Reserve(ctx, nil, key, decimal.NewFromFloat(0.5), true)

		assert.NoError(t, err)
		assert.Equal(t, "1", b.Pending.String())
	})
}

func TestLedger_CommitAndRelease(t *testing.T) {
	ctx := context.Background()
	key := testKey()

	t.Run("commit consumes the reservation", func(t *testing.T) {
		var saved *balance.LeaveBalance
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				return row(k, "20", "5", "3"), nil
			},
			updateAmountsFn: func(ctx context.Context, b *balance.LeaveBalance) error {
				saved = b
				return nil
			},
		}
		ledger := balance.NewLedger(repo)

		err := ledger.Commit(ctx, nil, key, decimal.NewFromInt(3))

		assert.NoError(t, err)
		assert.Equal(t, "0", saved.Pending.String())
		assert.Equal(t, "8", saved.Used.String())
	})

	t.Run("release returns the reservation", func(t *testing.T) {
		var saved *balance.LeaveBalance
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				return row(k, "20", "5", "3"), nil
			},
			updateAmountsFn: func(ctx context.Context, b *balance.LeaveBalance) error {
				saved = b
				return nil
			},
		}
		ledger := balance.NewLedger(repo)

		err := ledger.Release(ctx, nil, key, decimal.NewFromInt(3))

		assert.NoError(t, err)
		assert.Equal(t, "0", saved.Pending.String())
		assert.Equal(t, "5", saved.Used.String())
		assert.Equal(t, "15", saved.Available().String())
	})

	t.Run("negative settle larger than pending", func(t *testing.T) {
		updateCalled := false
		repo := &fakeBalanceRepository{
			findForUpdateFn: func(ctx context.Context, k balance.Key) (*balance.LeaveBalance, error) {
				return row(k, "20", "5", "2"), nil
			},
			updateAmountsFn: func(ctx context.Context, b *balance.LeaveBalance) error {
				updateCalled = true
				return nil
			},
		}
		ledger := balance.NewLedger(repo)

		err := ledger.Commit(ctx, nil, key, decimal.NewFromInt(3))

		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeLedgerInvariant, appErr.Code)
		assert.False(t, updateCalled)
	})

	t.Run("negative missing row", func(t *testing.T) {
		ledger := balance.NewLedger(&fakeBalanceRepository{})

		err := ledger.Release(ctx, nil, key, decimal.NewFromInt(1))

		assert.Error(t, err)
	})
}
