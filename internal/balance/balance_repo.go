package balance

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-leavehub/internal/tenant"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// FindForUpdate locks the ledger row. Returns sql.ErrNoRows when absent.
	// Must be called inside a transaction.
	FindForUpdate(ctx context.Context, key Key) (*LeaveBalance, error)
	// Insert tolerates a concurrent first access: on (company, employee,
	// type, year) conflict it is a no-op and reports inserted=false.
	Insert(ctx context.Context, b *LeaveBalance) (inserted bool, err error)
	UpdateAmounts(ctx context.Context, b *LeaveBalance) error
	FindAllByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

const findForUpdateQuery = `
SELECT id::text, allocated, used, pending, created_at, updated_at
FROM leave_balances
WHERE company_id = $1 AND employee_id = $2 AND leave_type_id = $3 AND year = $4
FOR UPDATE
`

func (r *repository) FindForUpdate(ctx context.Context, key Key) (*LeaveBalance, error) {
	row := r.querier().QueryRowContext(ctx, findForUpdateQuery,
		key.CompanyID, key.EmployeeID, key.LeaveTypeID, key.Year,
	)

	var (
		b  LeaveBalance
		id string
	)
	if err := row.Scan(&id, &b.Allocated, &b.Used, &b.Pending, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	balanceID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	b.ID = balanceID
	b.CompanyID = uuid.MustParse(key.CompanyID)
	b.EmployeeID = uuid.MustParse(key.EmployeeID)
	b.LeaveTypeID = uuid.MustParse(key.LeaveTypeID)
	b.Year = key.Year

	return &b, nil
}

const insertQuery = `
INSERT INTO leave_balances (id, company_id, employee_id, leave_type_id, year, allocated, used, pending)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (company_id, employee_id, leave_type_id, year) DO NOTHING
`

func (r *repository) Insert(ctx context.Context, b *LeaveBalance) (bool, error) {
	res, err := r.execer().ExecContext(ctx, insertQuery,
		b.ID, b.CompanyID, b.EmployeeID, b.LeaveTypeID, b.Year,
		b.Allocated, b.Used, b.Pending,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

const updateAmountsQuery = `
UPDATE leave_balances
SET used = $2, pending = $3, updated_at = NOW()
WHERE id = $1
`

func (r *repository) UpdateAmounts(ctx context.Context, b *LeaveBalance) error {
	_, err := r.execer().ExecContext(ctx, updateAmountsQuery, b.ID, b.Used, b.Pending)
	return err
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Order("leave_type_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
