package leaverequest

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"go-leavehub/internal/tenant"
)

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *LeaveRequest) error
	// FindByIDForUpdate locks the request row for the duration of the
	// transaction. Returns sql.ErrNoRows when absent.
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	// UpdateReview persists the outcome of one review call: status, stage
	// and the per-stage reviewer columns.
	UpdateReview(ctx context.Context, r *LeaveRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	FindAllByCompany(ctx context.Context, companyID string, employeeID *string) ([]LeaveRequest, error)
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

const insertQuery = `
INSERT INTO leave_requests (
	id, company_id, request_number, employee_id, department_id, leave_type_id,
	start_date, end_date, half_day_start, half_day_end, days_requested, reason,
	status, current_stage,
	manager_reviewer_id, manager_reviewed_at, manager_notes,
	admin_reviewer_id, admin_reviewed_at, admin_notes,
	owner_reviewer_id, owner_reviewed_at, owner_notes
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
	$15, $16, $17, $18, $19, $20, $21, $22, $23
)
`

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	_, err := r.execer().ExecContext(ctx, insertQuery,
		lr.ID, lr.CompanyID, lr.RequestNumber, lr.EmployeeID, lr.DepartmentID, lr.LeaveTypeID,
		lr.StartDate, lr.EndDate, lr.HalfDayStart, lr.HalfDayEnd, lr.DaysRequested, lr.Reason,
		lr.Status, lr.CurrentStage,
		lr.Manager.ReviewerID, lr.Manager.ReviewedAt, lr.Manager.Notes,
		lr.Admin.ReviewerID, lr.Admin.ReviewedAt, lr.Admin.Notes,
		lr.Owner.ReviewerID, lr.Owner.ReviewedAt, lr.Owner.Notes,
	)
	return err
}

const findForUpdateQuery = `
SELECT
	id, company_id, request_number, employee_id, department_id, leave_type_id,
	start_date, end_date, half_day_start, half_day_end, days_requested, reason,
	status, current_stage,
	manager_reviewer_id, manager_reviewed_at, manager_notes,
	admin_reviewer_id, admin_reviewed_at, admin_notes,
	owner_reviewer_id, owner_reviewed_at, owner_notes,
	created_at, updated_at
FROM leave_requests
WHERE company_id = $1 AND id = $2
FOR UPDATE
`

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	row := r.querier().QueryRowContext(ctx, findForUpdateQuery, companyID, id)

	var lr LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.CompanyID, &lr.RequestNumber, &lr.EmployeeID, &lr.DepartmentID, &lr.LeaveTypeID,
		&lr.StartDate, &lr.EndDate, &lr.HalfDayStart, &lr.HalfDayEnd, &lr.DaysRequested, &lr.Reason,
		&lr.Status, &lr.CurrentStage,
		&lr.Manager.ReviewerID, &lr.Manager.ReviewedAt, &lr.Manager.Notes,
		&lr.Admin.ReviewerID, &lr.Admin.ReviewedAt, &lr.Admin.Notes,
		&lr.Owner.ReviewerID, &lr.Owner.ReviewedAt, &lr.Owner.Notes,
		&lr.CreatedAt, &lr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

const updateReviewQuery = `
UPDATE leave_requests
SET
	status = $3,
	current_stage = $4,
	manager_reviewer_id = $5, manager_reviewed_at = $6, manager_notes = $7,
	admin_reviewer_id = $8, admin_reviewed_at = $9, admin_notes = $10,
	owner_reviewer_id = $11, owner_reviewed_at = $12, owner_notes = $13,
	updated_at = NOW()
WHERE company_id = $1 AND id = $2
`

func (r *repository) UpdateReview(ctx context.Context, lr *LeaveRequest) error {
	_, err := r.execer().ExecContext(ctx, updateReviewQuery,
		lr.CompanyID, lr.ID,
		lr.Status, lr.CurrentStage,
		lr.Manager.ReviewerID, lr.Manager.ReviewedAt, lr.Manager.Notes,
		lr.Admin.ReviewerID, lr.Admin.ReviewedAt, lr.Admin.Notes,
		lr.Owner.ReviewerID, lr.Owner.ReviewedAt, lr.Owner.Notes,
	)
	return err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, employeeID *string) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC")

	if employeeID != nil && *employeeID != "" {
		q = q.Where("employee_id = ?", *employeeID)
	}

	var requests []LeaveRequest
	err := q.Find(&requests).Error
	return requests, err
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
