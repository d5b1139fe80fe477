package employee

import (
	"context"

	"gorm.io/gorm"

	"go-leavehub/internal/domain"
	"go-leavehub/internal/tenant"
)

// Repository is the read-only directory the approval workflow consults.
// Employee lifecycle (onboarding, offboarding) is owned elsewhere.
//
//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	ActiveManagerExists(ctx context.Context, companyID, departmentID string) (bool, error)
	ActiveAdminExists(ctx context.Context, companyID string) (bool, error)
	FindReviewerIDs(ctx context.Context, companyID string, stage domain.Stage, departmentID *string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) ActiveManagerExists(ctx context.Context, companyID, departmentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("department_id = ?", departmentID).
		Where("role = ?", domain.RoleManager).
		Where("active").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ActiveAdminExists(ctx context.Context, companyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("role IN ?", []domain.Role{domain.RoleAdmin, domain.RoleOwner}).
		Where("active").
		Count(&count).Error
	return count > 0, err
}

// FindReviewerIDs lists the active employees who can act at a stage, used to
// address escalation notifications. The department filter only applies at the
// manager stage.
func (r *repository) FindReviewerIDs(ctx context.Context, companyID string, stage domain.Stage, departmentID *string) ([]string, error) {
	q := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("active")

	switch stage {
	case domain.StageManager:
		if departmentID == nil {
			return nil, nil
		}
		q = q.Where("role = ?", domain.RoleManager).Where("department_id = ?", *departmentID)
	case domain.StageAdmin:
		q = q.Where("role IN ?", []domain.Role{domain.RoleAdmin, domain.RoleOwner})
	case domain.StageOwner:
		q = q.Where("role = ?", domain.RoleOwner)
	default:
		return nil, nil
	}

	var ids []string
	err := q.Pluck("id", &ids).Error
	return ids, err
}
