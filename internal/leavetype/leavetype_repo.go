package leavetype

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-leavehub/internal/tenant"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveType, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error)
	FindBySlugAndCompany(ctx context.Context, companyID, slug string) (*LeaveType, error)
	Create(ctx context.Context, t *LeaveType) error
	// SeedDefaults inserts the default catalog, ignoring rows whose
	// (company_id, slug) already exist. Safe under concurrent first access.
	SeedDefaults(ctx context.Context, types []LeaveType) error
	Update(ctx context.Context, t *LeaveType) error
	SoftDelete(ctx context.Context, companyID, id string) error
	HasOpenRequests(ctx context.Context, companyID, leaveTypeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindBySlugAndCompany(ctx context.Context, companyID, slug string) (*LeaveType, error) {
	var t LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&t, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Create(ctx context.Context, t *LeaveType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) SeedDefaults(ctx context.Context, types []LeaveType) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types).Error
}

func (r *repository) Update(ctx context.Context, t *LeaveType) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) SoftDelete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&LeaveType{}, "id = ?", id).Error
}

func (r *repository) HasOpenRequests(ctx context.Context, companyID, leaveTypeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Where("company_id = ?", companyID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("status NOT IN ?", []string{"approved", "rejected"}).
		Count(&count).Error
	return count > 0, err
}
