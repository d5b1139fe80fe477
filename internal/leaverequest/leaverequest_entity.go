package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-leavehub/internal/domain"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusInReview Status = "in_review"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// StageReview holds the reviewer metadata for one tier.
type StageReview struct {
	ReviewerID *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt *time.Time
	Notes      *string `gorm:"type:text"`
}

// LeaveRequest is the unit of locking for the approval workflow: every review
// runs under this row's lock, and the ledger row it references is only
// touched while that lock is held.
type LeaveRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	RequestNumber int64     `gorm:"not null"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index"`
	// DepartmentID is snapshotted at submission and never updated, so a
	// transfer mid-approval does not change who may review.
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	LeaveTypeID  uuid.UUID  `gorm:"type:uuid;not null"`

	StartDate     time.Time `gorm:"type:date;not null"`
	EndDate       time.Time `gorm:"type:date;not null"`
	HalfDayStart  bool
	HalfDayEnd    bool
	DaysRequested decimal.Decimal `gorm:"type:numeric(6,1);not null"`
	Reason        string          `gorm:"type:text"`

	Status       Status       `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_company_status"`
	CurrentStage domain.Stage `gorm:"type:varchar(20);not null"`

	Manager StageReview `gorm:"embedded;embeddedPrefix:manager_"`
	Admin   StageReview `gorm:"embedded;embeddedPrefix:admin_"`
	Owner   StageReview `gorm:"embedded;embeddedPrefix:owner_"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *LeaveRequest) Terminal() bool {
	return r.Status.Terminal()
}

func (r *LeaveRequest) Year() int {
	return r.StartDate.Year()
}

func (r *LeaveRequest) reviewFor(stage domain.Stage) *StageReview {
	switch stage {
	case domain.StageManager:
		return &r.Manager
	case domain.StageAdmin:
		return &r.Admin
	case domain.StageOwner:
		return &r.Owner
	}
	return nil
}
