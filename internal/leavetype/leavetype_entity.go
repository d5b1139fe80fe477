package leavetype

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LeaveType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_types_company_slug"`
	Name      string    `gorm:"size:100;not null"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex:uq_leave_types_company_slug"`

	// DaysAllowed nil means unlimited.
	DaysAllowed         *decimal.Decimal `gorm:"type:numeric(6,1)"`
	IsPaid              bool             `gorm:"not null;default:true"`
	CarryForwardAllowed bool             `gorm:"not null;default:false"`
	MaxCarryForwardDays decimal.Decimal  `gorm:"type:numeric(6,1);not null;default:0"`
	RequiresApproval    bool             `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Unlimited types are exempt from the balance cap. Unpaid leave is always
// grantable regardless of allotment.
func (t LeaveType) Unlimited() bool {
	return t.DaysAllowed == nil || !t.IsPaid
}

// DefaultAllotment seeds a fresh balance row.
func (t LeaveType) DefaultAllotment() decimal.Decimal {
	if t.DaysAllowed == nil {
		return decimal.Zero
	}
	return *t.DaysAllowed
}

func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
