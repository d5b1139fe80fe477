package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is the per (company, employee, leave type, year) ledger row.
// Invariant for capped types: used + pending <= allocated. The row is only
// written through the Ledger operations, always under its row lock.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_scope"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_scope"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_scope"`
	Year        int       `gorm:"not null;uniqueIndex:uq_leave_balances_scope"`

	Allocated decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	Used      decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	Pending   decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *LeaveBalance) Available() decimal.Decimal {
	return b.Allocated.Sub(b.Used).Sub(b.Pending)
}

// Key identifies one ledger row.
type Key struct {
	CompanyID   string
	EmployeeID  string
	LeaveTypeID string
	Year        int
}
