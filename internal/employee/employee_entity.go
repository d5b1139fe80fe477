package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-leavehub/internal/domain"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	FullName     string
	Email        string      `gorm:"uniqueIndex"`
	Role         domain.Role `gorm:"type:varchar(20);not null;default:'employee'"`
	Active       bool        `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
