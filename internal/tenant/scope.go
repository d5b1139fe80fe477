package tenant

import "gorm.io/gorm"

// Scope membatasi query ke satu tenant. Semua tabel domain memakai company_id.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// Active menyaring baris yang sudah di-soft-delete.
func Active() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL")
	}
}
