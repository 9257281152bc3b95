package postgres

import (
	"gorm.io/gorm"

	"github.com/opsarif/ngo-erp/internal/performance"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(l *performance.PerformanceLog) error {
	return r.db.Create(l).Error
}

func (r *Repository) GetByUser(userID int64) ([]*performance.PerformanceLog, error) {
	var logs []*performance.PerformanceLog
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *Repository) GetAll() ([]*performance.PerformanceLog, error) {
	var logs []*performance.PerformanceLog
	if err := r.db.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *Repository) GetByDepartment(departmentID int64) ([]*performance.PerformanceLog, error) {
	var logs []*performance.PerformanceLog
	err := r.db.
		Joins("JOIN users ON users.id = performance_logs.user_id").
		Where("users.department_id = ?", departmentID).
		Order("performance_logs.created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
